package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/handler/http/response"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
)

type AttendanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	MyStatus(w http.ResponseWriter, r *http.Request)
	MyLogs(w http.ResponseWriter, r *http.Request)
	UserLogs(w http.ResponseWriter, r *http.Request)
	ResetDemo(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// claimIdentity pulls the acting user out of the verified token.
func claimIdentity(r *http.Request) (userID string, name string) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", ""
	}
	userID, _ = claims["user_id"].(string)
	name, _ = claims["name"].(string)
	return userID, name
}

// capLogs applies the optional ?limit= display cap. Capping is a
// presentation concern; the service always returns the full sequence.
func capLogs(r *http.Request, logs []attendance.Record) []attendance.Record {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return logs
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 || limit >= len(logs) {
		return logs
	}
	return logs[:limit]
}

// Create implements AttendanceHandler.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.UserID, req.UserName = claimIdentity(r)
	req.Device = geo.DeviceFromRequest(r)

	result, err := h.attendanceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded", result)
}

// MyStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := claimIdentity(r)
	response.Success(w, h.attendanceService.LatestStatusFor(r.Context(), userID))
}

// MyLogs implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyLogs(w http.ResponseWriter, r *http.Request) {
	userID, _ := claimIdentity(r)
	logs := h.attendanceService.UserLogs(r.Context(), userID)
	response.Success(w, capLogs(r, logs))
}

// UserLogs implements AttendanceHandler.
func (h *attendanceHandlerImpl) UserLogs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	logs := h.attendanceService.UserLogs(r.Context(), userID)
	response.Success(w, capLogs(r, logs))
}

// ResetDemo implements AttendanceHandler.
func (h *attendanceHandlerImpl) ResetDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.ResetDemo(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Local demo data cleared", nil)
}
