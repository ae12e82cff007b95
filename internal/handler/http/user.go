package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{
		userService: userService,
	}
}

// List implements UserHandler. Admin roster: every user with live status.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	roster, err := h.userService.Roster(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, roster)
}

// Get implements UserHandler.
func (h *userHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.userService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}
