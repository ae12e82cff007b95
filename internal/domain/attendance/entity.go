package attendance

import (
	"sort"
	"time"

	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
)

type Type string

const (
	TypeCheckIn  Type = "checkin"
	TypeCheckOut Type = "checkout"
)

// Derived status labels. Status is never stored; it is computed from the
// most recent record.
const (
	StatusWorking    = "Working"
	StatusNotWorking = "Not working"
)

// Record is one attendance event. Created once at check-in/check-out and
// never mutated. JSON tags match the shape the dashboards persist locally.
type Record struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	UserName string     `json:"userName"`
	Type     Type       `json:"type"`
	Time     time.Time  `json:"time"`
	Lat      float64    `json:"lat"`
	Lng      float64    `json:"lng"`
	Address  string     `json:"address"`
	Device   geo.Device `json:"device"`
}

// SortNewestFirst orders records by descending timestamp. The sort is stable
// so records sharing a timestamp keep their relative order across calls.
func SortNewestFirst(rows []Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time.After(rows[j].Time)
	})
}
