// Package zipcode manages the deliverable zip code list. Each zip code
// carries a lockdown weekday on which deliveries to it are frozen.
package zipcode

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a zip code is not in the deliverable list.
var ErrNotFound = errors.New("zipcode: not found")

// ZipCode is a deliverable postal code. LockdownDay is a weekday from 0
// (Sunday) through 6 (Saturday); -1 means the code is never locked down.
type ZipCode struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	City        string    `json:"city"`
	LockdownDay int       `json:"lockdown_day"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LockedOn reports whether deliveries to this zip code are frozen on the
// given weekday.
func (z ZipCode) LockedOn(day time.Weekday) bool {
	return z.LockdownDay >= 0 && z.LockdownDay == int(day)
}
