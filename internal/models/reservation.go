package models

import "time"

// ResourceParent is the enclosing resource of a reservation resource
type ResourceParent struct {
	Name string `json:"name"`
}

// Resource is a room or student group attached to a reservation
type Resource struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Code   string          `json:"code"`
	Parent *ResourceParent `json:"parent,omitempty"`
}

// Reservation is a reservation window returned by the OpenData API.
// StartDate and EndDate are Finland local time without an offset.
type Reservation struct {
	ID           string     `json:"id"`
	Subject      string     `json:"subject"`
	Description  string     `json:"description,omitempty"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	ModifiedDate string     `json:"modifiedDate,omitempty"`
	Resources    []Resource `json:"resources,omitempty"`
}

// ReservationWindow is a reservation with its boundaries converted to UTC
type ReservationWindow struct {
	Reservation
	StartDateUTC time.Time `json:"startDateUtc"`
	EndDateUTC   time.Time `json:"endDateUtc"`
}

// Contains reports whether t falls inside the window, boundaries included
func (w *ReservationWindow) Contains(t time.Time) bool {
	return !w.StartDateUTC.After(t) && !w.EndDateUTC.Before(t)
}
