package availability

import (
	"slices"
	"strings"

	"github.com/metropolia/infoscreen/internal/models"
)

// Filter holds the optional room predicates of a free space query.
// Zero values disable the corresponding predicate.
type Filter struct {
	Floor              string
	Building           string
	Wing               string
	Persons            *int
	SquareMeters       *int
	Details            string
	GroupDetails       string
	ReservableStudents string
	ReservableStaff    string
}

// IsEmpty reports whether no predicate is set
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Match reports whether room satisfies every set predicate
func (f Filter) Match(room *models.Room) bool {
	if f.Floor != "" && f.Floor != AllFloors && room.Floor != f.Floor {
		return false
	}
	if f.Building != "" && room.Building != f.Building {
		return false
	}
	if f.Wing != "" && room.Wing != f.Wing {
		return false
	}
	if f.Persons != nil && room.Persons < *f.Persons {
		return false
	}
	if f.SquareMeters != nil && room.SquareMeters < *f.SquareMeters {
		return false
	}
	if needle := strings.ToLower(strings.TrimSpace(f.Details)); needle != "" {
		if !strings.Contains(strings.ToLower(room.Details), needle) {
			return false
		}
	}
	if f.GroupDetails != "" {
		// An unknown group has no members and matches nothing
		details, _ := groupDetails(f.GroupDetails)
		if !slices.Contains(details, room.Details) {
			return false
		}
	}
	if f.ReservableStudents != "" && room.ReservableStudentsFlag() != f.ReservableStudents {
		return false
	}
	if f.ReservableStaff != "" && room.ReservableStaffFlag() != f.ReservableStaff {
		return false
	}
	return true
}

// Apply returns the rooms matching f, preserving input order
func (f Filter) Apply(rooms []*models.Room) []*models.Room {
	matched := make([]*models.Room, 0, len(rooms))
	for _, room := range rooms {
		if f.Match(room) {
			matched = append(matched, room)
		}
	}
	return matched
}
