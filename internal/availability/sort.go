package availability

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/metropolia/infoscreen/internal/models"
)

// SortRooms orders enriched rooms by floor (numeric), then wing, then the
// numeric part of the room number after its three-letter prefix. The room
// number itself breaks remaining ties. Non-numeric values sort last.
func SortRooms(rooms []*models.EnrichedRoom) {
	slices.SortStableFunc(rooms, func(a, b *models.EnrichedRoom) int {
		return compareRooms(&a.Room, &b.Room)
	})
}

// SortPlainRooms applies the same ordering to stored rooms
func SortPlainRooms(rooms []*models.Room) {
	slices.SortStableFunc(rooms, compareRooms)
}

func compareRooms(a, b *models.Room) int {
	if c := compareNumeric(a.Floor, b.Floor); c != 0 {
		return c
	}
	if c := strings.Compare(a.Wing, b.Wing); c != 0 {
		return c
	}
	if c := compareNumeric(roomSuffix(a.RoomNumber), roomSuffix(b.RoomNumber)); c != 0 {
		return c
	}
	return strings.Compare(a.RoomNumber, b.RoomNumber)
}

func compareNumeric(a, b string) int {
	na, errA := leadingInt(a)
	nb, errB := leadingInt(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return 0
}

// leadingInt parses the leading decimal digits of s
func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end > 0 && end < len(s) {
		s = s[:end]
	}
	return strconv.Atoi(s)
}

func roomSuffix(roomNumber string) string {
	if len(roomNumber) <= 3 {
		return ""
	}
	return roomNumber[3:]
}
