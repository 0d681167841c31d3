package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Room represents a physical room shown on the info-screens
type Room struct {
	RoomNumber         string `json:"roomNumber" db:"room_number" validate:"required,room_number"`
	Floor              string `json:"floor" db:"floor" validate:"max=8"`
	Building           string `json:"building" db:"building" validate:"max=16"`
	Wing               string `json:"wing" db:"wing" validate:"max=8"`
	Persons            int    `json:"persons" db:"persons" validate:"gte=0"`
	SquareMeters       int    `json:"squareMeters" db:"square_meters" validate:"gte=0"`
	Details            string `json:"details" db:"details" validate:"max=128"`
	ReservableStudents bool   `json:"reservableStudents" db:"reservable_students"`
	ReservableStaff    bool   `json:"reservableStaff" db:"reservable_staff"`
}

// rawRoom mirrors Room but accepts the legacy string encodings used in the
// seed data ("persons": "10", "reservableStaff": "true")
type rawRoom struct {
	RoomNumber         string          `json:"roomNumber"`
	Floor              json.RawMessage `json:"floor"`
	Building           string          `json:"building"`
	Wing               string          `json:"wing"`
	Persons            json.RawMessage `json:"persons"`
	SquareMeters       json.RawMessage `json:"squareMeters"`
	Details            string          `json:"details"`
	ReservableStudents json.RawMessage `json:"reservableStudents"`
	ReservableStaff    json.RawMessage `json:"reservableStaff"`
}

// UnmarshalJSON decodes a room from either typed or legacy string fields
func (r *Room) UnmarshalJSON(data []byte) error {
	var raw rawRoom
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	floor, err := flexString(raw.Floor)
	if err != nil {
		return fmt.Errorf("floor: %w", err)
	}
	persons, err := flexInt(raw.Persons)
	if err != nil {
		return fmt.Errorf("persons: %w", err)
	}
	squareMeters, err := flexInt(raw.SquareMeters)
	if err != nil {
		return fmt.Errorf("squareMeters: %w", err)
	}
	students, err := flexBool(raw.ReservableStudents)
	if err != nil {
		return fmt.Errorf("reservableStudents: %w", err)
	}
	staff, err := flexBool(raw.ReservableStaff)
	if err != nil {
		return fmt.Errorf("reservableStaff: %w", err)
	}

	*r = Room{
		RoomNumber:         strings.TrimSpace(raw.RoomNumber),
		Floor:              floor,
		Building:           raw.Building,
		Wing:               raw.Wing,
		Persons:            persons,
		SquareMeters:       squareMeters,
		Details:            raw.Details,
		ReservableStudents: students,
		ReservableStaff:    staff,
	}
	return nil
}

// ReservableStudentsFlag returns the legacy string flag used by query filters
func (r *Room) ReservableStudentsFlag() string {
	return strconv.FormatBool(r.ReservableStudents)
}

// ReservableStaffFlag returns the legacy string flag used by query filters
func (r *Room) ReservableStaffFlag() string {
	return strconv.FormatBool(r.ReservableStaff)
}

func flexString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func flexInt(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func flexBool(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
