package models

import (
	"encoding/json"
	"time"
)

// EnrichedRoom is a room joined with its campus hours and reservations at
// one evaluation instant. It is recomputed per request and never stored.
type EnrichedRoom struct {
	Room
	Availability
}

// UnmarshalJSON decodes the room and its availability separately since
// Room has its own decoder
func (e *EnrichedRoom) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &e.Room); err != nil {
		return err
	}
	return json.Unmarshal(data, &e.Availability)
}

// Availability is the live state of a room
type Availability struct {
	Campus              *string            `json:"campus"`
	IsOpen              bool               `json:"isOpen"`
	Reserved            bool               `json:"reserved"`
	CurrentReservation  *ReservationWindow `json:"currentReservation"`
	NextReservation     *ReservationWindow `json:"nextReservation"`
	FreeForMinutes      *int               `json:"freeForMinutes"`
	FreeUntil           *time.Time         `json:"freeUntil"`
	ClosingTime         *time.Time         `json:"closingTime"`
	MinutesUntilClosing *int               `json:"minutesUntilClosing"`
	FreeUntilClosing    bool               `json:"freeUntilClosing"`
	FloorColorCode      *string            `json:"floorColorCode"`
}

// RoomMetadata lists the distinct values present in the unfiltered room
// set, used to build filter controls
type RoomMetadata struct {
	Floors        []string `json:"floors"`
	Buildings     []string `json:"buildings"`
	Wings         []string `json:"wings"`
	Details       []string `json:"details"`
	DetailsGroups []string `json:"detailsGroups"`
}

// FreeSpace is the payload of the free space endpoint
type FreeSpace struct {
	Metadata RoomMetadata    `json:"metadata"`
	Rooms    []*EnrichedRoom `json:"rooms"`
}
