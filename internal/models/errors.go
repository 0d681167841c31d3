package models

import "errors"

var (
	// ErrRoomNotFound is returned when a room number is unknown
	ErrRoomNotFound = errors.New("room not found")
	// ErrCampusNotFound is returned when a campus shorthand is unknown
	ErrCampusNotFound = errors.New("campus not found")
	// ErrRoomExists is returned when creating a room that is already stored
	ErrRoomExists = errors.New("room already exists")
	// ErrNoRooms is returned when the room store holds no rooms at all
	ErrNoRooms = errors.New("rooms data not found")
)
