// Package repository defines interfaces for data storage
package repository

import (
	"context"

	"github.com/metropolia/infoscreen/internal/models"
)

// RoomRepository stores room records keyed by room number
type RoomRepository interface {
	ListRooms(ctx context.Context) ([]*models.Room, error)
	// GetRoom returns models.ErrRoomNotFound for unknown room numbers
	GetRoom(ctx context.Context, roomNumber string) (*models.Room, error)
	UpsertRoom(ctx context.Context, room *models.Room) (*models.Room, error)
	// DeleteRoom reports whether a room was removed
	DeleteRoom(ctx context.Context, roomNumber string) (bool, error)
	// ReplaceRooms drops every stored room and stores rooms instead
	ReplaceRooms(ctx context.Context, rooms []*models.Room) error
}

// BusinessHoursRepository stores campus business hours keyed by shorthand
type BusinessHoursRepository interface {
	GetCampusHours(ctx context.Context) ([]*models.Campus, error)
	// UpdateCampusHours returns models.ErrCampusNotFound for unknown campuses
	UpdateCampusHours(ctx context.Context, shorthand string, hours models.WeekHours) (*models.Campus, error)
	// ReplaceCampuses drops every stored campus and stores campuses instead
	ReplaceCampuses(ctx context.Context, campuses []*models.Campus) error
}

// Repository combines both stores with a health probe
type Repository interface {
	RoomRepository
	BusinessHoursRepository
	// ReplaceAll swaps the room set and the campus set together so a failed
	// write leaves both untouched. A nil campuses keeps the stored campuses.
	ReplaceAll(ctx context.Context, rooms []*models.Room, campuses []*models.Campus) error
	Ping(ctx context.Context) error
	Close() error
}
