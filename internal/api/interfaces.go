package api

import (
	"context"

	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/service"
)

// RoomServicer defines the room and business hours operations needed by API handlers
type RoomServicer interface {
	ListRooms(ctx context.Context) ([]*models.Room, error)
	GetRoom(ctx context.Context, roomNumber string) (*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error)
	SaveRoom(ctx context.Context, roomNumber string, room *models.Room) (*models.Room, error)
	DeleteRoom(ctx context.Context, roomNumber string) error
	ValidateRoom(ctx context.Context, roomNumber string) (bool, error)

	GetBusinessHours(ctx context.Context) ([]*models.Campus, error)
	UpdateCampusHours(ctx context.Context, shorthand string, hours models.WeekHours) (*models.Campus, error)

	Import(ctx context.Context, data service.ImportData) (*service.ImportResult, error)
}

// FreeSpaceServicer computes the enriched free space view
type FreeSpaceServicer interface {
	FreeSpace(ctx context.Context, q service.FreeSpaceQuery) (*models.FreeSpace, error)
}

// ReservationSearcher is the reservation API surface exposed as passthrough endpoints
type ReservationSearcher interface {
	SearchReservations(ctx context.Context, room, startDate, endDate string) ([]models.Reservation, error)
	SearchByRealization(ctx context.Context, realizations, studentGroups []string) ([]models.Reservation, error)
	BuildingRooms(ctx context.Context, buildingID string) ([]models.Resource, error)
}

// Pinger checks that a backing store answers
type Pinger interface {
	Ping(ctx context.Context) error
}
