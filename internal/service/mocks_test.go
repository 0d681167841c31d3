package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/metropolia/infoscreen/internal/models"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) SearchReservations(ctx context.Context, room, startDate, endDate string) ([]models.Reservation, error) {
	args := m.Called(ctx, room, startDate, endDate)
	reservations, _ := args.Get(0).([]models.Reservation)
	return reservations, args.Error(1)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) RoomExists(ctx context.Context, roomNumber string) (bool, error) {
	args := m.Called(ctx, roomNumber)
	return args.Bool(0), args.Error(1)
}
