package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/repository/memory"
	"github.com/metropolia/infoscreen/internal/repository/repotest"
)

func intPtr(v int) *int { return &v }

func newRoomService(t *testing.T) (*RoomService, *memory.Repository, *mockDirectory, *[]UpdateEvent) {
	repo := memory.NewRepository()
	directory := &mockDirectory{}
	svc := NewRoomService(repo, directory)

	events := &[]UpdateEvent{}
	svc.RegisterUpdateCallback(func(e UpdateEvent) {
		*events = append(*events, e)
	})
	return svc, repo, directory, events
}

func TestCreateRoom(t *testing.T) {
	svc, _, _, events := newRoomService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, &models.Room{RoomNumber: " KMC201 ", Floor: "2", Building: "KM", Wing: "C", Persons: 30})
	require.NoError(t, err)
	assert.Equal(t, "KMC201", room.RoomNumber)
	assert.Equal(t, []UpdateEvent{{Kind: UpdateRooms, Key: "KMC201"}}, *events)

	_, err = svc.CreateRoom(ctx, &models.Room{RoomNumber: "KMC201"})
	assert.ErrorIs(t, err, models.ErrRoomExists)
	assert.Len(t, *events, 1)
}

func TestCreateRoomValidation(t *testing.T) {
	svc, _, _, events := newRoomService(t)

	tests := []struct {
		name  string
		room  models.Room
		field string
	}{
		{"MissingNumber", models.Room{}, "roomNumber"},
		{"MalformedNumber", models.Room{RoomNumber: "K-1"}, "roomNumber"},
		{"NegativePersons", models.Room{RoomNumber: "KMC201", Persons: -1}, "persons"},
		{"NegativeArea", models.Room{RoomNumber: "KMC201", SquareMeters: -5}, "squareMeters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := tt.room
			_, err := svc.CreateRoom(context.Background(), &room)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	assert.Empty(t, *events)
}

func TestSaveRoom(t *testing.T) {
	svc, repo, _, events := newRoomService(t)
	ctx := context.Background()

	saved, err := svc.SaveRoom(ctx, "KMD550", &models.Room{Floor: "5", Persons: 6})
	require.NoError(t, err)
	assert.Equal(t, "KMD550", saved.RoomNumber)

	saved, err = svc.SaveRoom(ctx, "KMD550", &models.Room{RoomNumber: "KMD550", Floor: "5", Persons: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, saved.Persons)

	stored, err := repo.GetRoom(ctx, "KMD550")
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Persons)
	assert.Len(t, *events, 2)

	_, err = svc.SaveRoom(ctx, "KMD550", &models.Room{RoomNumber: "KMD551"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "roomNumber")
}

func TestDeleteRoom(t *testing.T) {
	svc, repo, _, events := newRoomService(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceRooms(ctx, repotest.SampleRooms()))

	require.NoError(t, svc.DeleteRoom(ctx, "KMC201"))
	assert.Equal(t, []UpdateEvent{{Kind: UpdateRooms, Key: "KMC201"}}, *events)

	err := svc.DeleteRoom(ctx, "KMC201")
	assert.ErrorIs(t, err, models.ErrRoomNotFound)
	assert.Len(t, *events, 1)
}

func TestListRoomsSorted(t *testing.T) {
	svc, repo, _, _ := newRoomService(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceRooms(ctx, repotest.SampleRooms()))

	rooms, err := svc.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "KMC201", rooms[0].RoomNumber)
	assert.Equal(t, "MMA300", rooms[1].RoomNumber)
	assert.Equal(t, "KMD550", rooms[2].RoomNumber)
}

func TestValidateRoom(t *testing.T) {
	svc, _, directory, _ := newRoomService(t)
	ctx := context.Background()

	directory.On("RoomExists", mock.Anything, "KMC201").Return(true, nil)
	directory.On("RoomExists", mock.Anything, "KMX999").Return(false, nil)

	exists, err := svc.ValidateRoom(ctx, " KMC201")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.ValidateRoom(ctx, "KMX999")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.ValidateRoom(ctx, "")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	directory.AssertExpectations(t)
}

func TestBusinessHours(t *testing.T) {
	svc, repo, _, events := newRoomService(t)
	ctx := context.Background()

	_, err := svc.GetBusinessHours(ctx)
	assert.ErrorIs(t, err, models.ErrCampusNotFound)

	require.NoError(t, repo.ReplaceCampuses(ctx, repotest.SampleCampuses()))

	campuses, err := svc.GetBusinessHours(ctx)
	require.NoError(t, err)
	assert.Len(t, campuses, 2)

	week := models.WeekHours{Monday: &models.DayHours{OpenHour: intPtr(9), OpenMinute: intPtr(0), CloseHour: intPtr(15), CloseMinute: intPtr(0)}}
	campus, err := svc.UpdateCampusHours(ctx, "MM", week)
	require.NoError(t, err)
	assert.Equal(t, 15, *campus.Hours.Monday.CloseHour)
	assert.Equal(t, []UpdateEvent{{Kind: UpdateBusinessHours, Key: "MM"}}, *events)

	_, err = svc.UpdateCampusHours(ctx, "XX", week)
	assert.ErrorIs(t, err, models.ErrCampusNotFound)

	invalid := models.WeekHours{Friday: &models.DayHours{OpenHour: intPtr(25)}}
	_, err = svc.UpdateCampusHours(ctx, "MM", invalid)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "friday.hours")
}

func TestImport(t *testing.T) {
	svc, repo, _, events := newRoomService(t)
	ctx := context.Background()

	result, err := svc.Import(ctx, ImportData{Rooms: repotest.SampleRooms(), Campuses: repotest.SampleCampuses()})
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Rooms: 3, Campuses: 2}, result)
	assert.Len(t, *events, 2)

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	// Rooms only import keeps the stored campuses
	result, err = svc.Import(ctx, ImportData{Rooms: repotest.SampleRooms()[:1]})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Campuses)

	campuses, err := repo.GetCampusHours(ctx)
	require.NoError(t, err)
	assert.Len(t, campuses, 2)
}

// fullDisk rejects every combined write
type fullDisk struct {
	*memory.Repository
}

func (fullDisk) ReplaceAll(ctx context.Context, rooms []*models.Room, campuses []*models.Campus) error {
	return errors.New("disk full")
}

func TestImportStoreFailureKeepsStoredData(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	_, err := repo.UpsertRoom(ctx, &models.Room{RoomNumber: "KMC201"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceCampuses(ctx, repotest.SampleCampuses()))

	svc := NewRoomService(fullDisk{repo}, nil)
	var events []UpdateEvent
	svc.RegisterUpdateCallback(func(e UpdateEvent) { events = append(events, e) })

	_, err = svc.Import(ctx, ImportData{
		Rooms:    []*models.Room{{RoomNumber: "KMD550"}},
		Campuses: []*models.Campus{{Name: "Myllypuro", Shorthand: "MM"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "KMC201", rooms[0].RoomNumber)

	campuses, err := repo.GetCampusHours(ctx)
	require.NoError(t, err)
	assert.Len(t, campuses, 2)
	assert.Empty(t, events)
}

func TestImportRejectsInvalidData(t *testing.T) {
	svc, repo, _, events := newRoomService(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceRooms(ctx, repotest.SampleRooms()))

	_, err := svc.Import(ctx, ImportData{Rooms: []*models.Room{{RoomNumber: "KMC201"}, {RoomNumber: "bad!"}}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "rooms[1].roomNumber")

	_, err = svc.Import(ctx, ImportData{Rooms: []*models.Room{{RoomNumber: "KMC201"}, {RoomNumber: "KMC201"}}})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "rooms[1].roomNumber")

	_, err = svc.Import(ctx, ImportData{Campuses: []*models.Campus{{Name: "No shorthand"}}})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "campuses[0].shorthand")

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 3, "invalid import must not touch stored rooms")
	assert.Empty(t, *events)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"persons": "Value must be at least 0", "floor": "Invalid value"}}
	assert.Equal(t, "validation failed: floor: Invalid value, persons: Value must be at least 0", err.Error())
}
