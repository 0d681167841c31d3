// Package repotest holds behaviour tests shared by every repository backend
package repotest

import (
	"context"
	"testing"

	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// SampleRooms returns a small room set spanning two campuses
func SampleRooms() []*models.Room {
	return []*models.Room{
		{RoomNumber: "KMC201", Floor: "2", Building: "KM", Wing: "C", Persons: 30, SquareMeters: 60, Details: "Oppimistila", ReservableStudents: true},
		{RoomNumber: "KMD550", Floor: "5", Building: "KM", Wing: "D", Persons: 6, SquareMeters: 18, Details: "Ryhmätyötila", ReservableStudents: true, ReservableStaff: true},
		{RoomNumber: "MMA300", Floor: "3", Building: "MM", Wing: "A", Persons: 2, SquareMeters: 9, Details: "Työtila", ReservableStaff: true},
	}
}

// SampleCampuses returns the campuses matching SampleRooms
func SampleCampuses() []*models.Campus {
	return []*models.Campus{
		{
			Name:      "Karamalmi",
			Shorthand: "KM",
			ImageURL:  "karamalmi.jpg",
			Hours: models.WeekHours{
				Monday: &models.DayHours{OpenHour: intPtr(7), OpenMinute: intPtr(30), CloseHour: intPtr(21), CloseMinute: intPtr(0)},
				Sunday: &models.DayHours{IsClosed: true},
			},
		},
		{
			Name:      "Myllypuro",
			Shorthand: "MM",
			Hours: models.WeekHours{
				Monday: &models.DayHours{OpenHour: intPtr(8), OpenMinute: intPtr(0), CloseHour: intPtr(18), CloseMinute: intPtr(0)},
			},
		},
	}
}

// RunRoomTests exercises the RoomRepository contract against repo
func RunRoomTests(t *testing.T, repo repository.RoomRepository) {
	ctx := context.Background()

	t.Run("EmptyList", func(t *testing.T) {
		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})

	t.Run("UpsertAndGet", func(t *testing.T) {
		room := SampleRooms()[0]
		saved, err := repo.UpsertRoom(ctx, room)
		require.NoError(t, err)
		assert.Equal(t, room, saved)

		got, err := repo.GetRoom(ctx, room.RoomNumber)
		require.NoError(t, err)
		assert.Equal(t, room, got)
	})

	t.Run("UpsertReplaces", func(t *testing.T) {
		room := SampleRooms()[0]
		room.Persons = 40
		room.Details = "Avoin oppimistila"
		_, err := repo.UpsertRoom(ctx, room)
		require.NoError(t, err)

		got, err := repo.GetRoom(ctx, room.RoomNumber)
		require.NoError(t, err)
		assert.Equal(t, 40, got.Persons)
		assert.Equal(t, "Avoin oppimistila", got.Details)

		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		assert.Len(t, rooms, 1)
	})

	t.Run("GetUnknown", func(t *testing.T) {
		_, err := repo.GetRoom(ctx, "XXX999")
		assert.ErrorIs(t, err, models.ErrRoomNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		deleted, err := repo.DeleteRoom(ctx, "KMC201")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteRoom(ctx, "KMC201")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetRoom(ctx, "KMC201")
		assert.ErrorIs(t, err, models.ErrRoomNotFound)
	})

	t.Run("Replace", func(t *testing.T) {
		_, err := repo.UpsertRoom(ctx, &models.Room{RoomNumber: "OLD001"})
		require.NoError(t, err)

		require.NoError(t, repo.ReplaceRooms(ctx, SampleRooms()))

		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 3)

		numbers := []string{rooms[0].RoomNumber, rooms[1].RoomNumber, rooms[2].RoomNumber}
		assert.ElementsMatch(t, []string{"KMC201", "KMD550", "MMA300"}, numbers)

		_, err = repo.GetRoom(ctx, "OLD001")
		assert.ErrorIs(t, err, models.ErrRoomNotFound)
	})
}

// RunBusinessHoursTests exercises the BusinessHoursRepository contract against repo
func RunBusinessHoursTests(t *testing.T, repo repository.BusinessHoursRepository) {
	ctx := context.Background()

	t.Run("EmptyList", func(t *testing.T) {
		campuses, err := repo.GetCampusHours(ctx)
		require.NoError(t, err)
		assert.Empty(t, campuses)
	})

	t.Run("UpdateUnknown", func(t *testing.T) {
		_, err := repo.UpdateCampusHours(ctx, "KM", models.WeekHours{})
		assert.ErrorIs(t, err, models.ErrCampusNotFound)
	})

	t.Run("ReplaceAndList", func(t *testing.T) {
		require.NoError(t, repo.ReplaceCampuses(ctx, SampleCampuses()))

		campuses, err := repo.GetCampusHours(ctx)
		require.NoError(t, err)
		require.Len(t, campuses, 2)
		assert.Equal(t, SampleCampuses(), campuses)
	})

	t.Run("Update", func(t *testing.T) {
		week := models.WeekHours{
			Monday:  &models.DayHours{OpenHour: intPtr(8), OpenMinute: intPtr(0), CloseHour: intPtr(20), CloseMinute: intPtr(0)},
			Tuesday: &models.DayHours{IsClosed: true},
		}

		campus, err := repo.UpdateCampusHours(ctx, "KM", week)
		require.NoError(t, err)
		assert.Equal(t, "Karamalmi", campus.Name)
		assert.Equal(t, week, campus.Hours)

		campuses, err := repo.GetCampusHours(ctx)
		require.NoError(t, err)
		for _, c := range campuses {
			if c.Shorthand == "KM" {
				assert.Equal(t, week, c.Hours)
				assert.Equal(t, "karamalmi.jpg", c.ImageURL)
			}
		}
	})
}

// RunReplaceAllTests exercises the combined replace of a full Repository
func RunReplaceAllTests(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	t.Run("ReplacesBoth", func(t *testing.T) {
		_, err := repo.UpsertRoom(ctx, &models.Room{RoomNumber: "OLD001"})
		require.NoError(t, err)

		require.NoError(t, repo.ReplaceAll(ctx, SampleRooms(), SampleCampuses()))

		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		assert.Len(t, rooms, 3)
		_, err = repo.GetRoom(ctx, "OLD001")
		assert.ErrorIs(t, err, models.ErrRoomNotFound)

		campuses, err := repo.GetCampusHours(ctx)
		require.NoError(t, err)
		assert.Equal(t, SampleCampuses(), campuses)
	})

	t.Run("NilCampusesKeepsStored", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, SampleRooms()[:1], nil))

		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "KMC201", rooms[0].RoomNumber)

		campuses, err := repo.GetCampusHours(ctx)
		require.NoError(t, err)
		assert.Len(t, campuses, 2)
	})

	t.Run("EmptyCampusesClears", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, nil, []*models.Campus{}))

		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		assert.Empty(t, rooms)

		campuses, err := repo.GetCampusHours(ctx)
		require.NoError(t, err)
		assert.Empty(t, campuses)
	})
}
