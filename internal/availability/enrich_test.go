package availability

import (
	"testing"
	"time"

	"github.com/metropolia/infoscreen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func hours(open, openMin, closeHour, closeMin int) *models.DayHours {
	return &models.DayHours{
		OpenHour:    intPtr(open),
		OpenMinute:  intPtr(openMin),
		CloseHour:   intPtr(closeHour),
		CloseMinute: intPtr(closeMin),
	}
}

func karamalmi() []*models.Campus {
	return []*models.Campus{{
		Name:      "Karamalmi",
		Shorthand: "KM",
		Hours: models.WeekHours{
			Monday: hours(7, 30, 21, 0),
			Sunday: &models.DayHours{IsClosed: true},
		},
	}}
}

func kmc201() *models.Room {
	return &models.Room{
		RoomNumber: "KMC201",
		Floor:      "2",
		Building:   "KM",
		Wing:       "C",
		Persons:    10,
		Details:    "Oppimistila",
	}
}

// Monday 2024-01-15 10:00 Finland time
var mondayMorning = time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)

func TestEnrichOpenWithoutReservations(t *testing.T) {
	enriched, err := Enrich(kmc201(), karamalmi(), nil, mondayMorning)
	require.NoError(t, err)

	assert.True(t, enriched.IsOpen)
	assert.False(t, enriched.Reserved)
	assert.Nil(t, enriched.CurrentReservation)
	assert.Nil(t, enriched.NextReservation)
	require.NotNil(t, enriched.FreeForMinutes)
	assert.Equal(t, 720, *enriched.FreeForMinutes)
	require.NotNil(t, enriched.MinutesUntilClosing)
	assert.Equal(t, 720, *enriched.MinutesUntilClosing)
	assert.True(t, enriched.FreeUntilClosing)
	assert.Equal(t, time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC), *enriched.ClosingTime)
	assert.Equal(t, *enriched.ClosingTime, *enriched.FreeUntil)
	require.NotNil(t, enriched.Campus)
	assert.Equal(t, "Karamalmi", *enriched.Campus)
	require.NotNil(t, enriched.FloorColorCode)
	assert.Equal(t, "#F8DC0E", *enriched.FloorColorCode)
}

func TestEnrichUpcomingReservation(t *testing.T) {
	now := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)
	reservations := []models.Reservation{{
		ID:        "r1",
		Subject:   "Ohjelmointi",
		StartDate: "2024-01-15T10:00:00",
		EndDate:   "2024-01-15T11:00:00",
	}}

	enriched, err := Enrich(kmc201(), karamalmi(), reservations, now)
	require.NoError(t, err)

	assert.False(t, enriched.Reserved)
	assert.Nil(t, enriched.CurrentReservation)
	require.NotNil(t, enriched.NextReservation)
	assert.Equal(t, "r1", enriched.NextReservation.ID)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), enriched.NextReservation.StartDateUTC)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), enriched.NextReservation.EndDateUTC)
	require.NotNil(t, enriched.FreeForMinutes)
	assert.Equal(t, 30, *enriched.FreeForMinutes)
	assert.False(t, enriched.FreeUntilClosing)
	assert.Equal(t, enriched.NextReservation.StartDateUTC, *enriched.FreeUntil)
}

func TestEnrichCurrentlyReserved(t *testing.T) {
	now := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	reservations := []models.Reservation{
		{ID: "later", StartDate: "2024-01-15T13:00:00", EndDate: "2024-01-15T14:00:00"},
		{ID: "overlap-late", StartDate: "2024-01-15T10:15:00", EndDate: "2024-01-15T11:00:00"},
		{ID: "overlap-early", StartDate: "2024-01-15T10:00:00", EndDate: "2024-01-15T12:00:00"},
	}

	enriched, err := Enrich(kmc201(), karamalmi(), reservations, now)
	require.NoError(t, err)

	assert.True(t, enriched.Reserved)
	require.NotNil(t, enriched.CurrentReservation)
	assert.Equal(t, "overlap-early", enriched.CurrentReservation.ID)
	require.NotNil(t, enriched.NextReservation)
	assert.Equal(t, "later", enriched.NextReservation.ID)
	assert.False(t, enriched.FreeUntilClosing)
	assert.Equal(t, 150, *enriched.FreeForMinutes)
}

func TestEnrichReservationBoundariesInclusive(t *testing.T) {
	reservations := []models.Reservation{{ID: "r1", StartDate: "2024-01-15T09:00:00", EndDate: "2024-01-15T10:00:00"}}

	atStart, err := Enrich(kmc201(), karamalmi(), reservations, time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, atStart.Reserved)

	atEnd, err := Enrich(kmc201(), karamalmi(), reservations, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, atEnd.Reserved)
}

func TestEnrichClosedDay(t *testing.T) {
	sunday := time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC)

	enriched, err := Enrich(kmc201(), karamalmi(), nil, sunday)
	require.NoError(t, err)

	assert.False(t, enriched.IsOpen)
	assert.Nil(t, enriched.ClosingTime)
	assert.Nil(t, enriched.FreeForMinutes)
	assert.Nil(t, enriched.MinutesUntilClosing)
	assert.Nil(t, enriched.FreeUntil)
	assert.False(t, enriched.FreeUntilClosing)
}

func TestEnrichMissingDayIsClosed(t *testing.T) {
	tuesday := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)

	enriched, err := Enrich(kmc201(), karamalmi(), nil, tuesday)
	require.NoError(t, err)
	assert.False(t, enriched.IsOpen)
	assert.Nil(t, enriched.ClosingTime)
}

func TestEnrichIncompleteHoursAreClosed(t *testing.T) {
	campuses := []*models.Campus{{
		Name:      "Karamalmi",
		Shorthand: "KM",
		Hours:     models.WeekHours{Monday: &models.DayHours{OpenHour: intPtr(8)}},
	}}

	enriched, err := Enrich(kmc201(), campuses, nil, mondayMorning)
	require.NoError(t, err)
	assert.False(t, enriched.IsOpen)
	assert.Nil(t, enriched.ClosingTime)
}

func TestEnrichBeforeOpening(t *testing.T) {
	// 07:00 Finland, campus opens at 07:30
	early := time.Date(2024, 1, 15, 5, 0, 0, 0, time.UTC)

	enriched, err := Enrich(kmc201(), karamalmi(), nil, early)
	require.NoError(t, err)
	assert.False(t, enriched.IsOpen)
	require.NotNil(t, enriched.ClosingTime)
	assert.Nil(t, enriched.FreeForMinutes)
	assert.Nil(t, enriched.MinutesUntilClosing)
	assert.False(t, enriched.FreeUntilClosing)
}

func TestEnrichUnknownCampus(t *testing.T) {
	room := kmc201()
	room.Building = "MM"

	enriched, err := Enrich(room, karamalmi(), nil, mondayMorning)
	require.NoError(t, err)
	assert.Nil(t, enriched.Campus)
	assert.False(t, enriched.IsOpen)
	assert.Nil(t, enriched.ClosingTime)
	assert.Nil(t, enriched.FreeForMinutes)
}

func TestEnrichUnknownFloorColor(t *testing.T) {
	room := kmc201()
	room.Floor = "9"

	enriched, err := Enrich(room, karamalmi(), nil, mondayMorning)
	require.NoError(t, err)
	assert.Nil(t, enriched.FloorColorCode)
}

func TestEnrichUnparsableReservation(t *testing.T) {
	reservations := []models.Reservation{{ID: "bad", StartDate: "soon", EndDate: "later"}}

	_, err := Enrich(kmc201(), karamalmi(), reservations, mondayMorning)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "KMC201")
}

func TestEnrichSummerOffset(t *testing.T) {
	campuses := []*models.Campus{{
		Name:      "Karamalmi",
		Shorthand: "KM",
		Hours:     models.WeekHours{Monday: hours(8, 0, 16, 0)},
	}}
	// Monday 2024-07-15 12:00 Finland summer time
	now := time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)

	enriched, err := Enrich(kmc201(), campuses, nil, now)
	require.NoError(t, err)
	assert.True(t, enriched.IsOpen)
	assert.Equal(t, time.Date(2024, 7, 15, 13, 0, 0, 0, time.UTC), *enriched.ClosingTime)
	assert.Equal(t, 240, *enriched.FreeForMinutes)
}

func TestEnrichFloorsPartialMinutes(t *testing.T) {
	now := mondayMorning.Add(30 * time.Second)

	enriched, err := Enrich(kmc201(), karamalmi(), nil, now)
	require.NoError(t, err)
	assert.Equal(t, 719, *enriched.FreeForMinutes)
}

func TestEnrichProperties(t *testing.T) {
	reservations := []models.Reservation{
		{ID: "a", StartDate: "2024-01-15T08:00:00", EndDate: "2024-01-15T09:30:00"},
		{ID: "b", StartDate: "2024-01-15T12:00:00", EndDate: "2024-01-15T13:00:00"},
		{ID: "c", StartDate: "2024-01-15T10:30:00", EndDate: "2024-01-15T11:00:00"},
		{ID: "d", StartDate: "2024-01-15T20:00:00", EndDate: "2024-01-15T22:00:00"},
	}

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for step := 0; step < 24*4; step++ {
		now := start.Add(time.Duration(step) * 15 * time.Minute)

		enriched, err := Enrich(kmc201(), karamalmi(), reservations, now)
		require.NoError(t, err)

		windows, err := convertReservations(reservations, now)
		require.NoError(t, err)

		anyContains := false
		var minNext *time.Time
		for i := range windows {
			if windows[i].Contains(now) {
				anyContains = true
			}
			if windows[i].StartDateUTC.After(now) && (minNext == nil || windows[i].StartDateUTC.Before(*minNext)) {
				s := windows[i].StartDateUTC
				minNext = &s
			}
		}

		assert.Equal(t, anyContains, enriched.Reserved, "reserved at %s", now)
		assert.Equal(t, enriched.Reserved, enriched.CurrentReservation != nil, "current at %s", now)

		if minNext == nil {
			assert.Nil(t, enriched.NextReservation, "next at %s", now)
		} else {
			require.NotNil(t, enriched.NextReservation, "next at %s", now)
			assert.True(t, enriched.NextReservation.StartDateUTC.After(now))
			assert.Equal(t, *minNext, enriched.NextReservation.StartDateUTC)
		}

		if !enriched.IsOpen {
			assert.Nil(t, enriched.FreeForMinutes, "free at %s", now)
			assert.False(t, enriched.FreeUntilClosing, "freeUntilClosing at %s", now)
		} else {
			require.NotNil(t, enriched.FreeForMinutes)
			assert.GreaterOrEqual(t, *enriched.FreeForMinutes, 0)
		}
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	reservations := []models.Reservation{
		{ID: "a", StartDate: "2024-01-15T10:00:00", EndDate: "2024-01-15T11:00:00"},
	}

	first, err := Enrich(kmc201(), karamalmi(), reservations, mondayMorning)
	require.NoError(t, err)
	second, err := Enrich(kmc201(), karamalmi(), reservations, mondayMorning)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Business hours are converted with the offset of the evaluation instant,
// so on the spring switch day the whole day uses the current offset.
func TestEnrichDSTSwitchDayUsesOffsetAtNow(t *testing.T) {
	campuses := []*models.Campus{{
		Name:      "Karamalmi",
		Shorthand: "KM",
		Hours:     models.WeekHours{Sunday: hours(0, 0, 6, 0)},
	}}

	before := time.Date(2024, 3, 31, 0, 59, 0, 0, time.UTC)
	enriched, err := Enrich(kmc201(), campuses, nil, before)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 4, 0, 0, 0, time.UTC), *enriched.ClosingTime)

	after := time.Date(2024, 3, 31, 1, 1, 0, 0, time.UTC)
	enriched, err = Enrich(kmc201(), campuses, nil, after)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 3, 0, 0, 0, time.UTC), *enriched.ClosingTime)
}
