// Package availability derives the live free-space state of rooms from their
// campus business hours and reservation windows.
package availability

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/timezone"
)

// Enrich computes the availability of room at now. Campuses are joined on
// Campus.Shorthand == Room.Building. Reservations are the windows of this
// room as returned by the gateway, in Finland local time.
//
// When several reservations contain now, the one with the earliest start is
// reported as current; equal starts keep input order.
func Enrich(room *models.Room, campuses []*models.Campus, reservations []models.Reservation, now time.Time) (*models.EnrichedRoom, error) {
	now = now.UTC()

	enriched := &models.EnrichedRoom{
		Room: *room,
		Availability: models.Availability{
			FloorColorCode: FloorColorCode(room.Floor),
		},
	}

	campus := findCampus(campuses, room.Building)
	if campus != nil {
		name := campus.Name
		enriched.Campus = &name

		if open, closing, ok := todayWindow(campus, now); ok {
			enriched.ClosingTime = &closing
			enriched.IsOpen = !now.Before(open) && !now.After(closing)
		}
	}

	windows, err := convertReservations(reservations, now)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", room.RoomNumber, err)
	}

	for i := range windows {
		w := windows[i]
		if w.Contains(now) {
			enriched.Reserved = true
			enriched.CurrentReservation = &w
			break
		}
	}

	for i := range windows {
		w := windows[i]
		if w.StartDateUTC.After(now) {
			enriched.NextReservation = &w
			break
		}
	}

	if enriched.IsOpen {
		untilClosing := minutesUntil(now, *enriched.ClosingTime)
		enriched.MinutesUntilClosing = &untilClosing

		free := untilClosing
		if enriched.NextReservation != nil {
			free = min(free, minutesUntil(now, enriched.NextReservation.StartDateUTC))
		}
		enriched.FreeForMinutes = &free

		enriched.FreeUntilClosing = enriched.NextReservation == nil && untilClosing > 0 && !enriched.Reserved
	}

	switch {
	case enriched.NextReservation != nil:
		until := enriched.NextReservation.StartDateUTC
		enriched.FreeUntil = &until
	case enriched.IsOpen:
		until := *enriched.ClosingTime
		enriched.FreeUntil = &until
	}

	return enriched, nil
}

func findCampus(campuses []*models.Campus, shorthand string) *models.Campus {
	for _, c := range campuses {
		if c != nil && c.Shorthand == shorthand {
			return c
		}
	}
	return nil
}

// todayWindow returns the opening and closing instants of the campus on the
// UTC date of now. ok is false when the campus is closed or has no hours.
func todayWindow(campus *models.Campus, now time.Time) (open, closing time.Time, ok bool) {
	day := campus.Hours.ForDay(now.Weekday())
	if day == nil || day.IsClosed || !day.HasTimes() {
		return time.Time{}, time.Time{}, false
	}

	open = clockOnDate(now, timezone.LocalToUTCHours(*day.OpenHour, now), deref(day.OpenMinute))
	closing = clockOnDate(now, timezone.LocalToUTCHours(*day.CloseHour, now), deref(day.CloseMinute))
	return open, closing, true
}

func clockOnDate(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

func convertReservations(reservations []models.Reservation, now time.Time) ([]models.ReservationWindow, error) {
	windows := make([]models.ReservationWindow, 0, len(reservations))
	for _, r := range reservations {
		start, err := timezone.FinnishTimestampToUTC(r.StartDate, now)
		if err != nil {
			return nil, fmt.Errorf("reservation %s start: %w", r.ID, err)
		}
		end, err := timezone.FinnishTimestampToUTC(r.EndDate, now)
		if err != nil {
			return nil, fmt.Errorf("reservation %s end: %w", r.ID, err)
		}
		windows = append(windows, models.ReservationWindow{
			Reservation:  r,
			StartDateUTC: start,
			EndDateUTC:   end,
		})
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].StartDateUTC.Before(windows[j].StartDateUTC)
	})
	return windows, nil
}

func minutesUntil(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Minutes()))
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
