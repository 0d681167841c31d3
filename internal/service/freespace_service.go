package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/metropolia/infoscreen/internal/availability"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/repository"
	"github.com/metropolia/infoscreen/internal/timezone"
)

// defaultMaxConcurrency bounds concurrent reservation lookups per request
const defaultMaxConcurrency = 8

// ReservationGateway fetches the reservations of one room
type ReservationGateway interface {
	SearchReservations(ctx context.Context, room, startDate, endDate string) ([]models.Reservation, error)
}

// FreeSpaceObserver records free space request sizes
type FreeSpaceObserver interface {
	ObserveFreeSpace(rooms int)
}

// FreeSpaceQuery selects rooms and the reservation search window.
// Empty dates default to the current Finland day.
type FreeSpaceQuery struct {
	Filter    availability.Filter
	StartDate string
	EndDate   string
}

// FreeSpaceService joins rooms, business hours and live reservations
type FreeSpaceService struct {
	repo           repository.Repository
	gateway        ReservationGateway
	maxConcurrency int
	now            func() time.Time
	observer       FreeSpaceObserver
}

// FreeSpaceOption configures a FreeSpaceService
type FreeSpaceOption func(*FreeSpaceService)

// WithClock replaces time.Now as the evaluation instant source
func WithClock(now func() time.Time) FreeSpaceOption {
	return func(s *FreeSpaceService) {
		s.now = now
	}
}

// WithMaxConcurrency bounds concurrent reservation lookups; values below 1 are ignored
func WithMaxConcurrency(n int) FreeSpaceOption {
	return func(s *FreeSpaceService) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithObserver installs a request size observer
func WithObserver(o FreeSpaceObserver) FreeSpaceOption {
	return func(s *FreeSpaceService) {
		s.observer = o
	}
}

// NewFreeSpaceService creates a FreeSpaceService
func NewFreeSpaceService(repo repository.Repository, gateway ReservationGateway, opts ...FreeSpaceOption) *FreeSpaceService {
	s := &FreeSpaceService{
		repo:           repo,
		gateway:        gateway,
		maxConcurrency: defaultMaxConcurrency,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FreeSpace returns the enriched, sorted rooms matching q together with
// metadata of the unfiltered room set.
//
// The evaluation instant is read once so every room is judged at the same
// time. Any failed reservation lookup fails the whole request.
func (s *FreeSpaceService) FreeSpace(ctx context.Context, q FreeSpaceQuery) (*models.FreeSpace, error) {
	now := s.now().UTC()

	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil, models.ErrNoRooms
	}

	campuses, err := s.repo.GetCampusHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("get business hours: %w", err)
	}

	startDate, endDate := q.StartDate, q.EndDate
	if startDate == "" && endDate == "" {
		startDate, endDate = timezone.FinnishDayBounds(now)
	}

	matched := q.Filter.Apply(rooms)
	enriched := make([]*models.EnrichedRoom, len(matched))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, room := range matched {
		i, room := i, room
		g.Go(func() error {
			reservations, err := s.gateway.SearchReservations(gctx, room.RoomNumber, startDate, endDate)
			if err != nil {
				return fmt.Errorf("reservations for %s: %w", room.RoomNumber, err)
			}

			result, err := availability.Enrich(room, campuses, reservations, now)
			if err != nil {
				return err
			}
			enriched[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	availability.SortRooms(enriched)

	if s.observer != nil {
		s.observer.ObserveFreeSpace(len(enriched))
	}
	log.Debug().
		Int("rooms", len(rooms)).
		Int("matched", len(matched)).
		Time("now", now).
		Msg("Free space computed")

	return &models.FreeSpace{
		Metadata: availability.BuildMetadata(rooms),
		Rooms:    enriched,
	}, nil
}
