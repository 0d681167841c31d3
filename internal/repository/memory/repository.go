// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/metropolia/infoscreen/internal/models"
)

// Repository implements the repository interface with in-memory storage
type Repository struct {
	rooms    map[string]models.Room
	campuses map[string]models.Campus
	// order keeps campuses in insertion order for listing
	order []string
	mu    sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms:    make(map[string]models.Room),
		campuses: make(map[string]models.Campus),
	}
}

// ListRooms returns copies of all rooms ordered by room number
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		room := room
		rooms = append(rooms, &room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].RoomNumber < rooms[j].RoomNumber
	})
	return rooms, nil
}

// GetRoom retrieves a room by room number
func (r *Repository) GetRoom(ctx context.Context, roomNumber string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[roomNumber]
	if !exists {
		return nil, models.ErrRoomNotFound
	}
	return &room, nil
}

// UpsertRoom creates or replaces a room
func (r *Repository) UpsertRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *room
	r.rooms[room.RoomNumber] = stored
	return &stored, nil
}

// DeleteRoom removes a room
func (r *Repository) DeleteRoom(ctx context.Context, roomNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomNumber]; !exists {
		return false, nil
	}
	delete(r.rooms, roomNumber)
	return true, nil
}

// ReplaceRooms swaps the whole room set
func (r *Repository) ReplaceRooms(ctx context.Context, rooms []*models.Room) error {
	replacement := roomSet(rooms)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = replacement
	return nil
}

func roomSet(rooms []*models.Room) map[string]models.Room {
	set := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		set[room.RoomNumber] = *room
	}
	return set
}

// GetCampusHours returns copies of all campuses
func (r *Repository) GetCampusHours(ctx context.Context) ([]*models.Campus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	campuses := make([]*models.Campus, 0, len(r.order))
	for _, shorthand := range r.order {
		campus := r.campuses[shorthand]
		campus.Hours = campus.Hours.Clone()
		campuses = append(campuses, &campus)
	}
	return campuses, nil
}

// UpdateCampusHours replaces the weekly hours of one campus
func (r *Repository) UpdateCampusHours(ctx context.Context, shorthand string, hours models.WeekHours) (*models.Campus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campus, exists := r.campuses[shorthand]
	if !exists {
		return nil, models.ErrCampusNotFound
	}
	campus.Hours = hours.Clone()
	r.campuses[shorthand] = campus

	result := campus
	result.Hours = campus.Hours.Clone()
	return &result, nil
}

// ReplaceCampuses swaps the whole campus set
func (r *Repository) ReplaceCampuses(ctx context.Context, campuses []*models.Campus) error {
	replacement, order := campusSet(campuses)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.campuses = replacement
	r.order = order
	return nil
}

// ReplaceAll swaps rooms and, unless campuses is nil, campuses under one lock
func (r *Repository) ReplaceAll(ctx context.Context, rooms []*models.Room, campuses []*models.Campus) error {
	replacement := roomSet(rooms)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = replacement
	if campuses != nil {
		r.campuses, r.order = campusSet(campuses)
	}
	return nil
}

func campusSet(campuses []*models.Campus) (map[string]models.Campus, []string) {
	set := make(map[string]models.Campus, len(campuses))
	order := make([]string, 0, len(campuses))
	for _, campus := range campuses {
		if _, dup := set[campus.Shorthand]; !dup {
			order = append(order, campus.Shorthand)
		}
		stored := *campus
		stored.Hours = campus.Hours.Clone()
		set[campus.Shorthand] = stored
	}
	return set, order
}

// Ping always succeeds for the in-memory store
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store
func (r *Repository) Close() error {
	return nil
}
