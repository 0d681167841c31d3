package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/metropolia/infoscreen/internal/availability"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/repository"
	"github.com/metropolia/infoscreen/internal/utils"
)

// Update kinds passed to update callbacks
const (
	UpdateRooms         = "rooms"
	UpdateBusinessHours = "businesshours"
)

// UpdateEvent describes a change of stored data
type UpdateEvent struct {
	Kind string `json:"kind"`
	// Key is the room number or campus shorthand, empty for bulk changes
	Key string `json:"key,omitempty"`
}

// UpdateCallback is a function type for data change callbacks
type UpdateCallback func(UpdateEvent)

// RoomDirectory checks room numbers against the reservation system
type RoomDirectory interface {
	RoomExists(ctx context.Context, roomNumber string) (bool, error)
}

// RoomService provides business logic for rooms and business hours
type RoomService struct {
	repo            repository.Repository
	directory       RoomDirectory
	updateCallbacks []UpdateCallback
}

// NewRoomService creates a new RoomService. directory may be nil, in which
// case room validation is unavailable.
func NewRoomService(repo repository.Repository, directory RoomDirectory) *RoomService {
	return &RoomService{
		repo:            repo,
		directory:       directory,
		updateCallbacks: make([]UpdateCallback, 0),
	}
}

// RegisterUpdateCallback registers a callback function to be called when data changes.
// Callbacks must be registered before the service is used concurrently.
func (s *RoomService) RegisterUpdateCallback(callback UpdateCallback) {
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the change
func (s *RoomService) notifyUpdate(event UpdateEvent) {
	for _, callback := range s.updateCallbacks {
		callback(event)
	}
}

// ListRooms returns all rooms in display order
func (s *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	availability.SortPlainRooms(rooms)
	return rooms, nil
}

// GetRoom returns one room
func (s *RoomService) GetRoom(ctx context.Context, roomNumber string) (*models.Room, error) {
	return s.repo.GetRoom(ctx, strings.TrimSpace(roomNumber))
}

// CreateRoom stores a new room, failing with models.ErrRoomExists when the
// room number is taken
func (s *RoomService) CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if err := validateStruct(room); err != nil {
		return nil, err
	}

	_, err := s.repo.GetRoom(ctx, room.RoomNumber)
	switch {
	case err == nil:
		return nil, models.ErrRoomExists
	case !errors.Is(err, models.ErrRoomNotFound):
		return nil, fmt.Errorf("check room: %w", err)
	}

	saved, err := s.repo.UpsertRoom(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	log.Info().Str("room", utils.SanitizeLogString(saved.RoomNumber)).Msg("Room created")
	s.notifyUpdate(UpdateEvent{Kind: UpdateRooms, Key: saved.RoomNumber})
	return saved, nil
}

// SaveRoom creates or replaces the room identified by roomNumber. The room
// number in the body must be empty or equal to roomNumber.
func (s *RoomService) SaveRoom(ctx context.Context, roomNumber string, room *models.Room) (*models.Room, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)

	if room.RoomNumber == "" {
		room.RoomNumber = roomNumber
	}
	if room.RoomNumber != roomNumber {
		return nil, NewValidationError("roomNumber", "Room number cannot be changed")
	}
	if err := validateStruct(room); err != nil {
		return nil, err
	}

	saved, err := s.repo.UpsertRoom(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("save room: %w", err)
	}

	log.Info().Str("room", utils.SanitizeLogString(saved.RoomNumber)).Msg("Room saved")
	s.notifyUpdate(UpdateEvent{Kind: UpdateRooms, Key: saved.RoomNumber})
	return saved, nil
}

// DeleteRoom removes a room, failing with models.ErrRoomNotFound when absent
func (s *RoomService) DeleteRoom(ctx context.Context, roomNumber string) error {
	roomNumber = strings.TrimSpace(roomNumber)

	deleted, err := s.repo.DeleteRoom(ctx, roomNumber)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if !deleted {
		return models.ErrRoomNotFound
	}

	log.Info().Str("room", utils.SanitizeLogString(roomNumber)).Msg("Room deleted")
	s.notifyUpdate(UpdateEvent{Kind: UpdateRooms, Key: roomNumber})
	return nil
}

// ValidateRoom reports whether the reservation system knows roomNumber
func (s *RoomService) ValidateRoom(ctx context.Context, roomNumber string) (bool, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" {
		return false, NewValidationError("roomNumber", "This field is required")
	}
	if s.directory == nil {
		return false, errors.New("room directory not configured")
	}
	return s.directory.RoomExists(ctx, roomNumber)
}

// GetBusinessHours returns every campus, failing with
// models.ErrCampusNotFound when none are stored
func (s *RoomService) GetBusinessHours(ctx context.Context) ([]*models.Campus, error) {
	campuses, err := s.repo.GetCampusHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("get business hours: %w", err)
	}
	if len(campuses) == 0 {
		return nil, models.ErrCampusNotFound
	}
	return campuses, nil
}

// UpdateCampusHours replaces the weekly hours of one campus
func (s *RoomService) UpdateCampusHours(ctx context.Context, shorthand string, hours models.WeekHours) (*models.Campus, error) {
	shorthand = strings.TrimSpace(shorthand)
	if err := validateStruct(hours); err != nil {
		return nil, err
	}

	campus, err := s.repo.UpdateCampusHours(ctx, shorthand, hours)
	if err != nil {
		if errors.Is(err, models.ErrCampusNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update business hours: %w", err)
	}

	log.Info().Str("campus", utils.SanitizeLogString(shorthand)).Msg("Business hours updated")
	s.notifyUpdate(UpdateEvent{Kind: UpdateBusinessHours, Key: shorthand})
	return campus, nil
}

// ImportData is the seed payload of rooms and campuses
type ImportData struct {
	Rooms    []*models.Room   `json:"rooms"`
	Campuses []*models.Campus `json:"campuses"`
}

// ImportResult counts the imported records
type ImportResult struct {
	Rooms    int `json:"rooms"`
	Campuses int `json:"campuses"`
}

// Import replaces the stored rooms and campuses in one write. Every record
// is validated first; nothing is written when any record is invalid or the
// store fails. A nil campus list keeps the stored campuses.
func (s *RoomService) Import(ctx context.Context, data ImportData) (*ImportResult, error) {
	seen := make(map[string]struct{}, len(data.Rooms))
	for i, room := range data.Rooms {
		if room == nil {
			return nil, NewValidationError(fmt.Sprintf("rooms[%d]", i), "Invalid value")
		}
		room.RoomNumber = strings.TrimSpace(room.RoomNumber)
		if err := validateStruct(room); err != nil {
			return nil, prefixValidation(fmt.Sprintf("rooms[%d]", i), err)
		}
		if _, dup := seen[room.RoomNumber]; dup {
			return nil, NewValidationError(fmt.Sprintf("rooms[%d].roomNumber", i), "Duplicate room number")
		}
		seen[room.RoomNumber] = struct{}{}
	}
	for i, campus := range data.Campuses {
		if campus == nil {
			return nil, NewValidationError(fmt.Sprintf("campuses[%d]", i), "Invalid value")
		}
		if err := validateStruct(campus); err != nil {
			return nil, prefixValidation(fmt.Sprintf("campuses[%d]", i), err)
		}
	}

	if err := s.repo.ReplaceAll(ctx, data.Rooms, data.Campuses); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	result := &ImportResult{Rooms: len(data.Rooms)}

	if data.Campuses != nil {
		result.Campuses = len(data.Campuses)
		s.notifyUpdate(UpdateEvent{Kind: UpdateBusinessHours})
	}

	log.Info().Int("rooms", result.Rooms).Int("campuses", result.Campuses).Msg("Data imported")
	s.notifyUpdate(UpdateEvent{Kind: UpdateRooms})
	return result, nil
}

func prefixValidation(prefix string, err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := make(map[string]string, len(verr.Fields))
	for k, v := range verr.Fields {
		fields[prefix+"."+k] = v
	}
	return &ValidationError{Fields: fields}
}
