// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic lock retries of WATCH transactions
const maxTxRetries = 5

// Repository implements the repository interface with Redis storage.
// Rooms are stored one JSON value per key; business hours are one document.
type Repository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}

		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// Ping checks the Redis connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// roomKey returns the Redis key for a room
func (r *Repository) roomKey(roomNumber string) string {
	return fmt.Sprintf("%srooms:%s", r.keyPrefix, roomNumber)
}

// roomsVersionKey is bumped by every room write so a replace can WATCH the
// whole room set
func (r *Repository) roomsVersionKey() string {
	return r.keyPrefix + "roomsversion"
}

// businessHoursKey returns the Redis key of the business hours document
func (r *Repository) businessHoursKey() string {
	return r.keyPrefix + "businesshours"
}

// ListRooms returns all rooms ordered by room number
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	keys, err := r.client.Keys(ctx, r.roomKey("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	if len(keys) == 0 {
		return []*models.Room{}, nil
	}

	// Use MGET to retrieve all room data in a single roundtrip
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room data: %w", err)
	}

	rooms := make([]*models.Room, 0, len(values))
	for i, v := range values {
		// Key removed between KEYS and MGET
		if v == nil {
			continue
		}

		strData, ok := v.(string)
		if !ok {
			continue
		}

		var room models.Room
		if err := json.Unmarshal([]byte(strData), &room); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room %s: %w", keys[i], err)
		}
		rooms = append(rooms, &room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].RoomNumber < rooms[j].RoomNumber
	})
	return rooms, nil
}

// GetRoom retrieves a room by room number
func (r *Repository) GetRoom(ctx context.Context, roomNumber string) (*models.Room, error) {
	data, err := r.client.Get(ctx, r.roomKey(roomNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}
	return &room, nil
}

// UpsertRoom creates or replaces a room
func (r *Repository) UpsertRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.roomKey(room.RoomNumber), data, 0)
		pipe.Incr(ctx, r.roomsVersionKey())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	stored := *room
	return &stored, nil
}

// DeleteRoom removes a room
func (r *Repository) DeleteRoom(ctx context.Context, roomNumber string) (bool, error) {
	var removed *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, r.roomKey(roomNumber))
		pipe.Incr(ctx, r.roomsVersionKey())
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete room: %w", err)
	}
	return removed.Val() > 0, nil
}

// ReplaceRooms swaps the whole room set in one transaction
func (r *Repository) ReplaceRooms(ctx context.Context, rooms []*models.Room) error {
	return r.replace(ctx, rooms, nil)
}

// ReplaceAll swaps rooms and, unless campuses is nil, the business hours
// document in one transaction
func (r *Repository) ReplaceAll(ctx context.Context, rooms []*models.Room, campuses []*models.Campus) error {
	return r.replace(ctx, rooms, campuses)
}

// replace lists the stored room keys under WATCH of the rooms version, so a
// room written concurrently aborts the transaction instead of surviving it
func (r *Repository) replace(ctx context.Context, rooms []*models.Room, campuses []*models.Campus) error {
	values := make(map[string][]byte, len(rooms))
	for _, room := range rooms {
		data, err := json.Marshal(room)
		if err != nil {
			return fmt.Errorf("failed to marshal room %s: %w", room.RoomNumber, err)
		}
		values[r.roomKey(room.RoomNumber)] = data
	}

	var hours []byte
	if campuses != nil {
		data, err := json.Marshal(models.BusinessHours{Campuses: campuses})
		if err != nil {
			return fmt.Errorf("failed to marshal business hours: %w", err)
		}
		hours = data
	}

	txf := func(tx *redis.Tx) error {
		existing, err := tx.Keys(ctx, r.roomKey("*")).Result()
		if err != nil {
			return fmt.Errorf("failed to list rooms: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(existing) > 0 {
				pipe.Del(ctx, existing...)
			}
			for key, data := range values {
				pipe.Set(ctx, key, data, 0)
			}
			pipe.Incr(ctx, r.roomsVersionKey())
			if hours != nil {
				pipe.Set(ctx, r.businessHoursKey(), hours, 0)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, r.roomsVersionKey())
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to replace rooms: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to replace rooms: too much contention")
}

// GetCampusHours returns all campuses in stored order
func (r *Repository) GetCampusHours(ctx context.Context) ([]*models.Campus, error) {
	doc, err := r.loadBusinessHours(ctx, r.client)
	if err != nil {
		return nil, err
	}
	return doc.Campuses, nil
}

// UpdateCampusHours replaces the weekly hours of one campus. The document is
// rewritten under WATCH so concurrent updates are not lost.
func (r *Repository) UpdateCampusHours(ctx context.Context, shorthand string, hours models.WeekHours) (*models.Campus, error) {
	key := r.businessHoursKey()
	var updated *models.Campus

	txf := func(tx *redis.Tx) error {
		doc, err := r.loadBusinessHours(ctx, tx)
		if err != nil {
			return err
		}

		updated = nil
		for _, campus := range doc.Campuses {
			if campus.Shorthand == shorthand {
				campus.Hours = hours
				updated = campus
				break
			}
		}
		if updated == nil {
			return models.ErrCampusNotFound
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal business hours: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, models.ErrCampusNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to update business hours: %w", err)
		}
		return updated, nil
	}

	return nil, fmt.Errorf("failed to update business hours: too much contention")
}

// ReplaceCampuses swaps the whole business hours document
func (r *Repository) ReplaceCampuses(ctx context.Context, campuses []*models.Campus) error {
	if campuses == nil {
		campuses = []*models.Campus{}
	}
	data, err := json.Marshal(models.BusinessHours{Campuses: campuses})
	if err != nil {
		return fmt.Errorf("failed to marshal business hours: %w", err)
	}

	if err := r.client.Set(ctx, r.businessHoursKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save business hours: %w", err)
	}
	return nil
}

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Repository) loadBusinessHours(ctx context.Context, c getter) (*models.BusinessHours, error) {
	var doc models.BusinessHours

	data, err := c.Get(ctx, r.businessHoursKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &models.BusinessHours{Campuses: []*models.Campus{}}, nil
		}
		return nil, fmt.Errorf("failed to get business hours: %w", err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal business hours: %w", err)
	}
	if doc.Campuses == nil {
		doc.Campuses = []*models.Campus{}
	}
	return &doc, nil
}
