// Package postgres provides a PostgreSQL implementation of the repository interface
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	room_number         TEXT PRIMARY KEY,
	floor               TEXT NOT NULL DEFAULT '',
	building            TEXT NOT NULL DEFAULT '',
	wing                TEXT NOT NULL DEFAULT '',
	persons             INTEGER NOT NULL DEFAULT 0,
	square_meters       INTEGER NOT NULL DEFAULT 0,
	details             TEXT NOT NULL DEFAULT '',
	reservable_students BOOLEAN NOT NULL DEFAULT FALSE,
	reservable_staff    BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS campuses (
	shorthand TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	hours     JSONB NOT NULL DEFAULT '{}',
	position  INTEGER NOT NULL DEFAULT 0
);`

const (
	roomColumns = `room_number, floor, building, wing, persons, square_meters, details, reservable_students, reservable_staff`

	upsertRoomQuery = `INSERT INTO rooms (` + roomColumns + `)
VALUES (:room_number, :floor, :building, :wing, :persons, :square_meters, :details, :reservable_students, :reservable_staff)
ON CONFLICT (room_number)
DO UPDATE SET floor = EXCLUDED.floor, building = EXCLUDED.building, wing = EXCLUDED.wing,
              persons = EXCLUDED.persons, square_meters = EXCLUDED.square_meters, details = EXCLUDED.details,
              reservable_students = EXCLUDED.reservable_students, reservable_staff = EXCLUDED.reservable_staff`

	insertCampusQuery = `INSERT INTO campuses (shorthand, name, image_url, hours, position)
VALUES (:shorthand, :name, :image_url, :hours, :position)`
)

// campusRow is the storage shape of a campus; hours are kept as JSONB text
type campusRow struct {
	Shorthand string `db:"shorthand"`
	Name      string `db:"name"`
	ImageURL  string `db:"image_url"`
	Hours     string `db:"hours"`
	Position  int    `db:"position"`
}

func (c campusRow) toModel() (*models.Campus, error) {
	campus := &models.Campus{
		Name:      c.Name,
		Shorthand: c.Shorthand,
		ImageURL:  c.ImageURL,
	}
	if len(c.Hours) > 0 {
		if err := json.Unmarshal([]byte(c.Hours), &campus.Hours); err != nil {
			return nil, fmt.Errorf("decode hours of %s: %w", c.Shorthand, err)
		}
	}
	return campus, nil
}

// Repository implements the repository interface on PostgreSQL
type Repository struct {
	db *sqlx.DB
}

// NewRepository connects to PostgreSQL and ensures the schema exists
func NewRepository(cfg config.PostgresConfig) (*Repository, error) {
	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo := NewRepositoryFromDB(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Msg("Connected to PostgreSQL")
	return repo, nil
}

// NewRepositoryFromDB wraps an existing connection pool
func NewRepositoryFromDB(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the tables when missing
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the connection pool
func (r *Repository) Close() error {
	return r.db.Close()
}

// ListRooms returns all rooms ordered by room number
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms ORDER BY room_number ASC`

	var rooms []*models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}
	return rooms, nil
}

// GetRoom retrieves a room by room number
func (r *Repository) GetRoom(ctx context.Context, roomNumber string) (*models.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms WHERE room_number = $1`

	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, roomNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}

// UpsertRoom creates or replaces a room
func (r *Repository) UpsertRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	if _, err := r.db.NamedExecContext(ctx, upsertRoomQuery, room); err != nil {
		return nil, fmt.Errorf("upsert room: %w", err)
	}
	stored := *room
	return &stored, nil
}

// DeleteRoom removes a room
func (r *Repository) DeleteRoom(ctx context.Context, roomNumber string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE room_number = $1`, roomNumber)
	if err != nil {
		return false, fmt.Errorf("delete room: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete room: %w", err)
	}
	return affected > 0, nil
}

// ReplaceRooms swaps the whole room set within a transaction
func (r *Repository) ReplaceRooms(ctx context.Context, rooms []*models.Room) error {
	return r.inTx(ctx, "replace rooms", func(tx *sqlx.Tx) error {
		return replaceRooms(ctx, tx, rooms)
	})
}

// ReplaceAll swaps rooms and, unless campuses is nil, campuses within one
// transaction
func (r *Repository) ReplaceAll(ctx context.Context, rooms []*models.Room, campuses []*models.Campus) error {
	return r.inTx(ctx, "replace all", func(tx *sqlx.Tx) error {
		if err := replaceRooms(ctx, tx, rooms); err != nil {
			return err
		}
		if campuses == nil {
			return nil
		}
		return replaceCampuses(ctx, tx, campuses)
	})
}

// inTx runs fn in a transaction, rolling back when fn fails
func (r *Repository) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	return nil
}

func replaceRooms(ctx context.Context, tx *sqlx.Tx, rooms []*models.Room) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}
	for _, room := range rooms {
		if _, err := tx.NamedExecContext(ctx, upsertRoomQuery, room); err != nil {
			return fmt.Errorf("insert room %s: %w", room.RoomNumber, err)
		}
	}
	return nil
}

// GetCampusHours returns all campuses in stored order
func (r *Repository) GetCampusHours(ctx context.Context) ([]*models.Campus, error) {
	const query = `SELECT shorthand, name, image_url, hours, position FROM campuses ORDER BY position ASC, shorthand ASC`

	var rows []campusRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}

	campuses := make([]*models.Campus, 0, len(rows))
	for _, row := range rows {
		campus, err := row.toModel()
		if err != nil {
			return nil, err
		}
		campuses = append(campuses, campus)
	}
	return campuses, nil
}

// UpdateCampusHours replaces the weekly hours of one campus
func (r *Repository) UpdateCampusHours(ctx context.Context, shorthand string, hours models.WeekHours) (*models.Campus, error) {
	const query = `UPDATE campuses SET hours = $1 WHERE shorthand = $2
RETURNING shorthand, name, image_url, hours, position`

	data, err := json.Marshal(hours)
	if err != nil {
		return nil, fmt.Errorf("encode hours: %w", err)
	}

	var row campusRow
	if err := r.db.GetContext(ctx, &row, query, string(data), shorthand); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrCampusNotFound
		}
		return nil, fmt.Errorf("update campus hours: %w", err)
	}
	return row.toModel()
}

// ReplaceCampuses swaps the whole campus set within a transaction
func (r *Repository) ReplaceCampuses(ctx context.Context, campuses []*models.Campus) error {
	return r.inTx(ctx, "replace campuses", func(tx *sqlx.Tx) error {
		return replaceCampuses(ctx, tx, campuses)
	})
}

func replaceCampuses(ctx context.Context, tx *sqlx.Tx, campuses []*models.Campus) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM campuses`); err != nil {
		return fmt.Errorf("clear campuses: %w", err)
	}
	for i, campus := range campuses {
		data, err := json.Marshal(campus.Hours)
		if err != nil {
			return fmt.Errorf("encode hours of %s: %w", campus.Shorthand, err)
		}
		row := campusRow{
			Shorthand: campus.Shorthand,
			Name:      campus.Name,
			ImageURL:  campus.ImageURL,
			Hours:     string(data),
			Position:  i,
		}
		if _, err := tx.NamedExecContext(ctx, insertCampusQuery, row); err != nil {
			return fmt.Errorf("insert campus %s: %w", campus.Shorthand, err)
		}
	}
	return nil
}
