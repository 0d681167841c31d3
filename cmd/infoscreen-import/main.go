// Command infoscreen-import seeds the configured store with the room and
// business hours JSON files, replacing what is stored.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/logging"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/repository"
	"github.com/metropolia/infoscreen/internal/service"
)

func main() {
	roomsPath := flag.String("rooms", "data/rooms.json", "path to the rooms JSON array")
	hoursPath := flag.String("businesshours", "data/businesshours.json", "path to the business hours document, empty to keep stored hours")
	timeout := flag.Duration("timeout", 30*time.Second, "import timeout")
	flag.Parse()

	cfg := config.Load()
	logging.Init(logging.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
	})

	if err := run(cfg.Storage, *roomsPath, *hoursPath, *timeout); err != nil {
		log.Error().Err(err).Msg("Import failed")
		os.Exit(1)
	}
}

func run(storage config.StorageConfig, roomsPath, hoursPath string, timeout time.Duration) error {
	data, err := loadImport(roomsPath, hoursPath)
	if err != nil {
		return err
	}

	repo, err := repository.NewRepository(storage)
	if err != nil {
		return fmt.Errorf("open %s repository: %w", storage.Backend, err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := service.NewRoomService(repo, nil).Import(ctx, data)
	if err != nil {
		return err
	}

	log.Info().
		Str("backend", storage.Backend).
		Int("rooms", result.Rooms).
		Int("campuses", result.Campuses).
		Msg("Import finished")
	return nil
}

// loadImport reads the seed files. Rooms without a room number are
// placeholder rows and are skipped.
func loadImport(roomsPath, hoursPath string) (service.ImportData, error) {
	var data service.ImportData

	var rooms []*models.Room
	if err := readJSON(roomsPath, &rooms); err != nil {
		return data, err
	}
	for _, room := range rooms {
		if room == nil || strings.TrimSpace(room.RoomNumber) == "" {
			continue
		}
		data.Rooms = append(data.Rooms, room)
	}
	if skipped := len(rooms) - len(data.Rooms); skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Rooms without room number skipped")
	}

	if hoursPath != "" {
		var hours models.BusinessHours
		if err := readJSON(hoursPath, &hours); err != nil {
			return data, err
		}
		data.Campuses = hours.Campuses
		if data.Campuses == nil {
			data.Campuses = []*models.Campus{}
		}
	}
	return data, nil
}

func readJSON(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
