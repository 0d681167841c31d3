package repository

import (
	"fmt"

	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/repository/memory"
	"github.com/metropolia/infoscreen/internal/repository/postgres"
	"github.com/metropolia/infoscreen/internal/repository/redis"
)

// NewRepository creates the repository selected by cfg.Backend
func NewRepository(cfg config.StorageConfig) (Repository, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return memory.NewRepository(), nil
	case config.BackendRedis:
		return redis.NewRepository(cfg.Redis)
	case config.BackendPostgres:
		return postgres.NewRepository(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
