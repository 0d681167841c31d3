// Package redis_test provides tests for the Redis repository
package redis_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/repository/redis"
	"github.com/metropolia/infoscreen/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Repository, *miniredis.Miniredis) {
	// Create a miniredis server
	mr := miniredis.RunT(t)

	cfg := config.RedisConfig{
		Host:      mr.Host(),
		Port:      mr.Port(),
		KeyPrefix: "test:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo, mr
}

// TestRedisWithURI tests connection with URI format
func TestRedisWithURI(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.RedisConfig{
		URI:       fmt.Sprintf("redis://%s:%s", mr.Host(), mr.Port()),
		KeyPrefix: "test:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	_, err = repo.UpsertRoom(ctx, &models.Room{RoomNumber: "KMC201", Floor: "2"})
	require.NoError(t, err)

	got, err := repo.GetRoom(ctx, "KMC201")
	require.NoError(t, err)
	assert.Equal(t, "2", got.Floor)
}

func TestRedisConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Port()
	mr.Close()

	_, err := redis.NewRepository(config.RedisConfig{Host: "127.0.0.1", Port: addr})
	assert.Error(t, err)
}

func TestRoomRepository(t *testing.T) {
	repo, _ := setupTestRedis(t)
	repotest.RunRoomTests(t, repo)
}

func TestBusinessHoursRepository(t *testing.T) {
	repo, _ := setupTestRedis(t)
	repotest.RunBusinessHoursTests(t, repo)
}

func TestReplaceAll(t *testing.T) {
	repo, _ := setupTestRedis(t)
	repotest.RunReplaceAllTests(t, repo)
}

// Every room write bumps the version key watched by a replace
func TestRoomWritesBumpVersion(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := repo.UpsertRoom(ctx, &models.Room{RoomNumber: "KMC201"})
	require.NoError(t, err)
	_, err = repo.DeleteRoom(ctx, "KMC201")
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceRooms(ctx, repotest.SampleRooms()))

	version, err := mr.Get("test:roomsversion")
	require.NoError(t, err)
	assert.Equal(t, "3", version)

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 3, "version key is not listed as a room")
}

func TestDeleteRoomReportsMissing(t *testing.T) {
	repo, _ := setupTestRedis(t)

	deleted, err := repo.DeleteRoom(context.Background(), "KMX999")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestKeyLayout(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := repo.UpsertRoom(ctx, &models.Room{RoomNumber: "KMC201"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceCampuses(ctx, repotest.SampleCampuses()))

	assert.True(t, mr.Exists("test:rooms:KMC201"))
	assert.True(t, mr.Exists("test:businesshours"))

	raw, err := mr.Get("test:businesshours")
	require.NoError(t, err)
	assert.Contains(t, raw, `"shorthand":"KM"`)
	assert.Contains(t, raw, `"closeHours":21`)
}

// Seed files written by older tooling encode numbers as strings
func TestLegacyRoomEncoding(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("test:rooms:KMD550", `{"roomNumber":"KMD550","floor":"5","persons":"6","squareMeters":"18","reservableStudents":"true","reservableStaff":"false"}`))

	room, err := repo.GetRoom(context.Background(), "KMD550")
	require.NoError(t, err)
	assert.Equal(t, 6, room.Persons)
	assert.True(t, room.ReservableStudents)
}

func TestCorruptData(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("test:rooms:BAD", "not json"))
	_, err := repo.ListRooms(ctx)
	assert.Error(t, err)

	require.NoError(t, mr.Set("test:businesshours", "{"))
	_, err = repo.GetCampusHours(ctx)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	repo, mr := setupTestRedis(t)

	assert.NoError(t, repo.Ping(context.Background()))

	mr.Close()
	assert.Error(t, repo.Ping(context.Background()))
}
