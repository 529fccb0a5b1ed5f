package snapshot_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bitbucket.org/crgw/booking-client/internal/snapshot"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		State:       "TRACKING",
		RequestID:   "r1",
		BookingID:   "b1",
		Endpoint:    "http://localhost:9090/booking",
		Start:       &snapshot.Coordinates{Lat: 37.7749, Lng: -122.4194},
		Destination: &snapshot.Coordinates{Lat: 37.8044, Lng: -122.2712},
		Driver:      &snapshot.Coordinates{Lat: 37.79, Lng: -122.39},
	}
}

func TestFileStore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "session.json"))

		require.NoError(t, store.Save(context.Background(), sampleSnapshot()))

		loaded, ok, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sampleSnapshot(), loaded)
	})

	t.Run("missing file means no snapshot", func(t *testing.T) {
		store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

		_, ok, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt file counts as absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store := snapshot.NewFileStore(path)
		_, ok, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("clear removes the file and tolerates absence", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		store := snapshot.NewFileStore(path)

		require.NoError(t, store.Save(context.Background(), sampleSnapshot()))
		require.NoError(t, store.Clear(context.Background()))
		require.NoError(t, store.Clear(context.Background()))

		_, ok, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRedisStore(t *testing.T) {
	const key = "booking:session"

	t.Run("round trip", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		store := snapshot.NewRedisStore(redisClient, key)

		raw, err := json.Marshal(sampleSnapshot())
		require.NoError(t, err)

		mock.ExpectSetEx(key, raw, 24*time.Hour).SetVal("OK")
		mock.ExpectGet(key).SetVal(string(raw))

		require.NoError(t, store.Save(context.Background(), sampleSnapshot()))

		loaded, ok, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sampleSnapshot(), loaded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis nil means no snapshot", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		store := snapshot.NewRedisStore(redisClient, key)

		mock.ExpectGet(key).RedisNil()

		_, ok, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt payload counts as absent", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		store := snapshot.NewRedisStore(redisClient, key)

		mock.ExpectGet(key).SetVal("{broken")

		_, ok, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("clear deletes the key", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		store := snapshot.NewRedisStore(redisClient, key)

		mock.ExpectDel(key).SetVal(1)

		require.NoError(t, store.Clear(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
