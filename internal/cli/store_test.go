package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stm/internal/logging"
	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/adapters/memory"
	"github.com/aretw0/stm/pkg/adapters/redis"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend(t *testing.T) {
	t.Setenv(EncryptionKeyEnv, "")
	logger := logging.NewNop()

	t.Run("memory", func(t *testing.T) {
		b, err := OpenBackend(StoreConfig{}, logger)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, b.Store)
		assert.NoError(t, b.Close())
	})

	t.Run("file", func(t *testing.T) {
		b, err := OpenBackend(StoreConfig{Backend: BackendFile, Dir: t.TempDir()}, logger)
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, b.Store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		b, err := OpenBackend(StoreConfig{
			Backend: BackendRedis,
			Redis:   RedisConfig{Addr: mr.Addr(), Prefix: "test:"},
		}, logger)
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &redis.Store{}, b.Store, "no middleware configured")
		assert.Len(t, b.Options, 3, "logger, audit hook and locker")

		ctx := context.Background()
		require.NoError(t, b.Store.Save(ctx, "m1", &domain.Snapshot{States: []string{"A"}}))
		assert.True(t, mr.Exists("test:m1"))
	})

	t.Run("encrypted", func(t *testing.T) {
		key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
		dir := t.TempDir()
		b, err := OpenBackend(StoreConfig{Backend: BackendFile, Dir: dir, EncryptionKey: key}, logger)
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, b.Store.Save(ctx, "m1", &domain.Snapshot{States: []string{"A"}}))
		snap, err := b.Store.Load(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, snap.States)

		raw, err := file.New(dir).Load(ctx, "m1")
		require.NoError(t, err)
		assert.Empty(t, raw.States)
		assert.NotEmpty(t, raw.Sealed)
	})

	t.Run("bad key", func(t *testing.T) {
		_, err := OpenBackend(StoreConfig{EncryptionKey: "not-a-key"}, logger)
		assert.Error(t, err)
	})

	t.Run("volatile inputs", func(t *testing.T) {
		b, err := OpenBackend(StoreConfig{VolatileInputs: []string{"^live_"}}, logger)
		require.NoError(t, err)
		ctx := context.Background()
		require.NoError(t, b.Store.Save(ctx, "m1", &domain.Snapshot{
			Inputs: []domain.Input{{Name: "live_temp", Value: "30"}, {Name: "mode", Value: "1"}},
		}))
		snap, err := b.Store.Load(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, []domain.Input{{Name: "live_temp", Value: "0"}, {Name: "mode", Value: "1"}}, snap.Inputs)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := OpenBackend(StoreConfig{Backend: "etcd"}, logger)
		assert.Error(t, err)
	})
}
