package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/adapters/memory"
	"github.com/aretw0/stm/pkg/adapters/redis"
	"github.com/aretw0/stm/pkg/observability"
	"github.com/aretw0/stm/pkg/persistence/middleware"
	"github.com/aretw0/stm/pkg/ports"
	"github.com/aretw0/stm/pkg/session"
)

// Backend is an opened model store plus the session options it needs.
type Backend struct {
	Store   ports.ModelStore
	Options []session.Option
	close   func() error
}

// Close releases the backend connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend builds the model store selected by cfg, wrapped in the
// configured persistence middleware. The redis backend also provides the
// distributed locker for the session manager.
func OpenBackend(cfg StoreConfig, logger *slog.Logger) (*Backend, error) {
	b, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	mws, err := storeMiddleware(cfg)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Store = middleware.Chain(b.Store, mws...)
	return b, nil
}

func storeMiddleware(cfg StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.VolatileInputs) > 0 {
		mw, err := middleware.NewVolatileInputsMiddleware(cfg.VolatileInputs)
		if err != nil {
			return nil, fmt.Errorf("invalid volatile input pattern: %w", err)
		}
		mws = append(mws, mw)
	}

	encoded := cfg.EncryptionKey
	if env := os.Getenv(EncryptionKeyEnv); env != "" {
		encoded = env
	}
	if encoded != "" {
		key, err := middleware.ParseKey(encoded)
		if err != nil {
			return nil, err
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

func openStore(cfg StoreConfig, logger *slog.Logger) (*Backend, error) {
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithChangeHook(observability.AuditLog(logger)),
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return &Backend{Store: memory.NewStore(), Options: opts}, nil
	case BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = file.DefaultDir
		}
		logger.Info("Using file store", "dir", dir)
		return &Backend{Store: file.New(dir), Options: opts}, nil
	case BackendRedis:
		prefix := redis.DefaultPrefix
		if cfg.Redis.Prefix != "" {
			prefix = cfg.Redis.Prefix
		}
		storeOpts := []redis.Option{redis.WithPrefix(prefix)}
		if cfg.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		locker := redis.NewLocker(store.Client(), prefix)
		logger.Info("Using redis store", "addr", cfg.Redis.Addr)
		return &Backend{
			Store:   store,
			Options: append(opts, session.WithLocker(locker)),
			close:   store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
