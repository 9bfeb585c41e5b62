package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/internal/config"
	"github.com/aretw0/automata/pkg/adapters/file"
	"github.com/aretw0/automata/pkg/adapters/memory"
	"github.com/aretw0/automata/pkg/adapters/redis"
	"github.com/aretw0/automata/pkg/batch"
	"github.com/aretw0/automata/pkg/persistence/middleware"
	"github.com/aretw0/automata/pkg/ports"
)

// NewStore builds the store selected by cfg. The returned close function
// releases backend connections and is never nil.
func NewStore(cfg config.Config) (ports.AutomatonStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile, "":
		return file.New(cfg.Dir), noop, nil
	case config.StoreRedis:
		opts := []redis.Option{redis.WithPrefix(cfg.RedisPrefix)}
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		s := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// NewEngine initializes an engine over the configured store.
// A nil recorder disables metrics.
func NewEngine(cfg config.Config, logger *slog.Logger, rec batch.Recorder) (*automata.Engine, func() error, error) {
	store, closeStore, err := NewStore(cfg)
	if err != nil {
		return nil, closeStore, fmt.Errorf("error initializing store: %w", err)
	}

	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if cfg.Cache && cfg.Store != config.StoreMemory {
		mws = append(mws, middleware.NewCacheMiddleware())
	}
	store = middleware.Chain(store, mws...)

	opts := []automata.Option{
		automata.WithStore(store),
		automata.WithLogger(logger),
		automata.WithConcurrency(cfg.Concurrency),
	}
	if rec != nil {
		opts = append(opts, automata.WithRecorder(rec))
	}

	logger.Debug("Engine initialized", "store", cfg.Store, "cache", cfg.Cache, "dir", cfg.Dir, "redis", cfg.RedisAddr)
	return automata.New(opts...), closeStore, nil
}
