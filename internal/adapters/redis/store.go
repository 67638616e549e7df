// Package redis provides a Redis implementation of the StateStore port.
//
// The whole state is kept as one JSON document under a single key, matching
// the file store layout.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"indigenousverify/internal/domain"
	"indigenousverify/internal/ports"
)

var _ ports.StateStore = (*Store)(nil)

// Config holds Redis connection settings.
type Config struct {
	// Addr is the Redis server address (e.g., "localhost:6379")
	Addr string
	// Password for Redis authentication (empty for no auth)
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// Key holds the state document
	Key string
}

// ConfigDefaults returns defaults for a local Redis.
func ConfigDefaults() Config {
	return Config{
		Addr: "localhost:6379",
		Key:  "indigenous-verify:state",
	}
}

type Store struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("redis key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Store{
		client: client,
		key:    cfg.Key,
		logger: logger.With("component", "redis-store", "key", cfg.Key),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Load returns an empty state when the key is missing or its content does
// not decode. Connection errors are returned.
func (s *Store) Load(ctx context.Context) (domain.State, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewState(), nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("get %s: %w", s.key, err)
	}
	state := domain.NewState()
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("stored state malformed, starting empty", "error", err)
		return domain.NewState(), nil
	}
	if state.Verifications == nil {
		state.Verifications = []domain.Verdict{}
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, state domain.State) error {
	if state.Verifications == nil {
		state.Verifications = []domain.Verdict{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
