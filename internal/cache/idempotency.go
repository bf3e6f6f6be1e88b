package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "rentago:idem:"
	inFlightValue = "__in_flight__"
)

// ErrInFlight means another request with the same key has not finished yet.
var ErrInFlight = errors.New("idempotent request still in progress")

// Idempotency reserves client-supplied keys in redis and stores the response
// produced for them so a retried submission replays instead of re-booking.
type Idempotency struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewIdempotency connects to REDIS_URL. An empty url returns nil (disabled).
func NewIdempotency(ctx context.Context, url string, ttl time.Duration) (*Idempotency, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Idempotency{Client: client, TTL: ttl}, nil
}

func (s *Idempotency) key(scope, key string) string {
	return keyPrefix + scope + ":" + key
}

// Reserve claims the key. It returns the stored response when the key was
// already completed, ErrInFlight when it is still being processed, and
// (nil, nil) when the caller now owns the key.
func (s *Idempotency) Reserve(ctx context.Context, scope, key string) ([]byte, error) {
	k := s.key(scope, key)
	ok, err := s.Client.SetNX(ctx, k, inFlightValue, s.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}
	val, err := s.Client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; try once more
		ok, err = s.Client.SetNX(ctx, k, inFlightValue, s.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if ok {
			return nil, nil
		}
		return nil, ErrInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}
	if string(val) == inFlightValue {
		return nil, ErrInFlight
	}
	return val, nil
}

// Complete stores the response for replay.
func (s *Idempotency) Complete(ctx context.Context, scope, key string, response []byte) error {
	return s.Client.Set(ctx, s.key(scope, key), response, s.TTL).Err()
}

// Release drops a reservation whose request failed, so the client may retry.
func (s *Idempotency) Release(ctx context.Context, scope, key string) error {
	return s.Client.Del(ctx, s.key(scope, key)).Err()
}

func (s *Idempotency) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Close()
}
