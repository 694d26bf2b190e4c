package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("idempotency key not found")
	ErrHashMismatch = errors.New("idempotency key body mismatch")
	ErrInProgress   = errors.New("idempotency key in progress")
)

const redisKeyPrefix = "idempotency"

type Record struct {
	Key         string
	RequestHash string
	Status      int
	Body        []byte
	ContentType string
	ServedBy    string
}

type entry struct {
	record     Record
	inProgress bool
	expiresAt  time.Time
}

// Store tracks idempotency keys. The in-memory map is authoritative, matching
// the rest of the ledger; a Redis client, when configured, acts as a replay
// cache so repeated keys can be served without touching the map.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	redis redis.Cmdable
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(redis redis.Cmdable, ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		redis:   redis,
		ttl:     ttl,
		now:     time.Now,
	}
}

type cacheEnvelope struct {
	Key         string `json:"key"`
	Hash        string `json:"hash"`
	Status      int    `json:"status"`
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// Lookup returns the stored response for key. It checks the Redis replay
// cache first, then the in-memory map. A key reserved but not yet finalized
// yields ErrInProgress; a key stored under a different request body yields
// ErrHashMismatch.
func (s *Store) Lookup(ctx context.Context, key, requestHash string) (*Record, error) {
	if s.redis != nil {
		val, err := s.redis.Get(ctx, redisKey(key)).Result()
		if err == nil {
			var env cacheEnvelope
			if json.Unmarshal([]byte(val), &env) == nil {
				if env.Hash != requestHash {
					return nil, ErrHashMismatch
				}
				return &Record{
					Key:         env.Key,
					RequestHash: env.Hash,
					Status:      env.Status,
					Body:        env.Body,
					ContentType: env.ContentType,
					ServedBy:    "redis",
				}, nil
			}
		} else if err != redis.Nil {
			zap.L().Warn("redis idempotency lookup failed", zap.Error(err))
		}
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if e.record.RequestHash != requestHash {
		s.mu.Unlock()
		return nil, ErrHashMismatch
	}
	if e.inProgress {
		s.mu.Unlock()
		return nil, ErrInProgress
	}
	rec := e.record
	s.mu.Unlock()

	rec.ServedBy = "memory"
	s.cache(ctx, rec)
	return &rec, nil
}

// Reserve claims key for the caller. It returns false when the key is already
// held, in which case the caller should look up or wait for the stored
// response.
func (s *Store) Reserve(ctx context.Context, key, requestHash, method, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !s.now().After(e.expiresAt) {
		return false, nil
	}
	s.entries[key] = &entry{
		record:     Record{Key: key, RequestHash: requestHash},
		inProgress: true,
		expiresAt:  s.now().Add(s.ttl),
	}
	return true, nil
}

// Finalize stores the response under a previously reserved key.
func (s *Store) Finalize(ctx context.Context, key, requestHash string, status int, body []byte, contentType string) (*Record, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.record.RequestHash != requestHash {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	e.record.Status = status
	e.record.Body = body
	e.record.ContentType = contentType
	e.inProgress = false
	rec := e.record
	s.mu.Unlock()

	rec.ServedBy = "memory"
	s.cache(ctx, rec)
	return &rec, nil
}

// WaitForCompletion polls until a concurrently held key finalizes.
func (s *Store) WaitForCompletion(ctx context.Context, key, requestHash string) (*Record, error) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		rec, err := s.Lookup(ctx, key, requestHash)
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, ErrInProgress) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
				continue
			}
		}
		return nil, err
	}
}

func (s *Store) cache(ctx context.Context, rec Record) {
	if s.redis == nil {
		return
	}
	env := cacheEnvelope{
		Key:         rec.Key,
		Hash:        rec.RequestHash,
		Status:      rec.Status,
		Body:        rec.Body,
		ContentType: rec.ContentType,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		zap.L().Warn("marshal idempotency cache", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, redisKey(rec.Key), payload, s.ttl).Err(); err != nil {
		zap.L().Warn("redis idempotency cache set failed", zap.Error(err))
	}
}

func redisKey(key string) string {
	return fmt.Sprintf("%s:%s", redisKeyPrefix, key)
}
