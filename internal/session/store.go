package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when no last user has been saved.
var ErrNoSession = errors.New("no saved session")

// Store persists the last signed-in user so the client can restore its
// session without re-authenticating. Backed by Redis when available, with an
// in-memory fallback for single-process deployments.
type Store interface {
	SaveLastUser(ctx context.Context, userID int) error
	RestoreLastUser(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

const (
	lastUserKey = "session:last_user"
	sessionTTL  = 30 * 24 * time.Hour
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a session store backed by Redis.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) SaveLastUser(ctx context.Context, userID int) error {
	return s.client.Set(ctx, lastUserKey, strconv.Itoa(userID), sessionTTL).Err()
}

func (s *redisStore) RestoreLastUser(ctx context.Context) (int, error) {
	value, err := s.client.Get(ctx, lastUserKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, err
	}

	userID, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrNoSession
	}
	return userID, nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, lastUserKey).Err()
}

type memoryStore struct {
	mu     sync.RWMutex
	userID int
	saved  bool
}

// NewMemoryStore creates an in-process session store.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) SaveLastUser(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.saved = true
	return nil
}

func (s *memoryStore) RestoreLastUser(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return 0, ErrNoSession
	}
	return s.userID, nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.saved = false
	return nil
}
