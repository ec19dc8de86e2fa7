package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New keeps per-session keys for ttl after their last write. ttl <= 0 means no expiry.
func New(addr, password string, db int, ttl time.Duration) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{rdb: rdb, ttl: ttl}
}

func NewFromClient(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func panelKey(sessionID string) string {
	return "panel:" + sessionID
}

// PanelOpen reports whether the chat panel is open. Sessions start closed.
func (s *Store) PanelOpen(ctx context.Context, sessionID string) (bool, error) {
	v, err := s.rdb.Get(ctx, panelKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *Store) SetPanelOpen(ctx context.Context, sessionID string, open bool) error {
	v := "0"
	if open {
		v = "1"
	}
	return s.rdb.Set(ctx, panelKey(sessionID), v, s.ttl).Err()
}

// flip the flag and refresh the expiry in one step
var toggleScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
local nv = "1"
if v == "1" then nv = "0" end
local ttl = tonumber(ARGV[1])
if ttl > 0 then
  redis.call("SET", KEYS[1], nv, "PX", ttl)
else
  redis.call("SET", KEYS[1], nv)
end
return nv
`)

// TogglePanel flips the flag and returns the new state.
func (s *Store) TogglePanel(ctx context.Context, sessionID string) (bool, error) {
	v, err := toggleScript.Run(ctx, s.rdb, []string{panelKey(sessionID)}, s.ttl.Milliseconds()).Text()
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, panelKey(sessionID)).Err()
}
