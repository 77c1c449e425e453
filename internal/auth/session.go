package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionTTL matches the cookie lifetime handed to the client.
	SessionTTL = 7 * 24 * time.Hour

	SessionCookie = "sessionId"
)

// SessionStore keeps session records in Redis, the single source of truth
// for issued session ids. Rows in Postgres reference sessions by id only.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Mint creates a new session id and records it with a 7-day TTL.
func (s *SessionStore) Mint(ctx context.Context) (string, error) {
	sid := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+sid, time.Now().UTC().Format(time.RFC3339), SessionTTL).Err()
	return sid, err
}

// Touch resets the TTL of an existing session so it stays alive as long
// as the client keeps registering users under it. Touching an unknown id
// is a no-op.
func (s *SessionStore) Touch(ctx context.Context, sid string) error {
	return s.rdb.Expire(ctx, "session:"+sid, SessionTTL).Err()
}
