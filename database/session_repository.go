package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Juli03-22/lookaly-fullstack/models"
)

// SessionRepository stores one Session per browser-tab session id, under a
// TTL so the slot never outlives the credential it holds.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func (r *SessionRepository) key(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Get returns the stored session, or nil when the session is anonymous.
// A corrupt slot is deleted and treated as anonymous rather than surfaced.
func (r *SessionRepository) Get(ctx context.Context, sid string) (*models.Session, error) {
	key := r.key(sid)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		_ = r.client.Del(ctx, key).Err()
		return nil, nil
	}
	if session.Token == "" {
		_ = r.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, sid string, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(sid), data, ttl).Err()
}

func (r *SessionRepository) Delete(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid)).Err()
}
