package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/scaletrack/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// Each session is stored as JSON under its token with a TTL, and the token is
// also added to a per-user set so revocation can enumerate a user's sessions.
type SessionRepositoryImpl struct {
	client      *redis.Client
	prefix      string
	indexPrefix string
	ttl         time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client:      client,
		prefix:      "session:",
		indexPrefix: "user_sessions:",
		ttl:         ttl,
	}
}

func (r *SessionRepositoryImpl) sessionKey(token string) string {
	return r.prefix + token
}

func (r *SessionRepositoryImpl) indexKey(userID uint) string {
	return fmt.Sprintf("%s%d", r.indexPrefix, userID)
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.Token), data, r.ttl)
		pipe.SAdd(ctx, r.indexKey(session.UserID), session.Token)
		// The index must outlive its newest member so revocation can always
		// enumerate it.
		pipe.Expire(ctx, r.indexKey(session.UserID), r.ttl)
		return nil
	})
	return err
}

// FindByToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if session.ExpiresAt.Before(time.Now()) {
		// Clean up the expired session and its index entry
		r.client.Del(ctx, r.sessionKey(token))
		r.client.SRem(ctx, r.indexKey(session.UserID), token)
		return nil, domain.ErrSessionExpired
	}

	return &session, nil
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, token string) error {
	session, err := r.FindByToken(ctx, token)
	if err != nil {
		if err == domain.ErrSessionNotFound || err == domain.ErrSessionExpired {
			return nil
		}
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(token))
		pipe.SRem(ctx, r.indexKey(session.UserID), token)
		return nil
	})
	return err
}

// DeleteByUser implements domain.SessionRepository. Deletion is best-effort
// per key: a partial outcome returns the deleted count together with
// ErrPartialRevocation so callers can surface it instead of assuming success.
func (r *SessionRepositoryImpl) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	tokens, err := r.client.SMembers(ctx, r.indexKey(userID)).Result()
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, nil
	}

	var deleted int64
	var failures int
	for _, token := range tokens {
		if err := r.client.Del(ctx, r.sessionKey(token)).Err(); err != nil {
			failures++
			continue
		}
		deleted++
		r.client.SRem(ctx, r.indexKey(userID), token)
	}

	if failures > 0 {
		if deleted == 0 {
			return 0, fmt.Errorf("failed to delete any of %d sessions for user %d", len(tokens), userID)
		}
		return deleted, fmt.Errorf("deleted %d of %d sessions for user %d: %w",
			deleted, len(tokens), userID, domain.ErrPartialRevocation)
	}

	r.client.Del(ctx, r.indexKey(userID))
	return deleted, nil
}

// DeleteExpired implements domain.SessionRepository. Redis expires session
// keys via TTL on its own; this prunes index entries whose session key has
// already lapsed and returns the number pruned.
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	var pruned int64
	iter := r.client.Scan(ctx, 0, r.indexPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		indexKey := iter.Val()
		tokens, err := r.client.SMembers(ctx, indexKey).Result()
		if err != nil {
			return pruned, err
		}
		for _, token := range tokens {
			exists, err := r.client.Exists(ctx, r.sessionKey(token)).Result()
			if err != nil {
				return pruned, err
			}
			if exists == 0 {
				if err := r.client.SRem(ctx, indexKey, token).Err(); err != nil {
					return pruned, err
				}
				pruned++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return pruned, err
	}
	return pruned, nil
}
