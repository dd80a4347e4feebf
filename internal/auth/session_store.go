package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL            = 24 * 7 * time.Hour
	sessionKeyPrefix      = "fitplanner-session||"
	userSessionsKeyPrefix = "fitplanner-user-sessions||"
	tokensSetKey          = "fitplanner-sessions"
)

// SessionStore keeps the ids (jti) of issued tokens in redis, each bound to the
// user it was issued for. A token is only accepted while its id is present,
// belongs to the token's user and is younger than the ttl.
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSessionStore(ttl time.Duration, redisClient *redis.Client) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

func userSessionsKey(userID int) string {
	return userSessionsKeyPrefix + strconv.Itoa(userID)
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

func (s *SessionStore) Add(ctx context.Context, tokenID string, userID int, createdAt time.Time) error {
	if err := s.redisClient.Set(ctx, sessionKey(tokenID), sessionValue(userID, createdAt), s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	// add token to list of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, tokenID).Err(); err != nil {
		return fmt.Errorf("add to sessions set: %w", err)
	}

	userKey := userSessionsKey(userID)
	if err := s.redisClient.SAdd(ctx, userKey, tokenID).Err(); err != nil {
		return fmt.Errorf("add to user sessions set: %w", err)
	}
	if err := s.redisClient.Expire(ctx, userKey, s.ttl).Err(); err != nil {
		return fmt.Errorf("expire user sessions set: %w", err)
	}

	return nil
}

// session value format: <user id>|<created at unix>
func sessionValue(userID int, createdAt time.Time) string {
	return strconv.Itoa(userID) + "|" + strconv.FormatInt(createdAt.Unix(), 10)
}

func parseSessionValue(value string) (userID int, createdAt time.Time, err error) {
	userPart, createdPart, found := strings.Cut(value, "|")
	if !found {
		return 0, time.Time{}, fmt.Errorf("malformed session value: %q", value)
	}
	userID, err = strconv.Atoi(userPart)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdPart, 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("session created at: %w", err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}

// get returns found=false for missing keys.
func (s *SessionStore) get(ctx context.Context, tokenID string) (userID int, createdAt time.Time, found bool, err error) {
	cmd := s.redisClient.Get(ctx, sessionKey(tokenID))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, time.Time{}, false, nil
		}
		return 0, time.Time{}, false, err
	}

	userID, createdAt, err = parseSessionValue(cmd.Val())
	if err != nil {
		return 0, time.Time{}, false, err
	}
	return userID, createdAt, true, nil
}

// IsActive reports whether the session exists, was issued for userID and is not older than the ttl.
func (s *SessionStore) IsActive(ctx context.Context, tokenID string, userID int) (bool, error) {
	sessionUserID, createdAt, found, err := s.get(ctx, tokenID)
	if err != nil || !found {
		return false, err
	}
	if sessionUserID != userID {
		log.Warnf("session %s belongs to user %d, token claims user %d", tokenID, sessionUserID, userID)
		return false, nil
	}

	return time.Since(createdAt) <= s.ttl, nil
}

// Remove revokes a single session. Returns false if it was not present.
func (s *SessionStore) Remove(ctx context.Context, tokenID string, userID int) (bool, error) {
	cmdDel := s.redisClient.Del(ctx, sessionKey(tokenID))
	if err := cmdDel.Err(); err != nil {
		return false, err
	}

	if err := s.redisClient.SRem(ctx, tokensSetKey, tokenID).Err(); err != nil {
		return false, err
	}
	if err := s.redisClient.SRem(ctx, userSessionsKey(userID), tokenID).Err(); err != nil {
		return false, err
	}

	return cmdDel.Val() > 0, nil
}

func (s *SessionStore) RemoveAllForUser(ctx context.Context, userID int) error {
	userKey := userSessionsKey(userID)
	cmd := s.redisClient.SMembers(ctx, userKey)
	if err := cmd.Err(); err != nil {
		return err
	}

	for _, tokenID := range cmd.Val() {
		if err := s.redisClient.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
			return err
		}
		if err := s.redisClient.SRem(ctx, tokensSetKey, tokenID).Err(); err != nil {
			return err
		}
	}

	return s.redisClient.Del(ctx, userKey).Err()
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *SessionStore) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! session store, scan and clean, get sessions: %s", err)
		return
	}

	tokenIDs := cmd.Val()
	if len(tokenIDs) == 0 {
		log.Debugln("=> session store, scan and clean abort, no sessions")
		return
	}

	log.Infof("=> session store, scan and clean [%d sessions] start ...", len(tokenIDs))
	var toRemove []string
	for _, tokenID := range tokenIDs {
		_, createdAt, found, err := s.get(ctx, tokenID)
		if err != nil {
			log.Errorf("=> session store, scan and clean token %s: %s", tokenID, err)
			continue
		}
		if !found || time.Since(createdAt) > s.ttl {
			toRemove = append(toRemove, tokenID)
		}
	}

	for _, tokenID := range toRemove {
		if err := s.redisClient.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
			log.Errorf("=> session store, clean token %s: %s", tokenID, err)
			continue
		}

		// remove token from the list of sessions
		if err := s.redisClient.SRem(ctx, tokensSetKey, tokenID).Err(); err != nil {
			log.Errorf("=> session store, clean token %s: %s", tokenID, err)
			continue
		}
	}

	log.Infof("=> session store, scan and clean done, removed %d sessions", len(toRemove))
}
