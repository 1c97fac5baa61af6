package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/bodymeasures/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "bodymeasures-session||"
	tokensSetKey     = "bodymeasures-sessions"
	tokenLength      = 35
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidRole     = errors.New("invalid role")
)

// Service stores sessions in redis as hashes keyed by token. Issuing them
// (login) happens elsewhere; this service only creates, resolves and drops them.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (s *Service) CreateSession(ctx context.Context, userID string, role Role, createdAt time.Time) (Session, error) {
	if !role.IsValid() {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if userID == "" {
		return Session{}, errors.New("user id empty")
	}

	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.HSet(ctx, sessionKey,
		"user_id", userID,
		"role", string(role),
		"created_at", strconv.FormatInt(createdAt.Unix(), 10),
	).Err(); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}

	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return Session{}, fmt.Errorf("register session token: %w", err)
	}

	return Session{
		Token:     token,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Unix(createdAt.Unix(), 0),
	}, nil
}

// Get resolves a token into a session, rejecting it when older than the TTL.
func (s *Service) Get(ctx context.Context, token string) (Session, error) {
	values, err := s.redisClient.HGetAll(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return Session{}, err
	}
	if len(values) == 0 {
		return Session{}, ErrSessionNotFound
	}

	createdAtUnix, err := strconv.ParseInt(values["created_at"], 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("parse session created at: %w", err)
	}

	createdAt := time.Unix(createdAtUnix, 0)
	if time.Since(createdAt) > s.ttl {
		return Session{}, ErrSessionExpired
	}

	role := Role(values["role"])
	if !role.IsValid() {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	return Session{
		Token:     token,
		UserID:    values["user_id"],
		Role:      role,
		CreatedAt: createdAt,
	}, nil
}

// Delete drops the session; returns false when it did not exist.
func (s *Service) Delete(ctx context.Context, token string) (bool, error) {
	deleted, err := s.redisClient.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}

	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	return deleted > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *Service) ScanAndClean(ctx context.Context) {
	sessionTokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	removed := 0
	for _, token := range sessionTokens {
		_, err := s.Get(ctx, token)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrSessionExpired) && !errors.Is(err, ErrSessionNotFound) {
			log.Errorf("auth service, scan and clean token: %s", err)
			continue
		}
		if _, err := s.Delete(ctx, token); err != nil {
			log.Errorf("auth service, scan and clean, delete token: %s", err)
			continue
		}
		removed++
	}

	log.Debugf("auth service, scan and clean done, removed %d sessions", removed)
}
