package auth

import (
	"context"
	"fmt"
)

// LoginChecker verifies a bearer token and its server-side session.
type LoginChecker struct {
	tokens   *TokenIssuer
	sessions *SessionStore
}

func NewLoginChecker(tokens *TokenIssuer, sessions *SessionStore) *LoginChecker {
	return &LoginChecker{
		tokens:   tokens,
		sessions: sessions,
	}
}

func (c *LoginChecker) Check(ctx context.Context, token string) (*Claims, error) {
	claims, err := c.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	active, err := c.sessions.IsActive(ctx, claims.ID, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !active {
		return nil, ErrSessionNotActive
	}

	return claims, nil
}
