package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/fitplanner/internal/telemetry/metrics"
	"github.com/2beens/fitplanner/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

const minPasswordLength = 6

type usersRepo interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	UpdateProfile(ctx context.Context, id int, profile Profile) (*User, error)
	UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error
	Delete(ctx context.Context, id int) error
}

type sessionStore interface {
	Add(ctx context.Context, tokenID string, userID int, createdAt time.Time) error
	Remove(ctx context.Context, tokenID string, userID int) (bool, error)
	RemoveAllForUser(ctx context.Context, userID int) error
}

type Service struct {
	users    usersRepo
	sessions sessionStore
	tokens   *TokenIssuer
	metrics  *metrics.Manager
}

func NewService(
	users usersRepo,
	sessions sessionStore,
	tokens *TokenIssuer,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		metrics:  metricsManager,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CounterSignups.Inc()
	log.Debugf("auth service, new user registered: %d", user.ID)

	return s.startSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, ErrEmailPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

func (s *Service) startSession(ctx context.Context, user *User) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Add(ctx, claims.ID, user.ID, claims.IssuedAt.Time); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) Logout(ctx context.Context, claims *Claims) (bool, error) {
	return s.sessions.Remove(ctx, claims.ID, claims.UserID)
}

func (s *Service) GetUser(ctx context.Context, userID int) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int, profile Profile) (*User, error) {
	profile.Goal = strings.TrimSpace(profile.Goal)
	profile.Gender = strings.TrimSpace(profile.Gender)
	profile.Experience = strings.TrimSpace(profile.Experience)
	profile.Equipment = strings.TrimSpace(profile.Equipment)
	profile.Frequency = strings.TrimSpace(profile.Frequency)
	return s.users.UpdateProfile(ctx, userID, profile)
}

func (s *Service) UpdatePassword(ctx context.Context, userID int, req UpdatePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return ErrPasswordsRequired
	}
	if utf8.RuneCountInString(req.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !pkg.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return ErrInvalidPassword
	}

	hash, err := pkg.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

// DeleteAccount removes the user with all of its plans and sessions, and revokes every login session.
func (s *Service) DeleteAccount(ctx context.Context, userID int) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.sessions.RemoveAllForUser(ctx, userID); err != nil {
		log.Errorf("auth service, delete account %d, revoke sessions: %s", userID, err)
	}

	return nil
}
