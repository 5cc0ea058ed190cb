package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository"
)

const sessionIssuer = "tasktracker"

// SessionService binds requests to an authenticated identity.
//
// The token handed to the client is an HS256 JWT whose jti names a
// server-side session row. The signature keeps forged IDs away from the
// store; the row makes logout effective before the token expires.
type SessionService interface {
	Login(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)
	CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error)
	Logout(ctx context.Context, token string) error
	TTL() time.Duration
}

type SessionOptions struct {
	Secret string
	TTL    time.Duration
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

type sessionService struct {
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, opts SessionOptions) (SessionService, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &sessionService{
		sessions: sessions,
		secret:   []byte(opts.Secret),
		ttl:      opts.TTL,
		now:      opts.Now,
	}, nil
}

func (s *sessionService) TTL() time.Duration {
	return s.ttl
}

func (s *sessionService) Login(ctx context.Context, user *domain.User) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, domain.ErrUnauthenticated
	}

	now := s.now().UTC()
	if _, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		return "", time.Time{}, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   session.UserID,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, session.ExpiresAt, nil
}

// CurrentIdentity resolves token to an identity. Any token that does not map
// to a live session yields nil without an error; errors are reserved for
// store failures.
func (s *sessionService) CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	claims, ok := s.parse(token, true)
	if !ok {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.UserID != claims.Subject {
		return nil, nil
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	identity := session.Identity()
	return &identity, nil
}

// Logout destroys the session behind token. Unknown, expired or malformed
// tokens are ignored.
func (s *sessionService) Logout(ctx context.Context, token string) error {
	claims, ok := s.parse(token, false)
	if !ok {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

func (s *sessionService) parse(token string, validateClaims bool) (*jwt.RegisteredClaims, bool) {
	if strings.TrimSpace(token) == "" {
		return nil, false
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if validateClaims {
		opts = append(opts, jwt.WithIssuer(sessionIssuer), jwt.WithExpirationRequired())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, false
	}
	return claims, true
}
