package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskbox/todo-api/internal/api/metrics"
	"github.com/taskbox/todo-api/internal/core/domain"
	"github.com/taskbox/todo-api/internal/core/ports"
	"github.com/taskbox/todo-api/internal/password"
	"github.com/taskbox/todo-api/internal/token"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 100
)

// AuthService implements registration, login, token resolution and logout.
type AuthService struct {
	users    ports.UserRepository
	hasher   *password.Hasher
	codec    *token.Codec
	denylist ports.TokenDenylist
}

func NewAuthService(users ports.UserRepository, hasher *password.Hasher, codec *token.Codec, denylist ports.TokenDenylist) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec, denylist: denylist}
}

// Register creates an account. The email is lowercased before anything else
// so addresses differing only in case collide on the unique index. The
// plaintext password never reaches the repository; only hash and salt do.
func (s *AuthService) Register(ctx context.Context, email, plaintext string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if len(plaintext) < minPasswordLen || len(plaintext) > maxPasswordLen {
		return nil, fmt.Errorf("%w: password must be between %d and %d characters",
			domain.ErrValidation, minPasswordLen, maxPasswordLen)
	}

	hash, salt, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	return created, nil
}

// Login authenticates credentials and issues a bearer token. Unknown email
// and wrong password are deliberately indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plaintext == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.codec.Issue(user.ID, token.PurposeAuthentication)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return tok, user, nil
}

// Authenticate resolves a presented token to a live user record. The token's
// subject is a weak reference: a subject that has since disappeared fails
// resolution the same way a forged token does. Nothing about the decision is
// cached across requests.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.codec.Resolve(tokenString)
	if err != nil {
		metrics.TokenResolutionsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidToken
	}
	if claims.Purpose != token.PurposeAuthentication {
		metrics.TokenResolutionsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidToken
	}

	// Fail closed: a deny-list error rejects the token rather than letting
	// a possibly revoked one through.
	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil || revoked {
		metrics.TokenResolutionsTotal.WithLabelValues("revoked").Inc()
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		metrics.TokenResolutionsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidToken
	}

	metrics.TokenResolutionsTotal.WithLabelValues("ok").Inc()
	return user, nil
}

// Logout places the token's id on the deny-list for the remainder of the
// token's lifetime, after which the entry expires together with the token.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.codec.Resolve(tokenString)
	if err != nil {
		return domain.ErrInvalidToken
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	metrics.TokenRevocationsTotal.Inc()
	return nil
}
