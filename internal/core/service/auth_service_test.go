package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskbox/todo-api/internal/core/domain"
	"github.com/taskbox/todo-api/internal/password"
	"github.com/taskbox/todo-api/internal/token"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*domain.User{}, byID: map[int64]*domain.User{}, nextID: 1}
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	u := *user
	u.ID = r.nextID
	r.nextID++
	r.byEmail[u.Email] = &u
	r.byID[u.ID] = &u
	return &u, nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type stubDenylist struct {
	revoked map[string]bool
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: map[string]bool{}}
}

func (d *stubDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if d.err != nil {
		return d.err
	}
	d.revoked[tokenID] = true
	return nil
}

func (d *stubDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.revoked[tokenID], nil
}

func newAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubDenylist) {
	t.Helper()
	kr, err := token.NewKeyring("v1", map[string]token.Key{
		"v1": {Sign: "sign-secret", Encrypt: "encrypt-secret"},
	})
	if err != nil {
		t.Fatalf("keyring: %v", err)
	}
	users := newStubUserRepo()
	denylist := newStubDenylist()
	svc := NewAuthService(users, password.NewHasher(4, 2), token.NewCodec(kr, time.Hour), denylist)
	return svc, users, denylist
}

func TestAuthService_Register_LowercasesEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), "A@X.Com", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordSalt == "" {
		t.Fatalf("expected derived hash and salt to be set")
	}
	if user.PasswordHash == "password1" {
		t.Fatalf("plaintext must never be stored")
	}
}

func TestAuthService_Register_DuplicateEmailDiffersOnlyInCase(t *testing.T) {
	svc, _, _ := newAuthService(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "A@x.com", "password1")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_PasswordLength(t *testing.T) {
	svc, _, _ := newAuthService(t)

	for _, pw := range []string{"short", "", string(make([]byte, 101))} {
		_, err := svc.Register(context.Background(), "a@x.com", pw)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("password %q: expected ErrValidation, got %v", pw, err)
		}
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newAuthService(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tok, user, err := svc.Login(context.Background(), "A@X.COM", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected a token")
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _, _ := newAuthService(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct{ email, password string }{
		{"nobody@x.com", "password1"}, // unknown email
		{"a@x.com", "wrongpassword"},  // wrong password
		{"", "password1"},
		{"a@x.com", ""},
	}
	for _, tc := range cases {
		_, _, err := svc.Login(context.Background(), tc.email, tc.password)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
}

func TestAuthService_Authenticate_RoundTrip(t *testing.T) {
	svc, _, _ := newAuthService(t)

	registered, err := svc.Register(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	tok, _, err := svc.Login(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}
}

func TestAuthService_Authenticate_SubjectGone(t *testing.T) {
	svc, users, _ := newAuthService(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	tok, user, err := svc.Login(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	delete(users.byID, user.ID)
	delete(users.byEmail, user.Email)

	if _, err := svc.Authenticate(context.Background(), tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for deleted subject, got %v", err)
	}
}

func TestAuthService_Authenticate_GarbageToken(t *testing.T) {
	svc, _, _ := newAuthService(t)

	if _, err := svc.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	svc, _, denylist := newAuthService(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	tok, _, err := svc.Login(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), tok); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(denylist.revoked) != 1 {
		t.Fatalf("expected one revoked token id, got %d", len(denylist.revoked))
	}
	if _, err := svc.Authenticate(context.Background(), tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestAuthService_Authenticate_DenylistFailureFailsClosed(t *testing.T) {
	svc, _, denylist := newAuthService(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	tok, _, err := svc.Login(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	denylist.err = errors.New("store down")
	if _, err := svc.Authenticate(context.Background(), tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken when deny-list is unavailable, got %v", err)
	}
}
