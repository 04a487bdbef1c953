package api

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"github.com/taskbox/todo-api/internal/api/middleware"
	"github.com/taskbox/todo-api/internal/infrastructure/config"
	"github.com/taskbox/todo-api/internal/infrastructure/db"
	"github.com/taskbox/todo-api/internal/infrastructure/db/memory"
)

// newTestRouter stands up the full HTTP surface on a temporary SQLite file.
// The prometheus middleware registers collectors globally, so every subtest
// shares the single router built here.
func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	store, err := db.Open(context.Background(), db.Config{
		Env:        "test",
		SQLitePath: filepath.Join(t.TempDir(), "api-test.sqlite"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Env:         "test",
		PublicDir:   filepath.Join(t.TempDir(), "no-public"),
		BcryptCost:  4,
		HashWorkers: 2,
		Token: config.TokenConfig{
			TTL:       time.Hour,
			ActiveKID: "v1",
			SignKeys:  map[string]string{"v1": "test-sign-key"},
			CryptKeys: map[string]string{"v1": "test-crypt-key"},
		},
	}

	e, err := NewRouter(store, nil, memory.NewDenylist(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return e
}

// register creates an account and returns a fresh token for it.
func register(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()

	apitest.New().
		Handler(e).
		Post("/users").
		JSON(map[string]string{"email": email, "password": password}).
		Expect(t).
		Status(http.StatusOK).
		End()

	return login(t, e, email, password)
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()

	res := apitest.New().
		Handler(e).
		Post("/users/login").
		JSON(map[string]string{"email": email, "password": password}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present(`$.token`)).
		End()

	tok := res.Response.Header.Get(middleware.HeaderAuth)
	if tok == "" {
		t.Fatalf("login response missing %s header", middleware.HeaderAuth)
	}
	return tok
}

func TestAPI(t *testing.T) {
	e := newTestRouter(t)

	t.Run("register login and manage todos", func(t *testing.T) {
		apitest.New().
			Handler(e).
			Post("/users").
			JSON(map[string]string{"email": "Alice@Example.com", "password": "supersecret"}).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal(`$.email`, "alice@example.com")).
			End()

		tok := login(t, e, "alice@example.com", "supersecret")

		apitest.New().
			Handler(e).
			Get("/todos").
			Header(middleware.HeaderAuth, tok).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Len(`$`, 0)).
			End()

		res := apitest.New().
			Handler(e).
			Post("/todos").
			Header(middleware.HeaderAuth, tok).
			JSON(map[string]string{"description": "buy milk"}).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal(`$.description`, "buy milk")).
			Assert(jsonpath.Equal(`$.completed`, false)).
			End()

		var created struct {
			ID int64 `json:"id"`
		}
		res.JSON(&created)
		if created.ID == 0 {
			t.Fatalf("expected created todo to carry an id")
		}

		id := int(created.ID)
		apitest.New().
			Handler(e).
			Deletef("/todos/%d", id).
			Header(middleware.HeaderAuth, tok).
			Expect(t).
			Status(http.StatusNoContent).
			End()

		apitest.New().
			Handler(e).
			Getf("/todos/%d", id).
			Header(middleware.HeaderAuth, tok).
			Expect(t).
			Status(http.StatusNotFound).
			End()
	})

	t.Run("register rejects case variant of taken email", func(t *testing.T) {
		_ = register(t, e, "bob@example.com", "supersecret")

		apitest.New().
			Handler(e).
			Post("/users").
			JSON(map[string]string{"email": "BOB@example.com", "password": "supersecret"}).
			Expect(t).
			Status(http.StatusBadRequest).
			Assert(jsonpath.Present(`$.errors`)).
			End()
	})

	t.Run("login failures are bare 401s", func(t *testing.T) {
		_ = register(t, e, "carol@example.com", "supersecret")

		apitest.New().
			Handler(e).
			Post("/users/login").
			JSON(map[string]string{"email": "carol@example.com", "password": "wrong-password"}).
			Expect(t).
			Status(http.StatusUnauthorized).
			Body(``).
			End()

		apitest.New().
			Handler(e).
			Post("/users/login").
			JSON(map[string]string{"email": "ghost@example.com", "password": "supersecret"}).
			Expect(t).
			Status(http.StatusUnauthorized).
			Body(``).
			End()
	})

	t.Run("todos are invisible across users", func(t *testing.T) {
		owner := register(t, e, "dave@example.com", "supersecret")
		other := register(t, e, "erin@example.com", "supersecret")

		res := apitest.New().
			Handler(e).
			Post("/todos").
			Header(middleware.HeaderAuth, owner).
			JSON(map[string]string{"description": "private thing"}).
			Expect(t).
			Status(http.StatusOK).
			End()

		var created struct {
			ID int64 `json:"id"`
		}
		res.JSON(&created)

		apitest.New().
			Handler(e).
			Getf("/todos/%d", int(created.ID)).
			Header(middleware.HeaderAuth, other).
			Expect(t).
			Status(http.StatusNotFound).
			End()

		apitest.New().
			Handler(e).
			Deletef("/todos/%d", int(created.ID)).
			Header(middleware.HeaderAuth, other).
			Expect(t).
			Status(http.StatusNotFound).
			Assert(jsonpath.Present(`$.error`)).
			End()

		apitest.New().
			Handler(e).
			Get("/todos").
			Header(middleware.HeaderAuth, other).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Len(`$`, 0)).
			End()
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		tok := register(t, e, "frank@example.com", "supersecret")

		apitest.New().
			Handler(e).
			Get("/me").
			Header(middleware.HeaderAuth, tok).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal(`$.email`, "frank@example.com")).
			End()

		apitest.New().
			Handler(e).
			Delete("/users/login").
			Header(middleware.HeaderAuth, tok).
			Expect(t).
			Status(http.StatusNoContent).
			End()

		apitest.New().
			Handler(e).
			Get("/me").
			Header(middleware.HeaderAuth, tok).
			Expect(t).
			Status(http.StatusUnauthorized).
			End()
	})

	t.Run("protected routes reject missing and garbage tokens", func(t *testing.T) {
		apitest.New().
			Handler(e).
			Get("/todos").
			Expect(t).
			Status(http.StatusUnauthorized).
			Body(``).
			End()

		apitest.New().
			Handler(e).
			Get("/todos").
			Header(middleware.HeaderAuth, "not-a-token").
			Expect(t).
			Status(http.StatusUnauthorized).
			Body(``).
			End()
	})

	t.Run("health and metrics", func(t *testing.T) {
		apitest.New().
			Handler(e).
			Get("/health").
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal(`$.status`, "ok")).
			End()

		apitest.New().
			Handler(e).
			Get("/health/ready").
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal(`$.database`, "ok")).
			End()

		apitest.New().
			Handler(e).
			Get("/metrics").
			Expect(t).
			Status(http.StatusOK).
			End()
	})
}
