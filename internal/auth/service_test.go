package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/internal/users"
	pkgauth "github.com/contentcreate/storefront-backend/pkg/auth"
	"github.com/contentcreate/storefront-backend/pkg/config"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type fakeSessions struct {
	open    []string
	revoked []string
}

func (f *fakeSessions) Open(_ context.Context, accessID string, _ uuid.UUID) error {
	f.open = append(f.open, accessID)
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

type fakeLimiter struct {
	allow bool
	calls []string
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, _ int64, _ time.Duration) (bool, int64, error) {
	f.calls = append(f.calls, scope)
	return f.allow, 1, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 15,
		SessionTTLMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	// small parameters keep the test suite fast
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

type fixture struct {
	db       *gorm.DB
	svc      Service
	sessions *fakeSessions
	limiter  *fakeLimiter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:auth_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sessions := &fakeSessions{}
	limiter := &fakeLimiter{allow: true}
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(db),
		SessionManager: sessions,
		RateLimiter:    limiter,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
		RateLimits: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginEmailLimit: 5,
			LoginIPLimit:    20,
		},
		Logger: logger.New(logger.Options{Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return &fixture{db: db, svc: svc, sessions: sessions, limiter: limiter}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, RegisterRequest{
		Username: "kwame",
		Email:    "Kwame@Example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		t.Fatalf("incomplete response: %+v", resp)
	}
	if resp.User.Email != "kwame@example.com" {
		t.Fatalf("email should be normalized, got %q", resp.User.Email)
	}
	if len(f.sessions.open) != 1 {
		t.Fatalf("expected one session, got %d", len(f.sessions.open))
	}

	login, err := f.svc.Login(ctx, LoginRequest{Email: "kwame@example.com", Password: "correct horse battery"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.LastLogin == nil {
		t.Fatal("login should stamp last_login")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatal("token should carry the user id")
	}
	if claims.Role != resp.User.Role {
		t.Fatal("token should carry the legacy role")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, RegisterRequest{Username: "ama", Email: "ama@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := f.svc.Register(ctx, RegisterRequest{Username: "other", Email: "ama@example.com", Password: "longenough"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}

	_, err = f.svc.Register(ctx, RegisterRequest{Username: "ama", Email: "fresh@example.com", Password: "longenough"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("duplicate username should conflict, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, RegisterRequest{Username: "kofi", Email: "kofi@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := f.svc.Login(ctx, LoginRequest{Email: "kofi@example.com", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("wrong password should be unauthorized, got %v", err)
	}

	_, err = f.svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unknown email should be unauthorized, got %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.limiter.allow = false

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "kofi@example.com", Password: "x", ClientIP: "203.0.113.9"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit, got %v", err)
	}
	if len(f.limiter.calls) == 0 {
		t.Fatal("limiter was not consulted")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(f.sessions.revoked) != 1 || f.sessions.revoked[0] != "access-123" {
		t.Fatalf("unexpected revocations: %v", f.sessions.revoked)
	}
}
