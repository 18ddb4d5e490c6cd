package services_test

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/mocks"
	"github.com/blog-publishing-api/internal/services"
)

func newUserService() (*services.UserService, *mocks.Store) {
	store := mocks.NewStore()
	tm := auth.NewTokenManager("test-secret", time.Hour)
	aud := services.NewAuditor(store.AuditLogs, nil)
	return services.NewUserService(store.Users, tm, bcrypt.MinCost, aud), store
}

func TestRegisterDuplicateEmailAnyCasing(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "Alice@Example.com", "secret123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(ctx, "alice2", "alice@example.COM", "secret123")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("expected conflict for same email with different casing, got %v", err)
	}
}

func TestRegisterUsernameCaseIsDistinct(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, "Alice", "other@example.com", "secret123"); err != nil {
		t.Errorf("usernames differing only in case are distinct users, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"short username", "ab", "a@example.com", "secret123"},
		{"bad email", "alice", "not-an-email", "secret123"},
		{"short password", "alice", "a@example.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, errWrongPass := svc.Login(ctx, "alice@example.com", "wrong-password")
	_, _, errNoUser := svc.Login(ctx, "ghost@example.com", "whatever")

	if errWrongPass == nil || errNoUser == nil {
		t.Fatal("both logins should fail")
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Errorf("failure messages must match: %q vs %q", errWrongPass, errNoUser)
	}
	if !apperr.IsKind(errWrongPass, apperr.KindAuthentication) || !apperr.IsKind(errNoUser, apperr.KindAuthentication) {
		t.Error("both failures must be authentication errors")
	}
}

func TestLoginReturnsUsableToken(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, token, err := svc.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	tm := auth.NewTokenManager("test-secret", time.Hour)
	uid, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}
	if uid != u.ID {
		t.Errorf("token subject %q, want %q", uid, u.ID)
	}
}

func TestDeletedUserLosesAccess(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := store.Users.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, err = svc.Subject(ctx, u.ID)
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Errorf("expected authentication error for deleted user, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	// fresh store: creates the admin
	if err := svc.EnsureAdmin(ctx, "AdminUser", "admin@example.com", "Admin123"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	u, err := store.Users.GetByEmail(ctx, "admin@example.com")
	if err != nil || !u.IsAdmin {
		t.Fatalf("admin not created: %v %v", u, err)
	}

	// existing non-admin with the same email: promoted, not duplicated
	svc2, store2 := newUserService()
	reg, _, err := svc2.Register(ctx, "someone", "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc2.EnsureAdmin(ctx, "AdminUser", "admin@example.com", "Admin123"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	promoted, _ := store2.Users.GetByID(ctx, reg.ID)
	if !promoted.IsAdmin {
		t.Error("existing user should have been promoted to admin")
	}
	if n, _ := store2.Users.Count(ctx); n != 1 {
		t.Errorf("expected 1 user after promotion, got %d", n)
	}
}
