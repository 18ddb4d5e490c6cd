package services

import (
	"context"
	"errors"

	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/metrics"
	"github.com/blog-publishing-api/internal/models"
	repo "github.com/blog-publishing-api/internal/repository"
)

type UserService struct {
	users repo.Users
	tm    *auth.TokenManager
	cost  int
	aud   *Auditor
}

func NewUserService(users repo.Users, tm *auth.TokenManager, bcryptCost int, aud *Auditor) *UserService {
	return &UserService{users: users, tm: tm, cost: bcryptCost, aud: aud}
}

// errInvalidCredentials is built fresh per failure but always identical, so
// an unknown email and a wrong password cannot be told apart.
func errInvalidCredentials() error {
	return apperr.Unauthenticated("incorrect email or password")
}

// Register creates the user and logs them in, returning a fresh token.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, string, error) {
	if err := models.ValidateRegistration(username, email, password); err != nil {
		return models.User{}, "", err
	}
	u := models.User{Username: username, Email: email}
	u.Normalize()

	exists, err := s.users.ExistsByIdentity(ctx, u.Username, u.Email)
	if err != nil {
		return models.User{}, "", err
	}
	if exists {
		return models.User{}, "", apperr.Conflict("user with this email or username already exists")
	}

	if err := u.SetPassword(password, s.cost); err != nil {
		return models.User{}, "", err
	}
	// The unique indexes close the check-then-insert race.
	u, err = s.users.Create(ctx, u)
	if err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return models.User{}, "", apperr.Conflict("user with this email or username already exists")
		}
		return models.User{}, "", err
	}

	token, _, err := s.tm.Issue(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	s.aud.Record("user", u.ID, auth.Subject{ID: u.ID}, "registered", nil)
	return u, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// Burn a comparison so this path costs the same as a mismatch.
			auth.BurnVerification(password)
			metrics.AuthFailures.WithLabelValues("credentials").Inc()
			return models.User{}, "", errInvalidCredentials()
		}
		return models.User{}, "", err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		metrics.AuthFailures.WithLabelValues("credentials").Inc()
		return models.User{}, "", errInvalidCredentials()
	}
	token, _, err := s.tm.Issue(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

// Subject resolves a verified token's user id into an authenticated subject.
func (s *UserService) Subject(ctx context.Context, userID string) (auth.Subject, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// The user behind a still-valid token may have been deleted.
			return auth.Anonymous, apperr.Unauthenticated("invalid token")
		}
		return auth.Anonymous, err
	}
	return auth.Subject{ID: u.ID, IsAdmin: u.IsAdmin}, nil
}

// Admin-gated surface; the router enforces CanManageUsers before these run.

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, actor auth.Subject, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.aud.Record("user", id, actor, "deleted", nil)
	return nil
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// EnsureAdmin creates the bootstrap admin when missing, or promotes an
// existing user with that email. A blank password skips creation.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if u.IsAdmin {
			return nil
		}
		return s.users.SetAdmin(ctx, u.ID, true)
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}
	if password == "" {
		return errors.New("no admin user exists and ADMIN_PASSWORD is not set")
	}
	admin := models.User{Username: username, Email: email, IsAdmin: true}
	admin.Normalize()
	if err := admin.SetPassword(password, s.cost); err != nil {
		return err
	}
	_, err = s.users.Create(ctx, admin)
	return err
}
