package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/auth"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary is the user shape embedded in auth responses; it never carries
// the credential hash.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}

// SetPassword is the only path that hashes a credential. Updates that do
// not change the password must leave PasswordHash untouched.
func (u *User) SetPassword(plaintext string, cost int) error {
	hash, err := auth.HashPassword(plaintext, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// Normalize trims identity fields and lower-cases the email; emails are
// compared case-insensitively everywhere.
func (u *User) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// ValidateRegistration checks identity fields plus the plaintext password,
// which is validated before it is hashed and discarded.
func ValidateRegistration(username, email, password string) error {
	var fields []apperr.FieldError
	if n := len(strings.TrimSpace(username)); n < 3 || n > 30 {
		fields = append(fields, apperr.FieldError{Field: "username", Msg: "must be between 3 and 30 characters"})
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		fields = append(fields, apperr.FieldError{Field: "email", Msg: "must be a valid email address"})
	}
	if len(password) < 6 {
		fields = append(fields, apperr.FieldError{Field: "password", Msg: "must be at least 6 characters"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
