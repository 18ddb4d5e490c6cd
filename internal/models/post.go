package models

import (
	"strings"
	"time"

	"github.com/blog-publishing-api/internal/apperr"
)

const maxTitleLen = 200

// AuthorRef is the joined author summary carried on posts and comments.
type AuthorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Author    AuthorRef `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostUpdate is a partial update; nil fields are left unchanged. The author
// reference is immutable and therefore not part of it.
type PostUpdate struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

func ValidateNewPost(title, content string) error {
	var fields []apperr.FieldError
	if strings.TrimSpace(title) == "" {
		fields = append(fields, apperr.FieldError{Field: "title", Msg: "required"})
	} else if len(title) > maxTitleLen {
		fields = append(fields, apperr.FieldError{Field: "title", Msg: "must be at most 200 characters"})
	}
	if strings.TrimSpace(content) == "" {
		fields = append(fields, apperr.FieldError{Field: "content", Msg: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

func (p PostUpdate) Validate() error {
	var fields []apperr.FieldError
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			fields = append(fields, apperr.FieldError{Field: "title", Msg: "cannot be empty"})
		} else if len(*p.Title) > maxTitleLen {
			fields = append(fields, apperr.FieldError{Field: "title", Msg: "must be at most 200 characters"})
		}
	}
	if p.Content != nil && strings.TrimSpace(*p.Content) == "" {
		fields = append(fields, apperr.FieldError{Field: "content", Msg: "cannot be empty"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
