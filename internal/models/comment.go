package models

import (
	"strings"
	"time"

	"github.com/blog-publishing-api/internal/apperr"
)

const maxCommentLen = 1000

// PostRef is the joined parent-post summary carried on comments.
type PostRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Post      PostRef   `json:"post"`
	Author    AuthorRef `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidateCommentContent(content string) error {
	var fields []apperr.FieldError
	if strings.TrimSpace(content) == "" {
		fields = append(fields, apperr.FieldError{Field: "content", Msg: "required"})
	} else if len(content) > maxCommentLen {
		fields = append(fields, apperr.FieldError{Field: "content", Msg: "must be at most 1000 characters"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
