package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blog-publishing-api/internal/apperr"
)

// pathID validates the {id} URL parameter; anything that is not a UUID is a
// malformed identifier (400), never a store lookup.
func pathID(r *http.Request, kind string) (string, error) {
	raw := chi.URLParam(r, "id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperr.BadID("invalid " + kind + " ID")
	}
	return raw, nil
}

// pageQuery reads page/limit, defaulting anything missing or unparsable.
// Range normalization happens in the service.
func pageQuery(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return page, limit
}
