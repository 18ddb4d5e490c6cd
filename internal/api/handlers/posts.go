package handlers

import (
	"net/http"

	"github.com/blog-publishing-api/internal/api/httpx"
	"github.com/blog-publishing-api/internal/middleware"
	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/services"
)

type PostHandler struct {
	Posts *services.PostService
}

func NewPostHandler(ps *services.PostService) *PostHandler {
	return &PostHandler{Posts: ps}
}

type createPostReq struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageQuery(r)
	posts, pi, err := h.Posts.List(r.Context(), page, limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"posts":       posts,
		"results":     len(posts),
		"currentPage": pi.CurrentPage,
		"totalPages":  pi.TotalPages,
	})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"post": p})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	sub := middleware.SubjectFrom(r.Context())
	p, err := h.Posts.Create(r.Context(), sub, req.Title, req.Content, req.Tags)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{"post": p})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var upd models.PostUpdate
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		httpx.Error(w, err)
		return
	}
	sub := middleware.SubjectFrom(r.Context())
	p, err := h.Posts.Update(r.Context(), sub, id, upd)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"post": p})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	sub := middleware.SubjectFrom(r.Context())
	if err := h.Posts.Delete(r.Context(), sub, id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.NoContent(w)
}
