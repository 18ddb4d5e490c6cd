package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/blog-publishing-api/internal/api/httpx"
	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/middleware"
	"github.com/blog-publishing-api/internal/services"
)

type CommentHandler struct {
	Comments *services.CommentService
}

func NewCommentHandler(cs *services.CommentService) *CommentHandler {
	return &CommentHandler{Comments: cs}
}

type createCommentReq struct {
	Content string `json:"content"`
	PostID  string `json:"postId"`
}

type updateCommentReq struct {
	Content string `json:"content"`
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID != "" {
		if _, err := uuid.Parse(postID); err != nil {
			httpx.Error(w, apperr.BadID("invalid post ID"))
			return
		}
	}
	page, limit := pageQuery(r)
	comments, pi, err := h.Comments.List(r.Context(), postID, page, limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"comments":    comments,
		"results":     len(comments),
		"currentPage": pi.CurrentPage,
		"totalPages":  pi.TotalPages,
	})
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	c, err := h.Comments.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"comment": c})
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.PostID == "" {
		httpx.Error(w, apperr.Validation(apperr.FieldError{Field: "postId", Msg: "required"}))
		return
	}
	if _, err := uuid.Parse(req.PostID); err != nil {
		httpx.Error(w, apperr.BadID("invalid post ID"))
		return
	}
	sub := middleware.SubjectFrom(r.Context())
	c, err := h.Comments.Create(r.Context(), sub, req.PostID, req.Content)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{"comment": c})
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var req updateCommentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	sub := middleware.SubjectFrom(r.Context())
	c, err := h.Comments.Update(r.Context(), sub, id, req.Content)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"comment": c})
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	sub := middleware.SubjectFrom(r.Context())
	if err := h.Comments.Delete(r.Context(), sub, id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.NoContent(w)
}
