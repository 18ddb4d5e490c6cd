package services

import (
	"context"

	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/metrics"
	"github.com/blog-publishing-api/internal/models"
	repo "github.com/blog-publishing-api/internal/repository"
)

type CommentService struct {
	comments repo.Comments
	posts    repo.Posts
	aud      *Auditor
}

func NewCommentService(comments repo.Comments, posts repo.Posts, aud *Auditor) *CommentService {
	return &CommentService{comments: comments, posts: posts, aud: aud}
}

// Create requires the parent post to exist; a missing post is a 404 on the
// postId, not a validation error.
func (s *CommentService) Create(ctx context.Context, sub auth.Subject, postID, content string) (models.Comment, error) {
	if err := models.ValidateCommentContent(content); err != nil {
		return models.Comment{}, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return models.Comment{}, err
	}
	c := models.Comment{
		Content: content,
		Post:    models.PostRef{ID: postID},
		Author:  models.AuthorRef{ID: sub.ID},
	}
	c, err := s.comments.Create(ctx, c)
	if err != nil {
		return models.Comment{}, err
	}
	metrics.CommentsCreated.Inc()
	s.aud.Record("comment", c.ID, sub, "created", map[string]any{"post_id": postID})
	return c, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (models.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

func (s *CommentService) List(ctx context.Context, postID string, page, limit int) ([]models.Comment, PageInfo, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.comments.List(ctx, postID, limit, (page-1)*limit)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, pageInfo(page, limit, total), nil
}

func (s *CommentService) Update(ctx context.Context, sub auth.Subject, id, content string) (models.Comment, error) {
	if err := models.ValidateCommentContent(content); err != nil {
		return models.Comment{}, err
	}
	existing, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	if !auth.CanMutate(sub, existing.Author.ID) {
		return models.Comment{}, apperr.Forbidden("you are not authorized to update this comment")
	}
	c, err := s.comments.UpdateContent(ctx, id, content)
	if err != nil {
		return models.Comment{}, err
	}
	s.aud.Record("comment", id, sub, "updated", nil)
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, sub auth.Subject, id string) error {
	existing, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanMutate(sub, existing.Author.ID) {
		return apperr.Forbidden("you are not authorized to delete this comment")
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.aud.Record("comment", id, sub, "deleted", nil)
	return nil
}
