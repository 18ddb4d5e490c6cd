package services

import (
	"context"

	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/metrics"
	"github.com/blog-publishing-api/internal/models"
	repo "github.com/blog-publishing-api/internal/repository"
)

type PostService struct {
	posts repo.Posts
	aud   *Auditor
}

func NewPostService(posts repo.Posts, aud *Auditor) *PostService {
	return &PostService{posts: posts, aud: aud}
}

func (s *PostService) Create(ctx context.Context, sub auth.Subject, title, content string, tags []string) (models.Post, error) {
	if err := models.ValidateNewPost(title, content); err != nil {
		return models.Post{}, err
	}
	if tags == nil {
		tags = []string{}
	}
	p := models.Post{
		Title:   title,
		Content: content,
		Tags:    tags,
		Author:  models.AuthorRef{ID: sub.ID},
	}
	p, err := s.posts.Create(ctx, p)
	if err != nil {
		return models.Post{}, err
	}
	metrics.PostsCreated.Inc()
	s.aud.Record("post", p.ID, sub, "created", map[string]any{"title": p.Title})
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, page, limit int) ([]models.Post, PageInfo, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.posts.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, pageInfo(page, limit, total), nil
}

// Update applies a partial update; existence is checked before ownership so
// a missing post is a 404 and a foreign post a 403.
func (s *PostService) Update(ctx context.Context, sub auth.Subject, id string, upd models.PostUpdate) (models.Post, error) {
	if err := upd.Validate(); err != nil {
		return models.Post{}, err
	}
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if !auth.CanMutate(sub, existing.Author.ID) {
		return models.Post{}, apperr.Forbidden("you are not authorized to update this post")
	}
	p, err := s.posts.Update(ctx, id, upd)
	if err != nil {
		return models.Post{}, err
	}
	s.aud.Record("post", id, sub, "updated", nil)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, sub auth.Subject, id string) error {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanMutate(sub, existing.Author.ID) {
		return apperr.Forbidden("you are not authorized to delete this post")
	}
	if err := s.posts.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.aud.Record("post", id, sub, "deleted", map[string]any{"title": existing.Title})
	return nil
}
