package client

import (
	"context"
	"net/http"
	"sync"
)

// ContentCache holds fetched posts and comments. The cache only changes in
// response to a completed request; actions that fail leave it untouched.
type ContentCache struct {
	mu sync.RWMutex
	c  *Client
	s  *Session

	posts       []Post
	currentPage int
	totalPages  int
	comments    map[string][]Comment // keyed by post id
}

func NewContentCache(c *Client, s *Session) *ContentCache {
	return &ContentCache{c: c, s: s, comments: map[string][]Comment{}}
}

type postsPage struct {
	Posts       []Post `json:"posts"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}

type commentsPage struct {
	Comments    []Comment `json:"comments"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

type postPayload struct {
	Post Post `json:"post"`
}

type commentPayload struct {
	Comment Comment `json:"comment"`
}

func (cc *ContentCache) FetchPosts(ctx context.Context, page, limit int) error {
	var out postsPage
	if err := cc.c.do(ctx, http.MethodGet, pageQuery("/api/posts", "", page, limit), "", nil, &out); err != nil {
		return err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.posts = out.Posts
	cc.currentPage = out.CurrentPage
	cc.totalPages = out.TotalPages
	return nil
}

func (cc *ContentCache) FetchPost(ctx context.Context, id string) (Post, error) {
	var out postPayload
	if err := cc.c.do(ctx, http.MethodGet, "/api/posts/"+id, "", nil, &out); err != nil {
		return Post{}, err
	}
	cc.upsertPost(out.Post)
	return out.Post, nil
}

func (cc *ContentCache) CreatePost(ctx context.Context, title, content string, tags []string) (Post, error) {
	var out postPayload
	err := cc.c.do(ctx, http.MethodPost, "/api/posts", cc.s.Token(), map[string]any{
		"title":   title,
		"content": content,
		"tags":    tags,
	}, &out)
	if err != nil {
		return Post{}, err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.posts = append([]Post{out.Post}, cc.posts...)
	return out.Post, nil
}

func (cc *ContentCache) UpdatePost(ctx context.Context, id string, fields map[string]any) (Post, error) {
	var out postPayload
	if err := cc.c.do(ctx, http.MethodPut, "/api/posts/"+id, cc.s.Token(), fields, &out); err != nil {
		return Post{}, err
	}
	cc.upsertPost(out.Post)
	return out.Post, nil
}

func (cc *ContentCache) DeletePost(ctx context.Context, id string) error {
	if err := cc.c.do(ctx, http.MethodDelete, "/api/posts/"+id, cc.s.Token(), nil, nil); err != nil {
		return err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for i, p := range cc.posts {
		if p.ID == id {
			cc.posts = append(cc.posts[:i], cc.posts[i+1:]...)
			break
		}
	}
	delete(cc.comments, id)
	return nil
}

func (cc *ContentCache) FetchComments(ctx context.Context, postID string, page, limit int) error {
	var out commentsPage
	if err := cc.c.do(ctx, http.MethodGet, pageQuery("/api/comments", postID, page, limit), "", nil, &out); err != nil {
		return err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.comments[postID] = out.Comments
	return nil
}

func (cc *ContentCache) CreateComment(ctx context.Context, postID, content string) (Comment, error) {
	var out commentPayload
	err := cc.c.do(ctx, http.MethodPost, "/api/comments", cc.s.Token(), map[string]string{
		"postId":  postID,
		"content": content,
	}, &out)
	if err != nil {
		return Comment{}, err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.comments[postID] = append([]Comment{out.Comment}, cc.comments[postID]...)
	return out.Comment, nil
}

func (cc *ContentCache) UpdateComment(ctx context.Context, id, content string) (Comment, error) {
	var out commentPayload
	err := cc.c.do(ctx, http.MethodPut, "/api/comments/"+id, cc.s.Token(), map[string]string{
		"content": content,
	}, &out)
	if err != nil {
		return Comment{}, err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	list := cc.comments[out.Comment.Post.ID]
	for i, c := range list {
		if c.ID == id {
			list[i] = out.Comment
			break
		}
	}
	return out.Comment, nil
}

func (cc *ContentCache) DeleteComment(ctx context.Context, postID, id string) error {
	if err := cc.c.do(ctx, http.MethodDelete, "/api/comments/"+id, cc.s.Token(), nil, nil); err != nil {
		return err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	list := cc.comments[postID]
	for i, c := range list {
		if c.ID == id {
			cc.comments[postID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

func (cc *ContentCache) upsertPost(p Post) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for i, e := range cc.posts {
		if e.ID == p.ID {
			cc.posts[i] = p
			return
		}
	}
	cc.posts = append(cc.posts, p)
}

func (cc *ContentCache) Posts() []Post {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	out := make([]Post, len(cc.posts))
	copy(out, cc.posts)
	return out
}

func (cc *ContentCache) Page() (current, total int) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.currentPage, cc.totalPages
}

func (cc *ContentCache) Comments(postID string) []Comment {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	list := cc.comments[postID]
	out := make([]Comment, len(list))
	copy(out, list)
	return out
}
