// Package mocks provides in-memory repository implementations for tests.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/models"
)

// Store bundles the in-memory repositories so posts can resolve author
// usernames and cascade into comments the way the SQL joins do.
type Store struct {
	Users     *MockUsers
	Posts     *MockPosts
	Comments  *MockComments
	AuditLogs *MockAuditLogs
}

func NewStore() *Store {
	s := &Store{
		Users:     &MockUsers{byID: map[string]models.User{}},
		AuditLogs: &MockAuditLogs{},
	}
	s.Comments = &MockComments{store: s}
	s.Posts = &MockPosts{store: s}
	return s
}

// seq provides a strictly increasing insertion order so newest-first
// listings stay stable for equal timestamps.
var (
	seqMu  sync.Mutex
	seq    int64
	lastTS time.Time
)

func nextSeq() int64 {
	seqMu.Lock()
	defer seqMu.Unlock()
	seq++
	return seq
}

// nextTS returns a strictly increasing creation timestamp; the clock alone
// can repeat within a nanosecond tick.
func nextTS() time.Time {
	seqMu.Lock()
	defer seqMu.Unlock()
	now := time.Now()
	if !now.After(lastTS) {
		now = lastTS.Add(time.Nanosecond)
	}
	lastTS = now
	return now
}

// ---------- users ----------

type MockUsers struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func (m *MockUsers) Create(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Username == u.Username || strings.EqualFold(e.Email, u.Email) {
			return models.User{}, apperr.Conflict("already exists")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = nextTS()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = u
	return u, nil
}

func (m *MockUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (m *MockUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (m *MockUsers) ExistsByIdentity(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		u.PasswordHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockUsers) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.IsAdmin = isAdmin
	m.byID[id] = u
	return nil
}

func (m *MockUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *MockUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

// ---------- posts ----------

type postRec struct {
	post models.Post
	seq  int64
}

type MockPosts struct {
	mu    sync.Mutex
	store *Store
	recs  []postRec
}

func (m *MockPosts) username(id string) string {
	if u, err := m.store.Users.GetByID(context.Background(), id); err == nil {
		return u.Username
	}
	return ""
}

func (m *MockPosts) Create(_ context.Context, p models.Post) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = nextTS()
	p.UpdatedAt = p.CreatedAt
	p.Author.Username = m.username(p.Author.ID)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	m.recs = append(m.recs, postRec{post: p, seq: nextSeq()})
	return p, nil
}

func (m *MockPosts) GetByID(_ context.Context, id string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.post.ID == id {
			return r.post, nil
		}
	}
	return models.Post{}, apperr.NotFound("post not found")
}

func (m *MockPosts) List(_ context.Context, limit, offset int) ([]models.Post, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ordered := make([]postRec, len(m.recs))
	copy(ordered, m.recs)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].post.CreatedAt.Equal(ordered[j].post.CreatedAt) {
			return ordered[i].post.CreatedAt.After(ordered[j].post.CreatedAt)
		}
		return ordered[i].seq < ordered[j].seq
	})
	total := int64(len(ordered))
	out := []models.Post{}
	for i := offset; i < len(ordered) && len(out) < limit; i++ {
		out = append(out, ordered[i].post)
	}
	return out, total, nil
}

func (m *MockPosts) Update(_ context.Context, id string, upd models.PostUpdate) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.recs {
		if r.post.ID != id {
			continue
		}
		if upd.Title != nil {
			r.post.Title = *upd.Title
		}
		if upd.Content != nil {
			r.post.Content = *upd.Content
		}
		if upd.Tags != nil {
			r.post.Tags = upd.Tags
		}
		r.post.UpdatedAt = time.Now()
		m.recs[i] = r
		return r.post, nil
	}
	return models.Post{}, apperr.NotFound("post not found")
}

func (m *MockPosts) DeleteCascade(ctx context.Context, id string) error {
	m.mu.Lock()
	found := false
	for i, r := range m.recs {
		if r.post.ID == id {
			m.recs = append(m.recs[:i], m.recs[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return apperr.NotFound("post not found")
	}
	m.store.Comments.deleteByPost(id)
	return nil
}

// ---------- comments ----------

type commentRec struct {
	comment models.Comment
	seq     int64
}

type MockComments struct {
	mu    sync.Mutex
	store *Store
	recs  []commentRec
}

func (m *MockComments) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	if p, err := m.store.Posts.GetByID(ctx, c.Post.ID); err == nil {
		c.Post.Title = p.Title
	}
	if u, err := m.store.Users.GetByID(ctx, c.Author.ID); err == nil {
		c.Author.Username = u.Username
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = nextTS()
	m.recs = append(m.recs, commentRec{comment: c, seq: nextSeq()})
	return c, nil
}

func (m *MockComments) GetByID(_ context.Context, id string) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.comment.ID == id {
			return r.comment, nil
		}
	}
	return models.Comment{}, apperr.NotFound("comment not found")
}

func (m *MockComments) List(_ context.Context, postID string, limit, offset int) ([]models.Comment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var filtered []commentRec
	for _, r := range m.recs {
		if postID == "" || r.comment.Post.ID == postID {
			filtered = append(filtered, r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].comment.CreatedAt.Equal(filtered[j].comment.CreatedAt) {
			return filtered[i].comment.CreatedAt.After(filtered[j].comment.CreatedAt)
		}
		return filtered[i].seq < filtered[j].seq
	})
	total := int64(len(filtered))
	out := []models.Comment{}
	for i := offset; i < len(filtered) && len(out) < limit; i++ {
		out = append(out, filtered[i].comment)
	}
	return out, total, nil
}

func (m *MockComments) UpdateContent(_ context.Context, id, content string) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.recs {
		if r.comment.ID == id {
			r.comment.Content = content
			m.recs[i] = r
			return r.comment, nil
		}
	}
	return models.Comment{}, apperr.NotFound("comment not found")
}

func (m *MockComments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.recs {
		if r.comment.ID == id {
			m.recs = append(m.recs[:i], m.recs[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("comment not found")
}

func (m *MockComments) CountByPost(_ context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.recs {
		if r.comment.Post.ID == postID {
			n++
		}
	}
	return n, nil
}

func (m *MockComments) deleteByPost(postID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.recs[:0]
	for _, r := range m.recs {
		if r.comment.Post.ID != postID {
			kept = append(kept, r)
		}
	}
	m.recs = kept
}

// ---------- audit logs ----------

type MockAuditLogs struct {
	mu   sync.Mutex
	Logs []models.AuditLog
}

func (m *MockAuditLogs) Create(_ context.Context, l models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, l)
	return nil
}
