package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blog-publishing-api/internal/api"
	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/middleware"
	"github.com/blog-publishing-api/internal/mocks"
	"github.com/blog-publishing-api/internal/services"
)

func setupTestRouter() (http.Handler, *mocks.Store) {
	store := mocks.NewStore()
	tm := auth.NewTokenManager("test-secret", time.Hour)
	aud := services.NewAuditor(store.AuditLogs, nil)

	us := services.NewUserService(store.Users, tm, bcrypt.MinCost, aud)
	ps := services.NewPostService(store.Posts, aud)
	cs := services.NewCommentService(store.Comments, store.Posts, aud)

	cfg := config.Config{Env: "test"}
	am := middleware.NewAuthMiddleware(tm, us)
	return api.NewRouter(cfg, us, ps, cs, am), store
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []struct {
		Field string `json:"field"`
		Msg   string `json:"msg"`
	} `json:"errors"`
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func registerUser(t *testing.T, h http.Handler, username, email string) (userID, token string) {
	t.Helper()
	w, env := doJSON(t, h, "POST", "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode register data: %v", err)
	}
	return data.User.ID, data.Token
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := setupTestRouter()
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRegisterLoginCreateReadUpdateDeleteFlow(t *testing.T) {
	h, _ := setupTestRouter()

	// register + login
	_, _ = registerUser(t, h, "alice", "alice@example.com")
	w, env := doJSON(t, h, "POST", "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d", w.Code)
	}
	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &loginData); err != nil || loginData.Token == "" {
		t.Fatalf("login returned no token: %v", err)
	}
	token := loginData.Token

	// create a post
	w, env = doJSON(t, h, "POST", "/api/posts", token, map[string]any{
		"title": "hello", "content": "world", "tags": []string{"go"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", w.Code, w.Body.String())
	}
	var postData struct {
		Post struct {
			ID     string `json:"id"`
			Author struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"post"`
	}
	if err := json.Unmarshal(env.Data, &postData); err != nil {
		t.Fatalf("decode post: %v", err)
	}

	// public read carries the author username
	w, env = doJSON(t, h, "GET", "/api/posts/"+postData.Post.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get post: status %d", w.Code)
	}
	if err := json.Unmarshal(env.Data, &postData); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if postData.Post.Author.Username != "alice" {
		t.Errorf("author.username = %q, want alice", postData.Post.Author.Username)
	}

	// a different authenticated user may not update it
	_, otherToken := registerUser(t, h, "bob", "bob@example.com")
	w, _ = doJSON(t, h, "PUT", "/api/posts/"+postData.Post.ID, otherToken, map[string]string{"title": "hijack"})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign update: status %d, want 403", w.Code)
	}

	// the owner deletes; a later read is a 404
	w, _ = doJSON(t, h, "DELETE", "/api/posts/"+postData.Post.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d, want 204", w.Code)
	}
	w, _ = doJSON(t, h, "GET", "/api/posts/"+postData.Post.ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted post: status %d, want 404", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h, _ := setupTestRouter()

	w, _ := doJSON(t, h, "POST", "/api/posts", "", map[string]string{"title": "t", "content": "c"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", w.Code)
	}

	w, env := doJSON(t, h, "POST", "/api/posts", "garbage-token", map[string]string{"title": "t", "content": "c"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d, want 401", w.Code)
	}
	if env.Status != "error" {
		t.Errorf("error envelope missing, got %s", env.Status)
	}

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	tok, _, _ := expired.Issue("someone")
	w, env = doJSON(t, h, "POST", "/api/posts", tok, map[string]string{"title": "t", "content": "c"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status %d, want 401", w.Code)
	}
	if env.Message != "token expired" {
		t.Errorf("expired token message = %q", env.Message)
	}
}

func TestMalformedIDsAre400(t *testing.T) {
	h, _ := setupTestRouter()

	w, _ := doJSON(t, h, "GET", "/api/posts/not-a-uuid", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed post id: status %d, want 400", w.Code)
	}
	w, _ = doJSON(t, h, "GET", "/api/comments/not-a-uuid", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed comment id: status %d, want 400", w.Code)
	}
	w, _ = doJSON(t, h, "GET", "/api/comments?postId=whatever", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed postId filter: status %d, want 400", w.Code)
	}
}

func TestValidationErrorsCarryFieldDetail(t *testing.T) {
	h, _ := setupTestRouter()

	w, env := doJSON(t, h, "POST", "/api/auth/register", "", map[string]string{
		"username": "ab", "email": "nope", "password": "123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if len(env.Errors) != 3 {
		t.Errorf("expected 3 field errors, got %d (%+v)", len(env.Errors), env.Errors)
	}
}

func TestCommentFlowAndLimits(t *testing.T) {
	h, _ := setupTestRouter()
	_, token := registerUser(t, h, "alice", "alice@example.com")

	w, env := doJSON(t, h, "POST", "/api/posts", token, map[string]string{"title": "t", "content": "c"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: %d", w.Code)
	}
	var postData struct {
		Post struct {
			ID string `json:"id"`
		} `json:"post"`
	}
	if err := json.Unmarshal(env.Data, &postData); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// over-long content rejected
	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	w, _ = doJSON(t, h, "POST", "/api/comments", token, map[string]string{
		"postId": postData.Post.ID, "content": string(long),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("long comment: status %d, want 400", w.Code)
	}

	// valid comment
	w, env = doJSON(t, h, "POST", "/api/comments", token, map[string]string{
		"postId": postData.Post.ID, "content": "nice post",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: %d, body %s", w.Code, w.Body.String())
	}
	var commentData struct {
		Comment struct {
			ID   string `json:"id"`
			Post struct {
				Title string `json:"title"`
			} `json:"post"`
		} `json:"comment"`
	}
	if err := json.Unmarshal(env.Data, &commentData); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	if commentData.Comment.Post.Title != "t" {
		t.Errorf("comment post.title = %q", commentData.Comment.Post.Title)
	}

	// filtered listing sees it
	w, env = doJSON(t, h, "GET", "/api/comments?postId="+postData.Post.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list comments: %d", w.Code)
	}
	var listData struct {
		Results int `json:"results"`
	}
	if err := json.Unmarshal(env.Data, &listData); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listData.Results != 1 {
		t.Errorf("results = %d, want 1", listData.Results)
	}

	// comment on a missing post is a 404
	w, _ = doJSON(t, h, "POST", "/api/comments", token, map[string]string{
		"postId": "3f0b9282-02cd-4cd8-a2a9-0a6b5e9a2f1c", "content": "orphan",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("comment on missing post: status %d, want 404", w.Code)
	}
}

func TestPostListPaginationOverHTTP(t *testing.T) {
	h, _ := setupTestRouter()
	_, token := registerUser(t, h, "alice", "alice@example.com")

	for i := 0; i < 25; i++ {
		w, _ := doJSON(t, h, "POST", "/api/posts", token, map[string]string{
			"title": fmt.Sprintf("post %d", i), "content": "c",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d: %d", i, w.Code)
		}
	}

	w, env := doJSON(t, h, "GET", "/api/posts?page=3&limit=10", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var data struct {
		Results     int `json:"results"`
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Results != 5 || data.CurrentPage != 3 || data.TotalPages != 3 {
		t.Errorf("page 3: %+v", data)
	}

	// out-of-range page is empty, not an error
	w, env = doJSON(t, h, "GET", "/api/posts?page=4&limit=10", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list page 4: %d", w.Code)
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Results != 0 {
		t.Errorf("page 4 results = %d, want 0", data.Results)
	}
}

func TestAdminSurface(t *testing.T) {
	h, store := setupTestRouter()
	ctx := context.Background()

	aliceID, aliceToken := registerUser(t, h, "alice", "alice@example.com")
	bobID, bobToken := registerUser(t, h, "bob", "bob@example.com")

	// a regular user is forbidden
	w, _ := doJSON(t, h, "GET", "/api/auth/all-users", aliceToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin all-users: status %d, want 403", w.Code)
	}

	// anonymous is unauthorized
	w, _ = doJSON(t, h, "GET", "/api/auth/all-users", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous all-users: status %d, want 401", w.Code)
	}

	// promote alice; the same token now passes, since the subject is
	// resolved from the store per request
	if err := store.Users.SetAdmin(ctx, aliceID, true); err != nil {
		t.Fatalf("promote: %v", err)
	}

	w, env := doJSON(t, h, "GET", "/api/auth/all-users", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin all-users: status %d", w.Code)
	}
	if bytes.Contains(env.Data, []byte("password")) || bytes.Contains(env.Data, []byte("$2a$")) {
		t.Error("user listing must not leak credential hashes")
	}

	w, env = doJSON(t, h, "GET", "/api/auth/count", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("count: status %d", w.Code)
	}
	var countData struct {
		TotalUsers int64 `json:"totalUsers"`
	}
	if err := json.Unmarshal(env.Data, &countData); err != nil || countData.TotalUsers != 2 {
		t.Errorf("totalUsers = %d, want 2", countData.TotalUsers)
	}

	// admin deletes bob; bob's still-valid token stops working
	w, _ = doJSON(t, h, "DELETE", "/api/auth/delete/"+bobID, aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete user: status %d", w.Code)
	}
	w, _ = doJSON(t, h, "DELETE", "/api/auth/delete/"+bobID, aliceToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing user: status %d, want 404", w.Code)
	}
	w, _ = doJSON(t, h, "POST", "/api/posts", bobToken, map[string]string{"title": "t", "content": "c"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("deleted user's token: status %d, want 401", w.Code)
	}
}

func TestDuplicateRegistrationOverHTTP(t *testing.T) {
	h, _ := setupTestRouter()
	registerUser(t, h, "alice", "alice@example.com")

	w, env := doJSON(t, h, "POST", "/api/auth/register", "", map[string]string{
		"username": "alice2", "email": "ALICE@example.com", "password": "secret123",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate email: status %d, want 400", w.Code)
	}
	if env.Status != "error" {
		t.Errorf("envelope status = %q", env.Status)
	}
}
