package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/router"
	"github.com/anonto42/yatube/backend/internal/testutil"
	"github.com/anonto42/yatube/backend/pkg/config"
	"github.com/anonto42/yatube/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	tokens *middleware.JWTVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	media, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	e := echo.New()
	config.SetupMiddleware(e, nil)
	router.SetupRoutes(e, router.Options{
		DB:           db,
		Media:        media,
		MediaBaseURL: "http://localhost:8080/media",
		JWTSecret:    testSecret,
		JWTTTL:       time.Hour,
	})
	return &testServer{
		e:      e,
		db:     db,
		tokens: middleware.NewJWTVerifier(testSecret, time.Hour, repositories.NewPostgresUserRepository(db)),
	}
}

// login creates a user and returns it with an access token.
func (s *testServer) login(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user := testutil.CreateUser(t, s.db, username)
	token, err := s.tokens.Issue(user)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createPost(t *testing.T, token string, body map[string]interface{}) models.PostResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/posts/", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.PostResponse](t, rec)
}

func TestAnonymousReads(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/posts/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/posts", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "missing trailing slash is added")

	rec = s.do(t, http.MethodGet, "/api/v1/posts/1/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/posts/", "", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/follow/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/posts/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGroupsAreReadOnly(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice")
	group := testutil.CreateGroup(t, s.db, "Cats", "cats")

	rec := s.do(t, http.MethodGet, "/api/v1/groups/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[[]models.Group](t, rec)
	require.Len(t, groups, 1)
	assert.Equal(t, "cats", groups[0].Slug)

	rec = s.do(t, http.MethodGet, "/api/v1/groups/"+itoa(group.ID)+"/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":`+itoa(group.ID)+`,"title":"Cats","slug":"cats","description":"Cats group"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/groups/", token, map[string]string{"title": "Dogs", "slug": "dogs", "description": "d"})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/groups/"+itoa(group.ID)+"/", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.login(t, "alice")
	_, bobToken := s.login(t, "bob")
	group := testutil.CreateGroup(t, s.db, "Cats", "cats")

	post := s.createPost(t, aliceToken, map[string]interface{}{
		"text":     "hello",
		"group":    group.ID,
		"author":   "bob",
		"pub_date": "2000-01-01T00:00:00Z",
		"id":       999,
	})
	assert.Equal(t, "alice", post.Author, "author comes from the caller")
	assert.NotEqual(t, 2000, post.PubDate.Year(), "pub_date is set by storage")
	assert.NotEqual(t, uint(999), post.ID)
	require.NotNil(t, post.Group)
	assert.Equal(t, group.ID, *post.Group)
	assert.Nil(t, post.Image)
	path := "/api/v1/posts/" + itoa(post.ID) + "/"

	rec := s.do(t, http.MethodPatch, path, bobToken, map[string]string{"text": "hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", decode[models.PostResponse](t, rec).Text, "rejected writes change nothing")

	rec = s.do(t, http.MethodPatch, path, aliceToken, map[string]interface{}{"group": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decode[models.PostResponse](t, rec)
	assert.Equal(t, "hello", patched.Text)
	assert.Nil(t, patched.Group)
	assert.True(t, post.PubDate.Equal(patched.PubDate))

	rec = s.do(t, http.MethodPut, path, aliceToken, map[string]interface{}{"group": group.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"text":["This field is required."]}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, path, aliceToken, map[string]interface{}{"text": "replaced"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "replaced", decode[models.PostResponse](t, rec).Text)

	rec = s.do(t, http.MethodPatch, "/api/v1/posts/999/", aliceToken, map[string]string{"text": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPatch, path, "", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodDelete, path, aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostValidation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice")

	rec := s.do(t, http.MethodPost, "/api/v1/posts/", token, map[string]interface{}{"group": 42})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[map[string][]string](t, rec)
	assert.Equal(t, []string{"This field is required."}, fields["text"])
	assert.Equal(t, []string{`Invalid pk "42" - object does not exist.`}, fields["group"])

	var count int64
	require.NoError(t, s.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnlistedMethodsAreNotAllowed(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice")
	post := s.createPost(t, token, map[string]interface{}{"text": "post"})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/v1/posts/"},
		{http.MethodDelete, "/api/v1/posts/"},
		{http.MethodPost, "/api/v1/posts/" + itoa(post.ID) + "/"},
		{http.MethodPut, "/api/v1/posts/" + itoa(post.ID) + "/comments/"},
		{http.MethodPatch, "/api/v1/follow/"},
		{http.MethodPost, "/api/v1/groups/"},
		{http.MethodPut, "/api/v1/groups/1/"},
	}
	for _, tt := range tests {
		for _, tok := range []string{"", token} {
			rec := s.do(t, tt.method, tt.path, tok, map[string]string{"text": "x"})
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.path)
		}
	}

	rec := s.do(t, http.MethodGet, "/api/v1/nothing-here/", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTextMayNotBeNullOrBlank(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice")
	post := s.createPost(t, token, map[string]interface{}{"text": "hello"})
	postPath := "/api/v1/posts/" + itoa(post.ID) + "/"

	rec := s.do(t, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/comments/", token, map[string]string{"text": "first"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode[models.CommentResponse](t, rec)
	commentPath := "/api/v1/posts/" + itoa(post.ID) + "/comments/" + itoa(comment.ID) + "/"

	tests := []struct {
		name   string
		method string
		path   string
		text   interface{}
		want   string
	}{
		{"patch post null", http.MethodPatch, postPath, nil, "This field may not be null."},
		{"put post blank", http.MethodPut, postPath, "   ", "This field may not be blank."},
		{"patch post blank", http.MethodPatch, postPath, "\t\n", "This field may not be blank."},
		{"patch comment null", http.MethodPatch, commentPath, nil, "This field may not be null."},
		{"patch comment blank", http.MethodPatch, commentPath, " ", "This field may not be blank."},
		{"create post null", http.MethodPost, "/api/v1/posts/", nil, "This field may not be null."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, token, map[string]interface{}{"text": tt.text})
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, []string{tt.want}, decode[map[string][]string](t, rec)["text"])
		})
	}

	rec = s.do(t, http.MethodGet, postPath, "", nil)
	assert.Equal(t, "hello", decode[models.PostResponse](t, rec).Text)
	rec = s.do(t, http.MethodGet, commentPath, "", nil)
	assert.Equal(t, "first", decode[models.CommentResponse](t, rec).Text)

	rec = s.do(t, http.MethodPatch, postPath, token, map[string]string{"text": "  trimmed  "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trimmed", decode[models.PostResponse](t, rec).Text)
}

func TestPostImageIsStoredAndServed(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice")

	post := s.createPost(t, token, map[string]interface{}{
		"text":  "with picture",
		"image": "data:image/png;base64," + testutil.PNGBase64,
	})
	require.NotNil(t, post.Image)
	require.True(t, strings.HasPrefix(*post.Image, "http://localhost:8080/media/posts/"), *post.Image)
	mediaPath := strings.TrimPrefix(*post.Image, "http://localhost:8080")

	rec := s.do(t, http.MethodGet, mediaPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	rec = s.do(t, http.MethodPatch, "/api/v1/posts/"+itoa(post.ID)+"/", token, map[string]interface{}{"image": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.PostResponse](t, rec).Image)

	rec = s.do(t, http.MethodGet, mediaPath, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "the replaced image is removed")

	rec = s.do(t, http.MethodPost, "/api/v1/posts/", token, map[string]interface{}{
		"text":  "bad picture",
		"image": "data:image/png;base64,aGVsbG8gd29ybGQ=",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string][]string](t, rec), "image")
}

func TestPostPagination(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice")
	var ids []uint
	for _, text := range []string{"one", "two", "three"} {
		ids = append(ids, s.createPost(t, token, map[string]interface{}{"text": text}).ID)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/posts/?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Count    int                   `json:"count"`
		Next     *string               `json:"next"`
		Previous *string               `json:"previous"`
		Results  []models.PostResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Count)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://example.com/api/v1/posts/?limit=2&offset=2", *page.Next)
	assert.Nil(t, page.Previous)
	require.Len(t, page.Results, 2)
	assert.Equal(t, ids[2], page.Results[0].ID)
	assert.Equal(t, ids[1], page.Results[1].ID)

	rec = s.do(t, http.MethodGet, "/api/v1/posts/?limit=2&offset=2", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	require.Len(t, page.Results, 1)
	assert.Equal(t, ids[0], page.Results[0].ID)

	rec = s.do(t, http.MethodGet, "/api/v1/posts/", "", nil)
	assert.Len(t, decode[[]models.PostResponse](t, rec), 3, "no limit, no envelope")
}

func TestComments(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.login(t, "alice")
	_, bobToken := s.login(t, "bob")
	post := s.createPost(t, aliceToken, map[string]interface{}{"text": "post"})
	base := "/api/v1/posts/" + itoa(post.ID) + "/comments/"

	rec := s.do(t, http.MethodPost, base, bobToken, map[string]interface{}{"text": "nice", "post": 999, "author": "alice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode[models.CommentResponse](t, rec)
	assert.Equal(t, "bob", comment.Author)
	assert.Equal(t, post.ID, comment.Post)
	path := base + itoa(comment.ID) + "/"

	rec = s.do(t, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.CommentResponse](t, rec), 1)

	rec = s.do(t, http.MethodPatch, path, aliceToken, map[string]string{"text": "edited by alice"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "post author does not own the comment")

	rec = s.do(t, http.MethodPatch, path, bobToken, map[string]string{"text": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", decode[models.CommentResponse](t, rec).Text)

	rec = s.do(t, http.MethodPost, base, bobToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/posts/999/comments/"+itoa(comment.ID)+"/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "comment is only reachable under its post")

	rec = s.do(t, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentOnMissingPost(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice")

	rec := s.do(t, http.MethodPost, "/api/v1/posts/999/comments/", token, map[string]string{"text": "hello?"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/posts/999/comments/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	var count int64
	require.NoError(t, s.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFollow(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.login(t, "alice")
	s.login(t, "bob")
	s.login(t, "carol")

	rec := s.do(t, http.MethodPost, "/api/v1/follow/", aliceToken, map[string]string{"following": "alice"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"following":["You cannot follow yourself."]}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/follow/", aliceToken, map[string]string{"following": "bob"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"user":"alice","following":"bob"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/follow/", aliceToken, map[string]string{"following": "bob"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"following":["You are already following this user."]}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/follow/", aliceToken, map[string]string{"following": "carol"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/follow/", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.FollowResponse](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/v1/follow/?search=car", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"user":"alice","following":"carol"}]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/v1/follow/", aliceToken, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAccountsAndTokens(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/users/", "", map[string]string{"username": "dave", "password": "short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string][]string](t, rec), "password")

	rec = s.do(t, http.MethodPost, "/api/v1/users/", "", map[string]string{"username": "dave", "email": "dave@example.com", "password": "long-enough"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "long-enough")

	rec = s.do(t, http.MethodPost, "/api/v1/users/", "", map[string]string{"username": "dave", "password": "long-enough"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"username":["A user with that username already exists."]}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/jwt/create/", "", map[string]string{"username": "dave", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/jwt/create/", "", map[string]string{"username": "dave", "password": "long-enough"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]string](t, rec)["access"]
	require.NotEmpty(t, token)

	rec = s.do(t, http.MethodPost, "/api/v1/jwt/verify/", "", map[string]string{"token": token})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/jwt/verify/", "", map[string]string{"token": token + "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/users/me/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dave", decode[models.User](t, rec).Username)

	s.createPost(t, token, map[string]interface{}{"text": "soon gone"})
	rec = s.do(t, http.MethodDelete, "/api/v1/users/me/", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/posts/", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String(), "the user's posts went with them")
	rec = s.do(t, http.MethodGet, "/api/v1/users/me/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "tokens of deleted users are rejected")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
