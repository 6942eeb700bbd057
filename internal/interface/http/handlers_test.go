package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-microblog/config"
	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
	"github.com/oksasatya/go-microblog/pkg/translate"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	engine *gin.Engine
	reset  *application.ResetService
}

type stubTranslator struct{ err error }

func (s stubTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "[" + text + "]", nil
}

func newTestApp(t *testing.T, tr translate.Translator) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger, _ := test.NewNullLogger()
	cfg := &config.Config{
		ResetTokenSecret: "s",
		ResetTokenTTL:    time.Minute,
		ResetPasswordURL: "http://localhost/reset",
	}

	users := sqlite.NewUserRepository(db)
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	auth := application.NewAuthService(users, jwt, rdb, nil, logger)
	social := application.NewSocialService(users, sqlite.NewFollowRepository(db), rdb, time.Minute, logger)
	timeline := application.NewTimelineService(sqlite.NewPostRepository(db), sqlite.NewTimelineRepository(db), users, 3)
	profile := application.NewProfileService(users, rdb, nil, nil, "", logger)
	reset := application.NewResetService(users, cfg, nil, logger)

	ah := NewAuthHandler(auth, reset, logger)
	uh := NewUserHandler(auth, profile, social, timeline, logger, "", false)
	sh := NewSocialHandler(auth, social)
	ph := NewPostHandler(timeline)
	th := NewTranslateHandler(application.NewTranslationService(tr, logger))

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", ah.Register)
	api.POST("/auth/reset/init", ah.ResetInit)
	api.POST("/auth/reset/confirm", ah.ResetConfirm)
	api.POST("/login", uh.Login)
	api.POST("/refresh", uh.Refresh)
	api.GET("/explore", ph.Explore)
	api.GET("/users/:username", middleware.OptionalAuth(jwt), uh.PublicProfile)
	api.GET("/users/:username/posts", uh.UserPosts)

	priv := api.Group("/")
	priv.Use(middleware.Auth(rdb, jwt))
	priv.POST("/logout", uh.Logout)
	priv.GET("/profile", uh.GetProfile)
	priv.PUT("/profile", uh.UpdateProfile)
	priv.POST("/posts", ph.Create)
	priv.GET("/timeline", ph.Timeline)
	priv.POST("/follow/:username", sh.Follow)
	priv.POST("/unfollow/:username", sh.Unfollow)
	priv.POST("/translate", th.Translate)

	return &testApp{engine: r, reset: reset}
}

func (a *testApp) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (a *testApp) signup(t *testing.T, name string) []*http.Cookie {
	t.Helper()
	w, _ := a.do(t, http.MethodPost, "/api/auth/register", gin.H{"username": name, "email": name + "@example.com", "password": "password123"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = a.do(t, http.MethodPost, "/api/login", gin.H{"username": name, "password": "password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func TestRegisterValidationAndConflict(t *testing.T) {
	app := newTestApp(t, nil)

	w, _ := app.do(t, http.MethodPost, "/api/auth/register", gin.H{"username": "john", "email": "nope", "password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.signup(t, "john")
	w, env := app.do(t, http.MethodPost, "/api/auth/register", gin.H{"username": "john", "email": "x@example.com", "password": "password123"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Please use a different username.", env.Message)

	w, _ = app.do(t, http.MethodPost, "/api/login", gin.H{"username": "john", "password": "wrongpass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowMessages(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	app.signup(t, "susan")

	cases := []struct {
		path string
		code int
		msg  string
	}{
		{"/api/follow/ghost", http.StatusNotFound, "User ghost not found."},
		{"/api/follow/john", http.StatusBadRequest, "You cannot follow yourself!"},
		{"/api/follow/susan", http.StatusOK, "You are following susan!"},
		{"/api/unfollow/john", http.StatusBadRequest, "You cannot unfollow yourself!"},
		{"/api/unfollow/susan", http.StatusOK, "You are not following susan."},
	}
	for _, tc := range cases {
		w, env := app.do(t, http.MethodPost, tc.path, nil, john)
		assert.Equal(t, tc.code, w.Code, tc.path)
		assert.Equal(t, tc.msg, env.Message, tc.path)
	}

	w, _ := app.do(t, http.MethodPost, "/api/follow/susan", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostsTimelineAndProfile(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	susan := app.signup(t, "susan")

	w, _ := app.do(t, http.MethodPost, "/api/posts", gin.H{"body": ""}, john)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/posts", gin.H{"body": "hello from susan"}, susan)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = app.do(t, http.MethodPost, "/api/posts", gin.H{"body": "hello from john"}, john)
	require.Equal(t, http.StatusCreated, w.Code)

	_, env := app.do(t, http.MethodGet, "/api/timeline", nil, john)
	var page application.Page[map[string]any]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	app.do(t, http.MethodPost, "/api/follow/susan", nil, john)
	_, env = app.do(t, http.MethodGet, "/api/timeline?page=1", nil, john)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "hello from john", page.Items[0]["body"])

	w, env = app.do(t, http.MethodGet, "/api/users/susan", nil, john)
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, float64(1), profile["followers"])
	assert.Equal(t, true, profile["is_following"])
	assert.NotContains(t, profile, "email")

	w, env = app.do(t, http.MethodGet, "/api/users/nobody", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User nobody not found.", env.Message)

	_, env = app.do(t, http.MethodGet, "/api/explore", nil, nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(2), page.Total)

	_, env = app.do(t, http.MethodGet, "/api/users/susan/posts", nil, nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)
}

func TestUpdateProfileAndLogout(t *testing.T) {
	app := newTestApp(t, nil)
	john := app.signup(t, "john")
	app.signup(t, "susan")

	w, _ := app.do(t, http.MethodPut, "/api/profile", gin.H{"username": "susan"}, john)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = app.do(t, http.MethodPut, "/api/profile", gin.H{"username": "johnny", "about_me": "hi"}, john)
	require.Equal(t, http.StatusOK, w.Code)

	_, env := app.do(t, http.MethodGet, "/api/profile", nil, john)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "johnny", me["username"])
	assert.Equal(t, "john@example.com", me["email"])

	w, _ = app.do(t, http.MethodPost, "/api/logout", nil, john)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/profile", nil, john)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetFlow(t *testing.T) {
	app := newTestApp(t, nil)
	app.signup(t, "john")

	w, _ := app.do(t, http.MethodPost, "/api/auth/reset/init", gin.H{"email": "unknown@example.com"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := app.do(t, http.MethodPost, "/api/auth/reset/confirm", gin.H{"token": "bogus", "new_password": "newpassword1"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid or expired token", env.Message)

	u, err := app.reset.Users.GetByUsername(context.Background(), "john")
	require.NoError(t, err)
	token, err := app.reset.IssueToken(u, time.Minute)
	require.NoError(t, err)
	w, _ = app.do(t, http.MethodPost, "/api/auth/reset/confirm", gin.H{"token": token, "new_password": "newpassword1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/login", gin.H{"username": "john", "password": "newpassword1"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTranslate(t *testing.T) {
	body := gin.H{"text": "hola", "source_language": "es", "dest_language": "en"}

	app := newTestApp(t, stubTranslator{})
	john := app.signup(t, "john")
	w, env := app.do(t, http.MethodPost, "/api/translate", body, john)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"text":"[hola]"}`, string(env.Data))

	app = newTestApp(t, nil)
	john = app.signup(t, "john")
	w, env = app.do(t, http.MethodPost, "/api/translate", body, john)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Error: the translation service is not configured.", env.Message)

	app = newTestApp(t, stubTranslator{err: translate.ErrFailed})
	john = app.signup(t, "john")
	w, env = app.do(t, http.MethodPost, "/api/translate", body, john)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Error: the translation service failed.", env.Message)
}
