package handler

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/event-info-api/internal/middleware"
	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/internal/repository"
	"github.com/noah-isme/event-info-api/internal/service"
	"github.com/noah-isme/event-info-api/pkg/config"
	"github.com/noah-isme/event-info-api/pkg/database"
)

const (
	testPassword = "secret-pass"
	testIssuer   = "https://idp.example.test"
	testClientID = "event-info"
)

type testServer struct {
	router     *gin.Engine
	db         *sqlx.DB
	cookieName string
	signingKey *rsa.PrivateKey
}

type serverOptions struct {
	mode        string
	publicReads bool
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	seed(t, db)

	store := repository.NewMemorySessionStore(100, time.Hour)
	var (
		authSvc    *service.AuthService
		signingKey *rsa.PrivateKey
		cookieName string
	)
	users := repository.NewBoothUserRepository(db)
	switch opts.mode {
	case config.AuthModeJWT:
		strategy := service.NewJWTStrategy(service.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "event-info-api"}, store, nil)
		authSvc = service.NewAuthService(users, strategy, nil, nil, nil)
	case config.AuthModeOIDC:
		signingKey, err = rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&signingKey.PublicKey}}
		verifier := oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: testClientID})
		roles := service.NewProfileRoleResolver(repository.NewProfileRepository(db), nil)
		authSvc = service.NewAuthService(nil, service.NewOIDCStrategyWithVerifier(verifier, nil, nil), roles, nil, nil)
	default:
		strategy := service.NewSessionStrategy(store, time.Hour, nil)
		authSvc = service.NewAuthService(users, strategy, nil, nil, nil)
		cookieName = "sid"
	}

	eventRepo := repository.NewEventRepository(db)

	router := gin.New()
	RegisterRoutes(router, Routes{
		Auth:          NewAuthHandler(authSvc, SessionCookie{Name: cookieName}),
		Events:        NewEventHandler(service.NewEventService(eventRepo, nil, nil, nil)),
		Schedule:      NewScheduleHandler(service.NewScheduleService(repository.NewScheduleRepository(db), eventRepo, nil)),
		Posts:         NewPostHandler(service.NewPostService(repository.NewPostRepository(db), nil, service.PostConfig{}, nil)),
		Metrics:       NewMetricsHandler(nil, db),
		Guard:         middleware.NewGuard(service.NewAccessPolicy(opts.publicReads), nil),
		Authenticator: authSvc,
		CookieName:    cookieName,
	})

	return &testServer{router: router, db: db, cookieName: cookieName, signingKey: signingKey}
}

// idToken signs an identity-provider token for subject.
func (s *testServer) idToken(t *testing.T, subject string) call {
	t.Helper()
	require.NotNil(t, s.signingKey)
	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testClientID,
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(s.signingKey)
	require.NoError(t, err)
	return call{token: signed}
}

func seed(t *testing.T, db *sqlx.DB) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	db.MustExec(`INSERT INTO events (id, name, date, location) VALUES ('e1', 'Spring Fair', '2026-05-03', 'Hall A'), ('e2', 'Autumn Fair', NULL, NULL)`)
	db.MustExec(`INSERT INTO booths (id, event_id, name) VALUES ('b1', 'e1', 'Coffee Corner')`)
	db.MustExec(`INSERT INTO schedule (event_id, title, start_time, end_time) VALUES ('e1', 'Closing', '17:00', NULL), ('e1', 'Opening', '09:00', '09:30')`)
	db.MustExec(db.Rebind(`INSERT INTO booth_users (username, password_hash, booth_id, is_admin) VALUES (?, ?, 'b1', FALSE), (?, ?, NULL, TRUE)`),
		"alice", string(hash), "root", string(hash))
	db.MustExec(`INSERT INTO profiles (id, username, role, booth_id) VALUES ('sub-staff', 'sam', 'staff', NULL), ('sub-booth', 'bea', 'user', 'b1')`)
}

type call struct {
	method string
	path   string
	body   interface{}
	token  string
	cookie *http.Cookie
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(c.method, c.path, payload)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

// login returns the session cookie or bearer token depending on the server's mode.
func (s *testServer) login(t *testing.T, username string) call {
	t.Helper()
	rec := s.do(t, call{method: http.MethodPost, path: "/api/login", body: models.LoginRequest{Username: username, Password: testPassword}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.OK)

	if s.cookieName == "" {
		require.NotEmpty(t, body.Token)
		return call{token: body.Token}
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == s.cookieName {
			assert.True(t, cookie.HttpOnly)
			return call{cookie: cookie}
		}
	}
	t.Fatalf("login did not set the %s cookie", s.cookieName)
	return call{}
}

func (c call) with(method, path string, body interface{}) call {
	c.method, c.path, c.body = method, path, body
	return c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}

func TestBoothPostReachesTimeline(t *testing.T) {
	for _, mode := range []string{config.AuthModeSession, config.AuthModeJWT} {
		t.Run(mode, func(t *testing.T) {
			srv := newTestServer(t, serverOptions{mode: mode, publicReads: true})
			alice := srv.login(t, "alice")

			rec := srv.do(t, alice.with(http.MethodPost, "/api/posts", gin.H{"title": "Fresh brew", "body": "New beans today", "eventId": "e2"}))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var created struct {
				OK bool  `json:"ok"`
				ID int64 `json:"id"`
			}
			decode(t, rec, &created)
			assert.True(t, created.OK)
			assert.Positive(t, created.ID)

			rec = srv.do(t, call{method: http.MethodGet, path: "/api/timeline"})
			require.Equal(t, http.StatusOK, rec.Code)
			var timeline struct {
				Items []models.BoothPost `json:"items"`
			}
			decode(t, rec, &timeline)
			require.Len(t, timeline.Items, 1)
			post := timeline.Items[0]
			assert.Equal(t, "e1", post.EventID)
			assert.Equal(t, "b1", *post.BoothID)
			require.NotNil(t, post.BoothName)
			assert.Equal(t, "Coffee Corner", *post.BoothName)
			_, err := time.Parse(models.PostedAtLayout, post.PostedAt)
			assert.NoError(t, err)

			rec = srv.do(t, call{method: http.MethodGet, path: "/api/posts?eventId=e1"})
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "Fresh brew")
		})
	}
}

func TestAdminChoosesTargetEvent(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeSession, publicReads: true})
	root := srv.login(t, "root")

	rec := srv.do(t, root.with(http.MethodPost, "/api/posts", gin.H{"title": "Notice", "body": "Doors open", "eventId": "e2"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/posts?eventId=e2"})
	var listed struct {
		Items []models.BoothPost `json:"items"`
	}
	decode(t, rec, &listed)
	require.Len(t, listed.Items, 1)
	assert.Nil(t, listed.Items[0].BoothID)
	assert.Nil(t, listed.Items[0].BoothName)

	rec = srv.do(t, root.with(http.MethodPost, "/api/posts", gin.H{"title": "Notice", "body": "No event"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing fields", errorOf(t, rec))
}

func TestLogoutInvalidatesCredential(t *testing.T) {
	cases := []struct {
		mode    string
		status  int
		message string
	}{
		{config.AuthModeSession, http.StatusUnauthorized, "session expired or invalid"},
		{config.AuthModeJWT, http.StatusForbidden, "invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			srv := newTestServer(t, serverOptions{mode: tc.mode, publicReads: true})
			alice := srv.login(t, "alice")

			rec := srv.do(t, alice.with(http.MethodGet, "/api/me", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			var me models.MeResponse
			decode(t, rec, &me)
			assert.Equal(t, "alice", me.Username)
			assert.Equal(t, models.RoleUser, me.Role)

			rec = srv.do(t, alice.with(http.MethodPost, "/api/logout", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			rec = srv.do(t, alice.with(http.MethodPost, "/api/posts", gin.H{"title": "t", "body": "b"}))
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, errorOf(t, rec))

			rec = srv.do(t, alice.with(http.MethodGet, "/api/me", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{}`, rec.Body.String())
		})
	}
}

func TestLoginAgainDestroysPreviousSession(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeSession, publicReads: true})
	first := srv.login(t, "alice")

	rec := srv.do(t, first.with(http.MethodPost, "/api/login", models.LoginRequest{Username: "alice", Password: testPassword}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, first.with(http.MethodPost, "/api/posts", gin.H{"title": "t", "body": "b"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session expired or invalid", errorOf(t, rec))
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeSession, publicReads: true})

	rec := srv.do(t, call{method: http.MethodPost, path: "/api/login", body: gin.H{"username": "alice", "password": "wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", errorOf(t, rec))

	rec = srv.do(t, call{method: http.MethodPost, path: "/api/login", body: gin.H{"username": "ghost", "password": testPassword}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", errorOf(t, rec))

	rec = srv.do(t, call{method: http.MethodPost, path: "/api/login", body: gin.H{"username": "alice"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username and password are required", errorOf(t, rec))
}

func TestPrivateReadsRequireLogin(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeSession, publicReads: false})

	for _, path := range []string{"/api/timeline", "/api/posts?eventId=e1", "/api/schedule?eventId=e1"} {
		rec := srv.do(t, call{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := srv.do(t, call{method: http.MethodGet, path: "/api/events"})
	assert.Equal(t, http.StatusOK, rec.Code)

	alice := srv.login(t, "alice")
	rec = srv.do(t, alice.with(http.MethodGet, "/api/timeline", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEventAdministration(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeJWT, publicReads: true})
	alice := srv.login(t, "alice")
	root := srv.login(t, "root")

	rec := srv.do(t, call{method: http.MethodPost, path: "/api/events", body: gin.H{"id": "e3", "name": "Winter"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, alice.with(http.MethodPost, "/api/events", gin.H{"id": "e3", "name": "Winter"}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, root.with(http.MethodPost, "/api/events", gin.H{"id": "e3", "name": "Winter", "location": "Dome"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, root.with(http.MethodPost, "/api/events", gin.H{"name": "No id"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Id and name are required", errorOf(t, rec))

	rec = srv.do(t, root.with(http.MethodPost, "/api/events", gin.H{"id": "e3", "name": "Dup"}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = srv.do(t, root.with(http.MethodPut, "/api/events/e3", gin.H{"name": "Winter Gala"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/events/e3"})
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Event models.Event `json:"event"`
	}
	decode(t, rec, &got)
	assert.Equal(t, "Winter Gala", got.Event.Name)
	assert.Nil(t, got.Event.Location)

	rec = srv.do(t, root.with(http.MethodPut, "/api/events/e3", gin.H{"location": "Dome"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is required", errorOf(t, rec))
}

func TestEventDeleteKeepsChildren(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeSession, publicReads: true})
	alice := srv.login(t, "alice")
	root := srv.login(t, "root")

	rec := srv.do(t, alice.with(http.MethodPost, "/api/posts", gin.H{"title": "t", "body": "b"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, alice.with(http.MethodDelete, "/api/events/e1", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, root.with(http.MethodDelete, "/api/events/e1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/events/e1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/schedule?eventId=e1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var schedule struct {
		Items []models.ScheduleEntry `json:"items"`
	}
	decode(t, rec, &schedule)
	assert.Len(t, schedule.Items, 2)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/posts?eventId=e1"})
	assert.Contains(t, rec.Body.String(), `"event_id":"e1"`)

	rec = srv.do(t, root.with(http.MethodDelete, "/api/events/e1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScheduleEndpoints(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeSession, publicReads: true})

	rec := srv.do(t, call{method: http.MethodGet, path: "/api/schedule?eventId=e1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Items []models.ScheduleEntry `json:"items"`
	}
	decode(t, rec, &listed)
	require.Len(t, listed.Items, 2)
	assert.Equal(t, "Opening", listed.Items[0].Title)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/schedule"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/schedule/abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", errorOf(t, rec))

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/schedule/999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/schedule/export?eventId=e1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schedule-e1.csv")
	assert.Contains(t, rec.Body.String(), "Opening")

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/schedule/export?eventId=e1&format=pdf"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/schedule/export?eventId=e1&format=xls"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeSession, publicReads: true})

	rec := srv.do(t, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, call{method: http.MethodGet, path: "/ready"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/events"})
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestDelegatedIdentityWithProfiles(t *testing.T) {
	srv := newTestServer(t, serverOptions{mode: config.AuthModeOIDC, publicReads: true})
	staff := srv.idToken(t, "sub-staff")
	booth := srv.idToken(t, "sub-booth")
	stranger := srv.idToken(t, "sub-unknown")

	rec := srv.do(t, call{method: http.MethodPost, path: "/api/login", body: gin.H{"username": "sam", "password": "x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, staff.with(http.MethodPost, "/api/events", gin.H{"id": "e9", "name": "Fest"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = srv.do(t, call{method: http.MethodGet, path: "/api/events"})
	assert.Contains(t, rec.Body.String(), `"id":"e9"`)

	rec = srv.do(t, staff.with(http.MethodDelete, "/api/events/e9", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, staff.with(http.MethodPost, "/api/posts", gin.H{"title": "Stage", "body": "Moved", "eventId": "e9"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, booth.with(http.MethodPost, "/api/posts", gin.H{"title": "t", "body": "b", "posted_at": "2024-01-01 10:00", "eventId": "e9"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/posts?eventId=e1"})
	var own struct {
		Items []models.BoothPost `json:"items"`
	}
	decode(t, rec, &own)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "b1", *own.Items[0].BoothID)

	rec = srv.do(t, call{method: http.MethodGet, path: "/api/posts?eventId=e9"})
	var staffPosts struct {
		Items []models.BoothPost `json:"items"`
	}
	decode(t, rec, &staffPosts)
	require.Len(t, staffPosts.Items, 1)
	assert.Nil(t, staffPosts.Items[0].BoothID)

	rec = srv.do(t, stranger.with(http.MethodGet, "/api/me", nil))
	var me models.MeResponse
	decode(t, rec, &me)
	assert.Equal(t, models.RoleUser, me.Role)

	rec = srv.do(t, stranger.with(http.MethodPost, "/api/posts", gin.H{"title": "t", "body": "b"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing fields", errorOf(t, rec))

	rec = srv.do(t, call{token: "not-a-jwt", method: http.MethodPost, path: "/api/posts", body: gin.H{"title": "t", "body": "b"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
