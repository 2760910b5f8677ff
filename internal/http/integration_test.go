package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/config"
)

// fullRouter wires the real middleware chain: sessions, bearer tokens and
// the auth middleware, but no CSRF.
func fullRouter(t *testing.T, stores *testStores) *gin.Engine {
	t.Helper()

	authCfg := config.Auth{
		SessionSecret:        "integration-secret",
		SessionLifetime:      time.Hour,
		TokenExpiry:          time.Hour,
		BcryptCost:           4,
		ResetTokenTTL:        time.Hour,
		VerificationTokenTTL: 24 * time.Hour,
	}

	service := auth.NewService(stores.users, authCfg)

	sqlDB, err := stores.db.DB.DB()
	require.NoError(t, err)
	sessions, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		DB:             stores.db,
		Version:        "test",
		AuthService:    service,
		AuthMiddleware: auth.NewMiddleware(service, sessions),
		SessionManager: sessions,
		Users:          stores.users,
		Families:       stores.families,
		Members:        stores.users,
		Books:          stores.books,
		Streaming:      stores.streaming,
		Goals:          stores.goals,
		Feed:           stores.activities,
	})
}

func postJSON(router *gin.Engine, path string, payload gin.H, cookies []*http.Cookie) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestIntegration_SignupLoginSession(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	router := fullRouter(t, stores)

	// Unauthenticated requests to protected endpoints fail
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Signup is public
	w = postJSON(router, "/api/auth/signup", gin.H{
		"email":      "sarah@example.com",
		"username":   "sarah",
		"first_name": "Sarah",
		"password":   "Str0ng!pass",
		"role":       "PARENT",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Login opens a session
	w = postJSON(router, "/api/auth/login", gin.H{
		"email":    "sarah@example.com",
		"password": "Str0ng!pass",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Session cookie authenticates subsequent requests
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/auth/session", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var session struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.NotZero(t, session.UserID)
	assert.Equal(t, "PARENT", session.Role)
}

func TestIntegration_LoginFailureIsUniform(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	router := fullRouter(t, stores)

	w := postJSON(router, "/api/auth/signup", gin.H{
		"email":    "real@example.com",
		"username": "realuser",
		"password": "Str0ng!pass",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	unknown := postJSON(router, "/api/auth/login", gin.H{
		"email": "ghost@example.com", "password": "Str0ng!pass",
	}, nil)
	wrong := postJSON(router, "/api/auth/login", gin.H{
		"email": "real@example.com", "password": "Wr0ng!pass",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
}

func TestIntegration_BearerToken(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	router := fullRouter(t, stores)

	w := postJSON(router, "/api/auth/signup", gin.H{
		"email":    "api@example.com",
		"username": "apiuser",
		"password": "Str0ng!pass",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	login := postJSON(router, "/api/auth/login", gin.H{
		"email": "api@example.com", "password": "Str0ng!pass",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	// Get a bearer token over the session
	tokenResp := postJSON(router, "/api/auth/token", gin.H{}, cookies)
	require.Equal(t, http.StatusOK, tokenResp.Code)

	var tokenBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(tokenResp.Body.Bytes(), &tokenBody))
	require.NotEmpty(t, tokenBody.Token)

	// Token authenticates without a cookie
	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenBody.Token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Garbage token does not
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIntegration_FamilyScopedRoutes(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	router := fullRouter(t, stores)

	w := postJSON(router, "/api/auth/signup", gin.H{
		"email":    "nofam@example.com",
		"username": "nofam",
		"password": "Str0ng!pass",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	login := postJSON(router, "/api/auth/login", gin.H{
		"email": "nofam@example.com", "password": "Str0ng!pass",
	}, nil)
	cookies := login.Result().Cookies()

	// Without a family, the book catalog is off limits
	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Create a family, then the catalog opens up
	w = postJSON(router, "/api/family", gin.H{"name": "New Family"}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	// The session was refreshed in place with the family claim
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/books", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_Health(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	router := fullRouter(t, stores)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
