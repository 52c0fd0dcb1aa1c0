package middlewares

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_api/internal/services"
	"blog_api/internal/utils"
)

const (
	issuer   = "https://blog.eu.auth0.com/"
	audience = "https://api.blog.example"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

func newToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := utils.IssueHMACToken(secret, issuer, audience, subject, "read:posts", time.Minute)
	require.NoError(t, err)
	return token
}

func gatedRouter(revocations RevocationChecker) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(utils.NewHMACVerifier(secret, issuer, audience), revocations))
	r.GET("/me", func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject, "userId": c.GetString(UserIDKey)})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := gatedRouter(nil)

	w := doGet(r, "Bearer "+newToken(t, "auth0|1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sub":"auth0|1","userId":"auth0|1"}`, w.Body.String())

	tests := map[string]struct {
		header string
		body   string
	}{
		"missing header": {"", `{"error":"Missing Authorization header"}`},
		"wrong scheme":   {"Basic abc", `{"error":"Invalid Authorization format"}`},
		"empty token":    {"Bearer ", `{"error":"Invalid Authorization format"}`},
		"bad token":      {"Bearer not-a-jwt", `{"error":"Invalid or expired token"}`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestAuthenticateRevocation(t *testing.T) {
	token := newToken(t, "auth0|1")
	claims, err := utils.NewHMACVerifier(secret, issuer, audience).Verify(token)
	require.NoError(t, err)

	w := doGet(gatedRouter(fakeRevocations{revoked: map[string]bool{claims.ID: true}}), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token has been revoked"}`, w.Body.String())

	w = doGet(gatedRouter(fakeRevocations{err: errors.New("redis down")}), "Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doGet(gatedRouter(fakeRevocations{}), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func boundaryRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logrus.New()), ErrorBoundary())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	r.GET("/unhandled", func(c *gin.Context) { _ = c.Error(errors.New("db exploded")) })
	r.GET("/classified", func(c *gin.Context) { _ = c.Error(services.ErrUserNotFound) })
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func TestErrorBoundary(t *testing.T) {
	r := boundaryRouter()

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/panic", http.StatusInternalServerError, `{"status":"error","message":"Something went wrong!"}`},
		{"/unhandled", http.StatusInternalServerError, `{"status":"error","message":"Something went wrong!"}`},
		{"/classified", http.StatusNotFound, `{"status":"error","message":"User not found."}`},
		{"/ok", http.StatusOK, `{"ok":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/users/:id", func(c *gin.Context) {
		Logger(c).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-123"`)
	assert.Contains(t, out, `"route":"/users/:id"`)
	assert.Contains(t, out, `"status":204`)
	assert.Contains(t, out, "inside handler")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/8", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
