package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unquiedeveloper/sg-store2/internal/config"
	"github.com/unquiedeveloper/sg-store2/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware_Role(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	adminToken, err := jwtManager.GenerateAccessToken("u1", "", "admin")
	require.NoError(t, err)
	staffToken, err := jwtManager.GenerateAccessToken("u2", "", "staff")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(jwtManager))
	r.GET("/role", func(c *gin.Context) { c.String(http.StatusOK, GetRole(c)) })
	r.DELETE("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		header string
		cookie string
		role   string
	}{
		{"anonymous", "", "", ""},
		{"bearer admin", "Bearer " + adminToken, "", "admin"},
		{"cookie staff", "", staffToken, "staff"},
		{"invalid token", "Bearer nope", "", ""},
		{"malformed header", "Token " + adminToken, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/role", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.role, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func newSessionRouter() *gin.Engine {
	store := NewSessionStore(&config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef", MaxAge: 3600})
	r := gin.New()
	r.Use(SessionMiddleware(store, "test_session"))
	r.GET("/sid", func(c *gin.Context) { c.String(http.StatusOK, GetSessionID(c)) })
	r.POST("/flash", func(c *gin.Context) {
		AddFlash(c, FlashError, "Failed to fetch bills")
		AddFlash(c, FlashSuccess, "Bill deleted")
		c.Status(http.StatusNoContent)
	})
	r.GET("/flashes", func(c *gin.Context) { c.JSON(http.StatusOK, Flashes(c)) })
	return r
}

func lastCookie(w *httptest.ResponseRecorder) *http.Cookie {
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		return nil
	}
	return cookies[len(cookies)-1]
}

func TestSessionMiddleware_StableID(t *testing.T) {
	r := newSessionRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sid", nil))
	sid := w.Body.String()
	assert.True(t, utils.IsUUID(sid))
	cookie := lastCookie(w)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, sid, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "tampered"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, sid, w.Body.String())
}

func TestSessionMiddleware_Flashes(t *testing.T) {
	r := newSessionRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/flash", nil))
	cookie := lastCookie(w)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/flashes", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `[{"Kind":"success","Message":"Bill deleted"},{"Kind":"error","Message":"Failed to fetch bills"}]`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/flashes", nil)
	req.AddCookie(lastCookie(w))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "null", w.Body.String())
}

func TestSessionRateLimiter(t *testing.T) {
	rl := NewSessionRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Close()

	r := gin.New()
	r.POST("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, rl.Stats()["active_sessions"])
}

func TestRateLimiterConfigFor(t *testing.T) {
	cfg := RateLimiterConfigFor(30, 60)
	assert.InDelta(t, 0.5, cfg.RequestsPerSecond, 1e-9)
	assert.Equal(t, 30, cfg.BurstSize)
}

func TestLoggerMiddleware_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		wantAllowed string
		wantCreds   string
	}{
		{"listed origin", []string{"http://shop.local"}, "http://shop.local", "http://shop.local", "true"},
		{"unlisted origin", []string{"http://shop.local"}, "http://evil.local", "", ""},
		{"wildcard", []string{"*"}, "http://any.local", "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: tt.origins}))
			r.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/api", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
