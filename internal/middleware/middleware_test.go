package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userRepo "anoa.com/neoboard/internal/modules/user/repository"
	"anoa.com/neoboard/internal/testutil"
	"anoa.com/neoboard/pkg/response"
	"anoa.com/neoboard/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthMiddleware(t *testing.T, issuer *token.Issuer) (*AuthMiddleware, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewAuthMiddleware(issuer, userRepo.NewUserRepository(db)), db
}

func newRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(true), m.Authenticate())
	r.GET("/open", func(c *gin.Context) {
		auth := response.GetAuth(c)
		if auth.Authenticated() {
			c.String(http.StatusOK, auth.UserID.String())
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/closed", m.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	m, _ := newAuthMiddleware(t, issuer)
	r := newRouter(m)

	userID := uuid.New()
	signed, err := issuer.Generate(userID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   string
	}{
		{"no token", "/open", "", "anonymous"},
		{"bearer header", "/open", "Bearer " + signed, userID.String()},
		{"query token", "/open?token=" + signed, "", userID.String()},
		{"garbage token", "/open", "Bearer nope", "anonymous"},
		{"wrong scheme", "/open", "Basic " + signed, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	m, db := newAuthMiddleware(t, issuer)
	r := newRouter(m)

	active := testutil.CreateUser(t, db, "alice")
	inactive := testutil.CreateUser(t, db, "mallory")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	sign := func(id uuid.UUID) string {
		signed, err := issuer.Generate(id)
		require.NoError(t, err)
		return signed
	}
	expired, err := token.NewIssuer("secret", -time.Minute).Generate(active.ID)
	require.NoError(t, err)
	forged, err := token.NewIssuer("other-secret", time.Hour).Generate(active.ID)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"no token", "", http.StatusUnauthorized, `{"error":"Access denied. No token provided."}`},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, `{"error":"Invalid token."}`},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, `{"error":"Invalid token."}`},
		{"wrong signing key", "Bearer " + forged, http.StatusUnauthorized, `{"error":"Invalid token."}`},
		{"unknown user", "Bearer " + sign(uuid.New()), http.StatusUnauthorized, `{"error":"Invalid token. User not found."}`},
		{"deactivated user", "Bearer " + sign(inactive.ID), http.StatusUnauthorized, `{"error":"Invalid token. User not found."}`},
		{"active user", "Bearer " + sign(active.ID), http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/closed", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	m, _ := newAuthMiddleware(t, token.NewIssuer("secret", time.Hour))
	r := newRouter(m)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=")
}

func TestRateLimitByIPWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitByIP(nil, 1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
