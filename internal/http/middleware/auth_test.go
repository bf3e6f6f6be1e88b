package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestParseIdentity(t *testing.T) {
	tok := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"sub":   "user-1",
		"email": "sari@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{
			"full_name": "Sari",
			"phone":     "081111111111",
		},
	})

	id, err := ParseIdentity(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "sari@example.com", id.Email)
	assert.Equal(t, "Sari", id.FullName)
	assert.Equal(t, "081111111111", id.Phone)
}

func TestParseIdentity_Rejects(t *testing.T) {
	expired := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	_, err := ParseIdentity(expired, secret)
	assert.Error(t, err)

	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "user-1"})
	_, err = ParseIdentity(wrongKey, secret)
	assert.Error(t, err)

	noSub := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"email": "x@example.com"})
	_, err = ParseIdentity(noSub, secret)
	assert.Error(t, err)

	hs512 := sign(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{"sub": "user-1"})
	_, err = ParseIdentity(hs512, secret)
	assert.Error(t, err)
}

func newAuthRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	handlers := append(mw, func(c *gin.Context) {
		id, ok := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"guest": !ok, "user": id.UserID, "role": c.GetString(userRoleKey)})
	})
	r.GET("/x", handlers...)
	return r
}

func get(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthOptional(t *testing.T) {
	r := newAuthRouter(AuthOptional(string(secret)))

	w := get(r, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"guest":true`)

	w = get(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-1"})
	w = get(r, "Bearer "+tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"user-1"`)
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter(RequireAuth(string(secret)))
	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "request_id")
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(userRoleKey, role)
			}
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{"customer", http.StatusForbidden},
		{"admin", http.StatusOK},
		{" ADMIN ", http.StatusOK},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", withRole(tc.role), RequireRoles("admin"), ok)
		w := get(r, "")
		assert.Equal(t, tc.want, w.Code, "role %q", tc.role)
	}
}

func TestRequestID(t *testing.T) {
	r := newAuthRouter()

	w := get(r, "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
