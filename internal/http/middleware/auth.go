package middleware

import (
	"errors"
	"net/http"
	"strings"

	"rentago/internal/domain"
	"rentago/internal/services"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	identityKey = "identity"
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// Claims is the identity provider access token. Only HS256 tokens signed
// with JWT_SECRET are accepted.
type Claims struct {
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

type userMetadata struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

var errMissingToken = errors.New("missing bearer token")

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}

func bearerToken(c *gin.Context) (string, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(token), nil
}

// ParseIdentity verifies the token and maps its claims to a domain.Identity.
func ParseIdentity(token string, secret []byte) (domain.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Identity{}, err
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return domain.Identity{}, errors.New("token without subject")
	}
	return domain.Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		FullName: claims.UserMetadata.FullName,
		Phone:    claims.UserMetadata.Phone,
	}, nil
}

func authenticate(secret []byte, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if errors.Is(err, errMissingToken) && !required {
			c.Next()
			return
		}
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "token tidak ditemukan")
			return
		}
		id, err := ParseIdentity(token, secret)
		if err != nil {
			utils.LogWarn(GetRequestID(c), "AUTH", "verify", "token rejected: "+err.Error())
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "token tidak valid")
			return
		}
		c.Set(identityKey, id)
		c.Set(userIDKey, id.UserID)
		c.Next()
	}
}

// AuthOptional lets guests through; a present but invalid token is still 401.
func AuthOptional(secret string) gin.HandlerFunc {
	return authenticate([]byte(secret), false)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(secret string) gin.HandlerFunc {
	return authenticate([]byte(secret), true)
}

// ResolveRole loads (or lazily creates) the caller's profile and stores its
// role under "userRole" for RequireRoles. Guests pass through untouched.
func ResolveRole(profiles services.ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			c.Next()
			return
		}
		svc := services.ProfileService{Profiles: profiles, RequestID: GetRequestID(c)}
		p, err := svc.Resolve(c.Request.Context(), id)
		if err != nil {
			utils.LogError(GetRequestID(c), "AUTH", "resolve_role", "gagal memuat profil", err)
			abortAuth(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan")
			return
		}
		id.Role = p.Role
		c.Set(identityKey, id)
		c.Set(userRoleKey, p.Role)
		c.Next()
	}
}

// GetIdentity returns the authenticated caller, if any.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
