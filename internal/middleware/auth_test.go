package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/caloriemate/backend/internal/service"
)

type fakeValidator struct {
	claims *service.TokenClaims
	err    error
}

func (v fakeValidator) ValidateToken(string) (*service.TokenClaims, error) {
	return v.claims, v.err
}

func authTestRouter(validator TokenValidator, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("", AuthMiddleware(validator))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := fakeValidator{claims: &service.TokenClaims{UserID: userID, Role: "member"}}

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(authTestRouter(valid), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doRequest(authTestRouter(valid), "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		invalid := fakeValidator{err: errors.New("token expired")}
		w := doRequest(authTestRouter(invalid), "Bearer whatever")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(authTestRouter(valid), "Bearer whatever")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})
}

func TestRequireRoles(t *testing.T) {
	member := fakeValidator{claims: &service.TokenClaims{UserID: uuid.New(), Role: "member"}}
	admin := fakeValidator{claims: &service.TokenClaims{UserID: uuid.New(), Role: "admin"}}

	t.Run("role allowed", func(t *testing.T) {
		w := doRequest(authTestRouter(member, "member"), "Bearer x")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("role forbidden", func(t *testing.T) {
		w := doRequest(authTestRouter(member, "admin"), "Bearer x")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("any of several roles", func(t *testing.T) {
		w := doRequest(authTestRouter(admin, "member", "admin"), "Bearer x")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
