package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careclinic/clinic-scheduler/internal/config"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: testSecret}

	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID := c.MustGet(ContextUserID).(uuid.UUID)
		role := c.MustGet(ContextUserRole).(string)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": models.RolePatient,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := doRequest(authRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := signTestToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": models.RolePatient,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signTestToken(t, "other-secret", jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": models.RolePatient,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	badSub := signTestToken(t, testSecret, jwt.MapClaims{
		"sub":  "not-a-uuid",
		"role": models.RolePatient,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"non-uuid subject", "Bearer " + badSub},
	}

	r := authRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	r := authRouter(RequireRoles(models.RoleAdmin))

	adminToken := signTestToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	patientToken := signTestToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": models.RolePatient,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+patientToken).Code)
}
