package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, expiresIn time.Duration) string {
	t.Helper()
	claims := &models.Claims{
		Email: "jane@example.com",
		Role:  models.RoleMember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret, zap.NewNop()), func(c *gin.Context) {
		userID := c.MustGet("userID").(int64)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	router := protectedRouter()

	t.Run("valid token passes identity through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Hour))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if rr.Body.String() != `{"user_id":7}` {
			t.Fatalf("unexpected body %s", rr.Body.String())
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/protected", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, -time.Hour))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other"), time.Hour))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/admin",
			func(c *gin.Context) { c.Set("role", role) },
			RequireRole(models.RoleOwner, models.RoleAdmin),
			func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("admin allowed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newRouter(models.RoleAdmin).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("member rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newRouter(models.RoleMember).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})
}
