package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/models"
	"neuraslide/internal/service"
	"neuraslide/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	service.AuthService
	signupUser *models.User
	signupErr  error
	loginErr   error
}

func (f *fakeAuthService) Signup(req validation.SignupRequest) (*models.User, error) {
	return f.signupUser, f.signupErr
}

func (f *fakeAuthService) Login(email, password string) (string, time.Time, *models.User, error) {
	if f.loginErr != nil {
		return "", time.Time{}, nil, f.loginErr
	}
	return "tok", time.Now().Add(time.Hour), &models.User{ID: 1, Email: email}, nil
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func envelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rr.Body.String())
	}
	return body
}

func TestSignupHandler(t *testing.T) {
	newRouter := func(svc service.AuthService) *gin.Engine {
		r := gin.New()
		h := NewAuthHandler(svc, zap.NewNop())
		r.POST("/crystal/auth/signup", h.Signup)
		return r
	}

	t.Run("created", func(t *testing.T) {
		router := newRouter(&fakeAuthService{signupUser: &models.User{
			ID: 1, Email: "jane@example.com", Name: "Jane", Role: models.RoleMember,
			PasswordHash: "$argon2id$secret", IsActive: true,
		}})

		rr := postJSON(t, router, "/crystal/auth/signup",
			`{"email":"jane@example.com","password":"Weak1","name":"Jane"}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		body := envelope(t, rr)
		if string(body["success"]) != "true" {
			t.Fatalf("expected success envelope, got %s", rr.Body.String())
		}
		if strings.Contains(rr.Body.String(), "argon2id") ||
			strings.Contains(rr.Body.String(), "password") {
			t.Fatalf("password material leaked: %s", rr.Body.String())
		}
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		router := newRouter(&fakeAuthService{signupErr: apperr.Conflict("Email already registered")})

		rr := postJSON(t, router, "/crystal/auth/signup",
			`{"email":"jane@example.com","password":"Weak1","name":"Jane"}`)
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rr.Code)
		}
		body := envelope(t, rr)
		if string(body["success"]) != "false" {
			t.Fatal("expected failure envelope")
		}
		if _, ok := body["data"]; ok {
			t.Fatal("failure envelope must not carry data")
		}
	})

	t.Run("validation failure lists every field", func(t *testing.T) {
		router := newRouter(&fakeAuthService{})

		rr := postJSON(t, router, "/crystal/auth/signup", `{}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
		var errs []string
		if err := json.Unmarshal(envelope(t, rr)["errors"], &errs); err != nil {
			t.Fatal(err)
		}
		if len(errs) != 3 {
			t.Fatalf("expected 3 field errors, got %v", errs)
		}
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		router := newRouter(&fakeAuthService{})

		rr := postJSON(t, router, "/crystal/auth/signup", `{not json`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}

func TestLoginHandlerUnauthorized(t *testing.T) {
	r := gin.New()
	h := NewAuthHandler(&fakeAuthService{loginErr: apperr.Unauthorized()}, zap.NewNop())
	r.POST("/crystal/auth/login", h.Login)

	rr := postJSON(t, r, "/crystal/auth/login",
		`{"email":"jane@example.com","password":"Wrong1"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	body := envelope(t, rr)
	var msg string
	if err := json.Unmarshal(body["message"], &msg); err != nil {
		t.Fatal(err)
	}
	if msg != "Authentication required" {
		t.Fatalf("message must not hint at the failing credential, got %q", msg)
	}
}
