package service

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/models"
	"neuraslide/internal/repository"
	"neuraslide/internal/validation"
)

type fakeSignupUserRepo struct {
	repository.UserRepository
	createErr error
}

func (f *fakeSignupUserRepo) GetUserByEmail(email string) (*models.User, error) { return nil, nil }

func (f *fakeSignupUserRepo) CreateUser(user *models.User) error { return f.createErr }

func TestSignupDuplicateEmailRace(t *testing.T) {
	// The email lookup sees nothing, then the insert loses to a
	// concurrent signup and hits the unique index.
	users := &fakeSignupUserRepo{createErr: &pq.Error{Code: "23505"}}
	svc := NewAuthService(users, nil, nil, nil, "secret", time.Hour, zap.NewNop())

	_, err := svc.Signup(validation.SignupRequest{
		Email:    "taken@example.com",
		Password: "Sup3rSecret",
		Name:     "Taken",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected a classified error, got %T", err)
	}
	if appErr.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", appErr.Status)
	}
	if appErr.Message != "Email already registered" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("Sup3rSecret")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format %q", hash)
	}
	if !verifyPassword(hash, "Sup3rSecret") {
		t.Fatal("correct password rejected")
	}
	if verifyPassword(hash, "Sup3rSecret2") {
		t.Fatal("wrong password accepted")
	}
}

func TestPasswordHashIsSalted(t *testing.T) {
	h1, err := hashPassword("Sup3rSecret")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := hashPassword("Sup3rSecret")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	for _, encoded := range []string{"", "plaintext", "$bcrypt$whatever"} {
		if verifyPassword(encoded, "Sup3rSecret") {
			t.Fatalf("accepted malformed hash %q", encoded)
		}
	}
}
