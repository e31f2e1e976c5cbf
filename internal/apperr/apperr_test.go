package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromKeepsClassifiedStatus(t *testing.T) {
	orig := NotFound("Conversation")
	got := From(orig)
	if got != orig {
		t.Fatal("classified error must pass through unchanged")
	}
	if got.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got.Status)
	}
	if got.Message != "Conversation not found" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestFromUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Forbidden("You do not have access to this automation"))
	got := From(wrapped)
	if got.Status != http.StatusForbidden {
		t.Fatalf("expected 403 through wrapping, got %d", got.Status)
	}
}

func TestFromClassifiesUnknownAsInternal(t *testing.T) {
	cause := errors.New("connection refused")
	got := From(cause)
	if got.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got.Status)
	}
	if got.Message != "Internal server error" {
		t.Fatalf("raw cause must not leak, got %q", got.Message)
	}
	if !errors.Is(got, cause) {
		t.Fatal("cause must stay reachable for logging")
	}
}

func TestValidationShape(t *testing.T) {
	e := Validation([]string{"email is required"})
	if e.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", e.Status)
	}
	if e.Message != "Validation failed" {
		t.Fatalf("unexpected message %q", e.Message)
	}
	if len(e.Errors) != 1 {
		t.Fatalf("expected the field errors to be carried, got %v", e.Errors)
	}
}
