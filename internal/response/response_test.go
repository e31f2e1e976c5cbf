package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(write func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	write(c)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		panic(err)
	}
	return rr, body
}

func TestOKEnvelope(t *testing.T) {
	rr, body := record(func(c *gin.Context) {
		OK(c, http.StatusCreated, "Account created", gin.H{"id": 1})
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if string(body["success"]) != "true" {
		t.Fatalf("expected success true, got %s", body["success"])
	}
	if _, ok := body["errors"]; ok {
		t.Fatal("success envelope must not carry errors")
	}
	if _, ok := body["data"]; !ok {
		t.Fatal("expected data")
	}

	var ts string
	if err := json.Unmarshal(body["timestamp"], &ts); err != nil {
		t.Fatal(err)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Fatalf("timestamp not RFC3339: %q", ts)
	}
}

func TestFailEnvelope(t *testing.T) {
	rr, body := record(func(c *gin.Context) {
		Fail(c, http.StatusBadRequest, "Validation failed", []string{"email is required"})
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if string(body["success"]) != "false" {
		t.Fatalf("expected success false, got %s", body["success"])
	}
	if _, ok := body["data"]; ok {
		t.Fatal("failure envelope must not carry data")
	}

	var errs []string
	if err := json.Unmarshal(body["errors"], &errs); err != nil {
		t.Fatal(err)
	}
	if len(errs) != 1 || errs[0] != "email is required" {
		t.Fatalf("unexpected errors %v", errs)
	}
}
