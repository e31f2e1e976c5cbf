package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func TestListNewDMs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v19.0/acct1/conversations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "tok" {
			t.Error("access token missing from request")
		}
		if got := r.URL.Query().Get("after"); got != "cur1" {
			t.Errorf("expected cursor cur1, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"conversation_id": "c1", "message_id": "m1", "sender_id": "s1", "text": "hello"},
			},
			"after": "cur2",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", zap.NewNop())
	dms, next, err := c.ListNewDMs(context.Background(), "acct1", "cur1")
	if err != nil {
		t.Fatal(err)
	}
	if len(dms) != 1 || dms[0].Text != "hello" {
		t.Fatalf("unexpected DMs %+v", dms)
	}
	if next != "cur2" {
		t.Fatalf("expected cursor advanced to cur2, got %q", next)
	}
}

func TestListNewDMsKeepsCursorWithoutAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", zap.NewNop())
	_, next, err := c.ListNewDMs(context.Background(), "acct1", "cur1")
	if err != nil {
		t.Fatal(err)
	}
	if next != "cur1" {
		t.Fatalf("cursor must not move without a new page marker, got %q", next)
	}
}

func TestSendMessageRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
		}
		if req.RecipientID != "s1" || req.Text != "Hi there!" {
			t.Errorf("unexpected payload %+v", req)
		}
		json.NewEncoder(w).Encode(sendMessageResponse{MessageID: "m2"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", zap.NewNop())
	id, err := c.SendMessage(context.Background(), "acct1", "s1", "Hi there!")
	if err != nil {
		t.Fatal(err)
	}
	if id != "m2" {
		t.Fatalf("expected external id m2, got %q", id)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
}

func TestSendMessageDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", zap.NewNop())
	if _, err := c.SendMessage(context.Background(), "acct1", "s1", "Hi"); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls)
	}
}
