package aiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func newStubbedClient(t *testing.T, body string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       "gpt-4o-mini",
		maxTokens:   150,
		temperature: 0.7,
		logger:      zap.NewNop(),
	}, srv
}

func TestGenerateEmptyChoicesFallsBack(t *testing.T) {
	c, srv := newStubbedClient(t, `{"id":"x","object":"chat.completion","choices":[],"usage":{}}`)
	defer srv.Close()

	result, err := c.Generate(context.Background(), "", "where is my order?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Fallback {
		t.Fatal("an empty completion must fall back")
	}
	if result.Text != FallbackReply("where is my order?") {
		t.Fatalf("unexpected reply %q", result.Text)
	}
}

func TestGenerateUsesCompletion(t *testing.T) {
	c, srv := newStubbedClient(t,
		`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi! It ships today."}}],"usage":{"prompt_tokens":12,"completion_tokens":6}}`)
	defer srv.Close()

	result, err := c.Generate(context.Background(), "", "where is my order?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fallback {
		t.Fatal("a real completion must not fall back")
	}
	if result.Text != "Hi! It ships today." {
		t.Fatalf("unexpected reply %q", result.Text)
	}
	if result.PromptTokens != 12 || result.CompletionTokens != 6 {
		t.Fatalf("usage not carried through: %+v", result)
	}
}

func TestFallbackReplyIsDeterministic(t *testing.T) {
	first := FallbackReply("where is my order?")
	for i := 0; i < 10; i++ {
		if got := FallbackReply("where is my order?"); got != first {
			t.Fatalf("same message produced different replies: %q vs %q", first, got)
		}
	}
}

func TestFallbackReplyIsCanned(t *testing.T) {
	got := FallbackReply("hello")
	for _, canned := range fallbackReplies {
		if got == canned {
			return
		}
	}
	t.Fatalf("reply %q is not one of the canned responses", got)
}
