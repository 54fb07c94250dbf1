package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","model":"mistral","choices":[{"index":0,"message":{"role":"assistant","content":"Halloween est un classique."},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "mistral", time.Second)
	text, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "un classique ?"}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Halloween est un classique." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestClientGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad prompt","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "mistral", time.Second)
	if _, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestClientGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"Hal\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"loween\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "mistral", time.Second)
	var fragments []string
	err := client.GenerateStream(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	if len(fragments) != 2 || fragments[0]+fragments[1] != "Halloween" {
		t.Fatalf("unexpected fragments: %+v", fragments)
	}
}

func TestClientGenerateStreamCallbackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"Hal\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "mistral", time.Second)
	stop := fmt.Errorf("stop")
	err := client.GenerateStream(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, func(string) error {
		return stop
	})
	if err != stop {
		t.Fatalf("expected callback error to propagate, got %v", err)
	}
}

func TestClientSetHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "mistral", time.Second)
	if _, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestMockClientStreamFailure(t *testing.T) {
	mock := &MockClient{Fragments: []string{"a", "b", "c"}, FailAfter: 2, Err: fmt.Errorf("boom")}

	var got []string
	err := mock.GenerateStream(context.Background(), nil, func(fragment string) error {
		got = append(got, fragment)
		return nil
	})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 fragments before failure, got %d", len(got))
	}
}
