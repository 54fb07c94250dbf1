package intent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

type stubClassifier struct {
	result Classification
	err    error
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	return s.result, s.err
}

func TestClassify(t *testing.T) {
	router := NewRouter(&stubClassifier{
		result: Classification{Label: "horror_recommendation", Confidence: 0.93},
	})

	it, confidence := router.Classify(context.Background(), "un bon slasher ?")
	if it != domain.IntentRecommendation {
		t.Fatalf("unexpected intent: %s", it)
	}
	if confidence != 0.93 {
		t.Fatalf("unexpected confidence: %f", confidence)
	}
}

func TestClassifyFallbackOnError(t *testing.T) {
	router := NewRouter(&stubClassifier{err: errors.New("connection refused")})

	it, confidence := router.Classify(context.Background(), "hello")
	if it != FallbackIntent {
		t.Fatalf("expected fallback intent, got %s", it)
	}
	if confidence != 0 {
		t.Fatalf("expected zero confidence on fallback, got %f", confidence)
	}
}

func TestClassifyFallbackOnUnknownLabel(t *testing.T) {
	router := NewRouter(&stubClassifier{
		result: Classification{Label: "cooking_advice", Confidence: 0.99},
	})

	it, confidence := router.Classify(context.Background(), "recipe please")
	if it != FallbackIntent || confidence != 0 {
		t.Fatalf("expected fallback with zero confidence, got %s/%f", it, confidence)
	}
}

func TestPipelineFor(t *testing.T) {
	cases := []struct {
		intent   domain.Intent
		pipeline domain.Pipeline
	}{
		{domain.IntentRecommendation, domain.PipelineRetrieval},
		{domain.IntentTrivia, domain.PipelineRetrieval},
		{domain.IntentDiscussion, domain.PipelineGeneration},
		{domain.IntentGreeting, domain.PipelineTemplate},
		{domain.IntentFarewell, domain.PipelineTemplate},
		{domain.IntentOutOfScope, domain.PipelineReject},
		{domain.IntentFilmDetails, domain.PipelineLookup},
	}
	for _, tc := range cases {
		if got := PipelineFor(tc.intent); got != tc.pipeline {
			t.Fatalf("%s: expected %s, got %s", tc.intent, tc.pipeline, got)
		}
	}
}

func TestTemplateResponses(t *testing.T) {
	for _, it := range []domain.Intent{domain.IntentGreeting, domain.IntentFarewell, domain.IntentOutOfScope} {
		if TemplateResponse(it) == "" {
			t.Fatalf("missing template for %s", it)
		}
	}
	if TemplateResponse(domain.IntentDiscussion) != "" {
		t.Fatalf("expected no template for generating intents")
	}
}

func TestSystemPrompt(t *testing.T) {
	with := SystemPrompt(domain.IntentRecommendation, true)
	without := SystemPrompt(domain.IntentRecommendation, false)
	if with == "" || without == "" {
		t.Fatalf("expected prompts for recommendation")
	}
	if with == without {
		t.Fatalf("expected a distinct no-context prompt")
	}
	if SystemPrompt(domain.IntentDiscussion, false) == "" {
		t.Fatalf("expected a prompt for discussion")
	}
}

func TestHTTPClassifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"intent":"horror_trivia","confidence":0.81}`)
	}))
	defer server.Close()

	c := NewHTTPClassifier(server.URL, time.Second)
	result, err := c.Classify(context.Background(), "who directed Halloween?")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Label != "horror_trivia" || result.Confidence != 0.81 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestHTTPClassifierError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewHTTPClassifier(server.URL, time.Second)
	if _, err := c.Classify(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error")
	}
}
