// Package chat assembles responses: it routes a message through the right
// pipeline and produces either a full result or a stream of events.
package chat

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/intent"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/llm"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/retrieval"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/session"
)

// Options tunes the assembler. Zero values fall back to the defaults below.
type Options struct {
	MatchCount          int
	SimilarityThreshold float64
	RetrievalTimeout    time.Duration
	GenerationTimeout   time.Duration
}

const (
	defaultMatchCount        = 5
	defaultThreshold         = 0.7
	defaultRetrievalTimeout  = 3 * time.Second
	defaultGenerationTimeout = 120 * time.Second
)

// Service orchestrates one exchange end to end: session resolution, intent
// routing, optional retrieval, generation and history persistence.
type Service struct {
	sessions  *session.Manager
	router    *intent.Router
	engine    *retrieval.Engine
	embedder  retrieval.Embedder
	generator llm.Generator
	films     FilmFinder
	opts      Options
}

// NewService wires the assembler.
func NewService(sessions *session.Manager, router *intent.Router, engine *retrieval.Engine, embedder retrieval.Embedder, generator llm.Generator, films FilmFinder, opts Options) *Service {
	if opts.MatchCount <= 0 {
		opts.MatchCount = defaultMatchCount
	}
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = defaultThreshold
	}
	if opts.RetrievalTimeout <= 0 {
		opts.RetrievalTimeout = defaultRetrievalTimeout
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = defaultGenerationTimeout
	}
	return &Service{
		sessions:  sessions,
		router:    router,
		engine:    engine,
		embedder:  embedder,
		generator: generator,
		films:     films,
		opts:      opts,
	}
}

// exchange carries the resolved state shared by both response shapes.
type exchange struct {
	session    *domain.Session
	message    string
	intent     domain.Intent
	confidence float64
	pipeline   domain.Pipeline
}

// prepare validates the request and runs the synchronous phase: session
// resolution and intent classification. Both shapes fail fast here so the
// caller sees validation and auth-adjacent errors before any body is written.
func (s *Service) prepare(ctx context.Context, sessionID, userID, message string) (*exchange, error) {
	if message == "" {
		return nil, domain.E(domain.KindInvalidArgument, "message must not be empty")
	}
	sess, err := s.sessions.Resolve(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	it, confidence := s.router.Classify(ctx, message)
	return &exchange{
		session:    sess,
		message:    message,
		intent:     it,
		confidence: confidence,
		pipeline:   intent.PipelineFor(it),
	}, nil
}

// Handle runs one exchange and blocks until the full response is ready.
func (s *Service) Handle(ctx context.Context, sessionID, userID, message string) (*domain.ChatResult, error) {
	ex, err := s.prepare(ctx, sessionID, userID, message)
	if err != nil {
		return nil, err
	}

	text, err := s.respond(ctx, ex, nil)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.AppendExchange(ctx, ex.session.SessionID, ex.message, text, ex.intent, ex.confidence); err != nil {
		return nil, err
	}
	return &domain.ChatResult{
		Text:       text,
		Intent:     ex.intent,
		Confidence: ex.confidence,
		SessionID:  ex.session.SessionID,
	}, nil
}

// HandleStream runs one exchange and emits events on the returned channel:
// zero or more chunks, then exactly one terminal event. Validation and
// session errors are returned synchronously so the transport can still send a
// proper status code. Cancellation closes the channel without a terminal
// event; the exchange is not persisted.
func (s *Service) HandleStream(ctx context.Context, sessionID, userID, message string) (<-chan domain.StreamEvent, error) {
	ex, err := s.prepare(ctx, sessionID, userID, message)
	if err != nil {
		return nil, err
	}

	events := make(chan domain.StreamEvent)
	go func() {
		defer close(events)

		full, err := s.respond(ctx, ex, func(fragment string) error {
			return send(ctx, events, domain.Chunk(fragment))
		})
		if err != nil {
			if canceled(ctx, err) {
				return
			}
			msg := err.Error()
			var derr *domain.Error
			if errors.As(err, &derr) {
				msg = derr.Message
			}
			_ = send(ctx, events, domain.ErrorEvent(msg))
			return
		}

		if err := s.sessions.AppendExchange(ctx, ex.session.SessionID, ex.message, full, ex.intent, ex.confidence); err != nil {
			log.Printf("ERROR: failed to persist exchange for session %s: %v", ex.session.SessionID, err)
			_ = send(ctx, events, domain.ErrorEvent("failed to persist exchange"))
			return
		}
		_ = send(ctx, events, domain.Done(ex.intent, ex.confidence, ex.session.SessionID))
	}()
	return events, nil
}

// respond produces the response text for the routed pipeline. When emit is
// non-nil, incremental pipelines call it per fragment and non-incremental
// ones call it once with the whole text; the accumulated text is returned
// either way.
func (s *Service) respond(ctx context.Context, ex *exchange, emit llm.StreamFunc) (string, error) {
	switch ex.pipeline {
	case domain.PipelineTemplate, domain.PipelineReject:
		return s.deliverWhole(ctx, intent.TemplateResponse(ex.intent), emit)

	case domain.PipelineLookup:
		text, err := s.filmDetails(ctx, ex.message)
		if err != nil {
			return "", domain.E(domain.KindUpstreamFailure, "film lookup failed")
		}
		return s.deliverWhole(ctx, text, emit)

	case domain.PipelineRetrieval:
		docs := s.retrieveContext(ctx, ex.message)
		return s.generate(ctx, ex, docs, emit)

	default:
		return s.generate(ctx, ex, nil, emit)
	}
}

func (s *Service) deliverWhole(ctx context.Context, text string, emit llm.StreamFunc) (string, error) {
	if emit != nil {
		if err := emit(text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// retrieveContext embeds the message and searches the corpus. Retrieval is
// best effort: any failure or timeout degrades to generation without context.
func (s *Service) retrieveContext(ctx context.Context, message string) []domain.RetrievedDocument {
	rctx, cancel := context.WithTimeout(ctx, s.opts.RetrievalTimeout)
	defer cancel()

	vector, err := s.embedder.Embed(rctx, message)
	if err != nil {
		log.Printf("WARN: embedding failed, continuing without context: %v", err)
		return nil
	}
	docs, err := s.engine.Search(rctx, vector, s.opts.MatchCount, s.opts.SimilarityThreshold, "")
	if err != nil {
		log.Printf("WARN: retrieval failed, continuing without context: %v", err)
		return nil
	}
	return docs
}

// generate calls the model. Unlike retrieval, a generation failure is fatal
// to the exchange.
func (s *Service) generate(ctx context.Context, ex *exchange, docs []domain.RetrievedDocument, emit llm.StreamFunc) (string, error) {
	history, err := s.sessions.History(ctx, ex.session.SessionID)
	if err != nil {
		return "", err
	}
	messages := buildMessages(ex.intent, ex.message, docs, history)

	gctx, cancel := context.WithTimeout(ctx, s.opts.GenerationTimeout)
	defer cancel()

	if emit == nil {
		text, err := s.generator.Generate(gctx, messages)
		if err != nil {
			return "", mapGenerationError(gctx, err)
		}
		return text, nil
	}

	var full []byte
	err = s.generator.GenerateStream(gctx, messages, func(fragment string) error {
		full = append(full, fragment...)
		return emit(fragment)
	})
	if err != nil {
		if canceled(ctx, err) {
			return "", err
		}
		return "", mapGenerationError(gctx, err)
	}
	return string(full), nil
}

func mapGenerationError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return domain.E(domain.KindUpstreamTimeout, "generation timed out")
	}
	return domain.E(domain.KindUpstreamFailure, "generation failed")
}

// canceled reports whether the error stems from the caller going away rather
// than an upstream fault.
func canceled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled
}

// send delivers an event unless the consumer's context is done.
func send(ctx context.Context, events chan<- domain.StreamEvent, ev domain.StreamEvent) error {
	select {
	case events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
