package intent

import (
	"context"
	"log"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// FallbackIntent is used when the classifier fails or returns an unknown
// label. It routes to the lowest-trust pipeline (generation only).
const FallbackIntent = domain.IntentDiscussion

// Router maps messages to intents using the injected classifier. It holds
// no state and performs no I/O beyond the classifier call.
type Router struct {
	classifier Classifier
}

// NewRouter creates a router.
func NewRouter(classifier Classifier) *Router {
	return &Router{classifier: classifier}
}

// Classify returns the intent and confidence for a message. A classifier
// failure or timeout degrades to the fallback intent with confidence 0; the
// request always gets some response path.
func (r *Router) Classify(ctx context.Context, message string) (domain.Intent, float64) {
	result, err := r.classifier.Classify(ctx, message)
	if err != nil {
		log.Printf("WARN: classifier failed, falling back to %s: %v", FallbackIntent, err)
		return FallbackIntent, 0
	}
	intent, ok := parseIntent(result.Label)
	if !ok {
		log.Printf("WARN: unknown intent label %q, falling back to %s", result.Label, FallbackIntent)
		return FallbackIntent, 0
	}
	return intent, result.Confidence
}

func parseIntent(label string) (domain.Intent, bool) {
	switch domain.Intent(label) {
	case domain.IntentRecommendation, domain.IntentTrivia, domain.IntentDiscussion,
		domain.IntentFilmDetails, domain.IntentGreeting, domain.IntentFarewell,
		domain.IntentOutOfScope:
		return domain.Intent(label), true
	}
	return "", false
}

// PipelineFor maps an intent to its pipeline shape. The switch is
// exhaustive over the intent set; adding an intent without extending it is
// caught by the default branch in tests.
func PipelineFor(intent domain.Intent) domain.Pipeline {
	switch intent {
	case domain.IntentRecommendation, domain.IntentTrivia:
		return domain.PipelineRetrieval
	case domain.IntentDiscussion:
		return domain.PipelineGeneration
	case domain.IntentGreeting, domain.IntentFarewell:
		return domain.PipelineTemplate
	case domain.IntentOutOfScope:
		return domain.PipelineReject
	case domain.IntentFilmDetails:
		return domain.PipelineLookup
	default:
		return domain.PipelineGeneration
	}
}
