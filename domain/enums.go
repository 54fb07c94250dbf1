package domain

// Intent is a classified user intent label.
type Intent string

const (
	IntentRecommendation Intent = "horror_recommendation"
	IntentTrivia         Intent = "horror_trivia"
	IntentDiscussion     Intent = "horror_discussion"
	IntentFilmDetails    Intent = "film_details"
	IntentGreeting       Intent = "greeting"
	IntentFarewell       Intent = "farewell"
	IntentOutOfScope     Intent = "out_of_scope"
)

// Pipeline is the closed set of response pipeline shapes. Adding an intent
// requires extending the exhaustive switch in the router.
type Pipeline string

const (
	// PipelineRetrieval runs vector retrieval and feeds the results to the
	// generation capability.
	PipelineRetrieval Pipeline = "retrieval_generation"
	// PipelineGeneration invokes the generation capability without retrieval.
	PipelineGeneration Pipeline = "generation_only"
	// PipelineTemplate returns a fixed canned response.
	PipelineTemplate Pipeline = "templated"
	// PipelineReject short-circuits with a fixed refusal.
	PipelineReject Pipeline = "rejected"
	// PipelineLookup answers from the film catalog.
	PipelineLookup Pipeline = "lookup"
)

// Incremental reports whether the pipeline produces output fragment by
// fragment. Non-incremental pipelines are streamed as a single chunk.
func (p Pipeline) Incremental() bool {
	return p == PipelineRetrieval || p == PipelineGeneration
}
