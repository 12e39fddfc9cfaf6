// Package llm abstracts the generative-language provider behind a small
// interface so services never depend on a concrete vendor client.
package llm

import "context"

// Generator is the outbound contract to a text/vision generation provider.
// Each call performs exactly one network request; retries are a caller
// decision and none are made today.
type Generator interface {
	// Generate sends a system prompt plus user message and returns the raw
	// text reply, unparsed.
	Generate(ctx context.Context, systemPrompt, userMessage string, opts Options) (string, error)

	// GenerateVision additionally attaches a base64-encoded JPEG image.
	GenerateVision(ctx context.Context, systemPrompt, userMessage, imageBase64 string, opts Options) (string, error)

	// GenerateStream yields successive text fragments as the provider
	// produces them. The channel closes after a Done or Err chunk; no
	// fragment is buffered beyond immediate forwarding.
	GenerateStream(ctx context.Context, systemPrompt, userMessage string) (<-chan Chunk, error)
}

// Chunk is one fragment of a streamed reply. A provider-side failure after
// partial output arrives as Err without invalidating earlier fragments.
type Chunk struct {
	Content string
	Done    bool
	Err     error
}

// Options tunes a single generation call.
type Options struct {
	Temperature     float64
	MaxOutputTokens int
}

// ChatOptions are the defaults for conversational turns.
func ChatOptions() Options {
	return Options{Temperature: 0.3, MaxOutputTokens: 1024}
}

// VisionOptions are the defaults for image-analysis prompts, which need
// near-deterministic output to keep scores reproducible.
func VisionOptions() Options {
	return Options{Temperature: 0.1, MaxOutputTokens: 2048}
}

// StreamTemperature is used for streaming chat, where a livelier register
// reads better than the analysis settings.
const StreamTemperature = 0.7
