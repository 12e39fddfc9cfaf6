// Package chat implements the conversational companion: free-text turns
// against the generative provider, with an optional caller-supplied persona
// and a streaming variant for incremental delivery.
package chat

import (
	"context"
	"time"

	"pcos-backend/internal/llm"
	"pcos-backend/internal/pipeline"
	"pcos-backend/internal/shared/metrics"
)

const analysisKind = "chat"

// Service answers conversational turns. No normalization stage applies; the
// provider's text comes back unmodified.
type Service struct {
	LLM llm.Generator
}

// Respond generates one reply. An empty systemPrompt selects the default
// companion persona.
func (s *Service) Respond(ctx context.Context, message, systemPrompt string) (string, error) {
	if s.LLM == nil {
		return "", pipeline.WithAnalysis(
			pipeline.NewConfigurationError("gemini", "Gemini API not configured"), analysisKind)
	}
	if systemPrompt == "" {
		systemPrompt = llm.ChatSystemPrompt()
	}

	start := time.Now()
	reply, err := s.LLM.Generate(ctx, systemPrompt, message, llm.ChatOptions())
	metrics.ObserveAnalysis(analysisKind, start, err)
	if err != nil {
		return "", pipeline.WithAnalysis(err, analysisKind)
	}
	return reply, nil
}

// Stream generates a reply as a sequence of fragments. Fragments are
// forwarded as they arrive; cancellation of ctx aborts the provider-side
// stream.
func (s *Service) Stream(ctx context.Context, message, systemPrompt string) (<-chan llm.Chunk, error) {
	if s.LLM == nil {
		return nil, pipeline.WithAnalysis(
			pipeline.NewConfigurationError("gemini", "Gemini API not configured"), analysisKind)
	}
	if systemPrompt == "" {
		systemPrompt = llm.ChatSystemPrompt()
	}

	chunks, err := s.LLM.GenerateStream(ctx, systemPrompt, message)
	if err != nil {
		return nil, pipeline.WithAnalysis(err, analysisKind)
	}
	return chunks, nil
}
