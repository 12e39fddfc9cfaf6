package food

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"pcos-backend/internal/extract"
	"pcos-backend/internal/llm"
	"pcos-backend/internal/pipeline"
	"pcos-backend/internal/shared/metrics"
	"pcos-backend/internal/shared/telemetry"
)

const analysisKind = "food"

// Classifier is the outbound contract to the local classification server.
// The payload already matches the analysis schema, so it arrives raw.
type Classifier interface {
	FoodAnalyze(ctx context.Context, imageBase64 string) (json.RawMessage, error)
}

// Service sequences classifier (or vision fallback) -> validator for one
// meal image.
type Service struct {
	Classifier Classifier
	Vision     llm.Generator
}

// Analyze runs the meal pipeline and returns the validated assessment.
func (s *Service) Analyze(ctx context.Context, imageBase64 string) (AnalysisResult, error) {
	start := time.Now()
	analysis, err := s.analyze(ctx, stripDataURI(imageBase64))
	metrics.ObserveAnalysis(analysisKind, start, err)
	if err != nil {
		return AnalysisResult{}, pipeline.WithAnalysis(err, analysisKind)
	}
	return analysis, nil
}

func (s *Service) analyze(ctx context.Context, imageBase64 string) (AnalysisResult, error) {
	if s.Classifier != nil {
		raw, err := s.Classifier.FoodAnalyze(ctx, imageBase64)
		if err == nil {
			return normalize(raw)
		}
		if s.Vision == nil || !pipeline.IsKind(err, pipeline.KindProvider) {
			return AnalysisResult{}, err
		}
		metrics.ProviderErrorTotal.WithLabelValues("clip").Inc()
		telemetry.Error("food.classifier_fallback", map[string]any{"error": err.Error()})
	}
	if s.Vision == nil {
		return AnalysisResult{}, pipeline.NewConfigurationError("food", "no analysis provider configured")
	}
	return s.analyzeWithVision(ctx, imageBase64)
}

const visionUserPrompt = "Analyze this meal for a user with PCOS. Focus on insulin resistance and inflammation. Provide strict but encouraging feedback."

func (s *Service) analyzeWithVision(ctx context.Context, imageBase64 string) (AnalysisResult, error) {
	raw, err := s.Vision.GenerateVision(ctx, llm.FoodAnalysisPrompt(), visionUserPrompt, imageBase64, llm.VisionOptions())
	if err != nil {
		return AnalysisResult{}, err
	}

	var parsed payloadSchema
	if err := extract.JSON("gemini", raw, &parsed); err != nil {
		return AnalysisResult{}, err
	}
	return fromSchema(parsed)
}

// stripDataURI drops a leading data-URI prefix ("data:image/...;base64,")
// so providers always receive bare base64.
func stripDataURI(imageBase64 string) string {
	if !strings.HasPrefix(imageBase64, "data:") {
		return imageBase64
	}
	if _, rest, ok := strings.Cut(imageBase64, ","); ok {
		return rest
	}
	return imageBase64
}
