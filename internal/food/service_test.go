package food

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcos-backend/internal/llm"
	"pcos-backend/internal/pipeline"
)

const classifierPayload = `{
	"identification": {"mainDish": "Paneer Bhurji", "components": ["paneer", "onion", "tomato"], "approxCalories": 320},
	"metabolicStats": {"glycemicIndex": "Low", "glycemicLoad": "Low", "insulinSpikeRisk": "Low", "totalProteing": 22, "totalCarbsg": 9, "totalFiberg": 3, "netCarbsg": 6},
	"pcosCompatibility": {"score": 82, "status": "Safe", "issues": [], "positives": ["High protein", "Low net carbs"]},
	"feedback": {"summary": "A protein-forward meal with minimal glucose impact.", "improvementTip": "Add leafy greens for extra fiber."}
}`

type stubClassifier struct {
	payload string
	err     error
	calls   int
}

func (s *stubClassifier) FoodAnalyze(ctx context.Context, imageBase64 string) (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.payload), nil
}

type stubVision struct {
	reply string
	err   error
	calls int
}

func (s *stubVision) Generate(ctx context.Context, systemPrompt, userMessage string, opts llm.Options) (string, error) {
	return s.reply, s.err
}

func (s *stubVision) GenerateVision(ctx context.Context, systemPrompt, userMessage, imageBase64 string, opts llm.Options) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubVision) GenerateStream(ctx context.Context, systemPrompt, userMessage string) (<-chan llm.Chunk, error) {
	ch := make(chan llm.Chunk)
	close(ch)
	return ch, s.err
}

func TestAnalyzePassesThroughClassifierVerdict(t *testing.T) {
	svc := &Service{Classifier: &stubClassifier{payload: classifierPayload}}

	got, err := svc.Analyze(context.Background(), "aW1hZ2U=")
	require.NoError(t, err)

	assert.Equal(t, "Paneer Bhurji", got.Identification.MainDish)
	assert.Equal(t, 82, got.PCOSCompatibility.Score)
	assert.Equal(t, StatusSafe, got.PCOSCompatibility.Status)
	assert.Equal(t, TierLow, got.MetabolicStats.GlycemicLoad)
	assert.InDelta(t, 6, got.MetabolicStats.NetCarbsG, 1e-9)
	assert.Equal(t, "Add leafy greens for extra fiber.", got.Feedback.ImprovementTip)
}

func TestAnalyzeGramFieldsDefaultToZero(t *testing.T) {
	payload := `{
		"identification": {"mainDish": "Fruit Bowl", "components": ["mango"], "approxCalories": 150},
		"metabolicStats": {"glycemicIndex": "High"},
		"pcosCompatibility": {"score": 35, "status": "Caution", "issues": ["High sugar"]},
		"feedback": {"summary": "Sugary.", "improvementTip": "Pair with protein."}
	}`
	svc := &Service{Classifier: &stubClassifier{payload: payload}}

	got, err := svc.Analyze(context.Background(), "aW1hZ2U=")
	require.NoError(t, err)

	assert.Zero(t, got.MetabolicStats.TotalProteinG)
	assert.Zero(t, got.MetabolicStats.NetCarbsG)
	// Missing tiers fall back to the glycemic index tier.
	assert.Equal(t, TierHigh, got.MetabolicStats.GlycemicLoad)
	assert.Equal(t, TierHigh, got.MetabolicStats.InsulinSpikeRisk)
	assert.Equal(t, []string{}, got.PCOSCompatibility.Positives)
}

func TestAnalyzeMissingVerdictFields(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantField string
	}{
		{
			name:      "no compatibility section",
			payload:   `{"identification": {"mainDish": "Dal"}, "metabolicStats": {"glycemicIndex": "Low"}, "feedback": {"summary": "ok"}}`,
			wantField: "pcosCompatibility",
		},
		{
			name:      "no score",
			payload:   `{"identification": {"mainDish": "Dal"}, "metabolicStats": {"glycemicIndex": "Low"}, "pcosCompatibility": {"status": "Safe"}, "feedback": {"summary": "ok"}}`,
			wantField: "pcosCompatibility.score",
		},
		{
			name:      "bad status",
			payload:   `{"identification": {"mainDish": "Dal"}, "metabolicStats": {"glycemicIndex": "Low"}, "pcosCompatibility": {"score": 70, "status": "Fine"}, "feedback": {"summary": "ok"}}`,
			wantField: "pcosCompatibility.status",
		},
		{
			name:      "no dish name",
			payload:   `{"identification": {"components": []}, "metabolicStats": {"glycemicIndex": "Low"}, "pcosCompatibility": {"score": 70, "status": "Safe"}, "feedback": {"summary": "ok"}}`,
			wantField: "identification.mainDish",
		},
		{
			name:      "bad glycemic index",
			payload:   `{"identification": {"mainDish": "Dal"}, "metabolicStats": {"glycemicIndex": "Moderate"}, "pcosCompatibility": {"score": 70, "status": "Safe"}, "feedback": {"summary": "ok"}}`,
			wantField: "metabolicStats.glycemicIndex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{Classifier: &stubClassifier{payload: tt.payload}}
			_, err := svc.Analyze(context.Background(), "aW1hZ2U=")
			require.Error(t, err)
			assert.True(t, pipeline.IsKind(err, pipeline.KindIncompleteAnalysis))
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestAnalyzeStripsDataURI(t *testing.T) {
	var seen string
	cls := &captureClassifier{payload: classifierPayload, onCall: func(img string) { seen = img }}
	svc := &Service{Classifier: cls}

	_, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,aW1hZ2U=")
	require.NoError(t, err)
	assert.Equal(t, "aW1hZ2U=", seen)
}

type captureClassifier struct {
	payload string
	onCall  func(string)
}

func (c *captureClassifier) FoodAnalyze(ctx context.Context, imageBase64 string) (json.RawMessage, error) {
	c.onCall(imageBase64)
	return json.RawMessage(c.payload), nil
}

func TestAnalyzeFallsBackToVision(t *testing.T) {
	cls := &stubClassifier{err: pipeline.NewProviderError("clip", "connection refused", nil)}
	vision := &stubVision{reply: "```json\n" + classifierPayload + "\n```"}
	svc := &Service{Classifier: cls, Vision: vision}

	got, err := svc.Analyze(context.Background(), "aW1hZ2U=")
	require.NoError(t, err)
	assert.Equal(t, 1, cls.calls)
	assert.Equal(t, 1, vision.calls)
	assert.Equal(t, "Paneer Bhurji", got.Identification.MainDish)
}

func TestAnalyzeVisionMalformedReply(t *testing.T) {
	vision := &stubVision{reply: "This looks like a tasty curry!"}
	svc := &Service{Vision: vision}

	_, err := svc.Analyze(context.Background(), "aW1hZ2U=")
	require.Error(t, err)
	assert.True(t, pipeline.IsKind(err, pipeline.KindMalformedResponse))
}

func TestAnalyzeNoProviderConfigured(t *testing.T) {
	svc := &Service{}
	_, err := svc.Analyze(context.Background(), "aW1hZ2U=")
	require.Error(t, err)
	assert.True(t, pipeline.IsKind(err, pipeline.KindConfiguration))
}
