package facial

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"pcos-backend/internal/classifier"
	"pcos-backend/internal/extract"
	"pcos-backend/internal/llm"
	"pcos-backend/internal/pipeline"
	"pcos-backend/internal/shared/metrics"
	"pcos-backend/internal/shared/telemetry"
)

const analysisKind = "facial"

// Classifier is the outbound contract to the local classification server.
type Classifier interface {
	FacialFeatures(ctx context.Context, imageBase64 string) (*classifier.FacialFeatures, error)
}

// Service sequences classifier (or vision fallback) -> normalizer for one
// facial image. All state is request-scoped.
type Service struct {
	Classifier Classifier
	Vision     llm.Generator
}

// Analyze runs the full facial pipeline and returns the assessment plus the
// derived composite score.
func (s *Service) Analyze(ctx context.Context, imageBase64 string) (AnalysisResult, PCOSFacialScore, error) {
	start := time.Now()
	analysis, err := s.analyze(ctx, imageBase64)
	metrics.ObserveAnalysis(analysisKind, start, err)
	if err != nil {
		return AnalysisResult{}, PCOSFacialScore{}, pipeline.WithAnalysis(err, analysisKind)
	}
	return analysis, CalculatePCOSFacialScore(analysis), nil
}

func (s *Service) analyze(ctx context.Context, imageBase64 string) (AnalysisResult, error) {
	if s.Classifier != nil {
		features, err := s.Classifier.FacialFeatures(ctx, imageBase64)
		if err == nil {
			return fromClassifier(features), nil
		}
		if s.Vision == nil || !pipeline.IsKind(err, pipeline.KindProvider) {
			return AnalysisResult{}, err
		}
		metrics.ProviderErrorTotal.WithLabelValues("clip").Inc()
		telemetry.Error("facial.classifier_fallback", map[string]any{"error": err.Error()})
	}
	if s.Vision == nil {
		return AnalysisResult{}, pipeline.NewConfigurationError("facial", "no analysis provider configured")
	}
	return s.analyzeWithVision(ctx, imageBase64)
}

// fromClassifier maps the coarse severity/confidence signals onto the full
// assessment. Region scores follow the classifier's severity thresholds and
// TotalScore is their sum; lesion counts stay zero because a severity-only
// classifier cannot count.
func fromClassifier(f *classifier.FacialFeatures) AnalysisResult {
	sev := f.Hirsutism.SeverityScore
	region := func(threshold int) RegionScore {
		score := 0
		if sev >= threshold {
			score = sev
		}
		return RegionScore{Score: score, Description: "CLIP detection", Confidence: f.Hirsutism.Confidence}
	}
	upperLip := region(2)
	chin := region(3)
	sideburns := region(4)

	acneSev := f.Acne.SeverityScore

	return AnalysisResult{
		Hirsutism: HirsutismScore{
			UpperLip:          upperLip,
			Chin:              chin,
			Sideburns:         sideburns,
			TotalScore:        upperLip.Score + chin.Score + sideburns.Score,
			Classification:    BucketSeverity(sev),
			OverallConfidence: f.Hirsutism.Confidence,
		},
		Acne: AcneAssessment{
			Severity:     BucketSeverity(acneSev),
			Distribution: "Generalized (AI estimate)",
			GAGSScore:    acneSev * 5,
			Confidence:   f.Acne.Confidence,
		},
		HyperandrogenismIndicator: HyperandrogenismIndicator{
			Probability: float64(sev) / 4.0 * 100.0,
			Confidence:  (f.Hirsutism.Confidence + f.Acne.Confidence) / 2.0,
			Reasoning:   fmt.Sprintf("Rapid AI analysis detected %s and %s.", f.Hirsutism.TopMatch, f.Acne.TopMatch),
			KeyFindings: lo.Compact([]string{f.Hirsutism.TopMatch, f.Acne.TopMatch}),
		},
		ImageQuality: ImageQuality{
			Adequate:        true,
			Issues:          []string{},
			Recommendations: "Ensure good lighting for better accuracy.",
		},
	}
}

// visionSchema decodes the generative model's JSON. Fields central to the
// composite are pointers so a missing value is distinguishable from zero.
type visionSchema struct {
	Hirsutism *struct {
		UpperLip          RegionScore `json:"upperLip"`
		Chin              RegionScore `json:"chin"`
		Sideburns         RegionScore `json:"sideburns"`
		Classification    Severity    `json:"classification"`
		OverallConfidence float64     `json:"overallConfidence"`
	} `json:"hirsutism"`
	Acne *struct {
		Comedones    int      `json:"comedones"`
		Papules      int      `json:"papules"`
		Pustules     int      `json:"pustules"`
		Nodules      int      `json:"nodules"`
		TotalLesions *int     `json:"totalLesions"`
		Severity     Severity `json:"severity"`
		Distribution string   `json:"distribution"`
		GAGSScore    int      `json:"gagsScore"`
		Confidence   float64  `json:"confidence"`
	} `json:"acne"`
	Hyperandrogenism *struct {
		Probability *float64 `json:"probability"`
		Confidence  float64  `json:"confidence"`
		Reasoning   string   `json:"reasoning"`
		KeyFindings []string `json:"keyFindings"`
	} `json:"hyperandrogenismIndicator"`
	ImageQuality ImageQuality `json:"imageQuality"`
}

const visionUserPrompt = "Analyze this facial image for PCOS-related hyperandrogenism indicators. Provide a detailed, objective assessment in JSON format."

func (s *Service) analyzeWithVision(ctx context.Context, imageBase64 string) (AnalysisResult, error) {
	raw, err := s.Vision.GenerateVision(ctx, llm.FacialAnalysisPrompt(), visionUserPrompt, imageBase64, llm.VisionOptions())
	if err != nil {
		return AnalysisResult{}, err
	}

	var parsed visionSchema
	if err := extract.JSON("gemini", raw, &parsed); err != nil {
		return AnalysisResult{}, err
	}
	return normalizeVision(parsed)
}

// normalizeVision validates presence of the score-bearing fields and folds
// the decoded payload into the assessment. TotalScore is recomputed as the
// region sum so both sourcing paths share one convention.
func normalizeVision(parsed visionSchema) (AnalysisResult, error) {
	switch {
	case parsed.Hirsutism == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("hirsutism")
	case parsed.Acne == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("acne")
	case parsed.Acne.Severity == "":
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("acne.severity")
	case !parsed.Acne.Severity.Valid():
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("acne.severity")
	case parsed.Hyperandrogenism == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("hyperandrogenismIndicator")
	case parsed.Hyperandrogenism.Probability == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("hyperandrogenismIndicator.probability")
	}

	h := parsed.Hirsutism
	total := h.UpperLip.Score + h.Chin.Score + h.Sideburns.Score
	classification := h.Classification
	if !classification.Valid() {
		classification = BucketSeverity(maxRegion(h.UpperLip.Score, h.Chin.Score, h.Sideburns.Score))
	}

	a := parsed.Acne
	lesions := a.Comedones + a.Papules + a.Pustules + a.Nodules
	if a.TotalLesions != nil {
		lesions = *a.TotalLesions
	}

	return AnalysisResult{
		Hirsutism: HirsutismScore{
			UpperLip:          h.UpperLip,
			Chin:              h.Chin,
			Sideburns:         h.Sideburns,
			TotalScore:        total,
			Classification:    classification,
			OverallConfidence: h.OverallConfidence,
		},
		Acne: AcneAssessment{
			Comedones:    a.Comedones,
			Papules:      a.Papules,
			Pustules:     a.Pustules,
			Nodules:      a.Nodules,
			TotalLesions: lesions,
			Severity:     a.Severity,
			Distribution: a.Distribution,
			GAGSScore:    a.GAGSScore,
			Confidence:   a.Confidence,
		},
		HyperandrogenismIndicator: HyperandrogenismIndicator{
			Probability: *parsed.Hyperandrogenism.Probability,
			Confidence:  parsed.Hyperandrogenism.Confidence,
			Reasoning:   parsed.Hyperandrogenism.Reasoning,
			KeyFindings: parsed.Hyperandrogenism.KeyFindings,
		},
		ImageQuality: parsed.ImageQuality,
	}, nil
}

func maxRegion(scores ...int) int {
	max := 0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	return max
}
