package food

import (
	"encoding/json"

	"pcos-backend/internal/pipeline"
)

// payloadSchema decodes a raw analysis payload. Sections and the fields
// central to the verdict are pointers so absence is distinguishable from a
// zero value; gram estimates stay plain and default to zero.
type payloadSchema struct {
	Identification *Identification `json:"identification"`
	MetabolicStats *MetabolicStats `json:"metabolicStats"`
	Compatibility  *struct {
		Score     *int     `json:"score"`
		Status    Status   `json:"status"`
		Issues    []string `json:"issues"`
		Positives []string `json:"positives"`
	} `json:"pcosCompatibility"`
	Feedback *Feedback `json:"feedback"`
}

// normalize validates section and field presence and folds the decoded
// payload into an AnalysisResult. The compatibility score and status are
// passed through untouched.
func normalize(raw json.RawMessage) (AnalysisResult, error) {
	var parsed payloadSchema
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return AnalysisResult{}, pipeline.NewMalformedResponseError("clip", string(raw), err)
	}
	return fromSchema(parsed)
}

func fromSchema(parsed payloadSchema) (AnalysisResult, error) {
	switch {
	case parsed.Identification == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("identification")
	case parsed.Identification.MainDish == "":
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("identification.mainDish")
	case parsed.MetabolicStats == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("metabolicStats")
	case parsed.Compatibility == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("pcosCompatibility")
	case parsed.Compatibility.Score == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("pcosCompatibility.score")
	case !parsed.Compatibility.Status.Valid():
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("pcosCompatibility.status")
	case parsed.Feedback == nil:
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("feedback")
	}

	stats := *parsed.MetabolicStats
	if !stats.GlycemicIndex.Valid() {
		return AnalysisResult{}, pipeline.NewIncompleteAnalysisError("metabolicStats.glycemicIndex")
	}
	if !stats.GlycemicLoad.Valid() {
		stats.GlycemicLoad = stats.GlycemicIndex
	}
	if !stats.InsulinSpikeRisk.Valid() {
		stats.InsulinSpikeRisk = stats.GlycemicIndex
	}

	ident := *parsed.Identification
	if ident.Components == nil {
		ident.Components = []string{}
	}

	compat := PCOSCompatibility{
		Score:     *parsed.Compatibility.Score,
		Status:    parsed.Compatibility.Status,
		Issues:    parsed.Compatibility.Issues,
		Positives: parsed.Compatibility.Positives,
	}
	if compat.Issues == nil {
		compat.Issues = []string{}
	}
	if compat.Positives == nil {
		compat.Positives = []string{}
	}

	return AnalysisResult{
		Identification:    ident,
		MetabolicStats:    stats,
		PCOSCompatibility: compat,
		Feedback:          *parsed.Feedback,
	}, nil
}
