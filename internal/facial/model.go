package facial

// RegionScore grades one androgen-sensitive facial region on the modified
// Ferriman-Gallwey 0-4 scale.
type RegionScore struct {
	Score       int     `json:"score"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// HirsutismScore is the per-region hirsutism assessment. TotalScore is
// always the sum of the three region scores and ranges over [0,12];
// Classification is bucketed from the raw classifier severity.
type HirsutismScore struct {
	UpperLip          RegionScore `json:"upperLip"`
	Chin              RegionScore `json:"chin"`
	Sideburns         RegionScore `json:"sideburns"`
	TotalScore        int         `json:"totalScore"`
	Classification    Severity    `json:"classification"`
	OverallConfidence float64     `json:"overallConfidence"`
}

// AcneAssessment counts lesions by type and grades overall severity.
// Lesion counts may legitimately be zero when the upstream classifier is
// severity-only and structurally cannot count.
type AcneAssessment struct {
	Comedones    int      `json:"comedones"`
	Papules      int      `json:"papules"`
	Pustules     int      `json:"pustules"`
	Nodules      int      `json:"nodules"`
	TotalLesions int      `json:"totalLesions"`
	Severity     Severity `json:"severity"`
	Distribution string   `json:"distribution"`
	GAGSScore    int      `json:"gagsScore"`
	Confidence   float64  `json:"confidence"`
}

// HyperandrogenismIndicator is the inferred androgen-activity signal.
type HyperandrogenismIndicator struct {
	Probability float64  `json:"probability"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	KeyFindings []string `json:"keyFindings"`
}

// ImageQuality flags capture problems that lower analysis confidence.
type ImageQuality struct {
	Adequate        bool     `json:"adequate"`
	Issues          []string `json:"issues"`
	Recommendations string   `json:"recommendations"`
}

// AnalysisResult is the full facial-marker assessment for one image.
type AnalysisResult struct {
	Hirsutism                 HirsutismScore            `json:"hirsutism"`
	Acne                      AcneAssessment            `json:"acne"`
	HyperandrogenismIndicator HyperandrogenismIndicator `json:"hyperandrogenismIndicator"`
	ImageQuality              ImageQuality              `json:"imageQuality"`
}

// RiskLevel is the coarse tier derived from the composite score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// PCOSFacialScore is the deterministic composite over one AnalysisResult.
type PCOSFacialScore struct {
	Score        int       `json:"score"`
	Level        RiskLevel `json:"level"`
	Contributors []string  `json:"contributors"`
}
