package food

// Tier is the coarse Low/Medium/High bucket used for the glycemic and
// insulin metrics.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	}
	return false
}

// Status is the PCOS-compatibility verdict for a meal.
type Status string

const (
	StatusSafe    Status = "Safe"
	StatusCaution Status = "Caution"
	StatusAvoid   Status = "Avoid"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSafe, StatusCaution, StatusAvoid:
		return true
	}
	return false
}

// Identification names the meal and its visible components.
type Identification struct {
	MainDish       string   `json:"mainDish"`
	Components     []string `json:"components"`
	ApproxCalories int      `json:"approxCalories"`
}

// MetabolicStats carries the glycemic tiers and macro estimates. Gram
// fields the classifier cannot estimate arrive as zero.
type MetabolicStats struct {
	GlycemicIndex    Tier    `json:"glycemicIndex"`
	GlycemicLoad     Tier    `json:"glycemicLoad"`
	InsulinSpikeRisk Tier    `json:"insulinSpikeRisk"`
	TotalProteinG    float64 `json:"totalProteing"`
	TotalCarbsG      float64 `json:"totalCarbsg"`
	TotalFiberG      float64 `json:"totalFiberg"`
	NetCarbsG        float64 `json:"netCarbsg"`
}

// PCOSCompatibility is the upstream-computed verdict; the score and status
// are passed through, never recomputed here.
type PCOSCompatibility struct {
	Score     int      `json:"score"`
	Status    Status   `json:"status"`
	Issues    []string `json:"issues"`
	Positives []string `json:"positives"`
}

// Feedback is the user-facing summary and the single actionable tip.
type Feedback struct {
	Summary        string `json:"summary"`
	ImprovementTip string `json:"improvementTip"`
}

// AnalysisResult is the full meal assessment returned to the caller.
type AnalysisResult struct {
	Identification    Identification    `json:"identification"`
	MetabolicStats    MetabolicStats    `json:"metabolicStats"`
	PCOSCompatibility PCOSCompatibility `json:"pcosCompatibility"`
	Feedback          Feedback          `json:"feedback"`
}
