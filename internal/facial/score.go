package facial

import (
	"fmt"
	"math"
)

// Composite weighting, summing to 100 points:
// hirsutism 40, acne 30, hyperandrogenism 30.
const (
	hirsutismMaxPoints = 40.0
	hirsutismMaxTotal  = 12.0
	hyperMaxPoints     = 30.0
)

// acnePoints is a step function of the severity tier.
var acnePoints = map[Severity]float64{
	SeverityNone:     0,
	SeverityMild:     10,
	SeverityModerate: 20,
	SeveritySevere:   30,
}

// CalculatePCOSFacialScore folds one analysis into the 0-100 composite and
// its risk tier. The same analysis always yields the same score.
func CalculatePCOSFacialScore(analysis AnalysisResult) PCOSFacialScore {
	hirsutism := analysis.Hirsutism
	acne := analysis.Acne
	hyper := analysis.HyperandrogenismIndicator

	score := 0.0
	contributors := []string{}

	score += (float64(hirsutism.TotalScore) / hirsutismMaxTotal) * hirsutismMaxPoints
	if hirsutism.TotalScore >= 3 {
		contributors = append(contributors, fmt.Sprintf("Hirsutism detected (%s)", hirsutism.Classification))
	}

	score += acnePoints[acne.Severity]
	if acne.Severity != SeverityNone {
		contributors = append(contributors, fmt.Sprintf("%s acne with %d lesions", acne.Severity, acne.TotalLesions))
	}

	// Hyperandrogenism moves the number but adds no contributor string;
	// its findings already surface through the indicator itself.
	score += (hyper.Probability / 100.0) * hyperMaxPoints

	final := int(math.Round(score))
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}

	return PCOSFacialScore{
		Score:        final,
		Level:        riskLevel(final),
		Contributors: contributors,
	}
}

// riskLevel buckets the composite score; bounds are inclusive on the lower
// edge of each tier.
func riskLevel(score int) RiskLevel {
	switch {
	case score < 30:
		return RiskLow
	case score < 60:
		return RiskModerate
	default:
		return RiskHigh
	}
}
