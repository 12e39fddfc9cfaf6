package facial

// Severity is the coarse tier shared by hirsutism and acne grading.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// BucketSeverity maps a raw classifier severity score onto a tier. Both the
// hirsutism and acne call sites use this one table so they cannot drift.
func BucketSeverity(score int) Severity {
	switch {
	case score <= 0:
		return SeverityNone
	case score == 1:
		return SeverityMild
	case score == 2:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// Valid reports whether s is one of the known tiers.
func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}
