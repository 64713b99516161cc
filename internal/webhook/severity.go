package webhook

import "github.com/sdko-org/bgp-console/internal/models"

var severityOrdinals = map[string]int{
	models.SeverityCritical: 3,
	models.SeverityWarning:  2,
	models.SeverityInfo:     1,
}

// SeverityPasses reports whether an alert at the given severity clears the
// configured minimum. Unknown severities rank below info. The gate is applied
// once, at alert-creation time; later threshold changes do not affect
// notifications already dispatched.
func SeverityPasses(severity, minSeverity string) bool {
	return severityOrdinals[severity] >= severityOrdinals[minSeverity]
}

// ValidSeverity reports whether the value is one of the known severities.
func ValidSeverity(severity string) bool {
	_, ok := severityOrdinals[severity]
	return ok
}
