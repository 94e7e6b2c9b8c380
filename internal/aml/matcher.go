package aml

import "github.com/xrash/smetrics"

// similarity scores a subject name against a list entry. Both the
// order-preserving and token-sorted forms are compared and the higher
// score wins, so "Diallo Mamadou" matches "Mamadou Diallo" at 1.0.
func (c Config) similarity(subjectNorm, subjectSorted string, entry screenEntry) float64 {
	direct := smetrics.JaroWinkler(subjectNorm, entry.normalized, c.BoostThreshold, c.PrefixSize)
	sorted := smetrics.JaroWinkler(subjectSorted, entry.tokenSort, c.BoostThreshold, c.PrefixSize)
	if sorted > direct {
		return sorted
	}
	return direct
}
