package detect

// AggregateConfidence computes the document rollup score: the mean of the
// confidences of the fields that were actually detected. Absent fields are
// excluded from the mean, not counted as zero, so the result is 0 exactly
// when nothing was detected.
func AggregateConfidence(fieldConfidences map[string]float64) float64 {
	if len(fieldConfidences) == 0 {
		return 0
	}
	var sum float64
	for _, c := range fieldConfidences {
		sum += c
	}
	return sum / float64(len(fieldConfidences))
}
