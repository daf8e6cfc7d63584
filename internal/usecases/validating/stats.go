package validating

import (
	"math"
	"sort"
)

func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(sq / float64(len(values)))
}

// percentile usa nearest-rank; não altera a entrada
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

func ruleScore(checked, errors, warnings int) float64 {
	if checked == 0 {
		return 1
	}
	score := 1 - (float64(errors)+0.5*float64(warnings))/float64(checked)
	if score < 0 {
		return 0
	}
	return score
}
