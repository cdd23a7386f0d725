package analysis

import "math"

// LogScale maps a non-negative count onto [0, 100] with diminishing returns,
// reaching 100 at x == cap and staying there above it.
func LogScale(x, cap float64) float64 {
	if !(x > 0) || !(cap > 0) || math.IsInf(cap, 0) {
		return 0
	}
	if math.IsInf(x, 1) {
		return 100
	}
	return clip(100*math.Log1p(x)/math.Log1p(cap), 0, 100)
}

// TimeDecayWeight computes 0.5^(ageDays/halfLife). Negative ages count as fresh.
func TimeDecayWeight(ageDays, halfLife float64) float64 {
	if !(halfLife > 0) || math.IsNaN(ageDays) {
		return 0
	}
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Pow(0.5, ageDays/halfLife)
}

// Entropy returns the Shannon entropy of the shares in distribution, rescaled
// to [0, 100] against a uniform spread over maxCategories. Non-positive
// entries are ignored; fewer than two positive entries score 0.
func Entropy(distribution []float64, maxCategories int) float64 {
	if maxCategories < 2 {
		return 0
	}

	total := 0.0
	positive := 0
	for _, v := range distribution {
		if v > 0 && !math.IsInf(v, 0) {
			total += v
			positive++
		}
	}
	if positive < 2 || !(total > 0) {
		return 0
	}

	h := 0.0
	for _, v := range distribution {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		p := v / total
		h -= p * math.Log2(p)
	}

	return clip(100*h/math.Log2(float64(maxCategories)), 0, 100)
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func inRange(x, lo, hi float64) bool {
	return !math.IsNaN(x) && x >= lo && x <= hi
}
