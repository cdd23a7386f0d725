package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogScale(t *testing.T) {
	tests := []struct {
		name     string
		x, cap   float64
		expected float64
	}{
		{name: "zero input", x: 0, cap: 100, expected: 0},
		{name: "negative input", x: -5, cap: 100, expected: 0},
		{name: "zero cap", x: 10, cap: 0, expected: 0},
		{name: "at cap", x: 100, cap: 100, expected: 100},
		{name: "above cap saturates", x: 1e9, cap: 100, expected: 100},
		{name: "infinite input saturates", x: math.Inf(1), cap: 100, expected: 100},
		{name: "NaN input", x: math.NaN(), cap: 100, expected: 0},
		{name: "midpoint", x: 9, cap: 99, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LogScale(tt.x, tt.cap), 1e-9)
		})
	}
}

func TestLogScaleDiminishingReturns(t *testing.T) {
	first := LogScale(10, 1000) - LogScale(0, 1000)
	later := LogScale(510, 1000) - LogScale(500, 1000)
	assert.Greater(t, first, later)
}

func TestTimeDecayWeight(t *testing.T) {
	tests := []struct {
		name     string
		age      float64
		halfLife float64
		expected float64
	}{
		{name: "fresh", age: 0, halfLife: 30, expected: 1},
		{name: "one half-life", age: 30, halfLife: 30, expected: 0.5},
		{name: "two half-lives", age: 60, halfLife: 30, expected: 0.25},
		{name: "negative age counts as fresh", age: -10, halfLife: 30, expected: 1},
		{name: "non-positive half-life", age: 10, halfLife: 0, expected: 0},
		{name: "NaN age", age: math.NaN(), halfLife: 30, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TimeDecayWeight(tt.age, tt.halfLife), 1e-12)
		})
	}
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name          string
		distribution  []float64
		maxCategories int
		expected      float64
	}{
		{name: "empty", distribution: nil, maxCategories: 10, expected: 0},
		{name: "single category", distribution: []float64{500}, maxCategories: 10, expected: 0},
		{name: "zeros ignored", distribution: []float64{500, 0, 0}, maxCategories: 10, expected: 0},
		{name: "uniform over max", distribution: []float64{1, 1, 1, 1}, maxCategories: 4, expected: 100},
		{name: "two equal of four", distribution: []float64{3, 3}, maxCategories: 4, expected: 50},
		{name: "more categories than max is clamped", distribution: []float64{1, 1, 1, 1, 1, 1, 1, 1}, maxCategories: 4, expected: 100},
		{name: "degenerate max", distribution: []float64{1, 1}, maxCategories: 1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Entropy(tt.distribution, tt.maxCategories), 1e-9)
		})
	}
}

func TestEntropyIncreasesWithSpread(t *testing.T) {
	skewed := Entropy([]float64{90, 10}, 10)
	even := Entropy([]float64{50, 50}, 10)
	wider := Entropy([]float64{25, 25, 25, 25}, 10)

	assert.Greater(t, skewed, 0.0)
	assert.Greater(t, even, skewed)
	assert.Greater(t, wider, even)
}
