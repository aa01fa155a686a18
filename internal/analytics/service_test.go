package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowth(t *testing.T) {
	tests := []struct {
		name string
		cur  float64
		prev float64
		want float64
	}{
		{"doubling", 200, 100, 100},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"from zero with revenue", 42, 0, 100},
		{"from zero without revenue", 0, 0, 0},
		{"rounds", 105.5, 100, 5.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Growth(tt.cur, tt.prev), 0.001)
		})
	}
}

func TestSharePercentage(t *testing.T) {
	assert.InDelta(t, 25.0, SharePercentage(25, 100), 0.001)
	assert.InDelta(t, 33.3, SharePercentage(1, 3), 0.001)
	assert.Zero(t, SharePercentage(10, 0))
}

func TestAvgGrowthRate(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		want    float64
	}{
		{"steady 10 percent", []float64{100, 110, 121}, 0.1},
		{"skips zero months", []float64{0, 100, 110}, 0.1},
		{"all zero", []float64{0, 0, 0}, 0},
		{"single month", []float64{500}, 0},
		{"shrinking", []float64{100, 50}, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AvgGrowthRate(tt.history), 0.001)
		})
	}
}
