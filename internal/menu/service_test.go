package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestProfitMargin(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		cost  *float64
		want  *float64
	}{
		{"typical item", 10.0, ptr(4.0), ptr(60.0)},
		{"rounds to two decimals", 3.0, ptr(1.0), ptr(66.67)},
		{"no cost recorded", 10.0, nil, nil},
		{"zero cost", 10.0, ptr(0), nil},
		{"zero price", 0, ptr(2.0), nil},
		{"negative price", -5, ptr(2.0), nil},
		{"cost above price", 5.0, ptr(7.5), ptr(-50.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProfitMargin(tt.price, tt.cost)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.InDelta(t, *tt.want, *got, 0.001)
			}
		})
	}
}

func TestEmptyIfNil(t *testing.T) {
	assert.Equal(t, []string{}, emptyIfNil(nil))
	assert.Equal(t, []string{"vegan"}, emptyIfNil([]string{"vegan"}))
}
