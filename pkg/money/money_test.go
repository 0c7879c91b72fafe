package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateDiscountPercentage(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		unitPrice int64
		want      int64
	}{
		{"markup above baseline", "110%", 1000, 100},
		{"markup 130", "130%", 1000, 300},
		{"baseline is zero adjustment", "100%", 1000, 0},
		{"below baseline floors toward negative", "90%", 1000, -100},
		{"fractional percent floors", "110%", 999, 99},
		{"negative percentage is rejected", "-10%", 1000, 0},
		{"malformed percentage", "ab%", 1000, 0},
		{"zero unit price", "130%", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateDiscount(tt.expr, tt.unitPrice))
		})
	}
}

func TestEvaluateDiscountFixed(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		unitPrice int64
		want      int64
	}{
		{"plain number", "50", 1000, 50},
		{"currency marker suffix", "50円", 1000, 50},
		{"negative is normalized to magnitude", "-30", 1000, 30},
		{"fractional value floors first", "49.9", 1000, 49},
		{"negative fractional floors then abs", "-49.9", 1000, 50},
		{"malformed", "abc", 1000, 0},
		{"empty", "", 1000, 0},
		{"whitespace only", "   ", 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateDiscount(tt.expr, tt.unitPrice))
		})
	}
}

func TestEvaluateDiscountNegativeUnitPrice(t *testing.T) {
	assert.Equal(t, int64(0), EvaluateDiscount("110%", -100))
	assert.Equal(t, int64(0), EvaluateDiscount("50", -100))
}

func TestExtractedTax(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		rate  float64
		want  int64
	}{
		{"round trip at 10 percent", 1100, 10, 100},
		{"rounds to nearest", 1000, 10, 91},
		{"eight percent", 1080, 8, 80},
		{"negative total", -100, 10, 0},
		{"zero rate", 1100, 0, 0},
		{"rate at ceiling", 1100, 100, 0},
		{"rate above ceiling", 1100, 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractedTax(tt.total, tt.rate))
		})
	}
}
