package money_test

import (
	"math"
	"testing"

	"github.com/aaveggupta/dhandiary/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		value    float64
		decimals int32
		want     float64
	}{
		{"two decimals", 12.345, 2, 12.35},
		{"half up", 0.005, 2, 0.01},
		{"already rounded", 10.10, 2, 10.10},
		{"zero decimals", 2.5, 0, 3},
		{"negative value", -12.344, 2, -12.34},
		{"NaN is zero", math.NaN(), 2, 0},
		{"positive infinity is zero", math.Inf(1), 2, 0},
		{"negative infinity is zero", math.Inf(-1), 2, 0},
		{"negative zero normalized", -0.0001, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, money.Round(tt.value, tt.decimals), 1e-9)
		})
	}
}

func TestToAmount(t *testing.T) {
	t.Parallel()
	var nilPtr *float64
	val := 42.5
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"float64", 12.34, 12.34},
		{"int", 7, 7},
		{"int64", int64(9), 9},
		{"decimal", decimal.NewFromFloat(3.14), 3.14},
		{"nil float pointer", nilPtr, 0},
		{"float pointer", &val, 42.5},
		{"numeric string", "19.99", 19.99},
		{"garbage string", "abc", 0},
		{"NaN", math.NaN(), 0},
		{"unsupported type", struct{}{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, money.ToAmount(tt.input), 1e-9)
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "100", 100},
		{"decimal dot", "12.34", 12.34},
		{"decimal comma", "12,34", 12.34},
		{"thousands grouping", "1,234.56", 1234.56},
		{"surrounding spaces", "  50.5 ", 50.5},
		{"empty", "", 0},
		{"invalid", "12.3.4", 0},
		{"infinity text", "Inf", 0},
		{"negative text", "-5", 0},
		{"negative decimal text", "-12,34", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, money.ParseAmount(tt.input), 1e-9)
		})
	}
}

func TestApproximatelyEqual(t *testing.T) {
	t.Parallel()
	assert.True(t, money.ApproximatelyEqual(10.001, 10.0009))
	assert.True(t, money.ApproximatelyEqual(0, -0.0001))
	assert.False(t, money.ApproximatelyEqual(10.00, 10.01))

	// Drift from repeated float addition stays within tolerance after rounding.
	sum := 0.0
	for range 1000 {
		sum += 0.01
	}
	assert.True(t, money.ApproximatelyEqual(sum, 10.0))
}
