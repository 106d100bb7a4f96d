package format

import (
	"math"
	"testing"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "0,00 €"},
		{"small", 12.5, "12,50 €"},
		{"thousands", 1234.56, "1.234,56 €"},
		{"millions", 1234567.891, "1.234.567,89 €"},
		{"negative", -479.1666, "-479,17 €"},
		{"negative thousands", -31710, "-31.710,00 €"},
		{"half rounds away from zero", 1.005, "1,01 €"},
		{"tiny negative rounds to zero", -0.001, "0,00 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(351710); got != "351.710,00" {
		t.Errorf("NumericCurrency() = %q, want %q", got, "351.710,00")
	}
	if got := NumericCurrency(-1000); got != "-1.000,00" {
		t.Errorf("NumericCurrency() = %q, want %q", got, "-1.000,00")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{4, "4,00 %"},
		{2.900116573313241, "2,90 %"},
		{-9.583333, "-9,58 %"},
		{1234.5, "1.234,50 %"},
	}
	for _, tt := range tests {
		if got := Percent(tt.value); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	if got := Number(23.80952380952381, 1); got != "23,8" {
		t.Errorf("Number() = %q, want %q", got, "23,8")
	}
	if got := Number(1500, 0); got != "1.500" {
		t.Errorf("Number() = %q, want %q", got, "1.500")
	}
	if got := Number(math.NaN(), 2); got != "0,00" {
		t.Errorf("Number(NaN) = %q, want %q", got, "0,00")
	}
	if got := Number(math.Inf(-1), 2); got != "0,00" {
		t.Errorf("Number(-Inf) = %q, want %q", got, "0,00")
	}
}
