package config

import "testing"

func TestCanonicalOptimizerField(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "purchase price casing", input: "PurchasePrice", expected: OptimizerFieldPurchasePrice},
		{name: "purchase price alias", input: "price", expected: OptimizerFieldPurchasePrice},
		{name: "cold rent snake case", input: "cold_rent_ist", expected: OptimizerFieldColdRentIst},
		{name: "cold rent soll", input: "COLDRENTSOLL", expected: OptimizerFieldColdRentSoll},
		{name: "equity", input: " equity ", expected: OptimizerFieldEquity},
		{name: "interest rate", input: "interest-rate", expected: OptimizerFieldInterestRate},
		{name: "refinancing rate", input: "new_interest_rate", expected: OptimizerFieldNewInterestRate},
		{name: "unknown kept", input: "Custom", expected: "Custom"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := CanonicalOptimizerField(tc.input)
			if actual != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, actual)
			}
		})
	}
}

func TestCanonicalOptimizerMetric(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", OptimizerMetricCashflow},
		{"Cashflow", OptimizerMetricCashflow},
		{"equity_yield", OptimizerMetricEquityYield},
		{"GrossYield", OptimizerMetricGrossYield},
		{"irr", "irr"},
	}
	for _, tc := range testCases {
		if actual := CanonicalOptimizerMetric(tc.input); actual != tc.expected {
			t.Errorf("CanonicalOptimizerMetric(%q) = %q, want %q", tc.input, actual, tc.expected)
		}
	}
}

func TestOptimizerConfigNormalize(t *testing.T) {
	testCases := []struct {
		name      string
		field     string
		tolerance float64
		expected  float64
	}{
		{name: "amount default", field: "purchasePrice", expected: defaultToleranceAmount},
		{name: "rate default", field: "interestRate", expected: defaultToleranceRate},
		{name: "refinancing rate default", field: "newInterestRate", expected: defaultToleranceRate},
		{name: "explicit tolerance kept", field: "equity", tolerance: 5, expected: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &OptimizerConfig{Field: tc.field, Tolerance: tc.tolerance}
			cfg.Normalize()

			if cfg.Tolerance != tc.expected {
				t.Fatalf("expected tolerance %v, got %v", tc.expected, cfg.Tolerance)
			}
			if cfg.Basis != OptimizerBasisIst {
				t.Errorf("expected default basis %q, got %q", OptimizerBasisIst, cfg.Basis)
			}
			if cfg.Metric != OptimizerMetricCashflow {
				t.Errorf("expected default metric %q, got %q", OptimizerMetricCashflow, cfg.Metric)
			}
			if cfg.MaxIterations != defaultMaxIterations {
				t.Errorf("expected %d iterations, got %d", defaultMaxIterations, cfg.MaxIterations)
			}
			if cfg.Name != cfg.Field {
				t.Errorf("expected name to default to the field, got %q", cfg.Name)
			}
		})
	}

	var nilCfg *OptimizerConfig
	nilCfg.Normalize()
}

func TestOptimizerConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     OptimizerConfig
		wantErr bool
	}{
		{name: "valid", cfg: OptimizerConfig{Field: "coldRentIst", Min: floatPtr(0), Max: floatPtr(2000)}},
		{name: "valid projected", cfg: OptimizerConfig{Field: "interestRate", Basis: "Projected", Min: floatPtr(0.5), Max: floatPtr(10)}},
		{name: "missing field", cfg: OptimizerConfig{Min: floatPtr(0), Max: floatPtr(1)}, wantErr: true},
		{name: "unknown field", cfg: OptimizerConfig{Field: "housegeld", Min: floatPtr(0), Max: floatPtr(1)}, wantErr: true},
		{name: "unknown metric", cfg: OptimizerConfig{Field: "equity", Metric: "irr", Min: floatPtr(0), Max: floatPtr(1)}, wantErr: true},
		{name: "unknown basis", cfg: OptimizerConfig{Field: "equity", Basis: "future", Min: floatPtr(0), Max: floatPtr(1)}, wantErr: true},
		{name: "missing min", cfg: OptimizerConfig{Field: "equity", Max: floatPtr(1)}, wantErr: true},
		{name: "missing max", cfg: OptimizerConfig{Field: "equity", Min: floatPtr(0)}, wantErr: true},
		{name: "inverted bounds", cfg: OptimizerConfig{Field: "equity", Min: floatPtr(10), Max: floatPtr(1)}, wantErr: true},
		{name: "negative minimum", cfg: OptimizerConfig{Field: "equity", Min: floatPtr(-10), Max: floatPtr(1)}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	var nilCfg *OptimizerConfig
	if err := nilCfg.Validate(); err == nil {
		t.Error("expected an error for a nil configuration")
	}
}

func floatPtr(value float64) *float64 {
	return &value
}
