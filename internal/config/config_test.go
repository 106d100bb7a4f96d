package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example deal file",
			configPath: "../../deal.yaml.example",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("../../deal.yaml.example")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "info" || config.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", config.Logging)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("Expected output format pretty, got %q", config.Output.Format)
	}

	deal := config.Deal
	if deal.PurchasePrice != 300000 {
		t.Errorf("Expected PurchasePrice = 300000, got %v", deal.PurchasePrice)
	}
	if math.Abs(deal.BrokerRate-3.57) > 1e-9 {
		t.Errorf("Expected BrokerRate = 3.57, got %v", deal.BrokerRate)
	}
	if deal.ColdRentSoll != 1200 || deal.Housegeld != 150 || deal.TargetYear != 3 {
		t.Errorf("unexpected deal values %+v", deal)
	}

	if len(deal.Loans) != 2 {
		t.Fatalf("Expected 2 loans, got %d", len(deal.Loans))
	}
	if deal.Loans[0].Name != "Bank A" || deal.Loans[1].Name != "KfW" {
		t.Errorf("loan order not preserved: %+v", deal.Loans)
	}
	if deal.Loans[1].FixedYears != 15 || deal.Loans[1].StartDate != "2024-01" {
		t.Errorf("unexpected second loan %+v", deal.Loans[1])
	}

	if config.Scenario.NewInterestRate != 4.5 {
		t.Errorf("Expected NewInterestRate = 4.5, got %v", config.Scenario.NewInterestRate)
	}

	if len(config.Optimizer) != 2 {
		t.Fatalf("Expected 2 optimizer directives, got %d", len(config.Optimizer))
	}
	if config.Optimizer[0].Field != OptimizerFieldColdRentIst || config.Optimizer[0].Min == nil || *config.Optimizer[0].Min != 500 {
		t.Errorf("unexpected first directive %+v", config.Optimizer[0])
	}
	if config.Optimizer[1].Metric != OptimizerMetricCashflow {
		t.Errorf("metric default not applied, got %q", config.Optimizer[1].Metric)
	}
	if config.Optimizer[1].Tolerance != defaultToleranceRate {
		t.Errorf("rate tolerance default not applied, got %v", config.Optimizer[1].Tolerance)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	input := `
deal:
  purchasePrice: 200000
  coldRentIst: 900
  loans:
    - amount: 150000
      interestRate: 4
      repaymentRate: 2
      fixedYears: 10
scenario:
  newInterestRate: 5
`
	config, err := LoadConfigurationFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Deal.PurchasePrice != 200000 || config.Deal.ColdRentIst != 900 {
		t.Errorf("unexpected deal %+v", config.Deal)
	}
	if len(config.Deal.Loans) != 1 || config.Deal.Loans[0].Amount != 150000 {
		t.Errorf("unexpected loans %+v", config.Deal.Loans)
	}
	if config.Deal.SollHasValues() {
		t.Error("SOLL must be inactive when not configured")
	}
	if len(config.Optimizer) != 0 {
		t.Errorf("expected no optimizer directives, got %d", len(config.Optimizer))
	}
}

func TestLoadConfigurationInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("deal: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
	if _, err := LoadConfigurationFromReader(strings.NewReader("deal: [unterminated")); err == nil {
		t.Error("expected an error for malformed YAML from reader")
	}
}

func TestAsOfTime(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		asOf    string
		want    time.Time
		wantErr bool
	}{
		{"empty uses now", "", now, false},
		{"blank uses now", "  ", now, false},
		{"explicit month", "2025-06", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), false},
		{"malformed", "June 2025", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Configuration{AsOf: tt.asOf}
			got, err := c.AsOfTime(now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AsOfTime() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("AsOfTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
