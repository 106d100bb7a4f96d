package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
)

const (
	OptimizerFieldPurchasePrice   = "purchasePrice"
	OptimizerFieldColdRentIst     = "coldRentIst"
	OptimizerFieldColdRentSoll    = "coldRentSoll"
	OptimizerFieldEquity          = "equity"
	OptimizerFieldInterestRate    = "interestRate"
	OptimizerFieldNewInterestRate = "newInterestRate"

	OptimizerMetricCashflow    = "cashflow"
	OptimizerMetricEquityYield = "equityYield"
	OptimizerMetricGrossYield  = "grossYield"

	OptimizerBasisIst       = "ist"
	OptimizerBasisSoll      = "soll"
	OptimizerBasisProjected = "projected"

	defaultToleranceAmount = constants.DefaultSolverTolerance
	defaultToleranceRate   = 0.0001
	defaultMaxIterations   = constants.DefaultSolverMaxIterations
)

// OptimizerConfig defines a break-even directive: find the value of one deal
// field, within [Min, Max], at which a metric reaches Floor.
type OptimizerConfig struct {
	Name          string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Field         string   `json:"field" yaml:"field" mapstructure:"field"`
	Metric        string   `json:"metric,omitempty" yaml:"metric,omitempty" mapstructure:"metric"`
	Basis         string   `json:"basis,omitempty" yaml:"basis,omitempty" mapstructure:"basis"`
	Min           *float64 `json:"min" yaml:"min" mapstructure:"min"`
	Max           *float64 `json:"max" yaml:"max" mapstructure:"max"`
	Floor         float64  `json:"floor" yaml:"floor" mapstructure:"floor"`
	Tolerance     float64  `json:"tolerance,omitempty" yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "purchaseprice", "purchase_price", "purchase-price", "price":
		return OptimizerFieldPurchasePrice
	case "coldrentist", "cold_rent_ist", "cold-rent-ist", "rent":
		return OptimizerFieldColdRentIst
	case "coldrentsoll", "cold_rent_soll", "cold-rent-soll":
		return OptimizerFieldColdRentSoll
	case "equity":
		return OptimizerFieldEquity
	case "interestrate", "interest_rate", "interest-rate", "rate":
		return OptimizerFieldInterestRate
	case "newinterestrate", "new_interest_rate", "new-interest-rate", "refinancingrate":
		return OptimizerFieldNewInterestRate
	default:
		return trimmed
	}
}

// CanonicalOptimizerMetric returns the canonical identifier for a target metric.
func CanonicalOptimizerMetric(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "", "cashflow", "cashflowposttax", "cashflow_post_tax":
		return OptimizerMetricCashflow
	case "equityyield", "equity_yield", "equity-yield":
		return OptimizerMetricEquityYield
	case "grossyield", "gross_yield", "gross-yield", "yieldgross":
		return OptimizerMetricGrossYield
	default:
		return trimmed
	}
}

// IsRateField reports whether the field holds a percentage rather than money.
func IsRateField(field string) bool {
	switch CanonicalOptimizerField(field) {
	case OptimizerFieldInterestRate, OptimizerFieldNewInterestRate:
		return true
	}
	return false
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)
	o.Metric = CanonicalOptimizerMetric(o.Metric)

	o.Basis = strings.ToLower(strings.TrimSpace(o.Basis))
	if o.Basis == "" {
		o.Basis = OptimizerBasisIst
	}

	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		o.Name = o.Field
	}

	if o.Tolerance <= 0 {
		if IsRateField(o.Field) {
			o.Tolerance = defaultToleranceRate
		} else {
			o.Tolerance = defaultToleranceAmount
		}
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	switch o.Field {
	case OptimizerFieldPurchasePrice, OptimizerFieldColdRentIst, OptimizerFieldColdRentSoll,
		OptimizerFieldEquity, OptimizerFieldInterestRate, OptimizerFieldNewInterestRate:
		// supported fields
	case "":
		return fmt.Errorf("optimizer requires a field")
	default:
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}

	switch o.Metric {
	case OptimizerMetricCashflow, OptimizerMetricEquityYield, OptimizerMetricGrossYield:
	default:
		return fmt.Errorf("optimizer metric %q is not supported", o.Metric)
	}

	switch o.Basis {
	case OptimizerBasisIst, OptimizerBasisSoll, OptimizerBasisProjected:
	default:
		return fmt.Errorf("optimizer basis %q is not supported", o.Basis)
	}

	if o.Min == nil {
		return fmt.Errorf("optimizer requires a minimum bound")
	}
	if o.Max == nil {
		return fmt.Errorf("optimizer requires a maximum bound")
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	if *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}

	return nil
}
