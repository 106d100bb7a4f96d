// Package output provides utilities for formatting and displaying deal analyses.
package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
)

// Report bundles everything rendered for one deal. Metrics are rounded by the
// renderers; callers pass the raw engine output.
type Report struct {
	Name          string                 `json:"name,omitempty"`
	Metrics       analysis.DealMetrics   `json:"metrics"`
	Warnings      []string               `json:"warnings,omitempty"`
	Debt          *analysis.DebtReport   `json:"debt,omitempty"`
	Optimizations []optimization.Summary `json:"optimizations,omitempty"`
}

type valueKind int

const (
	kindMoney valueKind = iota
	kindPercent
	kindFactor
	kindYears
)

// line is one labelled figure of a report section.
type line struct {
	section string
	label   string
	value   float64
	kind    valueKind
}

const (
	sectionInvestment = "Investment"
	sectionIst        = "IST"
	sectionSoll       = "SOLL"
	sectionFinancing  = "Financing"
	sectionScenario   = "Scenario"
)

func metricLines(m analysis.DealMetrics) []line {
	lines := []line{
		{sectionInvestment, "Acquisition costs", m.AcquisitionCosts, kindMoney},
		{sectionInvestment, "Total investment", m.TotalInvestment, kindMoney},
		{sectionInvestment, "Depreciation base", m.Depreciation.Base, kindMoney},
		{sectionInvestment, "Annual depreciation", m.Depreciation.AnnualAmount, kindMoney},
	}

	lines = append(lines, incomeLines(sectionIst, m.Ist)...)
	if m.Soll != nil {
		lines = append(lines, incomeLines(sectionSoll, *m.Soll)...)
	}

	lines = append(lines,
		line{sectionFinancing, "Total interest p.a.", m.TotalInterestPA, kindMoney},
		line{sectionFinancing, "Balance at horizon", m.LoanBalanceAtHorizon, kindMoney},
		line{sectionFinancing, "Horizon", float64(m.HorizonYears), kindYears},
	)

	s := m.Scenario
	lines = append(lines,
		line{sectionScenario, "Growth years", float64(s.GrowthYears), kindYears},
		line{sectionScenario, "New annuity / month", s.NewAnnuityMo, kindMoney},
		line{sectionScenario, "Projected income / month", s.ProjectedIncomeMo, kindMoney},
		line{sectionScenario, "Future depreciation", s.FutureDepreciation, kindMoney},
		line{sectionScenario, "Projected tax / month", s.ProjectedTaxMo, kindMoney},
		line{sectionScenario, "Projected cashflow pre-tax / month", s.ProjectedCashflowPreTaxMo, kindMoney},
		line{sectionScenario, "Projected cashflow post-tax / month", s.ProjectedCashflowPostTaxMo, kindMoney},
	)
	return lines
}

func incomeLines(section string, im analysis.IncomeMetrics) []line {
	return []line{
		{section, "Gross income / month", im.GrossIncomeMo, kindMoney},
		{section, "Warm rent / month", im.WarmRentMo, kindMoney},
		{section, "Non-recoverable costs / month", im.NonRecoverableMo, kindMoney},
		{section, "Net income / month", im.NetIncomeMo, kindMoney},
		{section, "Gross yield", im.YieldGrossPct, kindPercent},
		{section, "Net yield", im.YieldNetPct, kindPercent},
		{section, "Multiplier", im.Multiplier, kindFactor},
		{section, "Annuity / month", im.AnnuityMo, kindMoney},
		{section, "Tax / month", im.TaxMo, kindMoney},
		{section, "Cashflow pre-tax / month", im.CashflowPreTaxMo, kindMoney},
		{section, "Cashflow post-tax / month", im.CashflowPostTaxMo, kindMoney},
		{section, "Equity yield", im.EquityYieldPct, kindPercent},
	}
}

// Write renders the report in the given format.
func Write(w io.Writer, format string, report Report) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatXLSX:
		return XLSXFormat(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func roundMoney(value float64) float64 {
	return mathutil.Round(value)
}
