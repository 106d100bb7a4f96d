// Package optimizer solves break-even questions on a deal: the value of one
// input at which a chosen metric just reaches a floor.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/pkg/format"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"go.uber.org/zap"
)

const headroomEpsilon = 1e-9

// Runner evaluates break-even directives against a fixed deal and scenario.
type Runner struct {
	logger   *zap.Logger
	deal     analysis.DealInput
	scenario analysis.ScenarioInput
}

type evaluation struct {
	value    float64
	achieved float64
	floor    float64
}

func (e evaluation) feasible() bool {
	return e.achieved >= e.floor-headroomEpsilon
}

func (e evaluation) headroom() float64 {
	return e.achieved - e.floor
}

// NewRunner constructs a Runner for the provided deal. The deal is copied;
// the caller's value is never modified.
func NewRunner(logger *zap.Logger, deal analysis.DealInput, scenario analysis.ScenarioInput) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, deal: deal.Clone(), scenario: scenario}
}

// Run executes all directives in order.
func (r *Runner) Run(directives []config.OptimizerConfig) ([]optimization.Summary, error) {
	summaries := make([]optimization.Summary, 0, len(directives))
	for i := range directives {
		directive := directives[i]
		summary, err := r.Optimize(directive)
		if err != nil {
			return nil, fmt.Errorf("optimizer directive %d (%s): %w", i+1, directive.Name, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Optimize solves a single directive by bisection between its bounds.
func (r *Runner) Optimize(cfg config.OptimizerConfig) (optimization.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return optimization.Summary{}, err
	}
	if cfg.Basis == config.OptimizerBasisSoll && !r.deal.SollHasValues() && cfg.Field != config.OptimizerFieldColdRentSoll {
		return optimization.Summary{}, fmt.Errorf("basis %s requires SOLL income", cfg.Basis)
	}

	original := fieldValue(r.deal, r.scenario, cfg.Field)
	minVal, maxVal := *cfg.Min, *cfg.Max

	lowerEval := r.evaluate(cfg, minVal)
	upperEval := r.evaluate(cfg, maxVal)

	summary := optimization.Summary{
		Name:            cfg.Name,
		Basis:           cfg.Basis,
		Field:           cfg.Field,
		Metric:          cfg.Metric,
		Original:        original,
		OriginalDisplay: formatFieldDisplay(cfg.Field, original),
		Floor:           cfg.Floor,
	}

	var final evaluation
	switch {
	case !lowerEval.feasible() && !upperEval.feasible():
		final = upperEval
		if lowerEval.headroom() > upperEval.headroom() {
			final = lowerEval
		}
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to reach %s within bounds %s to %s",
			formatMetricDisplay(cfg.Metric, cfg.Floor),
			formatFieldDisplay(cfg.Field, minVal),
			formatFieldDisplay(cfg.Field, maxVal),
		))
	case lowerEval.feasible() && upperEval.feasible():
		// No break-even inside the bounds; report the bound closest to it.
		final = upperEval
		if lowerEval.headroom() < upperEval.headroom() {
			final = lowerEval
		}
		summary.Converged = true
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"%s is met across the whole range %s to %s",
			formatMetricDisplay(cfg.Metric, cfg.Floor),
			formatFieldDisplay(cfg.Field, minVal),
			formatFieldDisplay(cfg.Field, maxVal),
		))
	default:
		feasible, infeasible := lowerEval, upperEval
		if !lowerEval.feasible() {
			feasible, infeasible = upperEval, lowerEval
		}
		for summary.Iterations < cfg.MaxIterations && math.Abs(infeasible.value-feasible.value) > cfg.Tolerance {
			mid := r.evaluate(cfg, feasible.value+(infeasible.value-feasible.value)/2)
			summary.Iterations++
			if mid.feasible() {
				feasible = mid
			} else {
				infeasible = mid
			}
		}
		final = feasible
		summary.Converged = math.Abs(infeasible.value-feasible.value) <= cfg.Tolerance
		if !summary.Converged {
			summary.Notes = append(summary.Notes, fmt.Sprintf("stopped after %d iterations", summary.Iterations))
		}
	}

	summary.Value = final.value
	summary.ValueDisplay = formatFieldDisplay(cfg.Field, final.value)
	summary.Achieved = final.achieved
	summary.Headroom = final.headroom()

	r.logger.Info("optimizer solved deal field",
		zap.String("op", "optimizer.Optimize"),
		zap.String("name", cfg.Name),
		zap.String("field", cfg.Field),
		zap.String("metric", cfg.Metric),
		zap.String("basis", cfg.Basis),
		zap.Float64("original", original),
		zap.Float64("value", summary.Value),
		zap.Float64("floor", summary.Floor),
		zap.Float64("achieved", summary.Achieved),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)

	return summary, nil
}

func (r *Runner) evaluate(cfg config.OptimizerConfig, value float64) evaluation {
	deal, scenario := withFieldValue(r.deal, r.scenario, cfg.Field, value)
	metrics := analysis.Analyze(deal, scenario)
	return evaluation{
		value:    value,
		achieved: metricValue(deal, metrics, cfg.Metric, cfg.Basis),
		floor:    cfg.Floor,
	}
}

// fieldValue reads the current value of a field. For the interest rate this is
// the amount-weighted average rate across all loans.
func fieldValue(deal analysis.DealInput, scenario analysis.ScenarioInput, field string) float64 {
	switch field {
	case config.OptimizerFieldPurchasePrice:
		return deal.PurchasePrice
	case config.OptimizerFieldColdRentIst:
		return deal.ColdRentIst
	case config.OptimizerFieldColdRentSoll:
		return deal.ColdRentSoll
	case config.OptimizerFieldEquity:
		return deal.Equity
	case config.OptimizerFieldInterestRate:
		total, weighted := 0.0, 0.0
		for _, loan := range deal.Loans {
			total += loan.Amount
			weighted += loan.Amount * loan.InterestRate
		}
		return mathutil.SafeDivide(weighted, total)
	case config.OptimizerFieldNewInterestRate:
		return scenario.NewInterestRate
	default:
		return 0
	}
}

// withFieldValue returns copies of the deal and scenario with the field set.
// The interest rate is applied to every loan; derived payments follow it,
// declared payments are kept.
func withFieldValue(deal analysis.DealInput, scenario analysis.ScenarioInput, field string, value float64) (analysis.DealInput, analysis.ScenarioInput) {
	next := deal.Clone()
	switch field {
	case config.OptimizerFieldPurchasePrice:
		next.PurchasePrice = value
	case config.OptimizerFieldColdRentIst:
		next.ColdRentIst = value
	case config.OptimizerFieldColdRentSoll:
		next.ColdRentSoll = value
	case config.OptimizerFieldEquity:
		next.Equity = value
	case config.OptimizerFieldInterestRate:
		for i := range next.Loans {
			next.Loans[i].InterestRate = value
		}
	case config.OptimizerFieldNewInterestRate:
		scenario.NewInterestRate = value
	}
	return next, scenario
}

func metricValue(deal analysis.DealInput, m analysis.DealMetrics, metric, basis string) float64 {
	if basis == config.OptimizerBasisProjected {
		s := m.Scenario
		switch metric {
		case config.OptimizerMetricEquityYield:
			if deal.Equity <= 0 {
				return 0
			}
			return mathutil.CalculatePercentage(mathutil.Annual(s.ProjectedCashflowPostTaxMo), deal.Equity)
		case config.OptimizerMetricGrossYield:
			return mathutil.CalculatePercentage(s.FutureIncomePA, deal.PurchasePrice)
		default:
			return s.ProjectedCashflowPostTaxMo
		}
	}

	income := m.Ist
	if basis == config.OptimizerBasisSoll {
		if m.Soll == nil {
			return 0
		}
		income = *m.Soll
	}
	switch metric {
	case config.OptimizerMetricEquityYield:
		return income.EquityYieldPct
	case config.OptimizerMetricGrossYield:
		return income.YieldGrossPct
	default:
		return income.CashflowPostTaxMo
	}
}

func formatFieldDisplay(field string, value float64) string {
	if config.IsRateField(field) {
		return format.Percent(value)
	}
	return format.Currency(value)
}

func formatMetricDisplay(metric string, value float64) string {
	switch metric {
	case config.OptimizerMetricEquityYield, config.OptimizerMetricGrossYield:
		return metric + " " + format.Percent(value)
	default:
		return "monthly cashflow " + format.Currency(value)
	}
}
