package analysis

import (
	"fmt"

	"github.com/iwvelando/deal-analyzer/pkg/finance"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
	"go.uber.org/zap"
)

// Analyze derives the full set of deal metrics. It performs no I/O, keeps no
// state between calls and never rounds; identical inputs give identical
// results. Degenerate inputs produce zero or clamped figures instead of errors.
func Analyze(deal DealInput, scenario ScenarioInput) DealMetrics {
	acq := finance.CalculateAcquisition(deal.Acquisition())

	afaBase := finance.DepreciationBase(acq.TotalInvestment, deal.RenovationCosts, deal.PurchasePrice)
	depreciation := DepreciationMetrics{
		Base:               afaBase,
		AnnualAmount:       finance.AnnualDepreciation(afaBase, deal.AfaRate),
		RenovationIncluded: finance.RenovationAddsToBase(deal.RenovationCosts, deal.PurchasePrice),
	}

	interestPA := finance.TotalInterest(deal.Loans)
	annuityPA := finance.TotalAnnuity(deal.Loans)

	metrics := DealMetrics{
		AcquisitionCosts: acq.AcquisitionCosts,
		TotalInvestment:  acq.TotalInvestment,
		TotalInterestPA:  interestPA,
		HorizonYears:     deal.HorizonYears(),
		Depreciation:     depreciation,
		Loans:            make([]LoanMetrics, 0, len(deal.Loans)),
	}

	metrics.Ist = incomeMetrics(deal.IstIncome(), deal, acq, mathutil.Annual(deal.Housegeld), interestPA, depreciation.AnnualAmount, annuityPA)
	if deal.SollHasValues() {
		sollIncome := deal.SollIncome()
		soll := incomeMetrics(sollIncome, deal, acq, sollIncome.NonRecoverablePA(), interestPA, depreciation.AnnualAmount, annuityPA)
		metrics.Soll = &soll
	}

	newRate := scenario.NewInterestRate + scenario.NewRepaymentRate
	for _, loan := range deal.Loans {
		balance := loans.BalanceAtHorizon(loan)
		metrics.Loans = append(metrics.Loans, LoanMetrics{
			Name:             loan.Name,
			Amount:           loan.Amount,
			MonthlyPayment:   loan.FlatPayment(),
			AnnualInterest:   loan.AnnualInterest(),
			FixedYears:       loan.FixedYears,
			BalanceAtHorizon: balance,
			NewAnnuityMo:     mathutil.Monthly(mathutil.ApplyPercentage(balance, newRate)),
		})
		metrics.LoanBalanceAtHorizon += balance
	}

	metrics.Scenario = project(deal, scenario, metrics)
	return metrics
}

// incomeMetrics runs the income, tax and cashflow calculators for one income
// scenario. IST deducts housegeld only, SOLL its whole non-recoverable total.
func incomeMetrics(in finance.IncomeInputs, deal DealInput, acq finance.Acquisition, deductiblePA, interestPA, depreciationPA, annuityPA float64) IncomeMetrics {
	income := finance.CalculateIncome(in, deal.PurchasePrice, acq.TotalInvestment)
	tax := finance.CalculateTax(finance.TaxInputs{
		IncomePA:          income.IncomePA,
		InterestPA:        interestPA,
		DepreciationPA:    depreciationPA,
		DeductibleCostsPA: deductiblePA,
		MarginalTaxRate:   deal.MarginalTaxRate,
	})
	cashflow := finance.CalculateCashflow(income.IncomePA, income.NonRecoverablePA, annuityPA, tax.TaxPA, deal.Equity)

	return IncomeMetrics{
		GrossIncomeMo:     income.GrossMo,
		WarmRentMo:        income.WarmRentMo,
		NonRecoverableMo:  income.NonRecoverableMo,
		NetIncomeMo:       income.NetMo,
		YieldGrossPct:     income.YieldGrossPct,
		YieldNetPct:       income.YieldNetPct,
		Multiplier:        income.Multiplier,
		EquityYieldPct:    cashflow.EquityYieldPct,
		AnnuityMo:         cashflow.AnnuityMo,
		TaxableIncomePA:   tax.TaxableIncomePA,
		TaxMo:             tax.TaxMo,
		CashflowPreTaxMo:  cashflow.PreTaxMo,
		CashflowPostTaxMo: cashflow.PostTaxMo,
	}
}

// Engine wraps Analyze with logging.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine; a nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Analyze returns exactly what the package level Analyze returns.
func (e *Engine) Analyze(deal DealInput, scenario ScenarioInput) DealMetrics {
	metrics := Analyze(deal, scenario)

	e.logger.Debug(fmt.Sprintf("analyzed deal with %d loans", len(deal.Loans)),
		zap.String("op", "analysis.Analyze"),
		zap.Float64("totalInvestment", metrics.TotalInvestment),
		zap.Float64("cashflowPostTaxMo", metrics.Ist.CashflowPostTaxMo),
		zap.Bool("sollActive", metrics.Soll != nil),
		zap.Int("horizonYears", metrics.HorizonYears),
	)

	return metrics
}
