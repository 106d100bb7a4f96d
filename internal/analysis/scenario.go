package analysis

import (
	"math"

	"github.com/iwvelando/deal-analyzer/pkg/finance"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// project computes the figures after the rate locks end. The horizon is the
// longest lock across all loans, while each loan's balance was taken at its
// own lock. Rent grows from the SOLL income when one exists; housegeld and
// reserves stay constant.
func project(deal DealInput, scenario ScenarioInput, metrics DealMetrics) ScenarioMetrics {
	horizon := metrics.HorizonYears
	growthYears := horizon - deal.TargetYear
	if growthYears < 0 {
		growthYears = 0
	}

	base := deal.IstIncome()
	incomeBase := BaseIst
	if deal.SollHasValues() {
		base = deal.SollIncome()
		incomeBase = BaseSoll
	}
	futureIncomePA := mathutil.Annual(base.GrossMonthly()) * math.Pow(1+scenario.RentGrowthRate/100, float64(growthYears))

	annualDepreciation := metrics.Depreciation.AnnualAmount
	futureAfaBase := mathutil.NonNegative(metrics.Depreciation.Base - annualDepreciation*float64(horizon))
	futureDepreciation := mathutil.Min(annualDepreciation, futureAfaBase)

	interestPA := 0.0
	newAnnuityMo := 0.0
	for _, loan := range metrics.Loans {
		interestPA += mathutil.ApplyPercentage(loan.BalanceAtHorizon, scenario.NewInterestRate)
		newAnnuityMo += loan.NewAnnuityMo
	}

	tax := finance.CalculateTax(finance.TaxInputs{
		IncomePA:          futureIncomePA,
		InterestPA:        interestPA,
		DepreciationPA:    futureDepreciation,
		DeductibleCostsPA: mathutil.Annual(deal.Housegeld),
		MarginalTaxRate:   deal.MarginalTaxRate,
	})
	nonRecoverablePA := mathutil.Annual(deal.Housegeld + deal.Reserves)
	cashflow := finance.CalculateCashflow(futureIncomePA, nonRecoverablePA, mathutil.Annual(newAnnuityMo), tax.TaxPA, deal.Equity)

	return ScenarioMetrics{
		Phase:                      PhasePostHorizon,
		HorizonYears:               horizon,
		GrowthYears:                growthYears,
		IncomeBase:                 incomeBase,
		FutureIncomePA:             futureIncomePA,
		FutureDepreciation:         futureDepreciation,
		InterestPA:                 interestPA,
		NewAnnuityMo:               newAnnuityMo,
		ProjectedIncomeMo:          mathutil.Monthly(futureIncomePA),
		ProjectedTaxableIncomePA:   tax.TaxableIncomePA,
		ProjectedTaxMo:             tax.TaxMo,
		ProjectedCashflowPreTaxMo:  cashflow.PreTaxMo,
		ProjectedCashflowPostTaxMo: cashflow.PostTaxMo,
	}
}

// PhaseAt returns the phase the deal is in the given number of years after
// purchase.
func PhaseAt(deal DealInput, year int) string {
	if year < deal.HorizonYears() {
		return PhasePreHorizon
	}
	return PhasePostHorizon
}
