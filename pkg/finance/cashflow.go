package finance

import (
	"github.com/iwvelando/deal-analyzer/pkg/loans"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// Cashflow holds the monthly cashflow figures of one scenario.
type Cashflow struct {
	AnnuityMo      float64
	PreTaxMo       float64
	PostTaxMo      float64
	EquityYieldPct float64
}

// TotalAnnuity returns the annual debt service across all loans. It is built
// from the same flat payment the amortization simulator uses.
func TotalAnnuity(financing []loans.Loan) float64 {
	total := 0.0
	for _, loan := range financing {
		total += loan.AnnualAnnuity()
	}
	return total
}

// CalculateCashflow derives pre- and post-tax monthly cashflow and the equity
// yield. Equity of zero or less yields 0.
func CalculateCashflow(incomePA, nonRecoverablePA, annuityPA, taxPA, equity float64) Cashflow {
	preTax := mathutil.Monthly(incomePA - nonRecoverablePA - annuityPA)
	postTax := preTax - mathutil.Monthly(taxPA)

	equityYield := 0.0
	if equity > 0 {
		equityYield = mathutil.CalculatePercentage(mathutil.Annual(postTax), equity)
	}

	return Cashflow{
		AnnuityMo:      mathutil.Monthly(annuityPA),
		PreTaxMo:       preTax,
		PostTaxMo:      postTax,
		EquityYieldPct: equityYield,
	}
}
