package finance

import (
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// TaxInputs holds the annual figures that determine the tax burden.
type TaxInputs struct {
	IncomePA          float64
	InterestPA        float64
	DepreciationPA    float64
	DeductibleCostsPA float64
	MarginalTaxRate   float64
}

// Tax holds the taxable income and the resulting tax burden.
type Tax struct {
	TaxableIncomePA float64
	TaxPA           float64
	TaxMo           float64
}

// RenovationAddsToBase reports whether renovation spend exceeds the share of
// the purchase price above which it enters the depreciation base. The
// comparison is strict: spend of exactly the threshold does not qualify.
func RenovationAddsToBase(renovationCosts, purchasePrice float64) bool {
	return renovationCosts > purchasePrice*constants.RenovationDepreciationThreshold
}

// DepreciationBase returns the depreciable base: the total investment, plus
// renovation costs again when they pass the threshold.
func DepreciationBase(totalInvestment, renovationCosts, purchasePrice float64) float64 {
	base := totalInvestment
	if RenovationAddsToBase(renovationCosts, purchasePrice) {
		base += renovationCosts
	}
	return base
}

// AnnualDepreciation applies the depreciation rate to the base.
func AnnualDepreciation(base, afaRate float64) float64 {
	return mathutil.ApplyPercentage(base, afaRate)
}

// TotalInterest sums each loan's nominal annual interest on its original
// amount at its original rate.
func TotalInterest(financing []loans.Loan) float64 {
	total := 0.0
	for _, loan := range financing {
		total += loan.AnnualInterest()
	}
	return total
}

// CalculateTax derives taxable income and the tax burden. Losses produce no
// refund: the burden is clamped to zero.
func CalculateTax(in TaxInputs) Tax {
	taxable := in.IncomePA - in.InterestPA - in.DepreciationPA - in.DeductibleCostsPA
	taxPA := mathutil.NonNegative(mathutil.ApplyPercentage(taxable, in.MarginalTaxRate))
	return Tax{
		TaxableIncomePA: taxable,
		TaxPA:           taxPA,
		TaxMo:           mathutil.Monthly(taxPA),
	}
}
