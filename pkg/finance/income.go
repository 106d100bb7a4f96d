package finance

import (
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// IncomeInputs holds the monthly rent figures of one income scenario and the
// non-recoverable costs charged against it.
type IncomeInputs struct {
	ColdRent   float64
	Garage     float64
	OtherCosts float64 // recoverable operating costs, passed through to tenants
	Housegeld  float64
	Reserves   float64
}

// Income holds the derived income and yield figures of one scenario.
type Income struct {
	GrossMo          float64
	WarmRentMo       float64
	NonRecoverableMo float64
	NetMo            float64
	IncomePA         float64
	NonRecoverablePA float64
	YieldGrossPct    float64
	YieldNetPct      float64
	Multiplier       float64
}

// GrossMonthly returns cold rent plus garage rent.
func (in IncomeInputs) GrossMonthly() float64 {
	return in.ColdRent + in.Garage
}

// NonRecoverablePA returns housegeld plus reserves per year.
func (in IncomeInputs) NonRecoverablePA() float64 {
	return mathutil.Annual(in.Housegeld + in.Reserves)
}

// HasIncome reports whether the scenario carries any gross income.
func (in IncomeInputs) HasIncome() bool {
	return in.GrossMonthly() > 0
}

// CalculateIncome derives monthly and annual income, gross and net yields and
// the purchase price multiplier. Yields against a zero base and the multiplier
// of a zero income are reported as 0.
func CalculateIncome(in IncomeInputs, purchasePrice, totalInvestment float64) Income {
	gross := in.GrossMonthly()
	nonRecoverable := in.Housegeld + in.Reserves
	incomePA := mathutil.Annual(gross)
	nonRecoverablePA := in.NonRecoverablePA()

	return Income{
		GrossMo:          gross,
		WarmRentMo:       gross + in.OtherCosts,
		NonRecoverableMo: nonRecoverable,
		NetMo:            gross - nonRecoverable,
		IncomePA:         incomePA,
		NonRecoverablePA: nonRecoverablePA,
		YieldGrossPct:    mathutil.CalculatePercentage(incomePA, purchasePrice),
		YieldNetPct:      mathutil.CalculatePercentage(incomePA-nonRecoverablePA, totalInvestment),
		Multiplier:       mathutil.SafeDivide(purchasePrice, incomePA),
	}
}
