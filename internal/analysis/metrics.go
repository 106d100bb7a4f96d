package analysis

import (
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// Projection phases. The scenario block always describes the state after the
// shared horizon.
const (
	PhasePreHorizon  = "pre-horizon"
	PhasePostHorizon = "post-horizon"
)

// Income bases the projection can grow from.
const (
	BaseIst  = "ist"
	BaseSoll = "soll"
)

// IncomeMetrics holds the income, tax and cashflow figures of one income
// scenario.
type IncomeMetrics struct {
	GrossIncomeMo     float64 `json:"grossIncomeMo"`
	WarmRentMo        float64 `json:"warmRentMo"`
	NonRecoverableMo  float64 `json:"nonRecoverableMo"`
	NetIncomeMo       float64 `json:"netIncomeMo"`
	YieldGrossPct     float64 `json:"yieldGrossPct"`
	YieldNetPct       float64 `json:"yieldNetPct"`
	Multiplier        float64 `json:"multiplier"`
	EquityYieldPct    float64 `json:"equityYieldPct"`
	AnnuityMo         float64 `json:"annuityMo"`
	TaxableIncomePA   float64 `json:"taxableIncomePA"`
	TaxMo             float64 `json:"taxMo"`
	CashflowPreTaxMo  float64 `json:"cashflowPreTaxMo"`
	CashflowPostTaxMo float64 `json:"cashflowPostTaxMo"`
}

// LoanMetrics holds per-loan detail in input order.
type LoanMetrics struct {
	Name             string  `json:"name,omitempty"`
	Amount           float64 `json:"amount"`
	MonthlyPayment   float64 `json:"monthlyPayment"`
	AnnualInterest   float64 `json:"annualInterest"`
	FixedYears       int     `json:"fixedYears"`
	BalanceAtHorizon float64 `json:"balanceAtHorizon"`
	NewAnnuityMo     float64 `json:"newAnnuityMo"`
}

// DepreciationMetrics describes the depreciation base and annual allowance.
type DepreciationMetrics struct {
	Base               float64 `json:"base"`
	AnnualAmount       float64 `json:"annualAmount"`
	RenovationIncluded bool    `json:"renovationIncluded"`
}

// ScenarioMetrics is the projection once the rate locks have ended.
type ScenarioMetrics struct {
	Phase                      string  `json:"phase"`
	HorizonYears               int     `json:"horizonYears"`
	GrowthYears                int     `json:"growthYears"`
	IncomeBase                 string  `json:"incomeBase"`
	FutureIncomePA             float64 `json:"futureIncomePA"`
	FutureDepreciation         float64 `json:"futureDepreciation"`
	InterestPA                 float64 `json:"interestPA"`
	NewAnnuityMo               float64 `json:"newAnnuityMo"`
	ProjectedIncomeMo          float64 `json:"projectedIncomeMo"`
	ProjectedTaxableIncomePA   float64 `json:"projectedTaxableIncomePA"`
	ProjectedTaxMo             float64 `json:"projectedTaxMo"`
	ProjectedCashflowPreTaxMo  float64 `json:"projectedCashflowPreTaxMo"`
	ProjectedCashflowPostTaxMo float64 `json:"projectedCashflowPostTaxMo"`
}

// DealMetrics is the full result of an analysis. Soll is nil when no target
// income was entered.
type DealMetrics struct {
	AcquisitionCosts     float64             `json:"acquisitionCosts"`
	TotalInvestment      float64             `json:"totalInvestment"`
	Ist                  IncomeMetrics       `json:"ist"`
	Soll                 *IncomeMetrics      `json:"soll,omitempty"`
	Loans                []LoanMetrics       `json:"loans"`
	TotalInterestPA      float64             `json:"totalInterestPA"`
	LoanBalanceAtHorizon float64             `json:"loanBalanceAtHorizon"`
	HorizonYears         int                 `json:"horizonYears"`
	Depreciation         DepreciationMetrics `json:"depreciation"`
	Scenario             ScenarioMetrics     `json:"scenario"`
}

// Rounded returns a copy with every amount and percentage rounded to cents.
func (m DealMetrics) Rounded() DealMetrics {
	r := m
	r.AcquisitionCosts = mathutil.Round(m.AcquisitionCosts)
	r.TotalInvestment = mathutil.Round(m.TotalInvestment)
	r.Ist = m.Ist.rounded()
	if m.Soll != nil {
		soll := m.Soll.rounded()
		r.Soll = &soll
	}
	if m.Loans != nil {
		r.Loans = make([]LoanMetrics, len(m.Loans))
		for i, loan := range m.Loans {
			r.Loans[i] = loan.rounded()
		}
	}
	r.TotalInterestPA = mathutil.Round(m.TotalInterestPA)
	r.LoanBalanceAtHorizon = mathutil.Round(m.LoanBalanceAtHorizon)
	r.Depreciation.Base = mathutil.Round(m.Depreciation.Base)
	r.Depreciation.AnnualAmount = mathutil.Round(m.Depreciation.AnnualAmount)
	r.Scenario = m.Scenario.rounded()
	return r
}

func (im IncomeMetrics) rounded() IncomeMetrics {
	return IncomeMetrics{
		GrossIncomeMo:     mathutil.Round(im.GrossIncomeMo),
		WarmRentMo:        mathutil.Round(im.WarmRentMo),
		NonRecoverableMo:  mathutil.Round(im.NonRecoverableMo),
		NetIncomeMo:       mathutil.Round(im.NetIncomeMo),
		YieldGrossPct:     mathutil.Round(im.YieldGrossPct),
		YieldNetPct:       mathutil.Round(im.YieldNetPct),
		Multiplier:        mathutil.Round(im.Multiplier),
		EquityYieldPct:    mathutil.Round(im.EquityYieldPct),
		AnnuityMo:         mathutil.Round(im.AnnuityMo),
		TaxableIncomePA:   mathutil.Round(im.TaxableIncomePA),
		TaxMo:             mathutil.Round(im.TaxMo),
		CashflowPreTaxMo:  mathutil.Round(im.CashflowPreTaxMo),
		CashflowPostTaxMo: mathutil.Round(im.CashflowPostTaxMo),
	}
}

func (lm LoanMetrics) rounded() LoanMetrics {
	lm.Amount = mathutil.Round(lm.Amount)
	lm.MonthlyPayment = mathutil.Round(lm.MonthlyPayment)
	lm.AnnualInterest = mathutil.Round(lm.AnnualInterest)
	lm.BalanceAtHorizon = mathutil.Round(lm.BalanceAtHorizon)
	lm.NewAnnuityMo = mathutil.Round(lm.NewAnnuityMo)
	return lm
}

func (sm ScenarioMetrics) rounded() ScenarioMetrics {
	sm.FutureIncomePA = mathutil.Round(sm.FutureIncomePA)
	sm.FutureDepreciation = mathutil.Round(sm.FutureDepreciation)
	sm.InterestPA = mathutil.Round(sm.InterestPA)
	sm.NewAnnuityMo = mathutil.Round(sm.NewAnnuityMo)
	sm.ProjectedIncomeMo = mathutil.Round(sm.ProjectedIncomeMo)
	sm.ProjectedTaxableIncomePA = mathutil.Round(sm.ProjectedTaxableIncomePA)
	sm.ProjectedTaxMo = mathutil.Round(sm.ProjectedTaxMo)
	sm.ProjectedCashflowPreTaxMo = mathutil.Round(sm.ProjectedCashflowPreTaxMo)
	sm.ProjectedCashflowPostTaxMo = mathutil.Round(sm.ProjectedCashflowPostTaxMo)
	return sm
}
