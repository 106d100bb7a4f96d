// Package analysis runs the buy-and-hold deal analysis: acquisition costs,
// IST and SOLL income, tax, cashflow and the projection past the rate lock.
package analysis

import (
	"github.com/iwvelando/deal-analyzer/pkg/finance"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
)

// DealInput describes a candidate purchase, its income and its financing.
// Money is in a single currency, rent and operating costs are monthly, and
// rates are plain percentages.
type DealInput struct {
	PurchasePrice   float64 `json:"purchasePrice" yaml:"purchasePrice"`
	TransferTaxRate float64 `json:"transferTaxRate" yaml:"transferTaxRate"`
	BrokerRate      float64 `json:"brokerRate" yaml:"brokerRate"`
	NotaryRate      float64 `json:"notaryRate" yaml:"notaryRate"`
	RegistryRate    float64 `json:"registryRate" yaml:"registryRate"`
	RenovationCosts float64 `json:"renovationCosts" yaml:"renovationCosts"`

	ColdRentIst   float64 `json:"coldRentIst" yaml:"coldRentIst"`
	GarageIst     float64 `json:"garageIst" yaml:"garageIst"`
	OtherCostsIst float64 `json:"otherCostsIst" yaml:"otherCostsIst"`

	ColdRentSoll   float64 `json:"coldRentSoll" yaml:"coldRentSoll"`
	GarageSoll     float64 `json:"garageSoll" yaml:"garageSoll"`
	OtherCostsSoll float64 `json:"otherCostsSoll" yaml:"otherCostsSoll"`

	Housegeld float64 `json:"housegeld" yaml:"housegeld"`
	Reserves  float64 `json:"reserves" yaml:"reserves"`

	Equity float64      `json:"equity" yaml:"equity"`
	Loans  []loans.Loan `json:"loans" yaml:"loans"`

	AfaRate         float64 `json:"afaRate" yaml:"afaRate"`
	BuildingShare   float64 `json:"buildingShare" yaml:"buildingShare"` // carried through, not used by the tax formula
	MarginalTaxRate float64 `json:"marginalTaxRate" yaml:"marginalTaxRate"`

	TargetYear int `json:"targetYear" yaml:"targetYear"`
}

// ScenarioInput holds the terms assumed for every loan's outstanding balance
// once its rate lock ends.
type ScenarioInput struct {
	RentGrowthRate   float64 `json:"rentGrowthRate" yaml:"rentGrowthRate"`
	NewInterestRate  float64 `json:"newInterestRate" yaml:"newInterestRate"`
	NewRepaymentRate float64 `json:"newRepaymentRate" yaml:"newRepaymentRate"`
}

// Clone returns a copy that shares no memory with d.
func (d DealInput) Clone() DealInput {
	clone := d
	if d.Loans != nil {
		clone.Loans = make([]loans.Loan, len(d.Loans))
		copy(clone.Loans, d.Loans)
	}
	return clone
}

// Acquisition returns the inputs of the acquisition cost calculator.
func (d DealInput) Acquisition() finance.AcquisitionInputs {
	return finance.AcquisitionInputs{
		PurchasePrice:   d.PurchasePrice,
		TransferTaxRate: d.TransferTaxRate,
		BrokerRate:      d.BrokerRate,
		NotaryRate:      d.NotaryRate,
		RegistryRate:    d.RegistryRate,
		RenovationCosts: d.RenovationCosts,
	}
}

// IstIncome returns the current income with the non-recoverable costs.
func (d DealInput) IstIncome() finance.IncomeInputs {
	return finance.IncomeInputs{
		ColdRent:   d.ColdRentIst,
		Garage:     d.GarageIst,
		OtherCosts: d.OtherCostsIst,
		Housegeld:  d.Housegeld,
		Reserves:   d.Reserves,
	}
}

// SollHasValues reports whether a target income was entered at all.
func (d DealInput) SollHasValues() bool {
	return d.ColdRentSoll+d.GarageSoll > 0
}

// SollIncome returns the target income. Non-recoverable costs only apply
// when the target income is active.
func (d DealInput) SollIncome() finance.IncomeInputs {
	in := finance.IncomeInputs{
		ColdRent:   d.ColdRentSoll,
		Garage:     d.GarageSoll,
		OtherCosts: d.OtherCostsSoll,
	}
	if d.SollHasValues() {
		in.Housegeld = d.Housegeld
		in.Reserves = d.Reserves
	}
	return in
}

// HorizonYears returns the longest rate lock across all loans, 0 without loans.
func (d DealInput) HorizonYears() int {
	horizon := 0
	for _, loan := range d.Loans {
		if loan.FixedYears > horizon {
			horizon = loan.FixedYears
		}
	}
	return horizon
}
