// Package finance provides the calculators behind a buy-and-hold deal analysis:
// acquisition costs, income and yields, tax burden and cashflow.
//
// Money is a plain float64 in a single currency and percentages are plain
// numbers (5 means 5%). The calculators never round and never fail; degenerate
// inputs produce zero or clamped results.
package finance

// AcquisitionInputs holds the purchase price, the transaction cost rates
// applied to it, and planned renovation spend.
type AcquisitionInputs struct {
	PurchasePrice   float64
	TransferTaxRate float64
	BrokerRate      float64
	NotaryRate      float64
	RegistryRate    float64
	RenovationCosts float64
}

// Acquisition is the result of CalculateAcquisition.
type Acquisition struct {
	AcquisitionCosts float64
	TotalInvestment  float64
}

// CostRate returns the sum of all transaction cost rates.
func (in AcquisitionInputs) CostRate() float64 {
	return in.TransferTaxRate + in.BrokerRate + in.NotaryRate + in.RegistryRate
}

// CalculateAcquisition derives transaction costs and the total investment.
func CalculateAcquisition(in AcquisitionInputs) Acquisition {
	costs := in.PurchasePrice * in.CostRate() / 100
	return Acquisition{
		AcquisitionCosts: costs,
		TotalInvestment:  in.PurchasePrice + costs + in.RenovationCosts,
	}
}
