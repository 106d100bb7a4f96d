// Package testutil provides shared fixtures and assertions for tests.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
)

// SampleDeal returns a two-loan deal with both IST and SOLL income.
func SampleDeal() analysis.DealInput {
	return analysis.DealInput{
		PurchasePrice:   300000,
		TransferTaxRate: 5,
		BrokerRate:      3.57,
		NotaryRate:      1.5,
		RegistryRate:    0.5,
		RenovationCosts: 20000,
		ColdRentIst:     1000,
		GarageIst:       50,
		OtherCostsIst:   200,
		ColdRentSoll:    1200,
		GarageSoll:      60,
		OtherCostsSoll:  220,
		Housegeld:       150,
		Reserves:        50,
		Equity:          60000,
		Loans: []loans.Loan{
			{Name: "Bank A", Amount: 200000, InterestRate: 3.5, RepaymentRate: 2, FixedYears: 10, StartDate: "2024-01"},
			{Name: "KfW", Amount: 90000, InterestRate: 2.5, RepaymentRate: 3, FixedYears: 15, StartDate: "2024-01"},
		},
		AfaRate:         2,
		BuildingShare:   80,
		MarginalTaxRate: 42,
		TargetYear:      3,
	}
}

// SampleScenario returns refinancing terms for SampleDeal.
func SampleScenario() analysis.ScenarioInput {
	return analysis.ScenarioInput{
		RentGrowthRate:   1.5,
		NewInterestRate:  4.5,
		NewRepaymentRate: 2,
	}
}

// FindLoan finds a loan's metrics by name.
// Returns a pointer to the metrics if found, nil otherwise.
func FindLoan(metrics []analysis.LoanMetrics, name string) *analysis.LoanMetrics {
	for i := range metrics {
		if metrics[i].Name == name {
			return &metrics[i]
		}
	}
	return nil
}

// AssertClose fails the test when got and want differ by more than tolerance.
func AssertClose(t testing.TB, label string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %.6f, want %.6f (tolerance %g)", label, got, want, tolerance)
	}
}
