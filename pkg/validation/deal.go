package validation

import (
	"fmt"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/datetime"
	"github.com/iwvelando/deal-analyzer/pkg/finance"
	"go.uber.org/multierr"
)

// ValidateDeal checks a deal and scenario at the boundary of the engine and
// returns every violation combined into one error. The engine itself accepts
// any input.
func ValidateDeal(deal analysis.DealInput, scenario analysis.ScenarioInput) error {
	var err error

	money := []struct {
		name  string
		value float64
	}{
		{"purchasePrice", deal.PurchasePrice},
		{"renovationCosts", deal.RenovationCosts},
		{"coldRentIst", deal.ColdRentIst},
		{"garageIst", deal.GarageIst},
		{"otherCostsIst", deal.OtherCostsIst},
		{"coldRentSoll", deal.ColdRentSoll},
		{"garageSoll", deal.GarageSoll},
		{"otherCostsSoll", deal.OtherCostsSoll},
		{"housegeld", deal.Housegeld},
		{"reserves", deal.Reserves},
		{"equity", deal.Equity},
	}
	for _, m := range money {
		err = multierr.Append(err, nonNegative(m.name, m.value))
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"transferTaxRate", deal.TransferTaxRate},
		{"brokerRate", deal.BrokerRate},
		{"notaryRate", deal.NotaryRate},
		{"registryRate", deal.RegistryRate},
		{"afaRate", deal.AfaRate},
		{"buildingShare", deal.BuildingShare},
		{"marginalTaxRate", deal.MarginalTaxRate},
		{"scenario.rentGrowthRate", scenario.RentGrowthRate},
		{"scenario.newInterestRate", scenario.NewInterestRate},
		{"scenario.newRepaymentRate", scenario.NewRepaymentRate},
	}
	for _, r := range rates {
		err = multierr.Append(err, rate(r.name, r.value))
	}

	if deal.TargetYear < 0 {
		err = multierr.Append(err, fmt.Errorf("targetYear must not be negative, got %d", deal.TargetYear))
	}

	for i, loan := range deal.Loans {
		prefix := fmt.Sprintf("loans[%d]", i)
		if loan.Name != "" {
			prefix = fmt.Sprintf("loans[%d] (%s)", i, loan.Name)
		}
		err = multierr.Append(err, nonNegative(prefix+".amount", loan.Amount))
		err = multierr.Append(err, rate(prefix+".interestRate", loan.InterestRate))
		err = multierr.Append(err, rate(prefix+".repaymentRate", loan.RepaymentRate))
		err = multierr.Append(err, nonNegative(prefix+".monthlyPayment", loan.MonthlyPayment))
		if loan.FixedYears <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s.fixedYears must be positive, got %d", prefix, loan.FixedYears))
		}
		if loan.StartDate != "" {
			if _, parseErr := datetime.ParseMonth(loan.StartDate); parseErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s.startDate: %w", prefix, parseErr))
			}
		}
	}

	return err
}

// DealWarnings returns non-fatal observations about a deal.
func DealWarnings(deal analysis.DealInput) []string {
	var warnings []string

	if deal.SollHasValues() {
		ist := deal.IstIncome().GrossMonthly()
		soll := deal.SollIncome().GrossMonthly()
		if soll < ist {
			warnings = append(warnings, fmt.Sprintf("SOLL income (%.2f) is below IST income (%.2f)", soll, ist))
		}
	}

	threshold := deal.PurchasePrice * constants.RenovationDepreciationThreshold
	if deal.RenovationCosts > 0 && deal.RenovationCosts == threshold {
		warnings = append(warnings, fmt.Sprintf(
			"renovation costs of %.2f sit exactly at the %.0f%% threshold and are not added to the depreciation base",
			deal.RenovationCosts, constants.RenovationDepreciationThreshold*constants.PercentageMultiplier))
	}

	acq := finance.CalculateAcquisition(deal.Acquisition())
	if deal.Equity > acq.TotalInvestment && acq.TotalInvestment > 0 {
		warnings = append(warnings, fmt.Sprintf("equity (%.2f) exceeds the total investment (%.2f)", deal.Equity, acq.TotalInvestment))
	}

	if len(deal.Loans) > 0 && deal.TargetYear > deal.HorizonYears() {
		warnings = append(warnings, fmt.Sprintf("targetYear %d lies after the last rate lock ends (year %d); projected rent does not grow",
			deal.TargetYear, deal.HorizonYears()))
	}

	for _, loan := range deal.Loans {
		if loan.MonthlyPayment > 0 && loan.MonthlyPayment <= loan.Amount*loan.InterestRate/constants.PercentageMultiplier/constants.MonthsPerYear {
			warnings = append(warnings, fmt.Sprintf("loan '%s' has a monthly payment that does not cover its interest", loan.Name))
		}
	}

	return warnings
}

func nonNegative(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %.2f", name, value)
	}
	return nil
}

func rate(name string, value float64) error {
	if value < 0 || value > constants.MaxRatePercent {
		return fmt.Errorf("%s must be between 0 and %.0f, got %.2f", name, constants.MaxRatePercent, value)
	}
	return nil
}
