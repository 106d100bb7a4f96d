// Package loans provides the flat-payment amortization simulator used by the
// deal analysis engine.
package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/datetime"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
	"go.uber.org/zap"
)

// Loan is one tranche of a deal's financing. Rates are plain percentages,
// e.g. 3.5 for 3.5%.
type Loan struct {
	Name           string  `json:"name,omitempty" yaml:"name,omitempty"`
	Amount         float64 `json:"amount" yaml:"amount"`
	InterestRate   float64 `json:"interestRate" yaml:"interestRate"`
	RepaymentRate  float64 `json:"repaymentRate" yaml:"repaymentRate"`
	FixedYears     int     `json:"fixedYears" yaml:"fixedYears"`
	MonthlyPayment float64 `json:"monthlyPayment,omitempty" yaml:"monthlyPayment,omitempty"` // declared fixed payment, 0 derives it
	StartDate      string  `json:"startDate,omitempty" yaml:"startDate,omitempty"`           // YYYY-MM, only used for current debt
}

// Payment holds the values for a given month of the schedule.
type Payment struct {
	Month              int     `json:"month"`
	Date               string  `json:"date,omitempty"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// FlatPayment returns the monthly payment of the loan. A declared payment wins;
// otherwise it is derived once from the initial amount and rates and does not
// change as the principal amortizes.
func (l Loan) FlatPayment() float64 {
	if l.MonthlyPayment != 0 {
		return l.MonthlyPayment
	}
	return l.Amount * (l.InterestRate + l.RepaymentRate) / constants.PercentageMultiplier / constants.MonthsPerYear
}

// AnnualAnnuity returns twelve flat payments.
func (l Loan) AnnualAnnuity() float64 {
	return mathutil.Annual(l.FlatPayment())
}

// AnnualInterest returns the nominal annual interest on the original amount at
// the original rate.
func (l Loan) AnnualInterest() float64 {
	return mathutil.ApplyPercentage(l.Amount, l.InterestRate)
}

// HorizonMonths returns the rate-lock period in months.
func (l Loan) HorizonMonths() int {
	if l.FixedYears <= 0 {
		return 0
	}
	return l.FixedYears * constants.MonthsPerYear
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// step advances the balance by one month. A repaid loan stays repaid and takes
// no further payments.
func step(balance, payment, annualInterestRate float64) Payment {
	if balance == 0 {
		return Payment{}
	}
	interest := CalculateInterestPayment(balance, annualInterestRate)
	principal := payment - interest
	remaining := mathutil.NonNegative(balance - principal)
	if remaining == 0 {
		principal = balance
		payment = interest + principal
	}
	return Payment{
		Payment:            payment,
		Principal:          principal,
		Interest:           interest,
		RemainingPrincipal: remaining,
	}
}

// BalanceAfter simulates the loan for the given number of months and returns
// the remaining balance. Non-positive month counts return the original amount.
func BalanceAfter(loan Loan, months int) float64 {
	balance := loan.Amount
	payment := loan.FlatPayment()
	for month := 1; month <= months; month++ {
		balance = step(balance, payment, loan.InterestRate).RemainingPrincipal
	}
	return balance
}

// BalanceAtHorizon returns the remaining balance when the loan's own rate lock ends.
func BalanceAtHorizon(loan Loan) float64 {
	return BalanceAfter(loan, loan.HorizonMonths())
}

// Simulate returns the month-by-month schedule for the given number of months.
func Simulate(loan Loan, months int) []Payment {
	if months <= 0 {
		return nil
	}
	schedule := make([]Payment, 0, months)
	balance := loan.Amount
	payment := loan.FlatPayment()
	for month := 1; month <= months; month++ {
		p := step(balance, payment, loan.InterestRate)
		p.Month = month
		schedule = append(schedule, p)
		balance = p.RemainingPrincipal
	}
	return schedule
}

// CurrentDebt evaluates the remaining balance after the whole months elapsed
// between the loan's start date and now. Loans without a start date, or
// starting in the future, report their original amount.
func CurrentDebt(loan Loan, now time.Time) (float64, error) {
	months, err := ElapsedMonths(loan, now)
	if err != nil {
		return 0, err
	}
	return BalanceAfter(loan, months), nil
}

// ElapsedMonths returns the whole months paid on the loan by now, 0 when the
// loan has no start date or starts in the future.
func ElapsedMonths(loan Loan, now time.Time) (int, error) {
	if loan.StartDate == "" {
		return 0, nil
	}
	months, err := datetime.MonthsElapsed(loan.StartDate, now)
	if err != nil {
		return 0, fmt.Errorf("loan %s: %w", loan.Name, err)
	}
	return months, nil
}

// ScheduleGenerator produces labelled amortization schedules for display.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule simulates the loan over the given months. When the loan has
// a start date each payment is labelled with its YYYY-MM date, the first
// payment falling one month after the start.
func (g *ScheduleGenerator) GenerateSchedule(loan Loan, months int) ([]Payment, error) {
	schedule := Simulate(loan, months)

	if loan.StartDate != "" {
		for i := range schedule {
			date, err := datetime.OffsetDate(loan.StartDate, datetime.DateTimeLayout, schedule[i].Month)
			if err != nil {
				return nil, fmt.Errorf("loan %s: invalid start date %q: %w", loan.Name, loan.StartDate, err)
			}
			schedule[i].Date = date
		}
	}

	for _, p := range schedule {
		if p.RemainingPrincipal == 0 && p.Payment > 0 {
			g.logger.Debug(fmt.Sprintf("loan %s repaid in month %d", loan.Name, p.Month),
				zap.String("op", "loans.GenerateSchedule"),
				zap.Float64("finalPayment", p.Payment),
			)
			break
		}
	}

	return schedule, nil
}
