package analysis

import (
	"time"

	"github.com/iwvelando/deal-analyzer/pkg/datetime"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
)

// LoanDebt is the remaining balance of one loan at the report date.
type LoanDebt struct {
	Name          string  `json:"name,omitempty"`
	Amount        float64 `json:"amount"`
	StartDate     string  `json:"startDate,omitempty"`
	MonthsElapsed int     `json:"monthsElapsed"`
	Balance       float64 `json:"balance"`
}

// DebtReport lists the Restschuld of every loan, in input order, and the total.
type DebtReport struct {
	AsOf  string     `json:"asOf"`
	Loans []LoanDebt `json:"loans"`
	Total float64    `json:"total"`
}

// CurrentDebt evaluates every loan's remaining balance after the whole months
// elapsed since its start date.
func CurrentDebt(financing []loans.Loan, now time.Time) (DebtReport, error) {
	report := DebtReport{
		AsOf:  now.Format(datetime.DateTimeLayout),
		Loans: make([]LoanDebt, 0, len(financing)),
	}

	for _, loan := range financing {
		months, err := loans.ElapsedMonths(loan, now)
		if err != nil {
			return DebtReport{}, err
		}
		balance := loans.BalanceAfter(loan, months)
		report.Loans = append(report.Loans, LoanDebt{
			Name:          loan.Name,
			Amount:        loan.Amount,
			StartDate:     loan.StartDate,
			MonthsElapsed: months,
			Balance:       balance,
		})
		report.Total += balance
	}

	return report, nil
}
