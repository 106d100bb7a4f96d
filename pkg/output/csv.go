package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CsvFormat outputs in comma-separated value format: one row per figure
// with section, metric and value, followed by per-loan rows.
func CsvFormat(w io.Writer, report Report) error {
	m := report.Metrics.Rounded()
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"section", "metric", "value"}); err != nil {
		return err
	}
	for _, l := range metricLines(m) {
		if err := cw.Write([]string{l.section, l.label, csvValue(l.value)}); err != nil {
			return err
		}
	}
	for i, loan := range m.Loans {
		name := loan.Name
		if name == "" {
			name = fmt.Sprintf("loan %d", i+1)
		}
		rows := [][]string{
			{"Loan " + name, "Amount", csvValue(loan.Amount)},
			{"Loan " + name, "Payment / month", csvValue(loan.MonthlyPayment)},
			{"Loan " + name, "Interest p.a.", csvValue(loan.AnnualInterest)},
			{"Loan " + name, "Fixed years", strconv.Itoa(loan.FixedYears)},
			{"Loan " + name, "Balance at horizon", csvValue(loan.BalanceAtHorizon)},
			{"Loan " + name, "New annuity / month", csvValue(loan.NewAnnuityMo)},
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
	}
	for _, s := range report.Optimizations {
		if err := cw.Write([]string{"Break-even " + s.Name, s.Field, csvValue(s.Value)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvValue(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
