package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report Report) error {
	p := message.NewPrinter(language.German)
	m := report.Metrics.Rounded()
	ew := &errWriter{w: w}

	title := "Deal analysis"
	if report.Name != "" {
		title = fmt.Sprintf("Deal analysis: %s", report.Name)
	}
	ew.printf("=== %s ===\n", title)

	section := ""
	for _, l := range metricLines(m) {
		if l.section != section {
			section = l.section
			ew.printf("\n--- %s ---\n", section)
		}
		ew.printf("%-38s %s\n", l.label, prettyValue(p, l))
	}
	if m.Soll == nil {
		ew.printf("\n--- SOLL ---\nno target income entered\n")
	}

	if len(m.Loans) > 0 {
		ew.printf("\n--- Loans ---\n")
		ew.printf("%-16s | %14s | %13s | %12s | %5s | %16s | %14s\n",
			"Name", "Amount", "Interest p.a.", "Payment/mo", "Years", "Balance@horizon", "New annuity/mo")
		for _, loan := range m.Loans {
			ew.printf("%-16s | %14s | %13s | %12s | %5d | %16s | %14s\n",
				loan.Name,
				p.Sprintf("%.2f €", loan.Amount),
				p.Sprintf("%.2f €", loan.AnnualInterest),
				p.Sprintf("%.2f €", loan.MonthlyPayment),
				loan.FixedYears,
				p.Sprintf("%.2f €", loan.BalanceAtHorizon),
				p.Sprintf("%.2f €", loan.NewAnnuityMo),
			)
		}
	}

	if report.Debt != nil {
		ew.printf("\n--- Current debt as of %s ---\n", report.Debt.AsOf)
		for _, debt := range report.Debt.Loans {
			ew.printf("%-16s %3d months  %s\n", debt.Name, debt.MonthsElapsed, p.Sprintf("%.2f €", debt.Balance))
		}
		ew.printf("%-16s             %s\n", "Total", p.Sprintf("%.2f €", report.Debt.Total))
	}

	if len(report.Optimizations) > 0 {
		ew.printf("\n--- Break-even ---\n")
		for _, s := range report.Optimizations {
			status := "converged"
			if !s.Converged {
				status = "not converged"
			}
			ew.printf("%s: %s %s -> %s (%s basis, %s, %d iterations)\n",
				s.Name, s.Field, s.OriginalDisplay, s.ValueDisplay, s.Basis, status, s.Iterations)
			if len(s.Notes) > 0 {
				ew.printf("  note: %s\n", strings.Join(s.Notes, "; "))
			}
		}
	}

	if len(report.Warnings) > 0 {
		ew.printf("\n--- Warnings ---\n")
		for _, warning := range report.Warnings {
			ew.printf("- %s\n", warning)
		}
	}

	return ew.err
}

func prettyValue(p *message.Printer, l line) string {
	switch l.kind {
	case kindPercent:
		return p.Sprintf("%.2f %%", l.value)
	case kindFactor:
		return p.Sprintf("%.2f", l.value)
	case kindYears:
		return p.Sprintf("%.0f years", l.value)
	default:
		return p.Sprintf("%.2f €", l.value)
	}
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
