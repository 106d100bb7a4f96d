package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX workbook.
const (
	SheetSummary   = "Summary"
	SheetLoans     = "Loans"
	SheetDebt      = "Debt"
	SheetBreakEven = "Break-even"
)

// Excel built-in number formats.
const (
	numFmtMoney   = 4  // #,##0.00
	numFmtPercent = 10 // 0.00%
)

// XLSXFormat writes the report as an Excel workbook.
func XLSXFormat(w io.Writer, report Report) error {
	f, err := BuildWorkbook(report)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook renders the report into a new workbook.
func BuildWorkbook(report Report) (*excelize.File, error) {
	m := report.Metrics.Rounded()
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, err
	}
	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtPercent})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(SheetSummary, "A1", &[]interface{}{"Section", "Metric", "Value"}); err != nil {
		return nil, err
	}
	for i, l := range metricLines(m) {
		row := i + 2
		value := l.value
		style := moneyStyle
		switch l.kind {
		case kindPercent:
			value = l.value / 100
			style = percentStyle
		case kindFactor, kindYears:
			style = 0
		}
		if err := f.SetSheetRow(SheetSummary, cell(1, row), &[]interface{}{l.section, l.label, value}); err != nil {
			return nil, err
		}
		if style != 0 {
			if err := f.SetCellStyle(SheetSummary, cell(3, row), cell(3, row), style); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "B", 36); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetLoans); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SheetLoans, "A1", &[]interface{}{
		"Name", "Amount", "Payment / month", "Interest p.a.", "Fixed years", "Balance at horizon", "New annuity / month",
	}); err != nil {
		return nil, err
	}
	for i, loan := range m.Loans {
		row := i + 2
		if err := f.SetSheetRow(SheetLoans, cell(1, row), &[]interface{}{
			loan.Name, loan.Amount, loan.MonthlyPayment, loan.AnnualInterest, loan.FixedYears, loan.BalanceAtHorizon, loan.NewAnnuityMo,
		}); err != nil {
			return nil, err
		}
	}

	if report.Debt != nil {
		if _, err := f.NewSheet(SheetDebt); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetDebt, "A1", &[]interface{}{"Name", "Start", "Months elapsed", "Balance"}); err != nil {
			return nil, err
		}
		for i, debt := range report.Debt.Loans {
			if err := f.SetSheetRow(SheetDebt, cell(1, i+2), &[]interface{}{
				debt.Name, debt.StartDate, debt.MonthsElapsed, roundMoney(debt.Balance),
			}); err != nil {
				return nil, err
			}
		}
		totalRow := len(report.Debt.Loans) + 2
		if err := f.SetSheetRow(SheetDebt, cell(1, totalRow), &[]interface{}{"Total", report.Debt.AsOf, nil, roundMoney(report.Debt.Total)}); err != nil {
			return nil, err
		}
	}

	if len(report.Optimizations) > 0 {
		if _, err := f.NewSheet(SheetBreakEven); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetBreakEven, "A1", &[]interface{}{
			"Name", "Field", "Metric", "Basis", "Original", "Value", "Floor", "Achieved", "Converged", "Notes",
		}); err != nil {
			return nil, err
		}
		for i, s := range report.Optimizations {
			notes := ""
			if len(s.Notes) > 0 {
				notes = s.Notes[0]
			}
			if err := f.SetSheetRow(SheetBreakEven, cell(1, i+2), &[]interface{}{
				s.Name, s.Field, s.Metric, s.Basis, s.Original, s.Value, s.Floor, s.Achieved, s.Converged, notes,
			}); err != nil {
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// Only reachable with non-positive coordinates.
		panic(err)
	}
	return name
}
