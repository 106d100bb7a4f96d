package testutil

import (
	"testing"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
)

func TestFindLoan(t *testing.T) {
	metrics := []analysis.LoanMetrics{
		{Name: "Bank A", Amount: 200000},
		{Name: "KfW", Amount: 90000},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
		wantAmount  float64
	}{
		{"first loan", "Bank A", true, 200000},
		{"second loan", "KfW", true, 90000},
		{"missing loan", "Bank B", false, 0},
		{"empty name", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindLoan(metrics, tt.searchName)
			if (got != nil) != tt.expectFound {
				t.Fatalf("FindLoan(%q) found = %v, want %v", tt.searchName, got != nil, tt.expectFound)
			}
			if got != nil && got.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
		})
	}

	t.Run("returns pointer into slice", func(t *testing.T) {
		got := FindLoan(metrics, "KfW")
		got.Amount = 1
		if metrics[1].Amount != 1 {
			t.Error("expected FindLoan to return a pointer into the original slice")
		}
	})

	if FindLoan(nil, "Bank A") != nil {
		t.Error("expected nil for a nil slice")
	}
}

func TestSampleDealIsIndependent(t *testing.T) {
	a := SampleDeal()
	b := SampleDeal()
	a.Loans[0].Amount = 1
	if b.Loans[0].Amount == 1 {
		t.Error("SampleDeal must return fresh loan slices")
	}
	if !a.SollHasValues() {
		t.Error("SampleDeal is expected to carry SOLL income")
	}
	if len(a.Loans) != 2 {
		t.Errorf("expected 2 loans, got %d", len(a.Loans))
	}
}

func TestAssertClose(t *testing.T) {
	AssertClose(t, "within tolerance", 1.004, 1.0, 0.01)
}
