package analysis_test

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
	"github.com/iwvelando/deal-analyzer/pkg/testutil"
	"go.uber.org/zap"
)

const tol = 1e-6

func TestAnalyzeSampleDeal(t *testing.T) {
	m := analysis.Analyze(testutil.SampleDeal(), testutil.SampleScenario())

	testutil.AssertClose(t, "AcquisitionCosts", m.AcquisitionCosts, 31710, tol)
	testutil.AssertClose(t, "TotalInvestment", m.TotalInvestment, 351710, tol)
	testutil.AssertClose(t, "TotalInterestPA", m.TotalInterestPA, 9250, tol)
	testutil.AssertClose(t, "Depreciation.AnnualAmount", m.Depreciation.AnnualAmount, 7034.2, tol)
	if m.Depreciation.RenovationIncluded {
		t.Error("renovation of 20000 on 300000 must not enter the depreciation base")
	}

	t.Run("ist", func(t *testing.T) {
		testutil.AssertClose(t, "GrossIncomeMo", m.Ist.GrossIncomeMo, 1050, tol)
		testutil.AssertClose(t, "WarmRentMo", m.Ist.WarmRentMo, 1250, tol)
		testutil.AssertClose(t, "NetIncomeMo", m.Ist.NetIncomeMo, 850, tol)
		testutil.AssertClose(t, "YieldGrossPct", m.Ist.YieldGrossPct, 4.2, tol)
		testutil.AssertClose(t, "YieldNetPct", m.Ist.YieldNetPct, 2.900116573313241, tol)
		testutil.AssertClose(t, "Multiplier", m.Ist.Multiplier, 23.80952380952381, tol)
		testutil.AssertClose(t, "AnnuityMo", m.Ist.AnnuityMo, 1329.1666666666667, tol)
		testutil.AssertClose(t, "TaxableIncomePA", m.Ist.TaxableIncomePA, -5484.2, tol)
		if m.Ist.TaxMo != 0 {
			t.Errorf("TaxMo = %v, want 0", m.Ist.TaxMo)
		}
		testutil.AssertClose(t, "CashflowPreTaxMo", m.Ist.CashflowPreTaxMo, -479.1666666666667, tol)
		testutil.AssertClose(t, "CashflowPostTaxMo", m.Ist.CashflowPostTaxMo, -479.1666666666667, tol)
		testutil.AssertClose(t, "EquityYieldPct", m.Ist.EquityYieldPct, -9.583333333333334, tol)
	})

	t.Run("soll", func(t *testing.T) {
		if m.Soll == nil {
			t.Fatal("expected SOLL metrics")
		}
		testutil.AssertClose(t, "GrossIncomeMo", m.Soll.GrossIncomeMo, 1260, tol)
		testutil.AssertClose(t, "YieldGrossPct", m.Soll.YieldGrossPct, 5.04, tol)
		testutil.AssertClose(t, "NonRecoverableMo", m.Soll.NonRecoverableMo, 200, tol)
		// 15120 - 9250 - 7034.2 - 2400
		testutil.AssertClose(t, "TaxableIncomePA", m.Soll.TaxableIncomePA, -3564.2, tol)
		testutil.AssertClose(t, "CashflowPostTaxMo", m.Soll.CashflowPostTaxMo, -269.1666666666667, tol)
	})

	t.Run("loans keep input order", func(t *testing.T) {
		if len(m.Loans) != 2 || m.Loans[0].Name != "Bank A" || m.Loans[1].Name != "KfW" {
			t.Fatalf("unexpected loan order: %+v", m.Loans)
		}
		testutil.AssertClose(t, "Bank A balance", m.Loans[0].BalanceAtHorizon, 152189.16316721373, tol)
		testutil.AssertClose(t, "KfW balance", m.Loans[1].BalanceAtHorizon, 40922.212597143836, tol)
		testutil.AssertClose(t, "LoanBalanceAtHorizon", m.LoanBalanceAtHorizon, 193111.37576435757, tol)
	})

	t.Run("scenario", func(t *testing.T) {
		s := m.Scenario
		if s.Phase != analysis.PhasePostHorizon {
			t.Errorf("Phase = %q, want %q", s.Phase, analysis.PhasePostHorizon)
		}
		if s.HorizonYears != 15 || s.GrowthYears != 12 {
			t.Errorf("horizon/growth = %d/%d, want 15/12", s.HorizonYears, s.GrowthYears)
		}
		if s.IncomeBase != analysis.BaseSoll {
			t.Errorf("IncomeBase = %q, want %q", s.IncomeBase, analysis.BaseSoll)
		}
		testutil.AssertClose(t, "FutureIncomePA", s.FutureIncomePA, 18077.74675249839, tol)
		testutil.AssertClose(t, "FutureDepreciation", s.FutureDepreciation, 7034.2, tol)
		testutil.AssertClose(t, "InterestPA", s.InterestPA, 8690.011909396091, tol)
		testutil.AssertClose(t, "NewAnnuityMo", s.NewAnnuityMo, 1046.0199520569367, tol)
		testutil.AssertClose(t, "ProjectedTaxableIncomePA", s.ProjectedTaxableIncomePA, 553.5348431023003, tol)
		testutil.AssertClose(t, "ProjectedTaxMo", s.ProjectedTaxMo, 19.37371950858051, tol)
		testutil.AssertClose(t, "ProjectedCashflowPreTaxMo", s.ProjectedCashflowPreTaxMo, 260.45894398459586, tol)
		testutil.AssertClose(t, "ProjectedCashflowPostTaxMo", s.ProjectedCashflowPostTaxMo, 241.08522447601536, tol)
		testutil.AssertClose(t, "ProjectedIncomeMo", s.ProjectedIncomeMo, 18077.74675249839/12, tol)
	})
}

func TestZeroLoanDeal(t *testing.T) {
	deal := analysis.DealInput{
		PurchasePrice:   200000,
		ColdRentIst:     1000,
		Housegeld:       100,
		Reserves:        50,
		Equity:          200000,
		AfaRate:         2,
		MarginalTaxRate: 30,
	}

	m := analysis.Analyze(deal, testutil.SampleScenario())

	if m.Ist.AnnuityMo != 0 {
		t.Errorf("AnnuityMo = %v, want 0", m.Ist.AnnuityMo)
	}
	if m.LoanBalanceAtHorizon != 0 || m.HorizonYears != 0 {
		t.Errorf("balance/horizon = %v/%d, want 0/0", m.LoanBalanceAtHorizon, m.HorizonYears)
	}
	if len(m.Loans) != 0 {
		t.Errorf("expected no loan metrics, got %d", len(m.Loans))
	}
	// taxable 12000 - 4000 - 1200 = 6800, tax 2040 per year
	testutil.AssertClose(t, "TaxMo", m.Ist.TaxMo, 170, tol)
	testutil.AssertClose(t, "CashflowPostTaxMo", m.Ist.CashflowPostTaxMo, m.Ist.NetIncomeMo-m.Ist.TaxMo, tol)
	testutil.AssertClose(t, "CashflowPostTaxMo", m.Ist.CashflowPostTaxMo, 680, tol)

	if m.Scenario.NewAnnuityMo != 0 || m.Scenario.GrowthYears != 0 {
		t.Errorf("scenario without loans: %+v", m.Scenario)
	}
}

func TestSollDeductsReservesForTax(t *testing.T) {
	deal := analysis.DealInput{
		PurchasePrice:   200000,
		ColdRentIst:     1000,
		ColdRentSoll:    1200,
		Housegeld:       150,
		Reserves:        50,
		Equity:          200000,
		AfaRate:         2,
		MarginalTaxRate: 40,
	}

	m := analysis.Analyze(deal, analysis.ScenarioInput{})
	if m.Soll == nil {
		t.Fatal("expected SOLL metrics")
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		// IST: 12000 - 4000 - 150*12
		{"ist taxable", m.Ist.TaxableIncomePA, 6200},
		{"ist tax", m.Ist.TaxMo, 6200 * 0.4 / 12},
		// SOLL: 14400 - 4000 - (150+50)*12
		{"soll taxable", m.Soll.TaxableIncomePA, 8000},
		{"soll tax", m.Soll.TaxMo, 8000 * 0.4 / 12},
		{"soll cashflow", m.Soll.CashflowPostTaxMo, 1000 - 8000*0.4/12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertClose(t, tt.name, tt.got, tt.want, tol)
		})
	}
}

func TestSollOmission(t *testing.T) {
	deal := testutil.SampleDeal()
	deal.ColdRentSoll = 0
	deal.GarageSoll = 0
	deal.OtherCostsSoll = 300

	if deal.SollHasValues() {
		t.Fatal("other costs alone must not activate SOLL")
	}

	m := analysis.Analyze(deal, testutil.SampleScenario())
	if m.Soll != nil {
		t.Fatalf("expected nil SOLL metrics, got %+v", m.Soll)
	}
	if m.Scenario.IncomeBase != analysis.BaseIst {
		t.Errorf("IncomeBase = %q, want %q", m.Scenario.IncomeBase, analysis.BaseIst)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"soll"`) {
		t.Errorf("inactive SOLL must be absent from JSON: %s", data)
	}

	rounded := m.Rounded()
	if rounded.Soll != nil {
		t.Error("Rounded must keep SOLL absent")
	}
}

func TestSollGarageOnlyIsActive(t *testing.T) {
	deal := testutil.SampleDeal()
	deal.ColdRentSoll = 0
	deal.GarageSoll = 80

	m := analysis.Analyze(deal, testutil.SampleScenario())
	if m.Soll == nil {
		t.Fatal("expected SOLL metrics when only the garage rent is set")
	}
	testutil.AssertClose(t, "NonRecoverableMo", m.Soll.NonRecoverableMo, 200, tol)
}

func TestTaxIsClampedToZero(t *testing.T) {
	deal := analysis.DealInput{
		PurchasePrice:   300000,
		ColdRentIst:     500,
		Housegeld:       200,
		Equity:          50000,
		Loans:           []loans.Loan{{Amount: 250000, InterestRate: 4, RepaymentRate: 2, FixedYears: 10}},
		AfaRate:         2,
		MarginalTaxRate: 42,
	}

	m := analysis.Analyze(deal, analysis.ScenarioInput{NewInterestRate: 5, NewRepaymentRate: 2})

	if m.Ist.TaxableIncomePA >= 0 {
		t.Fatalf("expected a tax loss, got taxable income %v", m.Ist.TaxableIncomePA)
	}
	if m.Ist.TaxMo != 0 || math.Signbit(m.Ist.TaxMo) {
		t.Errorf("TaxMo = %v, want exactly 0", m.Ist.TaxMo)
	}
	if m.Scenario.ProjectedTaxMo < 0 {
		t.Errorf("ProjectedTaxMo = %v, must not be negative", m.Scenario.ProjectedTaxMo)
	}
}

func TestRenovationThreshold(t *testing.T) {
	tests := []struct {
		name       string
		renovation float64
		included   bool
	}{
		{"exactly fifteen percent", 30000, false},
		{"above fifteen percent", 30001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := analysis.DealInput{PurchasePrice: 200000, RenovationCosts: tt.renovation, AfaRate: 2}
			m := analysis.Analyze(deal, analysis.ScenarioInput{})

			if m.Depreciation.RenovationIncluded != tt.included {
				t.Errorf("RenovationIncluded = %v, want %v", m.Depreciation.RenovationIncluded, tt.included)
			}
			want := m.TotalInvestment
			if tt.included {
				want += tt.renovation
			}
			testutil.AssertClose(t, "Depreciation.Base", m.Depreciation.Base, want, tol)
		})
	}
}

func TestScenarioHorizonUsesEachLoansOwnLock(t *testing.T) {
	loanA := loans.Loan{Name: "A", Amount: 150000, InterestRate: 3, RepaymentRate: 2, FixedYears: 10}
	loanB := loans.Loan{Name: "B", Amount: 100000, InterestRate: 4, RepaymentRate: 3, FixedYears: 15}
	deal := analysis.DealInput{PurchasePrice: 300000, ColdRentIst: 1200, Loans: []loans.Loan{loanA, loanB}}

	m := analysis.Analyze(deal, analysis.ScenarioInput{NewInterestRate: 5, NewRepaymentRate: 2})

	if m.HorizonYears != 15 || m.Scenario.HorizonYears != 15 {
		t.Fatalf("HorizonYears = %d/%d, want 15", m.HorizonYears, m.Scenario.HorizonYears)
	}

	wantA := loans.BalanceAfter(loanA, 120)
	wantB := loans.BalanceAfter(loanB, 180)
	if m.Loans[0].BalanceAtHorizon != wantA {
		t.Errorf("loan A balance = %v, want %v (120 months)", m.Loans[0].BalanceAtHorizon, wantA)
	}
	if m.Loans[1].BalanceAtHorizon != wantB {
		t.Errorf("loan B balance = %v, want %v (180 months)", m.Loans[1].BalanceAtHorizon, wantB)
	}
	if m.Loans[0].BalanceAtHorizon == loans.BalanceAfter(loanA, 180) {
		t.Error("loan A must not be amortized over the shared horizon")
	}
	testutil.AssertClose(t, "LoanBalanceAtHorizon", m.LoanBalanceAtHorizon, wantA+wantB, tol)
	testutil.AssertClose(t, "NewAnnuityMo", m.Scenario.NewAnnuityMo, (wantA+wantB)*0.07/12, tol)
}

func TestScenarioGrowthAndDepreciation(t *testing.T) {
	base := analysis.DealInput{
		PurchasePrice: 200000,
		ColdRentIst:   1000,
		Loans:         []loans.Loan{{Amount: 100000, InterestRate: 3, RepaymentRate: 2, FixedYears: 10}},
		AfaRate:       2,
	}

	t.Run("target year after horizon", func(t *testing.T) {
		deal := base.Clone()
		deal.TargetYear = 12
		m := analysis.Analyze(deal, analysis.ScenarioInput{RentGrowthRate: 2})
		if m.Scenario.GrowthYears != 0 {
			t.Errorf("GrowthYears = %d, want 0", m.Scenario.GrowthYears)
		}
		testutil.AssertClose(t, "FutureIncomePA", m.Scenario.FutureIncomePA, 12000, tol)
	})

	t.Run("compound growth", func(t *testing.T) {
		deal := base.Clone()
		deal.TargetYear = 2
		m := analysis.Analyze(deal, analysis.ScenarioInput{RentGrowthRate: 2})
		if m.Scenario.GrowthYears != 8 {
			t.Errorf("GrowthYears = %d, want 8", m.Scenario.GrowthYears)
		}
		testutil.AssertClose(t, "FutureIncomePA", m.Scenario.FutureIncomePA, 12000*math.Pow(1.02, 8), tol)
	})

	t.Run("depreciation exhausted", func(t *testing.T) {
		deal := base.Clone()
		deal.AfaRate = 10
		m := analysis.Analyze(deal, analysis.ScenarioInput{})
		if m.Scenario.FutureDepreciation != 0 {
			t.Errorf("FutureDepreciation = %v, want 0", m.Scenario.FutureDepreciation)
		}
	})

	t.Run("depreciation capped by remaining base", func(t *testing.T) {
		deal := base.Clone()
		deal.AfaRate = 9.5
		m := analysis.Analyze(deal, analysis.ScenarioInput{})
		// 200000 - 19000*10 = 10000 left, less than a full year
		testutil.AssertClose(t, "FutureDepreciation", m.Scenario.FutureDepreciation, 10000, tol)
	})
}

func TestAnalyzeIsIdempotentAndPure(t *testing.T) {
	deal := testutil.SampleDeal()
	scenario := testutil.SampleScenario()
	snapshot := deal.Clone()

	first := analysis.Analyze(deal, scenario)
	second := analysis.Analyze(deal, scenario)

	if !reflect.DeepEqual(first, second) {
		t.Error("two analyses of the same input differ")
	}
	if !reflect.DeepEqual(deal, snapshot) {
		t.Error("Analyze mutated its input")
	}
}

func TestEngineMatchesAnalyze(t *testing.T) {
	deal := testutil.SampleDeal()
	scenario := testutil.SampleScenario()

	for _, engine := range []*analysis.Engine{analysis.NewEngine(nil), analysis.NewEngine(zap.NewNop())} {
		if got := engine.Analyze(deal, scenario); !reflect.DeepEqual(got, analysis.Analyze(deal, scenario)) {
			t.Error("engine output differs from Analyze")
		}
	}
}

func TestRounded(t *testing.T) {
	m := analysis.Analyze(testutil.SampleDeal(), testutil.SampleScenario())
	r := m.Rounded()

	if r.Ist.YieldNetPct != 2.9 {
		t.Errorf("YieldNetPct = %v, want 2.9", r.Ist.YieldNetPct)
	}
	if r.Ist.CashflowPostTaxMo != -479.17 {
		t.Errorf("CashflowPostTaxMo = %v, want -479.17", r.Ist.CashflowPostTaxMo)
	}
	if r.Loans[0].BalanceAtHorizon != 152189.16 {
		t.Errorf("BalanceAtHorizon = %v, want 152189.16", r.Loans[0].BalanceAtHorizon)
	}
	if r.Scenario.ProjectedCashflowPostTaxMo != 241.09 {
		t.Errorf("ProjectedCashflowPostTaxMo = %v, want 241.09", r.Scenario.ProjectedCashflowPostTaxMo)
	}
	if r.Soll == m.Soll {
		t.Error("Rounded must not share the SOLL block with the original")
	}
	if m.Ist.YieldNetPct == 2.9 {
		t.Error("Rounded modified the original metrics")
	}
}

func TestPhaseAt(t *testing.T) {
	deal := testutil.SampleDeal()
	tests := []struct {
		year int
		want string
	}{
		{0, analysis.PhasePreHorizon},
		{14, analysis.PhasePreHorizon},
		{15, analysis.PhasePostHorizon},
		{30, analysis.PhasePostHorizon},
	}
	for _, tt := range tests {
		if got := analysis.PhaseAt(deal, tt.year); got != tt.want {
			t.Errorf("PhaseAt(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
	if got := analysis.PhaseAt(analysis.DealInput{}, 0); got != analysis.PhasePostHorizon {
		t.Errorf("deal without loans starts %q, want %q", got, analysis.PhasePostHorizon)
	}
}
