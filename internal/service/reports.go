package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/ledger"
	"github.com/propledger-dev/propledger/internal/models"
)

// amount renders a decimal for report JSON. Two fixed decimal places,
// matching the presentation precision of the statements.
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// GetTrialBalance lists every account's net balance over the range (nil
// means full history) split into debit/credit columns. The repository
// snapshot guarantees no half-applied journal entry is visible.
func (s *DefaultService) GetTrialBalance(ctx context.Context, ownerID string, rng *ledger.DateRange) ([]models.TrialBalanceRow, error) {
	snapshot, err := s.repo.LoadReportSnapshot(ctx, ownerID, rng)
	if err != nil {
		return nil, fmt.Errorf("error loading report snapshot: %w", err)
	}

	chart := ledger.NewChart(snapshot.Accounts)
	rows, err := ledger.TrialBalance(chart, snapshot.PeriodPostings)
	if err != nil {
		return nil, err
	}

	out := make([]models.TrialBalanceRow, 0, len(rows))
	for _, row := range rows {
		r := models.TrialBalanceRow{Account: row.AccountName}
		if !row.Debit.IsZero() {
			r.Debit = amount(row.Debit)
		} else {
			r.Credit = amount(row.Credit)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *DefaultService) GetProfitAndLoss(ctx context.Context, ownerID string, rng ledger.DateRange) (*models.ProfitAndLossReport, error) {
	snapshot, err := s.repo.LoadReportSnapshot(ctx, ownerID, &rng)
	if err != nil {
		return nil, fmt.Errorf("error loading report snapshot: %w", err)
	}

	chart := ledger.NewChart(snapshot.Accounts)
	pl := ledger.BuildProfitAndLoss(chart, snapshot.PeriodPostings)
	report := formatProfitAndLoss(pl)
	return &report, nil
}

func (s *DefaultService) GetBalanceSheet(ctx context.Context, ownerID string) (*models.BalanceSheetReport, error) {
	snapshot, err := s.repo.LoadReportSnapshot(ctx, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("error loading report snapshot: %w", err)
	}

	chart := ledger.NewChart(snapshot.Accounts)
	bs, err := ledger.BuildBalanceSheet(chart, snapshot.AllPostings,
		snapshot.UnpaidInvoiceTotal, snapshot.UnpaidBillTotal)
	if err != nil {
		return nil, err
	}

	report := formatBalanceSheet(bs)
	return &report, nil
}

// GetReports produces the combined P&L + balance sheet view from one
// snapshot, so both statements describe the same ledger state.
func (s *DefaultService) GetReports(ctx context.Context, ownerID string, rng ledger.DateRange) (*models.ReportResponse, error) {
	snapshot, err := s.repo.LoadReportSnapshot(ctx, ownerID, &rng)
	if err != nil {
		return nil, fmt.Errorf("error loading report snapshot: %w", err)
	}

	chart := ledger.NewChart(snapshot.Accounts)
	pl := ledger.BuildProfitAndLoss(chart, snapshot.PeriodPostings)
	bs, err := ledger.BuildBalanceSheet(chart, snapshot.AllPostings,
		snapshot.UnpaidInvoiceTotal, snapshot.UnpaidBillTotal)
	if err != nil {
		return nil, err
	}

	return &models.ReportResponse{
		ProfitAndLoss: formatProfitAndLoss(pl),
		BalanceSheet:  formatBalanceSheet(bs),
	}, nil
}

// GetAccountsSummary returns the cumulative dashboard totals.
func (s *DefaultService) GetAccountsSummary(ctx context.Context, ownerID string) (*models.AccountsSummaryResponse, error) {
	snapshot, err := s.repo.LoadReportSnapshot(ctx, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("error loading report snapshot: %w", err)
	}

	chart := ledger.NewChart(snapshot.Accounts)
	all := snapshot.AllPostings

	revenue := ledger.NetBalanceByType(chart, models.AccountTypeRevenue, all)
	expenses := ledger.NetBalanceByType(chart, models.AccountTypeExpense, all)

	return &models.AccountsSummaryResponse{
		TotalAssets:      amount(ledger.NetBalanceByType(chart, models.AccountTypeAsset, all)),
		TotalLiabilities: amount(ledger.NetBalanceByType(chart, models.AccountTypeLiability, all)),
		OwnersEquity:     amount(ledger.NetBalanceByType(chart, models.AccountTypeEquity, all)),
		NetIncome:        amount(revenue.Sub(expenses)),
	}, nil
}

func formatProfitAndLoss(pl ledger.ProfitAndLoss) models.ProfitAndLossReport {
	return models.ProfitAndLossReport{
		Revenue: models.RevenueBreakdown{
			RentalIncome:           amount(pl.RentalIncome),
			PropertyManagementFees: amount(pl.PropertyManagementFees),
			TotalRevenue:           amount(pl.TotalRevenue),
		},
		Expenses: models.ExpenseBreakdown{
			PropertyMaintenance:  amount(pl.PropertyMaintenance),
			StaffSalaries:        amount(pl.StaffSalaries),
			Marketing:            amount(pl.Marketing),
			ProfessionalServices: amount(pl.ProfessionalServices),
			TotalExpenses:        amount(pl.TotalExpenses),
		},
		NetIncome: amount(pl.NetIncome),
	}
}

func formatBalanceSheet(bs ledger.BalanceSheet) models.BalanceSheetReport {
	return models.BalanceSheetReport{
		Assets: models.AssetsBreakdown{
			CashAndEquivalents:   amount(bs.CashAndEquivalents),
			AccountsReceivable:   amount(bs.AccountsReceivable),
			InvestmentProperties: amount(bs.InvestmentProperties),
			Equipment:            amount(bs.Equipment),
			TotalAssets:          amount(bs.TotalAssets),
		},
		Liabilities: models.LiabilitiesBreakdown{
			AccountsPayable:  amount(bs.AccountsPayable),
			AccruedExpenses:  amount(bs.AccruedExpenses),
			LongTermLoans:    amount(bs.LongTermLoans),
			TotalLiabilities: amount(bs.TotalLiabilities),
		},
		Equity: models.EquityBreakdown{
			OwnersEquity:     amount(bs.OwnersEquity),
			RetainedEarnings: amount(bs.RetainedEarnings),
			TotalEquity:      amount(bs.TotalEquity),
		},
		TotalLiabilitiesAndEquity: amount(bs.TotalLiabilitiesAndEquity),
	}
}
