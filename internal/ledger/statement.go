package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/models"
)

// equationTolerance bounds the acceptable rounding slack when checking the
// accounting equation. Amounts are presented at two decimal places, so
// anything past half a cent is a real discrepancy.
var equationTolerance = decimal.RequireFromString("0.005")

// ProfitAndLoss is a period-scoped income statement. Sub-lines come from
// the explicit account-to-report-line mapping; totals come from the type
// aggregate, so an unmapped revenue account still counts toward
// TotalRevenue even though it has no named line.
type ProfitAndLoss struct {
	RentalIncome           decimal.Decimal
	PropertyManagementFees decimal.Decimal
	TotalRevenue           decimal.Decimal

	PropertyMaintenance  decimal.Decimal
	StaffSalaries        decimal.Decimal
	Marketing            decimal.Decimal
	ProfessionalServices decimal.Decimal
	TotalExpenses        decimal.Decimal

	NetIncome decimal.Decimal
}

// BuildProfitAndLoss derives the income statement from the postings dated
// within the requested period.
func BuildProfitAndLoss(chart *Chart, periodPostings []models.Posting) ProfitAndLoss {
	pl := ProfitAndLoss{
		RentalIncome:           NetBalanceByLine(chart, models.ReportLineRentalIncome, periodPostings),
		PropertyManagementFees: NetBalanceByLine(chart, models.ReportLinePropertyMgmtFees, periodPostings),
		TotalRevenue:           NetBalanceByType(chart, models.AccountTypeRevenue, periodPostings),

		PropertyMaintenance:  NetBalanceByLine(chart, models.ReportLinePropertyMaintenance, periodPostings),
		StaffSalaries:        NetBalanceByLine(chart, models.ReportLineStaffSalaries, periodPostings),
		Marketing:            NetBalanceByLine(chart, models.ReportLineMarketing, periodPostings),
		ProfessionalServices: NetBalanceByLine(chart, models.ReportLineProfessionalServices, periodPostings),
		TotalExpenses:        NetBalanceByType(chart, models.AccountTypeExpense, periodPostings),
	}
	pl.NetIncome = pl.TotalRevenue.Sub(pl.TotalExpenses)
	return pl
}

// BalanceSheet is a point-in-time statement, cumulative since ledger
// inception. AccountsReceivable and AccountsPayable are the external
// subledger totals, passed in as opaque amounts.
type BalanceSheet struct {
	CashAndEquivalents   decimal.Decimal
	AccountsReceivable   decimal.Decimal
	InvestmentProperties decimal.Decimal
	Equipment            decimal.Decimal
	TotalAssets          decimal.Decimal

	AccountsPayable  decimal.Decimal
	AccruedExpenses  decimal.Decimal
	LongTermLoans    decimal.Decimal
	TotalLiabilities decimal.Decimal

	OwnersEquity     decimal.Decimal
	RetainedEarnings decimal.Decimal
	TotalEquity      decimal.Decimal

	TotalLiabilitiesAndEquity decimal.Decimal
}

// BuildBalanceSheet derives the balance sheet from the owner's full
// posting history plus the unpaid receivable and payable totals. The
// accounting equation (assets = liabilities + equity) is verified within
// equationTolerance; a violation returns an imbalance error carrying the
// discrepancy rather than a mismatched report.
func BuildBalanceSheet(chart *Chart, allPostings []models.Posting, receivables, payables decimal.Decimal) (BalanceSheet, error) {
	bs := BalanceSheet{
		CashAndEquivalents:   NetBalanceByLine(chart, models.ReportLineCashAndEquivalents, allPostings),
		AccountsReceivable:   receivables,
		InvestmentProperties: NetBalanceByLine(chart, models.ReportLineInvestmentProperties, allPostings),
		Equipment:            NetBalanceByLine(chart, models.ReportLineEquipment, allPostings),

		AccountsPayable: payables,
		AccruedExpenses: NetBalanceByLine(chart, models.ReportLineAccruedExpenses, allPostings),
		LongTermLoans:   NetBalanceByLine(chart, models.ReportLineLongTermLoans, allPostings),

		OwnersEquity:     NetBalanceByLine(chart, models.ReportLineOwnersEquity, allPostings),
		RetainedEarnings: NetBalanceByLine(chart, models.ReportLineRetainedEarnings, allPostings),
	}

	bs.TotalAssets = NetBalanceByType(chart, models.AccountTypeAsset, allPostings).Add(receivables)
	bs.TotalLiabilities = NetBalanceByType(chart, models.AccountTypeLiability, allPostings).Add(payables)
	bs.TotalEquity = NetBalanceByType(chart, models.AccountTypeEquity, allPostings)
	bs.TotalLiabilitiesAndEquity = bs.TotalLiabilities.Add(bs.TotalEquity)

	discrepancy := bs.TotalAssets.Sub(bs.TotalLiabilitiesAndEquity)
	if discrepancy.Abs().GreaterThan(equationTolerance) {
		return BalanceSheet{}, apperr.Imbalance(discrepancy,
			"accounting equation violated: assets %s, liabilities+equity %s",
			bs.TotalAssets.StringFixed(2), bs.TotalLiabilitiesAndEquity.StringFixed(2))
	}

	return bs, nil
}
