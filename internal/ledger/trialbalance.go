package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/models"
)

// TrialBalanceRow is one account's net balance placed in a single column.
// Exactly one of Debit/Credit is non-zero.
type TrialBalanceRow struct {
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// TrialBalance computes every account's net balance over the given
// postings and places it in the account's normal column; a net that runs
// against the normal side flips to the opposite column so the two columns
// always carry the same total. Zero-net accounts are omitted. The
// Σdebit == Σcredit post-condition is checked on every run, never assumed:
// a violation returns an imbalance error naming the discrepancy instead of
// a silently-wrong listing.
func TrialBalance(chart *Chart, postings []models.Posting) ([]TrialBalanceRow, error) {
	rows := make([]TrialBalanceRow, 0, len(chart.Accounts()))
	totalDebit, totalCredit := decimal.Zero, decimal.Zero

	for _, a := range chart.Accounts() {
		n := NetBalanceForAccount(a, postings)
		if n.IsZero() {
			continue
		}

		row := TrialBalanceRow{AccountCode: a.Code, AccountName: a.Name}
		debitSide := a.Type.DebitNormal()
		if n.IsNegative() {
			debitSide = !debitSide
			n = n.Neg()
		}
		if debitSide {
			row.Debit = n
			totalDebit = totalDebit.Add(n)
		} else {
			row.Credit = n
			totalCredit = totalCredit.Add(n)
		}
		rows = append(rows, row)
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, apperr.Imbalance(totalDebit.Sub(totalCredit),
			"trial balance out of balance: debits %s, credits %s",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}

	return rows, nil
}
