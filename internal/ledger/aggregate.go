// Package ledger computes balances and financial statements from an
// append-only stream of postings. Everything here is pure: the functions
// take a chart of accounts and a slice of postings and return decimal
// results, so the callers decide where the data comes from and how wide
// the date window is.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/models"
)

// DateRange is an inclusive [Start, End] window over posting dates.
// Both bounds are date-only (midnight UTC).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the range, both ends inclusive.
func (r DateRange) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// DateOnly truncates t to a date at midnight UTC so range comparisons
// ignore time-of-day and zone.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Chart is an indexed chart of accounts for one owner.
type Chart struct {
	byID    map[string]models.Account
	ordered []models.Account
}

// NewChart indexes accounts by id. The input order (code ascending, as the
// repository returns it) is preserved for report listings.
func NewChart(accounts []models.Account) *Chart {
	c := &Chart{
		byID:    make(map[string]models.Account, len(accounts)),
		ordered: accounts,
	}
	for _, a := range accounts {
		c.byID[a.ID] = a
	}
	return c
}

// ByID looks up an account.
func (c *Chart) ByID(id string) (models.Account, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Accounts returns the accounts in listing order.
func (c *Chart) Accounts() []models.Account {
	return c.ordered
}

// SumDebitsCredits totals the debit and credit columns over postings.
func SumDebitsCredits(postings []models.Posting) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, p := range postings {
		debit = debit.Add(p.Debit)
		credit = credit.Add(p.Credit)
	}
	return debit, credit
}

// net applies the normal-balance convention to column totals: debit-normal
// types carry debits minus credits, credit-normal types the reverse.
func net(t models.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// NetBalanceForAccount returns the net balance of one account over the
// given postings. Postings against other accounts are ignored, so callers
// may pass an unfiltered slice. An empty match yields zero.
func NetBalanceForAccount(account models.Account, postings []models.Posting) decimal.Decimal {
	debit, credit := decimal.Zero, decimal.Zero
	for _, p := range postings {
		if p.AccountID != account.ID {
			continue
		}
		debit = debit.Add(p.Debit)
		credit = credit.Add(p.Credit)
	}
	return net(account.Type, debit, credit)
}

// NetBalanceByType returns the net balance across every account of the
// given type, applying that type's normal-balance convention.
func NetBalanceByType(chart *Chart, t models.AccountType, postings []models.Posting) decimal.Decimal {
	debit, credit := decimal.Zero, decimal.Zero
	for _, p := range postings {
		a, ok := chart.ByID(p.AccountID)
		if !ok || a.Type != t {
			continue
		}
		debit = debit.Add(p.Debit)
		credit = credit.Add(p.Credit)
	}
	return net(t, debit, credit)
}

// NetBalanceByLine returns the net balance across every account mapped to
// the given report line. The sign convention follows the line's account
// type, so a statement sub-line always reads positive on its normal side.
func NetBalanceByLine(chart *Chart, line models.ReportLine, postings []models.Posting) decimal.Decimal {
	total := decimal.Zero
	for _, a := range chart.Accounts() {
		if a.ReportLine != line {
			continue
		}
		total = total.Add(NetBalanceForAccount(a, postings))
	}
	return total
}

// FilterRange returns the postings dated within r, both ends inclusive.
func FilterRange(postings []models.Posting, r DateRange) []models.Posting {
	out := make([]models.Posting, 0, len(postings))
	for _, p := range postings {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}
