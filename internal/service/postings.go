package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/ledger"
	"github.com/propledger-dev/propledger/internal/models"
	"github.com/propledger-dev/propledger/internal/repository"
)

// parseAmount parses a request amount string. Empty means zero; negative
// amounts and more than two decimal places are rejected.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation(field, "invalid amount %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Validation(field, "amount must not be negative")
	}
	if d.Exponent() < -2 {
		return decimal.Zero, apperr.Validation(field, "amount %s has more than 2 decimal places", raw)
	}
	return d, nil
}

// parseLegAmounts enforces the debit/credit exclusivity invariant: exactly
// one of the pair is strictly positive, the other exactly zero.
func parseLegAmounts(debitRaw, creditRaw string) (debit, credit decimal.Decimal, err error) {
	debit, err = parseAmount("debit", debitRaw)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	credit, err = parseAmount("credit", creditRaw)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if debit.IsPositive() == credit.IsPositive() {
		return decimal.Zero, decimal.Zero,
			apperr.Validation("debit", "exactly one of debit or credit must be positive")
	}
	return debit, credit, nil
}

// ownedAccount resolves an account and verifies it belongs to the caller.
func (s *DefaultService) ownedAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error) {
	account, err := s.repo.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if account == nil {
		return nil, apperr.NotFound("account %s not found", accountID)
	}
	return account, nil
}

// RecordPosting appends a single immutable posting.
func (s *DefaultService) RecordPosting(ctx context.Context, ownerID string, req models.RecordPostingRequest) (*models.Posting, error) {
	if _, err := s.ownedAccount(ctx, ownerID, req.AccountID); err != nil {
		return nil, err
	}

	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	debit, credit, err := parseLegAmounts(req.Debit, req.Credit)
	if err != nil {
		return nil, err
	}

	posting := &models.Posting{
		OwnerID:     ownerID,
		AccountID:   req.AccountID,
		Date:        date,
		Debit:       debit,
		Credit:      credit,
		Status:      models.PostingStatusPosted,
		Reference:   req.Reference,
		Description: req.Description,
	}

	if err := s.repo.InsertPosting(ctx, posting); err != nil {
		return nil, fmt.Errorf("error recording posting: %w", err)
	}

	return posting, nil
}

// RecordJournalEntry validates and appends a balanced group of postings.
// Nothing is written unless every leg passes and debits equal credits
// across the group.
func (s *DefaultService) RecordJournalEntry(ctx context.Context, ownerID string, req models.JournalEntryRequest) (*models.JournalEntry, []models.Posting, error) {
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return nil, nil, err
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	postings := make([]models.Posting, 0, len(req.Legs))

	for _, leg := range req.Legs {
		if _, err := s.ownedAccount(ctx, ownerID, leg.AccountID); err != nil {
			return nil, nil, err
		}

		debit, credit, err := parseLegAmounts(leg.Debit, leg.Credit)
		if err != nil {
			return nil, nil, err
		}

		totalDebit = totalDebit.Add(debit)
		totalCredit = totalCredit.Add(credit)

		description := leg.Description
		if description == "" {
			description = req.Description
		}

		postings = append(postings, models.Posting{
			OwnerID:     ownerID,
			AccountID:   leg.AccountID,
			Date:        date,
			Debit:       debit,
			Credit:      credit,
			Status:      models.PostingStatusPosted,
			Reference:   req.Reference,
			Description: description,
		})
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, nil, apperr.Integrity("journal entry does not balance: debits %s, credits %s",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}

	entry := &models.JournalEntry{
		OwnerID:     ownerID,
		Reference:   req.Reference,
		Date:        date,
		Description: req.Description,
	}

	if err := s.repo.InsertJournalEntry(ctx, entry, postings); err != nil {
		return nil, nil, fmt.Errorf("error recording journal entry: %w", err)
	}

	// InsertJournalEntry fills in the generated posting ids.
	return entry, postings, nil
}

// ReverseJournalEntry voids an entry by appending an offsetting entry
// dated today and flipping the originals to reversed. The ledger stays
// append-only: corrections add postings, they never edit them.
func (s *DefaultService) ReverseJournalEntry(ctx context.Context, ownerID, entryID string) (*models.JournalEntry, error) {
	entry, err := s.repo.GetJournalEntry(ctx, ownerID, entryID)
	if err != nil {
		return nil, fmt.Errorf("error getting journal entry: %w", err)
	}
	if entry == nil {
		return nil, apperr.NotFound("journal entry %s not found", entryID)
	}

	originals, err := s.repo.GetJournalEntryPostings(ctx, ownerID, entryID)
	if err != nil {
		return nil, fmt.Errorf("error getting journal entry postings: %w", err)
	}
	if len(originals) == 0 {
		return nil, apperr.Integrity("journal entry %s has no postings", entryID)
	}

	reversalDate := ledger.DateOnly(s.now().UTC())
	reversal := &models.JournalEntry{
		OwnerID:     ownerID,
		Reference:   entry.Reference,
		Date:        reversalDate,
		Description: fmt.Sprintf("Reversal of journal entry %s", entryID),
	}

	offsets := make([]models.Posting, 0, len(originals))
	for _, p := range originals {
		offsets = append(offsets, models.Posting{
			OwnerID:     ownerID,
			AccountID:   p.AccountID,
			Date:        reversalDate,
			Debit:       p.Credit,
			Credit:      p.Debit,
			Reference:   entryID,
			Description: reversal.Description,
		})
	}

	if err := s.repo.ReverseJournalEntry(ctx, ownerID, entryID, reversal, offsets); err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error reversing journal entry: %w", err)
	}

	return reversal, nil
}

// QueryPostings returns the postings matching the filter. An empty result
// is valid, not an error.
func (s *DefaultService) QueryPostings(ctx context.Context, ownerID string, q PostingQuery) ([]models.Posting, error) {
	if q.AccountID != "" && q.AccountType != "" {
		return nil, apperr.Validation("accountType", "accountId and accountType are mutually exclusive")
	}

	filter := repository.PostingFilter{AccountID: q.AccountID}
	if q.AccountType != "" {
		accountType := models.AccountType(q.AccountType)
		if !accountType.IsValid() {
			return nil, apperr.Validation("accountType", "invalid account type %q", q.AccountType)
		}
		filter.AccountType = accountType
	}

	var err error
	var start, end time.Time
	if q.StartDate != "" {
		if start, err = ledger.ParseDate(q.StartDate); err != nil {
			return nil, err
		}
		filter.Start = &start
	}
	if q.EndDate != "" {
		if end, err = ledger.ParseDate(q.EndDate); err != nil {
			return nil, err
		}
		filter.End = &end
	}

	postings, err := s.repo.QueryPostings(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying postings: %w", err)
	}
	return postings, nil
}
