package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/ledger"
	"github.com/propledger-dev/propledger/internal/models"
	"github.com/propledger-dev/propledger/internal/repository"
)

// fakeRepository is an in-memory repository.Repository used to exercise
// the service rules without a database.
type fakeRepository struct {
	mu       sync.Mutex
	users    map[string]*models.User
	accounts map[string]*models.Account
	entries  map[string]*models.JournalEntry
	postings []*models.Posting
	invoices map[string]*models.Invoice
	bills    map[string]*models.Bill
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:    make(map[string]*models.User),
		accounts: make(map[string]*models.Account),
		entries:  make(map[string]*models.JournalEntry),
		invoices: make(map[string]*models.Invoice),
		bills:    make(map[string]*models.Bill),
	}
}

var _ repository.Repository = (*fakeRepository)(nil)

func (f *fakeRepository) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeRepository) CreateAccount(_ context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.OwnerID == account.OwnerID && a.Code == account.Code {
			return apperr.Duplicate(account.Code)
		}
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	cp := *account
	f.accounts[account.ID] = &cp
	return nil
}

func (f *fakeRepository) UpdateAccount(_ context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.accounts[account.ID]
	if !ok || existing.OwnerID != account.OwnerID {
		return apperr.NotFound("account %s not found", account.ID)
	}
	for _, a := range f.accounts {
		if a.ID != account.ID && a.OwnerID == account.OwnerID && a.Code == account.Code {
			return apperr.Duplicate(account.Code)
		}
	}
	cp := *account
	f.accounts[account.ID] = &cp
	return nil
}

func (f *fakeRepository) DeleteAccount(_ context.Context, ownerID, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.accounts[accountID]
	if !ok || existing.OwnerID != ownerID {
		return apperr.NotFound("account %s not found", accountID)
	}
	count := 0
	for _, p := range f.postings {
		if p.AccountID == accountID {
			count++
		}
	}
	if count > 0 {
		return apperr.Integrity("account has %d postings and cannot be deleted", count)
	}
	delete(f.accounts, accountID)
	return nil
}

func (f *fakeRepository) GetAccount(_ context.Context, ownerID, accountID string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok || a.OwnerID != ownerID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepository) ListAccounts(_ context.Context, ownerID string) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ownerAccountsLocked(ownerID), nil
}

func (f *fakeRepository) ownerAccountsLocked(ownerID string) []models.Account {
	var accounts []models.Account
	for _, a := range f.accounts {
		if a.OwnerID == ownerID {
			accounts = append(accounts, *a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Code != accounts[j].Code {
			return accounts[i].Code < accounts[j].Code
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts
}

func (f *fakeRepository) InsertPosting(_ context.Context, posting *models.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if posting.ID == "" {
		posting.ID = uuid.New().String()
	}
	if posting.Status == "" {
		posting.Status = models.PostingStatusPosted
	}
	posting.CreatedAt = time.Now().UTC()
	cp := *posting
	f.postings = append(f.postings, &cp)
	return nil
}

func (f *fakeRepository) InsertJournalEntry(_ context.Context, entry *models.JournalEntry, postings []models.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()
	cp := *entry
	f.entries[entry.ID] = &cp
	for i := range postings {
		p := &postings[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Status == "" {
			p.Status = models.PostingStatusPosted
		}
		p.JournalEntryID = &entry.ID
		p.CreatedAt = entry.CreatedAt
		pc := *p
		f.postings = append(f.postings, &pc)
	}
	return nil
}

func (f *fakeRepository) GetJournalEntry(_ context.Context, ownerID, entryID string) (*models.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok || e.OwnerID != ownerID {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepository) GetJournalEntryPostings(_ context.Context, ownerID, entryID string) ([]models.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Posting
	for _, p := range f.postings {
		if p.OwnerID == ownerID && p.JournalEntryID != nil && *p.JournalEntryID == entryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepository) ReverseJournalEntry(_ context.Context, ownerID, entryID string, reversal *models.JournalEntry, offsets []models.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	flipped := 0
	for _, p := range f.postings {
		if p.OwnerID == ownerID && p.JournalEntryID != nil && *p.JournalEntryID == entryID &&
			p.Status == models.PostingStatusPosted {
			p.Status = models.PostingStatusReversed
			flipped++
		}
	}
	if flipped == 0 {
		return apperr.Conflict("journal entry %s was already reversed", entryID)
	}

	if reversal.ID == "" {
		reversal.ID = uuid.New().String()
	}
	reversal.CreatedAt = time.Now().UTC()
	cp := *reversal
	f.entries[reversal.ID] = &cp

	for i := range offsets {
		p := offsets[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.Status = models.PostingStatusReversed
		p.JournalEntryID = &reversal.ID
		p.CreatedAt = reversal.CreatedAt
		f.postings = append(f.postings, &p)
	}
	return nil
}

func (f *fakeRepository) QueryPostings(_ context.Context, ownerID string, filter repository.PostingFilter) ([]models.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Posting{}
	for _, p := range f.postings {
		if p.OwnerID != ownerID {
			continue
		}
		if filter.AccountID != "" && p.AccountID != filter.AccountID {
			continue
		}
		if filter.AccountType != "" {
			a, ok := f.accounts[p.AccountID]
			if !ok || a.Type != filter.AccountType {
				continue
			}
		}
		if filter.Start != nil && p.Date.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && p.Date.After(*filter.End) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeRepository) LoadReportSnapshot(_ context.Context, ownerID string, rng *ledger.DateRange) (*repository.ReportSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := &repository.ReportSnapshot{
		Accounts:           f.ownerAccountsLocked(ownerID),
		UnpaidInvoiceTotal: decimal.Zero,
		UnpaidBillTotal:    decimal.Zero,
	}

	for _, p := range f.postings {
		if p.OwnerID == ownerID {
			snapshot.AllPostings = append(snapshot.AllPostings, *p)
		}
	}
	if rng != nil {
		snapshot.PeriodPostings = ledger.FilterRange(snapshot.AllPostings, *rng)
	} else {
		snapshot.PeriodPostings = snapshot.AllPostings
	}

	for _, inv := range f.invoices {
		if inv.OwnerID == ownerID && inv.Status == models.InvoiceStatusUnpaid {
			snapshot.UnpaidInvoiceTotal = snapshot.UnpaidInvoiceTotal.Add(inv.TotalAmount)
		}
	}
	for _, b := range f.bills {
		if b.OwnerID == ownerID && b.Status == models.InvoiceStatusUnpaid {
			snapshot.UnpaidBillTotal = snapshot.UnpaidBillTotal.Add(b.TotalAmount)
		}
	}
	return snapshot, nil
}

func (f *fakeRepository) CreateInvoice(_ context.Context, invoice *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	cp := *invoice
	f.invoices[invoice.ID] = &cp
	return nil
}

func (f *fakeRepository) ListInvoices(_ context.Context, ownerID string) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invoice
	for _, inv := range f.invoices {
		if inv.OwnerID == ownerID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeRepository) MarkInvoicePaid(_ context.Context, ownerID, invoiceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[invoiceID]
	if !ok || inv.OwnerID != ownerID {
		return apperr.NotFound("invoices record %s not found", invoiceID)
	}
	inv.Status = models.InvoiceStatusPaid
	return nil
}

func (f *fakeRepository) CreateBill(_ context.Context, bill *models.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	cp := *bill
	f.bills[bill.ID] = &cp
	return nil
}

func (f *fakeRepository) ListBills(_ context.Context, ownerID string) ([]models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Bill
	for _, b := range f.bills {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeRepository) MarkBillPaid(_ context.Context, ownerID, billID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bills[billID]
	if !ok || b.OwnerID != ownerID {
		return apperr.NotFound("bills record %s not found", billID)
	}
	b.Status = models.InvoiceStatusPaid
	return nil
}
