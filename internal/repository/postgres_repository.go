package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/ledger"
	"github.com/propledger-dev/propledger/internal/models"
)

// PostingFilter narrows a posting query. AccountID and AccountType are
// mutually exclusive; Start/End bound the posting date, both inclusive.
type PostingFilter struct {
	AccountID   string
	AccountType models.AccountType
	Start       *time.Time
	End         *time.Time
}

// ReportSnapshot is everything a report needs, read in one consistent
// transaction so a concurrently appended journal entry can never
// contribute only one of its legs.
type ReportSnapshot struct {
	Accounts           []models.Account
	PeriodPostings     []models.Posting
	AllPostings        []models.Posting
	UnpaidInvoiceTotal decimal.Decimal
	UnpaidBillTotal    decimal.Decimal
}

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Chart of accounts
	CreateAccount(ctx context.Context, account *models.Account) error
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, ownerID, accountID string) error
	GetAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error)

	// Ledger (append-only)
	InsertPosting(ctx context.Context, posting *models.Posting) error
	InsertJournalEntry(ctx context.Context, entry *models.JournalEntry, postings []models.Posting) error
	GetJournalEntry(ctx context.Context, ownerID, entryID string) (*models.JournalEntry, error)
	GetJournalEntryPostings(ctx context.Context, ownerID, entryID string) ([]models.Posting, error)
	ReverseJournalEntry(ctx context.Context, ownerID, entryID string, reversal *models.JournalEntry, offsets []models.Posting) error
	QueryPostings(ctx context.Context, ownerID string, filter PostingFilter) ([]models.Posting, error)

	// Reports
	LoadReportSnapshot(ctx context.Context, ownerID string, rng *ledger.DateRange) (*ReportSnapshot, error)

	// Receivables / payables subledgers
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	ListInvoices(ctx context.Context, ownerID string) ([]models.Invoice, error)
	MarkInvoicePaid(ctx context.Context, ownerID, invoiceID string) error
	CreateBill(ctx context.Context, bill *models.Bill) error
	ListBills(ctx context.Context, ownerID string) ([]models.Bill, error)
	MarkBillPaid(ctx context.Context, ownerID, billID string) error
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Chart of accounts repository methods
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, owner_id, code, name, type, category, report_line, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.OwnerID, account.Code, account.Name, account.Type,
		account.Category, account.ReportLine, account.Description,
		account.CreatedAt, account.UpdatedAt)

	if isUniqueViolation(err) {
		return apperr.Duplicate(account.Code)
	}
	return err
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET code = $1, name = $2, type = $3, category = $4, report_line = $5, description = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9
	`

	account.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, query,
		account.Code, account.Name, account.Type, account.Category,
		account.ReportLine, account.Description, account.UpdatedAt,
		account.ID, account.OwnerID)
	if isUniqueViolation(err) {
		return apperr.Duplicate(account.Code)
	}
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("account %s not found", account.ID)
	}
	return nil
}

// DeleteAccount removes an account unless postings still reference it.
// The existence check and the delete run in one transaction so a failed
// delete is always a no-op.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var postingCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM postings WHERE account_id = $1`, accountID).Scan(&postingCount)
	if err != nil {
		return err
	}
	if postingCount > 0 {
		err = apperr.Integrity("account has %d postings and cannot be deleted", postingCount)
		return err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = $1 AND owner_id = $2`, accountID, ownerID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		err = apperr.NotFound("account %s not found", accountID)
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error) {
	query := `SELECT * FROM accounts WHERE id = $1 AND owner_id = $2`

	var account models.Account
	err := r.db.GetContext(ctx, &account, query, accountID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Account not found
		}
		return nil, err
	}

	return &account, nil
}

// ListAccounts returns the owner's chart ordered by code; id breaks ties
// so the listing order is stable.
func (r *PostgresRepository) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	query := `SELECT * FROM accounts WHERE owner_id = $1 ORDER BY code ASC, id ASC`

	var accounts []models.Account
	err := r.db.SelectContext(ctx, &accounts, query, ownerID)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Ledger repository methods
const insertPostingQuery = `
	INSERT INTO postings (id, owner_id, account_id, journal_entry_id, date, debit, credit, status, reference, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func (r *PostgresRepository) InsertPosting(ctx context.Context, posting *models.Posting) error {
	if posting.ID == "" {
		posting.ID = uuid.New().String()
	}
	if posting.Status == "" {
		posting.Status = models.PostingStatusPosted
	}
	posting.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, insertPostingQuery,
		posting.ID, posting.OwnerID, posting.AccountID, posting.JournalEntryID,
		posting.Date, posting.Debit, posting.Credit, posting.Status,
		posting.Reference, posting.Description, posting.CreatedAt)

	return err
}

// InsertJournalEntry writes the entry header and all of its postings in
// one transaction, so a report can never observe a half-applied entry.
func (r *PostgresRepository) InsertJournalEntry(ctx context.Context, entry *models.JournalEntry, postings []models.Posting) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO journal_entries (id, owner_id, reference, date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.OwnerID, entry.Reference, entry.Date, entry.Description, entry.CreatedAt)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range postings {
		p := &postings[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Status == "" {
			p.Status = models.PostingStatusPosted
		}
		p.JournalEntryID = &entry.ID
		p.CreatedAt = now

		_, err = tx.ExecContext(ctx, insertPostingQuery,
			p.ID, p.OwnerID, p.AccountID, p.JournalEntryID, p.Date,
			p.Debit, p.Credit, p.Status, p.Reference, p.Description, p.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetJournalEntry(ctx context.Context, ownerID, entryID string) (*models.JournalEntry, error) {
	query := `SELECT * FROM journal_entries WHERE id = $1 AND owner_id = $2`

	var entry models.JournalEntry
	err := r.db.GetContext(ctx, &entry, query, entryID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Entry not found
		}
		return nil, err
	}

	return &entry, nil
}

func (r *PostgresRepository) GetJournalEntryPostings(ctx context.Context, ownerID, entryID string) ([]models.Posting, error) {
	query := `
		SELECT * FROM postings
		WHERE journal_entry_id = $1 AND owner_id = $2
		ORDER BY created_at ASC, id ASC
	`

	var postings []models.Posting
	err := r.db.SelectContext(ctx, &postings, query, entryID, ownerID)
	if err != nil {
		return nil, err
	}

	return postings, nil
}

// ReverseJournalEntry flips the original entry's postings to reversed and
// appends the offsetting entry atomically. Losing the race against a
// concurrent reversal surfaces as a conflict, not a double reversal.
func (r *PostgresRepository) ReverseJournalEntry(ctx context.Context, ownerID, entryID string, reversal *models.JournalEntry, offsets []models.Posting) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE postings SET status = $1
		WHERE journal_entry_id = $2 AND owner_id = $3 AND status = $4`,
		models.PostingStatusReversed, entryID, ownerID, models.PostingStatusPosted)
	if err != nil {
		return err
	}

	flipped, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if flipped == 0 {
		err = apperr.Conflict("journal entry %s was already reversed", entryID)
		return err
	}

	if reversal.ID == "" {
		reversal.ID = uuid.New().String()
	}
	reversal.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO journal_entries (id, owner_id, reference, date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		reversal.ID, reversal.OwnerID, reversal.Reference, reversal.Date,
		reversal.Description, reversal.CreatedAt)
	if err != nil {
		return err
	}

	for i := range offsets {
		p := &offsets[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.Status = models.PostingStatusReversed
		p.JournalEntryID = &reversal.ID
		p.CreatedAt = reversal.CreatedAt

		_, err = tx.ExecContext(ctx, insertPostingQuery,
			p.ID, p.OwnerID, p.AccountID, p.JournalEntryID, p.Date,
			p.Debit, p.Credit, p.Status, p.Reference, p.Description, p.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) QueryPostings(ctx context.Context, ownerID string, filter PostingFilter) ([]models.Posting, error) {
	query := `SELECT p.* FROM postings p`
	args := []interface{}{ownerID}

	if filter.AccountType != "" {
		query += ` JOIN accounts a ON p.account_id = a.id`
	}
	query += ` WHERE p.owner_id = $1`

	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += ` AND p.account_id = $2`
	} else if filter.AccountType != "" {
		args = append(args, filter.AccountType)
		query += ` AND a.type = $2`
	}

	// Both range bounds are inclusive.
	if filter.Start != nil {
		args = append(args, *filter.Start)
		query += ` AND p.date >= $` + strconv.Itoa(len(args))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		query += ` AND p.date <= $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY p.date ASC, p.created_at ASC, p.id ASC`

	var postings []models.Posting
	err := r.db.SelectContext(ctx, &postings, query, args...)
	if err != nil {
		return nil, err
	}

	return postings, nil
}

// LoadReportSnapshot reads the chart, the postings and the subledger
// totals inside a single repeatable-read read-only transaction.
func (r *PostgresRepository) LoadReportSnapshot(ctx context.Context, ownerID string, rng *ledger.DateRange) (*ReportSnapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	snapshot := &ReportSnapshot{
		UnpaidInvoiceTotal: decimal.Zero,
		UnpaidBillTotal:    decimal.Zero,
	}

	err = tx.SelectContext(ctx, &snapshot.Accounts,
		`SELECT * FROM accounts WHERE owner_id = $1 ORDER BY code ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}

	err = tx.SelectContext(ctx, &snapshot.AllPostings,
		`SELECT * FROM postings WHERE owner_id = $1 ORDER BY date ASC, created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}

	if rng != nil {
		snapshot.PeriodPostings = ledger.FilterRange(snapshot.AllPostings, *rng)
	} else {
		snapshot.PeriodPostings = snapshot.AllPostings
	}

	var invoiceTotal, billTotal sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT SUM(total_amount) FROM invoices WHERE owner_id = $1 AND status = $2`,
		ownerID, models.InvoiceStatusUnpaid).Scan(&invoiceTotal)
	if err != nil {
		return nil, err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT SUM(total_amount) FROM bills WHERE owner_id = $1 AND status = $2`,
		ownerID, models.InvoiceStatusUnpaid).Scan(&billTotal)
	if err != nil {
		return nil, err
	}

	if invoiceTotal.Valid {
		snapshot.UnpaidInvoiceTotal, err = decimal.NewFromString(invoiceTotal.String)
		if err != nil {
			return nil, err
		}
	}
	if billTotal.Valid {
		snapshot.UnpaidBillTotal, err = decimal.NewFromString(billTotal.String)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Subledger repository methods
func (r *PostgresRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, owner_id, number, date, due_date, amount, tax_amount, total_amount, status, client_name, client_email, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusUnpaid
	}

	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID, invoice.OwnerID, invoice.Number, invoice.Date, invoice.DueDate,
		invoice.Amount, invoice.TaxAmount, invoice.TotalAmount, invoice.Status,
		invoice.ClientName, invoice.ClientEmail, invoice.Description,
		invoice.CreatedAt, invoice.UpdatedAt)

	return err
}

func (r *PostgresRepository) ListInvoices(ctx context.Context, ownerID string) ([]models.Invoice, error) {
	query := `SELECT * FROM invoices WHERE owner_id = $1 ORDER BY due_date ASC, id ASC`

	var invoices []models.Invoice
	err := r.db.SelectContext(ctx, &invoices, query, ownerID)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

func (r *PostgresRepository) MarkInvoicePaid(ctx context.Context, ownerID, invoiceID string) error {
	return r.markSubledgerPaid(ctx, "invoices", ownerID, invoiceID)
}

func (r *PostgresRepository) CreateBill(ctx context.Context, bill *models.Bill) error {
	query := `
		INSERT INTO bills (id, owner_id, number, date, due_date, amount, tax_amount, total_amount, status, vendor_name, vendor_email, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.Status == "" {
		bill.Status = models.InvoiceStatusUnpaid
	}

	now := time.Now().UTC()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		bill.ID, bill.OwnerID, bill.Number, bill.Date, bill.DueDate,
		bill.Amount, bill.TaxAmount, bill.TotalAmount, bill.Status,
		bill.VendorName, bill.VendorEmail, bill.Description,
		bill.CreatedAt, bill.UpdatedAt)

	return err
}

func (r *PostgresRepository) ListBills(ctx context.Context, ownerID string) ([]models.Bill, error) {
	query := `SELECT * FROM bills WHERE owner_id = $1 ORDER BY due_date ASC, id ASC`

	var bills []models.Bill
	err := r.db.SelectContext(ctx, &bills, query, ownerID)
	if err != nil {
		return nil, err
	}

	return bills, nil
}

func (r *PostgresRepository) MarkBillPaid(ctx context.Context, ownerID, billID string) error {
	return r.markSubledgerPaid(ctx, "bills", ownerID, billID)
}

func (r *PostgresRepository) markSubledgerPaid(ctx context.Context, table, ownerID, id string) error {
	// table is one of the two fixed subledger names, never user input.
	query := `UPDATE ` + table + ` SET status = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4`

	res, err := r.db.ExecContext(ctx, query,
		models.InvoiceStatusPaid, time.Now().UTC(), id, ownerID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("%s record %s not found", table, id)
	}
	return nil
}
