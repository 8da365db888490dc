package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a portfolio owner in the system
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Account is one bucket in an owner's chart of accounts. The code is
// unique within the owner, never across owners.
type Account struct {
	ID          string      `db:"id" json:"id"`
	OwnerID     string      `db:"owner_id" json:"-"`
	Code        string      `db:"code" json:"code"`
	Name        string      `db:"name" json:"name"`
	Type        AccountType `db:"type" json:"type"`
	Category    string      `db:"category" json:"category"`
	ReportLine  ReportLine  `db:"report_line" json:"reportLine"`
	Description string      `db:"description" json:"description"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// Posting is a single debit-or-credit entry against one account on one
// date. Exactly one of Debit/Credit is positive, the other is zero.
// Rows are append-only: the only permitted change is the posted->reversed
// status flip made when an offsetting posting is appended.
type Posting struct {
	ID             string          `db:"id" json:"id"`
	OwnerID        string          `db:"owner_id" json:"-"`
	AccountID      string          `db:"account_id" json:"accountId"`
	JournalEntryID *string         `db:"journal_entry_id" json:"journalEntryId,omitempty"`
	Date           time.Time       `db:"date" json:"date"`
	Debit          decimal.Decimal `db:"debit" json:"debit"`
	Credit         decimal.Decimal `db:"credit" json:"credit"`
	Status         PostingStatus   `db:"status" json:"status"`
	Reference      string          `db:"reference" json:"reference"`
	Description    string          `db:"description" json:"description"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// JournalEntry groups postings that must balance (sum of debits equals
// sum of credits across the group).
type JournalEntry struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"-"`
	Reference   string    `db:"reference" json:"reference"`
	Date        time.Time `db:"date" json:"date"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Invoice is a receivables subledger record. The ledger core only ever
// consumes the unpaid totalAmount sum.
type Invoice struct {
	ID          string          `db:"id" json:"id"`
	OwnerID     string          `db:"owner_id" json:"-"`
	Number      string          `db:"number" json:"number"`
	Date        time.Time       `db:"date" json:"date"`
	DueDate     time.Time       `db:"due_date" json:"dueDate"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	TaxAmount   decimal.Decimal `db:"tax_amount" json:"taxAmount"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status      InvoiceStatus   `db:"status" json:"status"`
	ClientName  string          `db:"client_name" json:"clientName"`
	ClientEmail string          `db:"client_email" json:"clientEmail"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// Bill is a payables subledger record, mirror image of Invoice.
type Bill struct {
	ID          string          `db:"id" json:"id"`
	OwnerID     string          `db:"owner_id" json:"-"`
	Number      string          `db:"number" json:"number"`
	Date        time.Time       `db:"date" json:"date"`
	DueDate     time.Time       `db:"due_date" json:"dueDate"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	TaxAmount   decimal.Decimal `db:"tax_amount" json:"taxAmount"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status      InvoiceStatus   `db:"status" json:"status"`
	VendorName  string          `db:"vendor_name" json:"vendorName"`
	VendorEmail string          `db:"vendor_email" json:"vendorEmail"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}
