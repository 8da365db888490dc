package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create accounts table (chart of accounts, one chart per owner)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			code VARCHAR(32) NOT NULL,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(16) NOT NULL,
			category VARCHAR(64) NOT NULL DEFAULT '',
			report_line VARCHAR(48) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (owner_id, code)
		)
	`)
	if err != nil {
		return err
	}

	// Create journal_entries table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS journal_entries (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reference VARCHAR(64) NOT NULL DEFAULT '',
			date DATE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create postings table. Rows are append-only: no UPDATE except the
	// posted -> reversed status flip, and no DELETE.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS postings (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			account_id VARCHAR(36) NOT NULL REFERENCES accounts(id),
			journal_entry_id VARCHAR(36) REFERENCES journal_entries(id),
			date DATE NOT NULL,
			debit NUMERIC(20,4) NOT NULL DEFAULT 0,
			credit NUMERIC(20,4) NOT NULL DEFAULT 0,
			status VARCHAR(16) NOT NULL DEFAULT 'posted',
			reference VARCHAR(64) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			CHECK (debit >= 0 AND credit >= 0),
			CHECK ((debit > 0) <> (credit > 0))
		)
	`)
	if err != nil {
		return err
	}

	// Create invoices table (receivables subledger)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS invoices (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			number VARCHAR(64) NOT NULL,
			date DATE NOT NULL,
			due_date DATE NOT NULL,
			amount NUMERIC(20,4) NOT NULL,
			tax_amount NUMERIC(20,4) NOT NULL DEFAULT 0,
			total_amount NUMERIC(20,4) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'UNPAID',
			client_name VARCHAR(255) NOT NULL,
			client_email VARCHAR(255) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create bills table (payables subledger)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bills (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			number VARCHAR(64) NOT NULL,
			date DATE NOT NULL,
			due_date DATE NOT NULL,
			amount NUMERIC(20,4) NOT NULL,
			tax_amount NUMERIC(20,4) NOT NULL DEFAULT 0,
			total_amount NUMERIC(20,4) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'UNPAID',
			vendor_name VARCHAR(255) NOT NULL,
			vendor_email VARCHAR(255) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_accounts_owner_code ON accounts(owner_id, code)",
		"CREATE INDEX IF NOT EXISTS idx_postings_owner_date ON postings(owner_id, date)",
		"CREATE INDEX IF NOT EXISTS idx_postings_account ON postings(account_id)",
		"CREATE INDEX IF NOT EXISTS idx_postings_journal_entry ON postings(journal_entry_id)",
		"CREATE INDEX IF NOT EXISTS idx_invoices_owner_status ON invoices(owner_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_bills_owner_status ON bills(owner_id, status)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
