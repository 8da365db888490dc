package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/ledger"
	"github.com/propledger-dev/propledger/internal/models"
)

// parseSubledgerAmounts validates the shared invoice/bill amount fields
// and derives the total.
func parseSubledgerAmounts(amountRaw, taxRaw string) (amt, tax, total decimal.Decimal, err error) {
	amt, err = parseAmount("amount", amountRaw)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	if !amt.IsPositive() {
		return decimal.Zero, decimal.Zero, decimal.Zero,
			apperr.Validation("amount", "amount must be positive")
	}
	tax, err = parseAmount("taxAmount", taxRaw)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return amt, tax, amt.Add(tax), nil
}

// Receivables subledger
func (s *DefaultService) CreateInvoice(ctx context.Context, ownerID string, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	dueDate, err := ledger.ParseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	amt, tax, total, err := parseSubledgerAmounts(req.Amount, req.TaxAmount)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		OwnerID:     ownerID,
		Number:      req.Number,
		Date:        date,
		DueDate:     dueDate,
		Amount:      amt,
		TaxAmount:   tax,
		TotalAmount: total,
		Status:      models.InvoiceStatusUnpaid,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Description: req.Description,
	}

	if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("error creating invoice: %w", err)
	}
	return invoice, nil
}

func (s *DefaultService) ListInvoices(ctx context.Context, ownerID string) ([]models.Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing invoices: %w", err)
	}
	return invoices, nil
}

func (s *DefaultService) MarkInvoicePaid(ctx context.Context, ownerID, invoiceID string) error {
	if err := s.repo.MarkInvoicePaid(ctx, ownerID, invoiceID); err != nil {
		if _, ok := apperr.As(err); ok {
			return err
		}
		return fmt.Errorf("error marking invoice paid: %w", err)
	}
	return nil
}

// Payables subledger
func (s *DefaultService) CreateBill(ctx context.Context, ownerID string, req models.CreateBillRequest) (*models.Bill, error) {
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	dueDate, err := ledger.ParseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	amt, tax, total, err := parseSubledgerAmounts(req.Amount, req.TaxAmount)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		OwnerID:     ownerID,
		Number:      req.Number,
		Date:        date,
		DueDate:     dueDate,
		Amount:      amt,
		TaxAmount:   tax,
		TotalAmount: total,
		Status:      models.InvoiceStatusUnpaid,
		VendorName:  req.VendorName,
		VendorEmail: req.VendorEmail,
		Description: req.Description,
	}

	if err := s.repo.CreateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("error creating bill: %w", err)
	}
	return bill, nil
}

func (s *DefaultService) ListBills(ctx context.Context, ownerID string) ([]models.Bill, error) {
	bills, err := s.repo.ListBills(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing bills: %w", err)
	}
	return bills, nil
}

func (s *DefaultService) MarkBillPaid(ctx context.Context, ownerID, billID string) error {
	if err := s.repo.MarkBillPaid(ctx, ownerID, billID); err != nil {
		if _, ok := apperr.As(err); ok {
			return err
		}
		return fmt.Errorf("error marking bill paid: %w", err)
	}
	return nil
}
