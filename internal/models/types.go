package models

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

// IsValid reports whether the account type is one of the five known types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether the type carries its balance on the debit
// side. Assets and expenses are debit-normal; liabilities, equity and
// revenue are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// PostingStatus is the lifecycle stage of a posting. Postings are never
// edited or deleted; a correction appends offsetting postings and flips
// the originals to reversed.
type PostingStatus string

const (
	PostingStatusPosted   PostingStatus = "posted"
	PostingStatusReversed PostingStatus = "reversed"
)

// ReportLine assigns an account to a named statement line. The mapping is
// declared when the account is created, so statement decomposition never
// has to guess from the account name.
type ReportLine string

const (
	ReportLineNone ReportLine = ""

	// Profit and loss lines.
	ReportLineRentalIncome         ReportLine = "rental_income"
	ReportLinePropertyMgmtFees     ReportLine = "property_management_fees"
	ReportLinePropertyMaintenance  ReportLine = "property_maintenance"
	ReportLineStaffSalaries        ReportLine = "staff_salaries"
	ReportLineMarketing            ReportLine = "marketing"
	ReportLineProfessionalServices ReportLine = "professional_services"

	// Balance sheet lines.
	ReportLineCashAndEquivalents   ReportLine = "cash_and_equivalents"
	ReportLineInvestmentProperties ReportLine = "investment_properties"
	ReportLineEquipment            ReportLine = "equipment"
	ReportLineAccruedExpenses      ReportLine = "accrued_expenses"
	ReportLineLongTermLoans        ReportLine = "long_term_loans"
	ReportLineOwnersEquity         ReportLine = "owners_equity"
	ReportLineRetainedEarnings     ReportLine = "retained_earnings"
)

// reportLineTypes maps each report line to the account type it belongs to.
var reportLineTypes = map[ReportLine]AccountType{
	ReportLineRentalIncome:         AccountTypeRevenue,
	ReportLinePropertyMgmtFees:     AccountTypeRevenue,
	ReportLinePropertyMaintenance:  AccountTypeExpense,
	ReportLineStaffSalaries:        AccountTypeExpense,
	ReportLineMarketing:            AccountTypeExpense,
	ReportLineProfessionalServices: AccountTypeExpense,
	ReportLineCashAndEquivalents:   AccountTypeAsset,
	ReportLineInvestmentProperties: AccountTypeAsset,
	ReportLineEquipment:            AccountTypeAsset,
	ReportLineAccruedExpenses:      AccountTypeLiability,
	ReportLineLongTermLoans:        AccountTypeLiability,
	ReportLineOwnersEquity:         AccountTypeEquity,
	ReportLineRetainedEarnings:     AccountTypeEquity,
}

// ValidFor reports whether the line may be assigned to an account of the
// given type. The empty line is valid for any type: such accounts still
// count toward section totals but have no named statement line.
func (l ReportLine) ValidFor(t AccountType) bool {
	if l == ReportLineNone {
		return true
	}
	lineType, ok := reportLineTypes[l]
	return ok && lineType == t
}

// InvoiceStatus is shared by the receivables (invoices) and payables
// (bills) subledgers.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "UNPAID"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// IsValid reports whether the status is a known subledger status.
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPaid || s == InvoiceStatusOverdue
}
