package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Category    string `json:"category"`
	ReportLine  string `json:"reportLine"`
	Description string `json:"description"`
}

type UpdateAccountRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Category    string `json:"category"`
	ReportLine  string `json:"reportLine"`
	Description string `json:"description"`
}

// RecordPostingRequest carries amounts as strings so they reach the
// decimal parser without passing through a binary float.
type RecordPostingRequest struct {
	AccountID   string `json:"accountId" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
}

type JournalLegRequest struct {
	AccountID   string `json:"accountId" binding:"required"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Description string `json:"description"`
}

type JournalEntryRequest struct {
	Date        string              `json:"date" binding:"required"` // YYYY-MM-DD
	Reference   string              `json:"reference"`
	Description string              `json:"description"`
	Legs        []JournalLegRequest `json:"legs" binding:"required,min=2,dive"`
}

type CreateInvoiceRequest struct {
	Number      string `json:"number" binding:"required"`
	Date        string `json:"date" binding:"required"`    // YYYY-MM-DD
	DueDate     string `json:"dueDate" binding:"required"` // YYYY-MM-DD
	Amount      string `json:"amount" binding:"required"`
	TaxAmount   string `json:"taxAmount"`
	ClientName  string `json:"clientName" binding:"required"`
	ClientEmail string `json:"clientEmail"`
	Description string `json:"description"`
}

type CreateBillRequest struct {
	Number      string `json:"number" binding:"required"`
	Date        string `json:"date" binding:"required"`    // YYYY-MM-DD
	DueDate     string `json:"dueDate" binding:"required"` // YYYY-MM-DD
	Amount      string `json:"amount" binding:"required"`
	TaxAmount   string `json:"taxAmount"`
	VendorName  string `json:"vendorName" binding:"required"`
	VendorEmail string `json:"vendorEmail"`
	Description string `json:"description"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type AccountResponse struct {
	Status  string   `json:"status"`
	Account *Account `json:"account,omitempty"`
}

type PostingResponse struct {
	Status    string `json:"status"`
	PostingID string `json:"postingId"`
}

type JournalEntryResponse struct {
	Status         string   `json:"status"`
	JournalEntryID string   `json:"journalEntryId"`
	PostingIDs     []string `json:"postingIds"`
}

// TrialBalanceRow is one line of the trial balance. Exactly one of
// Debit/Credit is set; the other column is omitted from the JSON.
type TrialBalanceRow struct {
	Account string `json:"account"`
	Debit   string `json:"debit,omitempty"`
	Credit  string `json:"credit,omitempty"`
}

type RevenueBreakdown struct {
	RentalIncome           string `json:"rentalIncome"`
	PropertyManagementFees string `json:"propertyManagementFees"`
	TotalRevenue           string `json:"totalRevenue"`
}

type ExpenseBreakdown struct {
	PropertyMaintenance  string `json:"propertyMaintenance"`
	StaffSalaries        string `json:"staffSalaries"`
	Marketing            string `json:"marketing"`
	ProfessionalServices string `json:"professionalServices"`
	TotalExpenses        string `json:"totalExpenses"`
}

type ProfitAndLossReport struct {
	Revenue   RevenueBreakdown `json:"revenue"`
	Expenses  ExpenseBreakdown `json:"expenses"`
	NetIncome string           `json:"netIncome"`
}

type AssetsBreakdown struct {
	CashAndEquivalents   string `json:"cashAndEquivalents"`
	AccountsReceivable   string `json:"accountsReceivable"`
	InvestmentProperties string `json:"investmentProperties"`
	Equipment            string `json:"equipment"`
	TotalAssets          string `json:"totalAssets"`
}

type LiabilitiesBreakdown struct {
	AccountsPayable  string `json:"accountsPayable"`
	AccruedExpenses  string `json:"accruedExpenses"`
	LongTermLoans    string `json:"longTermLoans"`
	TotalLiabilities string `json:"totalLiabilities"`
}

type EquityBreakdown struct {
	OwnersEquity     string `json:"ownersEquity"`
	RetainedEarnings string `json:"retainedEarnings"`
	TotalEquity      string `json:"totalEquity"`
}

type BalanceSheetReport struct {
	Assets                    AssetsBreakdown      `json:"assets"`
	Liabilities               LiabilitiesBreakdown `json:"liabilities"`
	Equity                    EquityBreakdown      `json:"equity"`
	TotalLiabilitiesAndEquity string               `json:"totalLiabilitiesAndEquity"`
}

// ReportResponse is the combined report shape served by GET /api/reports.
type ReportResponse struct {
	ProfitAndLoss ProfitAndLossReport `json:"profitAndLoss"`
	BalanceSheet  BalanceSheetReport  `json:"balanceSheet"`
}

// AccountsSummaryResponse carries the cumulative dashboard totals.
type AccountsSummaryResponse struct {
	TotalAssets      string `json:"totalAssets"`
	TotalLiabilities string `json:"totalLiabilities"`
	OwnersEquity     string `json:"ownersEquity"`
	NetIncome        string `json:"netIncome"`
}

type InvoiceListResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type BillListResponse struct {
	Bills []Bill `json:"bills"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
