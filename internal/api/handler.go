package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/ledger"
	"github.com/propledger-dev/propledger/internal/models"
	"github.com/propledger-dev/propledger/internal/service"
)

// Handler wires the HTTP surface to the service layer.
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/login", h.login)
	}

	api := router.Group("/api")
	api.Use(AuthMiddleware())
	{
		api.GET("/accounts", h.listAccounts)
		api.POST("/accounts", h.createAccount)
		api.GET("/accounts/summary", h.accountsSummary)
		api.GET("/accounts/trial-balance", h.trialBalance)
		api.GET("/accounts/:id", h.getAccount)
		api.PUT("/accounts/:id", h.updateAccount)
		api.DELETE("/accounts/:id", h.deleteAccount)

		api.POST("/postings", h.recordPosting)
		api.GET("/postings", h.queryPostings)

		api.POST("/journal-entries", h.recordJournalEntry)
		api.POST("/journal-entries/:id/reverse", h.reverseJournalEntry)

		api.GET("/reports", h.combinedReports)
		api.GET("/reports/profit-and-loss", h.profitAndLoss)
		api.GET("/reports/balance-sheet", h.balanceSheet)

		api.GET("/invoices", h.listInvoices)
		api.POST("/invoices", h.createInvoice)
		api.POST("/invoices/:id/pay", h.payInvoice)

		api.GET("/bills", h.listBills)
		api.POST("/bills", h.createBill)
		api.POST("/bills/:id/pay", h.payBill)
	}
}

// respondError maps an application error kind to an HTTP status and the
// standard error body. Imbalance failures keep their distinct code so a
// broken report is never mistaken for a generic server error.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    string(apperr.KindStorage),
			Message: "Internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindDuplicate, apperr.KindIntegrity, apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindImbalance, apperr.KindStorage:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    string(appErr.Kind),
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

func bindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    string(apperr.KindValidation),
		Message: err.Error(),
	})
}

// Authentication handlers
func (h *Handler) signUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		// Bad credentials must not leak which part was wrong.
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindValidation {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid email or password",
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Chart of accounts handlers
func (h *Handler) listAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) createAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	account, err := h.svc.CreateAccount(c.Request.Context(), ownerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.AccountResponse{Status: "success", Account: account})
}

func (h *Handler) getAccount(c *gin.Context) {
	account, err := h.svc.GetAccount(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AccountResponse{Status: "success", Account: account})
}

func (h *Handler) updateAccount(c *gin.Context) {
	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	account, err := h.svc.UpdateAccount(c.Request.Context(), ownerID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AccountResponse{Status: "success", Account: account})
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.svc.DeleteAccount(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) accountsSummary(c *gin.Context) {
	summary, err := h.svc.GetAccountsSummary(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// reportRange resolves the period / startDate / endDate query parameters
// into a date range. No parameters means full history (nil).
func reportRange(c *gin.Context) (*ledger.DateRange, error) {
	period := c.Query("period")
	startRaw, endRaw := c.Query("startDate"), c.Query("endDate")

	if period != "" {
		rng, err := ledger.ResolvePeriod(period, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		return &rng, nil
	}

	if startRaw == "" && endRaw == "" {
		return nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, apperr.Validation("startDate", "startDate and endDate must both be provided")
	}

	start, err := ledger.ParseDate(startRaw)
	if err != nil {
		return nil, err
	}
	end, err := ledger.ParseDate(endRaw)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperr.Validation("endDate", "endDate precedes startDate")
	}
	return &ledger.DateRange{Start: start, End: end}, nil
}

// periodRange is reportRange with the original's current_month default,
// for the period-scoped statements.
func periodRange(c *gin.Context) (ledger.DateRange, error) {
	rng, err := reportRange(c)
	if err != nil {
		return ledger.DateRange{}, err
	}
	if rng == nil {
		return ledger.ResolvePeriod(ledger.PeriodCurrentMonth, time.Now().UTC())
	}
	return *rng, nil
}

func (h *Handler) trialBalance(c *gin.Context) {
	rng, err := reportRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.svc.GetTrialBalance(c.Request.Context(), ownerID(c), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Ledger handlers
func (h *Handler) recordPosting(c *gin.Context) {
	var req models.RecordPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	posting, err := h.svc.RecordPosting(c.Request.Context(), ownerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.PostingResponse{Status: "success", PostingID: posting.ID})
}

func (h *Handler) queryPostings(c *gin.Context) {
	q := service.PostingQuery{
		AccountID:   c.Query("accountId"),
		AccountType: c.Query("accountType"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
	}

	postings, err := h.svc.QueryPostings(c.Request.Context(), ownerID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postings)
}

func (h *Handler) recordJournalEntry(c *gin.Context) {
	var req models.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	entry, postings, err := h.svc.RecordJournalEntry(c.Request.Context(), ownerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]string, len(postings))
	for i, p := range postings {
		ids[i] = p.ID
	}
	c.JSON(http.StatusCreated, models.JournalEntryResponse{
		Status:         "success",
		JournalEntryID: entry.ID,
		PostingIDs:     ids,
	})
}

func (h *Handler) reverseJournalEntry(c *gin.Context) {
	reversal, err := h.svc.ReverseJournalEntry(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.JournalEntryResponse{
		Status:         "success",
		JournalEntryID: reversal.ID,
	})
}

// Report handlers
func (h *Handler) combinedReports(c *gin.Context) {
	rng, err := periodRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.svc.GetReports(c.Request.Context(), ownerID(c), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) profitAndLoss(c *gin.Context) {
	rng, err := periodRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.svc.GetProfitAndLoss(c.Request.Context(), ownerID(c), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) balanceSheet(c *gin.Context) {
	report, err := h.svc.GetBalanceSheet(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Subledger handlers
func (h *Handler) listInvoices(c *gin.Context) {
	invoices, err := h.svc.ListInvoices(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.InvoiceListResponse{Invoices: invoices})
}

func (h *Handler) createInvoice(c *gin.Context) {
	var req models.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	invoice, err := h.svc.CreateInvoice(c.Request.Context(), ownerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *Handler) payInvoice(c *gin.Context) {
	if err := h.svc.MarkInvoicePaid(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) listBills(c *gin.Context) {
	bills, err := h.svc.ListBills(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BillListResponse{Bills: bills})
}

func (h *Handler) createBill(c *gin.Context) {
	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	bill, err := h.svc.CreateBill(c.Request.Context(), ownerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *Handler) payBill(c *gin.Context) {
	if err := h.svc.MarkBillPaid(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
