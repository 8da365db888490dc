package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/ledger"
	"github.com/propledger-dev/propledger/internal/models"
	"github.com/propledger-dev/propledger/internal/repository"
)

// PostingQuery is the caller-facing posting filter. Dates are YYYY-MM-DD
// strings; an empty bound leaves that side of the range open.
type PostingQuery struct {
	AccountID   string
	AccountType string
	StartDate   string
	EndDate     string
}

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Chart of accounts
	CreateAccount(ctx context.Context, ownerID string, req models.CreateAccountRequest) (*models.Account, error)
	UpdateAccount(ctx context.Context, ownerID, accountID string, req models.UpdateAccountRequest) (*models.Account, error)
	DeleteAccount(ctx context.Context, ownerID, accountID string) error
	GetAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error)

	// Ledger
	RecordPosting(ctx context.Context, ownerID string, req models.RecordPostingRequest) (*models.Posting, error)
	RecordJournalEntry(ctx context.Context, ownerID string, req models.JournalEntryRequest) (*models.JournalEntry, []models.Posting, error)
	ReverseJournalEntry(ctx context.Context, ownerID, entryID string) (*models.JournalEntry, error)
	QueryPostings(ctx context.Context, ownerID string, q PostingQuery) ([]models.Posting, error)

	// Reports
	GetTrialBalance(ctx context.Context, ownerID string, rng *ledger.DateRange) ([]models.TrialBalanceRow, error)
	GetProfitAndLoss(ctx context.Context, ownerID string, rng ledger.DateRange) (*models.ProfitAndLossReport, error)
	GetBalanceSheet(ctx context.Context, ownerID string) (*models.BalanceSheetReport, error)
	GetReports(ctx context.Context, ownerID string, rng ledger.DateRange) (*models.ReportResponse, error)
	GetAccountsSummary(ctx context.Context, ownerID string) (*models.AccountsSummaryResponse, error)

	// Receivables / payables subledgers
	CreateInvoice(ctx context.Context, ownerID string, req models.CreateInvoiceRequest) (*models.Invoice, error)
	ListInvoices(ctx context.Context, ownerID string) ([]models.Invoice, error)
	MarkInvoicePaid(ctx context.Context, ownerID, invoiceID string) error
	CreateBill(ctx context.Context, ownerID string, req models.CreateBillRequest) (*models.Bill, error)
	ListBills(ctx context.Context, ownerID string) ([]models.Bill, error)
	MarkBillPaid(ctx context.Context, ownerID, billID string) error
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, jwtSecret string) *DefaultService {
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
		now:           time.Now,
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, apperr.Conflict("user with this email already exists")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Create the user
	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	// Get the user
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperr.Validation("email", "invalid email or password")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Validation("email", "invalid email or password")
	}

	// Generate JWT token
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := s.now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject, carried through as the owner id
		"exp": expirationTime.Unix(),
		"iat": s.now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
