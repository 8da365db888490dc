package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/propledger-dev/propledger/internal/apperr"
	"github.com/propledger-dev/propledger/internal/models"
)

// validateAccountFields checks the shared create/update field rules and
// returns the parsed type and report line.
func validateAccountFields(code, name, typ, reportLine string) (models.AccountType, models.ReportLine, error) {
	if strings.TrimSpace(code) == "" {
		return "", "", apperr.Validation("code", "code must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return "", "", apperr.Validation("name", "name must not be empty")
	}

	accountType := models.AccountType(typ)
	if !accountType.IsValid() {
		return "", "", apperr.Validation("type", "invalid account type %q", typ)
	}

	line := models.ReportLine(reportLine)
	if !line.ValidFor(accountType) {
		return "", "", apperr.Validation("reportLine", "report line %q is not valid for account type %q", reportLine, typ)
	}

	return accountType, line, nil
}

// Chart of accounts operations
func (s *DefaultService) CreateAccount(ctx context.Context, ownerID string, req models.CreateAccountRequest) (*models.Account, error) {
	accountType, line, err := validateAccountFields(req.Code, req.Name, req.Type, req.ReportLine)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		OwnerID:     ownerID,
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Type:        accountType,
		Category:    req.Category,
		ReportLine:  line,
		Description: req.Description,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return account, nil
}

func (s *DefaultService) UpdateAccount(ctx context.Context, ownerID, accountID string, req models.UpdateAccountRequest) (*models.Account, error) {
	accountType, line, err := validateAccountFields(req.Code, req.Name, req.Type, req.ReportLine)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:          accountID,
		OwnerID:     ownerID,
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Type:        accountType,
		Category:    req.Category,
		ReportLine:  line,
		Description: req.Description,
	}

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error updating account: %w", err)
	}

	return account, nil
}

func (s *DefaultService) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	if err := s.repo.DeleteAccount(ctx, ownerID, accountID); err != nil {
		if _, ok := apperr.As(err); ok {
			return err
		}
		return fmt.Errorf("error deleting account: %w", err)
	}
	return nil
}

func (s *DefaultService) GetAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error) {
	account, err := s.repo.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if account == nil {
		return nil, apperr.NotFound("account %s not found", accountID)
	}
	return account, nil
}

func (s *DefaultService) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	return accounts, nil
}
