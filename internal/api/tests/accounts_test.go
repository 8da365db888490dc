package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propledger-dev/propledger/internal/api/testutils"
	"github.com/propledger-dev/propledger/internal/models"
)

// createAccount posts an account through the API and returns its id.
func createAccount(t *testing.T, tc *testutils.TestContext, code, name, accountType, reportLine string) string {
	t.Helper()

	w := testutils.PerformRequest(
		tc.Router,
		http.MethodPost,
		"/api/accounts",
		models.CreateAccountRequest{
			Code:       code,
			Name:       name,
			Type:       accountType,
			ReportLine: reportLine,
		},
		testutils.AuthHeaders(tc.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.AccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Account)
	return resp.Account.ID
}

func TestAccountCRUD(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	id := createAccount(t, testCtx, "1000", "Cash", "Asset", "cash_and_equivalents")

	// Get it back
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/accounts/"+id,
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.AccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Cash", got.Account.Name)
	assert.Equal(t, models.AccountTypeAsset, got.Account.Type)

	// Update
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/accounts/"+id,
		models.UpdateAccountRequest{
			Code:       "1000",
			Name:       "Operating Cash",
			Type:       "Asset",
			ReportLine: "cash_and_equivalents",
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	// List shows the updated name
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/accounts",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var accounts []models.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, "Operating Cash", accounts[0].Name)

	// Delete
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/accounts/"+id,
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/accounts/"+id,
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountDuplicateCode(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createAccount(t, testCtx, "1000", "Cash", "Asset", "")

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/accounts",
		models.CreateAccountRequest{Code: "1000", Name: "Another Cash", Type: "Asset"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusConflict, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "DUPLICATE_CODE", errResp.Code)
}

func TestAccountValidation(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Unknown account type
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/accounts",
		models.CreateAccountRequest{Code: "1000", Name: "Cash", Type: "Banana"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Report line belonging to another type
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/accounts",
		models.CreateAccountRequest{Code: "4000", Name: "Rent", Type: "Asset", ReportLine: "rental_income"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Equal(t, "reportLine", errResp.Field)
}

func TestAccountDeleteWithPostings(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	id := createAccount(t, testCtx, "1000", "Cash", "Asset", "cash_and_equivalents")

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/postings",
		models.RecordPostingRequest{AccountID: id, Date: "2025-08-01", Debit: "100.00"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Referenced account must not delete.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/accounts/"+id,
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusConflict, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "INTEGRITY_VIOLATION", errResp.Code)

	// Still there.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/accounts/"+id,
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)
}
