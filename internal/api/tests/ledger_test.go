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

// postJournalEntry records a balanced entry and returns its id.
func postJournalEntry(t *testing.T, tc *testutils.TestContext, req models.JournalEntryRequest) models.JournalEntryResponse {
	t.Helper()

	w := testutils.PerformRequest(
		tc.Router,
		http.MethodPost,
		"/api/journal-entries",
		req,
		testutils.AuthHeaders(tc.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.JournalEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JournalEntryID)
	return resp
}

func TestRecordPostingExclusivity(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	id := createAccount(t, testCtx, "1000", "Cash", "Asset", "cash_and_equivalents")

	// Both sides set
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/postings",
		models.RecordPostingRequest{AccountID: id, Date: "2025-08-01", Debit: "10.00", Credit: "10.00"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Neither side set
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/postings",
		models.RecordPostingRequest{AccountID: id, Date: "2025-08-01"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown account
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/postings",
		models.RecordPostingRequest{AccountID: "00000000-0000-0000-0000-000000000000", Date: "2025-08-01", Debit: "10.00"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJournalEntryBalanceCheck(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	cash := createAccount(t, testCtx, "1000", "Cash", "Asset", "cash_and_equivalents")
	rent := createAccount(t, testCtx, "4000", "Rental Income", "Revenue", "rental_income")

	// Unbalanced entry is rejected with nothing written.
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/journal-entries",
		models.JournalEntryRequest{
			Date: "2025-08-05",
			Legs: []models.JournalLegRequest{
				{AccountID: cash, Debit: "100.00"},
				{AccountID: rent, Credit: "90.00"},
			},
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusConflict, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "INTEGRITY_VIOLATION", errResp.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/postings",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var postings []models.Posting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &postings))
	assert.Empty(t, postings)

	// A single leg fails request binding before the service runs.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/journal-entries",
		models.JournalEntryRequest{
			Date: "2025-08-05",
			Legs: []models.JournalLegRequest{{AccountID: cash, Debit: "100.00"}},
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Balanced entry lands both postings.
	resp := postJournalEntry(t, testCtx, models.JournalEntryRequest{
		Date:        "2025-08-05",
		Description: "August rent",
		Legs: []models.JournalLegRequest{
			{AccountID: cash, Debit: "100.00"},
			{AccountID: rent, Credit: "100.00"},
		},
	})
	assert.Len(t, resp.PostingIDs, 2)
}

func TestJournalEntryReversal(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	cash := createAccount(t, testCtx, "1000", "Cash", "Asset", "cash_and_equivalents")
	rent := createAccount(t, testCtx, "4000", "Rental Income", "Revenue", "rental_income")

	entry := postJournalEntry(t, testCtx, models.JournalEntryRequest{
		Date: "2025-08-05",
		Legs: []models.JournalLegRequest{
			{AccountID: cash, Debit: "100.00"},
			{AccountID: rent, Credit: "100.00"},
		},
	})

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/journal-entries/"+entry.JournalEntryID+"/reverse",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Originals stay in the ledger alongside the offsets.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/postings",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var postings []models.Posting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &postings))
	assert.Len(t, postings, 4)
	for _, p := range postings {
		assert.Equal(t, models.PostingStatusReversed, p.Status)
	}

	// The net effect is zero, so the trial balance is empty.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/accounts/trial-balance",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.TrialBalanceRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Empty(t, rows)

	// Second reversal conflicts.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/journal-entries/"+entry.JournalEntryID+"/reverse",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestQueryPostingsByRange(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	cash := createAccount(t, testCtx, "1000", "Cash", "Asset", "cash_and_equivalents")
	rent := createAccount(t, testCtx, "4000", "Rental Income", "Revenue", "rental_income")

	postJournalEntry(t, testCtx, models.JournalEntryRequest{
		Date: "2025-07-31",
		Legs: []models.JournalLegRequest{
			{AccountID: cash, Debit: "50.00"},
			{AccountID: rent, Credit: "50.00"},
		},
	})
	postJournalEntry(t, testCtx, models.JournalEntryRequest{
		Date: "2025-08-05",
		Legs: []models.JournalLegRequest{
			{AccountID: cash, Debit: "100.00"},
			{AccountID: rent, Credit: "100.00"},
		},
	})

	// Inclusive bounds: only the August entry.
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/postings?startDate=2025-08-01&endDate=2025-08-05",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var postings []models.Posting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &postings))
	assert.Len(t, postings, 2)

	// accountId and accountType together are rejected.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/postings?accountId="+cash+"&accountType=Asset",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
