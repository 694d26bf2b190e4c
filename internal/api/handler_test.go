package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/squadgrid/payment-dashboard/internal/api"
	"github.com/squadgrid/payment-dashboard/internal/api/middleware"
	"github.com/squadgrid/payment-dashboard/internal/config"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/gateway"
	"github.com/squadgrid/payment-dashboard/internal/idempotency"
	"github.com/squadgrid/payment-dashboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret-key-at-least-32-chars-long"

func TestMain(m *testing.M) {
	middleware.SetJWTSecret(testJWTSecret)
	middleware.SetJWTValidation("squadgrid-dashboard", "squadgrid-api")
	os.Exit(m.Run())
}

type testAPI struct {
	router http.Handler
	store  *store.Store
	token  string
}

func setupAPI(t *testing.T, gw gateway.Gateway) *testAPI {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:          testJWTSecret,
		JWTIssuer:          "squadgrid-dashboard",
		JWTAudience:        "squadgrid-api",
		WidgetOrigin:       "https://squadgrid.xyz",
		PublicRateLimitRPS: 1000,
		AuthRateLimitRPS:   1000,
		IdempotencyTTL:     time.Hour,
	}
	st := store.NewSeeded()
	idemStore := idempotency.NewStore(nil, cfg.IdempotencyTTL)
	router := api.NewRouter(cfg, zap.NewNop(), st, gw, idemStore, nil).Routes()

	a := &testAPI{router: router, store: st}
	a.token = a.login(t, "merchant-1")
	return a
}

func settlingAPI(t *testing.T) *testAPI {
	t.Helper()
	return setupAPI(t, &gateway.MockGateway{FailureRate: 0, MaxDelay: 0})
}

func (a *testAPI) login(t *testing.T, merchantID string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/v1/auth/login", map[string]string{"merchant_id": merchantID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (a *testAPI) do(t *testing.T, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) doAuthed(t *testing.T, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Authorization"] = "Bearer " + a.token
	return a.do(t, method, path, payload, headers)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := settlingAPI(t)

	rec := a.do(t, http.MethodGet, "/v1/payment-links", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = a.do(t, http.MethodGet, "/v1/payment-links", nil, map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MissingMerchantID(t *testing.T) {
	a := settlingAPI(t)
	rec := a.do(t, http.MethodPost, "/v1/auth/login", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPaymentLinks_Seeded(t *testing.T) {
	a := settlingAPI(t)
	rec := a.doAuthed(t, http.MethodGet, "/v1/payment-links", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["paymentLinks"], 2)
}

func TestCreatePaymentLink(t *testing.T) {
	a := settlingAPI(t)

	rec := a.doAuthed(t, http.MethodPost, "/v1/payment-links", map[string]interface{}{
		"amount":      "49.99",
		"currency":    "USDC",
		"description": "Consulting session",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	link := body["paymentLink"].(map[string]interface{})
	assert.Equal(t, "49.99", link["amount"])
	assert.Equal(t, "active", link["status"])
	assert.Len(t, link["linkId"], 8)
	assert.NotEmpty(t, link["merchantWallet"])
}

func TestCreatePaymentLink_MissingFields(t *testing.T) {
	a := settlingAPI(t)

	rec := a.doAuthed(t, http.MethodPost, "/v1/payment-links", map[string]interface{}{
		"description": "no amount",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Contains(t, body["type"], "links/missing-fields")
	assert.Equal(t, "Amount and currency are required", body["detail"])
}

func TestPaymentLinkLifecycle(t *testing.T) {
	a := settlingAPI(t)
	linkID := a.store.AllPaymentLinks()[0].LinkID

	// A live link serves the public checkout page.
	rec := a.do(t, http.MethodGet, "/v1/checkout/"+linkID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.doAuthed(t, http.MethodPatch, "/v1/payment-links/"+linkID, map[string]string{"status": "paused"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	link := body["paymentLink"].(map[string]interface{})
	assert.Equal(t, "paused", link["status"])

	// Paused links answer 410 on checkout and refuse payments.
	rec = a.do(t, http.MethodGet, "/v1/checkout/"+linkID, nil, nil)
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = a.doAuthed(t, http.MethodPatch, "/v1/payment-links/"+linkID, map[string]string{"status": "live"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_UnknownLink(t *testing.T) {
	a := settlingAPI(t)
	rec := a.do(t, http.MethodGet, "/v1/checkout/missing0", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessPayment_EndToEnd(t *testing.T) {
	a := settlingAPI(t)
	linkID := a.store.AllPaymentLinks()[0].LinkID
	before := len(a.store.AllTransactions())

	rec := a.do(t, http.MethodPost, "/v1/payments", map[string]interface{}{
		"paymentLinkId":  linkID,
		"paymentMethod":  "wallet",
		"customerWallet": domain.NewWalletAddress(),
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["signature"])
	assert.NotEmpty(t, body["gridTransferId"])
	assert.Len(t, a.store.AllTransactions(), before+1)
}

func TestProcessPayment_MissingIdempotencyKey(t *testing.T) {
	a := settlingAPI(t)
	linkID := a.store.AllPaymentLinks()[0].LinkID

	rec := a.do(t, http.MethodPost, "/v1/payments", map[string]interface{}{
		"paymentLinkId": linkID,
		"paymentMethod": "card",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Contains(t, body["type"], "idempotency/missing-key")
}

func TestProcessPayment_IdempotentReplay(t *testing.T) {
	a := settlingAPI(t)
	linkID := a.store.AllPaymentLinks()[0].LinkID
	key := uuid.NewString()
	payload := map[string]interface{}{
		"paymentLinkId": linkID,
		"paymentMethod": "card",
	}

	first := a.do(t, http.MethodPost, "/v1/payments", payload, map[string]string{"Idempotency-Key": key})
	require.Equal(t, http.StatusOK, first.Code)
	before := len(a.store.AllTransactions())

	second := a.do(t, http.MethodPost, "/v1/payments", payload, map[string]string{"Idempotency-Key": key})
	require.Equal(t, http.StatusOK, second.Code)
	assert.NotEmpty(t, second.Header().Get("X-Idempotent-Replay"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	// The replay never reaches the service, so no second transaction exists.
	assert.Len(t, a.store.AllTransactions(), before)
}

func TestProcessPayment_KeyConflict(t *testing.T) {
	a := settlingAPI(t)
	linkID := a.store.AllPaymentLinks()[0].LinkID
	key := uuid.NewString()

	first := a.do(t, http.MethodPost, "/v1/payments", map[string]interface{}{
		"paymentLinkId": linkID,
		"paymentMethod": "card",
	}, map[string]string{"Idempotency-Key": key})
	require.Equal(t, http.StatusOK, first.Code)

	// Same key, different body.
	second := a.do(t, http.MethodPost, "/v1/payments", map[string]interface{}{
		"paymentLinkId": linkID,
		"paymentMethod": "wallet",
		"solanaSignature": "sig",
	}, map[string]string{"Idempotency-Key": key})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestProcessPayment_Declined(t *testing.T) {
	a := setupAPI(t, &gateway.MockGateway{FailureRate: 1, MaxDelay: 0})
	linkID := a.store.AllPaymentLinks()[0].LinkID
	before := len(a.store.AllTransactions())

	rec := a.do(t, http.MethodPost, "/v1/payments", map[string]interface{}{
		"paymentLinkId": linkID,
		"paymentMethod": "card",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Transaction could not be processed. Please try again.", body["detail"])

	// The declined attempt is still written to the ledger.
	assert.Len(t, a.store.AllTransactions(), before+1)
}

func TestProcessPayment_UnknownLinkAnswers404(t *testing.T) {
	a := settlingAPI(t)
	rec := a.do(t, http.MethodPost, "/v1/payments", map[string]interface{}{
		"paymentLinkId": "missing0",
		"paymentMethod": "card",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWidgets_CreateAndFetch(t *testing.T) {
	a := settlingAPI(t)
	linkID := a.store.AllPaymentLinks()[0].LinkID

	rec := a.doAuthed(t, http.MethodPost, "/v1/widgets", map[string]interface{}{
		"name":          "Checkout Button",
		"type":          "button",
		"buttonText":    "Pay Now",
		"paymentLinkId": linkID,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	widget := body["widget"].(map[string]interface{})
	assert.Contains(t, widget["embedCode"], linkID)
	widgetID := widget["id"].(string)

	rec = a.doAuthed(t, http.MethodGet, "/v1/widgets/"+widgetID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.doAuthed(t, http.MethodDelete, "/v1/widgets/"+widgetID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.doAuthed(t, http.MethodGet, "/v1/widgets/"+widgetID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWidgets_Validation(t *testing.T) {
	a := settlingAPI(t)

	rec := a.doAuthed(t, http.MethodPost, "/v1/widgets", map[string]interface{}{
		"type": "button",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.doAuthed(t, http.MethodPost, "/v1/widgets", map[string]interface{}{
		"name":          "Orphan",
		"type":          "button",
		"buttonText":    "Pay",
		"paymentLinkId": "missing0",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.doAuthed(t, http.MethodGet, "/v1/widgets/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccounts_CreateAndList(t *testing.T) {
	a := settlingAPI(t)

	rec := a.doAuthed(t, http.MethodGet, "/v1/accounts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["accounts"], 3)

	rec = a.doAuthed(t, http.MethodPost, "/v1/accounts", map[string]interface{}{
		"accountName": "New Savings",
		"accountType": "savings",
		"enableYield": true,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	account := body["account"].(map[string]interface{})
	assert.Equal(t, "active", account["status"])
	assert.Equal(t, "0.00", account["totalBalance"])
	assert.Equal(t, 5.1, account["yieldRate"])

	rec = a.doAuthed(t, http.MethodGet, "/v1/accounts/missing0", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransfers_InternalEndToEnd(t *testing.T) {
	a := settlingAPI(t)
	accounts := a.store.AllVirtualAccounts()
	require.GreaterOrEqual(t, len(accounts), 2)

	rec := a.doAuthed(t, http.MethodPost, "/v1/transfers/internal", map[string]interface{}{
		"fromAccountId": accounts[0].AccountID,
		"toAccountId":   accounts[1].AccountID,
		"amount":        "100.00",
		"currency":      "USDC",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	send := body["send"].(map[string]interface{})
	receive := body["receive"].(map[string]interface{})
	assert.Equal(t, "send", send["transactionType"])
	assert.Equal(t, "receive", receive["transactionType"])
	assert.Equal(t, send["gridTransferId"], receive["gridTransferId"])
}

func TestTransfers_DepositAndWithdraw(t *testing.T) {
	a := settlingAPI(t)
	accountID := a.store.AllVirtualAccounts()[0].AccountID

	rec := a.doAuthed(t, http.MethodPost, "/v1/transfers/deposit", map[string]interface{}{
		"accountId": accountID,
		"amount":    "100.00",
		"currency":  "USDC",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.doAuthed(t, http.MethodPost, "/v1/transfers/withdraw", map[string]interface{}{
		"accountId":       accountID,
		"recipientWallet": domain.NewWalletAddress(),
		"amount":          "50.00",
		"currency":        "USDC",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.doAuthed(t, http.MethodPost, "/v1/transfers/withdraw", map[string]interface{}{
		"accountId":       "missing0",
		"recipientWallet": domain.NewWalletAddress(),
		"amount":          "50.00",
		"currency":        "USDC",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransfers_CrossBorder(t *testing.T) {
	a := settlingAPI(t)
	accountID := a.store.AllVirtualAccounts()[0].AccountID

	rec := a.doAuthed(t, http.MethodPost, "/v1/transfers/cross-border", map[string]interface{}{
		"fromAccountId":   accountID,
		"recipientName":   "Jane Abroad",
		"recipientWallet": domain.NewWalletAddress(),
		"amount":          "250.00",
		"currency":        "USDC",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	tx := body["transaction"].(map[string]interface{})
	assert.Equal(t, "cross_border", tx["transferType"])

	rec = a.doAuthed(t, http.MethodGet, "/v1/transactions/cross-border", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["transactions"], 2)
}

func TestYield_ListAndByAccount(t *testing.T) {
	a := settlingAPI(t)

	rec := a.doAuthed(t, http.MethodGet, "/v1/yield", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["earnings"], 3)

	accountID := a.store.AllYieldEarnings()[0].AccountID
	rec = a.doAuthed(t, http.MethodGet, fmt.Sprintf("/v1/accounts/%s/yield", accountID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.doAuthed(t, http.MethodGet, "/v1/accounts/missing0/yield", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalytics(t *testing.T) {
	a := settlingAPI(t)

	rec := a.doAuthed(t, http.MethodGet, "/v1/analytics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(10), stats["transactionCount"])
	assert.Len(t, stats["revenueByMonth"], 12)
	assert.NotEmpty(t, stats["paymentMethodDistribution"])
}

func TestOperationalEndpoints(t *testing.T) {
	a := settlingAPI(t)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics", "/openapi.yaml"} {
		rec := a.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestTraceHeaderPropagated(t *testing.T) {
	a := settlingAPI(t)

	rec := a.do(t, http.MethodGet, "/health/live", nil, nil)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))

	rec = a.do(t, http.MethodGet, "/health/live", nil, map[string]string{"X-Trace-ID": "trace-123"})
	assert.Equal(t, "trace-123", rec.Header().Get("X-Trace-ID"))
}
