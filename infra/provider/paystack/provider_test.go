package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/provider/payment"
)

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Paystack{
		SecretKey:   "sk_test_secret",
		BaseURL:     srv.URL,
		CallbackURL: "http://localhost:3000/checkout/return",
		HTTPTimeout: 5 * time.Second,
	}
	return New(cfg, slog.Default())
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateCheckout_InitializesTransaction(t *testing.T) {
	paymentID := uuid.New()

	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var req InitializeTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "fan@example.com", req.Email)
		assert.Equal(t, int64(800000), req.Amount)
		assert.Equal(t, "NGN", req.Currency)
		assert.Equal(t, paymentID.String(), req.Metadata["payment_id"])

		fmt.Fprintf(w, `{"status":true,"message":"Authorization URL created","data":{
			"authorization_url":"https://checkout.paystack.com/abc123",
			"access_code":"abc123",
			"reference":%q}}`, req.Reference)
	}))

	resp, err := p.CreateCheckout(context.Background(), &payment.CheckoutParams{
		PaymentID:       paymentID,
		CreatorID:       uuid.New(),
		PlanID:          uuid.New(),
		SubscriberEmail: "fan@example.com",
		Amount:          800000,
		Currency:        "NGN",
		Description:     "Membership",
	})
	require.NoError(t, err)
	assert.Equal(t, "np_"+paymentID.String(), resp.ProviderRef)
	assert.Equal(t, "https://checkout.paystack.com/abc123", resp.RedirectURL)
	assert.Equal(t, payment.StatusPending, resp.Status)
}

func TestCreateCheckout_APIErrorSurfaces(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":false,"message":"Invalid amount"}`)
	}))

	_, err := p.CreateCheckout(context.Background(), &payment.CheckoutParams{
		PaymentID:       uuid.New(),
		SubscriberEmail: "fan@example.com",
		Amount:          -1,
		Currency:        "NGN",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid amount")
}

func TestInitiatePayout_Transfers(t *testing.T) {
	itemID := uuid.New()

	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transfer", r.URL.Path)

		var req TransferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "balance", req.Source)
		assert.Equal(t, "RCP_123", req.Recipient)
		assert.Equal(t, int64(16000000), req.Amount)

		fmt.Fprint(w, `{"status":true,"message":"Transfer queued","data":{
			"id":1,"status":"pending","transfer_code":"TRF_456",
			"amount":16000000,"currency":"NGN"}}`)
	}))

	resp, err := p.InitiatePayout(context.Background(), &payment.PayoutParams{
		ItemID:       itemID,
		RunID:        uuid.New(),
		RecipientRef: "RCP_123",
		Amount:       16000000,
		Currency:     "NGN",
		Description:  "Salary",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF_456", resp.ProviderRef)
	assert.Equal(t, payment.StatusPending, resp.Status)
}

func TestInitiatePayout_RequiresRecipient(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := p.InitiatePayout(context.Background(), &payment.PayoutParams{
		ItemID: uuid.New(),
		Amount: 100,
	})
	require.Error(t, err)
}

func TestOnboardCreator_CreatesRecipient(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transferrecipient", r.URL.Path)

		var req CreateRecipientRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nuban", req.Type)
		assert.Equal(t, "NGN", req.Currency)
		assert.Equal(t, "058", req.BankCode)

		fmt.Fprint(w, `{"status":true,"message":"Transfer recipient created","data":{
			"recipient_code":"RCP_789","active":true}}`)
	}))

	resp, err := p.OnboardCreator(context.Background(), &payment.OnboardParams{
		CreatorID:     uuid.New(),
		Email:         "ngozi@example.com",
		CountryCode:   "NG",
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "Ngozi A",
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP_789", resp.AccountRef)
	assert.True(t, resp.Completed)
	assert.Empty(t, resp.RedirectURL)
}

func TestOnboardCreator_RequiresBankDetails(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := p.OnboardCreator(context.Background(), &payment.OnboardParams{
		CreatorID:   uuid.New(),
		CountryCode: "NG",
	})
	require.Error(t, err)
}

func TestHandleWebhook_ChargeSuccess(t *testing.T) {
	p := newTestProvider(t, nil)
	paymentID := uuid.New()
	creatorID := uuid.New()

	body := fmt.Sprintf(`{"event":"charge.success","data":{
		"reference":"np_%s","amount":800000,"currency":"NGN","status":"success",
		"metadata":{"payment_id":%q,"creator_id":%q}}}`,
		paymentID, paymentID.String(), creatorID.String())

	result, err := p.HandleWebhook(
		context.Background(), []byte(body), signBody("sk_test_secret", []byte(body)))
	require.NoError(t, err)
	assert.Equal(t, payment.WebhookPaymentCompleted, result.Kind)
	assert.Equal(t, paymentID, result.PaymentID)
	assert.Equal(t, creatorID, result.CreatorID)
	assert.Equal(t, int64(800000), result.Amount)
	assert.Equal(t, "NGN", result.Currency)
}

func TestHandleWebhook_TransferFailed(t *testing.T) {
	p := newTestProvider(t, nil)
	itemID := uuid.New()

	body := fmt.Sprintf(`{"event":"transfer.failed","data":{
		"reference":"np_item_%s","transfer_code":"TRF_1","amount":100,
		"currency":"NGN","status":"failed","reason":"insufficient balance"}}`, itemID)

	result, err := p.HandleWebhook(
		context.Background(), []byte(body), signBody("sk_test_secret", []byte(body)))
	require.NoError(t, err)
	assert.Equal(t, payment.WebhookPayoutFailed, result.Kind)
	assert.Equal(t, itemID, result.PaymentID)
	assert.Equal(t, "insufficient balance", result.Reason)
}

func TestHandleWebhook_ForeignTransferReferenceAcknowledged(t *testing.T) {
	p := newTestProvider(t, nil)

	// A transfer initiated outside this system has a reference we can't
	// map to a payout item. It must be acknowledged, not bounced, or
	// Paystack keeps retrying the event.
	body := []byte(`{"event":"transfer.success","data":{
		"reference":"manual-ops-transfer","transfer_code":"TRF_9",
		"amount":5000,"currency":"NGN","status":"success"}}`)

	result, err := p.HandleWebhook(
		context.Background(), body, signBody("sk_test_secret", body))
	require.NoError(t, err)
	assert.Empty(t, result.Kind)
	assert.Equal(t, uuid.Nil, result.PaymentID)
}

func TestHandleWebhook_RejectsBadSignature(t *testing.T) {
	p := newTestProvider(t, nil)

	body := []byte(`{"event":"charge.success","data":{}}`)
	_, err := p.HandleWebhook(context.Background(), body, "deadbeef")
	require.Error(t, err)

	_, err = p.HandleWebhook(context.Background(), body, "")
	require.Error(t, err)
}

func TestHandleWebhook_UnknownEventAcknowledged(t *testing.T) {
	p := newTestProvider(t, nil)

	body := []byte(`{"event":"subscription.create","data":{}}`)
	result, err := p.HandleWebhook(
		context.Background(), body, signBody("sk_test_secret", body))
	require.NoError(t, err)
	assert.Empty(t, result.Kind)
}
