package payment_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/natepay/natepay/pkg/domain/events"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/webapi/testutils"
)

type PaymentTestSuite struct {
	testutils.APITestSuite
}

// startCheckout signs up a creator, creates a plan and starts a checkout.
// Returns the creator token and the plan and payment IDs.
func (s *PaymentTestSuite) startCheckout() (token, planID, paymentID string) {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token = s.LoginCreator("ngozi")

	resp := s.MakeRequest("POST", "/plans",
		`{"name":"Monthly","interval":"monthly","price_usd_cents":500}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	planID = s.DecodeResponse(resp).Data.(map[string]any)["id"].(string)

	checkout := s.MakeRequest("POST", "/checkout",
		fmt.Sprintf(`{"plan_id":%q,"subscriber_email":"fan@example.com"}`, planID), "")
	defer checkout.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, checkout.StatusCode)
	paymentID = s.DecodeResponse(checkout).Data.(map[string]any)["payment_id"].(string)
	return token, planID, paymentID
}

func (s *PaymentTestSuite) TestWebhook_SettlesPaymentAndRecordsSubscriber() {
	token, planID, paymentID := s.startCheckout()

	s.Paystack.WebhookResp = &providerpay.WebhookResult{
		Kind:        providerpay.WebhookPaymentCompleted,
		ProviderRef: "ref_" + paymentID,
		PaymentID:   uuid.MustParse(paymentID),
		PlanID:      uuid.MustParse(planID),
	}
	resp := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"charge.success"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	payments := s.MakeRequest("GET", "/payments", "", token)
	defer payments.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, payments.StatusCode)
	rows := s.DecodeResponse(payments).Data.([]any)
	s.Require().Len(rows, 1)
	s.Equal("completed", rows[0].(map[string]any)["status"])

	subs := s.MakeRequest("GET", "/subscribers", "", token)
	defer subs.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, subs.StatusCode)
	subscribers := s.DecodeResponse(subs).Data.([]any)
	s.Require().Len(subscribers, 1)
	s.Equal("fan@example.com", subscribers[0].(map[string]any)["email"])

	feed := s.MakeRequest("GET", "/feed", "", token)
	defer feed.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, feed.StatusCode)
	entries := s.DecodeResponse(feed).Data.([]any)
	s.NotEmpty(entries)
}

func (s *PaymentTestSuite) TestWebhook_FailureRecordsReason() {
	token, _, paymentID := s.startCheckout()

	s.Paystack.WebhookResp = &providerpay.WebhookResult{
		Kind:      providerpay.WebhookPaymentFailed,
		PaymentID: uuid.MustParse(paymentID),
		Reason:    "card declined",
	}
	resp := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"charge.failed"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	payments := s.MakeRequest("GET", "/payments", "", token)
	defer payments.Body.Close() //nolint: errcheck
	rows := s.DecodeResponse(payments).Data.([]any)
	s.Require().Len(rows, 1)
	s.Equal("failed", rows[0].(map[string]any)["status"])
}

func (s *PaymentTestSuite) TestWebhook_LateFailureAfterSettlementIsSilent() {
	token, planID, paymentID := s.startCheckout()

	s.Paystack.WebhookResp = &providerpay.WebhookResult{
		Kind:        providerpay.WebhookPaymentCompleted,
		ProviderRef: "ref_" + paymentID,
		PaymentID:   uuid.MustParse(paymentID),
		PlanID:      uuid.MustParse(planID),
	}
	settle := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"charge.success"}`, "")
	defer settle.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, settle.StatusCode)

	// A failure event arriving after settlement is acknowledged without
	// touching the payment or the feed.
	s.Bus.ClearPublished()
	s.Paystack.WebhookResp = &providerpay.WebhookResult{
		Kind:      providerpay.WebhookPaymentFailed,
		PaymentID: uuid.MustParse(paymentID),
		Reason:    "late failure",
	}
	late := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"charge.failed"}`, "")
	defer late.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, late.StatusCode)

	payments := s.MakeRequest("GET", "/payments", "", token)
	defer payments.Body.Close() //nolint: errcheck
	rows := s.DecodeResponse(payments).Data.([]any)
	s.Require().Len(rows, 1)
	s.Equal("completed", rows[0].(map[string]any)["status"])

	for _, ev := range s.Bus.Published() {
		if _, ok := ev.(*events.PaymentFailed); ok {
			s.Fail("failure event published for a settled payment")
		}
	}
}

func (s *PaymentTestSuite) TestWebhook_RoutesOnboardingCompletion() {
	id := s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	// Leave onboarding pending so the webhook is what completes it.
	s.Paystack.OnboardResp = &providerpay.OnboardResponse{
		AccountRef: "acct_stub",
	}
	start := s.MakeRequest("POST", "/onboarding/start",
		`{"provider":"paystack","bank_code":"058","account_number":"0123456789","account_name":"Ngozi A."}`,
		token)
	defer start.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, start.StatusCode)

	s.Paystack.WebhookResp = &providerpay.WebhookResult{
		Kind:        providerpay.WebhookOnboardingCompleted,
		CreatorID:   uuid.MustParse(id),
		ProviderRef: "acct_stub",
	}
	resp := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"subaccount.verified"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	me := s.MakeRequest("GET", "/creator/me", "", token)
	defer me.Body.Close() //nolint: errcheck
	data := s.DecodeResponse(me).Data.(map[string]any)
	s.Equal("complete", data["onboarding_status"])
}

func (s *PaymentTestSuite) TestWebhook_RejectsBadSignature() {
	s.Paystack.WebhookErr = fmt.Errorf("signature mismatch")
	resp := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"charge.success"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *PaymentTestSuite) TestListPayments_RequiresAuth() {
	resp := s.MakeRequest("GET", "/payments", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *PaymentTestSuite) TestGetPayment_OtherCreatorRejected() {
	_, _, paymentID := s.startCheckout()
	s.CreateTestCreator("tayo", "tayo@example.com", "GH")
	otherToken := s.LoginCreator("tayo")

	resp := s.MakeRequest("GET", "/payments/"+paymentID, "", otherToken)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPaymentTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentTestSuite))
}
