package subscription_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/webapi/testutils"
)

type SubscriptionTestSuite struct {
	testutils.APITestSuite
}

func (s *SubscriptionTestSuite) signupAndLogin(handle, country string) string {
	s.CreateTestCreator(handle, handle+"@example.com", country)
	return s.LoginCreator(handle)
}

func (s *SubscriptionTestSuite) createPlan(token, body string) map[string]any {
	resp := s.MakeRequest("POST", "/plans", body, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	return s.DecodeResponse(resp).Data.(map[string]any)
}

func (s *SubscriptionTestSuite) TestCreatePlan_LocalAmountConvertsOnce() {
	token := s.signupAndLogin("ngozi", "NG")

	// 72000 NGN at rate 1600 is exactly 45 USD; only the USD price
	// should come back, alongside a derived display projection.
	plan := s.createPlan(token,
		`{"name":"Monthly","interval":"monthly","local_amount":72000}`)
	s.Equal(float64(4500), plan["price_usd_cents"])

	local := plan["local_price"].(map[string]any)
	s.Equal("NGN", local["currency"])
	s.Equal(float64(72000), local["amount"])
}

func (s *SubscriptionTestSuite) TestCreatePlan_RequiresSomePrice() {
	token := s.signupAndLogin("ngozi", "NG")

	resp := s.MakeRequest("POST", "/plans",
		`{"name":"Monthly","interval":"monthly"}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *SubscriptionTestSuite) TestCreatePlan_RejectsBadInterval() {
	token := s.signupAndLogin("ngozi", "NG")

	resp := s.MakeRequest("POST", "/plans",
		`{"name":"Weekly","interval":"weekly","price_usd_cents":500}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *SubscriptionTestSuite) TestListPlans_ActiveFilter() {
	token := s.signupAndLogin("sam", "US")
	plan := s.createPlan(token,
		`{"name":"Monthly","interval":"monthly","price_usd_cents":500}`)
	s.createPlan(token,
		`{"name":"Yearly","interval":"yearly","price_usd_cents":5000}`)

	update := s.MakeRequest("PUT", "/plans/"+plan["id"].(string),
		`{"active":false}`, token)
	defer update.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, update.StatusCode)

	all := s.MakeRequest("GET", "/plans", "", token)
	defer all.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, all.StatusCode)
	s.Len(s.DecodeResponse(all).Data.([]any), 2)

	active := s.MakeRequest("GET", "/plans?active=true", "", token)
	defer active.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, active.StatusCode)
	rows := s.DecodeResponse(active).Data.([]any)
	s.Require().Len(rows, 1)
	s.Equal("Yearly", rows[0].(map[string]any)["name"])
}

func (s *SubscriptionTestSuite) TestUpdatePlan_OtherCreatorRejected() {
	owner := s.signupAndLogin("sam", "US")
	plan := s.createPlan(owner,
		`{"name":"Monthly","interval":"monthly","price_usd_cents":500}`)

	intruder := s.signupAndLogin("kwame", "GH")
	resp := s.MakeRequest("PUT", "/plans/"+plan["id"].(string),
		`{"price_usd_cents":100}`, intruder)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *SubscriptionTestSuite) TestDeletePlan() {
	token := s.signupAndLogin("sam", "US")
	plan := s.createPlan(token,
		`{"name":"Monthly","interval":"monthly","price_usd_cents":500}`)

	del := s.MakeRequest("DELETE", "/plans/"+plan["id"].(string), "", token)
	defer del.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, del.StatusCode)

	again := s.MakeRequest("DELETE", "/plans/"+plan["id"].(string), "", token)
	defer again.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusNotFound, again.StatusCode)
}

func (s *SubscriptionTestSuite) TestDeletePlan_BadID() {
	token := s.signupAndLogin("sam", "US")

	resp := s.MakeRequest("DELETE", "/plans/not-a-uuid", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

// subscribe drives the full checkout + webhook flow so a subscriber row
// exists for cancellation tests.
func (s *SubscriptionTestSuite) subscribe(token string) (subscriberID string) {
	plan := s.createPlan(token,
		`{"name":"Monthly","interval":"monthly","price_usd_cents":500}`)
	planID := plan["id"].(string)

	checkout := s.MakeRequest("POST", "/checkout",
		fmt.Sprintf(`{"plan_id":%q,"subscriber_email":"fan@example.com"}`, planID), "")
	defer checkout.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, checkout.StatusCode)
	paymentID := s.DecodeResponse(checkout).Data.(map[string]any)["payment_id"].(string)

	s.Paystack.WebhookResp = &providerpay.WebhookResult{
		Kind:        providerpay.WebhookPaymentCompleted,
		ProviderRef: "ref_" + paymentID,
		PaymentID:   uuid.MustParse(paymentID),
		PlanID:      uuid.MustParse(planID),
	}
	hook := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"charge.success"}`, "")
	defer hook.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, hook.StatusCode)

	subs := s.MakeRequest("GET", "/subscribers", "", token)
	defer subs.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, subs.StatusCode)
	rows := s.DecodeResponse(subs).Data.([]any)
	s.Require().Len(rows, 1)
	return rows[0].(map[string]any)["id"].(string)
}

func (s *SubscriptionTestSuite) TestCancelSubscription() {
	token := s.signupAndLogin("ngozi", "NG")
	subscriberID := s.subscribe(token)

	resp := s.MakeRequest("POST", "/subscribers/"+subscriberID+"/cancel", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal("canceled", s.DecodeResponse(resp).Data.(map[string]any)["status"])

	// Canceling again is a no-op, not an error.
	again := s.MakeRequest("POST", "/subscribers/"+subscriberID+"/cancel", "", token)
	defer again.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, again.StatusCode)
}

func (s *SubscriptionTestSuite) TestCancelSubscription_Unknown() {
	token := s.signupAndLogin("ngozi", "NG")

	resp := s.MakeRequest("POST",
		"/subscribers/"+uuid.NewString()+"/cancel", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestSubscriptionTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionTestSuite))
}
