package payroll_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/webapi/testutils"
)

type PayrollTestSuite struct {
	testutils.APITestSuite
}

func (s *PayrollTestSuite) setupCreatorWithMember() (token string) {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token = s.LoginCreator("ngozi")

	resp := s.MakeRequest("POST", "/payroll/members",
		`{"name":"Ada","email":"ada@example.com","salary_usd_cents":100000,"payout_ref":"RCP_ada"}`,
		token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	return token
}

func (s *PayrollTestSuite) TestMembers_AddAndList() {
	token := s.setupCreatorWithMember()

	resp := s.MakeRequest("GET", "/payroll/members", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	members := s.DecodeResponse(resp).Data.([]any)
	s.Require().Len(members, 1)
	s.Equal("Ada", members[0].(map[string]any)["name"])
}

func (s *PayrollTestSuite) TestMembers_NotOnboardedBlocksRun() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	resp := s.MakeRequest("POST", "/payroll/members",
		`{"name":"Ada","salary_usd_cents":100000}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	run := s.MakeRequest("POST", "/payroll/runs", "", token)
	defer run.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, run.StatusCode)
}

func (s *PayrollTestSuite) TestExecuteRun_CompletesSynchronously() {
	token := s.setupCreatorWithMember()

	resp := s.MakeRequest("POST", "/payroll/runs", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	run := s.DecodeResponse(resp).Data.(map[string]any)
	s.Equal("completed", run["status"])
	s.Equal(float64(100000), run["total_usd_cents"])

	s.Require().Len(s.Paystack.PayoutCalls, 1)
	s.Equal("RCP_ada", s.Paystack.PayoutCalls[0].RecipientRef)
	s.Equal("NGN", s.Paystack.PayoutCalls[0].Currency)
}

func (s *PayrollTestSuite) TestExecuteRun_NoMembers() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	resp := s.MakeRequest("POST", "/payroll/runs", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *PayrollTestSuite) TestPayoutWebhook_FinalizesPendingRun() {
	token := s.setupCreatorWithMember()

	// Provider leaves the payout pending so the run waits for a webhook.
	s.Paystack.PayoutResp = &providerpay.PayoutResponse{
		ProviderRef: "po_async",
		Status:      providerpay.StatusPending,
	}
	resp := s.MakeRequest("POST", "/payroll/runs", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	run := s.DecodeResponse(resp).Data.(map[string]any)
	s.Require().Equal("executing", run["status"])
	runID := run["id"].(string)

	detail := s.MakeRequest("GET", "/payroll/runs/"+runID, "", token)
	defer detail.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, detail.StatusCode)
	items := s.DecodeResponse(detail).Data.(map[string]any)["items"].([]any)
	s.Require().Len(items, 1)
	itemID := items[0].(map[string]any)["id"].(string)

	s.Paystack.WebhookResp = &providerpay.WebhookResult{
		Kind:      providerpay.WebhookPayoutSent,
		PaymentID: uuid.MustParse(itemID),
	}
	hook := s.MakeRequest("POST", "/webhooks/paystack", `{"event":"transfer.success"}`, "")
	defer hook.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, hook.StatusCode)

	after := s.MakeRequest("GET", "/payroll/runs/"+runID, "", token)
	defer after.Body.Close() //nolint: errcheck
	runAfter := s.DecodeResponse(after).Data.(map[string]any)["run"].(map[string]any)
	s.Equal("completed", runAfter["status"])
}

func (s *PayrollTestSuite) TestExecuteRun_SecondRunConflicts() {
	token := s.setupCreatorWithMember()

	s.Paystack.PayoutResp = &providerpay.PayoutResponse{
		ProviderRef: "po_async",
		Status:      providerpay.StatusPending,
	}
	first := s.MakeRequest("POST", "/payroll/runs", "", token)
	defer first.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, first.StatusCode)

	second := s.MakeRequest("POST", "/payroll/runs", "", token)
	defer second.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusConflict, second.StatusCode)
}

func TestPayrollTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollTestSuite))
}
