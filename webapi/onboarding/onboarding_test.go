package onboarding_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/webapi/testutils"
)

type OnboardingTestSuite struct {
	testutils.APITestSuite
}

func (s *OnboardingTestSuite) TestStart_PaystackCompletesInline() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	resp := s.MakeRequest("POST", "/onboarding/start",
		`{"provider":"paystack","bank_code":"058","account_number":"0123456789","account_name":"Ngozi A."}`,
		token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	data := s.DecodeResponse(resp).Data.(map[string]any)
	s.Equal(true, data["completed"])

	me := s.MakeRequest("GET", "/creator/me", "", token)
	defer me.Body.Close() //nolint: errcheck
	account := s.DecodeResponse(me).Data.(map[string]any)
	s.Equal("complete", account["onboarding_status"])
}

func (s *OnboardingTestSuite) TestStart_StripeReturnsHostedLink() {
	s.CreateTestCreator("sam", "sam@example.com", "ZA")
	token := s.LoginCreator("sam")

	s.Stripe.OnboardResp = &providerpay.OnboardResponse{
		AccountRef:  "acct_123",
		RedirectURL: "https://connect.stripe.example/onboard",
	}
	resp := s.MakeRequest("POST", "/onboarding/start", `{"provider":"stripe"}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	data := s.DecodeResponse(resp).Data.(map[string]any)
	s.Equal(false, data["completed"])
	s.Equal("https://connect.stripe.example/onboard", data["redirect_url"])
}

func (s *OnboardingTestSuite) TestStart_ProviderNotInCountry() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	resp := s.MakeRequest("POST", "/onboarding/start", `{"provider":"stripe"}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *OnboardingTestSuite) TestDraft_SaveResumeDiscard() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	save := s.MakeRequest("PUT", "/onboarding/draft",
		`{"provider":"paystack","bank_code":"058"}`, token)
	defer save.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, save.StatusCode)

	get := s.MakeRequest("GET", "/onboarding/draft", "", token)
	defer get.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, get.StatusCode)
	draft := s.DecodeResponse(get).Data.(map[string]any)
	s.Equal("058", draft["bank_code"])

	del := s.MakeRequest("DELETE", "/onboarding/draft", "", token)
	defer del.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, del.StatusCode)

	gone := s.MakeRequest("GET", "/onboarding/draft", "", token)
	defer gone.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusNotFound, gone.StatusCode)
}

func (s *OnboardingTestSuite) TestDraft_DiscardedOnCompletion() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	save := s.MakeRequest("PUT", "/onboarding/draft",
		`{"provider":"paystack","bank_code":"058"}`, token)
	defer save.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, save.StatusCode)

	start := s.MakeRequest("POST", "/onboarding/start",
		`{"provider":"paystack","bank_code":"058","account_number":"0123456789","account_name":"Ngozi A."}`,
		token)
	defer start.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, start.StatusCode)

	gone := s.MakeRequest("GET", "/onboarding/draft", "", token)
	defer gone.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusNotFound, gone.StatusCode)
}

func TestOnboardingTestSuite(t *testing.T) {
	suite.Run(t, new(OnboardingTestSuite))
}
