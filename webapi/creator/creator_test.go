package creator_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"github.com/natepay/natepay/webapi/testutils"
)

type CreatorTestSuite struct {
	testutils.APITestSuite
}

func (s *CreatorTestSuite) TestSignup_Success() {
	resp := s.MakeRequest("POST", "/creator",
		`{"handle":"ngozi","email":"ngozi@example.com","password":"password123","country_code":"NG"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	response := s.DecodeResponse(resp)
	data := response.Data.(map[string]any)
	s.Equal("ngozi", data["handle"])
	s.Equal("NG", data["country_code"])
}

func (s *CreatorTestSuite) TestSignup_DuplicateHandle() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	resp := s.MakeRequest("POST", "/creator",
		`{"handle":"ngozi","email":"other@example.com","password":"password123","country_code":"NG"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *CreatorTestSuite) TestSignup_UnsupportedCountry() {
	resp := s.MakeRequest("POST", "/creator",
		`{"handle":"remi","email":"remi@example.com","password":"password123","country_code":"FR"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *CreatorTestSuite) TestSignup_ValidationFailure() {
	resp := s.MakeRequest("POST", "/creator",
		`{"handle":"x","email":"not-an-email","password":"p","country_code":"NG"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *CreatorTestSuite) TestMe_ReturnsOwnAccount() {
	id := s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	resp := s.MakeRequest("GET", "/creator/me", "", token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	response := s.DecodeResponse(resp)
	data := response.Data.(map[string]any)
	s.Equal(id, data["id"])
}

func (s *CreatorTestSuite) TestUpdate_IgnoresProviderFields() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	resp := s.MakeRequest("PUT", "/creator/me",
		`{"display_name":"Ngozi A.","stripe_account_id":"acct_forged","onboarding_status":"complete"}`,
		token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	response := s.DecodeResponse(resp)
	data := response.Data.(map[string]any)
	s.Equal("Ngozi A.", data["display_name"])
	s.NotEqual("complete", data["onboarding_status"])
}

func (s *CreatorTestSuite) TestPublicProfile_CrossBorderPrices() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")

	resp := s.MakeRequest("POST", "/plans",
		`{"name":"Monthly","interval":"monthly","price_usd_cents":500}`, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	public := s.MakeRequest("GET", "/p/ngozi", "", "")
	defer public.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, public.StatusCode)

	response := s.DecodeResponse(public)
	data := response.Data.(map[string]any)
	s.Equal("ngozi", data["handle"])
	plans := data["plans"].([]any)
	s.Require().Len(plans, 1)
	local := plans[0].(map[string]any)["local_price"].(map[string]any)
	s.Equal("NGN", local["currency"])
	s.InDelta(8000.0, local["amount"].(float64), 0.01)
}

func (s *CreatorTestSuite) TestPublicProfile_NotFound() {
	resp := s.MakeRequest("GET", "/p/ghost", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func TestCreatorTestSuite(t *testing.T) {
	suite.Run(t, new(CreatorTestSuite))
}
