package auth_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"github.com/natepay/natepay/webapi/testutils"
)

type AuthTestSuite struct {
	testutils.APITestSuite
}

func (s *AuthTestSuite) TestLoginRoute_BadRequest() {
	resp := s.MakeRequest("POST", "/auth/login", `{"identity":123}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AuthTestSuite) TestLoginRoute_Unauthorized() {
	resp := s.MakeRequest("POST", "/auth/login",
		`{"identity":"nobody@example.com","password":"password123"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *AuthTestSuite) TestLoginRoute_InvalidPassword() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	resp := s.MakeRequest("POST", "/auth/login",
		`{"identity":"ngozi","password":"wrongpassword"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *AuthTestSuite) TestLoginRoute_SuccessByEmail() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	resp := s.MakeRequest("POST", "/auth/login",
		`{"identity":"ngozi@example.com","password":"password123"}`, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	response := s.DecodeResponse(resp)
	loginResponse := response.Data.(map[string]any)
	s.Require().NotEmpty(loginResponse["token"])
}

func (s *AuthTestSuite) TestLoginRoute_SuccessByHandle() {
	s.CreateTestCreator("ngozi", "ngozi@example.com", "NG")
	token := s.LoginCreator("ngozi")
	s.NotEmpty(token)
}

func (s *AuthTestSuite) TestProtectedRoute_RejectsMissingToken() {
	resp := s.MakeRequest("GET", "/creator/me", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AuthTestSuite) TestProtectedRoute_RejectsForgedToken() {
	resp := s.MakeRequest("GET", "/creator/me", "",
		fmt.Sprintf("%s.%s.%s", "eyJhbGciOiJIUzI1NiJ9", "e30", "bogus"))
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
