// Package testutils provides an in-memory API test suite: the full
// fiber app wired over fixture repositories, stub providers and a
// memory event bus, so handler tests exercise real routing, auth and
// JSON envelopes without external services.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/natepay/natepay/infra/draft"
	infraeventbus "github.com/natepay/natepay/infra/eventbus"
	"github.com/natepay/natepay/internal/fixtures/memuow"
	"github.com/natepay/natepay/internal/fixtures/provstub"
	"github.com/natepay/natepay/pkg/config"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/pkg/region"
	activitysvc "github.com/natepay/natepay/pkg/service/activity"
	authsvc "github.com/natepay/natepay/pkg/service/auth"
	creatorsvc "github.com/natepay/natepay/pkg/service/creator"
	onboardingsvc "github.com/natepay/natepay/pkg/service/onboarding"
	paysvc "github.com/natepay/natepay/pkg/service/payment"
	payrollsvc "github.com/natepay/natepay/pkg/service/payroll"
	subsvc "github.com/natepay/natepay/pkg/service/subscription"
	"github.com/natepay/natepay/webapi"
	"github.com/natepay/natepay/webapi/common"
)

// APITestSuite wires the whole app over in-memory fixtures.
type APITestSuite struct {
	suite.Suite

	App      *fiber.App
	UoW      *memuow.MemoryUoW
	Bus      *infraeventbus.MemoryBus
	Stripe   *provstub.Stub
	Paystack *provstub.Stub
	Cfg      *config.App
}

// SetupTest rebuilds the app so each test starts from empty state.
func (s *APITestSuite) SetupTest() {
	logger := slog.Default()
	s.UoW = memuow.New()
	s.Bus = infraeventbus.NewWithMemory(logger)
	s.Stripe = &provstub.Stub{}
	s.Paystack = &provstub.Stub{}
	providers := map[region.Provider]providerpay.Payment{
		region.ProviderStripe:   s.Stripe,
		region.ProviderPaystack: s.Paystack,
	}

	s.Cfg = &config.App{
		Auth: &config.Auth{
			Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour},
		},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}

	mr := miniredis.RunT(s.T())
	drafts := draft.NewStoreWithClient(
		redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour, logger)

	activitySvc := activitysvc.New(s.UoW, logger)
	activitySvc.RegisterHandlers(s.Bus)

	s.App = webapi.NewApp(webapi.Services{
		Auth:         authsvc.New(s.UoW, s.Cfg.Auth.Jwt, logger),
		Creator:      creatorsvc.New(s.UoW, logger),
		Subscription: subsvc.New(s.UoW, s.Bus, logger),
		Payment:      paysvc.New(s.UoW, providers, s.Bus, logger),
		Activity:     activitySvc,
		Payroll:      payrollsvc.New(s.UoW, providers, s.Bus, logger),
		Onboarding:   onboardingsvc.New(s.UoW, providers, drafts, s.Bus, logger),
		Logger:       logger,
	}, s.Cfg)
}

// MakeRequest performs an HTTP request against the test app.
func (s *APITestSuite) MakeRequest(method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// DecodeResponse parses the standard success envelope.
func (s *APITestSuite) DecodeResponse(resp *http.Response) common.Response {
	var response common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	return response
}

// CreateTestCreator signs up a creator via the API and returns its ID.
func (s *APITestSuite) CreateTestCreator(handle, email, countryCode string) string {
	body := fmt.Sprintf(
		`{"handle":%q,"email":%q,"password":"password123","country_code":%q}`,
		handle, email, countryCode)
	resp := s.MakeRequest("POST", "/creator", body, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	response := s.DecodeResponse(resp)
	data, ok := response.Data.(map[string]any)
	s.Require().True(ok)
	id, ok := data["id"].(string)
	s.Require().True(ok)
	return id
}

// LoginCreator logs in via the API and returns the JWT.
func (s *APITestSuite) LoginCreator(identity string) string {
	body := fmt.Sprintf(`{"identity":%q,"password":"password123"}`, identity)
	resp := s.MakeRequest("POST", "/auth/login", body, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	response := s.DecodeResponse(resp)
	data, ok := response.Data.(map[string]any)
	s.Require().True(ok)
	token, ok := data["token"].(string)
	s.Require().True(ok)
	s.Require().NotEmpty(token)
	return token
}
