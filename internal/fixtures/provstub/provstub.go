// Package provstub provides a scriptable payment provider for tests.
package provstub

import (
	"context"
	"sync"

	"github.com/natepay/natepay/pkg/provider/payment"
)

// Stub implements payment.Payment with canned responses and call capture.
type Stub struct {
	mu sync.Mutex

	CheckoutResp *payment.CheckoutResponse
	CheckoutErr  error
	PayoutResp   *payment.PayoutResponse
	PayoutErr    error
	OnboardResp  *payment.OnboardResponse
	OnboardErr   error
	WebhookResp  *payment.WebhookResult
	WebhookErr   error

	CheckoutCalls []*payment.CheckoutParams
	PayoutCalls   []*payment.PayoutParams
	OnboardCalls  []*payment.OnboardParams
}

func (s *Stub) CreateCheckout(
	_ context.Context, params *payment.CheckoutParams,
) (*payment.CheckoutResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CheckoutCalls = append(s.CheckoutCalls, params)
	if s.CheckoutErr != nil {
		return nil, s.CheckoutErr
	}
	if s.CheckoutResp != nil {
		return s.CheckoutResp, nil
	}
	return &payment.CheckoutResponse{
		ProviderRef: "ref_" + params.PaymentID.String(),
		RedirectURL: "https://checkout.example/" + params.PaymentID.String(),
		Status:      payment.StatusPending,
	}, nil
}

func (s *Stub) InitiatePayout(
	_ context.Context, params *payment.PayoutParams,
) (*payment.PayoutResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PayoutCalls = append(s.PayoutCalls, params)
	if s.PayoutErr != nil {
		return nil, s.PayoutErr
	}
	if s.PayoutResp != nil {
		return s.PayoutResp, nil
	}
	return &payment.PayoutResponse{
		ProviderRef: "po_" + params.ItemID.String(),
		Status:      payment.StatusCompleted,
	}, nil
}

func (s *Stub) OnboardCreator(
	_ context.Context, params *payment.OnboardParams,
) (*payment.OnboardResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OnboardCalls = append(s.OnboardCalls, params)
	if s.OnboardErr != nil {
		return nil, s.OnboardErr
	}
	if s.OnboardResp != nil {
		return s.OnboardResp, nil
	}
	return &payment.OnboardResponse{AccountRef: "acct_stub", Completed: true}, nil
}

func (s *Stub) HandleWebhook(
	_ context.Context, _ []byte, _ string,
) (*payment.WebhookResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WebhookErr != nil {
		return nil, s.WebhookErr
	}
	if s.WebhookResp != nil {
		return s.WebhookResp, nil
	}
	return &payment.WebhookResult{}, nil
}

var _ payment.Payment = (*Stub)(nil)
