// Package paystack implements the payment provider contract on the
// Paystack REST API: transaction initialization for hosted checkout,
// transfer recipients plus transfers for payouts, and HMAC-signed
// webhooks.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/natepay/natepay/pkg/config"
)

// Client is a thin typed wrapper over the Paystack HTTP API.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Paystack API client from config.
func NewClient(cfg *config.Paystack, logger *slog.Logger) *Client {
	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// apiResponse is the common Paystack response wrapper.
type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransactionRequest starts a hosted checkout.
// Amount is in the subunit of Currency (kobo, pesewas, cents).
type InitializeTransactionRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InitializeTransactionData is the payload of a successful initialize call.
type InitializeTransactionData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// TransactionData is the payload of a transaction verify call.
type TransactionData struct {
	ID        int64             `json:"id"`
	Status    string            `json:"status"`
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Metadata  map[string]string `json:"metadata"`
}

// CreateRecipientRequest registers a bank account as a transfer recipient.
type CreateRecipientRequest struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency"`
}

// RecipientData is the payload of a recipient creation call.
type RecipientData struct {
	RecipientCode string `json:"recipient_code"`
	Active        bool   `json:"active"`
}

// TransferRequest sends money to a transfer recipient.
// Amount is in the subunit of Currency.
type TransferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency,omitempty"`
	Recipient string `json:"recipient"`
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// TransferData is the payload of a transfer call.
type TransferData struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	Reference    string `json:"reference"`
	TransferCode string `json:"transfer_code"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// InitializeTransaction creates a hosted checkout and returns the
// authorization URL the subscriber is redirected to.
func (c *Client) InitializeTransaction(
	ctx context.Context,
	req *InitializeTransactionRequest,
) (*InitializeTransactionData, error) {
	var data InitializeTransactionData
	if err := c.post(ctx, "/transaction/initialize", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// VerifyTransaction fetches the final state of a transaction by reference.
func (c *Client) VerifyTransaction(
	ctx context.Context,
	reference string,
) (*TransactionData, error) {
	var data TransactionData
	if err := c.get(ctx, "/transaction/verify/"+reference, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateRecipient registers a transfer recipient for payouts.
func (c *Client) CreateRecipient(
	ctx context.Context,
	req *CreateRecipientRequest,
) (*RecipientData, error) {
	var data RecipientData
	if err := c.post(ctx, "/transferrecipient", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Transfer sends money to a previously created recipient.
func (c *Client) Transfer(
	ctx context.Context,
	req *TransferRequest,
) (*TransferData, error) {
	var data TransferData
	if err := c.post(ctx, "/transfer", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("paystack: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("paystack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("paystack: create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paystack: read response: %w", err)
	}

	var wrapper apiResponse
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return fmt.Errorf("paystack: decode response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || !wrapper.Status {
		c.logger.Error("paystack API error",
			"path", req.URL.Path,
			"status_code", resp.StatusCode,
			"message", wrapper.Message,
		)
		return fmt.Errorf("paystack: %s (status %d)", wrapper.Message, resp.StatusCode)
	}
	if out != nil && len(wrapper.Data) > 0 {
		if err := json.Unmarshal(wrapper.Data, out); err != nil {
			return fmt.Errorf("paystack: decode data: %w", err)
		}
	}
	return nil
}
