package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

type FlutterwaveConfig struct {
	// Flutterwave API base, e.g. https://api.flutterwave.com
	BaseURL   string
	PublicKey string
	SecretKey string

	Client *http.Client
	Logger *slog.Logger
}

// FlutterwaveService is a thin client for the hosted-payment-page flow: it
// shapes requests and decodes responses, nothing more. Failures surface as
// *FlutterwaveError so handlers can tell provider rejections from transport
// problems.
type FlutterwaveService struct {
	baseURL   *url.URL
	publicKey string
	secretKey string

	httpClient *http.Client
	logger     *slog.Logger
}

func NewFlutterwaveService(cfg FlutterwaveConfig) (*FlutterwaveService, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("flutterwave: base_url and secret_key are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	s := &FlutterwaveService{
		baseURL:    u,
		publicKey:  cfg.PublicKey,
		secretKey:  cfg.SecretKey,
		httpClient: client,
		logger:     logger,
	}
	logger.Info("Flutterwave initialized", "baseURL", s.baseURL.String())
	return s, nil
}

type PaymentCustomer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type PaymentCustomizations struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// ChargeRequest is the /v3/payments payload. Amount is a string because that
// is what the provider's hosted flow expects.
type ChargeRequest struct {
	TxRef          string                `json:"tx_ref"`
	Amount         string                `json:"amount"`
	Currency       string                `json:"currency"`
	RedirectURL    string                `json:"redirect_url"`
	Customer       PaymentCustomer       `json:"customer"`
	Customizations PaymentCustomizations `json:"customizations"`
}

type initiateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// InitiatePayment creates a hosted payment page and returns its link. No
// retry, no backoff: a failure here is surfaced to the user as "payment could
// not be started".
func (s *FlutterwaveService) InitiatePayment(ctx context.Context, req ChargeRequest) (string, error) {
	logger := s.logger.With("op", "InitiatePayment", "tx_ref", req.TxRef)

	endpoint := *s.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v3/payments")
	body, _ := json.Marshal(req)

	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("payments request: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	logger.Debug("payments raw", "status", resp.Status, "body", trimBody(string(b), 2000))

	if resp.StatusCode != http.StatusOK {
		return "", &FlutterwaveError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}

	var out initiateResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", fmt.Errorf("decode payments response: %w", err)
	}
	if out.Status != "success" || strings.TrimSpace(out.Data.Link) == "" {
		return "", &FlutterwaveError{StatusCode: resp.StatusCode, Status: out.Status, Body: out.Message}
	}
	return out.Data.Link, nil
}

// VerifyResult is the server-to-server verdict on a provider transaction.
// Succeeded is the only field settlement may trust.
type VerifyResult struct {
	Status        string
	PaymentMethod string
	Succeeded     bool
	Raw           json.RawMessage
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status      string `json:"status"`
		PaymentType string `json:"payment_type"`
	} `json:"data"`
}

// VerifyTransaction fetches the authoritative state of a provider transaction.
func (s *FlutterwaveService) VerifyTransaction(ctx context.Context, providerTxID string) (*VerifyResult, error) {
	logger := s.logger.With("op", "VerifyTransaction", "transaction_id", providerTxID)

	endpoint := *s.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v3/transactions", url.PathEscape(providerTxID), "verify")

	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	logger.Debug("verify raw", "status", resp.Status, "body", trimBody(string(b), 2000))

	if resp.StatusCode != http.StatusOK {
		return nil, &FlutterwaveError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}

	var out verifyResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	var raw json.RawMessage
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &envelope); err == nil {
		raw = envelope.Data
	}

	return &VerifyResult{
		Status:        out.Data.Status,
		PaymentMethod: out.Data.PaymentType,
		Succeeded:     out.Status == "success" && out.Data.Status == "successful",
		Raw:           raw,
	}, nil
}

func trimBody(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

type FlutterwaveError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *FlutterwaveError) Error() string {
	if e == nil {
		return "<nil>"
	}
	bt := strings.TrimSpace(e.Body)
	if bt == "" {
		return fmt.Sprintf("flutterwave error: %s", e.Status)
	}
	return fmt.Sprintf("flutterwave error: %s: %s", e.Status, bt)
}
