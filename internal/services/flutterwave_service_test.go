package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitiatePayment_ReturnsHostedLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/payments" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization header mismatch: %q", got)
		}

		var req ChargeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.TxRef != "ref-1" {
			t.Errorf("tx_ref mismatch: %q", req.TxRef)
		}
		if req.Amount != "120" {
			t.Errorf("amount mismatch: %q", req.Amount)
		}

		_, _ = w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"link":"https://checkout.example/pay/abc"}}`))
	}))
	defer ts.Close()

	svc, err := NewFlutterwaveService(FlutterwaveConfig{BaseURL: ts.URL, SecretKey: "sk_test"})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	link, err := svc.InitiatePayment(context.Background(), ChargeRequest{
		TxRef:    "ref-1",
		Amount:   "120",
		Currency: "NGN",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link != "https://checkout.example/pay/abc" {
		t.Errorf("link mismatch: %q", link)
	}
}

func TestInitiatePayment_Non2xxReturnsFlutterwaveError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"invalid key"}`))
	}))
	defer ts.Close()

	svc, err := NewFlutterwaveService(FlutterwaveConfig{BaseURL: ts.URL, SecretKey: "bad"})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	_, err = svc.InitiatePayment(context.Background(), ChargeRequest{TxRef: "ref-1"})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	apiErr, ok := err.(*FlutterwaveError)
	if !ok {
		t.Fatalf("expected *FlutterwaveError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status code mismatch: %d", apiErr.StatusCode)
	}
}

func TestInitiatePayment_ErrorEnvelopeWithoutLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"currency not supported"}`))
	}))
	defer ts.Close()

	svc, err := NewFlutterwaveService(FlutterwaveConfig{BaseURL: ts.URL, SecretKey: "sk"})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	_, err = svc.InitiatePayment(context.Background(), ChargeRequest{TxRef: "ref-1"})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if _, ok := err.(*FlutterwaveError); !ok {
		t.Fatalf("expected *FlutterwaveError, got %T", err)
	}
}

func TestVerifyTransaction_SuccessfulOnlyWhenBothStatusesAgree(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		succeeded bool
	}{
		{
			name:      "successful",
			body:      `{"status":"success","data":{"status":"successful","payment_type":"card"}}`,
			succeeded: true,
		},
		{
			name:      "provider failed",
			body:      `{"status":"success","data":{"status":"failed","payment_type":"card"}}`,
			succeeded: false,
		},
		{
			name:      "envelope error",
			body:      `{"status":"error","data":{"status":"successful"}}`,
			succeeded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v3/transactions/812/verify" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			svc, err := NewFlutterwaveService(FlutterwaveConfig{BaseURL: ts.URL, SecretKey: "sk"})
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			result, err := svc.VerifyTransaction(context.Background(), "812")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Succeeded != tt.succeeded {
				t.Errorf("succeeded = %v, want %v", result.Succeeded, tt.succeeded)
			}
		})
	}
}

func TestVerifyTransaction_Non2xxReturnsFlutterwaveError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"no transaction"}`))
	}))
	defer ts.Close()

	svc, err := NewFlutterwaveService(FlutterwaveConfig{BaseURL: ts.URL, SecretKey: "sk"})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	_, err = svc.VerifyTransaction(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	apiErr, ok := err.(*FlutterwaveError)
	if !ok {
		t.Fatalf("expected *FlutterwaveError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status code mismatch: %d", apiErr.StatusCode)
	}
}

func TestNewFlutterwaveService_RequiresSecretKey(t *testing.T) {
	if _, err := NewFlutterwaveService(FlutterwaveConfig{BaseURL: "https://api.flutterwave.com"}); err == nil {
		t.Fatal("expected error for missing secret key")
	}
	if _, err := NewFlutterwaveService(FlutterwaveConfig{SecretKey: "sk"}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
