package models

import (
	"encoding/json"
	"math"
	"time"
)

const (
	TransactionTypeCharge = "CHARGE"
	TransactionTypeRefund = "REFUND"

	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// PlatformFeeRate is applied once, at transaction creation. The stored fee is
// never recomputed afterwards.
const PlatformFeeRate = 0.10

type Transaction struct {
	ID                    int             `json:"id"`
	TxRef                 string          `json:"tx_ref"`
	BookingID             int             `json:"booking_id"`
	Amount                float64         `json:"amount"`
	PlatformFee           float64         `json:"platform_fee"`
	Currency              string          `json:"currency"`
	Type                  string          `json:"type"`
	Status                string          `json:"status"`
	ProviderTransactionID *string         `json:"provider_transaction_id,omitempty"`
	PaymentMethod         *string         `json:"payment_method,omitempty"`
	Metadata              json.RawMessage `json:"metadata,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             *time.Time      `json:"updated_at,omitempty"`
}

// PlatformFee computes the fee owed on an amount, rounded to two decimals.
func PlatformFee(amount float64) float64 {
	return math.Round(amount*PlatformFeeRate*100) / 100
}

type InitiatePaymentRequest struct {
	TaskID int `json:"task_id"`
}
