package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"chazonBack/internal/booking/fsm"
	"chazonBack/internal/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateCharge     = errors.New("booking already has an open charge")
)

type TransactionRepository struct {
	DB *sql.DB
}

// CreateCharge inserts a PENDING charge for the booking. The open-charge check
// and the insert share one transaction so two concurrent initiations cannot
// both slip past the check.
func (r *TransactionRepository) CreateCharge(ctx context.Context, bookingID int, amount float64, currency string) (models.Transaction, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, err
	}
	defer tx.Rollback()

	var openID int
	err = tx.QueryRowContext(ctx, `
        SELECT id FROM transactions
        WHERE booking_id = $1 AND type = $2 AND status IN ($3, $4)
        FOR UPDATE
    `, bookingID, models.TransactionTypeCharge,
		models.TransactionStatusPending, models.TransactionStatusCompleted,
	).Scan(&openID)
	if err == nil {
		return models.Transaction{}, ErrDuplicateCharge
	}
	if err != sql.ErrNoRows {
		return models.Transaction{}, err
	}

	t := models.Transaction{
		TxRef:       uuid.NewString(),
		BookingID:   bookingID,
		Amount:      amount,
		PlatformFee: models.PlatformFee(amount),
		Currency:    currency,
		Type:        models.TransactionTypeCharge,
		Status:      models.TransactionStatusPending,
	}
	err = tx.QueryRowContext(ctx, `
        INSERT INTO transactions (tx_ref, booking_id, amount, platform_fee, currency, type, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at
    `, t.TxRef, t.BookingID, t.Amount, t.PlatformFee, t.Currency, t.Type, t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return models.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

// SettleCharge marks a verified charge COMPLETED and moves its booking
// PENDING -> CONFIRMED in the same database transaction. The UPDATE is
// conditioned on the transaction still being PENDING: a second delivery of the
// same callback finds zero rows, sees the charge already COMPLETED, and
// returns it unchanged as a no-op success.
func (r *TransactionRepository) SettleCharge(ctx context.Context, txRef, providerTxID, paymentMethod string, metadata json.RawMessage) (models.Transaction, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, err
	}
	defer tx.Rollback()

	var bookingID int
	err = tx.QueryRowContext(ctx, `
        UPDATE transactions
        SET status = $1, provider_transaction_id = $2, payment_method = $3, metadata = $4, updated_at = NOW()
        WHERE tx_ref = $5 AND status = $6
        RETURNING booking_id
    `, models.TransactionStatusCompleted, providerTxID, paymentMethod, []byte(metadata),
		txRef, models.TransactionStatusPending,
	).Scan(&bookingID)
	if err == sql.ErrNoRows {
		// Already settled, or unknown ref. Distinguish without mutating.
		existing, lookupErr := r.getByTxRefTx(ctx, tx, txRef)
		if lookupErr != nil {
			return models.Transaction{}, lookupErr
		}
		if existing.Status == models.TransactionStatusCompleted {
			return existing, nil
		}
		return models.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}

	var bookingStatus string
	err = tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID).Scan(&bookingStatus)
	if err != nil {
		return models.Transaction{}, err
	}
	if bookingStatus == fsm.StatusPending {
		if err := fsm.Apply(ctx, tx, bookingID, fsm.StatusPending, fsm.StatusConfirmed); err != nil {
			return models.Transaction{}, err
		}
	}

	settled, err := r.getByTxRefTx(ctx, tx, txRef)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Transaction{}, err
	}
	return settled, nil
}

// MarkFailed closes a PENDING charge after the gateway refused to start it, so
// the open-charge invariant does not block a later retry.
func (r *TransactionRepository) MarkFailed(ctx context.Context, txRef string) error {
	result, err := r.DB.ExecContext(ctx, `
        UPDATE transactions SET status = $1, updated_at = NOW()
        WHERE tx_ref = $2 AND status = $3
    `, models.TransactionStatusFailed, txRef, models.TransactionStatusPending)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

const transactionColumns = `
        id, tx_ref, booking_id, amount, platform_fee, currency, type, status,
        provider_transaction_id, payment_method, metadata, created_at, updated_at`

func scanTransaction(row *sql.Row) (models.Transaction, error) {
	var t models.Transaction
	var metadata []byte
	err := row.Scan(
		&t.ID, &t.TxRef, &t.BookingID, &t.Amount, &t.PlatformFee, &t.Currency, &t.Type, &t.Status,
		&t.ProviderTransactionID, &t.PaymentMethod, &metadata, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	if len(metadata) > 0 {
		t.Metadata = json.RawMessage(metadata)
	}
	return t, nil
}

func (r *TransactionRepository) getByTxRefTx(ctx context.Context, tx *sql.Tx, txRef string) (models.Transaction, error) {
	row := tx.QueryRowContext(ctx, `SELECT`+transactionColumns+` FROM transactions WHERE tx_ref = $1`, txRef)
	return scanTransaction(row)
}

func (r *TransactionRepository) GetByTxRef(ctx context.Context, txRef string) (models.Transaction, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT`+transactionColumns+` FROM transactions WHERE tx_ref = $1`, txRef)
	return scanTransaction(row)
}

// GetHistoryByUser lists the caller's transactions newest first, for the
// payment history view.
func (r *TransactionRepository) GetHistoryByUser(ctx context.Context, userID int) ([]models.Transaction, error) {
	query := `
        SELECT t.id, t.tx_ref, t.booking_id, t.amount, t.platform_fee, t.currency, t.type, t.status,
               t.provider_transaction_id, t.payment_method, t.metadata, t.created_at, t.updated_at
        FROM transactions t
        JOIN bookings b ON t.booking_id = b.id
        WHERE b.client_id = $1
        ORDER BY t.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var metadata []byte
		err := rows.Scan(
			&t.ID, &t.TxRef, &t.BookingID, &t.Amount, &t.PlatformFee, &t.Currency, &t.Type, &t.Status,
			&t.ProviderTransactionID, &t.PaymentMethod, &metadata, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			t.Metadata = json.RawMessage(metadata)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
