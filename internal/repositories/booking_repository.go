package repositories

import (
	"context"
	"database/sql"
	"errors"

	"chazonBack/internal/booking/fsm"
	"chazonBack/internal/models"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type BookingRepository struct {
	DB *sql.DB
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	query := `
        INSERT INTO bookings (client_id, steward_id, service_id, category, description, agreed_price,
                              currency, address, scheduled_start, notes, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
        RETURNING id, created_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		b.ClientID, b.StewardID, b.ServiceID, b.Category, b.Description, b.AgreedPrice,
		b.Currency, b.Address, b.ScheduledStart, b.Notes, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id int) (models.Booking, error) {
	query := `
        SELECT b.id, b.client_id, b.steward_id, b.service_id, b.category, b.description,
               b.agreed_price, b.currency, b.address, b.scheduled_start, b.notes, b.status,
               u.id, u.name, b.created_at, b.updated_at
        FROM bookings b
        JOIN users u ON b.steward_id = u.id
        WHERE b.id = $1
    `
	var b models.Booking
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ClientID, &b.StewardID, &b.ServiceID, &b.Category, &b.Description,
		&b.AgreedPrice, &b.Currency, &b.Address, &b.ScheduledStart, &b.Notes, &b.Status,
		&b.Steward.ID, &b.Steward.Name, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) GetBookingsByClient(ctx context.Context, clientID int) ([]models.Booking, error) {
	query := `
        SELECT b.id, b.client_id, b.steward_id, b.service_id, b.category, b.description,
               b.agreed_price, b.currency, b.address, b.scheduled_start, b.notes, b.status,
               u.id, u.name, b.created_at, b.updated_at
        FROM bookings b
        JOIN users u ON b.steward_id = u.id
        WHERE b.client_id = $1
        ORDER BY b.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID, &b.ClientID, &b.StewardID, &b.ServiceID, &b.Category, &b.Description,
			&b.AgreedPrice, &b.Currency, &b.Address, &b.ScheduledStart, &b.Notes, &b.Status,
			&b.Steward.ID, &b.Steward.Name, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// TransitionStatus applies a state-machine transition with optimistic
// validation against the status the caller observed.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int, fromStatus, toStatus string) (models.Booking, error) {
	if !fsm.CanTransition(fromStatus, toStatus) {
		return models.Booking{}, ErrInvalidTransition
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	if err := fsm.Apply(ctx, tx, id, fromStatus, toStatus); err != nil {
		if err == sql.ErrNoRows {
			// The row moved under us; the caller's view of the booking is stale.
			return models.Booking{}, ErrInvalidTransition
		}
		return models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	return r.GetBookingByID(ctx, id)
}
