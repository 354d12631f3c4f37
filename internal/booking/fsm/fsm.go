package fsm

import (
	"context"
	"database/sql"
	"errors"
)

// Status constants used by the booking state machine.
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

var transitions = map[string]map[string]struct{}{
	StatusPending: {
		StatusConfirmed: {},
		StatusCancelled: {},
	},
	StatusConfirmed: {
		StatusInProgress: {},
		StatusCancelled:  {},
	},
	StatusInProgress: {
		StatusCompleted: {},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid reports whether s is a known booking status.
func IsValid(s string) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s.
func IsTerminal(s string) bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

// CanTransition returns whether a booking can move from the current status to
// the target status. Re-applying the current status is treated as allowed so
// duplicate deliveries stay idempotent.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Apply updates a booking status using optimistic validation: the UPDATE is
// conditioned on the status the caller observed, so a concurrent transition
// surfaces as sql.ErrNoRows instead of silently overwriting it.
func Apply(ctx context.Context, tx *sql.Tx, bookingID int, fromStatus, toStatus string) error {
	if !CanTransition(fromStatus, toStatus) {
		return errors.New("invalid status transition")
	}
	if fromStatus == toStatus {
		return nil
	}
	res, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`, toStatus, bookingID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
