package services

import "errors"

var (
	ErrForbidden          = errors.New("caller does not own this resource")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidSchedule    = errors.New("invalid scheduled date or time")
	ErrPastSchedule       = errors.New("scheduled start is in the past")
	ErrUnknownStatus      = errors.New("unknown booking status")
	ErrWrongPassword      = errors.New("current password does not match")
	ErrAlreadySteward     = errors.New("user is already a steward")
	ErrVerificationFailed = errors.New("gateway reported the transaction as not successful")
)
