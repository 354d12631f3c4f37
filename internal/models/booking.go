package models

import (
	"time"
)

type Booking struct {
	ID          int        `json:"id"`
	ClientID    int        `json:"client_id"`
	StewardID   int        `json:"steward_id"`
	ServiceID   int        `json:"service_id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	AgreedPrice float64    `json:"agreed_price"`
	Currency    string     `json:"currency"`
	Address     string     `json:"address"`
	ScheduledStart time.Time `json:"scheduled_start"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `json:"status"`
	Steward     struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"steward"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CreateBookingRequest struct {
	ServiceID     int    `json:"service_id"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

type TransitionStatusRequest struct {
	Status string `json:"status"`
}
