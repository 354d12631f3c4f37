package services

// BookingEvent is pushed to the booking owner's open websocket connections
// when a booking changes state or a payment settles.
type BookingEvent struct {
	UserID    int    `json:"-"`
	BookingID int    `json:"booking_id"`
	Status    string `json:"status"`
	Event     string `json:"event"`
}

const (
	EventBookingCreated = "booking_created"
	EventStatusChanged  = "status_changed"
	EventPaymentSettled = "payment_settled"
	EventPaymentFailed  = "payment_failed"
)

// BookingEventPublisher decouples services from the websocket hub. A nil
// publisher is valid and drops events.
type BookingEventPublisher interface {
	PublishBookingEvent(ev BookingEvent)
}
