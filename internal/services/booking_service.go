package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"chazonBack/internal/booking/fsm"
	"chazonBack/internal/models"
	"chazonBack/internal/repositories"
)

type BookingService struct {
	BookingRepo *repositories.BookingRepository
	ServiceRepo *repositories.ServiceRepository

	Events        BookingEventPublisher
	Notifications *NotificationService
}

// CreateBooking books an active offering for the client. The category name and
// agreed price are copied from the offering at booking time, so later edits to
// the offering do not change what was agreed.
func (s *BookingService) CreateBooking(ctx context.Context, clientID int, req models.CreateBookingRequest) (models.Booking, error) {
	if req.ServiceID <= 0 || strings.TrimSpace(req.ScheduledDate) == "" || strings.TrimSpace(req.Address) == "" {
		return models.Booking{}, ErrMissingFields
	}

	start, err := parseSchedule(req.ScheduledDate, req.ScheduledTime)
	if err != nil {
		return models.Booking{}, ErrInvalidSchedule
	}
	if start.Before(time.Now()) {
		return models.Booking{}, ErrPastSchedule
	}

	offering, err := s.ServiceRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return models.Booking{}, err
	}
	if !offering.IsActive {
		return models.Booking{}, repositories.ErrServiceNotFound
	}

	description := strings.TrimSpace(req.Notes)
	if description == "" {
		description = offering.Title
	}

	booking := models.Booking{
		ClientID:       clientID,
		StewardID:      offering.UserID,
		ServiceID:      offering.ID,
		Category:       offering.Category.Name,
		Description:    description,
		AgreedPrice:    offering.Price,
		Currency:       offering.Currency,
		Address:        strings.TrimSpace(req.Address),
		ScheduledStart: start,
		Notes:          req.Notes,
		Status:         fsm.StatusPending,
	}

	created, err := s.BookingRepo.CreateBooking(ctx, booking)
	if err != nil {
		return models.Booking{}, err
	}
	created.Steward.ID = offering.Steward.ID
	created.Steward.Name = offering.Steward.Name

	if s.Events != nil {
		s.Events.PublishBookingEvent(BookingEvent{
			UserID:    created.StewardID,
			BookingID: created.ID,
			Status:    created.Status,
			Event:     EventBookingCreated,
		})
	}
	if s.Notifications != nil {
		s.Notifications.SendToUser(ctx, created.StewardID, "New booking request",
			"You have a new booking for \""+created.Category+"\".",
			map[string]string{"booking_id": strconv.Itoa(created.ID), "status": created.Status})
	}
	return created, nil
}

// GetBooking returns the booking if the caller is a party to it.
func (s *BookingService) GetBooking(ctx context.Context, id, actorID int) (models.Booking, error) {
	booking, err := s.BookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.ClientID != actorID && booking.StewardID != actorID {
		return models.Booking{}, ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListBookingsForClient(ctx context.Context, clientID int) ([]models.Booking, error) {
	return s.BookingRepo.GetBookingsByClient(ctx, clientID)
}

// TransitionStatus moves a booking along its lifecycle. Either party may
// request a transition; the state machine decides whether it is legal from the
// status the booking currently holds.
func (s *BookingService) TransitionStatus(ctx context.Context, bookingID int, toStatus string, actorID int) (models.Booking, error) {
	if !fsm.IsValid(toStatus) {
		return models.Booking{}, ErrUnknownStatus
	}

	booking, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.ClientID != actorID && booking.StewardID != actorID {
		return models.Booking{}, ErrForbidden
	}

	updated, err := s.BookingRepo.TransitionStatus(ctx, bookingID, booking.Status, toStatus)
	if err != nil {
		return models.Booking{}, err
	}

	if s.Events != nil {
		for _, userID := range []int{updated.ClientID, updated.StewardID} {
			if userID == actorID {
				continue
			}
			s.Events.PublishBookingEvent(BookingEvent{
				UserID:    userID,
				BookingID: updated.ID,
				Status:    updated.Status,
				Event:     EventStatusChanged,
			})
		}
	}
	return updated, nil
}

// parseSchedule combines the date and optional time fields into a single
// timestamp. A missing time means the start of the day.
func parseSchedule(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Parse("2006-01-02", date)
	}
	return time.Parse("2006-01-02 15:04", date+" "+clock)
}
