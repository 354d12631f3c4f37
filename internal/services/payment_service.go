package services

import (
	"context"
	"log/slog"
	"strconv"

	"chazonBack/internal/booking/fsm"
	"chazonBack/internal/models"
	"chazonBack/internal/repositories"
)

// PaymentGateway is what the payment flow needs from the provider client.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req ChargeRequest) (string, error)
	VerifyTransaction(ctx context.Context, providerTxID string) (*VerifyResult, error)
}

type PaymentService struct {
	Gateway         PaymentGateway
	TransactionRepo *repositories.TransactionRepository
	BookingRepo     *repositories.BookingRepository
	UserRepo        *repositories.UserRepository

	// Where the provider redirects the payer after checkout.
	CallbackURL string

	Logger        *slog.Logger
	Events        BookingEventPublisher
	Notifications *NotificationService
}

// InitiateCharge opens a PENDING charge for the booking and asks the gateway
// for a checkout link. Only the booking's client may pay, and a booking can
// hold at most one open charge at a time. If the gateway refuses, the charge
// is marked FAILED so the client can retry.
func (s *PaymentService) InitiateCharge(ctx context.Context, bookingID, actorID int) (string, error) {
	booking, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.ClientID != actorID {
		return "", ErrForbidden
	}

	charge, err := s.TransactionRepo.CreateCharge(ctx, booking.ID, booking.AgreedPrice, booking.Currency)
	if err != nil {
		return "", err
	}

	client, err := s.UserRepo.GetUserByID(ctx, booking.ClientID)
	if err != nil {
		return "", err
	}

	link, err := s.Gateway.InitiatePayment(ctx, ChargeRequest{
		TxRef:       charge.TxRef,
		Amount:      strconv.FormatFloat(booking.AgreedPrice, 'f', -1, 64),
		Currency:    booking.Currency,
		RedirectURL: s.CallbackURL,
		Customer: PaymentCustomer{
			Email: client.Email,
			Name:  client.Name,
		},
		Customizations: PaymentCustomizations{
			Title:       "Chazon Service Payment",
			Description: "Payment for task: " + booking.Category,
		},
	})
	if err != nil {
		if failErr := s.TransactionRepo.MarkFailed(ctx, charge.TxRef); failErr != nil {
			s.logger().Error("mark charge failed", "tx_ref", charge.TxRef, "error", failErr)
		}
		return "", err
	}

	s.logger().Info("charge initiated", "tx_ref", charge.TxRef, "booking_id", booking.ID, "amount", booking.AgreedPrice)
	return link, nil
}

// Settle verifies the provider transaction server-side and, only on a
// confirmed success, completes the charge and confirms the booking. The
// redirect parameters never decide the outcome; the verify call does. Safe to
// call more than once for the same charge.
func (s *PaymentService) Settle(ctx context.Context, txRef, providerTxID string) (models.Transaction, error) {
	result, err := s.Gateway.VerifyTransaction(ctx, providerTxID)
	if err != nil {
		return models.Transaction{}, err
	}
	if !result.Succeeded {
		s.logger().Warn("verification rejected", "tx_ref", txRef, "provider_status", result.Status)
		s.publishForCharge(ctx, txRef, EventPaymentFailed)
		return models.Transaction{}, ErrVerificationFailed
	}

	settled, err := s.TransactionRepo.SettleCharge(ctx, txRef, providerTxID, result.PaymentMethod, result.Raw)
	if err != nil {
		return models.Transaction{}, err
	}
	s.logger().Info("charge settled", "tx_ref", settled.TxRef, "booking_id", settled.BookingID,
		"amount", settled.Amount, "platform_fee", settled.PlatformFee)

	booking, err := s.BookingRepo.GetBookingByID(ctx, settled.BookingID)
	if err == nil {
		if s.Events != nil {
			s.Events.PublishBookingEvent(BookingEvent{
				UserID:    booking.ClientID,
				BookingID: booking.ID,
				Status:    booking.Status,
				Event:     EventPaymentSettled,
			})
		}
		if s.Notifications != nil {
			s.Notifications.SendToUser(ctx, booking.StewardID, "Booking confirmed",
				"A client has paid for \""+booking.Category+"\".",
				map[string]string{"booking_id": strconv.Itoa(booking.ID), "status": fsm.StatusConfirmed})
		}
	}
	return settled, nil
}

// History lists the caller's charges newest first.
func (s *PaymentService) History(ctx context.Context, userID int) ([]models.Transaction, error) {
	return s.TransactionRepo.GetHistoryByUser(ctx, userID)
}

func (s *PaymentService) publishForCharge(ctx context.Context, txRef, event string) {
	if s.Events == nil {
		return
	}
	charge, err := s.TransactionRepo.GetByTxRef(ctx, txRef)
	if err != nil {
		return
	}
	booking, err := s.BookingRepo.GetBookingByID(ctx, charge.BookingID)
	if err != nil {
		return
	}
	s.Events.PublishBookingEvent(BookingEvent{
		UserID:    booking.ClientID,
		BookingID: booking.ID,
		Status:    booking.Status,
		Event:     event,
	})
}

func (s *PaymentService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
