package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chazonBack/internal/repositories"
	"chazonBack/internal/services"
)

func TestVerifyCallback_FailedStatusRedirectsWithoutVerifying(t *testing.T) {
	gatewayCalled := false
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gatewayCalled = true
	}))
	defer gateway.Close()

	handler := &PaymentHandler{
		Service:     newCallbackPaymentService(t, nil, gateway.URL),
		FrontendURL: "https://chazon.test",
	}

	r := httptest.NewRequest(http.MethodGet, "/payments/verify?status=cancelled&tx_ref=ref-1&transaction_id=812", nil)
	w := httptest.NewRecorder()
	handler.VerifyCallback(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://chazon.test/bookings?payment=failed&tid=812", w.Header().Get("Location"))
	assert.False(t, gatewayCalled, "a failed redirect must not trigger a verify call")
}

func TestVerifyCallback_MissingRefIsBadRequest(t *testing.T) {
	handler := &PaymentHandler{FrontendURL: "https://chazon.test"}

	r := httptest.NewRequest(http.MethodGet, "/payments/verify?status=successful", nil)
	w := httptest.NewRecorder()
	handler.VerifyCallback(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestVerifyCallback_SuccessfulSettlementRedirectsSuccess(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"status":"successful","payment_type":"card"}}`))
	}))
	defer gateway.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)UPDATE transactions.+RETURNING booking_id`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow(10))
	mock.ExpectQuery(`SELECT status FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
	mock.ExpectExec(`UPDATE bookings`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)SELECT.+FROM transactions WHERE tx_ref`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tx_ref", "booking_id", "amount", "platform_fee", "currency", "type", "status",
			"provider_transaction_id", "payment_method", "metadata", "created_at", "updated_at",
		}).AddRow(5, "ref-1", 10, 120.0, 12.0, "NGN", "CHARGE", "COMPLETED", "812", "card", nil, now, now))
	mock.ExpectCommit()
	mock.ExpectQuery(`(?s)SELECT b\.id, b\.client_id.+FROM bookings b`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "client_id", "steward_id", "service_id", "category", "description",
			"agreed_price", "currency", "address", "scheduled_start", "notes", "status",
			"steward_user_id", "steward_name", "created_at", "updated_at",
		}).AddRow(10, 42, 7, 3, "Cleaning", "Deep clean", 120.0, "NGN", "12 Marina Rd",
			now.Add(48*time.Hour), "", "CONFIRMED", 7, "Ada", now, nil))

	handler := &PaymentHandler{
		Service:     newCallbackPaymentService(t, db, gateway.URL),
		FrontendURL: "https://chazon.test",
	}

	r := httptest.NewRequest(http.MethodGet, "/payments/verify?status=successful&tx_ref=ref-1&transaction_id=812", nil)
	w := httptest.NewRecorder()
	handler.VerifyCallback(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://chazon.test/bookings?payment=success&tid=812", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCallback_RejectedVerificationRedirectsError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"status":"failed","payment_type":"card"}}`))
	}))
	defer gateway.Close()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := &PaymentHandler{
		Service:     newCallbackPaymentService(t, db, gateway.URL),
		FrontendURL: "https://chazon.test",
	}

	r := httptest.NewRequest(http.MethodGet, "/payments/verify?status=successful&tx_ref=ref-1&transaction_id=812", nil)
	w := httptest.NewRecorder()
	handler.VerifyCallback(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://chazon.test/bookings?payment=error&tid=812", w.Header().Get("Location"))
}

func newCallbackPaymentService(t *testing.T, db *sql.DB, gatewayURL string) *services.PaymentService {
	t.Helper()

	gateway, err := services.NewFlutterwaveService(services.FlutterwaveConfig{
		BaseURL:   gatewayURL,
		SecretKey: "sk_test",
	})
	require.NoError(t, err)

	return &services.PaymentService{
		Gateway:         gateway,
		TransactionRepo: &repositories.TransactionRepository{DB: db},
		BookingRepo:     &repositories.BookingRepository{DB: db},
		UserRepo:        &repositories.UserRepository{DB: db},
		CallbackURL:     "https://api.chazon.test/payments/verify",
	}
}

func TestInitiatePayment_RequiresTaskID(t *testing.T) {
	handler := &PaymentHandler{}

	r := httptest.NewRequest(http.MethodPost, "/payments/initiate", nil)
	r.Body = http.NoBody
	r = r.WithContext(context.WithValue(r.Context(), ContextKeyUserID, 42))
	w := httptest.NewRecorder()
	handler.InitiatePayment(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGatewayErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, gatewayErrorStatus(&services.FlutterwaveError{StatusCode: 400}))
	assert.Equal(t, http.StatusBadGateway, gatewayErrorStatus(&services.FlutterwaveError{StatusCode: 500}))
	assert.Equal(t, http.StatusInternalServerError, gatewayErrorStatus(errors.New("boom")))
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{repositories.ErrBookingNotFound, http.StatusNotFound},
		{repositories.ErrDuplicateCharge, http.StatusConflict},
		{repositories.ErrInvalidTransition, http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrPastSchedule, http.StatusBadRequest},
		{services.ErrVerificationFailed, http.StatusPaymentRequired},
		{errors.New("opaque"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		respondError(w, tt.err)
		assert.Equal(t, tt.status, w.Code, "error %v", tt.err)
	}
}
