package handlers

import (
	"encoding/json"
	"net/http"

	"chazonBack/internal/models"
	"chazonBack/internal/services"
)

type BookingHandler struct {
	Service *services.BookingService
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	booking, err := h.Service.CreateBooking(r.Context(), userID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	booking, err := h.Service.GetBooking(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, booking)
}

func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	bookings, err := h.Service.ListBookingsForClient(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	respondData(w, http.StatusOK, bookings)
}

func (h *BookingHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	var req models.TransitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	booking, err := h.Service.TransitionStatus(r.Context(), id, req.Status, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, booking)
}
