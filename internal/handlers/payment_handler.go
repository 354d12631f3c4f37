package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"chazonBack/internal/models"
	"chazonBack/internal/services"
)

type PaymentHandler struct {
	Service *services.PaymentService

	// Where the payer's browser lands after the callback is processed.
	FrontendURL string
}

func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TaskID <= 0 {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "task_id is required")
		return
	}

	link, err := h.Service.InitiateCharge(r.Context(), req.TaskID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"payment_link": link})
}

// VerifyCallback handles the provider redirect after checkout. The query
// parameters only route the flow; the settlement outcome comes from the
// server-side verify call. The payer always ends up back on the bookings page.
func (h *PaymentHandler) VerifyCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	txRef := q.Get("tx_ref")
	providerTxID := q.Get("transaction_id")

	if status != "successful" && status != "completed" {
		h.redirect(w, r, "failed", providerTxID)
		return
	}
	if txRef == "" || providerTxID == "" {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "tx_ref and transaction_id are required")
		return
	}

	if _, err := h.Service.Settle(r.Context(), txRef, providerTxID); err != nil {
		h.redirect(w, r, "error", providerTxID)
		return
	}
	h.redirect(w, r, "success", providerTxID)
}

func (h *PaymentHandler) redirect(w http.ResponseWriter, r *http.Request, outcome, providerTxID string) {
	params := url.Values{"payment": {outcome}}
	if providerTxID != "" {
		params.Set("tid", providerTxID)
	}
	http.Redirect(w, r, h.FrontendURL+"/bookings?"+params.Encode(), http.StatusSeeOther)
}

func (h *PaymentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	history, err := h.Service.History(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if history == nil {
		history = []models.Transaction{}
	}
	respondData(w, http.StatusOK, history)
}
