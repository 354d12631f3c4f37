package handlers

import (
	"encoding/json"
	"net/http"

	"chazonBack/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func (h *NotificationHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "token is required")
		return
	}

	if err := h.Service.RegisterToken(r.Context(), userID, req.Token); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]string{"message": "token registered"})
}

func (h *NotificationHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}

	token := getParam(r, "token")
	if token == "" {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "token is required")
		return
	}

	if err := h.Service.RemoveToken(r.Context(), token); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "token removed"})
}
