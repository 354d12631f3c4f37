package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"chazonBack/internal/models"
	"chazonBack/internal/services"
)

type ServiceHandler struct {
	Service *services.ServiceService
}

// parseServiceFilter reads the catalog query string. Malformed numbers are
// dropped rather than rejected.
func parseServiceFilter(r *http.Request) models.ServiceFilter {
	q := r.URL.Query()
	f := models.ServiceFilter{
		CategorySlug: strings.TrimSpace(q.Get("category")),
		Search:       strings.TrimSpace(q.Get("search")),
		SortBy:       q.Get("sort_by"),
	}

	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		f.MaxPrice = &v
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	return f
}

func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := h.Service.GetFilteredServices(r.Context(), parseServiceFilter(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, pagination)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := getIntParam(r, "id")
	if !ok {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid service id")
		return
	}

	svc, err := h.Service.GetServiceByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, svc)
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	created, err := h.Service.CreateService(r.Context(), userID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid service id")
		return
	}

	var svc models.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	svc.ID = id

	updated, err := h.Service.UpdateService(r.Context(), userID, svc)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

func (h *ServiceHandler) GetMyServices(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	items, err := h.Service.GetServicesByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.Service{}
	}
	respondData(w, http.StatusOK, items)
}
