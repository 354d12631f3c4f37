package handlers

import (
	"encoding/json"
	"net/http"

	"chazonBack/internal/models"
	"chazonBack/internal/services"
)

type CategoryHandler struct {
	Service *services.CategoryService
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.GetAllCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := getParam(r, "slug")
	if slug == "" {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid category slug")
		return
	}

	category, err := h.Service.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if category.Name == "" || category.Slug == "" {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "name and slug are required")
		return
	}

	created, err := h.Service.CreateCategory(r.Context(), category)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}
