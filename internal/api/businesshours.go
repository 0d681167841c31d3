package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/service"
)

// BusinessHoursHandler handles campus business hours and data import
type BusinessHoursHandler struct {
	rooms RoomServicer
}

// NewBusinessHoursHandler creates a new business hours handler
func NewBusinessHoursHandler(rooms RoomServicer) *BusinessHoursHandler {
	return &BusinessHoursHandler{rooms: rooms}
}

// Get handles GET /api/businesshours
func (h *BusinessHoursHandler) Get(w http.ResponseWriter, r *http.Request) {
	campuses, err := h.rooms.GetBusinessHours(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.BusinessHours{Campuses: campuses})
}

// Update handles PUT /api/businesshours/{shorthand}; the body is the weekly hours
func (h *BusinessHoursHandler) Update(w http.ResponseWriter, r *http.Request) {
	var hours models.WeekHours
	if !decodeJSON(w, r, &hours) {
		return
	}

	campus, err := h.rooms.UpdateCampusHours(r.Context(), chi.URLParam(r, "shorthand"), hours)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campus)
}

// Import handles POST /api/import/init
func (h *BusinessHoursHandler) Import(w http.ResponseWriter, r *http.Request) {
	var data service.ImportData
	if !decodeJSON(w, r, &data) {
		return
	}

	result, err := h.rooms.Import(r.Context(), data)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
