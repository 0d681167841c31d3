package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/metropolia/infoscreen/internal/models"
)

// ReservationHandler forwards reservation queries to the reservation API
type ReservationHandler struct {
	gateway ReservationSearcher
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(gateway ReservationSearcher) *ReservationHandler {
	return &ReservationHandler{gateway: gateway}
}

// SearchRequest is the body of POST /api/reservations/search
type SearchRequest struct {
	Realization  stringList `json:"realization"`
	StudentGroup stringList `json:"studentGroup"`
}

// stringList accepts a single code as well as a list of codes
type stringList []string

// UnmarshalJSON decodes "code", ["a", "b"] or null
func (l *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
			return nil
		}
		*l = stringList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// ReservationsResponse wraps reservation lists
type ReservationsResponse struct {
	Reservations []models.Reservation `json:"reservations"`
}

// BuildingRoomsResponse lists the rooms of a building
type BuildingRoomsResponse struct {
	BuildingID string            `json:"buildingId"`
	Rooms      []models.Resource `json:"rooms"`
}

// List handles GET /api/reservations?room=&startDate=&endDate=
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	reservations, err := h.gateway.SearchReservations(r.Context(),
		strings.TrimSpace(values.Get("room")), values.Get("startDate"), values.Get("endDate"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReservationsResponse{Reservations: reservations})
}

// Search handles POST /api/reservations/search
func (h *ReservationHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Realization) == 0 && len(req.StudentGroup) == 0 {
		badRequest(w, "realization or studentGroup is required")
		return
	}

	reservations, err := h.gateway.SearchByRealization(r.Context(), req.Realization, req.StudentGroup)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReservationsResponse{Reservations: reservations})
}

// BuildingRooms handles GET /api/buildings/{buildingID}/rooms
func (h *ReservationHandler) BuildingRooms(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")

	rooms, err := h.gateway.BuildingRooms(r.Context(), buildingID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BuildingRoomsResponse{BuildingID: buildingID, Rooms: rooms})
}
