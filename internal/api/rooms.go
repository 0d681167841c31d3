package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/metropolia/infoscreen/internal/availability"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/service"
)

// RoomHandler handles HTTP requests for rooms and the free space view
type RoomHandler struct {
	rooms     RoomServicer
	freeSpace FreeSpaceServicer
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomServicer, freeSpace FreeSpaceServicer) *RoomHandler {
	return &RoomHandler{
		rooms:     rooms,
		freeSpace: freeSpace,
	}
}

// ValidateRoomRequest is the body of POST /api/rooms/validate
type ValidateRoomRequest struct {
	RoomNumber string `json:"roomNumber"`
}

// ValidateRoomResponse reports whether the reservation system knows a room
type ValidateRoomResponse struct {
	RoomNumber string `json:"roomNumber"`
	Exists     bool   `json:"exists"`
}

// List handles GET /api/rooms; rooms are keyed by room number
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(rooms) == 0 {
		respondError(w, r, models.ErrNoRooms)
		return
	}

	byNumber := make(map[string]*models.Room, len(rooms))
	for _, room := range rooms {
		byNumber[room.RoomNumber] = room
	}
	writeJSON(w, http.StatusOK, byNumber)
}

// Get handles GET /api/rooms/{roomNumber}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(r.Context(), chi.URLParam(r, "roomNumber"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Create handles POST /api/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var room models.Room
	if !decodeJSON(w, r, &room) {
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), &room)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/rooms/{roomNumber}
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	var room models.Room
	if !decodeJSON(w, r, &room) {
		return
	}

	saved, err := h.rooms.SaveRoom(r.Context(), chi.URLParam(r, "roomNumber"), &room)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Delete handles DELETE /api/rooms/{roomNumber}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.DeleteRoom(r.Context(), chi.URLParam(r, "roomNumber")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Validate handles POST /api/rooms/validate
func (h *RoomHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	exists, err := h.rooms.ValidateRoom(r.Context(), req.RoomNumber)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateRoomResponse{
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		Exists:     exists,
	})
}

// FreeSpace handles GET /api/rooms/freespace
func (h *RoomHandler) FreeSpace(w http.ResponseWriter, r *http.Request) {
	query, err := parseFreeSpaceQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	result, err := h.freeSpace.FreeSpace(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type queryError struct {
	param string
}

func (e *queryError) Error() string {
	return e.param + " must be a whole number"
}

func parseFreeSpaceQuery(r *http.Request) (service.FreeSpaceQuery, error) {
	values := r.URL.Query()

	persons, err := optionalInt(values.Get("persons"), "persons")
	if err != nil {
		return service.FreeSpaceQuery{}, err
	}
	squareMeters, err := optionalInt(values.Get("squareMeters"), "squareMeters")
	if err != nil {
		return service.FreeSpaceQuery{}, err
	}

	return service.FreeSpaceQuery{
		Filter: availability.Filter{
			Floor:              values.Get("floor"),
			Building:           values.Get("building"),
			Wing:               values.Get("wing"),
			Persons:            persons,
			SquareMeters:       squareMeters,
			Details:            values.Get("details"),
			GroupDetails:       values.Get("groupDetails"),
			ReservableStudents: values.Get("reservableStudents"),
			ReservableStaff:    values.Get("reservableStaff"),
		},
		StartDate: values.Get("startDate"),
		EndDate:   values.Get("endDate"),
	}, nil
}

func optionalInt(raw, param string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &queryError{param: param}
	}
	return &v, nil
}
