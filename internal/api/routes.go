package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metropolia/infoscreen/internal/config"
	"github.com/metropolia/infoscreen/internal/metrics"
	"github.com/metropolia/infoscreen/internal/web"
)

// Dependencies are the collaborators of the router. Events and Metrics may
// be nil, which disables /events and /metrics.
type Dependencies struct {
	Rooms        RoomServicer
	FreeSpace    FreeSpaceServicer
	Reservations ReservationSearcher
	Store        Pinger
	Events       http.Handler
	Metrics      *metrics.Service
	Auth         config.AuthConfig
	CORSOrigins  []string
}

// NewRouter configures the HTTP routes for the API
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recover)
	r.Use(Metrics(deps.Metrics))
	r.Use(web.HTTPProtocolMiddleware)
	r.Use(CORSHandler(deps.CORSOrigins))

	health := NewHealthHandler(deps.Store)
	rooms := NewRoomHandler(deps.Rooms, deps.FreeSpace)
	hours := NewBusinessHoursHandler(deps.Rooms)
	reservations := NewReservationHandler(deps.Reservations)

	r.Get("/", Root)

	// Health check endpoints for Kubernetes
	r.Get("/health/live", health.Live)
	r.Get("/health/ready", health.Ready)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	if deps.Events != nil {
		r.Method(http.MethodGet, "/events", deps.Events)
	}

	r.Group(func(r chi.Router) {
		r.Use(APIKey(deps.Auth.APIKey))

		r.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, MessageResponse{Message: "Access granted"})
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/rooms", rooms.List)
			r.Get("/rooms/freespace", rooms.FreeSpace)
			r.Post("/rooms/validate", rooms.Validate)
			r.Get("/rooms/{roomNumber}", rooms.Get)

			r.Get("/businesshours", hours.Get)

			r.Get("/reservations", reservations.List)
			r.Post("/reservations/search", reservations.Search)
			r.Get("/buildings/{buildingID}/rooms", reservations.BuildingRooms)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuth(deps.Auth.JWTSecret, deps.Auth.Admins))

				r.Post("/rooms", rooms.Create)
				r.Put("/rooms/{roomNumber}", rooms.Update)
				r.Delete("/rooms/{roomNumber}", rooms.Delete)
				r.Put("/businesshours/{shorthand}", hours.Update)
				r.Post("/import/init", hours.Import)
			})
		})
	})

	return r
}
