// Package web pushes live update notifications to info-screens over
// server-sent events
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/rs/zerolog/log"

	"github.com/metropolia/infoscreen/internal/service"
	"github.com/metropolia/infoscreen/internal/utils"
)

// RoomsStream is the stream screens subscribe to
const RoomsStream = "rooms"

// Event names published on RoomsStream
const (
	EventUpdate    = "update"
	EventKeepAlive = "keepalive"
)

// Broadcaster tells connected screens to refetch after data changes.
// Events are not replayed; a screen that reconnects refetches anyway.
type Broadcaster struct {
	server *sse.Server
}

// NewBroadcaster creates a broadcaster with the rooms stream
func NewBroadcaster() *Broadcaster {
	server := sse.New()
	server.AutoReplay = false
	server.AutoStream = false
	server.Headers = map[string]string{
		"Cache-Control": "no-cache, no-transform",
	}
	server.CreateStream(RoomsStream)

	return &Broadcaster{server: server}
}

// ServeHTTP implements the http.Handler interface for event stream
// connections. Requests without a stream parameter join RoomsStream; any
// other stream is not found.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	switch query.Get("stream") {
	case RoomsStream:
	case "":
		query.Set("stream", RoomsStream)
		r = r.Clone(r.Context())
		r.URL.RawQuery = query.Encode()
	default:
		http.Error(w, "Stream not found", http.StatusNotFound)
		return
	}

	log.Debug().
		Str("stream", utils.SanitizeLogString(query.Get("stream"))).
		Str("remote", r.RemoteAddr).
		Msg("SSE client connected")

	b.server.ServeHTTP(w, r)

	log.Debug().Str("remote", r.RemoteAddr).Msg("SSE client disconnected")
}

// NotifyUpdate publishes an update event describing the change
func (b *Broadcaster) NotifyUpdate(event service.UpdateEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode update event")
		return
	}

	log.Debug().Str("kind", event.Kind).Str("key", utils.SanitizeLogString(event.Key)).Msg("Publishing SSE update event")
	b.server.Publish(RoomsStream, &sse.Event{
		Event: []byte(EventUpdate),
		Data:  data,
	})
}

// KeepAlive publishes a keepalive event every interval until ctx is done,
// so proxies do not drop idle streams
func (b *Broadcaster) KeepAlive(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			b.server.Publish(RoomsStream, &sse.Event{
				Event: []byte(EventKeepAlive),
				Data:  []byte(now.UTC().Format(time.RFC3339)),
			})
		}
	}
}

// Close disconnects every client
func (b *Broadcaster) Close() {
	b.server.Close()
}
