package web

import (
	"net/http"
	"strings"
)

// EventsPath is where the live update stream is mounted
const EventsPath = "/events"

// HTTPProtocolMiddleware stops browsers from switching to HTTP/3 behind
// proxies that break long lived streams, and keeps event stream
// connections on HTTP/1.1 keep-alive
func HTTPProtocolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", "clear")

		if strings.HasPrefix(r.URL.Path, EventsPath) {
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Accel-Buffering", "no")
		}

		next.ServeHTTP(w, r)
	})
}
