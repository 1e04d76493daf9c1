// internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/liarsdeck/internal/game"
	"github.com/jason-s-yu/liarsdeck/internal/middleware"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Store     *game.RoomStore
	Hub       *Hub
	Logger    *logrus.Logger
	PublicURL string

	AllowedOrigins []string

	MessagesPerSecond float64
	MessageBurst      int
}

// NewRouter mounts the health check, QR codes and the websocket endpoint.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.LogMiddleware(d.Logger))

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/ping", PingHandler)
		r.Get("/rooms/{code}/qr.png", QRHandler(d.Store, d.PublicURL))
	})
	r.Handle("/ws", NewWSHandler(d.Store, d.Hub, d.Logger, d.MessagesPerSecond, d.MessageBurst))
	return r
}
