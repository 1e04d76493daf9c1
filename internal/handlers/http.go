// internal/handlers/http.go
package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jason-s-yu/liarsdeck/internal/game"
	log "github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// PingHandler is a simple health check handler
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("pong"))
}

// JoinURL is the link a QR code points at for the given room.
func JoinURL(publicURL, code string) string {
	return strings.TrimRight(publicURL, "/") + "/?room=" + url.QueryEscape(code)
}

// QRHandler renders a PNG QR code of the join link for a live room.
func QRHandler(store *game.RoomStore, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := game.NormalizeRoomCode(chi.URLParam(r, "code"))
		if _, ok := store.GetRoom(code); !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		png, err := qrcode.Encode(JoinURL(publicURL, code), qrcode.Medium, qrSize)
		if err != nil {
			log.WithField("room", code).Errorf("failed to encode qr code: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	}
}
