package handlers

import (
	"net/http"
	"net/url"

	"github.com/dom/news-api/internal/feed"
	"github.com/dom/news-api/internal/logging"
	ws "github.com/gorilla/websocket"
)

type FeedHandler struct {
	hub      *feed.Hub
	upgrader ws.Upgrader
	logger   logging.Logger
}

// NewFeedHandler accepts browser connections only from allowedOrigin or the
// serving host itself.
func NewFeedHandler(hub *feed.Hub, allowedOrigin string, logger logging.Logger) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigin),
		},
		logger: logger,
	}
}

func checkOrigin(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == allowed {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := feed.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
