package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"exam-portal-service/internal/app"
)

// WSHandler streams live leaderboard updates for one exam over a websocket.
type WSHandler struct {
	service  *app.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.Service) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes the current leaderboard followed by
// every subsequent update until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	examID := r.URL.Query().Get("examId")
	if examID == "" {
		http.Error(w, "missing examId", http.StatusBadRequest)
		return
	}

	board, err := h.service.Leaderboard(r.Context(), examID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Feed().Subscribe(examID)
	defer cancel()

	initial := app.BoardUpdate{ExamID: examID, Results: board, UpdatedAt: time.Now()}
	if err := conn.WriteJSON(outboundMessage[app.BoardUpdate]{Type: "leaderboard", Payload: initial}); err != nil {
		return
	}

	// The reader only watches for disconnects; this feed is one-way.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[app.BoardUpdate]{Type: "leaderboard", Payload: update}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
