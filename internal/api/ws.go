package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"wakeframe/internal/sim"
)

const wsWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// wsMessage is what clients may send on /ws.
type wsMessage struct {
	Direction *float64 `json:"direction,omitempty"`
	Hold      bool     `json:"hold,omitempty"`
	Stop      bool     `json:"stop,omitempty"`
}

// streamWS pushes every published CaseState to the client and turns client
// messages into engine commands.
func (s *Server) streamWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	// reader: the only goroutine calling Read* on conn
	go func() {
		defer cancel()
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Println("WebSocket read error:", err)
				}
				return
			}
			switch {
			case msg.Stop:
				s.eng.Submit(sim.StopCommand{At: time.Now()})
			case msg.Hold:
				s.eng.Submit(sim.HoldCommand{At: time.Now()})
			case msg.Direction != nil:
				s.eng.Submit(sim.SetDirectionCommand{At: time.Now(), DirectionDeg: *msg.Direction})
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(st); err != nil {
				log.Println("WebSocket write error:", err)
				return
			}
		}
	}
}
