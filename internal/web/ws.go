package web

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/ui"
	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSMessage is the envelope of every pushed message.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// RegionUpdate carries the new markup of one region.
type RegionUpdate struct {
	Region ui.Region `json:"region"`
	HTML   string    `json:"html"`
}

// handleWS pushes the markup of every redrawn region until the client goes
// away. Alerts and redirects are not pushed; they are delivered with the
// response to the action that raised them.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	regions, unsubscribe := s.app.Page().Subscribe()
	defer unsubscribe()

	// Incoming frames are ignored; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(WSMessage{Type: "connected", Data: map[string]string{"status": "connected"}}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case region := <-regions:
			if region == ui.RegionFlash {
				continue
			}
			var buf bytes.Buffer
			if err := s.renderRegion(&buf, region, s.app.Page().Snapshot()); err != nil {
				log.Printf("Template error: %v", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			msg := WSMessage{Type: "region", Data: RegionUpdate{Region: region, HTML: buf.String()}}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}
}
