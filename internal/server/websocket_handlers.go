package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedWebsocketHandler handles WebSocket connections for live feed
// updates. Connections are anonymous; clients just listen for new_post
// events pushed by the hub.
func (s *Server) FeedWebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		client, err := s.hub.Register(conn)
		if err != nil {
			log.Printf("WebSocket feed: failed to register client: %v", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !s.flags.Enabled("live_feed", 0) {
			return fiber.ErrNotFound
		}
		if websocket.IsWebSocketUpgrade(c) {
			return upgrade(c)
		}
		return fiber.ErrUpgradeRequired
	}
}
