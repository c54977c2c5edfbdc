package socket

import (
	"log"

	"reconnect_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// Server wraps the Socket.IO server and implements services.Broadcaster.
// Clients join one room per sessionId and receive newMessage events for it.
type Server struct {
	IO *socketio.Server
}

// NewServer initializes and returns a new Socket.IO server
func NewServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	io.OnEvent("/", "join", func(c socketio.Conn, data map[string]string) {
		sessionID := data["sessionId"]
		if sessionID == "" {
			log.Println("❌ Invalid sessionId in join request")
			return
		}
		log.Printf("👥 Socket %s joined session %s\n", c.ID(), sessionID)
		c.Join(sessionID)
	})

	io.OnEvent("/", "leave", func(c socketio.Conn, data map[string]string) {
		if sessionID := data["sessionId"]; sessionID != "" {
			c.Leave(sessionID)
		}
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", reason)
	})

	return &Server{IO: io}
}

// BroadcastMessage pushes a stored message to everyone in the session room
func (s *Server) BroadcastMessage(sessionID string, message models.Message) {
	s.IO.BroadcastToRoom("/", sessionID, "newMessage", message)
}
