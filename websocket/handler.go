package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the request and registers the client with the hub.
// The route is JWT-protected, so the user identity comes from the token and
// the connection is authenticated from the start.
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID, userType string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:        userID,
		UserType:      userType,
		Conn:          conn,
		Authenticated: userID != primitive.NilObjectID,
	}

	hub.register <- client

	conn.WriteJSON(Notification{
		Type:    "connected",
		Message: "WebSocket connection established",
		UserID:  userID.Hex(),
	})

	// Drain the connection until the client goes away
	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
