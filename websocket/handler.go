package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/mlm_backoffice/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the request, greets the client and registers it
// with the hub for live updates.
func HandleWebSocket(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, clientBuffer),
		}

		// Queue the welcome message before registering so it goes out first
		greeting, _ := json.Marshal(models.Event{
			Type:    "connected",
			Message: "WebSocket connected",
		})
		client.send <- greeting

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return nil
		}
		hub.log.WithField("remote", c.RealIP()).Debug("websocket client connected")

		go client.writePump()
		go client.readPump()
		return nil
	}
}
