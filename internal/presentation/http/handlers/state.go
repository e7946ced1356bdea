package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/infrastructure/messaging"
	"github.com/motonorte/storefront-go/internal/presentation/http/middleware"
	"github.com/motonorte/storefront-go/pkg/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is enforced by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// GetStateSSE streams storage change notifications for the profile over
// Server-Sent Events. Changes originated by the subscribing context are
// suppressed, mirroring how browser storage events skip the writing tab.
func GetStateSSE(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		contextID := middleware.GetContextID(c)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		sub := ctn.Store.Subscribe(profileID, contextID)
		defer ctn.Store.Unsubscribe(sub)

		ctn.Logger.Bus().Debug("SSE stream opened", "profileId", profileID, "contextId", contextID)

		heartbeat := time.NewTicker(config.SSEHeartbeatInterval)
		defer heartbeat.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-sub.C:
				if !ok {
					return false
				}
				if _, err := io.WriteString(w, messaging.FormatStorageEvent(ev)); err != nil {
					return false
				}
				return true
			case <-heartbeat.C:
				if _, err := io.WriteString(w, messaging.FormatHeartbeat()); err != nil {
					return false
				}
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}

// GetStateWS upgrades to a websocket carrying the same storage change
// feed for clients that prefer a socket over SSE.
func GetStateWS(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		contextID := middleware.GetContextID(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			ctn.Logger.Bus().Warn("Websocket upgrade failed", "profileId", profileID, "error", err.Error())
			return
		}

		client := &messaging.SyncClient{
			Conn:      conn,
			ProfileID: profileID,
			ContextID: contextID,
			Send:      make(chan []byte, config.SyncChannelBuffer),
		}
		ctn.SyncHub.Register(client)

		go writePump(client)
		go readPump(ctn, client)
	}
}

// writePump drains the client's send channel onto the socket and keeps
// the connection alive with pings.
func writePump(client *messaging.SyncClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters the client when the
// socket closes. The feed is one-way; writes go through the REST API.
func readPump(ctn *container.Container, client *messaging.SyncClient) {
	defer func() {
		ctn.SyncHub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
