package ipc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type wsTransport struct {
	conn *websocket.Conn
}

// WebSocket carries one envelope per text message over conn.
func WebSocket(conn *websocket.Conn) Transport {
	conn.SetReadLimit(MaxMessageSize)
	return &wsTransport{conn: conn}
}

func (w *wsTransport) Read() (Envelope, error) {
	_, msg, err := w.conn.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read message: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

func (w *wsTransport) Write(env Envelope) error {
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := w.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (w *wsTransport) Close() error {
	w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return w.conn.Close()
}

func (w *wsTransport) RemoteAddr() net.Addr { return w.conn.RemoteAddr() }

// WebSocketHandler upgrades every request and hands the transport to
// serve, which owns it until it returns.
func WebSocketHandler(serve func(Transport)) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		slog.Info("websocket connection accepted", "remote", conn.RemoteAddr())
		serve(WebSocket(conn))
	})
}
