package ipc

import (
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single controller talking to the engine.
// Replies from the read loop and state frames from the game loop share
// the transport, so writes are serialised.
type Connection struct {
	t        Transport
	handlers map[string]Handler
	wmu      sync.Mutex
}

func NewConnection(t Transport, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		t:        t,
		handlers: handlers,
	}
}

// RegisterHandler must be called before ReadLoop starts.
func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.t.Write(env)
}

// RemoteAddr returns the peer's address.
func (c *Connection) RemoteAddr() net.Addr { return c.t.RemoteAddr() }

// Close closes the transport, ending ReadLoop.
func (c *Connection) Close() error { return c.t.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the
// transport lifetime so callers don't need to track cleanup. A handler
// error is reported to the peer as an error envelope.
func (c *Connection) ReadLoop() {
	defer c.t.Close()

	for {
		env, err := c.t.Read()
		if err != nil {
			slog.Info("connection read ended", "remote", c.t.RemoteAddr(), "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			if err := c.Send(TypeError, ErrorMessage{Error: "unknown message type " + env.Type}); err != nil {
				return
			}
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Warn("handler error", "type", env.Type, "error", err)
			if err := c.Send(TypeError, ErrorMessage{Error: err.Error()}); err != nil {
				slog.Error("failed to send error", "type", env.Type, "error", err)
				return
			}
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type)
		}
	}
}
