package ipc

import (
	"net"
	"time"
)

// writeWait bounds a single frame write so a stalled peer cannot block
// the game loop's broadcasts.
const writeWait = 5 * time.Second

// Transport moves whole envelopes. Stream carries them length-prefixed
// over a byte stream; WebSocket carries one envelope per text message.
type Transport interface {
	Read() (Envelope, error)
	Write(env Envelope) error
	Close() error
	RemoteAddr() net.Addr
}

type streamTransport struct {
	conn net.Conn
}

// Stream frames envelopes over conn, typically a unix socket.
func Stream(conn net.Conn) Transport { return &streamTransport{conn: conn} }

func (s *streamTransport) Read() (Envelope, error) { return ReadEnvelope(s.conn) }

func (s *streamTransport) Write(env Envelope) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return WriteEnvelope(s.conn, env)
}

func (s *streamTransport) Close() error         { return s.conn.Close() }
func (s *streamTransport) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }
