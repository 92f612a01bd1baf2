package ipc

import (
	"errors"
	"net"
	"testing"
	"time"
)

func startLoop(t *testing.T, handlers map[string]Handler) (net.Conn, chan struct{}) {
	t.Helper()
	server, client := net.Pipe()
	c := NewConnection(Stream(server), handlers)
	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		close(done)
	}()
	t.Cleanup(func() { client.Close() })
	client.SetDeadline(time.Now().Add(5 * time.Second))
	return client, done
}

func roundTrip(t *testing.T, conn net.Conn, msgType string, data any) Envelope {
	t.Helper()
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteEnvelope(conn, env); err != nil {
		t.Fatal(err)
	}
	resp, err := ReadEnvelope(conn)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestReadLoopDispatches(t *testing.T) {
	handlers := map[string]Handler{
		TypeHello: func(env Envelope) (*Envelope, error) {
			var h HelloMessage
			if err := env.Decode(&h); err != nil {
				return nil, err
			}
			resp, err := NewEnvelope(TypeAck, AckMessage{Status: "ok", Player: h.Player})
			return &resp, err
		},
	}
	conn, _ := startLoop(t, handlers)
	resp := roundTrip(t, conn, TypeHello, HelloMessage{Player: 2, Name: "blue"})
	if resp.Type != TypeAck {
		t.Fatalf("response type %q, want %q", resp.Type, TypeAck)
	}
	var ack AckMessage
	if err := resp.Decode(&ack); err != nil {
		t.Fatal(err)
	}
	if ack.Player != 2 || ack.Status != "ok" {
		t.Errorf("ack = %+v", ack)
	}
}

func TestReadLoopReportsErrors(t *testing.T) {
	handlers := map[string]Handler{
		TypeCommand: func(Envelope) (*Envelope, error) { return nil, errors.New("no such unit") },
	}
	conn, _ := startLoop(t, handlers)

	tests := []struct {
		msgType string
		want    string
	}{
		{TypeCommand, "no such unit"},
		{"bogus", "unknown message type bogus"},
	}
	for _, tc := range tests {
		resp := roundTrip(t, conn, tc.msgType, struct{}{})
		var e ErrorMessage
		if resp.Type != TypeError {
			t.Fatalf("%s: response type %q, want error", tc.msgType, resp.Type)
		}
		if err := resp.Decode(&e); err != nil {
			t.Fatal(err)
		}
		if e.Error != tc.want {
			t.Errorf("%s: error %q, want %q", tc.msgType, e.Error, tc.want)
		}
	}
}

func TestReadLoopEndsOnClose(t *testing.T) {
	conn, done := startLoop(t, nil)
	conn.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("read loop still running after the peer closed")
	}
}

func TestSendFromOtherGoroutine(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	c := NewConnection(Stream(server), nil)
	client.SetDeadline(time.Now().Add(5 * time.Second))
	go func() {
		for i := 0; i < 3; i++ {
			c.Send(TypeGameState, GameState{Cycle: i})
		}
	}()
	for i := 0; i < 3; i++ {
		env, err := ReadEnvelope(client)
		if err != nil {
			t.Fatal(err)
		}
		var gs GameState
		if err := env.Decode(&gs); err != nil {
			t.Fatal(err)
		}
		if gs.Cycle != i {
			t.Errorf("frame %d has cycle %d", i, gs.Cycle)
		}
	}
}
