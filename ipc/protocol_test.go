package ipc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	target := 7
	env, err := NewEnvelope(TypeCommand, Command{Kind: CmdAttack, Unit: 3, Target: &target, Queue: true})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, env); err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()[:4]); int(got) != buf.Len()-4 {
		t.Errorf("length prefix %d, payload %d", got, buf.Len()-4)
	}
	got, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeCommand {
		t.Errorf("type = %q, want %q", got.Type, TypeCommand)
	}
	var cmd Command
	if err := got.Decode(&cmd); err != nil {
		t.Fatal(err)
	}
	if cmd.Kind != CmdAttack || cmd.Unit != 3 || cmd.Target == nil || *cmd.Target != 7 || !cmd.Queue {
		t.Errorf("decoded %+v", cmd)
	}
}

func TestReadEnvelopeRejectsBadLength(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
	}{
		{"zero", 0},
		{"oversized", MaxMessageSize + 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			binary.Write(&buf, binary.LittleEndian, tc.length)
			if _, err := ReadEnvelope(&buf); !errors.Is(err, ErrFrameSize) {
				t.Errorf("err = %v, want ErrFrameSize", err)
			}
		})
	}
}

func TestReadEnvelopeTruncated(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(10))
	buf.WriteString(`{"ty`)
	if _, err := ReadEnvelope(&buf); err == nil {
		t.Error("truncated payload accepted")
	}
}

func TestReadEnvelopeBadJSON(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.WriteString("{{{")
	if _, err := ReadEnvelope(&buf); err == nil {
		t.Error("malformed JSON accepted")
	}
}
