package client

import (
	"errors"
	"testing"
)

func TestInterpret_Classification(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		kind    EventKind
		text    string
	}{
		{"delta", `{"content":"di 2+2"}`, EventDelta, "di 2+2"},
		{"done", `{"done":true}`, EventDone, ""},
		{"done false", `{"done":false}`, EventIgnored, ""},
		{"error", `{"error":"model unavailable"}`, EventError, "model unavailable"},
		{"error wins over content", `{"content":"x","error":"boom","done":true}`, EventError, "boom"},
		{"content wins over done", `{"content":"x","done":true}`, EventDelta, "x"},
		{"nothing recognized", `{"foo":1}`, EventIgnored, ""},
		{"empty object", `{}`, EventIgnored, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Interpret(tc.payload)
			if err != nil {
				t.Fatalf("Interpret: %v", err)
			}
			if ev.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", ev.Kind, tc.kind)
			}
			if ev.Text != tc.text {
				t.Errorf("Text = %q, want %q", ev.Text, tc.text)
			}
		})
	}
}

func TestInterpret_MalformedFrame(t *testing.T) {
	_, err := Interpret(`{"content": `)
	if err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	var mf *MalformedFrameError
	if !errors.As(err, &mf) {
		t.Fatalf("error type = %T, want *MalformedFrameError", err)
	}
	if mf.Payload != `{"content": ` {
		t.Errorf("Payload = %q", mf.Payload)
	}
}
