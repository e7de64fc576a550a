package core

import (
	"errors"
	"testing"
)

func TestValidateNormalisesDefaults(t *testing.T) {
	e := ChatEvent{SenderID: "u1", SenderNick: "Alice", Body: "hi", Room: "general"}
	if err := e.Validate(1234); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if e.EventType != EventTypeChat {
		t.Errorf("EventType = %q, want %q", e.EventType, EventTypeChat)
	}
	if e.Timestamp != 1234 {
		t.Errorf("Timestamp = %d, want server-stamped 1234", e.Timestamp)
	}
}

func TestValidateKeepsClientTimestamp(t *testing.T) {
	e := ChatEvent{SenderID: "u1", SenderNick: "Alice", Body: "hi", Room: "general", Timestamp: 99}
	if err := e.Validate(1234); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if e.Timestamp != 99 {
		t.Errorf("Timestamp = %d, want client value 99", e.Timestamp)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	base := ChatEvent{SenderID: "u1", SenderNick: "Alice", Body: "hi", Room: "general"}

	for name, mutate := range map[string]func(*ChatEvent){
		"sender id":   func(e *ChatEvent) { e.SenderID = "" },
		"sender nick": func(e *ChatEvent) { e.SenderNick = "" },
		"body":        func(e *ChatEvent) { e.Body = "" },
		"room":        func(e *ChatEvent) { e.Room = "" },
		"event type":  func(e *ChatEvent) { e.EventType = "yell" },
	} {
		e := base
		mutate(&e)
		if err := e.Validate(1); !errors.Is(err, ErrMalformedEvent) {
			t.Errorf("missing %s: Validate = %v, want ErrMalformedEvent", name, err)
		}
	}
}
