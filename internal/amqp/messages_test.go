package amqp

import (
	"testing"
	"time"
)

func TestEntryEventMessageRoundTrip(t *testing.T) {
	msg := NewEntrySyncMessage(42, 1)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := EntryEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindEntrySync || got.ID != 42 || got.Version != 1 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", got.Timestamp)
	}
}

func TestEntryDeleteMessageCarriesDay(t *testing.T) {
	msg := NewEntryDeleteMessage(7, "2024-05-01")
	body, _ := msg.ToJSON()
	got, err := EntryEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindEntryDelete || got.ID != 7 || got.Day != "2024-05-01" {
		t.Fatalf("delete message wrong: %+v", got)
	}
}

func TestEntryEventMessageRejectsGarbage(t *testing.T) {
	if _, err := EntryEventMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
	if _, err := EntryEventMessageFromJSON([]byte(`{"kind":"mystery","id":1}`)); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
