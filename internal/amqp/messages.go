package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds carried on the entry queue.
const (
	KindEntrySync   = "entry_sync"
	KindEntryDelete = "entry_delete"
)

// EntryEventMessage is the lightweight queue message for entry
// changes. It carries only the id (plus the day key for deletes,
// whose row is already gone); the worker fetches the full entry
// from the database.
type EntryEventMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version,omitempty"`
	Day       string    `json:"day,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id, version int64) *EntryEventMessage {
	return &EntryEventMessage{
		Kind:      KindEntrySync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewEntryDeleteMessage(id int64, day string) *EntryEventMessage {
	return &EntryEventMessage{
		Kind:      KindEntryDelete,
		ID:        id,
		Day:       day,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventMessageFromJSON parses and validates a queue message.
func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Kind {
	case KindEntrySync, KindEntryDelete:
	default:
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	return &msg, nil
}
