package ws

import (
	"time"

	"github.com/netgazer/wifiwatch/internal/entry"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageEntryUpdated MessageType = "entry.updated"
	MessageRadioState   MessageType = "radio.state"
	MessageError        MessageType = "error"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	Key       string      `json:"key,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// EntryUpdatedData is the payload for entry.updated messages.
type EntryUpdatedData struct {
	Projection entry.Projection `json:"projection"`
}

// RadioStateData is the payload for radio.state messages.
type RadioStateData struct {
	Enabled bool `json:"enabled"`
}

// ErrorData is the payload for error messages.
type ErrorData struct {
	Error string `json:"error"`
}
