package models

import "time"

// MessageEnvelope is the broker record for a dispatch event.
type MessageEnvelope struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  Metadata               `json:"metadata"`
}

type Metadata struct {
	TraceID       string `json:"trace_id,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	InteractionID string `json:"interaction_id,omitempty"`
}

const (
	EventTypeAlertDispatched = "alert.dispatched"
	EventTypeCommandHandled  = "command.handled"
)

const (
	SourceInteraction    = "interaction"
	SourceInternalAction = "internal_action"
)
