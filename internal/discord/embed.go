package discord

import (
	"encoding/json"

	"audioguard/internal/alerting"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

// CreateMessageRequest is the body of POST /channels/{id}/messages.
type CreateMessageRequest struct {
	Embeds []Embed `json:"embeds"`
}

// Message is the created-message acknowledgement. Only identifiers are
// decoded; Raw keeps the full response for callers that want it.
type Message struct {
	ID        string          `json:"id"`
	ChannelID string          `json:"channel_id"`
	Raw       json.RawMessage `json:"-"`
}

func EmbedFromPayload(p alerting.NotificationPayload) Embed {
	fields := make([]EmbedField, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline}
	}

	e := Embed{
		Title:       p.Title,
		Description: p.Description,
		Color:       int(p.Color),
		Fields:      fields,
	}
	if !p.Timestamp.IsZero() {
		e.Timestamp = p.Timestamp.UTC().Format(timestampLayout)
	}
	if p.Footer != "" {
		e.Footer = &EmbedFooter{Text: p.Footer}
	}
	return e
}
