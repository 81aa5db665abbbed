package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"audioguard/internal/alerting"
	pkgerrors "audioguard/pkg/errors"
)

type InteractionType int

const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
)

type Action string

const (
	ActionSendAlert    Action = "send_alert"
	ActionTestAlert    Action = "test_alert"
	ActionGetInviteURL Action = "get_invite_url"
)

// Request is one of *Interaction, *SendAlertRequest, *TestAlertRequest
// or *InviteURLRequest.
type Request interface {
	Kind() string
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Member struct {
	User *User `json:"user"`
}

type CommandOption struct {
	Name  string          `json:"name"`
	Type  int             `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type CommandData struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Options []CommandOption `json:"options,omitempty"`
}

// Interaction is an inbound Discord interaction (shape A).
type Interaction struct {
	ID        string          `json:"id,omitempty"`
	Type      InteractionType `json:"type"`
	Data      *CommandData    `json:"data,omitempty"`
	Member    *Member         `json:"member,omitempty"`
	User      *User           `json:"user,omitempty"`
	ChannelID string          `json:"channel_id,omitempty"`
	GuildID   string          `json:"guild_id,omitempty"`
}

func (i *Interaction) Kind() string {
	if i.Type == InteractionPing {
		return "ping"
	}
	return "command"
}

func (i *Interaction) CommandName() string {
	if i.Data == nil {
		return ""
	}
	return i.Data.Name
}

// InvokingUserID prefers the guild member and falls back to the DM user.
func (i *Interaction) InvokingUserID() string {
	if i.Member != nil && i.Member.User != nil && i.Member.User.ID != "" {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// SendAlertRequest asks for a live alert to be delivered (shape B).
type SendAlertRequest struct {
	Alert     alerting.AlertRecord
	ChannelID string
	UserID    string
}

func (*SendAlertRequest) Kind() string { return string(ActionSendAlert) }

// TestAlertRequest asks for the canned setup alert to be delivered.
type TestAlertRequest struct {
	ChannelID string
	UserID    string
}

func (*TestAlertRequest) Kind() string { return string(ActionTestAlert) }

type InviteURLRequest struct{}

func (*InviteURLRequest) Kind() string { return string(ActionGetInviteURL) }

type envelope struct {
	Type   json.RawMessage `json:"type"`
	Action *string         `json:"action"`
}

// alertBody accepts both the camelCase record and the snake_case detection row.
type alertBody struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	RiskLevel  string   `json:"riskLevel"`
	Confidence *float64 `json:"confidence"`

	TrackTitle      string   `json:"track_title"`
	TrackArtist     string   `json:"track_artist"`
	RiskLevelSnake  string   `json:"risk_level"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

type actionBody struct {
	Action    string     `json:"action"`
	Alert     *alertBody `json:"alert"`
	ChannelID string     `json:"channelId"`
	UserID    string     `json:"userId"`
}

// DecodeRequest classifies a request body. Malformed JSON or a recognised
// shape with invalid fields yields ErrInvalidRequest; a body that names no
// known type or action yields ErrUnroutable.
func DecodeRequest(body []byte) (Request, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, pkgerrors.ErrInvalidRequest.WithDetail("reason", "body must be a JSON object")
	}

	var p envelope
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInvalidRequest)
	}

	// An interaction type takes precedence over an action field.
	var t InteractionType
	hasType := len(p.Type) > 0 && json.Unmarshal(p.Type, &t) == nil && t != 0
	if hasType && (t == InteractionPing || t == InteractionApplicationCommand) {
		return decodeInteraction(t, trimmed)
	}
	if p.Action != nil {
		return decodeAction(Action(*p.Action), trimmed)
	}
	if hasType {
		return nil, pkgerrors.ErrUnroutable.WithDetail("type", int(t))
	}
	return nil, pkgerrors.ErrUnroutable
}

func decodeInteraction(t InteractionType, body []byte) (Request, error) {
	switch t {
	case InteractionPing:
		return &Interaction{Type: InteractionPing}, nil
	case InteractionApplicationCommand:
		var in Interaction
		if err := json.Unmarshal(body, &in); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInvalidRequest)
		}
		return &in, nil
	default:
		return nil, pkgerrors.ErrUnroutable.WithDetail("type", int(t))
	}
}

func decodeAction(action Action, body []byte) (Request, error) {
	switch action {
	case ActionSendAlert, ActionTestAlert, ActionGetInviteURL:
	default:
		return nil, pkgerrors.ErrUnroutable.WithDetail("action", string(action))
	}

	var b actionBody
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInvalidRequest)
	}

	switch action {
	case ActionGetInviteURL:
		return &InviteURLRequest{}, nil
	case ActionTestAlert:
		channelID, err := requireChannel(b.ChannelID)
		if err != nil {
			return nil, err
		}
		return &TestAlertRequest{ChannelID: channelID, UserID: b.UserID}, nil
	default:
		channelID, err := requireChannel(b.ChannelID)
		if err != nil {
			return nil, err
		}
		if b.Alert == nil {
			return nil, pkgerrors.ErrInvalidRequest.WithDetail("field", "alert")
		}
		record, err := b.Alert.record()
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInvalidRequest).WithDetail("field", "alert")
		}
		return &SendAlertRequest{Alert: record, ChannelID: channelID, UserID: b.UserID}, nil
	}
}

func requireChannel(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", pkgerrors.ErrInvalidRequest.WithDetail("field", "channelId")
	}
	return id, nil
}

func (a alertBody) record() (alerting.AlertRecord, error) {
	title := firstNonEmpty(a.Title, a.TrackTitle)
	artist := firstNonEmpty(a.Artist, a.TrackArtist)

	risk, err := alerting.ParseRiskLevel(firstNonEmpty(a.RiskLevel, a.RiskLevelSnake))
	if err != nil {
		return alerting.AlertRecord{}, err
	}

	confidence := a.Confidence
	if confidence == nil {
		confidence = a.ConfidenceScore
	}
	if confidence == nil {
		return alerting.AlertRecord{}, fmt.Errorf("%w: missing", alerting.ErrConfidenceOutOfRange)
	}

	return alerting.NewAlertRecord(title, artist, risk, *confidence)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
