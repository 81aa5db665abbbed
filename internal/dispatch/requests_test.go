package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioguard/internal/alerting"
	pkgerrors "audioguard/pkg/errors"
)

func TestDecodeRequest_Interactions(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"type":1}`))
	require.NoError(t, err)
	assert.Equal(t, "ping", req.Kind())

	req, err = DecodeRequest([]byte(`{
		"id": "i-1",
		"type": 2,
		"data": {"name": "status"},
		"member": {"user": {"id": "u-1", "username": "streamer"}},
		"channel_id": "c-1"
	}`))
	require.NoError(t, err)
	in, ok := req.(*Interaction)
	require.True(t, ok)
	assert.Equal(t, "status", in.CommandName())
	assert.Equal(t, "u-1", in.InvokingUserID())
	assert.Equal(t, "c-1", in.ChannelID)
}

func TestDecodeRequest_CommandWithoutName(t *testing.T) {
	for _, body := range []string{`{"type":2,"data":{}}`, `{"type":2}`} {
		req, err := DecodeRequest([]byte(body))
		require.NoError(t, err, body)
		in, ok := req.(*Interaction)
		require.True(t, ok)
		assert.Equal(t, InteractionApplicationCommand, in.Type)
		assert.Empty(t, in.CommandName())
	}
}

func TestDecodeRequest_TypeTakesPrecedenceOverAction(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"type":1,"action":"send_alert"}`))
	require.NoError(t, err)
	assert.Equal(t, "ping", req.Kind())
}

func TestDecodeRequest_DirectMessageUser(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"type":2,"data":{"name":"status"},"user":{"id":"dm-1"},"channel_id":"c"}`))
	require.NoError(t, err)
	assert.Equal(t, "dm-1", req.(*Interaction).InvokingUserID())
}

func TestDecodeRequest_SendAlert(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "camelCase",
			body: `{"action":"send_alert","channelId":"123","alert":{"title":"X","artist":"Y","riskLevel":"critical","confidence":0.9}}`,
		},
		{
			name: "snake_case detection row",
			body: `{"action":"send_alert","channelId":"123","alert":{"track_title":"X","track_artist":"Y","risk_level":"CRITICAL","confidence_score":0.9}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.body))
			require.NoError(t, err)
			sa, ok := req.(*SendAlertRequest)
			require.True(t, ok)
			assert.Equal(t, "123", sa.ChannelID)
			assert.Equal(t, alerting.AlertRecord{Title: "X", Artist: "Y", RiskLevel: alerting.RiskCritical, Confidence: 0.9}, sa.Alert)
		})
	}
}

func TestDecodeRequest_OtherActions(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"action":"test_alert","channelId":" 55 ","userId":"u"}`))
	require.NoError(t, err)
	assert.Equal(t, &TestAlertRequest{ChannelID: "55", UserID: "u"}, req)

	req, err = DecodeRequest([]byte(`{"action":"get_invite_url"}`))
	require.NoError(t, err)
	assert.IsType(t, &InviteURLRequest{}, req)
}

func TestDecodeRequest_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		unroutable bool
	}{
		{name: "empty body", body: ``},
		{name: "not json", body: `hello`},
		{name: "json array", body: `[1,2]`},
		{name: "truncated json", body: `{"type":`},
		{name: "send_alert without channel", body: `{"action":"send_alert","alert":{"title":"X","artist":"Y","riskLevel":"low","confidence":0.1}}`},
		{name: "send_alert without alert", body: `{"action":"send_alert","channelId":"1"}`},
		{name: "unknown risk level", body: `{"action":"send_alert","channelId":"1","alert":{"title":"X","artist":"Y","riskLevel":"extreme","confidence":0.1}}`},
		{name: "confidence above one", body: `{"action":"send_alert","channelId":"1","alert":{"title":"X","artist":"Y","riskLevel":"low","confidence":1.5}}`},
		{name: "confidence missing", body: `{"action":"send_alert","channelId":"1","alert":{"title":"X","artist":"Y","riskLevel":"low"}}`},
		{name: "test_alert without channel", body: `{"action":"test_alert"}`},
		{name: "unknown action", body: `{"action":"reboot"}`, unroutable: true},
		{name: "unknown type", body: `{"type":3}`, unroutable: true},
		{name: "neither type nor action", body: `{"hello":"world"}`, unroutable: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tt.body))
			require.Error(t, err)
			if tt.unroutable {
				assert.True(t, pkgerrors.IsUnroutable(err), "got %v", err)
			} else {
				assert.True(t, pkgerrors.IsInvalidRequest(err), "got %v", err)
			}
		})
	}
}
