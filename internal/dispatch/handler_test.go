package dispatch

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioguard/internal/discord"
	"audioguard/internal/logger"
	"audioguard/pkg/middleware"
	"audioguard/pkg/ratelimit"
)

type handlerFixture struct {
	engine    *gin.Engine
	deliverer *fakeDeliverer
}

func newHandlerFixture(t *testing.T, invite InviteConfig, verifier *discord.Verifier, opts ...HandlerOption) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NopLogger()
	d := &fakeDeliverer{}
	f := testFormatter()
	h := NewHandler(
		NewRouter(f, d, &fakeStore{}, log),
		NewPublisher(f, d, invite, nil, log),
		verifier,
		log,
		opts...,
	)

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware(log), middleware.RequestIDMiddleware(), middleware.CORSMiddleware())
	h.RegisterRoutes(engine)
	return &handlerFixture{engine: engine, deliverer: d}
}

func (f *handlerFixture) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const sendAlertBody = `{"action":"send_alert","alert":{"title":"X","artist":"Y","riskLevel":"critical","confidence":0.9},"channelId":"123"}`

func TestHandler_SendAlert(t *testing.T) {
	for _, path := range Paths {
		t.Run(path, func(t *testing.T) {
			f := newHandlerFixture(t, InviteConfig{}, nil)
			w := f.do(http.MethodPost, path, sendAlertBody, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":true}`, w.Body.String())
			require.Equal(t, 1, f.deliverer.count())
			assert.Equal(t, "123", f.deliverer.last().channelID)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestHandler_SendAlertDeliveryFailure(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)
	f.deliverer.err = errDiscordDown

	w := f.do(http.MethodPost, "/", sendAlertBody, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Failed to send Discord message", body["error"])
	assert.Equal(t, "DELIVERY_FAILED", body["error_code"])
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(500), details["status"])
	assert.Equal(t, "oops", details["response_body"])
}

func TestHandler_TestAlert(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)
	w := f.do(http.MethodPost, "/", `{"action":"test_alert","channelId":"c-7"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "🧪 TEST ALERT: 🟡 DMCA Risk Detected", f.deliverer.last().payload.Title)
}

func TestHandler_InviteURL(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{ApplicationID: "1122334455"}, nil)
	w := f.do(http.MethodPost, "/", `{"action":"get_invite_url"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"inviteUrl":"https://discord.com/api/oauth2/authorize?client_id=1122334455&permissions=2048&scope=bot%20applications.commands"}`,
		w.Body.String())
	assert.Equal(t, 0, f.deliverer.count())
}

func TestHandler_InviteURLUnavailable(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)
	w := f.do(http.MethodPost, "/", `{"action":"get_invite_url"}`, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"inviteUrl":"","error":"invite url unavailable"}`, w.Body.String())
}

func TestHandler_Interactions(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)

	w := f.do(http.MethodPost, "/", `{"type":1}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":1}`, w.Body.String())
	assert.Equal(t, 0, f.deliverer.count())

	w = f.do(http.MethodPost, "/discord-bot", `{"type":2,"data":{"name":"frobnicate"},"channel_id":"c"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":4,"data":{"content":"Unknown command!","flags":64}}`, w.Body.String())
	assert.Equal(t, 0, f.deliverer.count())
}

func TestHandler_CommandWithoutNameGetsUnknownAck(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)

	for _, body := range []string{`{"type":2,"data":{}}`, `{"type":2}`} {
		w := f.do(http.MethodPost, "/", body, nil)
		assert.Equal(t, http.StatusOK, w.Code, body)
		assert.JSONEq(t, `{"type":4,"data":{"content":"Unknown command!","flags":64}}`, w.Body.String())
	}
	assert.Equal(t, 0, f.deliverer.count())
}

func TestHandler_RateLimitSparesInteractions(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{RPS: 1, Burst: 2, CleanupInterval: time.Minute, MaxAge: time.Minute})
	f := newHandlerFixture(t, InviteConfig{}, nil, WithActionLimiter(limiter))

	const burst = 30
	for i := 0; i < burst; i++ {
		w := f.do(http.MethodPost, "/", `{"type":2,"data":{"name":"panic"},"channel_id":"c"}`, nil)
		require.Equal(t, http.StatusOK, w.Code, "interaction %d", i)
		assert.Equal(t, float64(ResponseChannelMessageWithSource), decodeBody(t, w)["type"])
	}
	assert.Equal(t, burst, f.deliverer.count())

	for i := 0; i < 2; i++ {
		w := f.do(http.MethodPost, "/", sendAlertBody, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := f.do(http.MethodPost, "/", sendAlertBody, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	body := decodeBody(t, w)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["error_code"])
	assert.Equal(t, burst+2, f.deliverer.count())

	w = f.do(http.MethodPost, "/", `{"type":1}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":1}`, w.Body.String())
}

func TestHandler_PanicAckedWhenDeliveryFails(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)
	f.deliverer.err = errDiscordDown

	w := f.do(http.MethodPost, "/", `{"type":2,"data":{"name":"panic"},"channel_id":"c"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":4,"data":{"content":"🚨 Panic alert sent! Check your stream immediately.","flags":64}}`, w.Body.String())
	assert.Equal(t, 1, f.deliverer.count())
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := f.do(method, "/", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, "Method not allowed", decodeBody(t, w)["error"])
	}
	assert.Equal(t, 0, f.deliverer.count())
}

func TestHandler_Options(t *testing.T) {
	f := newHandlerFixture(t, InviteConfig{}, nil)
	w := f.do(http.MethodOptions, "/", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "content-type")
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "invalid json", body: `{not json`, code: http.StatusBadRequest},
		{name: "invalid alert", body: `{"action":"send_alert","channelId":"1","alert":{"title":"X","artist":"Y","riskLevel":"nope","confidence":0.5}}`, code: http.StatusBadRequest},
		{name: "unknown action", body: `{"action":"reboot"}`, code: http.StatusMethodNotAllowed},
		{name: "unknown type", body: `{"type":5}`, code: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, InviteConfig{}, nil)
			w := f.do(http.MethodPost, "/", tt.body, nil)
			assert.Equal(t, tt.code, w.Code)
			assert.NotEmpty(t, decodeBody(t, w)["error"])
			assert.Equal(t, 0, f.deliverer.count())
		})
	}
}

func TestHandler_InteractionSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	verifier, err := discord.NewVerifier(hex.EncodeToString(pub))
	require.NoError(t, err)

	f := newHandlerFixture(t, InviteConfig{}, verifier)
	body := `{"type":1}`
	ts := "1700000000"
	sig := hex.EncodeToString(ed25519.Sign(priv, []byte(ts+body)))

	w := f.do(http.MethodPost, "/", body, map[string]string{
		"X-Signature-Ed25519":   sig,
		"X-Signature-Timestamp": ts,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/", body, map[string]string{
		"X-Signature-Ed25519":   sig,
		"X-Signature-Timestamp": "1700000001",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Internal actions are not signed by Discord.
	w = f.do(http.MethodPost, "/", sendAlertBody, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
