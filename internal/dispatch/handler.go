package dispatch

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"audioguard/internal/constants"
	"audioguard/internal/discord"
	"audioguard/internal/logger"
	pkgerrors "audioguard/pkg/errors"
)

const maxBodyBytes = 1 << 20

// Paths the dispatch endpoint is mounted on.
var Paths = []string{"/", "/discord-bot"}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type InviteURLResponse struct {
	InviteURL string `json:"inviteUrl"`
	Error     string `json:"error,omitempty"`
}

// ActionLimiter budgets internal actions per client key. *ratelimit.Limiter implements it.
type ActionLimiter interface {
	Allow(key string) bool
}

type Handler struct {
	router    *Router
	publisher *Publisher
	verifier  *discord.Verifier
	limiter   ActionLimiter
	logger    logger.Logger
}

type HandlerOption func(*Handler)

// WithActionLimiter rate limits internal actions by client IP. Interactions
// are never limited.
func WithActionLimiter(l ActionLimiter) HandlerOption {
	return func(h *Handler) {
		h.limiter = l
	}
}

// NewHandler wires the endpoint. A nil verifier disables interaction signature checks.
func NewHandler(router *Router, publisher *Publisher, verifier *discord.Verifier, log logger.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{router: router, publisher: publisher, verifier: verifier, logger: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	for _, path := range Paths {
		r.Any(path, h.Serve)
	}
}

// Serve godoc
// @Summary      Dispatch endpoint
// @Description  Accepts Discord interactions ({"type":1|2,...}) and internal actions ({"action":"send_alert"|"test_alert"|"get_invite_url",...}).
// @Tags         dispatch
// @Accept       json
// @Produce      json
// @Param        X-Signature-Ed25519    header  string  false  "Interaction signature"
// @Param        X-Signature-Timestamp  header  string  false  "Interaction signature timestamp"
// @Success      200  {object}  InteractionResponse  "interaction ack, success envelope or invite url"
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      401  {object}  errors.ErrorResponse
// @Failure      405  {object}  errors.ErrorResponse
// @Failure      429  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Failure      502  {object}  errors.ErrorResponse
// @Failure      503  {object}  InviteURLResponse
// @Router       / [post]
// @Router       /discord-bot [post]
func (h *Handler) Serve(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		h.fail(c, pkgerrors.ErrUnroutable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		h.fail(c, pkgerrors.Wrap(err, pkgerrors.ErrInvalidRequest))
		return
	}
	if len(body) > maxBodyBytes {
		h.fail(c, pkgerrors.ErrInvalidRequest.WithDetail("reason", "body too large"))
		return
	}

	req, err := DecodeRequest(body)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, isInteraction := req.(*Interaction); !isInteraction && h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		c.Header("Retry-After", "1")
		h.fail(c, pkgerrors.ErrRateLimited.WithDetail("action", req.Kind()))
		return
	}

	switch r := req.(type) {
	case *Interaction:
		if h.verifier != nil {
			sig := c.GetHeader(constants.DiscordSignatureHeader)
			ts := c.GetHeader(constants.DiscordTimestampHeader)
			if err := h.verifier.Verify(sig, ts, body); err != nil {
				h.fail(c, pkgerrors.Wrap(err, pkgerrors.ErrUnauthorized))
				return
			}
		}
		c.JSON(http.StatusOK, h.router.Route(ctx, r))

	case *SendAlertRequest:
		if err := h.publisher.SendAlert(ctx, r); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true})

	case *TestAlertRequest:
		if err := h.publisher.SendTestAlert(ctx, r); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true})

	case *InviteURLRequest:
		url, err := h.publisher.InviteURL()
		if err != nil {
			h.logger.WarnwCtx(ctx, "Invite URL unavailable", "error", err)
			c.JSON(http.StatusServiceUnavailable, InviteURLResponse{Error: "invite url unavailable"})
			return
		}
		c.JSON(http.StatusOK, InviteURLResponse{InviteURL: url})

	default:
		h.fail(c, pkgerrors.ErrUnroutable)
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := pkgerrors.ToHTTPStatus(err)
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		h.logger.ErrorwCtx(c.Request.Context(), "Unhandled dispatch error", "error", err)
		status = http.StatusInternalServerError
	} else if status >= http.StatusInternalServerError {
		h.logger.ErrorwCtx(c.Request.Context(), "Dispatch request failed", "error", err, "path", c.Request.URL.Path)
	} else {
		h.logger.WarnwCtx(c.Request.Context(), "Dispatch request rejected", "error", err, "method", c.Request.Method)
	}
	c.JSON(status, pkgerrors.ToErrorResponse(err))
}
