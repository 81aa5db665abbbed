package discord

import (
	"errors"
	"net/url"
	"strings"

	"audioguard/internal/constants"
)

var ErrMissingApplicationID = errors.New("discord application id is not configured")

// InviteURL builds the OAuth2 authorize link that adds the bot to a server.
func InviteURL(applicationID, permissions string) (string, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return "", ErrMissingApplicationID
	}
	if permissions == "" {
		permissions = constants.DefaultInvitePermissions
	}

	q := url.Values{}
	q.Set("client_id", applicationID)
	q.Set("permissions", permissions)
	q.Set("scope", constants.InviteScope)

	// url.Values encodes spaces as '+'; Discord documents %20.
	return constants.DefaultDiscordOAuthURL + "?" + strings.ReplaceAll(q.Encode(), "+", "%20"), nil
}
