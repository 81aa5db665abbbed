package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrInvalidSignature = errors.New("invalid interaction signature")

// Verifier checks the Ed25519 signature Discord attaches to interaction requests.
type Verifier struct {
	key ed25519.PublicKey
}

func NewVerifier(publicKeyHex string) (*Verifier, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Verifier{key: ed25519.PublicKey(raw)}, nil
}

// Verify checks signatureHex over timestamp followed by the raw body.
func (v *Verifier) Verify(signatureHex, timestamp string, body []byte) error {
	if signatureHex == "" || timestamp == "" {
		return ErrInvalidSignature
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}

	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)
	if !ed25519.Verify(v.key, msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}
