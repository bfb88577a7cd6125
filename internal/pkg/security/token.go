package security

import (
	"crypto/rand"
	"encoding/base64"
)

// AccessTokenBytes is the entropy of a download access token. 36 random
// bytes encode to 48 URL-safe characters, comfortably past the 32-byte
// guessing-resistance floor.
const AccessTokenBytes = 36

// GenerateAccessToken returns an opaque, URL-safe, high-entropy token.
// The token is the only credential guarding a paid download, so it must
// never be derived from order data or timestamps.
func GenerateAccessToken() (string, error) {
	buf := make([]byte, AccessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateSessionToken returns a short random token for session-scoped
// state such as the daily catalog shuffle seed.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
