// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random, URL-safe token
// carrying byteLength bytes of entropy.
//
// The encoded string is longer than byteLength (base64 expansion) but the
// entropy is exactly byteLength bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashToken returns the SHA-256 hex digest of an opaque token.
//
// Only digests are stored server-side: a database leak never exposes a token
// value that could still be redeemed.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
