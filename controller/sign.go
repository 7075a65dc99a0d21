// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// The controller authorizes requests with OAuth 1.0a PLAINTEXT
// signatures (RFC 5849). PLAINTEXT carries the token secret directly
// in the signature rather than an HMAC over the request, so signing
// needs no request-body canonicalization — the transport relies on
// TLS for confidentiality.

// authorizationHeader builds the OAuth Authorization header value for
// one request. Each call uses a fresh nonce and the current time.
func authorizationHeader(key APIKey) (string, error) {
	nonce, err := oauthNonce()
	if err != nil {
		return "", err
	}
	return formatAuthorizationHeader(key, nonce, time.Now().Unix()), nil
}

// formatAuthorizationHeader is the deterministic core of
// authorizationHeader, split out so tests can pin the exact header
// bytes for a known nonce and timestamp.
func formatAuthorizationHeader(key APIKey, nonce string, timestamp int64) string {
	// The PLAINTEXT signature is "<consumer_secret>&<token_secret>".
	// The controller issues keys without a consumer secret, so the
	// signature is "&<token_secret>" percent-encoded as a whole.
	signature := "&" + key.TokenSecret

	parameters := []struct {
		name  string
		value string
	}{
		{"oauth_version", "1.0"},
		{"oauth_signature_method", "PLAINTEXT"},
		{"oauth_consumer_key", key.ConsumerKey},
		{"oauth_token", key.TokenKey},
		{"oauth_signature", signature},
		{"oauth_nonce", nonce},
		{"oauth_timestamp", fmt.Sprintf("%d", timestamp)},
	}

	var header strings.Builder
	header.WriteString("OAuth ")
	for index, parameter := range parameters {
		if index > 0 {
			header.WriteString(", ")
		}
		header.WriteString(parameter.name)
		header.WriteString(`="`)
		header.WriteString(oauthEncode(parameter.value))
		header.WriteString(`"`)
	}
	return header.String()
}

// oauthNonce returns 16 random bytes hex-encoded.
func oauthNonce() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("controller: generating nonce: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// oauthEncode percent-encodes a string per RFC 5849 §3.6: everything
// except ALPHA, DIGIT, "-", ".", "_", "~" is encoded, with uppercase
// hex digits. This differs from url.QueryEscape, which emits "+" for
// spaces and leaves several sub-delimiters bare.
func oauthEncode(s string) string {
	var encoded strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			encoded.WriteByte(c)
			continue
		}
		encoded.WriteString(fmt.Sprintf("%%%02X", c))
	}
	return encoded.String()
}
