// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"fmt"
	"strings"
)

// APIKey is the durable credential material issued by the controller's
// token endpoint: an OAuth consumer key, token key, and token secret.
// The string form "consumer:token:secret" is what profiles persist.
type APIKey struct {
	ConsumerKey string
	TokenKey    string
	TokenSecret string
}

// ParseAPIKey parses the "consumer:token:secret" string form.
func ParseAPIKey(s string) (APIKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return APIKey{}, fmt.Errorf("controller: malformed API key (want consumer:token:secret)")
	}
	return APIKey{
		ConsumerKey: parts[0],
		TokenKey:    parts[1],
		TokenSecret: parts[2],
	}, nil
}

// String returns the persistable "consumer:token:secret" form. The
// result contains secret material — never log it.
func (k APIKey) String() string {
	return k.ConsumerKey + ":" + k.TokenKey + ":" + k.TokenSecret
}

// IsZero reports whether the key is unset.
func (k APIKey) IsZero() bool {
	return k.ConsumerKey == "" && k.TokenKey == "" && k.TokenSecret == ""
}
