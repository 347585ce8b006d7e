// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// NewVoterToken mints an opaque voter credential. Tokens are random
// UUIDv4s rendered as 32 hex characters: globally unique for any realistic
// voter population and carrying no structure a client could rely on.
func NewVoterToken() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// ValidateAdminKey checks the presented admin key against the configured
// one in constant time.
func ValidateAdminKey(presented, configured string) error {
	if configured == "" {
		// No configured key means no admin access.
		return ErrInvalidAdminKey
	}
	if !hmac.Equal([]byte(presented), []byte(configured)) {
		return ErrInvalidAdminKey
	}
	return nil
}
