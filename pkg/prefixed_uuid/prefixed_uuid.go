// Package prefixed_uuid builds identifiers shaped like the voice platform's
// request and session IDs: a dotted prefix followed by a UUID.
package prefixed_uuid //nolint:revive // var-naming: matches the directory name

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefixes used by the voice platform.
const (
	RequestPrefix     = "amzn1.echo-api.request"
	SessionPrefix     = "amzn1.echo-api.session"
	ApplicationPrefix = "amzn1.ask.skill"
	UserPrefix        = "amzn1.ask.account"
)

// PrefixedUUID represents a UUID with a prefix string.
type PrefixedUUID struct {
	Prefix string
	UUID   uuid.UUID
}

// New creates a new PrefixedUUID with the given prefix and a generated UUID.
func New(prefix string) PrefixedUUID {
	return PrefixedUUID{Prefix: prefix, UUID: uuid.New()}
}

// Parse splits s at its last dot into prefix and UUID.
func Parse(s string) (PrefixedUUID, error) {
	idx := strings.LastIndex(s, ".")
	if idx <= 0 {
		return PrefixedUUID{}, fmt.Errorf("invalid prefixed UUID format: %s", s)
	}

	id, err := uuid.Parse(s[idx+1:])
	if err != nil {
		return PrefixedUUID{}, fmt.Errorf("invalid UUID: %w", err)
	}
	return PrefixedUUID{Prefix: s[:idx], UUID: id}, nil
}

// String returns the identifier in the form "prefix.uuid".
func (p PrefixedUUID) String() string {
	return p.Prefix + "." + p.UUID.String()
}

// IsZero reports whether p is the zero value.
func (p PrefixedUUID) IsZero() bool {
	return p.Prefix == "" && p.UUID == uuid.Nil
}
