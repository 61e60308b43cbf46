package typeid

import (
	"fmt"

	"github.com/google/uuid"
	"go.jetify.com/typeid/v2"
)

const (
	PrefixSession = "drag"
	PrefixClient  = "client"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewSessionID() string { return New(PrefixSession) }

// NewClientID returns a random uuid. Clients are short-lived connections, so
// their ids only need to be unique, not sortable.
func NewClientID() string { return PrefixClient + "_" + uuid.NewString() }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
