package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier such as TKT-1A2B3C4D.
func NewID(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
