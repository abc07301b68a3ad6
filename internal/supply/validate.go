package supply

import (
	"strings"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

// validateToken rejects stage/environment/component values that traverse
// upward, contain NUL, or contain a path separator — a Stage, Environment,
// or Component is an opaque label, never a path fragment with structure.
func validateToken(field, value string) error {
	if value == "" {
		return cperr.New(errorkind.NotFound, field+" must not be empty")
	}
	if strings.ContainsRune(value, 0) {
		return cperr.New(errorkind.NotFound, field+" must not contain a NUL byte")
	}
	if strings.Contains(value, "..") {
		return cperr.New(errorkind.NotFound, field+" must not traverse upward")
	}
	if strings.ContainsAny(value, "/\\") {
		return cperr.New(errorkind.NotFound, field+" must not contain a path separator")
	}
	return nil
}
