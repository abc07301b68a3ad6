package supply

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

func TestValidateTokenRejectsEmpty(t *testing.T) {
	err := validateToken("stage", "")
	require.Error(t, err)
	require.Equal(t, errorkind.NotFound, cperr.KindOf(err))
}

func TestValidateTokenRejectsNulByte(t *testing.T) {
	err := validateToken("environment", "dev\x00prod")
	require.Error(t, err)
	require.Equal(t, errorkind.NotFound, cperr.KindOf(err))
}

func TestValidateTokenRejectsUpwardTraversal(t *testing.T) {
	err := validateToken("component", "../secrets")
	require.Error(t, err)
	require.Equal(t, errorkind.NotFound, cperr.KindOf(err))
}

func TestValidateTokenRejectsForwardSlash(t *testing.T) {
	err := validateToken("component", "nested/component")
	require.Error(t, err)
	require.Equal(t, errorkind.NotFound, cperr.KindOf(err))
}

func TestValidateTokenRejectsBackslash(t *testing.T) {
	err := validateToken("component", `nested\component`)
	require.Error(t, err)
	require.Equal(t, errorkind.NotFound, cperr.KindOf(err))
}

func TestValidateTokenAcceptsOpaqueLabel(t *testing.T) {
	require.NoError(t, validateToken("stage", "production"))
}
