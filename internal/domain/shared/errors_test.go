package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	sentinel := NewDomainError("NOT_READY", "Not ready")
	specialized := sentinel.WithMessage("Workspace 42 is not ready")

	assert.Equal(t, "Workspace 42 is not ready", specialized.Error())
	assert.ErrorIs(t, specialized, sentinel)
	assert.ErrorIs(t, fmt.Errorf("generate: %w", specialized), sentinel)
	assert.NotErrorIs(t, NewDomainError("OTHER", "Not ready"), sentinel)
	assert.Equal(t, "Not ready", sentinel.Message)
}

func TestAsDomainError(t *testing.T) {
	de, ok := AsDomainError(fmt.Errorf("wrapped: %w", NewDomainError("BAD", "Bad input")))
	require.True(t, ok)
	assert.Equal(t, "BAD", de.Code)

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}
