package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini("", "gemini-1.5-flash")
	require.Error(t, err)
}

func TestNewGeminiBuildsClientOnce(t *testing.T) {
	g, err := NewGemini("test-key", "")
	require.NoError(t, err)
	require.NotNil(t, g.client)
	assert.Equal(t, defaultGeminiModel, g.model)
	assert.True(t, g.Available())
	assert.NoError(t, g.Close())
}
