package prefixed_uuid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New(RequestPrefix)
	assert.Equal(t, RequestPrefix, id.Prefix)
	assert.NotEqual(t, uuid.Nil, id.UUID)
	assert.True(t, strings.HasPrefix(id.String(), "amzn1.echo-api.request."))
	assert.False(t, id.IsZero())
	assert.True(t, PrefixedUUID{}.IsZero())
}

func TestParse(t *testing.T) {
	original := New(SessionPrefix)

	parsed, err := Parse(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	for _, bad := range []string{"", "no-dot", ".", "amzn1.ask.skill.not-a-uuid", ".123e4567-e89b-12d3-a456-426614174000"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}
