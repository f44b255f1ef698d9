package gid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionIDRoundTrip(t *testing.T) {
	id := GenerateConnectionID()

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	var dst ConnectionID
	require.NoError(t, ParseIDAs(id.String(), &dst))
	assert.Equal(t, id, dst)
}

func TestParseIDUnknownTag(t *testing.T) {
	_, err := ParseID("xxx_0000000000000000000000")
	assert.Error(t, err)
}
