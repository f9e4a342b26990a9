package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Full link", func(t *testing.T) {
		// When: parsing a link sent by the opponent
		l, err := Parse("http://localhost:8080/?game=eyJib2FyZCI6W10&gameNumber=AB12")

		// Then: both parameters are available
		require.NoError(t, err)
		assert.Equal(t, "eyJib2FyZCI6W10", l.Game())
		assert.Equal(t, "AB12", l.GameNumber())
	})

	t.Run("Bare query string", func(t *testing.T) {
		l, err := Parse("game=abc&gameNumber=ZZ99")

		require.NoError(t, err)
		assert.Equal(t, "abc", l.Game())
		assert.Equal(t, "ZZ99", l.GameNumber())
	})

	t.Run("Link without parameters", func(t *testing.T) {
		l, err := Parse("http://localhost:8080/")

		require.NoError(t, err)
		assert.Empty(t, l.Game())
		assert.Empty(t, l.GameNumber())
	})

	t.Run("Broken link", func(t *testing.T) {
		_, err := Parse("http://[::1")

		require.ErrorIs(t, err, ErrInvalidLink)
	})
}

func TestLink_With(t *testing.T) {
	// Given: a base link
	base, err := New("http://localhost:8080/play")
	require.NoError(t, err)

	// When: attaching a state and a game number
	l := base.With("abc-_", "AB12")

	// Then: the link carries both and parses back
	assert.Equal(t, "http://localhost:8080/play?game=abc-_&gameNumber=AB12", l.String())

	parsed, err := Parse(l.String())
	require.NoError(t, err)
	assert.Equal(t, "abc-_", parsed.Game())
	assert.Equal(t, "AB12", parsed.GameNumber())

	// And: the base is left alone
	assert.Equal(t, "http://localhost:8080/play", base.String())
}
