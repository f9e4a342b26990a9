package querystring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-link/internal/link"
)

func newTransport(t *testing.T, raw string) *Transport {
	t.Helper()

	l, err := link.Parse(raw)
	require.NoError(t, err)

	return New(l)
}

func currentLink(tr *Transport) string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	return tr.current.String()
}

func TestTransport_ReadPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty address bar", func(t *testing.T) {
		tr := newTransport(t, "http://localhost:8080/")

		game, err := tr.Read(ctx)

		require.NoError(t, err)
		assert.Empty(t, game)
	})

	t.Run("Publish keeps the game number", func(t *testing.T) {
		// Given: a link with a game number
		tr := newTransport(t, "http://localhost:8080/?game=old&gameNumber=AB12")

		// When: a new state is published
		require.NoError(t, tr.Publish(ctx, "new"))

		// Then: the state is replaced and the number kept
		game, err := tr.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", game)
		assert.Equal(t, "http://localhost:8080/?game=new&gameNumber=AB12", currentLink(tr))
	})

	t.Run("Publish on a link without a game number", func(t *testing.T) {
		tr := newTransport(t, "http://localhost:8080/")

		require.NoError(t, tr.Publish(ctx, "fresh"))

		assert.Equal(t, "http://localhost:8080/?game=fresh", currentLink(tr))
	})
}

func TestTransport_Paste(t *testing.T) {
	ctx := context.Background()

	t.Run("Pasted link replaces the state on the local base", func(t *testing.T) {
		// Given: our own address bar
		tr := newTransport(t, "http://localhost:8080/?game=mine&gameNumber=AB12")

		// When: the opponent's link is pasted
		require.NoError(t, tr.Paste("https://example.org/x?game=theirs&gameNumber=AB12"))

		// Then: the next read sees their state
		game, err := tr.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "theirs", game)
		assert.Equal(t, "http://localhost:8080/?game=theirs&gameNumber=AB12", currentLink(tr))
	})

	t.Run("Pasted link with a bad game number keeps ours", func(t *testing.T) {
		// Given: our own address bar
		tr := newTransport(t, "http://localhost:8080/?game=mine&gameNumber=AB12")

		// When: a link with a made-up game number is pasted
		require.NoError(t, tr.Paste("game=theirs&gameNumber=not-a-number"))

		// Then: their state is taken and our game number kept
		assert.Equal(t, "http://localhost:8080/?game=theirs&gameNumber=AB12", currentLink(tr))
	})

	t.Run("Broken link is rejected", func(t *testing.T) {
		tr := newTransport(t, "http://localhost:8080/?game=mine")

		require.Error(t, tr.Paste("http://[::1"))

		game, err := tr.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "mine", game)
	})
}
