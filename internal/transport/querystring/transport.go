// Package querystring keeps the game link in memory, the way a browser
// address bar holds it. Opponent links are pasted in by hand.
package querystring

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-link/internal/link"
	"github.com/rocketscienceinc/tictactoe-link/internal/pkg"
)

type Transport struct {
	mu      sync.RWMutex
	current link.Link
}

func New(initial link.Link) *Transport {
	return &Transport{current: initial}
}

func (that *Transport) Read(_ context.Context) (string, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.current.Game(), nil
}

// Publish replaces the game parameter and keeps the game number.
func (that *Transport) Publish(_ context.Context, game string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.current = that.current.With(game, that.current.GameNumber())

	return nil
}

// Paste replaces the whole link, as when the user opens a link the opponent sent.
func (that *Transport) Paste(raw string) error {
	pasted, err := link.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse pasted link: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// a link without a usable game number keeps ours
	gameNumber := pasted.GameNumber()
	if !pkg.IsGameID(gameNumber) {
		gameNumber = that.current.GameNumber()
	}
	that.current = that.current.With(pasted.Game(), gameNumber)

	return nil
}
