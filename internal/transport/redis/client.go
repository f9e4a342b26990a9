// Package redis shares the game link between two processes through a redis
// key named after the game number.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-link/internal/repository"
)

type gameRepo interface {
	Save(ctx context.Context, gameNumber, encoded string) error
	GetByNumber(ctx context.Context, gameNumber string) (string, error)
	Subscribe(ctx context.Context, gameNumber string) (<-chan string, error)
}

type Client struct {
	gameRepo   gameRepo
	gameNumber string
}

func New(gameRepo gameRepo, gameNumber string) *Client {
	return &Client{
		gameRepo:   gameRepo,
		gameNumber: gameNumber,
	}
}

// Read returns the shared state, or an empty string when nobody published yet.
func (that *Client) Read(ctx context.Context) (string, error) {
	encoded, err := that.gameRepo.GetByNumber(ctx, that.gameNumber)
	if errors.Is(err, repository.ErrGameNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to read game %s: %w", that.gameNumber, err)
	}

	return encoded, nil
}

func (that *Client) Publish(ctx context.Context, game string) error {
	if err := that.gameRepo.Save(ctx, that.gameNumber, game); err != nil {
		return fmt.Errorf("failed to publish game %s: %w", that.gameNumber, err)
	}

	return nil
}

// Watch turns published updates into poll hints. At most one hint is pending
// at a time; the session reads the state itself, so coalescing loses nothing.
func (that *Client) Watch(ctx context.Context) (<-chan struct{}, error) {
	updates, err := that.gameRepo.Subscribe(ctx, that.gameNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to watch game %s: %w", that.gameNumber, err)
	}

	hints := make(chan struct{}, 1)

	go func() {
		defer close(hints)

		for range updates {
			select {
			case hints <- struct{}{}:
			default:
			}
		}
	}()

	return hints, nil
}
