package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrGameNotFound = errors.New("game not found")

// GameRepository stores the encoded state of a shared game under its game number.
type GameRepository interface {
	Save(ctx context.Context, gameNumber, encoded string) error
	GetByNumber(ctx context.Context, gameNumber string) (string, error)
	Subscribe(ctx context.Context, gameNumber string) (<-chan string, error)
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository - ttl of zero keeps games forever.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func gameKey(gameNumber string) string {
	return "game:" + gameNumber
}

func updatesChannel(gameNumber string) string {
	return "game:" + gameNumber + ":updates"
}

// Save writes the state and announces it on the game's updates channel.
func (that *dbGame) Save(ctx context.Context, gameNumber, encoded string) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(gameNumber), encoded, that.ttl)
		pipe.Publish(ctx, updatesChannel(gameNumber), encoded)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByNumber(ctx context.Context, gameNumber string) (string, error) {
	response, err := that.client.Get(ctx, gameKey(gameNumber)).Result()

	if errors.Is(err, redis.Nil) {
		return "", ErrGameNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get game by number: %w", err)
	}

	return response, nil
}

// Subscribe delivers every state saved for gameNumber until ctx is done.
// The returned channel is closed when the subscription ends.
func (that *dbGame) Subscribe(ctx context.Context, gameNumber string) (<-chan string, error) {
	sub := that.client.Subscribe(ctx, updatesChannel(gameNumber))

	// wait for the confirmation so no update published after return is lost
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to game updates: %w", err)
	}

	updates := make(chan string)

	go func() {
		defer close(updates)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				select {
				case updates <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}
