package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-link/internal/config"
	"github.com/rocketscienceinc/tictactoe-link/internal/link"
	"github.com/rocketscienceinc/tictactoe-link/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-link/internal/repository"
	"github.com/rocketscienceinc/tictactoe-link/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-link/internal/transport/querystring"
	redistransport "github.com/rocketscienceinc/tictactoe-link/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-link/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-link/transport/terminal"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// Terminal is where the game is played.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// RunApp - runs one player's session. rawLink is the link received from the
// opponent and may be empty to start a new game.
func RunApp(logger *slog.Logger, conf *config.Config, rawLink string, term Terminal) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	received, err := link.Parse(rawLink)
	if err != nil {
		return fmt.Errorf("could not read game link: %w", err)
	}

	gameNumber := received.GameNumber()
	if !pkg.IsGameID(gameNumber) {
		if gameNumber != "" {
			log.Warn("ignoring malformed game number from link", "gameNumber", gameNumber)
		}
		gameNumber = pkg.GenerateGameID()
	}

	base, err := link.New(conf.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}

	renderer := terminal.NewRenderer(term.Out, conf.ClearScreen)

	var (
		transport usecase.Transport
		paste     func(string) error
	)

	switch conf.Transport {
	case config.TransportRedis:
		if conf.Redis.Host == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		gameRepo := repository.NewGameRepository(redisStorage, conf.Redis.KeyTTL)
		transport = redistransport.New(gameRepo, gameNumber)

	default:
		addressBar := querystring.New(base.With(received.Game(), gameNumber))
		transport = addressBar
		paste = addressBar.Paste
	}

	session := usecase.NewSession(logger, transport, renderer, usecase.Options{
		PollInterval: conf.PollInterval,
		GameNumber:   gameNumber,
		BaseLink:     base,
	})
	renderer.Bind(session)

	intents := make(chan usecase.Intent)
	input := terminal.NewInput(renderer, paste)

	// the input reader blocks on the terminal and cannot be interrupted, so it
	// is not waited for; quitting cancels everything else
	inputDone := make(chan error, 1)
	go func() {
		inputDone <- input.Run(ctx, term.In, intents)
	}()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := session.Run(groupCtx, intents); err != nil {
			return fmt.Errorf("session failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		select {
		case err := <-inputDone:
			log.Info("Input closed, shutting down")
			cancel()
			return err
		case <-groupCtx.Done():
			return nil
		}
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
