package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-link/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-link/internal/codec"
	"github.com/rocketscienceinc/tictactoe-link/internal/entity"
	"github.com/rocketscienceinc/tictactoe-link/internal/link"
	"github.com/rocketscienceinc/tictactoe-link/internal/pkg"
)

const DefaultPollInterval = time.Second

var ErrNotStarted = errors.New("session is not started")

// Transport carries the encoded game between the two players.
// An empty string from Read means nothing was published yet.
type Transport interface {
	Read(ctx context.Context) (string, error)
	Publish(ctx context.Context, game string) error
}

// Watcher is implemented by transports that can announce changes. Hints only
// trigger an early poll; the reconciliation rules stay the same.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

type Role uint8

const (
	FirstMover Role = iota + 1
	SecondMover
)

func (that Role) Mark() entity.Mark {
	switch that {
	case FirstMover:
		return entity.PlayerX
	case SecondMover:
		return entity.PlayerO
	default:
		return entity.Empty
	}
}

func (that Role) String() string {
	switch that {
	case FirstMover:
		return "first mover"
	case SecondMover:
		return "second mover"
	default:
		return "unassigned"
	}
}

type Options struct {
	PollInterval time.Duration
	GameNumber   string
	// BaseLink is the link the share link is built on.
	BaseLink link.Link
}

// Session is one player's view of a shared game. It is not safe for
// concurrent use: Run serialises intents, poll ticks and push hints in a
// single goroutine, and the methods may be called directly only when Run is
// not running.
type Session struct {
	logger    *slog.Logger
	transport Transport
	listener  Listener

	pollInterval time.Duration
	baseLink     link.Link
	gameNumber   string

	active bool
	role   Role
	state  entity.GameState

	// lastKnown is the transport value this session last published or
	// absorbed. Polls that read it again are no-ops.
	lastKnown string
	// lastRejected avoids logging the same malformed value on every tick.
	lastRejected string
}

func NewSession(logger *slog.Logger, transport Transport, listener Listener, opts Options) *Session {
	if listener == nil {
		listener = noopListener{}
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &Session{
		logger: logger.With(
			"component", "session",
			"session", pkg.GenerateNewSessionID(),
			"gameNumber", opts.GameNumber,
		),
		transport:    transport,
		listener:     listener,
		pollInterval: opts.PollInterval,
		baseLink:     opts.BaseLink,
		gameNumber:   opts.GameNumber,
		state:        entity.InitialState(),
	}
}

// Start assigns the role. A state found on the transport is joined as the
// second mover; a missing or malformed one starts a new game as the first mover.
func (that *Session) Start(ctx context.Context) error {
	log := that.logger.With("method", "Start")

	if that.active {
		return nil
	}

	raw, err := that.transport.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read transport: %w", err)
	}

	if raw != "" {
		state, decodeErr := codec.Decode(raw)
		if decodeErr == nil {
			that.role = SecondMover
			that.active = true
			that.adopt(state, raw)

			log.Info("joined game", "role", that.role.String())

			return nil
		}

		log.Warn("transport holds a malformed game, starting a new one", "error", decodeErr)
	}

	state := entity.InitialState()
	encoded := codec.Encode(state)
	if err = that.transport.Publish(ctx, encoded); err != nil {
		return fmt.Errorf("failed to publish new game: %w", err)
	}

	that.role = FirstMover
	that.active = true
	that.adopt(state, encoded)

	log.Info("started new game", "role", that.role.String())

	return nil
}

// RequestMove plays cell for this session's mark.
//
// A move out of turn returns apperror.ErrNotYourTurn and emits EventNotYourTurn.
// An invalid cell, an occupied cell or a finished game return the engine's
// error without any notification. In every rejected case the state is unchanged.
func (that *Session) RequestMove(ctx context.Context, cell int) error {
	log := that.logger.With("method", "RequestMove", "cell", cell)

	if !that.active {
		return ErrNotStarted
	}

	if !that.state.IsMyTurn(that.role.Mark()) {
		that.listener.OnEvent(Event{Kind: EventNotYourTurn})
		return apperror.ErrNotYourTurn
	}

	next, err := entity.ApplyMove(that.state, cell)
	if err != nil {
		log.Debug("move rejected", "error", err)
		return fmt.Errorf("move rejected: %w", err)
	}

	encoded := codec.Encode(next)
	if err = that.transport.Publish(ctx, encoded); err != nil {
		return fmt.Errorf("failed to publish move: %w", err)
	}

	that.adopt(next, encoded)

	log.Debug("move played", "mark", that.role.Mark().String(), "status", next.Status.String())

	return nil
}

// NewGame resets the board. Only the first mover may do it.
func (that *Session) NewGame(ctx context.Context) error {
	log := that.logger.With("method", "NewGame")

	if !that.active {
		return ErrNotStarted
	}

	if that.role != FirstMover {
		that.listener.OnEvent(Event{Kind: EventNewGameDenied})
		return fmt.Errorf("%w: new game", apperror.ErrNotAllowed)
	}

	state := entity.InitialState()
	encoded := codec.Encode(state)
	if err := that.transport.Publish(ctx, encoded); err != nil {
		return fmt.Errorf("failed to publish new game: %w", err)
	}

	that.adopt(state, encoded)
	that.listener.OnEvent(Event{Kind: EventNewGame})

	log.Info("new game started")

	return nil
}

// ShareLink returns the link to send to the opponent. Only the first mover may share.
func (that *Session) ShareLink() (string, error) {
	if !that.active {
		return "", ErrNotStarted
	}

	if that.role != FirstMover {
		that.listener.OnEvent(Event{Kind: EventShareDenied})
		return "", fmt.Errorf("%w: share", apperror.ErrNotAllowed)
	}

	shared := that.baseLink.With(that.lastKnown, that.gameNumber).String()
	that.listener.OnEvent(Event{Kind: EventLinkShared, Link: shared})

	return shared, nil
}

// Poll absorbs a state published by the other player. The session's own
// publishes and malformed values are ignored.
func (that *Session) Poll(ctx context.Context) error {
	log := that.logger.With("method", "Poll")

	if !that.active {
		return ErrNotStarted
	}

	raw, err := that.transport.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read transport: %w", err)
	}

	if raw == that.lastKnown {
		return nil
	}

	state, err := codec.Decode(raw)
	if err != nil {
		if raw != that.lastRejected {
			that.lastRejected = raw
			log.Warn("ignoring malformed game on transport", "error", err)
		}

		return nil
	}

	restarted := state == entity.InitialState() && that.state != entity.InitialState()

	that.adopt(state, raw)
	if restarted {
		that.listener.OnEvent(Event{Kind: EventNewGame})
	}

	log.Debug("absorbed remote state", "status", state.Status.String())

	return nil
}

// Run starts the session if needed and then serves intents, poll ticks and
// push hints until ctx is done. The poll ticker never outlives Run.
func (that *Session) Run(ctx context.Context, intents <-chan Intent) error {
	log := that.logger.With("method", "Run")

	if err := that.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(that.pollInterval)
	defer ticker.Stop()

	hints := that.watch(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("session stopped")
			return nil

		case <-ticker.C:
			that.poll(ctx)

		case _, ok := <-hints:
			if !ok {
				hints = nil
				continue
			}
			that.poll(ctx)

		case intent, ok := <-intents:
			if !ok {
				intents = nil
				continue
			}
			that.handle(ctx, intent)
		}
	}
}

func (that *Session) watch(ctx context.Context) <-chan struct{} {
	watcher, ok := that.transport.(Watcher)
	if !ok {
		return nil
	}

	hints, err := watcher.Watch(ctx)
	if err != nil {
		that.logger.Warn("push updates unavailable, polling only", "error", err)
		return nil
	}

	return hints
}

func (that *Session) poll(ctx context.Context) {
	if err := that.Poll(ctx); err != nil {
		that.logger.Warn("poll failed", "error", err)
	}
}

func (that *Session) handle(ctx context.Context, intent Intent) {
	log := that.logger.With("method", "handle", "intent", intent.Kind.String())

	var err error

	switch intent.Kind {
	case IntentMove:
		err = that.RequestMove(ctx, intent.Cell)
	case IntentNewGame:
		err = that.NewGame(ctx)
	case IntentShare:
		_, err = that.ShareLink()
	case IntentRefresh:
		err = that.Poll(ctx)
	default:
		err = fmt.Errorf("unknown intent %d", intent.Kind)
	}

	switch {
	case err == nil:
	case isAdvisory(err):
		log.Debug("intent rejected", "error", err)
	default:
		log.Error("intent failed", "error", err)
	}
}

func isAdvisory(err error) bool {
	return errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrInvalidCell) ||
		errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, apperror.ErrNotAllowed)
}

// adopt makes state current and tells the listener, including the outcome
// when the game has just ended.
func (that *Session) adopt(state entity.GameState, encoded string) {
	wasPlaying := !entity.IsTerminal(that.state)

	that.state = state
	that.lastKnown = encoded
	that.lastRejected = ""

	that.listener.OnState(state)

	if !wasPlaying {
		return
	}

	switch state.Status {
	case entity.StatusWon:
		that.listener.OnEvent(Event{Kind: EventGameWon, Winner: state.Winner})
	case entity.StatusDraw:
		that.listener.OnEvent(Event{Kind: EventGameDraw})
	case entity.StatusPlaying:
	}
}

func (that *Session) State() entity.GameState {
	return that.state
}

func (that *Session) Role() Role {
	return that.role
}

func (that *Session) GameNumber() string {
	return that.gameNumber
}

func (that *Session) IsActive() bool {
	return that.active
}

// LastKnown returns the transport value the session last published or absorbed.
func (that *Session) LastKnown() string {
	return that.lastKnown
}
