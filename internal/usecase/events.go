package usecase

import "github.com/rocketscienceinc/tictactoe-link/internal/entity"

type EventKind uint8

const (
	EventNotYourTurn EventKind = iota + 1
	EventNewGame
	EventNewGameDenied
	EventShareDenied
	EventLinkShared
	EventGameWon
	EventGameDraw
)

// Event is an advisory notification. None of them is fatal.
type Event struct {
	Kind   EventKind
	Winner entity.Mark
	Link   string
}

// Listener is the rendering side of a session.
type Listener interface {
	// OnState is called after every accepted change of the game state.
	OnState(state entity.GameState)
	OnEvent(event Event)
}

type noopListener struct{}

func (noopListener) OnState(entity.GameState) {}
func (noopListener) OnEvent(Event)            {}

type IntentKind uint8

const (
	IntentMove IntentKind = iota + 1
	IntentNewGame
	IntentShare
	// IntentRefresh asks for an immediate poll, e.g. after a link was pasted.
	IntentRefresh
)

func (that IntentKind) String() string {
	switch that {
	case IntentMove:
		return "move"
	case IntentNewGame:
		return "new game"
	case IntentShare:
		return "share"
	case IntentRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

type Intent struct {
	Kind IntentKind
	Cell int
}

func MoveIntent(cell int) Intent {
	return Intent{Kind: IntentMove, Cell: cell}
}
