// Package terminal draws a session on a terminal and turns typed commands into intents.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-link/internal/entity"
	"github.com/rocketscienceinc/tictactoe-link/internal/usecase"
)

const (
	colorX      = "#E06C75"
	colorO      = "#61AFEF"
	colorNotice = "#C678DD"
	colorAlert  = "#E5C07B"
)

type sessionView interface {
	Role() usecase.Role
	GameNumber() string
}

// Renderer implements usecase.Listener.
type Renderer struct {
	mu     sync.Mutex
	out    *termenv.Output
	clear  bool
	player sessionView
}

// NewRenderer writes to w. With clear set the screen is wiped before every board.
func NewRenderer(w io.Writer, clear bool, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{
		out:   termenv.NewOutput(w, opts...),
		clear: clear,
	}
}

// Bind tells the renderer whose session it draws.
func (that *Renderer) Bind(player sessionView) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.player = player
}

func (that *Renderer) OnState(state entity.GameState) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.clear {
		that.out.ClearScreen()
		that.out.MoveCursor(1, 1)
	}

	var b strings.Builder

	b.WriteString(that.out.String("Tic Tac Toe").Bold().String())
	b.WriteString("\n")

	if that.player != nil {
		if number := that.player.GameNumber(); number != "" {
			fmt.Fprintf(&b, "Game #%s\n", number)
		}
		if mark := that.player.Role().Mark(); mark != entity.Empty {
			b.WriteString(that.out.String("You are " + playerName(mark)).Foreground(that.out.Color(colorNotice)).String())
			b.WriteString("\n")
		}
	}

	b.WriteString(statusLine(state))
	b.WriteString("\n\n")
	b.WriteString(that.board(state.Board))
	b.WriteString("\n")

	_, _ = io.WriteString(that.out, b.String())
}

func (that *Renderer) OnEvent(event usecase.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	title, description := describe(event)
	if title == "" {
		return
	}

	style := that.out.String(title).Bold()
	if isWarning(event.Kind) {
		style = style.Foreground(that.out.Color(colorAlert))
	} else {
		style = style.Foreground(that.out.Color(colorNotice))
	}

	_, _ = fmt.Fprintf(that.out, "%s: %s\n", style.String(), description)
}

// Println writes a plain line, e.g. command help.
func (that *Renderer) Println(line string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, _ = fmt.Fprintln(that.out, line)
}

func (that *Renderer) board(board entity.Board) string {
	var b strings.Builder

	for row := range 3 {
		if row > 0 {
			b.WriteString("---+---+---\n")
		}

		for col := range 3 {
			if col > 0 {
				b.WriteString("|")
			}

			cell := row*3 + col
			fmt.Fprintf(&b, " %s ", that.cell(board[cell], cell))
		}

		b.WriteString("\n")
	}

	return b.String()
}

func (that *Renderer) cell(mark entity.Mark, index int) string {
	switch mark {
	case entity.PlayerX:
		return that.out.String("X").Bold().Foreground(that.out.Color(colorX)).String()
	case entity.PlayerO:
		return that.out.String("O").Bold().Foreground(that.out.Color(colorO)).String()
	default:
		// cells are numbered from 1 for people
		return that.out.String(strconv.Itoa(index + 1)).Faint().String()
	}
}

func playerName(mark entity.Mark) string {
	switch mark {
	case entity.PlayerX:
		return "Player 1 (X)"
	case entity.PlayerO:
		return "Player 2 (O)"
	default:
		return "nobody"
	}
}

func statusLine(state entity.GameState) string {
	switch state.Status {
	case entity.StatusWon:
		return "Winner: " + playerName(state.Winner)
	case entity.StatusDraw:
		return "Game Draw!"
	default:
		return "Current Turn: " + playerName(state.CurrentPlayer)
	}
}

func describe(event usecase.Event) (string, string) {
	switch event.Kind {
	case usecase.EventNotYourTurn:
		return "Not your turn", "Please wait for the other player to make their move."
	case usecase.EventNewGame:
		return "New Game", "The board has been reset."
	case usecase.EventNewGameDenied:
		return "Not Allowed", "Only the first player can start a new game."
	case usecase.EventShareDenied:
		return "Not Allowed", "Only the first player can share the game."
	case usecase.EventLinkShared:
		return "Share this link with your opponent", event.Link
	case usecase.EventGameWon:
		return "Game Over", playerName(event.Winner) + " wins!"
	case usecase.EventGameDraw:
		return "Game Over", "It's a draw!"
	default:
		return "", ""
	}
}

func isWarning(kind usecase.EventKind) bool {
	return kind == usecase.EventNotYourTurn ||
		kind == usecase.EventNewGameDenied ||
		kind == usecase.EventShareDenied
}
