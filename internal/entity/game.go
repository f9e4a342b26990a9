package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-link/internal/apperror"
)

const BoardSize = 9

// WinCombos are scanned in this order; the first complete one decides the winner.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is row-major: 0,1,2 is the top row and 0,3,6 the left column.
type Board [BoardSize]Mark

// GameState is a value. Moves return a new GameState and leave the receiver as it was.
type GameState struct {
	Board         Board
	CurrentPlayer Mark
	Status        Status
	Winner        Mark
}

func InitialState() GameState {
	return GameState{
		CurrentPlayer: PlayerX,
		Status:        StatusPlaying,
		Winner:        Empty,
	}
}

// ApplyMove places the current player's mark on cell.
//
// The caller is expected to check the preconditions first (cell in range and
// empty, game still playing). When one of them does not hold, ApplyMove
// returns the input state untouched together with the matching error.
func ApplyMove(state GameState, cell int) (GameState, error) {
	if cell < 0 || cell >= BoardSize {
		return state, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if state.Status != StatusPlaying {
		return state, apperror.ErrGameFinished
	}

	if state.Board[cell] != Empty {
		return state, apperror.ErrCellOccupied
	}

	next := state
	next.Board[cell] = state.CurrentPlayer

	switch winner := CheckWinner(next.Board); {
	case winner != Empty:
		next.Status = StatusWon
		next.Winner = winner
	case IsFull(next.Board):
		next.Status = StatusDraw
		next.Winner = Empty
	default:
		next.Status = StatusPlaying
		next.Winner = Empty
	}

	// the turn passes even when the move ended the game
	next.CurrentPlayer = state.CurrentPlayer.Opponent()

	return next, nil
}

func IsTerminal(state GameState) bool {
	return state.Status != StatusPlaying
}

// CheckWinner returns the mark of the first complete triple in WinCombos order.
func CheckWinner(board Board) Mark {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func IsFull(board Board) bool {
	for _, cell := range board {
		if cell == Empty {
			return false
		}
	}

	return true
}

// IsConsistent reports whether status and winner agree with the board.
func (that GameState) IsConsistent() bool {
	if that.CurrentPlayer != PlayerX && that.CurrentPlayer != PlayerO {
		return false
	}

	winner := CheckWinner(that.Board)

	switch that.Status {
	case StatusWon:
		return that.Winner != Empty && that.Winner == winner
	case StatusDraw:
		return that.Winner == Empty && winner == Empty && IsFull(that.Board)
	case StatusPlaying:
		return that.Winner == Empty && winner == Empty && !IsFull(that.Board)
	default:
		return false
	}
}

func (that GameState) IsMyTurn(mark Mark) bool {
	return that.CurrentPlayer == mark
}
