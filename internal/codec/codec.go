// Package codec turns a game state into the opaque value carried by the
// "game" link parameter and back.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-link/internal/entity"
)

var ErrMalformedState = errors.New("malformed game state")

var encoding = base64.RawURLEncoding

// wireState mirrors the JSON shape the web client used, so empty cells and
// "no winner" travel as null.
type wireState struct {
	Board         []*string `json:"board"`
	CurrentPlayer string    `json:"currentPlayer"`
	Status        string    `json:"status"`
	Winner        *string   `json:"winner"`
}

// Encode is total and deterministic. The result only uses the URL-safe
// base64 alphabet and can be put in a query parameter as is.
func Encode(state entity.GameState) string {
	wire := wireState{
		Board:         make([]*string, len(state.Board)),
		CurrentPlayer: state.CurrentPlayer.String(),
		Status:        state.Status.String(),
		Winner:        markPtr(state.Winner),
	}

	for i, cell := range state.Board {
		wire.Board[i] = markPtr(cell)
	}

	// marshalling a struct of strings cannot fail
	raw, _ := json.Marshal(wire) //nolint:errchkjson

	return encoding.EncodeToString(raw)
}

// Decode inverts Encode. Anything Encode could not have produced yields the
// initial state together with ErrMalformedState, so callers that only need a
// usable value may ignore the error.
func Decode(encoded string) (entity.GameState, error) {
	state, err := decode(encoded)
	if err != nil {
		return entity.InitialState(), fmt.Errorf("%w: %w", ErrMalformedState, err)
	}

	return state, nil
}

func decode(encoded string) (entity.GameState, error) {
	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		// links produced by the web client use padded standard base64
		var stdErr error
		if raw, stdErr = base64.StdEncoding.DecodeString(encoded); stdErr != nil {
			return entity.GameState{}, fmt.Errorf("failed to decode base64: %w", err)
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var wire wireState
	if err = decoder.Decode(&wire); err != nil {
		return entity.GameState{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	// only whitespace may follow the object
	var extra json.RawMessage
	if err = decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return entity.GameState{}, errors.New("trailing data after state")
	}

	return wire.toState()
}

func (that *wireState) toState() (entity.GameState, error) {
	var state entity.GameState

	if len(that.Board) != entity.BoardSize {
		return state, fmt.Errorf("board has %d cells", len(that.Board))
	}

	for i, cell := range that.Board {
		if cell == nil {
			continue
		}

		mark, ok := entity.ParseMark(*cell)
		if !ok {
			return state, fmt.Errorf("unknown mark %q in cell %d", *cell, i)
		}

		state.Board[i] = mark
	}

	currentPlayer, ok := entity.ParseMark(that.CurrentPlayer)
	if !ok {
		return state, fmt.Errorf("unknown current player %q", that.CurrentPlayer)
	}
	state.CurrentPlayer = currentPlayer

	status, ok := entity.ParseStatus(that.Status)
	if !ok {
		return state, fmt.Errorf("unknown status %q", that.Status)
	}
	state.Status = status

	if that.Winner != nil {
		winner, ok := entity.ParseMark(*that.Winner)
		if !ok {
			return state, fmt.Errorf("unknown winner %q", *that.Winner)
		}
		state.Winner = winner
	}

	if !state.IsConsistent() {
		return state, errors.New("status does not match the board")
	}

	return state, nil
}

func markPtr(mark entity.Mark) *string {
	if mark == entity.Empty {
		return nil
	}

	s := mark.String()

	return &s
}
