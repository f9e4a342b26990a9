package codec

import (
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-link/internal/entity"
)

const encodedInitial = "eyJib2FyZCI6W251bGwsbnVsbCxudWxsLG51bGwsbnVsbCxudWxsLG51bGwsbnVsbCxudWxsXSwiY3VycmVudFBsYXllciI6IlgiLCJzdGF0dXMiOiJwbGF5aW5nIiwid2lubmVyIjpudWxsfQ"

// reachableStates walks every position reachable from the initial state.
func reachableStates(t *testing.T) []entity.GameState {
	t.Helper()

	seen := map[entity.GameState]struct{}{}
	queue := []entity.GameState{entity.InitialState()}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		if _, ok := seen[state]; ok {
			continue
		}
		seen[state] = struct{}{}

		if entity.IsTerminal(state) {
			continue
		}

		for cell := range entity.BoardSize {
			next, err := entity.ApplyMove(state, cell)
			if err == nil {
				queue = append(queue, next)
			}
		}
	}

	states := make([]entity.GameState, 0, len(seen))
	for state := range seen {
		states = append(states, state)
	}

	return states
}

func TestEncode(t *testing.T) {
	t.Run("Initial state", func(t *testing.T) {
		// When: encoding the initial state
		encoded := Encode(entity.InitialState())

		// Then: it matches the JSON shape of the web client
		require.Equal(t, encodedInitial, encoded)
	})

	t.Run("Deterministic", func(t *testing.T) {
		state, err := entity.ApplyMove(entity.InitialState(), 4)
		require.NoError(t, err)

		require.Equal(t, Encode(state), Encode(state))
	})

	t.Run("Safe as a query parameter", func(t *testing.T) {
		for _, state := range reachableStates(t) {
			encoded := Encode(state)

			// Then: nothing needs escaping
			require.Equal(t, encoded, url.QueryEscape(encoded))
		}
	})
}

func TestDecode(t *testing.T) {
	t.Run("Round trip for every reachable state", func(t *testing.T) {
		states := reachableStates(t)
		require.Len(t, states, 5478)

		for _, state := range states {
			// When: decoding an encoded state
			decoded, err := Decode(Encode(state))

			// Then: the original value comes back
			require.NoError(t, err)
			require.Equal(t, state, decoded)
		}
	})

	t.Run("Accepts links from the web client", func(t *testing.T) {
		// Given: padded standard base64 as produced by btoa
		encoded := "eyJib2FyZCI6WyJYIixudWxsLG51bGwsbnVsbCwiTyIsbnVsbCxudWxsLG51bGwsbnVsbF0sImN1cnJlbnRQbGF5ZXIiOiJYIiwic3RhdHVzIjoicGxheWluZyIsIndpbm5lciI6bnVsbH0="

		// When: decoding it
		state, err := Decode(encoded)

		// Then: the board is restored
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, state.Board[0])
		assert.Equal(t, entity.PlayerO, state.Board[4])
		assert.Equal(t, entity.PlayerX, state.CurrentPlayer)
		assert.Equal(t, entity.StatusPlaying, state.Status)
	})

	t.Run("Trailing whitespace is allowed", func(t *testing.T) {
		raw := `{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":null}` + "\n "

		state, err := Decode(base64.RawURLEncoding.EncodeToString([]byte(raw)))

		require.NoError(t, err)
		assert.Equal(t, entity.InitialState(), state)
	})
}

func TestDecode_Fallback(t *testing.T) {
	b64 := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	cases := map[string]string{
		"empty string":     "",
		"not base64":       "%%%not-a-state%%%",
		"not json":         b64("hello"),
		"json array":       b64(`[1,2,3]`),
		"empty object":     b64(`{}`),
		"short board":      b64(`{"board":[null,null],"currentPlayer":"X","status":"playing","winner":null}`),
		"long board":       b64(`{"board":[null,null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":null}`),
		"unknown mark":     b64(`{"board":["Z",null,null,null,null,null,null,null,null],"currentPlayer":"O","status":"playing","winner":null}`),
		"unknown player":   b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"Q","status":"playing","winner":null}`),
		"unknown status":   b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"paused","winner":null}`),
		"unknown field":    b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":null,"cheat":true}`),
		"winner in play":   b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":"O"}`),
		"won without line": b64(`{"board":["X",null,null,null,null,null,null,null,null],"currentPlayer":"O","status":"won","winner":"X"}`),
		"trailing data":    b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":null}{}`),
		"trailing bracket": b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":null}]`),
		"trailing brace":   b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":null}}`),
		"trailing nesting": b64(`{"board":[null,null,null,null,null,null,null,null,null],"currentPlayer":"X","status":"playing","winner":null} ]]]`),
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			// When: decoding something Encode never produces
			state, err := Decode(encoded)

			// Then: the error is reported and the initial state is returned
			require.ErrorIs(t, err, ErrMalformedState)
			require.Equal(t, entity.InitialState(), state)
		})
	}
}
