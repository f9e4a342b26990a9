package pkg

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	gameIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	gameIDLength   = 4
)

// GenerateGameID - generates a short display label for a game. Collisions are possible.
func GenerateGameID() string {
	id := make([]byte, gameIDLength)
	limit := big.NewInt(int64(len(gameIDAlphabet)))

	for i := range id {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			id[i] = gameIDAlphabet[0]
			continue
		}
		id[i] = gameIDAlphabet[n.Int64()]
	}

	return string(id)
}

// IsGameID reports whether s looks like a value produced by GenerateGameID.
func IsGameID(s string) bool {
	if len(s) != gameIDLength {
		return false
	}

	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}

	return true
}

// GenerateNewSessionID - generates an id that tags every log line of one session.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
