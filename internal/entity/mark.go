package entity

// Mark is the content of a board cell. Empty doubles as "no winner".
type Mark uint8

const (
	Empty Mark = iota
	PlayerX
	PlayerO
)

func (that Mark) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

// ParseMark accepts "X" and "O" only.
func ParseMark(s string) (Mark, bool) {
	switch s {
	case "X":
		return PlayerX, true
	case "O":
		return PlayerO, true
	default:
		return Empty, false
	}
}

type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
	StatusDraw
)

func (that Status) String() string {
	switch that {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

func ParseStatus(s string) (Status, bool) {
	switch s {
	case "playing":
		return StatusPlaying, true
	case "won":
		return StatusWon, true
	case "draw":
		return StatusDraw, true
	default:
		return StatusPlaying, false
	}
}
