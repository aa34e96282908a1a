package app

import (
	"time"

	"supersuit/internal/domain"
)

// SeatsToStart is the number of occupied seats (humans or bots) required to start a game.
const SeatsToStart = domain.NumSeats

// DefaultTrickDelay is how long a completed trick stays on the table before the next one opens.
const DefaultTrickDelay = time.Second
