package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"supersuit/internal/domain"
)

// MaxNameLength bounds team and player display names.
const MaxNameLength = 24

// Names maps teams and seats to display labels. They are presentation only.
type Names struct {
	Teams [2]string
	Seats [domain.NumSeats]string
}

// DefaultNames returns "Team N" and "Player N" labels, with team labels taken from cfg.
func DefaultNames(cfg GameConfig) Names {
	var n Names
	for i := range n.Teams {
		n.Teams[i] = cfg.TeamNames[i]
		if n.Teams[i] == "" {
			n.Teams[i] = fmt.Sprintf("Team %d", i+1)
		}
	}
	for i := range n.Seats {
		n.Seats[i] = fmt.Sprintf("Player %d", i+1)
	}
	return n
}

// Team returns the label of team t.
func (n Names) Team(t domain.Team) string {
	if !t.Valid() {
		return ""
	}
	return n.Teams[t-1]
}

// Seat returns the label of seat.
func (n Names) Seat(seat int) string {
	if !domain.ValidSeat(seat) {
		return ""
	}
	return n.Seats[seat-1]
}

// NamesUpdate carries optional replacements; empty entries keep the current value.
type NamesUpdate struct {
	Teams [2]string
	Seats [domain.NumSeats]string
}

// Apply validates every entry of u and then applies it. On error n is unchanged.
func (n *Names) Apply(u NamesUpdate) error {
	next := *n
	for i, name := range u.Teams {
		name, err := cleanName(name)
		if err != nil {
			return fmt.Errorf("team %d: %w", i+1, err)
		}
		if name != "" {
			next.Teams[i] = name
		}
	}
	for i, name := range u.Seats {
		name, err := cleanName(name)
		if err != nil {
			return fmt.Errorf("seat %d: %w", i+1, err)
		}
		if name != "" {
			next.Seats[i] = name
		}
	}
	*n = next
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("name longer than %d characters", MaxNameLength)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("name contains control characters")
		}
	}
	return name, nil
}
