package client

import "sort"

// GameState mirrors the server's game snapshot exactly as it appears on
// the wire.
type GameState struct {
	ID                string        `json:"id"`
	HostName          string        `json:"hostName"`
	MaxPlayers        int           `json:"maxPlayers"`
	AllReady          bool          `json:"allPlayersReady"`
	LastDiceRoll      int           `json:"lastDiceRoll"`
	CurrentSeat       int           `json:"currentSeat"`
	CurrentPlayerName string        `json:"currentPlayerName"`
	Started           bool          `json:"gameStarted"`
	State             string        `json:"gameState"`
	Players           []PlayerState `json:"players"`
}

type PlayerState struct {
	ID       int    `json:"id"`
	Seat     int    `json:"playerIndex"`
	Name     string `json:"name"`
	Ready    bool   `json:"ready"`
	Position int    `json:"position"`
	Score    int    `json:"score"`
}

// winPosition is the field index from which a player counts as finished;
// boardEnd is the last field a piece can occupy.
const (
	winPosition = 63
	boardEnd    = 64
)

// Winner returns the first player in roster order whose position reached
// the finish, if any. Every client runs this same scan on every poll, so
// all of them settle on the same winner.
func (g *GameState) Winner() (PlayerState, bool) {
	for _, p := range g.Players {
		if p.Position >= winPosition {
			return p, true
		}
	}
	return PlayerState{}, false
}

// PlayerByID finds the local player's entry in the roster.
func (g *GameState) PlayerByID(id int) (PlayerState, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerState{}, false
}

// Ranking returns the roster sorted by descending position for the score
// list; ties keep join order.
func (g *GameState) Ranking() []PlayerState {
	ranked := make([]PlayerState, len(g.Players))
	copy(ranked, g.Players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Position > ranked[j].Position
	})
	return ranked
}
