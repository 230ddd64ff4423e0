package server

const (
	// Lifecycle states a game moves through. The wire representation keeps
	// the capitalized strings the clients match on.
	stateLobby = "Lobby"
	stateGame  = "Game"
)

const (
	// boardEnd is the last field index; positions clamp here.
	boardEnd = 64
	// winPosition is the field from which clients declare a winner.
	winPosition = 63
)

type Game struct {
	ID           string
	DBID         uint
	HostName     string
	MaxPlayers   int
	AllReady     bool
	LastDiceRoll int
	// CurrentSeat is the turn pointer. Seats are stable across removals,
	// so the pointer survives roster churn where a name-based pointer
	// would dangle.
	CurrentSeat int
	Started     bool
	State       string
	Players     []Player
}

type Player struct {
	ID       int
	DBID     uint
	Seat     int
	Name     string
	Ready    bool
	Position int
}

// CurrentPlayer returns the player holding the turn pointer.
func (g *Game) CurrentPlayer() *Player {
	for i := range g.Players {
		if g.Players[i].Seat == g.CurrentSeat {
			return &g.Players[i]
		}
	}
	return nil
}

// PlayerBySeat returns the player holding the given seat, or nil.
func (g *Game) PlayerBySeat(seat int) *Player {
	for i := range g.Players {
		if g.Players[i].Seat == seat {
			return &g.Players[i]
		}
	}
	return nil
}

// PlayerByID returns the player with the given store id, or nil.
func (g *Game) PlayerByID(id int) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

func (g *Game) allPlayersReady() bool {
	if len(g.Players) == 0 {
		return false
	}
	for i := range g.Players {
		if !g.Players[i].Ready {
			return false
		}
	}
	return true
}
