package server

// GameSnapshot is the full authoritative state of one game as returned to
// callers. Everything a polling client reconciles against comes from here.
type GameSnapshot struct {
	ID                string           `json:"id"`
	HostName          string           `json:"hostName"`
	MaxPlayers        int              `json:"maxPlayers"`
	AllReady          bool             `json:"allPlayersReady"`
	LastDiceRoll      int              `json:"lastDiceRoll"`
	CurrentSeat       int              `json:"currentSeat"`
	CurrentPlayerName string           `json:"currentPlayerName"`
	Started           bool             `json:"gameStarted"`
	State             string           `json:"gameState"`
	Players           []PlayerSnapshot `json:"players"`
}

type PlayerSnapshot struct {
	ID       int    `json:"id"`
	Seat     int    `json:"playerIndex"`
	Name     string `json:"name"`
	Ready    bool   `json:"ready"`
	Position int    `json:"position"`
	Score    int    `json:"score"`
}

// snapshotGame copies the game into its wire form. Must run under the
// game's lock so readers never see players and the turn pointer from two
// different updates.
func snapshotGame(game *Game) GameSnapshot {
	snap := GameSnapshot{
		ID:           game.ID,
		HostName:     game.HostName,
		MaxPlayers:   game.MaxPlayers,
		AllReady:     game.AllReady,
		LastDiceRoll: game.LastDiceRoll,
		CurrentSeat:  game.CurrentSeat,
		Started:      game.Started,
		State:        game.State,
		Players:      make([]PlayerSnapshot, 0, len(game.Players)),
	}
	if current := game.CurrentPlayer(); current != nil {
		snap.CurrentPlayerName = current.Name
	}
	for i := range game.Players {
		snap.Players = append(snap.Players, playerSnapshot(&game.Players[i]))
	}
	return snap
}

func playerSnapshot(player *Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:       player.ID,
		Seat:     player.Seat,
		Name:     player.Name,
		Ready:    player.Ready,
		Position: player.Position,
		// Score mirrors position; it exists for display ranking only.
		Score: player.Position,
	}
}
