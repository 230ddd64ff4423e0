package server

import "strings"

// rollResult records what one turn did, for the response, the event journal
// and the logs.
type rollResult struct {
	Roll         int
	Player       Player
	FromPosition int
	Landed       int
	Field        fieldKind
	Final        int
	NextSeat     int
}

// sameName compares player names the way clients do: trimmed and without
// case. Turn checks must agree with the enablement rule on the client side.
func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// nextSeatNumber picks the seat for a joining player: one past the highest
// seat currently held, so an existing player's seat is never reassigned
// under them.
func (g *Game) nextSeatNumber() int {
	highest := 0
	for i := range g.Players {
		if g.Players[i].Seat > highest {
			highest = g.Players[i].Seat
		}
	}
	return highest + 1
}

// addPlayer appends a new player to the lobby. A new arrival always voids
// the readiness consensus.
func (g *Game) addPlayer(id int, name string) (*Player, error) {
	if g.Started {
		return nil, ErrGameStarted
	}
	if len(g.Players) >= g.MaxPlayers {
		return nil, ErrLobbyFull
	}
	g.Players = append(g.Players, Player{
		ID:       id,
		Seat:     g.nextSeatNumber(),
		Name:     name,
		Ready:    false,
		Position: 0,
	})
	g.AllReady = false
	return &g.Players[len(g.Players)-1], nil
}

// setReady flips one seat's readiness and recomputes the aggregate.
func (g *Game) setReady(seat int, ready bool) (*Player, error) {
	player := g.PlayerBySeat(seat)
	if player == nil {
		return nil, ErrSeatOutOfRange
	}
	player.Ready = ready
	g.AllReady = g.allPlayersReady()
	return player, nil
}

// start moves the lobby into active play. Readiness is checked here, not
// only on the client.
func (g *Game) start() error {
	if !g.AllReady {
		return ErrNotAllReady
	}
	g.Started = true
	g.State = stateGame
	return nil
}

// rollDice executes one turn for the declared actor: draw, move, apply the
// field effect, hand the turn to the next seat. On any failure the game is
// left untouched.
func (g *Game) rollDice(actorName string, roll int) (rollResult, error) {
	current := g.CurrentPlayer()
	if current == nil {
		return rollResult{}, ErrCurrentPlayerMissing
	}
	if !sameName(actorName, current.Name) {
		return rollResult{}, ErrNotYourTurn
	}

	g.LastDiceRoll = roll

	from := current.Position
	landed := from + roll
	if landed > boardEnd {
		landed = boardEnd
	}
	final := applyFieldEffect(landed)
	current.Position = final

	result := rollResult{
		Roll:         roll,
		FromPosition: from,
		Landed:       landed,
		Field:        fieldKindAt(landed),
		Final:        final,
	}
	g.advanceTurn()
	result.Player = *current
	result.NextSeat = g.CurrentSeat
	return result, nil
}

// advanceTurn moves the pointer to the next seat in join order, wrapping
// after the last one. A single player keeps the turn; an empty roster
// leaves the pointer alone.
func (g *Game) advanceTurn() {
	if len(g.Players) == 0 {
		return
	}
	idx := 0
	for i := range g.Players {
		if g.Players[i].Seat == g.CurrentSeat {
			idx = i
			break
		}
	}
	g.CurrentSeat = g.Players[(idx+1)%len(g.Players)].Seat
}

// removePlayer drops a player from the roster. When the departing player
// held the turn, the pointer advances to the next surviving seat first so
// it never names an absent player. Reports whether the roster is now empty.
func (g *Game) removePlayer(playerID int) (Player, bool, error) {
	idx := -1
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Player{}, false, ErrPlayerNotFound
	}
	removed := g.Players[idx]

	if removed.Seat == g.CurrentSeat && len(g.Players) > 1 {
		g.advanceTurn()
	}
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)

	if len(g.Players) == 0 {
		return removed, true, nil
	}
	if !g.Started {
		g.AllReady = g.allPlayersReady()
	}
	return removed, false, nil
}
