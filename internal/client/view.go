package client

// Screen is the closed set of views a session can show. Screen changes go
// through Session.reconcile, never by name.
type Screen int

const (
	ScreenStart Screen = iota
	ScreenLobby
	ScreenGame
	ScreenWinner
)

func (s Screen) String() string {
	switch s {
	case ScreenStart:
		return "start"
	case ScreenLobby:
		return "lobby"
	case ScreenGame:
		return "game"
	case ScreenWinner:
		return "winner"
	default:
		return "unknown"
	}
}

// LobbyView is everything the lobby screen renders on one poll tick.
type LobbyView struct {
	GameID   string
	Players  []PlayerState
	AllReady bool
	// CanStart gates the start button: consensus reached and at least
	// two players seated.
	CanStart bool
}

// GameView is everything the board screen renders on one poll tick.
type GameView struct {
	GameID            string
	LastDiceRoll      int
	CurrentPlayerName string
	// CanRoll is true only while the local player holds the turn.
	CanRoll bool
	Players []PlayerState
	Ranking []PlayerState
}

// View is the rendering boundary. Implementations own their visual state;
// the session serializes calls, so no two arrive at once.
type View interface {
	ShowStart(reason string)
	ShowLobby(view LobbyView)
	ShowGame(view GameView)
	ShowWinner(playerName string)
}

// screenFor is the transition function from an authoritative snapshot to
// the screen the local player should see.
func screenFor(game *GameState, localPlayerID int) Screen {
	if _, inRoster := game.PlayerByID(localPlayerID); !inRoster {
		return ScreenStart
	}
	if game.Started {
		if _, won := game.Winner(); won {
			return ScreenWinner
		}
		return ScreenGame
	}
	return ScreenLobby
}
