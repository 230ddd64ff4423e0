package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session ties one local player to one game: it owns the API client, the
// poll loop and the view, and translates user actions 1:1 into API calls.
// It is constructed once and passed around explicitly; there is no global
// client state.
type Session struct {
	ID     uuid.UUID
	client *Client
	view   View
	poller *Poller

	mu         sync.Mutex
	gameID     string
	playerID   int
	playerName string
	screen     Screen
	lastGame   GameState
	haveGame   bool
}

func NewSession(client *Client, view View, pollInterval time.Duration) *Session {
	s := &Session{
		ID:     uuid.New(),
		client: client,
		view:   view,
		screen: ScreenStart,
	}
	s.poller = NewPoller(pollInterval, s.pollTick)
	return s
}

// Create makes a new lobby with the local player as host and starts
// polling it.
func (s *Session) Create(ctx context.Context, playerName string) error {
	game, err := s.client.CreateGame(ctx, playerName)
	if err != nil {
		return err
	}
	if len(game.Players) == 0 {
		return errors.New("server returned a game without players")
	}
	s.adopt(game, game.Players[0])
	return nil
}

// Join seats the local player in an existing lobby and starts polling it.
func (s *Session) Join(ctx context.Context, gameID, playerName string) error {
	game, err := s.client.JoinGame(ctx, gameID, playerName)
	if err != nil {
		return err
	}
	if len(game.Players) == 0 {
		return errors.New("server returned a game without players")
	}
	// The joining player is the newest roster entry.
	s.adopt(game, game.Players[len(game.Players)-1])
	return nil
}

func (s *Session) adopt(game GameState, local PlayerState) {
	s.mu.Lock()
	s.gameID = game.ID
	s.playerID = local.ID
	s.playerName = local.Name
	s.lastGame = game
	s.haveGame = true
	s.screen = ScreenLobby
	s.mu.Unlock()

	s.view.ShowLobby(LobbyView{
		GameID:   game.ID,
		Players:  game.Players,
		AllReady: game.AllReady,
		CanStart: game.AllReady && len(game.Players) > 1,
	})
	s.poller.Start()
	zap.S().Infow("session joined game",
		"session", s.ID, "game_id", game.ID, "player", local.Name)
}

// ToggleReady flips the local player's readiness.
func (s *Session) ToggleReady(ctx context.Context) error {
	s.mu.Lock()
	if !s.haveGame {
		s.mu.Unlock()
		return errors.New("no active game")
	}
	gameID := s.gameID
	local, ok := s.lastGame.PlayerByID(s.playerID)
	s.mu.Unlock()
	if !ok {
		return errors.New("not in the roster")
	}
	_, err := s.client.SetReady(ctx, gameID, local.Seat, !local.Ready)
	return err
}

// Start asks the server to begin play. The server rejects it unless every
// player is ready.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if !s.haveGame {
		s.mu.Unlock()
		return errors.New("no active game")
	}
	gameID := s.gameID
	s.mu.Unlock()
	_, err := s.client.StartGame(ctx, gameID)
	return err
}

// Roll requests a dice roll. Rolling out of turn is expected under
// double-submission and dropped quietly, the server rejects it anyway.
// After a successful roll the session reports its locally computed
// position; the server echoes its own authoritative value.
func (s *Session) Roll(ctx context.Context) error {
	s.mu.Lock()
	if !s.haveGame {
		s.mu.Unlock()
		return errors.New("no active game")
	}
	gameID := s.gameID
	playerID := s.playerID
	playerName := s.playerName
	local, _ := s.lastGame.PlayerByID(s.playerID)
	s.mu.Unlock()

	game, err := s.client.RollDice(ctx, gameID, playerName)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			zap.S().Debugw("roll rejected", "session", s.ID, "error", err)
			return nil
		}
		return err
	}

	localPosition := local.Position + game.LastDiceRoll
	if localPosition > boardEnd {
		localPosition = boardEnd
	}
	if _, err := s.client.ReportPosition(ctx, gameID, playerID, localPosition); err != nil {
		zap.S().Warnw("position report failed", "session", s.ID, "error", err)
	}
	return nil
}

// Exit leaves the game, stops polling and returns to the start screen.
func (s *Session) Exit(ctx context.Context) error {
	s.mu.Lock()
	if !s.haveGame {
		s.mu.Unlock()
		return nil
	}
	gameID := s.gameID
	playerID := s.playerID
	s.mu.Unlock()

	s.poller.Stop()
	err := s.client.LeaveGame(ctx, gameID, playerID)
	s.reset("left the game")
	return err
}

// Screen reports the screen currently shown.
func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// Polling reports whether the synchronization loop is live.
func (s *Session) Polling() bool {
	return s.poller.Running()
}

func (s *Session) reset(reason string) {
	s.mu.Lock()
	s.gameID = ""
	s.playerID = 0
	s.playerName = ""
	s.haveGame = false
	s.screen = ScreenStart
	s.mu.Unlock()
	s.view.ShowStart(reason)
}

// pollTick is one fetch-and-reconcile cycle. Returning false cancels the
// loop. A failed fetch is logged and skipped; the loop keeps its cadence.
func (s *Session) pollTick(ctx context.Context) bool {
	s.mu.Lock()
	if !s.haveGame {
		s.mu.Unlock()
		return false
	}
	gameID := s.gameID
	s.mu.Unlock()

	game, err := s.client.FetchGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			zap.S().Infow("game vanished", "session", s.ID, "game_id", gameID)
			s.reset("game no longer exists")
			return false
		}
		if ctx.Err() != nil {
			return false
		}
		zap.S().Warnw("poll fetch failed, skipping tick",
			"session", s.ID, "game_id", gameID, "error", err)
		return true
	}
	return s.reconcile(game)
}

// reconcile applies one authoritative snapshot to the local view state:
// which screen is active, whether the roll action is enabled, and what the
// board and score list show. Returns false when the loop must stop.
func (s *Session) reconcile(game GameState) bool {
	s.mu.Lock()
	s.lastGame = game
	playerID := s.playerID
	playerName := s.playerName
	next := screenFor(&game, playerID)
	s.screen = next
	s.mu.Unlock()

	switch next {
	case ScreenStart:
		// The local player is no longer in the roster.
		s.reset("removed from game")
		return false
	case ScreenWinner:
		winner, _ := game.Winner()
		zap.S().Infow("winner detected",
			"session", s.ID, "game_id", game.ID, "winner", winner.Name)
		s.view.ShowWinner(winner.Name)
		return false
	case ScreenGame:
		if len(game.Players) == 1 {
			// Everyone else left after the start; nothing remains to
			// race against.
			s.reset("all other players left")
			return false
		}
		s.view.ShowGame(GameView{
			GameID:            game.ID,
			LastDiceRoll:      game.LastDiceRoll,
			CurrentPlayerName: game.CurrentPlayerName,
			CanRoll:           sameName(playerName, game.CurrentPlayerName),
			Players:           game.Players,
			Ranking:           game.Ranking(),
		})
		return true
	default:
		s.view.ShowLobby(LobbyView{
			GameID:   game.ID,
			Players:  game.Players,
			AllReady: game.AllReady,
			CanStart: game.AllReady && len(game.Players) > 1,
		})
		return true
	}
}

// sameName matches the server's turn check: trimmed, case-insensitive.
func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (s *Session) String() string {
	return fmt.Sprintf("session %s", s.ID)
}
