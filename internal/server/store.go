package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrGameNotFound         = errors.New("game not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrLobbyFull            = errors.New("lobby is full")
	ErrGameStarted          = errors.New("game already started")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrSeatOutOfRange       = errors.New("seat out of range")
	ErrNotAllReady          = errors.New("not all players ready")
	ErrCurrentPlayerMissing = errors.New("current player missing")
)

// Store holds the authoritative copy of every running game. The map and the
// id counters sit behind the store mutex; each game carries its own mutex so
// that operations on one game serialize while different games proceed in
// parallel. Callers mutate games only through WithGame, which runs the whole
// load-mutate-persist-snapshot sequence inside the per-game critical section.
type Store struct {
	mu           sync.Mutex
	nextID       int
	nextPlayerID int
	games        map[string]*gameEntry
	roll         func() int
}

type gameEntry struct {
	mu      sync.Mutex
	game    *Game
	deleted bool
}

func NewStore() *Store {
	return &Store{
		nextID:       1,
		nextPlayerID: 1,
		games:        make(map[string]*gameEntry),
		roll:         rollDie,
	}
}

// CreateGame seats the host on seat 1 and registers the new game. The host
// is pre-marked ready by convention; the readiness aggregate still starts
// false until a readiness change recomputes it.
func (s *Store) CreateGame(hostName string, maxPlayers int) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("game-%d", s.nextID)
	s.nextID++
	host := Player{
		ID:       s.nextPlayerID,
		Seat:     1,
		Name:     hostName,
		Ready:    true,
		Position: 0,
	}
	s.nextPlayerID++
	game := &Game{
		ID:          id,
		HostName:    hostName,
		MaxPlayers:  maxPlayers,
		AllReady:    false,
		CurrentSeat: 1,
		State:       stateLobby,
		Players:     []Player{host},
	}
	s.games[id] = &gameEntry{game: game}
	return game
}

// AdoptGame registers a game rebuilt from the database (see restore.go).
// Games whose ids collide with an already-registered game are skipped.
// Both counters advance past adopted ids so a later CreateGame can never
// hand out a provisional id that collides with a restored game.
func (s *Store) AdoptGame(game *Game) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; exists {
		return false
	}
	s.games[game.ID] = &gameEntry{game: game}
	if n, err := strconv.Atoi(strings.TrimPrefix(game.ID, "game-")); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}
	for i := range game.Players {
		if game.Players[i].ID >= s.nextPlayerID {
			s.nextPlayerID = game.Players[i].ID + 1
		}
	}
	return true
}

// WithGame runs fn with the game locked. Mutation, persistence and
// snapshot building inside fn are atomic with respect to other operations
// on the same game.
func (s *Store) WithGame(id string, fn func(game *Game) error) error {
	s.mu.Lock()
	entry, ok := s.games[id]
	s.mu.Unlock()
	if !ok {
		return ErrGameNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return ErrGameNotFound
	}
	return fn(entry.game)
}

// ViewGame is WithGame for readers; fn must not mutate the game.
func (s *Store) ViewGame(id string, fn func(game *Game)) error {
	return s.WithGame(id, func(game *Game) error {
		fn(game)
		return nil
	})
}

// DropGame unregisters a game. Called under the game's own lock from
// removePlayer handling, hence the separate deleted marker: a goroutine
// already waiting on the entry lock observes the deletion instead of a
// stale game.
func (s *Store) DropGame(game *Game) {
	s.mu.Lock()
	entry, ok := s.games[game.ID]
	if ok {
		entry.deleted = true
		delete(s.games, game.ID)
	}
	s.mu.Unlock()
}

// RenameGame swaps a game's key once persistence has assigned the durable
// id. Runs under the game's entry lock.
func (s *Store) RenameGame(game *Game, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game.ID == newID {
		return
	}
	entry, ok := s.games[game.ID]
	if !ok {
		return
	}
	delete(s.games, game.ID)
	game.ID = newID
	s.games[newID] = entry
}

// AllocPlayerID hands out the next process-unique player id.
func (s *Store) AllocPlayerID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextPlayerID
	s.nextPlayerID++
	return id
}

// GameIDs returns the ids of all registered games.
func (s *Store) GameIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}
