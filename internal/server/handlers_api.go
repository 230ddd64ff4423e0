package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type createGameRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	Name string `json:"name"`
}

type rollRequest struct {
	PlayerName string `json:"playerName"`
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

type startRequest struct {
	Started bool   `json:"gameStarted"`
	State   string `json:"gameState"`
}

type positionRequest struct {
	Position int `json:"position"`
}

// respondStoreError maps the store's sentinel errors onto HTTP statuses.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrLobbyFull),
		errors.Is(err, ErrGameStarted),
		errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrNotAllReady):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSeatOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// mirror logs a persistence failure without failing the request; the
// in-memory state stays authoritative and the journal is best effort.
func (s *Server) mirror(gameID string, err error) {
	if err != nil {
		zap.S().Warnw("persistence mirror failed", "game_id", gameID, "error", err)
	}
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	ids := s.store.GameIDs()
	snaps := make([]GameSnapshot, 0, len(ids))
	for _, id := range ids {
		_ = s.store.ViewGame(id, func(game *Game) {
			snaps = append(snaps, snapshotGame(game))
		})
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	game := s.store.CreateGame(name, s.cfg.MaxPlayers)
	var snap GameSnapshot
	storeErr := s.store.WithGame(game.ID, func(game *Game) error {
		if err := s.persistGame(game); err != nil {
			return err
		}
		snap = snapshotGame(game)
		return nil
	})
	if storeErr != nil {
		s.store.DropGame(game)
		zap.S().Errorw("failed to persist new game", "error", storeErr)
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	zap.S().Infow("game created", "game_id", snap.ID, "host", name)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var snap GameSnapshot
	err := s.store.ViewGame(chi.URLParam(r, "id"), func(game *Game) {
		snap = snapshotGame(game)
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	var players []PlayerSnapshot
	err := s.store.ViewGame(chi.URLParam(r, "id"), func(game *Game) {
		players = make([]PlayerSnapshot, 0, len(game.Players))
		for i := range game.Players {
			players = append(players, playerSnapshot(&game.Players[i]))
		}
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gameID := chi.URLParam(r, "id")
	var snap GameSnapshot
	storeErr := s.store.WithGame(gameID, func(game *Game) error {
		player, err := game.addPlayer(s.store.AllocPlayerID(), name)
		if err != nil {
			return err
		}
		s.mirror(game.ID, s.persistPlayer(game, player))
		s.mirror(game.ID, s.persistGameState(game, player, eventPlayerJoined, EventPayload{
			PlayerName: player.Name,
			PlayerID:   player.ID,
			Seat:       player.Seat,
		}))
		snap = snapshotGame(game)
		return nil
	})
	if storeErr != nil {
		respondStoreError(w, storeErr)
		return
	}
	zap.S().Infow("player joined", "game_id", snap.ID, "player", name)
	s.ws.Broadcast(snap.ID, snap)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRollDice(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID := chi.URLParam(r, "id")
	var snap GameSnapshot
	var result rollResult
	storeErr := s.store.WithGame(gameID, func(game *Game) error {
		var err error
		result, err = game.rollDice(req.PlayerName, s.store.roll())
		if err != nil {
			return err
		}
		actor := game.PlayerByID(result.Player.ID)
		s.mirror(game.ID, s.persistPlayerState(&result.Player))
		s.mirror(game.ID, s.persistGameState(game, actor, eventDiceRolled, EventPayload{
			PlayerName:   result.Player.Name,
			Roll:         result.Roll,
			FromPosition: result.FromPosition,
			Landed:       result.Landed,
			Field:        result.Field.String(),
			Position:     result.Final,
			NextSeat:     result.NextSeat,
		}))
		snap = snapshotGame(game)
		return nil
	})
	if storeErr != nil {
		respondStoreError(w, storeErr)
		return
	}
	zap.S().Infow("dice rolled",
		"game_id", snap.ID,
		"player", result.Player.Name,
		"roll", result.Roll,
		"position", result.Final,
		"field", result.Field.String(),
	)
	s.ws.Broadcast(snap.ID, snap)
	writeJSON(w, http.StatusOK, snap)
}

// handleUpdatePosition accepts a client's locally computed position but
// never adopts it: the server echoes its own record. Kept as an explicit
// idempotent operation because clients report after every roll.
func (s *Server) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	playerID, err := strconv.Atoi(chi.URLParam(r, "player"))
	if err != nil {
		respondStoreError(w, ErrPlayerNotFound)
		return
	}

	gameID := chi.URLParam(r, "id")
	var echo PlayerSnapshot
	storeErr := s.store.WithGame(gameID, func(game *Game) error {
		player := game.PlayerByID(playerID)
		if player == nil {
			return ErrPlayerNotFound
		}
		if req.Position != player.Position {
			zap.S().Debugw("ignoring reported position",
				"game_id", game.ID,
				"player", player.Name,
				"reported", req.Position,
				"authoritative", player.Position,
			)
		}
		s.mirror(game.ID, s.persistEvent(game, player, eventPositionEchoed, EventPayload{
			PlayerName: player.Name,
			Position:   player.Position,
		}))
		echo = playerSnapshot(player)
		return nil
	})
	if storeErr != nil {
		respondStoreError(w, storeErr)
		return
	}
	writeJSON(w, http.StatusOK, echo)
}

func (s *Server) handleSetReady(w http.ResponseWriter, r *http.Request) {
	var req readyRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	seat, err := strconv.Atoi(chi.URLParam(r, "player"))
	if err != nil {
		respondStoreError(w, ErrSeatOutOfRange)
		return
	}

	gameID := chi.URLParam(r, "id")
	var snap GameSnapshot
	var echo PlayerSnapshot
	storeErr := s.store.WithGame(gameID, func(game *Game) error {
		player, err := game.setReady(seat, req.Ready)
		if err != nil {
			return err
		}
		s.mirror(game.ID, s.persistPlayerState(player))
		s.mirror(game.ID, s.persistGameState(game, player, eventReadyChanged, EventPayload{
			PlayerName: player.Name,
			Seat:       player.Seat,
			Ready:      &player.Ready,
		}))
		snap = snapshotGame(game)
		echo = playerSnapshot(player)
		return nil
	})
	if storeErr != nil {
		respondStoreError(w, storeErr)
		return
	}
	zap.S().Infow("ready changed",
		"game_id", snap.ID, "seat", seat, "ready", req.Ready, "all_ready", snap.AllReady)
	s.ws.Broadcast(snap.ID, snap)
	writeJSON(w, http.StatusOK, echo)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	// Clients send the lifecycle fields they want; the server ignores
	// them and sets the canonical values itself.
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID := chi.URLParam(r, "id")
	var snap GameSnapshot
	storeErr := s.store.WithGame(gameID, func(game *Game) error {
		if err := game.start(); err != nil {
			return err
		}
		s.mirror(game.ID, s.persistGameState(game, nil, eventGameStarted, EventPayload{
			State: game.State,
		}))
		snap = snapshotGame(game)
		return nil
	})
	if storeErr != nil {
		respondStoreError(w, storeErr)
		return
	}
	zap.S().Infow("game started", "game_id", snap.ID, "players", len(snap.Players))
	s.ws.Broadcast(snap.ID, snap)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(chi.URLParam(r, "player"))
	if err != nil {
		respondStoreError(w, ErrPlayerNotFound)
		return
	}

	gameID := chi.URLParam(r, "id")
	var snap GameSnapshot
	gameDeleted := false
	var removed Player
	storeErr := s.store.WithGame(gameID, func(game *Game) error {
		var empty bool
		var err error
		removed, empty, err = game.removePlayer(playerID)
		if err != nil {
			return err
		}
		s.mirror(game.ID, s.deletePlayerRow(removed))
		if empty {
			gameDeleted = true
			s.mirror(game.ID, s.persistEvent(game, nil, eventGameDeleted, EventPayload{
				Reason: "no players left",
			}))
			s.mirror(game.ID, s.deleteGameRow(game))
			s.store.DropGame(game)
			return nil
		}
		s.mirror(game.ID, s.persistGameState(game, nil, eventPlayerRemoved, EventPayload{
			PlayerName: removed.Name,
			PlayerID:   removed.ID,
			Seat:       removed.Seat,
		}))
		snap = snapshotGame(game)
		return nil
	})
	if storeErr != nil {
		respondStoreError(w, storeErr)
		return
	}

	if gameDeleted {
		zap.S().Infow("game deleted", "game_id", gameID, "player", removed.Name)
		s.ws.DropGroup(gameID)
		writeJSON(w, http.StatusOK, map[string]string{
			"result": "game deleted",
		})
		return
	}
	zap.S().Infow("player removed", "game_id", gameID, "player", removed.Name)
	s.ws.Broadcast(snap.ID, snap)
	writeJSON(w, http.StatusOK, map[string]string{
		"result": "player removed",
	})
}
