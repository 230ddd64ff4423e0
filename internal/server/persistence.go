package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"horse-race/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
)

// The in-memory store is authoritative; these helpers mirror every mutation
// into Postgres so a restarted server can pick games back up (restore.go).
// With no database configured they are all no-ops.

func (s *Server) persistGame(game *Game) error {
	if s.db == nil {
		return nil
	}
	record := db.Game{
		HostName:    game.HostName,
		MaxPlayers:  game.MaxPlayers,
		AllReady:    game.AllReady,
		CurrentSeat: game.CurrentSeat,
		Started:     game.Started,
		State:       game.State,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	game.DBID = record.ID
	newID := fmt.Sprintf("game-%d", record.ID)
	if game.ID != newID {
		s.store.RenameGame(game, newID)
	}
	for i := range game.Players {
		if err := s.persistPlayer(game, &game.Players[i]); err != nil {
			return err
		}
	}
	return s.persistEvent(game, nil, eventGameCreated, EventPayload{
		GameID:     game.ID,
		PlayerName: game.HostName,
		MaxPlayers: game.MaxPlayers,
	})
}

func (s *Server) persistPlayer(game *Game, player *Player) error {
	if s.db == nil {
		return nil
	}
	if player.DBID != 0 {
		return nil
	}
	if game.DBID == 0 {
		return errors.New("game has no database id")
	}
	record := db.Player{
		GameID:   game.DBID,
		Seat:     player.Seat,
		Name:     player.Name,
		Ready:    player.Ready,
		Position: player.Position,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := s.findPlayerDBID(game.DBID, player.Seat)
			if lookupErr == nil && existing != 0 {
				player.DBID = existing
				player.ID = int(existing)
				return nil
			}
		}
		return err
	}
	player.DBID = record.ID
	// The durable id becomes the player's public id so it survives a
	// server restart.
	player.ID = int(record.ID)
	return nil
}

func (s *Server) findPlayerDBID(gameDBID uint, seat int) (uint, error) {
	var record db.Player
	err := s.db.Select("id").
		Where("game_id = ? AND seat = ?", gameDBID, seat).
		First(&record).Error
	if err != nil {
		return 0, err
	}
	return record.ID, nil
}

// persistGameState mirrors the game-wide columns after a mutation and
// appends the matching journal entry.
func (s *Server) persistGameState(game *Game, actor *Player, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 {
		return errors.New("game has no database id")
	}
	updates := map[string]any{
		"all_ready":      game.AllReady,
		"last_dice_roll": game.LastDiceRoll,
		"current_seat":   game.CurrentSeat,
		"started":        game.Started,
		"state":          game.State,
	}
	if err := s.db.Model(&db.Game{}).Where("id = ?", game.DBID).Updates(updates).Error; err != nil {
		return err
	}
	return s.persistEvent(game, actor, eventType, payload)
}

func (s *Server) persistPlayerState(player *Player) error {
	if s.db == nil {
		return nil
	}
	if player.DBID == 0 {
		return errors.New("player has no database id")
	}
	return s.db.Model(&db.Player{}).
		Where("id = ?", player.DBID).
		Updates(map[string]any{
			"ready":    player.Ready,
			"position": player.Position,
		}).Error
}

func (s *Server) deletePlayerRow(player Player) error {
	if s.db == nil || player.DBID == 0 {
		return nil
	}
	return s.db.Delete(&db.Player{}, player.DBID).Error
}

func (s *Server) deleteGameRow(game *Game) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	return s.db.Delete(&db.Game{}, game.DBID).Error
}

func (s *Server) persistEvent(game *Game, actor *Player, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if game.DBID == 0 {
		return errors.New("game has no database id")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		GameID:  game.DBID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if actor != nil && actor.DBID != 0 {
		id := actor.DBID
		event.PlayerID = &id
	}
	return s.db.Create(&event).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
