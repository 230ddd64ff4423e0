package server

import (
	"fmt"
	"sort"

	"horse-race/internal/db"

	"go.uber.org/zap"
)

// RestoreGames reloads every persisted game and its roster into the store
// so clients can keep polling across a server restart. Games that lost all
// their players are skipped and cleaned up.
func (s *Server) RestoreGames() error {
	if s.db == nil {
		return nil
	}

	var records []db.Game
	if err := s.db.Find(&records).Error; err != nil {
		return err
	}

	restored := 0
	for i := range records {
		game, err := s.rebuildGame(&records[i])
		if err != nil {
			zap.S().Warnw("skipping game during restore",
				"game_id", records[i].ID, "error", err)
			continue
		}
		if game == nil {
			continue
		}
		if s.store.AdoptGame(game) {
			restored++
		}
	}
	if restored > 0 {
		zap.S().Infow("restored games from database", "count", restored)
	}
	return nil
}

func (s *Server) rebuildGame(record *db.Game) (*Game, error) {
	var rows []db.Player
	if err := s.db.Where("game_id = ?", record.ID).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// Empty games are deleted by the operation that empties them;
		// a leftover row means that delete never landed.
		if err := s.db.Delete(&db.Game{}, record.ID).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Seat < rows[j].Seat })

	game := &Game{
		ID:           fmt.Sprintf("game-%d", record.ID),
		DBID:         record.ID,
		HostName:     record.HostName,
		MaxPlayers:   record.MaxPlayers,
		AllReady:     record.AllReady,
		LastDiceRoll: record.LastDiceRoll,
		CurrentSeat:  record.CurrentSeat,
		Started:      record.Started,
		State:        record.State,
		Players:      make([]Player, 0, len(rows)),
	}
	for _, row := range rows {
		game.Players = append(game.Players, Player{
			ID:       int(row.ID),
			DBID:     row.ID,
			Seat:     row.Seat,
			Name:     row.Name,
			Ready:    row.Ready,
			Position: row.Position,
		})
	}
	if game.CurrentPlayer() == nil {
		// The pointer referenced a seat that no longer exists; hand the
		// turn to the first surviving seat.
		game.CurrentSeat = game.Players[0].Seat
	}
	return game, nil
}
