package db

import (
	"time"

	"gorm.io/datatypes"
)

type Game struct {
	ID           uint      `gorm:"primaryKey"`
	HostName     string    `gorm:"size:64;not null"`
	MaxPlayers   int       `gorm:"not null;default:4"`
	AllReady     bool      `gorm:"not null;default:false"`
	LastDiceRoll int       `gorm:"not null;default:0"`
	CurrentSeat  int       `gorm:"not null;default:0"`
	Started      bool      `gorm:"not null;default:false"`
	State        string    `gorm:"size:32;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	Players      []Player
	Events       []Event
}

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_players_game_seat"`
	Seat      int       `gorm:"not null;uniqueIndex:idx_players_game_seat"`
	Name      string    `gorm:"size:64;not null"`
	Ready     bool      `gorm:"not null;default:false"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
