package server

// EventPayload is the journal entry body persisted alongside each mutation.
type EventPayload struct {
	GameID       string `json:"game_id,omitempty"`
	PlayerName   string `json:"player,omitempty"`
	PlayerID     int    `json:"player_id,omitempty"`
	Seat         int    `json:"seat,omitempty"`
	Ready        *bool  `json:"ready,omitempty"`
	Roll         int    `json:"roll,omitempty"`
	FromPosition int    `json:"from_position,omitempty"`
	Landed       int    `json:"landed,omitempty"`
	Field        string `json:"field,omitempty"`
	Position     int    `json:"position,omitempty"`
	NextSeat     int    `json:"next_seat,omitempty"`
	State        string `json:"state,omitempty"`
	MaxPlayers   int    `json:"max_players,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

const (
	eventGameCreated    = "game_created"
	eventPlayerJoined   = "player_joined"
	eventReadyChanged   = "ready_changed"
	eventGameStarted    = "game_started"
	eventDiceRolled     = "dice_rolled"
	eventPositionEchoed = "position_echoed"
	eventPlayerRemoved  = "player_removed"
	eventGameDeleted    = "game_deleted"
)
