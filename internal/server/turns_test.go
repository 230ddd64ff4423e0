package server

import (
	"errors"
	"testing"
)

func newLobby(t *testing.T, names ...string) (*Store, *Game) {
	t.Helper()
	store := NewStore()
	game := store.CreateGame(names[0], 4)
	for _, name := range names[1:] {
		if _, err := game.addPlayer(store.AllocPlayerID(), name); err != nil {
			t.Fatalf("add player %s: %v", name, err)
		}
	}
	return store, game
}

func TestCreateGameSeatsHost(t *testing.T) {
	store := NewStore()
	game := store.CreateGame("Ada", 4)

	if len(game.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(game.Players))
	}
	host := game.Players[0]
	if host.Seat != 1 || host.Name != "Ada" {
		t.Fatalf("unexpected host entry: %#v", host)
	}
	if !host.Ready {
		t.Fatalf("host should be pre-marked ready")
	}
	if game.AllReady {
		t.Fatalf("readiness aggregate should start false")
	}
	if game.CurrentSeat != 1 {
		t.Fatalf("turn pointer should start at seat 1, got %d", game.CurrentSeat)
	}
	if game.State != stateLobby || game.Started {
		t.Fatalf("new game should be an unstarted lobby, got %s started=%v", game.State, game.Started)
	}
}

func TestJoinVoidsReadiness(t *testing.T) {
	store, game := newLobby(t, "Ada", "Ben")

	if _, err := game.setReady(2, true); err != nil {
		t.Fatalf("set ready: %v", err)
	}
	if !game.AllReady {
		t.Fatalf("expected all ready after both players ready")
	}

	if _, err := game.addPlayer(store.AllocPlayerID(), "Cleo"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if game.AllReady {
		t.Fatalf("a new joiner must void the readiness aggregate")
	}
}

func TestSetReadyOnEmptySeat(t *testing.T) {
	_, game := newLobby(t, "Ada", "Ben")
	if _, err := game.setReady(7, true); !errors.Is(err, ErrSeatOutOfRange) {
		t.Fatalf("expected ErrSeatOutOfRange, got %v", err)
	}
}

func TestLobbyCapacity(t *testing.T) {
	store, game := newLobby(t, "Ada", "Ben", "Cleo", "Dan")
	_, err := game.addPlayer(store.AllocPlayerID(), "Eve")
	if !errors.Is(err, ErrLobbyFull) {
		t.Fatalf("expected ErrLobbyFull, got %v", err)
	}
	if len(game.Players) != 4 {
		t.Fatalf("roster changed on rejected join")
	}
}

func TestStartRequiresAllReady(t *testing.T) {
	_, game := newLobby(t, "Ada", "Ben")

	if err := game.start(); !errors.Is(err, ErrNotAllReady) {
		t.Fatalf("expected ErrNotAllReady, got %v", err)
	}
	if game.Started || game.State != stateLobby {
		t.Fatalf("rejected start must not change state")
	}

	if _, err := game.setReady(2, true); err != nil {
		t.Fatalf("set ready: %v", err)
	}
	if err := game.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !game.Started || game.State != stateGame {
		t.Fatalf("expected started game, got %s started=%v", game.State, game.Started)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	store, game := newLobby(t, "Ada", "Ben")
	game.setReady(2, true)
	if err := game.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := game.addPlayer(store.AllocPlayerID(), "Cleo"); !errors.Is(err, ErrGameStarted) {
		t.Fatalf("expected ErrGameStarted, got %v", err)
	}
}

func TestRollDiceAdvancesTurn(t *testing.T) {
	_, game := newLobby(t, "Ada", "Ben")

	result, err := game.rollDice("Ada", 3)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if result.Final != 3 {
		t.Fatalf("expected Ada on field 3, got %d", result.Final)
	}
	if game.LastDiceRoll != 3 {
		t.Fatalf("last roll not recorded: %d", game.LastDiceRoll)
	}
	if game.CurrentSeat != 2 {
		t.Fatalf("turn should pass to seat 2, got %d", game.CurrentSeat)
	}

	// Out of turn: Ada just rolled and it is Ben's turn now.
	before := *game.PlayerBySeat(2)
	if _, err := game.rollDice("Ada", 4); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if *game.PlayerBySeat(2) != before || game.CurrentSeat != 2 {
		t.Fatalf("rejected roll must leave the game untouched")
	}
}

func TestRollDiceNameMatchIsLenient(t *testing.T) {
	_, game := newLobby(t, "Ada")
	if _, err := game.rollDice("  aDa ", 2); err != nil {
		t.Fatalf("trimmed case-insensitive name should match, got %v", err)
	}
}

func TestRollDiceFieldEffects(t *testing.T) {
	cases := []struct {
		name   string
		from   int
		roll   int
		landed int
		final  int
		kind   fieldKind
	}{
		{"obstacle sends back to start", 3, 3, 6, 0, fieldObstacle},
		{"landing on target of a unique field", 25, 2, 27, 27, fieldPlain},
		{"unique field jumps forward", 17, 2, 19, 27, fieldUnique},
		{"plain field keeps position", 10, 4, 14, 14, fieldPlain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, game := newLobby(t, "Ada")
			game.Players[0].Position = tc.from

			result, err := game.rollDice("Ada", tc.roll)
			if err != nil {
				t.Fatalf("roll: %v", err)
			}
			if result.Landed != tc.landed || result.Final != tc.final {
				t.Fatalf("landed=%d final=%d, want landed=%d final=%d",
					result.Landed, result.Final, tc.landed, tc.final)
			}
			if result.Field != tc.kind {
				t.Fatalf("field kind %s, want %s", result.Field, tc.kind)
			}
			if game.Players[0].Position != tc.final {
				t.Fatalf("position %d, want %d", game.Players[0].Position, tc.final)
			}
		})
	}
}

func TestRollDiceClampsAtBoardEnd(t *testing.T) {
	_, game := newLobby(t, "Ada")
	game.Players[0].Position = 62

	result, err := game.rollDice("Ada", 6)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if result.Landed != boardEnd || result.Final != boardEnd {
		t.Fatalf("expected clamp at %d, got landed=%d final=%d", boardEnd, result.Landed, result.Final)
	}
}

func TestAdvanceTurnWrapsInJoinOrder(t *testing.T) {
	_, game := newLobby(t, "Ada", "Ben", "Cleo")

	for _, want := range []int{2, 3, 1, 2} {
		game.advanceTurn()
		if game.CurrentSeat != want {
			t.Fatalf("expected seat %d, got %d", want, game.CurrentSeat)
		}
	}
}

func TestRemoveCurrentPlayerAdvancesPointerFirst(t *testing.T) {
	_, game := newLobby(t, "Ada", "Ben", "Cleo")
	benID := game.PlayerBySeat(2).ID
	game.CurrentSeat = 2

	removed, empty, err := game.removePlayer(benID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if empty {
		t.Fatalf("roster should not be empty")
	}
	if removed.Name != "Ben" {
		t.Fatalf("removed wrong player: %s", removed.Name)
	}
	if game.CurrentSeat != 3 {
		t.Fatalf("pointer should land on the next surviving seat, got %d", game.CurrentSeat)
	}
}

func TestRemoveLastPlayerReportsEmpty(t *testing.T) {
	_, game := newLobby(t, "Ada")
	_, empty, err := game.removePlayer(game.Players[0].ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !empty {
		t.Fatalf("expected empty roster report")
	}
}

func TestRemovePlayerRecomputesReadiness(t *testing.T) {
	_, game := newLobby(t, "Ada", "Ben", "Cleo")
	game.setReady(2, true)
	cleoID := game.PlayerBySeat(3).ID

	// Ada and Ben are ready, Cleo is not; dropping Cleo completes the set.
	if _, _, err := game.removePlayer(cleoID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !game.AllReady {
		t.Fatalf("readiness aggregate should be recomputed after removal")
	}
}

func TestSeatNumbersNeverReused(t *testing.T) {
	store, game := newLobby(t, "Ada", "Ben", "Cleo")
	benID := game.PlayerBySeat(2).ID
	if _, _, err := game.removePlayer(benID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	player, err := game.addPlayer(store.AllocPlayerID(), "Dan")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if player.Seat != 4 {
		t.Fatalf("expected fresh seat 4, got %d", player.Seat)
	}
}
