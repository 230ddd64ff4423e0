package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrRejected},
		{http.StatusBadRequest, ErrRejected},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"nope"}`, tc.status)
		}))
		c := New(ts.URL)
		_, err := c.FetchGame(t.Context(), "game-1")
		ts.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestWinnerScan(t *testing.T) {
	game := GameState{Players: []PlayerState{
		{Name: "Ada", Position: 40},
		{Name: "Ben", Position: 63},
		{Name: "Cleo", Position: 64},
	}}
	winner, ok := game.Winner()
	if !ok || winner.Name != "Ben" {
		t.Fatalf("expected first finisher in roster order, got %#v ok=%v", winner, ok)
	}

	none := GameState{Players: []PlayerState{{Name: "Ada", Position: 62}}}
	if _, ok := none.Winner(); ok {
		t.Fatalf("no player reached the finish")
	}
}

func TestRankingSortsByPositionKeepingJoinOrderOnTies(t *testing.T) {
	game := GameState{Players: []PlayerState{
		{Name: "Ada", Position: 5},
		{Name: "Ben", Position: 9},
		{Name: "Cleo", Position: 5},
	}}
	ranked := game.Ranking()
	want := []string{"Ben", "Ada", "Cleo"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Fatalf("rank %d: expected %s, got %s", i, name, ranked[i].Name)
		}
	}
	if game.Players[0].Name != "Ada" {
		t.Fatalf("ranking must not reorder the roster itself")
	}
}

func TestScreenForTransitions(t *testing.T) {
	lobby := &GameState{Players: []PlayerState{{ID: 1, Name: "Ada"}}}
	if s := screenFor(lobby, 1); s != ScreenLobby {
		t.Fatalf("expected lobby, got %s", s)
	}
	if s := screenFor(lobby, 2); s != ScreenStart {
		t.Fatalf("unknown player should land on start, got %s", s)
	}

	running := &GameState{Started: true, Players: []PlayerState{{ID: 1, Name: "Ada"}, {ID: 2, Name: "Ben"}}}
	if s := screenFor(running, 1); s != ScreenGame {
		t.Fatalf("expected game, got %s", s)
	}

	won := &GameState{Started: true, Players: []PlayerState{{ID: 1, Name: "Ada", Position: 63}}}
	if s := screenFor(won, 1); s != ScreenWinner {
		t.Fatalf("expected winner, got %s", s)
	}
}
