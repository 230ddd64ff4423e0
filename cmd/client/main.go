package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"horse-race/internal/client"
	"horse-race/internal/config"
	"horse-race/internal/logger"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "base URL of the game server")
	name := flag.String("name", "", "player name (required)")
	join := flag.String("join", "", "id of an existing game to join; empty creates a new one")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger.Init(*logLevel)
	defer zap.L().Sync()

	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(os.Stderr, "usage: client -name <player> [-join <game-id>] [-server <url>]")
		os.Exit(2)
	}

	cfg := config.Default()
	interval := time.Duration(cfg.PollIntervalMillis) * time.Millisecond

	api := client.New(*serverURL)
	view := &consoleView{out: os.Stdout}
	session := client.NewSession(api, view, interval)

	ctx := context.Background()
	var err error
	if *join == "" {
		err = session.Create(ctx, *name)
	} else {
		err = session.Join(ctx, *join, *name)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not enter game:", err)
		os.Exit(1)
	}

	fmt.Println("commands: ready | start | roll | exit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(strings.ToLower(scanner.Text()))
		switch cmd {
		case "":
		case "ready":
			if err := session.ToggleReady(ctx); err != nil {
				fmt.Println("ready failed:", err)
			}
		case "start":
			if err := session.Start(ctx); err != nil {
				fmt.Println("start failed:", err)
			}
		case "roll":
			if err := session.Roll(ctx); err != nil {
				fmt.Println("roll failed:", err)
			}
		case "exit", "quit":
			if err := session.Exit(ctx); err != nil {
				fmt.Println("exit failed:", err)
			}
			return
		default:
			fmt.Println("unknown command:", cmd)
		}
		if !session.Polling() && session.Screen() == client.ScreenStart {
			return
		}
	}
}

// consoleView renders each screen as plain text. The poll cadence is fast,
// so it remembers the last rendering and stays quiet while nothing changed.
type consoleView struct {
	mu   sync.Mutex
	out  *os.File
	last string
}

func (v *consoleView) render(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if text == v.last {
		return
	}
	v.last = text
	fmt.Fprint(v.out, text)
}

func (v *consoleView) ShowStart(reason string) {
	v.render(fmt.Sprintf("\n-- start --\n%s\n", reason))
}

func (v *consoleView) ShowLobby(lobby client.LobbyView) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n-- lobby %s --\n", lobby.GameID)
	for _, p := range lobby.Players {
		mark := " "
		if p.Ready {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %s (seat %d)\n", mark, p.Name, p.Seat)
	}
	if lobby.CanStart {
		b.WriteString("everyone is ready, type start\n")
	}
	v.render(b.String())
}

func (v *consoleView) ShowGame(game client.GameView) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n-- game %s --\n", game.GameID)
	fmt.Fprintf(&b, "last roll: %d, turn: %s\n", game.LastDiceRoll, game.CurrentPlayerName)
	for _, p := range game.Ranking {
		fmt.Fprintf(&b, "  %s at %d\n", p.Name, p.Position)
	}
	if game.CanRoll {
		b.WriteString("your turn, type roll\n")
	}
	v.render(b.String())
}

func (v *consoleView) ShowWinner(playerName string) {
	v.render(fmt.Sprintf("\n-- winner --\n%s wins the race!\n", playerName))
}
