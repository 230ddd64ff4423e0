package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrNotFound covers a vanished game or player; the poller uses it
	// to fall back to the start screen.
	ErrNotFound = errors.New("not found")
	// ErrRejected covers declined mutations: full lobby, premature
	// start, rolling out of turn.
	ErrRejected = errors.New("request rejected")
)

// Client is a typed wrapper over the server's JSON API. All calls take a
// context so the poller can abandon an in-flight fetch on shutdown.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListGames(ctx context.Context) ([]GameState, error) {
	var games []GameState
	err := c.do(ctx, http.MethodGet, "/api/games", nil, &games)
	return games, err
}

func (c *Client) CreateGame(ctx context.Context, playerName string) (GameState, error) {
	var game GameState
	err := c.do(ctx, http.MethodPost, "/api/games", map[string]string{
		"name": playerName,
	}, &game)
	return game, err
}

func (c *Client) FetchGame(ctx context.Context, gameID string) (GameState, error) {
	var game GameState
	err := c.do(ctx, http.MethodGet, "/api/games/"+gameID, nil, &game)
	return game, err
}

func (c *Client) JoinGame(ctx context.Context, gameID, playerName string) (GameState, error) {
	var game GameState
	err := c.do(ctx, http.MethodPut, "/api/games/"+gameID+"/join", map[string]string{
		"name": playerName,
	}, &game)
	return game, err
}

func (c *Client) SetReady(ctx context.Context, gameID string, seat int, ready bool) (PlayerState, error) {
	var player PlayerState
	path := "/api/games/" + gameID + "/players/" + strconv.Itoa(seat) + "/ready"
	err := c.do(ctx, http.MethodPut, path, map[string]bool{
		"ready": ready,
	}, &player)
	return player, err
}

func (c *Client) StartGame(ctx context.Context, gameID string) (GameState, error) {
	var game GameState
	err := c.do(ctx, http.MethodPut, "/api/games/"+gameID+"/start", map[string]any{
		"gameStarted": true,
		"gameState":   "Game",
	}, &game)
	return game, err
}

func (c *Client) RollDice(ctx context.Context, gameID, playerName string) (GameState, error) {
	var game GameState
	err := c.do(ctx, http.MethodPut, "/api/games/"+gameID+"/rollDice", map[string]string{
		"playerName": playerName,
	}, &game)
	return game, err
}

// ReportPosition tells the server where this client believes its token is.
// The server never trusts the value; the echoed player record is the
// authoritative one.
func (c *Client) ReportPosition(ctx context.Context, gameID string, playerID, position int) (PlayerState, error) {
	var player PlayerState
	path := "/api/games/" + gameID + "/players/" + strconv.Itoa(playerID) + "/position"
	err := c.do(ctx, http.MethodPut, path, map[string]int{
		"position": position,
	}, &player)
	return player, err
}

func (c *Client) LeaveGame(ctx context.Context, gameID string, playerID int) error {
	path := "/api/games/" + gameID + "/players/" + strconv.Itoa(playerID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if dest == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(dest)
	}

	message := decodeErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusConflict, http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrRejected, message)
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, message)
	}
}

func decodeErrorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Error == "" {
		return "no details"
	}
	return payload.Error
}
