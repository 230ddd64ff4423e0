package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createGame(t *testing.T, ts *httptest.Server, hostName string) GameSnapshot {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]any{"name": hostName})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game: expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	var snap GameSnapshot
	decodeBody(t, resp, &snap)
	return snap
}

func joinGame(t *testing.T, ts *httptest.Server, gameID, name string) GameSnapshot {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPut, "/api/games/"+gameID+"/join", map[string]any{"name": name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join game: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var snap GameSnapshot
	decodeBody(t, resp, &snap)
	return snap
}

func setReady(t *testing.T, ts *httptest.Server, gameID string, seat int, ready bool) {
	t.Helper()
	path := "/api/games/" + gameID + "/players/" + strconv.Itoa(seat) + "/ready"
	resp := doRequest(t, ts, http.MethodPut, path, map[string]any{"ready": ready})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set ready: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func startGame(t *testing.T, ts *httptest.Server, gameID string) *http.Response {
	t.Helper()
	return doRequest(t, ts, http.MethodPut, "/api/games/"+gameID+"/start", map[string]any{
		"gameStarted": true,
		"gameState":   "Game",
	})
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func fetchGame(t *testing.T, ts *httptest.Server, gameID string) GameSnapshot {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+gameID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch game: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var snap GameSnapshot
	decodeBody(t, resp, &snap)
	return snap
}
