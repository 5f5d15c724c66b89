package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/cookie-milk-connect4/api"
	"github.com/wricardo/cookie-milk-connect4/game/config"
	"github.com/wricardo/cookie-milk-connect4/game/engine"
	"github.com/wricardo/cookie-milk-connect4/game/service"
	"github.com/wricardo/cookie-milk-connect4/game/session"
)

// newLiveClient points a Client at a real API server backed by in-memory
// sessions.
func newLiveClient(t *testing.T) *Client {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}
	sessions := session.NewManager()
	if _, err := sessions.Create(service.DefaultSessionID, configs.GetDefault()); err != nil {
		t.Fatalf("default session: %v", err)
	}

	srv := httptest.NewServer(api.NewServer(service.NewGameService(sessions, configs), nil, api.Options{}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("%s returned no content", name)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("%s: expected text content", name)
	}
	return text.Text, result.IsError
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"session not found"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/plain", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "API error: 500") {
		t.Errorf("Expected 'API error: 500', got: %v", err)
	}

	err = client.apiCall(context.Background(), "GET", "/json", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("Expected API error message, got: %v", err)
	}
}

func TestClient_EscapesSessionID(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.EscapedPath(), r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"session_id": "x"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, isErr := callTool(t, client.handleGetBoard, "get_board", map[string]interface{}{"session_id": "a/b?c"}); isErr {
		t.Fatal("Unexpected tool error")
	}
	if gotPath != "/api/sessions/a%2Fb%3Fc/board" {
		t.Errorf("Expected escaped session ID in path, got %s", gotPath)
	}
	if gotQuery != "" {
		t.Errorf("Expected no query string, got %s", gotQuery)
	}
}

func TestClient_SessionTools(t *testing.T) {
	client := newLiveClient(t)

	text, isErr := callTool(t, client.handleCreateSession, "create_session", map[string]interface{}{})
	if isErr || !strings.Contains(text, "Created session:") || !strings.Contains(text, "⬜⬜⬜⬜⬜⬜") {
		t.Errorf("Unexpected create_session output: %s", text)
	}

	text, isErr = callTool(t, client.handleCreateSession, "create_session", map[string]interface{}{"config_id": "missing"})
	if !isErr {
		t.Errorf("Expected error for missing preset, got: %s", text)
	}

	text, _ = callTool(t, client.handleListSessions, "list_sessions", map[string]interface{}{})
	if !strings.Contains(text, "Active sessions (2)") || !strings.Contains(text, "default [preset: classic") {
		t.Errorf("Unexpected list_sessions output: %s", text)
	}

	text, isErr = callTool(t, client.handleGetSession, "get_session", map[string]interface{}{"session_id": "nope"})
	if !isErr || !strings.Contains(text, "session not found") {
		t.Errorf("Expected session not found, got: %s", text)
	}
}

func TestClient_PlayTools(t *testing.T) {
	client := newLiveClient(t)
	args := func(team string, column int) map[string]interface{} {
		return map[string]interface{}{"session_id": "default", "team": team, "column": float64(column)}
	}

	text, isErr := callTool(t, client.handlePlace, "place", args("cookie", 2))
	if isErr || !strings.HasPrefix(text, "✓ cookie placed in column 2, row 1") {
		t.Errorf("Unexpected place output: %s", text)
	}

	text, isErr = callTool(t, client.handlePlace, "place", args("milk", 9))
	if !isErr || !strings.Contains(text, "[invalid_column]") || !strings.Contains(text, "Status: ongoing") {
		t.Errorf("Expected rejected place with board, got: %s", text)
	}

	text, isErr = callTool(t, client.handlePlace, "place", args("juice", 1))
	if !isErr || !strings.Contains(text, "invalid team") {
		t.Errorf("Expected invalid team error, got: %s", text)
	}

	text, _ = callTool(t, client.handleGetBoard, "get_board", map[string]interface{}{"session_id": "default"})
	if !strings.Contains(text, "⬜⬛🍪⬛⬛⬜") || !strings.Contains(text, "Moves: 2") {
		t.Errorf("Unexpected get_board output: %s", text)
	}

	text, _ = callTool(t, client.handleMoveHistory, "move_history", map[string]interface{}{"session_id": "default", "order": "asc"})
	if !strings.Contains(text, "1. cookie -> column 2, row 1 ✓") || !strings.Contains(text, "2. milk -> column 9 ✗ invalid column") {
		t.Errorf("Unexpected move_history output: %s", text)
	}

	text, _ = callTool(t, client.handleRandomBoard, "random_board", map[string]interface{}{"session_id": "default"})
	if !strings.Contains(text, "session board unchanged") || strings.Contains(text, "⬛") {
		t.Errorf("Unexpected random_board output: %s", text)
	}

	text, isErr = callTool(t, client.handleReset, "reset_board", map[string]interface{}{"session_id": "default"})
	if isErr || !strings.Contains(text, "Board reset.") || !strings.Contains(text, "resets: 1") {
		t.Errorf("Unexpected reset_board output: %s", text)
	}
}

func TestClient_InfoTools(t *testing.T) {
	client := newLiveClient(t)

	text, _ := callTool(t, client.handleListConfigs, "list_configs", map[string]interface{}{})
	if !strings.Contains(text, "No presets available") {
		t.Errorf("Expected empty preset list, got: %s", text)
	}

	text, _ = callTool(t, client.handleGameInstructions, "game_instructions", map[string]interface{}{})
	for _, want := range []string{"🍪 cookie", "🥛 milk", "column is full", "2024"} {
		if !strings.Contains(text, want) {
			t.Errorf("Instructions missing %q", want)
		}
	}
}

func TestFormatBoard(t *testing.T) {
	board := &service.BoardView{
		Rendered:        "R\n",
		Status:          engine.Won,
		Winner:          "milk",
		PlayableColumns: []int{2, 3},
		MoveCount:       7,
	}
	text := formatBoard(board)
	if !strings.Contains(text, "Status: won (winner: milk)") {
		t.Errorf("Unexpected status line: %s", text)
	}
	if strings.Contains(text, "Playable columns") {
		t.Error("Finished boards should not list playable columns")
	}

	board.Winner = ""
	board.Status = engine.Ongoing
	if text := formatBoard(board); !strings.Contains(text, "Playable columns: 2, 3") {
		t.Errorf("Expected playable columns, got: %s", text)
	}

	if formatBoard(nil) != "Board: unavailable" {
		t.Error("nil board should format as unavailable")
	}
}
