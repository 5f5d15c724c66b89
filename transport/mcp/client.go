package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/cookie-milk-connect4/game/service"
)

// sessionPath builds a REST path for a session, escaping the ID.
func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Client is a thin MCP server whose tools proxy to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// apiError is a non-2xx answer from the REST API. Body is kept so callers
// can decode richer error payloads such as a rejected place result.
type apiError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Cookies & Milk",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Cookies & Milk - MCP Interface

A 4x4 connect-four board. Teams "cookie" and "milk" drop tiles into columns
1-4; a tile lands on the lowest empty cell. Four in a row, column or either
diagonal wins. A full board without a line is a draw. Turns are not enforced.

AVAILABLE TOOLS:
- create_session: Start a board, optionally from a preset
- list_sessions / get_session: Inspect boards
- get_board: Show a board
- place: Drop a tile (team + column)
- reset_board: Restore the starting board and reseed random boards
- random_board: Draw a random board from the session's seeded source
- move_history: Review every place attempt
- list_configs: List presets
- game_instructions: Full rules

The session "default" always exists and is the board behind /12/*.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID (use \"default\" for the shared board)",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board session, optionally from a preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID from list_configs (optional, defaults to classic)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Board operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Show the current board, its status and playable columns",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place",
		Description: "Drop a tile for a team into a column",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"team": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"cookie", "milk"},
					"description": "Team placing the tile",
				},
				"column": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     4,
					"description": "Column, 1 is leftmost",
				},
			},
			Required: []string{"session_id", "team", "column"},
		},
	}, c.handlePlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_board",
		Description: "Restore the starting board and reseed the random source",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "random_board",
		Description: "Draw a random board from the session's seeded source. The session board is not changed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"include_empty": map[string]interface{}{
					"type":        "boolean",
					"description": "Allow empty cells (default false: every cell is cookie or milk)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRandomBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "List place attempts of a session, accepted and rejected",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Moves per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Presets and help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full rules and board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		apiErr := &apiError{Status: resp.StatusCode, Body: data}
		var errResp map[string]interface{}
		if json.Unmarshal(data, &errResp) == nil {
			if msg, ok := errResp["error"].(string); ok {
				apiErr.Message = msg
			}
		}
		return apiErr
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nPreset: %s\n\n%s",
		info.ID, info.ConfigName, formatBoard(info.Board))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", len(resp.Sessions))
	for _, info := range resp.Sessions {
		b.WriteString("- " + formatSessionInfo(info) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info) + "\n\n" + formatBoard(info.Board)), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var board service.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/board"), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	body := map[string]interface{}{
		"team":   request.GetString("team", ""),
		"column": request.GetInt("column", 0),
	}

	var result service.PlaceResult
	err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/place"), body, &result)
	if err != nil {
		// A rejected move still carries the board.
		var apiErr *apiError
		if errors.As(err, &apiErr) && json.Unmarshal(apiErr.Body, &result) == nil && result.Board != nil {
			return mcp.NewToolResultError(formatPlaceResult(&result)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPlaceResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var resp struct {
		Board *service.BoardView `json:"board"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Board reset.\n\n" + formatBoard(resp.Board)), nil
}

func (c *Client) handleRandomBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	path := sessionPath(sessionID, "/random-board")
	if request.GetBool("include_empty", false) {
		path += "?include_empty=true"
	}

	var board service.BoardView
	if err := c.apiCall(ctx, "GET", path, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Random board (session board unchanged):\n\n" + board.Rendered), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	page := request.GetInt("page", 1)
	limit := request.GetInt("limit", 20)
	order := request.GetString("order", "desc")

	path := sessionPath(sessionID, fmt.Sprintf("/history?page=%d&limit=%d&order=%s", page, limit, url.QueryEscape(order)))

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(configs) == 0 {
		return mcp.NewToolResultText("No presets available (the built-in classic board is always used by default)"), nil
	}

	var b strings.Builder
	b.WriteString("Available presets:\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s (seed %d)", cfg.ConfigID, cfg.Name, cfg.Seed)
		if cfg.Description != "" {
			b.WriteString(" - " + cfg.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `COOKIES & MILK

BOARD
4 columns by 4 rows. Columns are numbered 1-4 from the left. Tiles fall to the
lowest empty cell of the chosen column.

LEGEND
⬛ empty   🍪 cookie   🥛 milk   ⬜ wall (left, right and bottom edge)

WINNING
Four tiles of one team in a row, a column, or either long diagonal. A board
that fills up without such a line is a draw ("No winner."). A finished board
rejects further tiles until it is reset.

TURNS
Not enforced: either team may place at any time.

ERRORS
- invalid column: the column is not 1-4
- column is full: all four cells of the column are taken
- game is over: the board already has a winner or is full

RANDOM BOARDS
random_board draws from a source seeded by the session preset (2024 for the
classic board). Reset reseeds it, so the sequence of random boards repeats
after every reset.`

func formatSessionInfo(info *service.SessionInfo) string {
	status := "unknown"
	moves := 0
	if info.Board != nil {
		status = string(info.Board.Status)
		if info.Board.Winner != "" {
			status += " (" + info.Board.Winner + ")"
		}
		moves = info.Board.MoveCount
	}
	return fmt.Sprintf("%s [preset: %s, status: %s, moves: %d]", info.ID, info.ConfigName, status, moves)
}

func formatBoard(board *service.BoardView) string {
	if board == nil {
		return "Board: unavailable"
	}

	var b strings.Builder
	b.WriteString(board.Rendered)
	fmt.Fprintf(&b, "\nStatus: %s", board.Status)
	if board.Winner != "" {
		fmt.Fprintf(&b, " (winner: %s)", board.Winner)
	}
	b.WriteString("\n")
	if len(board.PlayableColumns) > 0 && board.Winner == "" {
		cols := make([]string, len(board.PlayableColumns))
		for i, col := range board.PlayableColumns {
			cols[i] = fmt.Sprint(col)
		}
		fmt.Fprintf(&b, "Playable columns: %s\n", strings.Join(cols, ", "))
	}
	fmt.Fprintf(&b, "Moves: %d, resets: %d\n", board.MoveCount, board.Resets)
	return b.String()
}

func formatPlaceResult(result *service.PlaceResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ ")
	} else {
		b.WriteString("✗ ")
	}
	b.WriteString(result.Message)
	if result.ErrorCode != "" {
		fmt.Fprintf(&b, " [%s]", result.ErrorCode)
	}
	b.WriteString("\n\n")
	b.WriteString(formatBoard(result.Board))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), total %d\n\n", history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Moves) == 0 {
		b.WriteString("(no moves)\n")
		return b.String()
	}

	for _, move := range history.Moves {
		if move.Accepted {
			fmt.Fprintf(&b, "%d. %s -> column %d, row %d ✓ [%s]\n", move.Number, move.Team, move.Column, move.Row, move.Status)
		} else {
			fmt.Fprintf(&b, "%d. %s -> column %d ✗ %s\n", move.Number, move.Team, move.Column, move.Error)
		}
	}
	return b.String()
}
