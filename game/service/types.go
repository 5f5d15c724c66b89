package service

import (
	"time"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string         `json:"id"`
	ConfigName     string         `json:"config_name"`
	CreatedAt      time.Time      `json:"created_at"`
	LastAccessedAt time.Time      `json:"last_accessed_at"`
	Board          *BoardView     `json:"board"`
	Preset         *engine.Preset `json:"preset"`
}

// BoardView is the transport friendly snapshot of a board
type BoardView struct {
	SessionID       string       `json:"session_id,omitempty"`
	Rows            []string     `json:"rows"` // top row first, '.', 'C', 'M'
	Heights         []int        `json:"heights"`
	Status          engine.State `json:"status"`
	Winner          string       `json:"winner,omitempty"`
	Rendered        string       `json:"rendered"`
	PlayableColumns []int        `json:"playable_columns"`
	MoveCount       int          `json:"move_count"`
	Resets          int          `json:"resets"`
	Random          bool         `json:"random,omitempty"`
}

// PlaceResult contains the result of a place operation. Board is always the
// board after the attempt, whether or not the move was accepted.
type PlaceResult struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	ErrorCode string      `json:"error_code,omitempty"` // invalid_column|column_full|game_over
	Board     *BoardView  `json:"board"`
	Move      *MoveRecord `json:"move,omitempty"`
	Events    []GameEvent `json:"events,omitempty"`
}

// MoveRecord is one place attempt in a session's history
type MoveRecord struct {
	Number    int         `json:"number"`
	Team      engine.Tile `json:"team"`
	Column    int         `json:"column"`        // 1-based, as requested
	Row       int         `json:"row,omitempty"` // 1-based landing row, 0 when rejected
	Accepted  bool        `json:"accepted"`
	Error     string      `json:"error,omitempty"`
	Status    string      `json:"status"` // board status after the attempt
	Timestamp int64       `json:"timestamp"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string    `json:"type"` // "place", "rejected", "won", "drawn", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []MoveRecord `json:"moves"`
	TotalMoves  int          `json:"total_moves"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalPages  int          `json:"total_pages"`
	HasNext     bool         `json:"has_next"`
	HasPrevious bool         `json:"has_previous"`
}

// ConfigInfo provides information about a preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Seed        int64  `json:"seed"`
	HasLayout   bool   `json:"has_layout"`
}
