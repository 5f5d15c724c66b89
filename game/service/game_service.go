package service

import (
	"context"
	"errors"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidTeam     = errors.New("invalid team")
)

// DefaultSessionID names the session behind the shared board routes.
const DefaultSessionID = "default"

// GameService defines all board-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board Operations
	GetBoard(ctx context.Context, sessionID string) (*BoardView, error)
	Place(ctx context.Context, sessionID, team string, column int) (*PlaceResult, error)
	Reset(ctx context.Context, sessionID string) (*BoardView, error)
	RandomBoard(ctx context.Context, sessionID string, includeEmpty bool) (*BoardView, error)

	// History
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.Preset, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, preset *engine.Preset) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, preset *engine.Preset) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Preset, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.Preset
}
