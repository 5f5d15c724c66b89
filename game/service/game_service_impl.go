package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
	"github.com/wricardo/cookie-milk-connect4/metrics"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given preset name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(presetName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == presetName {
				return cfg.ConfigID
			}
		}
	}
	if presetName == "" {
		return "classic"
	}
	return presetName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var preset *engine.Preset
	if configName != "" {
		loaded, err := s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				configIDs := make([]string, 0, len(availableConfigs))
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s' not available (%w). Available configs: %v", configName, err, configIDs)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
		preset = loaded
	} else {
		preset = s.configs.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", preset)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(preset.Name)
	}

	log.Info().Str("session", sess.ID).Str("config", configID).Msg("session created")
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Preset.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Preset.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// GetBoard returns the current board of a session
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return newBoardView(sess.ID, sess.Snapshot()), nil
}

// Place drops a tile for team into the 1-based column. Unknown teams fail
// with ErrInvalidTeam before the board is touched. When the engine rejects
// the move the result still carries the current board and the engine error
// is returned alongside it.
func (s *gameServiceImpl) Place(ctx context.Context, sessionID, team string, column int) (*PlaceResult, error) {
	tile, err := engine.ParseTile(team)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTeam, err)
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	record, snap, moveErr := sess.Play(tile, column)
	status := snap.Board.Status()
	view := newBoardView(sess.ID, snap)

	result := &PlaceResult{
		Success: moveErr == nil,
		Board:   view,
		Move:    &record,
	}
	now := time.Now()

	if moveErr != nil {
		var me engine.MoveError
		code := "unknown"
		if errors.As(moveErr, &me) {
			code = me.Code()
		}
		result.ErrorCode = code
		result.Message = fmt.Sprintf("Cannot place %s in column %d: %v", tile, column, moveErr)
		result.Events = append(result.Events, GameEvent{Type: "rejected", Message: result.Message, Timestamp: now})
		metrics.MovesTotal.WithLabelValues(tile.String(), code).Inc()

		log.Debug().Str("session", sess.ID).Str("team", tile.String()).Int("column", column).
			Str("code", code).Msg("move rejected")
		return result, moveErr
	}

	metrics.MovesTotal.WithLabelValues(tile.String(), "ok").Inc()
	result.Message = fmt.Sprintf("%s placed in column %d, row %d", tile, column, record.Row)
	result.Events = append(result.Events, GameEvent{Type: "place", Message: result.Message, Timestamp: now})

	switch status.State {
	case engine.Won:
		msg := fmt.Sprintf("%s wins!", status.Winner.Emoji())
		result.Message += ". " + msg
		result.Events = append(result.Events, GameEvent{Type: "won", Message: msg, Timestamp: now})
		metrics.GamesFinishedTotal.WithLabelValues(status.Winner.String()).Inc()
		log.Info().Str("session", sess.ID).Str("winner", status.Winner.String()).Msg("game won")
	case engine.Drawn:
		result.Message += ". No winner."
		result.Events = append(result.Events, GameEvent{Type: "drawn", Message: "No winner.", Timestamp: now})
		metrics.GamesFinishedTotal.WithLabelValues("draw").Inc()
		log.Info().Str("session", sess.ID).Msg("game drawn")
	}

	return result, nil
}

// Reset resets a session to its starting board and reseeds its random source
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*BoardView, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	snap := sess.Reset()
	metrics.ResetsTotal.Inc()
	log.Debug().Str("session", sess.ID).Msg("board reset")

	return newBoardView(sess.ID, snap), nil
}

// RandomBoard draws a random board from the session's random source
func (s *gameServiceImpl) RandomBoard(ctx context.Context, sessionID string, includeEmpty bool) (*BoardView, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	palette := engine.Marks
	if includeEmpty {
		palette = []engine.Tile{engine.Empty, engine.Cookie, engine.Milk}
	}
	board := sess.RandomBoard(palette...)
	metrics.RandomBoardsTotal.Inc()

	view := newBoardView(sess.ID, Snapshot{Board: board})
	view.Random = true
	return view, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return paginate(sess.History(), opts), nil
}

// ListConfigs returns available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.Preset, error) {
	return s.configs.LoadConfig(configName)
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sess.ID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	snap := sess.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: snap.LastAccessedAt,
		Board:          newBoardView(sess.ID, snap),
		Preset:         sess.Preset,
	}
}

func newBoardView(sessionID string, snap Snapshot) *BoardView {
	board := snap.Board
	status := board.Status()
	heights := board.Heights()

	view := &BoardView{
		SessionID:       sessionID,
		Rows:            board.Layout(),
		Heights:         heights[:],
		Status:          status.State,
		Rendered:        board.String(),
		PlayableColumns: board.PlayableColumns(),
		MoveCount:       snap.MoveCount,
		Resets:          snap.Resets,
	}
	if status.State == engine.Won {
		view.Winner = status.Winner.String()
	}
	return view
}

// paginate applies the history paging rules: page >= 1, limit defaults to 20
// and is capped at 100, order defaults to newest first.
func paginate(history []MoveRecord, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	opts.Order = strings.ToLower(opts.Order)
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	moves := []MoveRecord{}
	// Pages past the last one are empty; compare before multiplying so a huge
	// page cannot overflow.
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := min(start+opts.Limit, total)
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}
