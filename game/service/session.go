package service

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
)

// Session represents an active board. Board, random source and history are
// only reachable through methods that hold mu.
type Session struct {
	ID        string
	Preset    *engine.Preset
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
	start          engine.Board
	board          engine.Board
	rng            *rand.Rand
	history        []MoveRecord
	resets         int
}

// Snapshot is a consistent copy of a session's mutable state.
type Snapshot struct {
	Board          engine.Board
	MoveCount      int
	Resets         int
	LastAccessedAt time.Time
}

// NewSession creates a session starting from preset. A nil preset means the
// classic empty board.
func NewSession(id string, preset *engine.Preset) (*Session, error) {
	if preset == nil {
		preset = engine.ClassicPreset()
	}
	if err := engine.ValidatePreset(preset); err != nil {
		return nil, err
	}
	start, err := preset.Board()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:             id,
		Preset:         preset,
		CreatedAt:      now,
		lastAccessedAt: now,
		start:          start,
		board:          start,
		rng:            newSource(preset.Seed),
	}, nil
}

func newSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Play drops team into the 1-based column and records the attempt. The
// returned snapshot is the state this attempt produced, taken under the same
// lock.
func (s *Session) Play(team engine.Tile, column int) (MoveRecord, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.board.PlayAt(team, column)
	status := s.board.Status()

	record := MoveRecord{
		Number:    len(s.history) + 1,
		Team:      team,
		Column:    column,
		Accepted:  err == nil,
		Status:    status.String(),
		Timestamp: time.Now().Unix(),
	}
	if err == nil {
		record.Row = pos.Row + 1
	} else {
		record.Error = err.Error()
	}
	s.history = append(s.history, record)

	return record, s.snapshotLocked(), err
}

// Reset puts the starting board back and reseeds the random source, so the
// random boards after a reset repeat the ones after the previous reset.
// History is kept. The returned snapshot is the state right after the reset.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.board = s.start
	s.rng = newSource(s.Preset.Seed)
	s.resets++
	return s.snapshotLocked()
}

// RandomBoard draws a board from the session's random source. The session
// board is left alone.
func (s *Session) RandomBoard(palette ...engine.Tile) engine.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	return engine.Random(s.rng, palette...)
}

// Snapshot copies the session state under the lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked requires mu.
func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Board:          s.board,
		MoveCount:      len(s.history),
		Resets:         s.resets,
		LastAccessedAt: s.lastAccessedAt,
	}
}

// History returns a copy of the recorded place attempts, oldest first.
func (s *Session) History() []MoveRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]MoveRecord, len(s.history))
	copy(history, s.history)
	return history
}

// Touch marks the session as used at t.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedAt = t
}

// LastAccessedAt returns the last time the session was used.
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

func (s *Session) String() string {
	return fmt.Sprintf("session(%s, %s)", s.ID, s.Preset.Name)
}
