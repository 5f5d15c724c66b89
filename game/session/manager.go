package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/cookie-milk-connect4/game/engine"
	"github.com/wricardo/cookie-milk-connect4/game/service"
	"github.com/wricardo/cookie-milk-connect4/metrics"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

const (
	idLength   = 4
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Create creates a new session with the given ID and preset. An empty ID
// gets a generated one.
func (m *Manager) Create(id string, preset *engine.Preset) (*service.Session, error) {
	if id != "" && !validID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		generated, err := m.generateSessionID()
		if err != nil {
			return nil, err
		}
		id = generated
	}

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sess, err := service.NewSession(id, preset)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.sessions[key] = sess
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return sess, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, preset *engine.Preset) (*service.Session, error) {
	sess, err := m.Get(id)
	if err == nil {
		return sess, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		sess, err = m.Create(id, preset)
		// Lost a race with another creator.
		if errors.Is(err, ErrSessionAlreadyExists) {
			return m.Get(id)
		}
		return sess, err
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	sess.Touch(time.Now())
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the
// given duration. The default session never expires.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for key, sess := range m.sessions {
		if key == service.DefaultSessionID {
			continue
		}
		if sess.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Int("remaining", len(m.sessions)).Msg("expired sessions cleaned up")
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID picks an unused random ID. Callers hold mu.
func (m *Manager) generateSessionID() (string, error) {
	for attempt := 0; attempt < 32; attempt++ {
		var sb strings.Builder
		for i := 0; i < idLength; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idAlphabet))))
			if err != nil {
				return "", fmt.Errorf("generate session ID: %w", err)
			}
			sb.WriteByte(idAlphabet[n.Int64()])
		}
		id := sb.String()
		if _, taken := m.sessions[id]; !taken && id != service.DefaultSessionID {
			return id, nil
		}
	}
	return "", errors.New("generate session ID: no free ID found")
}
