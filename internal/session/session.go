package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/gmsas95/pulsetrack/internal/errors"
	"github.com/gmsas95/pulsetrack/internal/store"
)

// Session is the current-user signal the dashboard core consumes. The core
// performs no operations until IsAuthenticated is true and UserID is set.
type Session struct {
	Token           string `json:"-"`
	UserID          string `json:"user_id"`
	IsLoading       bool   `json:"is_loading"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

type persisted struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager issues, resumes and clears sessions backed by the badger KV.
// A single listener set is notified whenever the user id changes so view
// holders drop data belonging to the previous user.
type Manager struct {
	store  *store.Store
	logger *zap.Logger
	ttl    time.Duration

	mu        sync.Mutex
	current   Session
	listeners []func(userID string)
}

// NewManager creates a session manager with the given session lifetime.
func NewManager(st *store.Store, logger *zap.Logger, ttl time.Duration) *Manager {
	return &Manager{
		store:  st,
		logger: logger,
		ttl:    ttl,
		current: Session{
			IsLoading: true,
		},
	}
}

// OnChange registers a listener for user switches. Listeners run with the
// manager unlocked and receive the new user id ("" on sign-out).
func (m *Manager) OnChange(fn func(userID string)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Current returns the session snapshot.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// SignIn issues a new session for a user and persists it with a TTL.
func (m *Manager) SignIn(userID string) (Session, error) {
	if userID == "" {
		return Session{}, apperrors.New(apperrors.ErrValidation.Code, "user id is required")
	}

	token := uuid.NewString()
	data, _ := json.Marshal(persisted{UserID: userID, CreatedAt: time.Now()})
	if err := m.store.SetSession(token, data, m.ttl); err != nil {
		return Session{}, apperrors.Wrap(err, apperrors.ErrStorage.Code, "persist session")
	}

	sess := Session{
		Token:           token,
		UserID:          userID,
		IsAuthenticated: true,
	}
	m.swap(sess)

	m.logger.Info("Session started", zap.String("user_id", userID))
	return sess, nil
}

// Resume restores a session from its token.
func (m *Manager) Resume(token string) (Session, error) {
	data, err := m.store.GetSession(token)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return Session{}, apperrors.Wrap(err, apperrors.ErrSessionNotFound.Code, "resume session")
		}
		return Session{}, apperrors.Wrap(err, apperrors.ErrStorage.Code, "resume session")
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return Session{}, apperrors.Wrap(err, apperrors.ErrSessionNotFound.Code, "resume session")
	}

	sess := Session{
		Token:           token,
		UserID:          p.UserID,
		IsAuthenticated: true,
	}
	m.swap(sess)
	return sess, nil
}

// SignOut deletes the current session and clears the user signal.
func (m *Manager) SignOut() {
	m.mu.Lock()
	token := m.current.Token
	m.mu.Unlock()

	if token != "" {
		if err := m.store.DeleteSession(token); err != nil {
			m.logger.Warn("Failed to delete session", zap.Error(err))
		}
	}
	m.swap(Session{})
}

// swap installs the new session and fires listeners if the user changed.
func (m *Manager) swap(next Session) {
	m.mu.Lock()
	prev := m.current.UserID
	m.current = next
	listeners := make([]func(string), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	if prev != next.UserID {
		for _, fn := range listeners {
			fn(next.UserID)
		}
	}
}
