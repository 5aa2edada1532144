package wizard

import (
	"sync"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// Session is the progress of one scene in one chat. A session is only
// touched from its chat's update lane, so it carries no lock of its own.
type Session struct {
	ChatID int64
	Scene  SceneID
	Step   StepID

	FileID       string
	Kind         media.Kind
	CategoryType media.CategoryType
	Event        *catalog.Item
	Class        *catalog.Item
	Individual   *catalog.Item
	Category     string

	// Saved counts records appended in batch mode.
	Saved int
}

// Manager keeps at most one session per chat.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

func (m *Manager) Get(chatID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[chatID]
}

// Start creates a fresh session, replacing any existing one for the chat.
func (m *Manager) Start(chatID int64, scene SceneID, step StepID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{
		ChatID: chatID,
		Scene:  scene,
		Step:   step,
	}
	m.sessions[chatID] = s
	return s
}

func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// clearIf removes the chat's session only if it is still s.
func (m *Manager) clearIf(s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.ChatID] != s {
		return false
	}
	delete(m.sessions, s.ChatID)
	return true
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
