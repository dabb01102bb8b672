// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/Holk-VB/riichiBackend/network"
)

// Session is one authenticated connection. UserID is zero until the auth
// message arrives; GameID is empty until the user joins a game.
type Session struct {
	ID         string
	Conn       network.Connection
	UserID     int64
	Username   string
	GameID     string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Authenticated reports whether the auth message arrived.
func (s *Session) Authenticated() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.UserID != 0
}

// Authenticate binds the connection to a user.
func (s *Session) Authenticate(userID int64, username string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserID = userID
	s.Username = username
}

// JoinGame binds the session to a game for sync pushes.
func (s *Session) JoinGame(gameID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.GameID = gameID
}

// LeaveGame clears the game binding.
func (s *Session) LeaveGame() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.GameID = ""
}

// CurrentGame returns the bound game id, empty when not in a game.
func (s *Session) CurrentGame() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.GameID
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(msgID, data)
}

func (s *Session) SendJSON(msgID uint16, v interface{}) error {
	s.LastActive = time.Now()
	return s.Conn.SendJSON(msgID, v)
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks live sessions.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByUserID returns every live session of the user. Reconnects can leave
// more than one open for a moment.
func (m *Manager) GetByUserID(userID int64) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.UserID == userID {
			result = append(result, session)
		}
	}
	return result
}

// GetByGameID returns every session bound to the game.
func (m *Manager) GetByGameID(gameID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.CurrentGame() == gameID {
			result = append(result, session)
		}
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
