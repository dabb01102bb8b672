package session

import (
	"net"
	"testing"
	"time"

	"github.com/Holk-VB/riichiBackend/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	sent []uint16
}

func (m *MockConnection) Send(msgID uint16, data []byte) error {
	m.sent = append(m.sent, msgID)
	return nil
}

func (m *MockConnection) SendJSON(msgID uint16, v interface{}) error {
	m.sent = append(m.sent, msgID)
	return nil
}

func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestSession_Authenticate(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})
	if sess.Authenticated() {
		t.Error("a fresh session must not be authenticated")
	}

	sess.Authenticate(42, "alice")
	if !sess.Authenticated() {
		t.Error("session should be authenticated after binding")
	}
	if sess.UserID != 42 || sess.Username != "alice" {
		t.Errorf("identity not bound: %d %q", sess.UserID, sess.Username)
	}
}

func TestSession_GameBinding(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})
	if sess.CurrentGame() != "" {
		t.Error("a fresh session must not be in a game")
	}

	sess.JoinGame("g1")
	if sess.CurrentGame() != "g1" {
		t.Errorf("game binding %q, want g1", sess.CurrentGame())
	}

	sess.LeaveGame()
	if sess.CurrentGame() != "" {
		t.Error("leaving must clear the binding")
	}
}

func TestManager_AddGetRemove(t *testing.T) {
	manager := NewManager()
	sess := NewSession("s1", &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("count %d, want 1", manager.Count())
	}

	got, exists := manager.Get("s1")
	if !exists || got != sess {
		t.Fatal("added session not retrievable")
	}

	manager.Remove("s1")
	if _, exists := manager.Get("s1"); exists {
		t.Fatal("removed session still retrievable")
	}
}

func TestManager_GetByUserID(t *testing.T) {
	manager := NewManager()

	one := NewSession("s1", &MockConnection{})
	one.Authenticate(100, "a")
	two := NewSession("s2", &MockConnection{})
	two.Authenticate(200, "b")
	three := NewSession("s3", &MockConnection{})
	three.Authenticate(100, "a")

	manager.Add(one)
	manager.Add(two)
	manager.Add(three)

	if got := manager.GetByUserID(100); len(got) != 2 {
		t.Errorf("expected 2 sessions for user 100, got %d", len(got))
	}
	if got := manager.GetByUserID(300); len(got) != 0 {
		t.Errorf("expected no sessions for user 300, got %d", len(got))
	}
}

func TestManager_GetByGameID(t *testing.T) {
	manager := NewManager()

	one := NewSession("s1", &MockConnection{})
	one.JoinGame("g1")
	two := NewSession("s2", &MockConnection{})
	two.JoinGame("g2")
	three := NewSession("s3", &MockConnection{})
	three.JoinGame("g1")

	manager.Add(one)
	manager.Add(two)
	manager.Add(three)

	if got := manager.GetByGameID("g1"); len(got) != 2 {
		t.Errorf("expected 2 sessions in g1, got %d", len(got))
	}
	if got := manager.GetByGameID("empty"); len(got) != 0 {
		t.Errorf("expected no sessions, got %d", len(got))
	}
}
