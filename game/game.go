package game

import (
	"sort"
	"sync"
	"time"

	"github.com/Holk-VB/riichiBackend/rng"
	"github.com/Holk-VB/riichiBackend/tiles"
)

const (
	// MaxPlayers seats a standard four-player game.
	MaxPlayers = 4
	// DefaultScore is every player's starting score.
	DefaultScore = 25000
)

type GameStatus int

const (
	StatusWaiting GameStatus = iota
	StatusPlaying
	StatusOver
)

// Game is one table: its players, its seeded random stream and the hand
// currently being played. All mutations of a game and its hand go through
// the per-game lock; independent games run in parallel.
type Game struct {
	ID             string
	Seed           uint64
	Stream         *rng.Stream
	Status         GameStatus
	PrevailingWind string
	Players        []*Player
	CurrentHand    *Hand
	CreatedAt      time.Time

	mu sync.Mutex
}

func NewGame(id string, seed uint64) *Game {
	return &Game{
		ID:             id,
		Seed:           seed,
		Stream:         rng.New(seed),
		Status:         StatusWaiting,
		PrevailingWind: tiles.WindEast,
		CreatedAt:      time.Now(),
	}
}

// Lock serializes mutations of this game. Every caller touching the game
// or its hand holds it for the whole operation.
func (g *Game) Lock() {
	g.mu.Lock()
}

func (g *Game) Unlock() {
	g.mu.Unlock()
}

// Full reports whether all seats are taken.
func (g *Game) Full() bool {
	return len(g.Players) >= MaxPlayers
}

// AddPlayer seats a new user in the lobby.
func (g *Game) AddPlayer(userID int64, username string) (*Player, error) {
	if g.Full() {
		return nil, ErrGameFull
	}
	if _, ok := g.PlayerByUserID(userID); ok {
		return nil, ErrAlreadyInGame
	}
	p := &Player{UserID: userID, Username: username, Score: DefaultScore}
	g.Players = append(g.Players, p)
	return p, nil
}

// RemovePlayer unseats a user. Only waiting games allow leaving; a
// started hand keeps its four seats.
func (g *Game) RemovePlayer(userID int64) error {
	if g.Status != StatusWaiting {
		return ErrInvalidStateTransition
	}
	for i, p := range g.Players {
		if p.UserID == userID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return nil
		}
	}
	return ErrNotInGame
}

// PlayerByUserID finds the seated player for a user.
func (g *Game) PlayerByUserID(userID int64) (*Player, bool) {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p, true
		}
	}
	return nil, false
}

// Start assigns winds from the game stream, deals the first hand and gives
// the dealer their 14th tile and the opening turn. Reproducible from the
// game seed.
func (g *Game) Start() error {
	g.assignWinds()

	hand := NewHand(g.Players)
	if err := hand.SetUp(g.Stream); err != nil {
		return err
	}
	g.CurrentHand = hand
	g.Status = StatusPlaying

	dealer := g.Players[0]
	if err := hand.PlayerPick(dealer); err != nil {
		return err
	}
	dealer.Concealed.SortDefault()
	dealer.PossibleCalls = TurnPhaseCalls(dealer.Concealed)
	hand.refreshTenpai(dealer)
	dealer.StartPlaying()
	return nil
}

// assignWinds shuffles the four winds with the game stream, hands them out
// in join order, and reseats the players east first. The east player
// deals.
func (g *Game) assignWinds() {
	winds := make([]string, len(tiles.Winds))
	copy(winds, tiles.Winds)
	g.Stream.Shuffle(len(winds), func(i, j int) {
		winds[i], winds[j] = winds[j], winds[i]
	})

	for i, p := range g.Players {
		p.Wind = winds[i]
		p.IsDealer = p.Wind == tiles.WindEast
	}

	seatRank := map[string]int{
		tiles.WindEast:  0,
		tiles.WindSouth: 1,
		tiles.WindWest:  2,
		tiles.WindNorth: 3,
	}
	sort.Slice(g.Players, func(i, j int) bool {
		return seatRank[g.Players[i].Wind] < seatRank[g.Players[j].Wind]
	})
}

// Manager tracks every live game.
type Manager struct {
	games map[string]*Game
	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{games: make(map[string]*Game)}
}

// CreateGame registers a new game under the id.
func (m *Manager) CreateGame(id string, seed uint64) *Game {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	g := NewGame(id, seed)
	m.games[id] = g
	return g
}

// Add registers an existing game, typically one restored from storage.
func (m *Manager) Add(g *Game) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.games[g.ID] = g
}

// Get returns the game with the id.
func (m *Manager) Get(id string) (*Game, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	g, exists := m.games[id]
	return g, exists
}

// Remove drops a game from the manager.
func (m *Manager) Remove(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.games, id)
}

// FindJoinable returns any game still waiting for players.
func (m *Manager) FindJoinable() *Game {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, g := range m.games {
		if g.Status == StatusWaiting && !g.Full() {
			return g
		}
	}
	return nil
}

// All returns every live game.
func (m *Manager) All() []*Game {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g)
	}
	return out
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.games)
}
