package tiles

import (
	"errors"
	"sort"

	"github.com/Holk-VB/riichiBackend/rng"
)

// Role tags what a stack is for. A meld is a stack with RoleMeld plus a
// MeldInfo; there is no deeper hierarchy.
type Role string

const (
	RoleTileSet        Role = "tile_set"
	RoleConcealedHand  Role = "concealed_hand"
	RoleDiscard        Role = "discard"
	RoleMeld           Role = "meld"
	RoleWall           Role = "wall"
	RoleDeadWall       Role = "dead_wall"
	RoleDoraIndicators Role = "dora_indicators"
)

var (
	ErrDuplicateHolder   = errors.New("holder already owns a tile stack")
	ErrTileNotInStack    = errors.New("tile is not a member of this stack")
	ErrInsufficientTiles = errors.New("not enough tiles in stack")
)

// MeldInfo carries the meld-specific attributes of a RoleMeld stack.
type MeldInfo struct {
	// Type is the call that formed the meld: chi, pon, or an opened,
	// closed or late kan.
	Type string
	Suit Suit
	// Opened is false only for a closed kan, which does not open the hand.
	Opened bool
}

// Stack is an ordered, mutable sequence of tiles owned by exactly one
// holder. Length always equals the member count; member positions are a
// contiguous 0-based permutation. Stack operations are not safe for
// concurrent use; callers serialize access per hand.
type Stack struct {
	Name   string
	Role   Role
	Length int
	Meld   *MeldInfo

	tiles []*Tile
}

// NewStack creates an empty, unregistered stack. Stacks whose holder must
// be unique within a hand are created through a StackSet instead.
func NewStack(name string, role Role) *Stack {
	return &Stack{Name: name, Role: role}
}

// NewMeld creates a meld stack. Meld names repeat across players, so melds
// bypass the holder registry.
func NewMeld(name string, suit Suit, meldType string, opened bool) *Stack {
	return &Stack{
		Name: name,
		Role: RoleMeld,
		Meld: &MeldInfo{Type: meldType, Suit: suit, Opened: opened},
	}
}

// StackSet registers the stacks of one hand by holder name, enforcing that
// a holder owns at most one stack.
type StackSet struct {
	stacks map[string]*Stack
}

func NewStackSet() *StackSet {
	return &StackSet{stacks: make(map[string]*Stack)}
}

// Create allocates an empty stack bound to the named holder.
func (set *StackSet) Create(name string, role Role) (*Stack, error) {
	if _, exists := set.stacks[name]; exists {
		return nil, ErrDuplicateHolder
	}
	stack := NewStack(name, role)
	set.stacks[name] = stack
	return stack, nil
}

// Get returns the stack owned by the named holder.
func (set *StackSet) Get(name string) (*Stack, bool) {
	stack, exists := set.stacks[name]
	return stack, exists
}

// AddTile appends a brand new tile to the stack. Used only while building
// the 136-tile set at hand setup; tiles move between stacks afterwards.
func (s *Stack) AddTile(id int, suit Suit, name string) *Tile {
	tile := &Tile{ID: id, Suit: suit, Name: name, stack: s, pos: s.Length}
	s.tiles = append(s.tiles, tile)
	s.Length++
	return tile
}

// TransferTo moves one tile from s to dst. The remaining tiles of s keep
// their relative order and close the gap; the tile is appended at the end
// of dst. Both lengths are updated with the move.
func (s *Stack) TransferTo(dst *Stack, tile *Tile) error {
	if tile == nil || tile.stack != s {
		return ErrTileNotInStack
	}

	idx := tile.pos
	s.tiles = append(s.tiles[:idx], s.tiles[idx+1:]...)
	for _, moved := range s.tiles[idx:] {
		moved.pos--
	}
	s.Length--

	tile.stack = dst
	tile.pos = dst.Length
	dst.tiles = append(dst.tiles, tile)
	dst.Length++
	return nil
}

// PickIn removes the top tile (highest position) of src n times, appending
// each to s. All-or-nothing: if src holds fewer than n tiles no tile moves.
func (s *Stack) PickIn(src *Stack, n int) error {
	if src.Length < n {
		return ErrInsufficientTiles
	}
	for i := 0; i < n; i++ {
		tile := src.tiles[src.Length-1]
		src.tiles = src.tiles[:src.Length-1]
		src.Length--

		tile.stack = s
		tile.pos = s.Length
		s.tiles = append(s.tiles, tile)
		s.Length++
	}
	return nil
}

// Shuffle randomizes the order of member tiles using the game's seeded
// stream. Membership is unchanged. The caller persists the stream state
// afterwards so shuffles replay from the stored seed.
func (s *Stack) Shuffle(stream *rng.Stream) {
	stream.Shuffle(len(s.tiles), func(i, j int) {
		s.tiles[i], s.tiles[j] = s.tiles[j], s.tiles[i]
	})
	for i, tile := range s.tiles {
		tile.pos = i
	}
}

// SortDefault reorders the stack by suit then name using the fixed display
// ordering. Applied to a concealed hand after every pick.
func (s *Stack) SortDefault() {
	sort.SliceStable(s.tiles, func(i, j int) bool {
		a, b := s.tiles[i], s.tiles[j]
		if a.Suit != b.Suit {
			return suitRank[a.Suit] < suitRank[b.Suit]
		}
		return nameRank[a.Name] < nameRank[b.Name]
	})
	for i, tile := range s.tiles {
		tile.pos = i
	}
}

// Contains reports whether the stack holds at least n tiles of the kind.
func (s *Stack) Contains(suit Suit, name string, n int) bool {
	return s.Count(suit, name) >= n
}

// Count returns how many member tiles match the kind.
func (s *Stack) Count(suit Suit, name string) int {
	count := 0
	for _, tile := range s.tiles {
		if tile.Suit == suit && tile.Name == name {
			count++
		}
	}
	return count
}

// Tiles returns the member tiles in position order. The slice is a copy;
// the tiles are not.
func (s *Stack) Tiles() []*Tile {
	out := make([]*Tile, len(s.tiles))
	copy(out, s.tiles)
	return out
}

// FindByID returns the member tile with the given id.
func (s *Stack) FindByID(id int) (*Tile, bool) {
	for _, tile := range s.tiles {
		if tile.ID == id {
			return tile, true
		}
	}
	return nil, false
}

// First returns the lowest-positioned member tile of the kind.
func (s *Stack) First(suit Suit, name string) (*Tile, bool) {
	for _, tile := range s.tiles {
		if tile.Suit == suit && tile.Name == name {
			return tile, true
		}
	}
	return nil, false
}
