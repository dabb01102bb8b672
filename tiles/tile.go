// Package tiles implements the physical tile model of a riichi mahjong hand:
// immutable tile identities, ordered tile stacks, and the transfer operations
// every higher layer composes tile movement from.
package tiles

type Suit string

const (
	SuitDot       Suit = "dot"
	SuitBamboo    Suit = "bamboo"
	SuitCharacter Suit = "character"
	SuitWind      Suit = "wind"
	SuitDragon    Suit = "dragon"
)

const (
	WindEast  = "east"
	WindSouth = "south"
	WindWest  = "west"
	WindNorth = "north"
)

const (
	DragonGreen = "green"
	DragonRed   = "red"
	DragonWhite = "white"
)

const (
	// TilesPerGame is the size of a full riichi set.
	TilesPerGame = 136
	// UniqueKinds is the number of distinct (suit, name) pairs.
	UniqueKinds = 34
)

// Kind identifies one of the 34 distinct tile kinds.
type Kind struct {
	Suit Suit
	Name string
}

// Kinds lists every tile kind in creation order. A full set holds four
// copies of each.
var Kinds = []Kind{
	{SuitDot, "1"}, {SuitDot, "2"}, {SuitDot, "3"}, {SuitDot, "4"}, {SuitDot, "5"},
	{SuitDot, "6"}, {SuitDot, "7"}, {SuitDot, "8"}, {SuitDot, "9"},
	{SuitBamboo, "1"}, {SuitBamboo, "2"}, {SuitBamboo, "3"}, {SuitBamboo, "4"}, {SuitBamboo, "5"},
	{SuitBamboo, "6"}, {SuitBamboo, "7"}, {SuitBamboo, "8"}, {SuitBamboo, "9"},
	{SuitCharacter, "1"}, {SuitCharacter, "2"}, {SuitCharacter, "3"}, {SuitCharacter, "4"}, {SuitCharacter, "5"},
	{SuitCharacter, "6"}, {SuitCharacter, "7"}, {SuitCharacter, "8"}, {SuitCharacter, "9"},
	{SuitWind, WindEast}, {SuitWind, WindSouth}, {SuitWind, WindWest}, {SuitWind, WindNorth},
	{SuitDragon, DragonGreen}, {SuitDragon, DragonRed}, {SuitDragon, DragonWhite},
}

// NumberSuits are the suits whose tiles form sequences.
var NumberSuits = []Suit{SuitDot, SuitBamboo, SuitCharacter}

// IsNumberSuit reports whether tiles of the suit carry numeric names.
func IsNumberSuit(suit Suit) bool {
	return suit == SuitDot || suit == SuitBamboo || suit == SuitCharacter
}

// Winds in seating/turn order.
var Winds = []string{WindEast, WindSouth, WindWest, WindNorth}

// Tile is a single physical tile. Suit and name never change after
// creation; only its stack membership, position and orientation do, and
// those only through Stack operations.
type Tile struct {
	ID   int
	Suit Suit
	Name string

	// Horizontal marks a tile turned sideways after being stolen into a meld.
	Horizontal bool

	stack *Stack
	pos   int
}

// Stack returns the stack the tile currently belongs to.
func (t *Tile) Stack() *Stack {
	return t.stack
}

// Position returns the tile's position within its current stack.
func (t *Tile) Position() int {
	return t.pos
}
