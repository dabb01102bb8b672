package game

import (
	"strconv"

	"github.com/Holk-VB/riichiBackend/tiles"
)

// Counts buckets a concealed hand as count vectors: one 9-slot vector per
// number suit (slot i holds the count of tile i+1) and a 7-slot honor
// vector in the fixed order east, south, west, north, green, red, white.
type Counts struct {
	Bamboo    [9]int
	Character [9]int
	Dot       [9]int
	Honor     [7]int
}

var honorIndex = map[string]int{
	tiles.WindEast:    0,
	tiles.WindSouth:   1,
	tiles.WindWest:    2,
	tiles.WindNorth:   3,
	tiles.DragonGreen: 4,
	tiles.DragonRed:   5,
	tiles.DragonWhite: 6,
}

// CountsOf buckets a concealed-hand stack.
func CountsOf(stack *tiles.Stack) Counts {
	var c Counts
	for _, tile := range stack.Tiles() {
		switch tile.Suit {
		case tiles.SuitBamboo:
			n, _ := strconv.Atoi(tile.Name)
			c.Bamboo[n-1]++
		case tiles.SuitCharacter:
			n, _ := strconv.Atoi(tile.Name)
			c.Character[n-1]++
		case tiles.SuitDot:
			n, _ := strconv.Atoi(tile.Name)
			c.Dot[n-1]++
		default:
			c.Honor[honorIndex[tile.Name]]++
		}
	}
	return c
}

// InTenpai decides whether a concealed hand with the given number of locked
// melds is one tile away from completion. Pure function: same input, same
// answer.
func InTenpai(c Counts, lockedMelds int) bool {
	requiredMelds := 4 - lockedMelds
	minimumMelds := requiredMelds - 1

	// Two hand shapes have their own tenpai conditions and skip the
	// decomposition search entirely.
	if thirteenOrphansTenpai(c) || sevenPairsTenpai(c) {
		return true
	}

	// Melds never span suits, so decompose each suit independently.
	suitVectors := [][]int{c.Bamboo[:], c.Character[:], c.Dot[:], c.Honor[:]}
	viable := make([][]suitCombination, len(suitVectors))
	for i, vector := range suitVectors {
		viable[i] = viableCombinations(vector)
		if len(viable[i]) == 0 {
			// A suit with more than one isolated tile, or more than four
			// tiles outside melds, rules the whole hand out.
			return false
		}
	}

	// Cartesian product across the four suits.
	for _, b := range viable[0] {
		for _, ch := range viable[1] {
			for _, d := range viable[2] {
				for _, h := range viable[3] {
					melds := b.melds + ch.melds + d.melds + h.melds
					pairs := b.pairs + ch.pairs + d.pairs + h.pairs
					parts := b.parts + ch.parts + d.parts + h.parts

					// Enough complete melds: any last tile finishes one.
					if melds == requiredMelds {
						return true
					}
					// One meld short, with exactly a pair and one
					// proto-sequence waiting to complete.
					if melds == minimumMelds && pairs == 1 && parts == 1 {
						return true
					}
				}
			}
		}
	}
	return false
}

// thirteenOrphansTenpai checks the terminal/honor special hand: across the
// 13 orphan kinds (1 and 9 of each number suit, all honors), tenpai holds
// with no missing kind, or exactly one missing kind covered by exactly one
// spare pair. Any orphan held three or more times, or any non-terminal
// number tile at all, disqualifies.
func thirteenOrphansTenpai(c Counts) bool {
	missing, sparePairs := 0, 0

	tally := func(n int) bool {
		switch n {
		case 0:
			missing++
		case 2:
			sparePairs++
		default:
			if n != 1 {
				return false
			}
		}
		return true
	}

	for _, vector := range [][9]int{c.Bamboo, c.Character, c.Dot} {
		for i := 1; i < 8; i++ {
			if vector[i] != 0 {
				return false
			}
		}
		if !tally(vector[0]) || !tally(vector[8]) {
			return false
		}
	}
	for _, n := range c.Honor {
		if !tally(n) {
			return false
		}
	}

	return missing == 0 || (missing == 1 && sparePairs == 1)
}

// sevenPairsTenpai checks the seven-pairs special hand: exactly six kinds
// held as pairs and one as a singleton, nothing held more than twice.
func sevenPairsTenpai(c Counts) bool {
	pairs, singles := 0, 0

	for _, vector := range [][]int{c.Bamboo[:], c.Character[:], c.Dot[:], c.Honor[:]} {
		for _, n := range vector {
			switch n {
			case 2:
				pairs++
			case 1:
				singles++
			default:
				if n != 0 {
					return false
				}
			}
		}
	}
	return pairs == 6 && singles == 1
}

// suitCombination is one viable decomposition of a single suit: how many
// complete melds, pairs and two-tile proto-sequences it strips, leaving at
// most one isolated tile.
type suitCombination struct {
	melds int
	pairs int
	parts int
}

// viableCombinations runs the two-stage decomposition of one suit vector:
// strip complete melds in every order, then strip meld parts from each
// leftover, keeping only decompositions close enough to completion.
func viableCombinations(vector []int) []suitCombination {
	var out []suitCombination
	for _, mc := range meldCombinations(vector) {
		// More than 4 tiles outside melds cannot recover to tenpai.
		if vectorSum(mc.leftover) > 4 {
			continue
		}
		for _, pc := range partCombinations(mc.leftover) {
			// More than one isolated tile cannot recover either.
			if vectorSum(pc.leftover) > 1 {
				continue
			}
			out = append(out, suitCombination{melds: mc.count, pairs: pc.pairs, parts: pc.parts})
		}
	}
	return out
}

type meldCombo struct {
	count    int
	leftover []int
}

// meldCombinations strips complete melds (a triplet, or for number suits a
// run of three consecutive values) recursively in every order until none
// remain. Branches reaching an identical leftover are merged, since the
// strip order is irrelevant.
func meldCombinations(vector []int) []meldCombo {
	var out []meldCombo
	seen := make(map[string]bool)

	var strip func(v []int, count int)
	strip = func(v []int, count int) {
		melds := possibleMelds(v)
		if len(melds) == 0 {
			key := vectorKey(v)
			if !seen[key] {
				seen[key] = true
				out = append(out, meldCombo{count: count, leftover: v})
			}
			return
		}
		for _, m := range melds {
			strip(removeMeld(v, m), count+1)
		}
	}

	strip(cloneVector(vector), 0)
	return out
}

// meldShape is one strippable meld: a triplet at index i, or a run
// starting at index i.
type meldShape struct {
	i   int
	run bool
}

func possibleMelds(v []int) []meldShape {
	var out []meldShape
	for i := range v {
		if v[i] >= 3 {
			out = append(out, meldShape{i: i})
		}
	}
	if len(v) == 9 { // honors form no runs
		for i := 0; i+2 < 9; i++ {
			if v[i] >= 1 && v[i+1] >= 1 && v[i+2] >= 1 {
				out = append(out, meldShape{i: i, run: true})
			}
		}
	}
	return out
}

func removeMeld(v []int, m meldShape) []int {
	next := cloneVector(v)
	if m.run {
		next[m.i]--
		next[m.i+1]--
		next[m.i+2]--
	} else {
		next[m.i] -= 3
	}
	return next
}

type partCombo struct {
	pairs    int
	parts    int
	leftover []int
}

// partCombinations strips meld parts (a pair, an adjacent two-tile
// proto-sequence, or one gapped two apart) recursively until none remain,
// merging branches by final leftover.
func partCombinations(vector []int) []partCombo {
	var out []partCombo
	seen := make(map[string]bool)

	var strip func(v []int, pairs, parts int)
	strip = func(v []int, pairs, parts int) {
		shapes := possibleParts(v)
		if len(shapes) == 0 {
			// The same leftover can be reached with different pair/part
			// splits, and both splits matter to the caller.
			key := strconv.Itoa(pairs) + "/" + strconv.Itoa(parts) + "/" + vectorKey(v)
			if !seen[key] {
				seen[key] = true
				out = append(out, partCombo{pairs: pairs, parts: parts, leftover: v})
			}
			return
		}
		for _, p := range shapes {
			if p.gap == 0 {
				strip(removePart(v, p), pairs+1, parts)
			} else {
				strip(removePart(v, p), pairs, parts+1)
			}
		}
	}

	strip(cloneVector(vector), 0, 0)
	return out
}

// partShape is one strippable meld part at index i: gap 0 is a pair, gap 1
// an adjacent proto-sequence, gap 2 one with a hole in the middle.
type partShape struct {
	i   int
	gap int
}

func possibleParts(v []int) []partShape {
	var out []partShape
	for i := range v {
		if v[i] >= 2 {
			out = append(out, partShape{i: i})
		}
	}
	if len(v) == 9 {
		for i := 0; i < 9; i++ {
			if i+1 < 9 && v[i] >= 1 && v[i+1] >= 1 {
				out = append(out, partShape{i: i, gap: 1})
			}
			if i+2 < 9 && v[i] >= 1 && v[i+2] >= 1 {
				out = append(out, partShape{i: i, gap: 2})
			}
		}
	}
	return out
}

func removePart(v []int, p partShape) []int {
	next := cloneVector(v)
	if p.gap == 0 {
		next[p.i] -= 2
	} else {
		next[p.i]--
		next[p.i+p.gap]--
	}
	return next
}

func cloneVector(v []int) []int {
	next := make([]int, len(v))
	copy(next, v)
	return next
}

func vectorSum(v []int) int {
	sum := 0
	for _, n := range v {
		sum += n
	}
	return sum
}

func vectorKey(v []int) string {
	// Counts are single digits, so a byte per slot is a unique key.
	key := make([]byte, len(v))
	for i, n := range v {
		key[i] = byte('0' + n)
	}
	return string(key)
}
