package game

import (
	"testing"

	"github.com/Holk-VB/riichiBackend/tiles"
)

// counts builds a Counts from compact vectors: b/c/d are number-suit count
// vectors, h the honor vector (east, south, west, north, green, red, white).
func counts(b, c, d [9]int, h [7]int) Counts {
	return Counts{Bamboo: b, Character: c, Dot: d, Honor: h}
}

func TestInTenpai_SevenPairs(t *testing.T) {
	// Six pairs across dot and bamboo plus one lone character tile.
	c := counts(
		[9]int{2, 2, 2, 0, 0, 0, 0, 0, 0},
		[9]int{0, 0, 0, 0, 1, 0, 0, 0, 0},
		[9]int{0, 2, 0, 2, 0, 2, 0, 0, 0},
		[7]int{},
	)
	if !InTenpai(c, 0) {
		t.Error("six pairs and a singleton should be tenpai")
	}
}

func TestInTenpai_SevenPairs_TripletDisqualifies(t *testing.T) {
	c := counts(
		[9]int{3, 2, 2, 0, 0, 0, 0, 0, 0},
		[9]int{0, 0, 0, 0, 0, 0, 0, 0, 0},
		[9]int{0, 2, 0, 2, 0, 2, 0, 0, 0},
		[7]int{},
	)
	// Not seven pairs, and not decomposable into a tenpai shape either.
	if InTenpai(c, 0) {
		t.Error("a triplet breaks the seven-pairs shape")
	}
}

func TestInTenpai_ThirteenOrphans_AllPresent(t *testing.T) {
	// Each of the 13 orphan kinds exactly once: the 13-sided wait.
	c := counts(
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[7]int{1, 1, 1, 1, 1, 1, 1},
	)
	if !InTenpai(c, 0) {
		t.Error("all thirteen orphans present should be tenpai")
	}
}

func TestInTenpai_ThirteenOrphans_OneMissingOnePaired(t *testing.T) {
	// North missing, east doubled.
	c := counts(
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[7]int{2, 1, 1, 0, 1, 1, 1},
	)
	if !InTenpai(c, 0) {
		t.Error("one missing orphan covered by a spare pair should be tenpai")
	}
}

func TestInTenpai_ThirteenOrphans_InnerTileDisqualifies(t *testing.T) {
	// Same set but a 5-dot replaces the 9-dot.
	c := counts(
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[9]int{1, 0, 0, 0, 0, 0, 0, 0, 1},
		[9]int{1, 0, 0, 0, 1, 0, 0, 0, 0},
		[7]int{2, 1, 1, 0, 1, 1, 1},
	)
	if InTenpai(c, 0) {
		t.Error("a non-terminal number tile disqualifies the orphans shape")
	}
}

func TestInTenpai_ThreeMeldsPairAndProtoSequence(t *testing.T) {
	// 123 456 789 bamboo, 1-1 dot pair, 3-4 dot waiting on 2 or 5.
	c := counts(
		[9]int{1, 1, 1, 1, 1, 1, 1, 1, 1},
		[9]int{},
		[9]int{2, 0, 1, 1, 0, 0, 0, 0, 0},
		[7]int{},
	)
	if !InTenpai(c, 0) {
		t.Error("three melds, a pair and an open proto-sequence should be tenpai")
	}
}

func TestInTenpai_FourMeldsAndFloater(t *testing.T) {
	// 123 456 789 bamboo, 111 dot, lone 5 character waiting to pair.
	c := counts(
		[9]int{1, 1, 1, 1, 1, 1, 1, 1, 1},
		[9]int{0, 0, 0, 0, 1, 0, 0, 0, 0},
		[9]int{3, 0, 0, 0, 0, 0, 0, 0, 0},
		[7]int{},
	)
	if !InTenpai(c, 0) {
		t.Error("four complete melds and a floater should be tenpai")
	}
}

func TestInTenpai_EdgeProtoSequence(t *testing.T) {
	// 123 456 bamboo, 111 dot, east pair, 8-9 character waiting on 7.
	c := counts(
		[9]int{1, 1, 1, 1, 1, 1, 0, 0, 0},
		[9]int{0, 0, 0, 0, 0, 0, 0, 1, 1},
		[9]int{3, 0, 0, 0, 0, 0, 0, 0, 0},
		[7]int{2, 0, 0, 0, 0, 0, 0},
	)
	if !InTenpai(c, 0) {
		t.Error("an 8-9 edge proto-sequence should count toward tenpai")
	}
}

func TestInTenpai_GappedProtoSequence(t *testing.T) {
	// 123 456 789 bamboo, east pair, 4-6 dot waiting on the middle 5.
	c := counts(
		[9]int{1, 1, 1, 1, 1, 1, 1, 1, 1},
		[9]int{},
		[9]int{0, 0, 0, 1, 0, 1, 0, 0, 0},
		[7]int{2, 0, 0, 0, 0, 0, 0},
	)
	if !InTenpai(c, 0) {
		t.Error("a gapped proto-sequence should count toward tenpai")
	}
}

func TestInTenpai_TwoPairsWithoutProtoSequence(t *testing.T) {
	// 123 456 bamboo, 111 dot, east pair, west pair: two pairs but no
	// running proto-sequence, which the decomposition does not accept.
	c := counts(
		[9]int{1, 1, 1, 1, 1, 1, 0, 0, 0},
		[9]int{},
		[9]int{3, 0, 0, 0, 0, 0, 0, 0, 0},
		[7]int{2, 0, 2, 0, 0, 0, 0},
	)
	if InTenpai(c, 0) {
		t.Error("two pairs with no proto-sequence is not an accepted tenpai shape")
	}
}

func TestInTenpai_ScatteredHandIsNotTenpai(t *testing.T) {
	c := counts(
		[9]int{1, 0, 1, 0, 1, 0, 1, 0, 1},
		[9]int{1, 0, 1, 0, 1, 0, 0, 0, 0},
		[9]int{1, 0, 0, 1, 0, 0, 0, 0, 0},
		[7]int{1, 1, 0, 0, 0, 0, 0},
	)
	if InTenpai(c, 0) {
		t.Error("a scattered hand must not be tenpai")
	}
}

func TestInTenpai_LockedMeldsLowerTheRequirement(t *testing.T) {
	// Three melds locked, concealed 222 dot + lone 7 bamboo: the triplet
	// completes the count, the floater waits to pair.
	c := counts(
		[9]int{0, 0, 0, 0, 0, 0, 1, 0, 0},
		[9]int{},
		[9]int{0, 3, 0, 0, 0, 0, 0, 0, 0},
		[7]int{},
	)
	if !InTenpai(c, 3) {
		t.Error("with three locked melds, a concealed triplet and floater should be tenpai")
	}

	// Without locked melds the same four tiles are far from tenpai.
	if InTenpai(c, 0) {
		t.Error("the same tiles with no locked melds must not be tenpai")
	}
}

func TestInTenpai_Idempotent(t *testing.T) {
	c := counts(
		[9]int{1, 1, 1, 1, 1, 1, 1, 1, 1},
		[9]int{},
		[9]int{2, 0, 1, 1, 0, 0, 0, 0, 0},
		[7]int{},
	)
	first := InTenpai(c, 0)
	for i := 0; i < 5; i++ {
		if InTenpai(c, 0) != first {
			t.Fatal("repeated evaluation of the same hand diverged")
		}
	}
}

func TestCountsOf(t *testing.T) {
	hand := tiles.NewStack("hand", tiles.RoleConcealedHand)
	hand.AddTile(0, tiles.SuitDot, "5")
	hand.AddTile(1, tiles.SuitDot, "5")
	hand.AddTile(2, tiles.SuitBamboo, "1")
	hand.AddTile(3, tiles.SuitCharacter, "9")
	hand.AddTile(4, tiles.SuitWind, tiles.WindNorth)
	hand.AddTile(5, tiles.SuitDragon, tiles.DragonWhite)

	c := CountsOf(hand)
	if c.Dot[4] != 2 {
		t.Errorf("expected two 5-dot, got %d", c.Dot[4])
	}
	if c.Bamboo[0] != 1 || c.Character[8] != 1 {
		t.Error("number suits miscounted")
	}
	if c.Honor[3] != 1 || c.Honor[6] != 1 {
		t.Errorf("honor order wrong: %v", c.Honor)
	}
}
