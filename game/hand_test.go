package game

import (
	"fmt"
	"testing"

	"github.com/Holk-VB/riichiBackend/rng"
	"github.com/Holk-VB/riichiBackend/tiles"
)

func k(suit tiles.Suit, name string) tiles.Kind {
	return tiles.Kind{Suit: suit, Name: name}
}

// newTestHand builds a hand with hand-picked concealed tiles per wind and a
// fixed wall, bypassing the shuffled deal. Winds without an entry get an
// empty concealed hand.
func newTestHand(t *testing.T, hands map[string][]tiles.Kind, wall []tiles.Kind) *Hand {
	t.Helper()

	players := make([]*Player, 0, len(tiles.Winds))
	for _, wind := range tiles.Winds {
		players = append(players, &Player{
			Wind:     wind,
			Score:    DefaultScore,
			IsDealer: wind == tiles.WindEast,
		})
	}
	h := NewHand(players)

	nextID := 0
	fill := func(s *tiles.Stack, kinds []tiles.Kind) {
		for _, kind := range kinds {
			h.tileByID[nextID] = s.AddTile(nextID, kind.Suit, kind.Name)
			nextID++
		}
	}

	for i, p := range players {
		discard, err := h.stacks.Create(fmt.Sprintf("discard %d", i), tiles.RoleDiscard)
		if err != nil {
			t.Fatal(err)
		}
		concealed, err := h.stacks.Create(fmt.Sprintf("hand %d", i), tiles.RoleConcealedHand)
		if err != nil {
			t.Fatal(err)
		}
		p.Discard = discard
		p.Concealed = concealed
		fill(concealed, hands[p.Wind])
	}

	var err error
	if h.doraIndicators, err = h.stacks.Create("dora_indicators", tiles.RoleDoraIndicators); err != nil {
		t.Fatal(err)
	}
	if h.deadWall, err = h.stacks.Create("dead_wall", tiles.RoleDeadWall); err != nil {
		t.Fatal(err)
	}
	if h.wall, err = h.stacks.Create("wall", tiles.RoleWall); err != nil {
		t.Fatal(err)
	}
	fill(h.wall, wall)

	return h
}

func fourPlayers() []*Player {
	players := make([]*Player, 0, MaxPlayers)
	for i, wind := range tiles.Winds {
		players = append(players, &Player{
			UserID:   int64(i + 1),
			Username: fmt.Sprintf("player %d", i+1),
			Score:    DefaultScore,
			Wind:     wind,
			IsDealer: wind == tiles.WindEast,
		})
	}
	return players
}

func TestHand_SetUpPartition(t *testing.T) {
	h := NewHand(fourPlayers())
	if err := h.SetUp(rng.New(1)); err != nil {
		t.Fatal(err)
	}

	for _, p := range h.Players {
		if p.Concealed.Length != DealSize {
			t.Errorf("%s concealed %d tiles, want %d", p.Wind, p.Concealed.Length, DealSize)
		}
		if p.Discard.Length != 0 {
			t.Errorf("%s discard pile not empty", p.Wind)
		}
	}
	if h.DoraIndicators().Length != DoraIndicatorCount {
		t.Errorf("dora indicators %d, want %d", h.DoraIndicators().Length, DoraIndicatorCount)
	}
	if h.DeadWall().Length != DeadWallSize {
		t.Errorf("dead wall %d, want %d", h.DeadWall().Length, DeadWallSize)
	}
	if h.Wall().Length != LiveWallSize {
		t.Errorf("live wall %d, want %d", h.Wall().Length, LiveWallSize)
	}
	if len(h.tileByID) != tiles.TilesPerGame {
		t.Errorf("tile index holds %d tiles, want %d", len(h.tileByID), tiles.TilesPerGame)
	}
}

func TestHand_SetUpDeterministic(t *testing.T) {
	deal := func() [][]int {
		h := NewHand(fourPlayers())
		if err := h.SetUp(rng.New(42)); err != nil {
			t.Fatal(err)
		}
		var out [][]int
		for _, p := range h.Players {
			var ids []int
			for _, tile := range p.Concealed.Tiles() {
				ids = append(ids, tile.ID)
			}
			out = append(out, ids)
		}
		return out
	}

	first, second := deal(), deal()
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("same seed dealt different hands: %v vs %v", first[i], second[i])
			}
		}
	}
}

func TestHand_PlayerDiscard(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindEast: {k(tiles.SuitBamboo, "3"), k(tiles.SuitDot, "9")},
	}, []tiles.Kind{k(tiles.SuitDragon, tiles.DragonRed)})

	east, _ := h.PlayerByWind(tiles.WindEast)
	east.StartPlaying()

	tile, _ := east.Concealed.First(tiles.SuitBamboo, "3")

	// A tile id outside the player's hand is rejected.
	if err := h.PlayerDiscard(east, 9999); err != ErrNotPlayersTile {
		t.Errorf("want ErrNotPlayersTile, got %v", err)
	}

	if err := h.PlayerDiscard(east, tile.ID); err != nil {
		t.Fatal(err)
	}
	if east.CanPlay {
		t.Error("discarding must end turn eligibility")
	}
	if h.LastDiscarded == nil || h.LastDiscarded.TileID != tile.ID || h.LastDiscarded.Name != "3" {
		t.Errorf("last discard not recorded: %+v", h.LastDiscarded)
	}
	if east.Discard.Length != 1 || east.Concealed.Length != 1 {
		t.Error("tile did not move from concealed hand to discard pile")
	}

	// A second discard without a new turn is rejected.
	if err := h.PlayerDiscard(east, h.LastDiscarded.TileID); err != ErrInvalidStateTransition {
		t.Errorf("want ErrInvalidStateTransition, got %v", err)
	}
}

func TestHand_StartCallPhase(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindEast:  {k(tiles.SuitBamboo, "3"), k(tiles.SuitDot, "1")},
		tiles.WindSouth: {k(tiles.SuitBamboo, "4"), k(tiles.SuitBamboo, "5")},
		tiles.WindWest:  {k(tiles.SuitBamboo, "4"), k(tiles.SuitBamboo, "5")},
		tiles.WindNorth: {k(tiles.SuitBamboo, "3"), k(tiles.SuitBamboo, "3")},
	}, []tiles.Kind{k(tiles.SuitDot, "9")})

	east, _ := h.PlayerByWind(tiles.WindEast)
	south, _ := h.PlayerByWind(tiles.WindSouth)
	west, _ := h.PlayerByWind(tiles.WindWest)
	north, _ := h.PlayerByWind(tiles.WindNorth)

	east.StartPlaying()
	tile, _ := east.Concealed.First(tiles.SuitBamboo, "3")
	if err := h.PlayerDiscard(east, tile.ID); err != nil {
		t.Fatal(err)
	}
	if err := h.StartCallPhase(); err != nil {
		t.Fatal(err)
	}
	if !h.InCallPhase {
		t.Fatal("call phase did not open")
	}

	if len(east.PossibleCalls) != 0 {
		t.Errorf("the discarder must get no calls: %v", east.PossibleCalls)
	}
	if got := callNames(south.PossibleCalls, CallChi); len(got) != 1 || got[0] != "3-4-5" {
		t.Errorf("next seat chi wrong: %v", south.PossibleCalls)
	}
	// West holds the same tiles as south but sits two seats away.
	if len(west.PossibleCalls) != 0 {
		t.Errorf("chi offered to a non-adjacent seat: %v", west.PossibleCalls)
	}
	if got := callNames(north.PossibleCalls, CallPon); len(got) != 1 || got[0] != "3-3-3" {
		t.Errorf("north pon wrong: %v", north.PossibleCalls)
	}

	// Discarding mid call phase is rejected.
	south.StartPlaying()
	four, _ := south.Concealed.First(tiles.SuitBamboo, "4")
	if err := h.PlayerDiscard(south, four.ID); err != ErrInvalidStateTransition {
		t.Errorf("discard during call phase accepted: %v", err)
	}
}

func TestHand_EndCallPhase_PonOutranksChi(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindEast:  {k(tiles.SuitBamboo, "3"), k(tiles.SuitDot, "1")},
		tiles.WindSouth: {k(tiles.SuitBamboo, "4"), k(tiles.SuitBamboo, "5")},
		tiles.WindWest:  {k(tiles.SuitBamboo, "3"), k(tiles.SuitBamboo, "3"), k(tiles.SuitDot, "7")},
	}, []tiles.Kind{k(tiles.SuitDot, "9")})

	east, _ := h.PlayerByWind(tiles.WindEast)
	south, _ := h.PlayerByWind(tiles.WindSouth)
	west, _ := h.PlayerByWind(tiles.WindWest)

	east.StartPlaying()
	tile, _ := east.Concealed.First(tiles.SuitBamboo, "3")
	if err := h.PlayerDiscard(east, tile.ID); err != nil {
		t.Fatal(err)
	}
	if err := h.StartCallPhase(); err != nil {
		t.Fatal(err)
	}

	if err := south.SendCall(Call{Type: CallChi, Suit: tiles.SuitBamboo, Name: "3-4-5"}); err != nil {
		t.Fatal(err)
	}
	if err := west.SendCall(Call{Type: CallPon, Suit: tiles.SuitBamboo, Name: "3-3-3"}); err != nil {
		t.Fatal(err)
	}

	wallBefore := h.Wall().Length
	if err := h.EndCallPhase(); err != nil {
		t.Fatal(err)
	}

	if len(west.Melds) != 1 {
		t.Fatal("pon did not produce a meld")
	}
	meld := west.Melds[0]
	if meld.Length != 3 || meld.Meld == nil || meld.Meld.Type != CallPon || !meld.Meld.Opened {
		t.Errorf("pon meld malformed: %+v", meld)
	}
	stolen, ok := meld.FindByID(tile.ID)
	if !ok || !stolen.Horizontal {
		t.Error("the stolen tile must sit sideways in the meld")
	}
	if len(south.Melds) != 0 {
		t.Error("the losing chi must not execute")
	}
	for _, p := range h.Players {
		if p.CallSent != nil || p.PossibleCalls != nil {
			t.Errorf("%s still has call state after resolution", p.Wind)
		}
	}

	// The claimed discard replaces the draw: the caller plays next without
	// picking a wall tile.
	if h.Wall().Length != wallBefore {
		t.Error("pon must not draw from the wall")
	}
	if !west.CanPlay {
		t.Error("the pon caller must take the next turn")
	}
	if h.InCallPhase {
		t.Error("call phase still open")
	}
	if h.NextWindToPlay != tiles.WindNorth {
		t.Errorf("turn order should continue from the caller, next is %s", h.NextWindToPlay)
	}
}

func TestHand_EndCallPhase_NoCallsAdvancesTurn(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindEast:  {k(tiles.SuitDot, "1"), k(tiles.SuitDot, "2")},
		tiles.WindSouth: {k(tiles.SuitCharacter, "9")},
	}, []tiles.Kind{k(tiles.SuitDragon, tiles.DragonWhite), k(tiles.SuitBamboo, "8")})

	east, _ := h.PlayerByWind(tiles.WindEast)
	south, _ := h.PlayerByWind(tiles.WindSouth)

	east.StartPlaying()
	tile, _ := east.Concealed.First(tiles.SuitDot, "1")
	if err := h.PlayerDiscard(east, tile.ID); err != nil {
		t.Fatal(err)
	}
	if err := h.StartCallPhase(); err != nil {
		t.Fatal(err)
	}

	wallBefore := h.Wall().Length
	if err := h.EndCallPhase(); err != nil {
		t.Fatal(err)
	}

	if h.Wall().Length != wallBefore-1 {
		t.Error("the next player must draw a wall tile")
	}
	if south.Concealed.Length != 2 || !south.CanPlay {
		t.Error("turn did not pass to the next seat")
	}
	if h.NextWindToPlay != tiles.WindWest {
		t.Errorf("next wind %s, want %s", h.NextWindToPlay, tiles.WindWest)
	}
}

func TestHand_EndCallPhase_OpenedKanDraws(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindEast: {k(tiles.SuitDot, "7"), k(tiles.SuitBamboo, "2")},
		tiles.WindWest: {k(tiles.SuitDot, "7"), k(tiles.SuitDot, "7"), k(tiles.SuitDot, "7")},
	}, []tiles.Kind{k(tiles.SuitCharacter, "4"), k(tiles.SuitCharacter, "5")})

	east, _ := h.PlayerByWind(tiles.WindEast)
	west, _ := h.PlayerByWind(tiles.WindWest)

	east.StartPlaying()
	tile, _ := east.Concealed.First(tiles.SuitDot, "7")
	if err := h.PlayerDiscard(east, tile.ID); err != nil {
		t.Fatal(err)
	}
	if err := h.StartCallPhase(); err != nil {
		t.Fatal(err)
	}
	if err := west.SendCall(Call{Type: CallOpenedKan, Suit: tiles.SuitDot, Name: "7-7-7-7"}); err != nil {
		t.Fatal(err)
	}

	wallBefore := h.Wall().Length
	if err := h.EndCallPhase(); err != nil {
		t.Fatal(err)
	}

	if len(west.Melds) != 1 || west.Melds[0].Length != 4 {
		t.Fatal("opened kan did not build a four-tile meld")
	}
	if !west.Melds[0].Meld.Opened {
		t.Error("an opened kan meld must be open")
	}
	if h.KanCounter != 1 {
		t.Errorf("kan counter %d, want 1", h.KanCounter)
	}
	if h.Wall().Length != wallBefore-1 {
		t.Error("a kan caller still draws a replacement tile")
	}
	if !west.CanPlay {
		t.Error("the kan caller must take the next turn")
	}
}

func TestHand_ClosedKan(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindEast: {
			k(tiles.SuitCharacter, "2"), k(tiles.SuitCharacter, "2"),
			k(tiles.SuitCharacter, "2"), k(tiles.SuitCharacter, "2"),
			k(tiles.SuitDot, "5"),
		},
	}, nil)

	east, _ := h.PlayerByWind(tiles.WindEast)
	east.PossibleCalls = TurnPhaseCalls(east.Concealed)

	call := Call{Type: CallClosedKan, Suit: tiles.SuitCharacter, Name: "2-2-2-2"}
	if err := east.SendCall(call); err != nil {
		t.Fatal(err)
	}
	if err := h.PlayerCall(east); err != nil {
		t.Fatal(err)
	}

	if len(east.Melds) != 1 || east.Melds[0].Length != 4 {
		t.Fatal("closed kan did not build a four-tile meld")
	}
	if east.Melds[0].Meld.Opened {
		t.Error("a closed kan meld must stay closed")
	}
	if east.Concealed.Length != 1 {
		t.Error("exactly four tiles must leave the concealed hand")
	}
	if h.KanCounter != 1 {
		t.Errorf("kan counter %d, want 1", h.KanCounter)
	}
}

func TestHand_EndCallPhase_LateKanUpgradesPon(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindEast:  {k(tiles.SuitBamboo, "9"), k(tiles.SuitDot, "3")},
		tiles.WindSouth: {k(tiles.SuitDot, "1")},
	}, []tiles.Kind{k(tiles.SuitCharacter, "6"), k(tiles.SuitCharacter, "8")})

	east, _ := h.PlayerByWind(tiles.WindEast)
	south, _ := h.PlayerByWind(tiles.WindSouth)

	// South owns a pon of 9-bamboo from an earlier window.
	pon := tiles.NewMeld("9-9-9", tiles.SuitBamboo, CallPon, true)
	for i := 0; i < 3; i++ {
		id := 1000 + i
		h.tileByID[id] = pon.AddTile(id, tiles.SuitBamboo, "9")
	}
	south.Melds = append(south.Melds, pon)

	east.StartPlaying()
	tile, _ := east.Concealed.First(tiles.SuitBamboo, "9")
	if err := h.PlayerDiscard(east, tile.ID); err != nil {
		t.Fatal(err)
	}
	if err := h.StartCallPhase(); err != nil {
		t.Fatal(err)
	}
	if err := south.SendCall(Call{Type: CallLateKan, Suit: tiles.SuitBamboo, Name: "9-9-9-9"}); err != nil {
		t.Fatal(err)
	}
	if err := h.EndCallPhase(); err != nil {
		t.Fatal(err)
	}

	if len(south.Melds) != 1 {
		t.Fatal("the late kan must upgrade the pon in place, not add a meld")
	}
	meld := south.Melds[0]
	if meld.Length != 4 || meld.Meld.Type != CallLateKan || meld.Name != "9-9-9-9" {
		t.Errorf("late kan meld malformed: name %q type %q length %d", meld.Name, meld.Meld.Type, meld.Length)
	}
	if h.KanCounter != 1 {
		t.Errorf("kan counter %d, want 1", h.KanCounter)
	}
}

func TestHand_NextTurn_WallExhaustionDrawsHand(t *testing.T) {
	h := newTestHand(t, map[string][]tiles.Kind{
		tiles.WindSouth: {k(tiles.SuitDot, "2")},
	}, nil)

	if err := h.NextTurn(true); err != ErrWallExhausted {
		t.Fatalf("want ErrWallExhausted, got %v", err)
	}
	if h.Status != HandDrawn {
		t.Errorf("hand status %q, want %q", h.Status, HandDrawn)
	}

	// A finished hand accepts no further turns.
	if err := h.NextTurn(false); err != ErrInvalidStateTransition {
		t.Errorf("want ErrInvalidStateTransition, got %v", err)
	}
}

func TestHand_Doras(t *testing.T) {
	h := NewHand(fourPlayers())
	if err := h.SetUp(rng.New(3)); err != nil {
		t.Fatal(err)
	}

	doras := h.Doras()
	if len(doras) != 1 {
		t.Fatalf("expected a single dora before any kan, got %d", len(doras))
	}
	indicator := h.DoraIndicators().Tiles()[0]
	want := tiles.NextTileName(indicator.Suit, indicator.Name)
	if doras[0].Suit != indicator.Suit || doras[0].Name != want {
		t.Errorf("dora %v, want %s %s", doras[0], indicator.Suit, want)
	}

	h.KanCounter = 2
	if len(h.Doras()) != 3 {
		t.Errorf("each kan must reveal one more dora")
	}

	h.KanCounter = 10
	if len(h.Doras()) != DoraIndicatorCount {
		t.Errorf("doras are capped by the indicator count")
	}
}
