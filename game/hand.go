package game

import (
	"fmt"
	"strings"

	"github.com/Holk-VB/riichiBackend/rng"
	"github.com/Holk-VB/riichiBackend/tiles"
)

const (
	// DealSize is the concealed-hand size dealt to every player.
	DealSize = 13
	// DoraIndicatorCount is how many indicator tiles are set aside.
	DoraIndicatorCount = 5
	// DeadWallSize is the dead-wall portion never drawn from.
	DeadWallSize = 9
	// LiveWallSize is what remains to draw from: 136 - 4*13 - 5 - 9.
	LiveWallSize = 70
)

type HandStatus string

const (
	HandPlaying HandStatus = "playing"
	HandWon     HandStatus = "won"
	HandDrawn   HandStatus = "drawn"
)

// Hand owns one deal: the wall stacks, the per-player stacks, and the
// turn/call state machine driving tile movement between them. Exactly one
// of turn phase and call phase is active at any time. Hand operations are
// not internally synchronized; the owning Game serializes them.
type Hand struct {
	KanCounter     int
	InCallPhase    bool
	LastDiscarded  *Discard
	NextWindToPlay string
	Status         HandStatus

	// Players in seating order, east first.
	Players []*Player

	stacks         *tiles.StackSet
	wall           *tiles.Stack
	deadWall       *tiles.Stack
	doraIndicators *tiles.Stack
	tileByID       map[int]*tiles.Tile
}

// NewHand creates a hand for players already seated in wind order.
func NewHand(players []*Player) *Hand {
	return &Hand{
		NextWindToPlay: tiles.NextWind(tiles.WindEast),
		Status:         HandPlaying,
		Players:        players,
		stacks:         tiles.NewStackSet(),
		tileByID:       make(map[int]*tiles.Tile),
	}
}

// SetUp builds the 136-tile set, shuffles it with the game stream, deals 13
// tiles to every seated player and partitions the rest into dora
// indicators, dead wall and live wall. Deterministic given the stream
// state and seating order. The dealer's 14th tile is the caller's job via
// PlayerPick.
func (h *Hand) SetUp(stream *rng.Stream) error {
	tileSet, err := h.stacks.Create("hand_tile_set", tiles.RoleTileSet)
	if err != nil {
		return err
	}
	for i := 0; i < tiles.TilesPerGame; i++ {
		kind := tiles.Kinds[i%tiles.UniqueKinds]
		tile := tileSet.AddTile(i, kind.Suit, kind.Name)
		h.tileByID[i] = tile
	}

	tileSet.Shuffle(stream)

	for i, player := range h.Players {
		discard, err := h.stacks.Create(fmt.Sprintf("discard %d", i), tiles.RoleDiscard)
		if err != nil {
			return err
		}
		concealed, err := h.stacks.Create(fmt.Sprintf("hand %d", i), tiles.RoleConcealedHand)
		if err != nil {
			return err
		}
		player.Discard = discard
		player.Concealed = concealed

		if err := concealed.PickIn(tileSet, DealSize); err != nil {
			return err
		}
		concealed.SortDefault()
		h.refreshTenpai(player)
	}

	h.doraIndicators, err = h.stacks.Create("dora_indicators", tiles.RoleDoraIndicators)
	if err != nil {
		return err
	}
	if err := h.doraIndicators.PickIn(tileSet, DoraIndicatorCount); err != nil {
		return err
	}

	h.deadWall, err = h.stacks.Create("dead_wall", tiles.RoleDeadWall)
	if err != nil {
		return err
	}
	if err := h.deadWall.PickIn(tileSet, DeadWallSize); err != nil {
		return err
	}

	h.wall, err = h.stacks.Create("wall", tiles.RoleWall)
	if err != nil {
		return err
	}
	return h.wall.PickIn(tileSet, LiveWallSize)
}

func (h *Hand) Wall() *tiles.Stack           { return h.wall }
func (h *Hand) DeadWall() *tiles.Stack       { return h.deadWall }
func (h *Hand) DoraIndicators() *tiles.Stack { return h.doraIndicators }

// TileByID resolves a tile of this hand by identifier.
func (h *Hand) TileByID(id int) (*tiles.Tile, bool) {
	tile, ok := h.tileByID[id]
	return tile, ok
}

// PlayerByWind returns the seated player holding the wind.
func (h *Hand) PlayerByWind(wind string) (*Player, bool) {
	for _, p := range h.Players {
		if p.Wind == wind {
			return p, true
		}
	}
	return nil, false
}

// Doras returns the revealed dora kinds: the successors of the first
// 1+kanCounter indicator tiles.
func (h *Hand) Doras() []tiles.Kind {
	indicators := h.doraIndicators.Tiles()
	count := 1 + h.KanCounter
	if count > len(indicators) {
		count = len(indicators)
	}
	doras := make([]tiles.Kind, 0, count)
	for _, indicator := range indicators[:count] {
		doras = append(doras, tiles.Kind{
			Suit: indicator.Suit,
			Name: tiles.NextTileName(indicator.Suit, indicator.Name),
		})
	}
	return doras
}

// PlayerPick moves one tile from the live wall into the player's concealed
// hand. An empty wall is the draw condition.
func (h *Hand) PlayerPick(p *Player) error {
	if h.wall.Length == 0 {
		return ErrWallExhausted
	}
	return p.Concealed.PickIn(h.wall, 1)
}

// PlayerDiscard moves the identified tile from the player's concealed hand
// to their discard pile, records it as the last discard, ends the player's
// turn eligibility and refreshes their tenpai status.
func (h *Hand) PlayerDiscard(p *Player, tileID int) error {
	if h.Status != HandPlaying || h.InCallPhase || !p.CanPlay {
		return ErrInvalidStateTransition
	}
	tile, ok := p.Concealed.FindByID(tileID)
	if !ok {
		return ErrNotPlayersTile
	}

	if err := p.Concealed.TransferTo(p.Discard, tile); err != nil {
		return err
	}
	h.LastDiscarded = &Discard{TileID: tile.ID, Suit: tile.Suit, Name: tile.Name}
	p.StopPlaying()
	h.refreshTenpai(p)
	return nil
}

// StartCallPhase recomputes every player's call-phase possible calls
// against the last discard and opens the call window. The discarder is
// excluded; chi is only offered to their immediate successor.
func (h *Hand) StartCallPhase() error {
	if h.Status != HandPlaying || h.InCallPhase || h.LastDiscarded == nil {
		return ErrInvalidStateTransition
	}

	discarderWind := tiles.PrevWind(h.NextWindToPlay)
	for _, p := range h.Players {
		if p.Wind == discarderWind {
			p.PossibleCalls = nil
			continue
		}
		isNextSeat := p.Wind == h.NextWindToPlay
		p.PossibleCalls = CallPhaseCalls(p.Concealed, p.Melds, *h.LastDiscarded, isNextSeat)
	}

	h.InCallPhase = true
	return nil
}

// EndCallPhase closes the call window and resolves at most one committed
// call by strict priority: ron, opened kan, late kan, pon, chi. With no
// committed call it falls through to a plain turn advance. All pending
// calls are cleared before the next turn begins.
func (h *Hand) EndCallPhase() error {
	if !h.InCallPhase {
		return ErrInvalidStateTransition
	}
	h.InCallPhase = false

	canPick := true
	for _, callType := range []string{CallRon, CallOpenedKan, CallLateKan, CallPon, CallChi} {
		caller := h.playerWithCommittedCall(callType)
		if caller == nil {
			continue
		}
		if err := h.PlayerCall(caller); err != nil {
			return err
		}
		// Pon and chi already granted the claimed tile; the caller's turn
		// starts without a pick. Kan variants draw normally.
		if callType == CallPon || callType == CallChi {
			canPick = false
		}
		break
	}

	for _, p := range h.Players {
		p.ClearCalls()
	}

	return h.NextTurn(canPick)
}

func (h *Hand) playerWithCommittedCall(callType string) *Player {
	for _, p := range h.Players {
		if p.CallSent != nil && p.CallSent.Type == callType {
			return p
		}
	}
	return nil
}

// PlayerCall executes the single call the player has committed, moving the
// named concealed tiles (and, for call-phase calls, the claimed discard)
// into a meld. Every precondition is checked before the first tile moves,
// so a rejected call leaves the hand untouched. The calling player steals
// the next turn; every kan variant reveals one more dora indicator.
func (h *Hand) PlayerCall(p *Player) error {
	if p.CallSent == nil {
		return ErrIllegalCall
	}
	call := *p.CallSent

	switch call.Type {
	case CallOpenedKan:
		return h.executeStealingCall(p, call, 3)

	case CallPon:
		return h.executeStealingCall(p, call, 2)

	case CallChi:
		return h.executeChi(p, call)

	case CallLateKan:
		return h.executeLateKan(p, call)

	case CallClosedKan:
		return h.executeClosedKan(p, call)

	case CallRon, CallTsumo, CallRiichi:
		// Winning and riichi declarations are accepted but not yet scored.
		return nil

	default:
		return ErrIllegalCall
	}
}

// executeStealingCall handles opened kan and pon: claim the discard and
// move fromHand matching tiles out of the concealed hand into a new meld.
func (h *Hand) executeStealingCall(p *Player, call Call, fromHand int) error {
	discarded, err := h.lastDiscardedTile()
	if err != nil {
		return err
	}
	if !p.Concealed.Contains(call.Suit, discarded.Name, fromHand) {
		return ErrIllegalCall
	}

	meld := tiles.NewMeld(call.Name, call.Suit, call.Type, true)
	if err := h.claimDiscard(discarded, meld); err != nil {
		return err
	}
	for i := 0; i < fromHand; i++ {
		tile, _ := p.Concealed.First(call.Suit, discarded.Name)
		if err := p.Concealed.TransferTo(meld, tile); err != nil {
			return err
		}
	}

	p.Melds = append(p.Melds, meld)
	h.afterCall(p, call.Type == CallOpenedKan)
	return nil
}

func (h *Hand) executeChi(p *Player, call Call) error {
	discarded, err := h.lastDiscardedTile()
	if err != nil {
		return err
	}

	names := strings.Split(call.Name, "-")
	handNames := removeFirst(names, discarded.Name)
	if len(handNames) != len(names)-1 {
		return ErrIllegalCall
	}
	for _, name := range handNames {
		if !p.Concealed.Contains(call.Suit, name, 1) {
			return ErrIllegalCall
		}
	}

	meld := tiles.NewMeld(call.Name, call.Suit, CallChi, true)
	if err := h.claimDiscard(discarded, meld); err != nil {
		return err
	}
	for _, name := range handNames {
		tile, _ := p.Concealed.First(call.Suit, name)
		if err := p.Concealed.TransferTo(meld, tile); err != nil {
			return err
		}
	}

	p.Melds = append(p.Melds, meld)
	h.afterCall(p, false)
	return nil
}

// executeLateKan upgrades the player's existing pon meld of the discarded
// kind with the claimed tile.
func (h *Hand) executeLateKan(p *Player, call Call) error {
	discarded, err := h.lastDiscardedTile()
	if err != nil {
		return err
	}

	ponName := repeatedName(discarded.Name, 3)
	var ponMeld *tiles.Stack
	for _, meld := range p.Melds {
		if meld.Meld != nil && meld.Meld.Type == CallPon &&
			meld.Meld.Suit == call.Suit && meld.Name == ponName {
			ponMeld = meld
			break
		}
	}
	if ponMeld == nil {
		return ErrIllegalCall
	}

	if err := h.claimDiscard(discarded, ponMeld); err != nil {
		return err
	}
	ponMeld.Meld.Type = CallLateKan
	ponMeld.Name = call.Name

	h.afterCall(p, true)
	return nil
}

// executeClosedKan moves four concealed tiles into a closed meld. No
// discard is claimed, and the meld does not open the hand.
func (h *Hand) executeClosedKan(p *Player, call Call) error {
	names := strings.Split(call.Name, "-")
	if len(names) != 4 || !p.Concealed.Contains(call.Suit, names[0], 4) {
		return ErrIllegalCall
	}

	meld := tiles.NewMeld(call.Name, call.Suit, CallClosedKan, false)
	for i := 0; i < 4; i++ {
		tile, _ := p.Concealed.First(call.Suit, names[0])
		if err := p.Concealed.TransferTo(meld, tile); err != nil {
			return err
		}
	}

	p.Melds = append(p.Melds, meld)
	h.afterCall(p, true)
	return nil
}

// lastDiscardedTile resolves the recorded last discard to its tile, which
// still sits in the discarder's pile.
func (h *Hand) lastDiscardedTile() (*tiles.Tile, error) {
	if h.LastDiscarded == nil {
		return nil, ErrInvalidStateTransition
	}
	tile, ok := h.tileByID[h.LastDiscarded.TileID]
	if !ok || tile.Stack() == nil || tile.Stack().Role != tiles.RoleDiscard {
		return nil, ErrNotPlayersTile
	}
	return tile, nil
}

// claimDiscard moves a stolen discard into the meld and turns it sideways.
func (h *Hand) claimDiscard(tile *tiles.Tile, meld *tiles.Stack) error {
	if err := tile.Stack().TransferTo(meld, tile); err != nil {
		return err
	}
	tile.Horizontal = true
	return nil
}

// afterCall applies the shared post-call bookkeeping: the caller steals
// the turn, kans reveal a dora, and the caller's concealed hand changed so
// tenpai is refreshed.
func (h *Hand) afterCall(p *Player, isKan bool) {
	h.NextWindToPlay = p.Wind
	if isKan {
		h.KanCounter++
	}
	h.refreshTenpai(p)
}

// NextTurn starts the turn of the player at nextWindToPlay: pick a wall
// tile unless a resolved call already granted one, advance nextWindToPlay
// to the successor seat, recompute the player's turn-phase calls and
// tenpai, and grant turn eligibility. An exhausted wall ends the hand as
// a draw.
func (h *Hand) NextTurn(canPick bool) error {
	if h.Status != HandPlaying || h.InCallPhase {
		return ErrInvalidStateTransition
	}
	p, ok := h.PlayerByWind(h.NextWindToPlay)
	if !ok {
		return ErrInvalidStateTransition
	}

	if canPick {
		if err := h.PlayerPick(p); err != nil {
			if err == ErrWallExhausted {
				h.Status = HandDrawn
			}
			return err
		}
	}

	h.NextWindToPlay = tiles.NextWind(p.Wind)
	p.PossibleCalls = TurnPhaseCalls(p.Concealed)
	h.refreshTenpai(p)
	p.Concealed.SortDefault()
	p.StartPlaying()
	return nil
}

func (h *Hand) refreshTenpai(p *Player) {
	p.InTenpai = InTenpai(CountsOf(p.Concealed), len(p.Melds))
}

func removeFirst(names []string, name string) []string {
	out := make([]string, 0, len(names))
	removed := false
	for _, n := range names {
		if !removed && n == name {
			removed = true
			continue
		}
		out = append(out, n)
	}
	return out
}
