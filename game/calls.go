package game

import (
	"strconv"
	"strings"

	"github.com/Holk-VB/riichiBackend/tiles"
)

// Discard is the snapshot of the last discarded tile kept on the hand.
type Discard struct {
	TileID int        `json:"id"`
	Suit   tiles.Suit `json:"suit"`
	Name   string     `json:"name"`
}

// TurnPhaseCalls enumerates the calls a player can declare on their own
// turn from concealed-hand content alone: one closed kan per tile kind held
// four times. Tsumo and riichi will join once scoring is implemented.
func TurnPhaseCalls(concealed *tiles.Stack) []Call {
	var out []Call
	for _, kind := range tiles.Kinds {
		if concealed.Contains(kind.Suit, kind.Name, 4) {
			out = append(out, Call{
				Type: CallClosedKan,
				Suit: kind.Suit,
				Name: repeatedName(kind.Name, 4),
			})
		}
	}
	return out
}

// CallPhaseCalls enumerates the calls a player can commit against the last
// discarded tile. isNextSeat must be true only for the discarder's
// immediate successor; chi is never offered to any other seat. The
// discarder themself gets no calls; the caller skips their seat entirely.
func CallPhaseCalls(concealed *tiles.Stack, melds []*tiles.Stack, last Discard, isNextSeat bool) []Call {
	var out []Call

	// Ron goes here once winning-hand scoring is implemented.

	// Opened kan: three matching tiles in hand plus the discard.
	if concealed.Contains(last.Suit, last.Name, 3) {
		out = append(out, Call{
			Type: CallOpenedKan,
			Suit: last.Suit,
			Name: repeatedName(last.Name, 4),
		})
	}

	// Late kan: an existing pon meld of exactly the discarded kind.
	ponName := repeatedName(last.Name, 3)
	for _, meld := range melds {
		if meld.Meld != nil && meld.Meld.Type == CallPon &&
			meld.Meld.Suit == last.Suit && meld.Name == ponName {
			out = append(out, Call{
				Type: CallLateKan,
				Suit: last.Suit,
				Name: repeatedName(last.Name, 4),
			})
		}
	}

	// Pon: two matching tiles in hand plus the discard.
	if concealed.Contains(last.Suit, last.Name, 2) {
		out = append(out, Call{
			Type: CallPon,
			Suit: last.Suit,
			Name: ponName,
		})
	}

	// Chi: number suits only, and only for the next seat in turn order.
	if isNextSeat && tiles.IsNumberSuit(last.Suit) {
		out = append(out, chiCalls(concealed, last.Suit, last.Name)...)
	}

	return out
}

// chiCalls enumerates the up to three sequence shapes the discarded tile
// can complete. Edge values near 1 or 9 admit fewer shapes.
func chiCalls(concealed *tiles.Stack, suit tiles.Suit, name string) []Call {
	n, _ := strconv.Atoi(name)
	var out []Call

	prev := tiles.PrevNumber(name)
	prevPrev := tiles.PrevNumber(prev)
	next := tiles.NextNumber(name)
	nextNext := tiles.NextNumber(next)

	// The two previous tiles: (n-2, n-1, n).
	if n >= 3 && concealed.Contains(suit, prevPrev, 1) && concealed.Contains(suit, prev, 1) {
		out = append(out, Call{
			Type: CallChi,
			Suit: suit,
			Name: strings.Join([]string{prevPrev, prev, name}, "-"),
		})
	}

	// The surrounding tiles: (n-1, n, n+1).
	if n >= 2 && n <= 8 && concealed.Contains(suit, prev, 1) && concealed.Contains(suit, next, 1) {
		out = append(out, Call{
			Type: CallChi,
			Suit: suit,
			Name: strings.Join([]string{prev, name, next}, "-"),
		})
	}

	// The two next tiles: (n, n+1, n+2).
	if n <= 7 && concealed.Contains(suit, next, 1) && concealed.Contains(suit, nextNext, 1) {
		out = append(out, Call{
			Type: CallChi,
			Suit: suit,
			Name: strings.Join([]string{name, next, nextNext}, "-"),
		})
	}

	return out
}
