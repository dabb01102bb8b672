package game

import (
	"strings"

	"github.com/Holk-VB/riichiBackend/tiles"
)

// Call types, in the vocabulary shared by call descriptors and meld types.
const (
	CallChi       = "chi"
	CallPon       = "pon"
	CallOpenedKan = "opened kan"
	CallClosedKan = "closed kan"
	CallLateKan   = "late kan"
	CallRon       = "ron"
	CallTsumo     = "tsumo"
	CallRiichi    = "riichi"
)

// Call describes one legal call a player may commit. Name is the
// hyphen-joined concatenation of the composing tile names, in the order
// fixed by the rule that produced the call; a committed call is matched
// verbatim against the computed possible calls.
type Call struct {
	Type string     `json:"type"`
	Suit tiles.Suit `json:"suit"`
	Name string     `json:"name"`
}

// repeatedName builds descriptor names like "5-5-5" for pon and kan calls.
func repeatedName(name string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = name
	}
	return strings.Join(parts, "-")
}

// Player is one seat's view of the running hand.
type Player struct {
	UserID   int64
	Username string
	Score    int
	Wind     string
	IsDealer bool

	// CanPlay gates turn-phase actions; set when the player's turn starts,
	// cleared by their discard.
	CanPlay bool
	// InTenpai is recomputed on every change to the concealed hand.
	InTenpai bool

	PossibleCalls []Call
	// CallSent is the one call committed for the current call-phase window.
	CallSent *Call

	Concealed *tiles.Stack
	Discard   *tiles.Stack
	Melds     []*tiles.Stack
}

func (p *Player) StartPlaying() {
	p.CanPlay = true
}

func (p *Player) StopPlaying() {
	p.CanPlay = false
}

func (p *Player) ClearCalls() {
	p.PossibleCalls = nil
	p.CallSent = nil
}

// HasPossibleCall reports whether the call matches one of the player's
// computed possible calls exactly.
func (p *Player) HasPossibleCall(call Call) bool {
	for _, c := range p.PossibleCalls {
		if c == call {
			return true
		}
	}
	return false
}

// SendCall commits a call for the current window. The call must be one of
// the player's possible calls.
func (p *Player) SendCall(call Call) error {
	if !p.HasPossibleCall(call) {
		return ErrIllegalCall
	}
	committed := call
	p.CallSent = &committed
	return nil
}
