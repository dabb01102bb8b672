package game

import (
	"fmt"
	"testing"

	"github.com/Holk-VB/riichiBackend/tiles"
)

func joinFour(t *testing.T, g *Game) {
	t.Helper()
	for i := 1; i <= MaxPlayers; i++ {
		if _, err := g.AddPlayer(int64(i), fmt.Sprintf("player %d", i)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGame_AddPlayer(t *testing.T) {
	g := NewGame("g1", 1)

	p, err := g.AddPlayer(7, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if p.Score != DefaultScore {
		t.Errorf("starting score %d, want %d", p.Score, DefaultScore)
	}

	if _, err := g.AddPlayer(7, "alice again"); err != ErrAlreadyInGame {
		t.Errorf("want ErrAlreadyInGame, got %v", err)
	}

	for i := 2; i <= MaxPlayers; i++ {
		if _, err := g.AddPlayer(int64(i), fmt.Sprintf("player %d", i)); err != nil {
			t.Fatal(err)
		}
	}
	if !g.Full() {
		t.Error("four players should fill the table")
	}
	if _, err := g.AddPlayer(99, "late"); err != ErrGameFull {
		t.Errorf("want ErrGameFull, got %v", err)
	}
}

func TestGame_Start(t *testing.T) {
	g := NewGame("g1", 11)
	joinFour(t, g)

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if g.Status != StatusPlaying {
		t.Fatal("game did not enter play")
	}
	if g.CurrentHand == nil {
		t.Fatal("no hand dealt")
	}

	// Players are reseated east first and hold distinct winds.
	seen := map[string]bool{}
	for i, p := range g.Players {
		if p.Wind != tiles.Winds[i] {
			t.Errorf("seat %d holds %s, want %s", i, p.Wind, tiles.Winds[i])
		}
		seen[p.Wind] = true
	}
	if len(seen) != MaxPlayers {
		t.Errorf("winds not distinct: %v", seen)
	}

	dealer := g.Players[0]
	if !dealer.IsDealer {
		t.Error("the east player deals")
	}
	if dealer.Concealed.Length != DealSize+1 {
		t.Errorf("dealer holds %d tiles, want %d", dealer.Concealed.Length, DealSize+1)
	}
	if !dealer.CanPlay {
		t.Error("the dealer opens the hand")
	}
	for _, p := range g.Players[1:] {
		if p.Concealed.Length != DealSize {
			t.Errorf("%s holds %d tiles, want %d", p.Wind, p.Concealed.Length, DealSize)
		}
		if p.CanPlay {
			t.Errorf("%s must wait for their turn", p.Wind)
		}
	}
}

func TestGame_StartDeterministicBySeed(t *testing.T) {
	build := func() *Game {
		g := NewGame("g", 123)
		joinFour(t, g)
		if err := g.Start(); err != nil {
			t.Fatal(err)
		}
		return g
	}

	a, b := build(), build()
	for i := range a.Players {
		if a.Players[i].UserID != b.Players[i].UserID {
			t.Fatalf("same seed seated players differently")
		}
		at, bt := a.Players[i].Concealed.Tiles(), b.Players[i].Concealed.Tiles()
		for j := range at {
			if at[j].ID != bt[j].ID {
				t.Fatalf("same seed dealt different tiles to seat %d", i)
			}
		}
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	g := m.CreateGame("g1", 5)
	if got, ok := m.Get("g1"); !ok || got != g {
		t.Fatal("created game not retrievable")
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("unknown id resolved")
	}

	if m.FindJoinable() != g {
		t.Error("waiting game should be joinable")
	}
	joinFour(t, g)
	if m.FindJoinable() != nil {
		t.Error("a full game is not joinable")
	}

	if m.Count() != 1 {
		t.Errorf("count %d, want 1", m.Count())
	}
	m.Remove("g1")
	if m.Count() != 0 {
		t.Error("removed game still counted")
	}
}
