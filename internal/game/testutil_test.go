package game

import (
	"context"
	"testing"

	"github.com/peterkuimelis/biopath/internal/log"
)

// fixedRandom always returns the same values and never reorders, so deck
// order and event draws are fully predictable.
type fixedRandom struct {
	f float64
	n int
}

func (r fixedRandom) Float64() float64 {
	return r.f
}

func (r fixedRandom) IntN(n int) int {
	return min(r.n, n-1)
}

func (r fixedRandom) Shuffle(int, func(i, j int)) {}

// Stage indices of the default cycle.
const (
	stOAA = iota
	stCIT
	stICIT
	stAKG
	stSCoA
	stSUC
	stFUM
	stMAL
)

// newTestGame creates a deterministic game with no scheduled events.
func newTestGame(t *testing.T) (*Game, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	g := New(Config{Random: fixedRandom{}, Logger: logger})
	g.state.Schedule = map[int]EventID{}
	return g, logger
}

// mint creates a new instance of a catalog card.
func mint(t *testing.T, g *Game, id string) *CardInstance {
	t.Helper()
	card := g.cat.Card(id)
	if card == nil {
		t.Fatalf("unknown card %q", id)
	}
	return g.state.NewInstance(card)
}

// setHand replaces the hand and opens the Action phase.
func setHand(t *testing.T, g *Game, ids ...string) {
	t.Helper()
	g.state.Hand = nil
	for _, id := range ids {
		g.state.Hand = append(g.state.Hand, mint(t, g, id))
	}
	g.state.Selected = -1
	g.state.Phase = PhaseAction
}

// preStage puts cards directly onto a stage.
func preStage(t *testing.T, g *Game, idx int, ids ...string) {
	t.Helper()
	for _, id := range ids {
		g.state.Staged[idx] = append(g.state.Staged[idx], mint(t, g, id))
	}
}

// playCard selects the first hand card with the given id and plays it.
func playCard(t *testing.T, g *Game, id string, stageIdx int) Outcome {
	t.Helper()
	if g.state.Phase != PhaseAction {
		g.state.Phase = PhaseAction
	}
	for i, c := range g.state.Hand {
		if c.ID() == id {
			if !g.Select(i) {
				t.Fatalf("could not select %s", id)
			}
			o := g.Play(stageIdx)
			if o == nil {
				t.Fatalf("Play(%d) with %s returned nil", stageIdx, id)
			}
			return o
		}
	}
	t.Fatalf("%s not in hand", id)
	return nil
}

func cardIDs(cards []*CardInstance) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID()
	}
	return ids
}

func countID(cards []*CardInstance, id string) int {
	n := 0
	for _, c := range cards {
		if c.ID() == id {
			n++
		}
	}
	return n
}

// memoryScores is an in-package BestScore for engine tests.
type memoryScores struct {
	best     int
	readErr  error
	writeErr error
	writes   int
	unbound  int // calls made without a deadline
}

func (m *memoryScores) track(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		m.unbound++
	}
}

func (m *memoryScores) Read(ctx context.Context) (int, error) {
	m.track(ctx)
	if m.readErr != nil {
		return 0, m.readErr
	}
	return m.best, nil
}

func (m *memoryScores) WriteIfHigher(ctx context.Context, score int) (bool, error) {
	m.track(ctx)
	m.writes++
	if m.writeErr != nil {
		return false, m.writeErr
	}
	if score <= m.best {
		return false, nil
	}
	m.best = score
	return true, nil
}
