package game

import (
	"errors"
	"testing"

	"github.com/peterkuimelis/biopath/internal/log"
)

// startTurn moves the game to the Draw phase and begins the next turn.
func startTurn(t *testing.T, g *Game) {
	t.Helper()
	g.state.Phase = PhaseDraw
	if !g.StartTurn() {
		t.Fatal("StartTurn failed")
	}
}

func TestDraftFromDeck(t *testing.T) {
	g, logger := newTestGame(t)
	gs := g.state
	setHand(t, g, "fad")
	gs.Deck = deckOf(t, g, "nad+", "fad", "coa", "gdp", "citrate", "isocitrate")

	startTurn(t, g)
	if !gs.Drafting || gs.Phase != PhaseDraw {
		t.Fatalf("expected an open draft in the Draw phase, got %v / %s", gs.Drafting, gs.Phase)
	}
	if got := cardIDs(gs.DraftChoices); !equalIDs(got, []string{"isocitrate", "citrate", "gdp", "coa"}) {
		t.Fatalf("expected the top four cards, got %v", got)
	}
	if len(gs.Deck) != 2 {
		t.Errorf("expected 2 cards left in deck, got %d", len(gs.Deck))
	}
	if g.StartTurn() {
		t.Error("StartTurn should wait for the pick")
	}

	picked := g.PickDraft(1)
	if picked == nil || picked.ID() != "citrate" {
		t.Fatalf("expected citrate, got %v", picked)
	}
	if got := cardIDs(gs.Hand); !equalIDs(got, []string{"fad", "citrate"}) {
		t.Errorf("unexpected hand %v", got)
	}
	if got := cardIDs(gs.Deck); !equalIDs(got, []string{"coa", "gdp", "isocitrate", "nad+", "fad"}) {
		t.Errorf("rejects should go to the bottom, deck is %v", got)
	}
	if gs.Drafting || gs.DraftChoices != nil || gs.Phase != PhaseAction {
		t.Error("the draft should close and open the Action phase")
	}
	if len(logger.EventsOfType(log.EventDraftOffer)) != 1 || len(logger.EventsOfType(log.EventDraftPick)) != 1 {
		t.Error("expected draft offer and pick events")
	}
}

func TestDraftSkippedWithFullHand(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, "fad", "coa", "gdp", "nad+", "citrate")

	startTurn(t, g)
	if g.state.Drafting {
		t.Error("no draft with a full hand")
	}
	if g.state.Phase != PhaseAction {
		t.Errorf("expected Action phase, got %s", g.state.Phase)
	}
}

func TestDraftRecyclesDiscard(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	setHand(t, g, "fad")
	gs.Deck = nil
	gs.Discard = deckOf(t, g, "coa", "gdp")

	startTurn(t, g)
	if !gs.Drafting || len(gs.DraftChoices) != 2 {
		t.Fatalf("expected a two-card draft from the old discard pile, got %d", len(gs.DraftChoices))
	}
	if len(gs.Discard) != 0 || len(gs.Deck) != 0 {
		t.Error("every recycled card is on offer")
	}
}

func TestNoDraftWithoutCards(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	setHand(t, g, "fad")
	gs.Deck = nil
	gs.Discard = nil

	startTurn(t, g)
	if gs.Drafting || gs.Phase != PhaseAction {
		t.Error("expected straight to Action with nothing to draft")
	}
}

func TestPickDraftOutOfRange(t *testing.T) {
	g, _ := newTestGame(t)
	if g.PickDraft(0) != nil {
		t.Error("no draft is open")
	}
	setHand(t, g, "fad")
	startTurn(t, g)
	if g.PickDraft(4) != nil || g.PickDraft(-1) != nil {
		t.Error("expected nil for a bad index")
	}
	if !g.state.Drafting {
		t.Error("a bad pick should leave the draft open")
	}
}

func TestProductWaveDraft(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventProductWave}
	setHand(t, g, "fad")
	deck := len(gs.Deck)

	startTurn(t, g)
	if gs.ActiveEvent != EventProductWave {
		t.Fatalf("expected product wave, got %q", gs.ActiveEvent)
	}
	if len(gs.DraftChoices) != g.rules.DraftSize {
		t.Fatalf("expected %d choices, got %d", g.rules.DraftSize, len(gs.DraftChoices))
	}
	for _, c := range gs.DraftChoices {
		if !c.IsProduct() {
			t.Errorf("wave offered a cofactor: %s", c.ID())
		}
	}
	if len(gs.Deck) != deck {
		t.Error("wave choices should not come from the deck")
	}

	g.PickDraft(0)
	if len(gs.Deck) != deck {
		t.Error("unpicked wave cards should not enter the deck")
	}
	if len(gs.Hand) != 2 {
		t.Errorf("expected 2 cards in hand, got %d", len(gs.Hand))
	}
}

func TestCofactorWaveDraft(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventCofactorWave}
	setHand(t, g, "citrate")

	startTurn(t, g)
	for _, c := range gs.DraftChoices {
		if !c.IsCofactor() {
			t.Errorf("wave offered a product: %s", c.ID())
		}
	}
}

func TestHandRefreshAccepted(t *testing.T) {
	g, logger := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventHandRefresh}
	setHand(t, g, "fad", "coa", "gdp")

	startTurn(t, g)
	if !gs.PendingRefresh || gs.Phase != PhaseDraw || gs.Drafting {
		t.Fatal("expected a pending refresh offer before any draft")
	}
	if g.StartTurn() {
		t.Error("StartTurn should wait for the refresh answer")
	}

	if !g.AcceptRefresh() {
		t.Fatal("AcceptRefresh failed")
	}
	if len(gs.Hand) != 5 {
		t.Errorf("expected a fresh hand of 5, got %d", len(gs.Hand))
	}
	if countID(gs.Discard, "fad") != 1 || countID(gs.Discard, "gdp") != 1 {
		t.Error("old hand should be discarded")
	}
	if gs.PendingRefresh || gs.Drafting || gs.Phase != PhaseAction {
		t.Error("expected Action phase with no draft after a refresh")
	}
	if g.AcceptRefresh() || g.DeclineRefresh() {
		t.Error("no refresh is pending any more")
	}
	if len(logger.EventsOfType(log.EventHandRefresh)) != 1 {
		t.Error("expected a hand refresh event")
	}
}

// A refresh never deals more than the current hand limit.
func TestHandRefreshCappedByHandLimit(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventHandRefresh}
	gs.HandLimit = 3
	setHand(t, g, "fad", "coa")

	startTurn(t, g)
	if !g.AcceptRefresh() {
		t.Fatal("AcceptRefresh failed")
	}
	if len(gs.Hand) != 3 {
		t.Errorf("expected a fresh hand of 3 at hand limit 3, got %d", len(gs.Hand))
	}
	if countID(gs.Discard, "fad") != 1 || countID(gs.Discard, "coa") != 1 {
		t.Error("old hand should be discarded")
	}
}

func TestHandRefreshDeclined(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventHandRefresh}
	setHand(t, g, "fad", "coa", "gdp")

	startTurn(t, g)
	if !g.DeclineRefresh() {
		t.Fatal("DeclineRefresh failed")
	}
	if got := cardIDs(gs.Hand); !equalIDs(got, []string{"fad", "coa", "gdp"}) {
		t.Errorf("hand should be kept, got %v", got)
	}
	if !gs.Drafting {
		t.Error("declining should continue to the draft")
	}
}

func TestInsightPeek(t *testing.T) {
	g, logger := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventInsight}
	setHand(t, g, "fad")
	gs.Deck = deckOf(t, g, "nad+", "nad+", "fad", "coa", "gdp", "citrate", "isocitrate", "malate", "succinate", "fumarate")

	startTurn(t, g)
	if !gs.PeekPending {
		t.Fatal("expected a pending peek")
	}
	want := []string{"fumarate", "succinate", "malate", "isocitrate", "citrate", "gdp", "coa", "fad"}
	if got := cardIDs(gs.Peek); !equalIDs(got, want) {
		t.Errorf("expected top 8 top-first, got %v", got)
	}
	if len(gs.Deck) != 10 {
		t.Error("peeking should not remove cards")
	}
	if len(logger.EventsOfType(log.EventPeek)) != 1 {
		t.Error("expected a peek event")
	}

	if !g.DismissPeek() {
		t.Fatal("DismissPeek failed")
	}
	if gs.PeekPending || gs.Peek != nil || !gs.Drafting {
		t.Error("dismissing should clear the peek and open the draft")
	}
	if got := cardIDs(gs.DraftChoices); !equalIDs(got, want[:4]) {
		t.Errorf("draft should offer the peeked cards, got %v", got)
	}
}

func TestComboShieldCountsDown(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventComboShield}
	setHand(t, g, "fad", "coa", "gdp", "nad+", "citrate")

	startTurn(t, g)
	if gs.ShieldTurns != 3 {
		t.Fatalf("expected 3 shield turns, got %d", gs.ShieldTurns)
	}
	startTurn(t, g)
	if gs.ShieldTurns != 2 {
		t.Errorf("expected 2 shield turns, got %d", gs.ShieldTurns)
	}
	if gs.ActiveEvent != EventNone {
		t.Error("the event should only be active on its turn")
	}
}

func TestEnzymeBoostEvent(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Schedule = map[int]EventID{1: EventEnzymeBoost}
	setHand(t, g, "fad")

	startTurn(t, g)
	if !gs.EnzymeBoost {
		t.Error("expected an armed enzyme boost")
	}
	if !gs.Drafting {
		t.Error("enzyme boost does not pause the draft")
	}
}

func TestEndlessExtendsSchedule(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Endless = true
	gs.Turn = 10
	gs.Schedule = map[int]EventID{12: EventEnzymeBoost}
	setHand(t, g, "fad", "coa", "gdp", "nad+", "citrate")

	startTurn(t, g)
	if len(gs.Schedule) != 1+g.rules.EndlessBatch {
		t.Errorf("expected %d scheduled events, got %d", 1+g.rules.EndlessBatch, len(gs.Schedule))
	}
	if lastScheduled(gs.Schedule) <= 12 {
		t.Error("expected events beyond turn 12")
	}
}

func TestCommandsIgnoredOutOfPhase(t *testing.T) {
	g, logger := newTestGame(t)
	before := len(logger.Events())

	if g.StartTurn() {
		t.Error("StartTurn in the Action phase")
	}
	if g.PickDraft(0) != nil {
		t.Error("PickDraft without a draft")
	}
	if g.AcceptRefresh() || g.DeclineRefresh() || g.DismissPeek() {
		t.Error("answers without a prompt")
	}
	if g.ChainStep() != nil {
		t.Error("ChainStep without a chain")
	}
	if g.Discard() != nil {
		t.Error("Discard without a selection")
	}
	if g.Deselect() {
		t.Error("Deselect without a selection")
	}
	if g.Select(99) {
		t.Error("Select out of range")
	}
	if len(logger.Events()) != before {
		t.Error("ignored commands should not log")
	}
}

func TestSelectAndDeselect(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, "fad", "coa")

	if !g.Select(1) || g.state.SelectedCard().ID() != "coa" {
		t.Fatal("expected CoA selected")
	}
	if !g.Deselect() || g.state.Selected != -1 {
		t.Error("expected selection cleared")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	g, _ := newTestGame(t)
	preStage(t, g, stCIT, "isocitrate")

	snap := g.Snapshot()
	snap.State.Score = 999
	snap.State.Hand[0].Card = nil
	snap.State.Hand = snap.State.Hand[:1]
	snap.State.Staged[stCIT] = nil
	snap.State.Schedule[50] = EventInsight

	gs := g.state
	if gs.Score != 0 || len(gs.Hand) != 5 || gs.Hand[0].Card == nil {
		t.Error("snapshot changes leaked into the game")
	}
	if len(gs.Staged[stCIT]) != 1 || len(gs.Schedule) != 0 {
		t.Error("snapshot shares stage or schedule storage")
	}
}

func TestObserverReceivesSnapshots(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, "citrate", "fad")

	var snaps []Snapshot
	g.Observe(func(s Snapshot) { snaps = append(snaps, s) })

	g.Select(0)
	g.Play(stOAA)
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].State.Selected != 0 {
		t.Error("first snapshot should show the selection")
	}
	if snaps[1].State.LastOutcome == nil || snaps[1].State.LastOutcome.Kind() != OutcomeStageProduct {
		t.Error("second snapshot should carry the outcome")
	}

	g.Observe(nil)
	g.Select(0)
	if len(snaps) != 2 {
		t.Error("removed observer was called")
	}
}

func TestRestart(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	gs.Score = 50
	gs.Turn = 30
	gs.Over = true

	g.Restart()
	gs = g.state
	if gs.Score != 0 || gs.Turn != 0 || gs.Over {
		t.Error("expected a fresh run")
	}
	if len(gs.Hand) != 5 || gs.Phase != PhaseAction {
		t.Error("expected a dealt opening hand")
	}
}

func TestBestScoreRecordedOnGameOver(t *testing.T) {
	scores := &memoryScores{best: 5}
	g := New(Config{Random: fixedRandom{}, Scores: scores})
	gs := g.state
	gs.Schedule = map[int]EventID{}
	gs.Score = 20
	gs.Turn = g.rules.MaxTurns
	setHand(t, g, "fad")

	if snap := g.Snapshot(); snap.BestScore != 5 || snap.NewBest {
		t.Fatalf("expected stored best 5, got %+v", snap)
	}

	g.Select(0)
	g.Discard()
	if !gs.Over {
		t.Fatal("expected the run to be over")
	}
	snap := g.Snapshot()
	if snap.BestScore != 20 || !snap.NewBest {
		t.Errorf("expected new best 20, got %d (new=%v)", snap.BestScore, snap.NewBest)
	}

	g.Snapshot()
	g.Deselect()
	if scores.writes != 1 {
		t.Errorf("expected one write per finished run, got %d", scores.writes)
	}
	if scores.unbound != 0 {
		t.Errorf("every store call should carry a timeout, %d did not", scores.unbound)
	}

	g.Restart()
	if g.Snapshot().NewBest {
		t.Error("NewBest belongs to the finished run")
	}
}

func TestBestScoreNotBeaten(t *testing.T) {
	scores := &memoryScores{best: 100}
	g := New(Config{Random: fixedRandom{}, Scores: scores})
	g.state.Score = 20
	g.state.Turn = g.rules.MaxTurns
	setHand(t, g, "fad")

	g.Select(0)
	g.Discard()
	snap := g.Snapshot()
	if snap.BestScore != 100 || snap.NewBest {
		t.Errorf("expected best 100 kept, got %+v", snap)
	}
}

func TestBestScoreStoreFailures(t *testing.T) {
	logger := log.NewMemoryLogger()
	scores := &memoryScores{readErr: errors.New("disk gone"), writeErr: errors.New("disk gone")}
	g := New(Config{Random: fixedRandom{}, Scores: scores, Logger: logger})
	g.state.Turn = g.rules.MaxTurns
	g.state.Score = 40
	setHand(t, g, "fad")

	g.Select(0)
	if g.Discard() == nil {
		t.Fatal("store failures must not block play")
	}
	snap := g.Snapshot()
	if snap.BestScore != 0 || snap.NewBest {
		t.Errorf("unreadable store should read as 0, got %+v", snap)
	}
	if !snap.State.Over || snap.State.Score != 40 {
		t.Error("the run should still finish normally")
	}
	if len(logger.EventsOfType(log.EventScoreStore)) < 2 {
		t.Error("expected read and write failures to be logged")
	}
}

// Plays that do not advance neither create nor destroy cards.
func TestCardConservation(t *testing.T) {
	g, _ := newTestGame(t)
	gs := g.state
	setHand(t, g, "malate", "isocitrate", "nad+", "fad", "citrate")
	gs.Deck = gs.Deck[:20]
	total := gs.CardCount()

	check := func(step string) {
		t.Helper()
		if got := gs.CardCount(); got != total {
			t.Fatalf("%s: card count %d, want %d", step, got, total)
		}
	}

	playCard(t, g, "malate", stOAA)
	check("wrong")
	playCard(t, g, "isocitrate", stCIT)
	check("preload")
	playCard(t, g, "nad+", stICIT)
	check("cofactor preload")
	playCard(t, g, "fad", stOAA)
	check("rejected")
	g.Select(0)
	g.Discard()
	check("discard")

	startTurn(t, g)
	g.PickDraft(2)
	check("draft")
}

// Random play must keep every state invariant until the run ends.
func TestRandomPlayInvariants(t *testing.T) {
	ladder := make(map[float64]bool)
	for _, r := range DefaultRules().Ladder {
		ladder[r.Multiplier] = true
	}

	for _, seed := range []uint64{1, 2, 3, 42, 2024} {
		g := New(Config{Seed: seed})
		gs := g.state
		rng := NewRandom(seed + 1000)
		lastScore := 0

		for step := 0; step < 5000 && !gs.Over; step++ {
			switch {
			case gs.PendingChain:
				g.ChainStep()
			case gs.PendingRefresh:
				if rng.IntN(2) == 0 {
					g.AcceptRefresh()
				} else {
					g.DeclineRefresh()
				}
			case gs.PeekPending:
				g.DismissPeek()
			case gs.Drafting:
				g.PickDraft(rng.IntN(len(gs.DraftChoices)))
			case gs.Phase == PhaseDraw:
				if !g.StartTurn() {
					t.Fatalf("seed %d: stuck in Draw phase at turn %d", seed, gs.Turn)
				}
			case gs.Phase == PhaseAction:
				if len(gs.Hand) == 0 {
					t.Fatalf("seed %d: empty hand in Action phase", seed)
				}
				i := rng.IntN(len(gs.Hand))
				target := gs.Stage
				if rng.IntN(3) == 0 {
					target = rng.IntN(RingSize)
				}
				g.Select(i)
				if o := g.Play(target); o != nil && o.Kind() == OutcomeRejected {
					g.Select(i)
					g.Discard()
				}
			default:
				t.Fatalf("seed %d: unexpected phase %s", seed, gs.Phase)
			}

			if len(gs.Hand) > gs.HandLimit {
				t.Fatalf("seed %d: hand %d over limit %d", seed, len(gs.Hand), gs.HandLimit)
			}
			if !ladder[gs.Multiplier] {
				t.Fatalf("seed %d: multiplier %.2f not on the ladder", seed, gs.Multiplier)
			}
			if gs.Score < lastScore {
				t.Fatalf("seed %d: score fell from %d to %d", seed, lastScore, gs.Score)
			}
			lastScore = gs.Score
			if gs.Stage < 0 || gs.Stage >= RingSize {
				t.Fatalf("seed %d: stage %d out of range", seed, gs.Stage)
			}
			for s := range gs.Staged {
				products := 0
				for _, c := range gs.Staged[s] {
					if c.IsProduct() {
						products++
					}
				}
				if products > 1 {
					t.Fatalf("seed %d: stage %d holds %d products", seed, s, products)
				}
			}
		}
		if !gs.Over {
			t.Errorf("seed %d: run did not finish", seed)
		}
	}
}
