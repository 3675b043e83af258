package game

import (
	"context"
	"time"

	"github.com/peterkuimelis/biopath/internal/log"
)

// BestScore persists the highest final score across runs. Implementations
// may fail; the game keeps running and treats a failed read as 0.
type BestScore interface {
	Read(ctx context.Context) (int, error)
	// WriteIfHigher stores score when it beats the stored value and reports
	// whether it did.
	WriteIfHigher(ctx context.Context, score int) (bool, error)
}

// storeTimeout bounds each best-score call.
const storeTimeout = 2 * time.Second

// Config holds configuration for creating a new game.
type Config struct {
	Catalog *Catalog  // nil for DefaultCatalog
	Random  Random    // nil to seed from Seed
	Seed    uint64    // RNG seed (0 for random)
	Scores  BestScore // nil disables best-score tracking
	Logger  log.EventLogger
}

// Snapshot is an independent copy of the game for rendering.
type Snapshot struct {
	State     *GameState
	BestScore int
	NewBest   bool // this run set a new best score
}

// Game owns the state of one run and applies player commands to it.
//
// Commands that are not valid in the current phase are ignored: they
// return false or nil and leave the state untouched. Game is not safe for
// concurrent use.
type Game struct {
	cat      *Catalog
	rules    Rules
	rng      Random
	scores   BestScore
	logger   log.EventLogger
	state    *GameState
	observer func(Snapshot)
	newBest  bool
	recorded bool
}

// New creates a game and deals the opening hand.
func New(cfg Config) *Game {
	cat := cfg.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}
	rng := cfg.Random
	if rng == nil {
		rng = NewRandom(cfg.Seed)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	g := &Game{
		cat:    cat,
		rules:  cat.Rules,
		rng:    rng,
		scores: cfg.Scores,
		logger: logger,
	}
	g.start()
	return g
}

// start resets the state to a fresh run: new deck, new schedule, full hand.
func (g *Game) start() {
	g.state = NewGameState(g.rules)
	g.newBest = false
	g.recorded = false
	gs := g.state

	gs.Deck = g.buildDeck(g.rules.TierFor(0))
	gs.Schedule = scheduleEvents(g.rules, g.rng)
	for i := 0; i < gs.HandLimit; i++ {
		if g.drawCard() == nil {
			break
		}
	}
	g.setPhase(PhaseAction)
}

// Catalog returns the catalog the game was built from.
func (g *Game) Catalog() *Catalog { return g.cat }

// Logger returns the event logger.
func (g *Game) Logger() log.EventLogger { return g.logger }

// Observe registers fn to receive a snapshot after every state change.
// Passing nil removes the observer.
func (g *Game) Observe(fn func(Snapshot)) {
	g.observer = fn
}

// Snapshot returns an independent copy of the current state together with
// the stored best score.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:     g.state.Clone(),
		BestScore: g.readBest(),
		NewBest:   g.newBest,
	}
}

// Restart abandons the current run and starts a new one.
func (g *Game) Restart() {
	g.start()
	g.emit()
}

// StartTurn begins the next turn: applies any scheduled event and opens the
// draft. A hand refresh offer or a deck peek pauses the turn in the Draw
// phase until it is answered.
func (g *Game) StartTurn() bool {
	gs := g.state
	if gs.Over || gs.Phase != PhaseDraw || g.awaiting() {
		return false
	}

	gs.Turn++
	gs.Selected = -1
	gs.ActiveEvent = EventNone
	gs.LastOutcome = nil
	gs.LastStep = nil
	if gs.ShieldTurns > 0 {
		gs.ShieldTurns--
	}
	g.log(log.NewTurnEvent(gs.Turn))

	if gs.Endless && gs.Turn >= lastScheduled(gs.Schedule)-g.rules.EndlessLookahead {
		extendSchedule(gs.Schedule, gs.Turn, g.rules, g.rng)
	}

	if id, ok := gs.Schedule[gs.Turn]; ok {
		g.applyEvent(id)
		if gs.PendingRefresh || gs.PeekPending {
			g.emit()
			return true
		}
	}

	g.openDraft()
	g.emit()
	return true
}

// openDraft starts the draft, or goes straight to Action when there is none.
func (g *Game) openDraft() {
	g.startDraft()
	if !g.state.Drafting {
		g.setPhase(PhaseAction)
	}
}

// awaiting reports whether the turn is blocked on a player answer.
func (g *Game) awaiting() bool {
	gs := g.state
	return gs.Drafting || gs.PendingRefresh || gs.PeekPending || gs.PendingChain
}

// Select marks hand card i for the next play or discard.
func (g *Game) Select(i int) bool {
	gs := g.state
	if gs.Over || gs.Phase != PhaseAction || i < 0 || i >= len(gs.Hand) {
		return false
	}
	gs.Selected = i
	g.emit()
	return true
}

// Deselect clears the current selection.
func (g *Game) Deselect() bool {
	gs := g.state
	if gs.Selected < 0 {
		return false
	}
	gs.Selected = -1
	g.emit()
	return true
}

// Play places the selected card on stage and resolves the outcome. A
// Rejected outcome leaves the card in hand and the phase unchanged; every
// other outcome ends the action and returns the game to the Draw phase.
// Returns nil when there is no selected card or the stage is out of range.
func (g *Game) Play(stage int) Outcome {
	gs := g.state
	card := gs.SelectedCard()
	if gs.Over || gs.Phase != PhaseAction || card == nil || stage < 0 || stage >= RingSize {
		return nil
	}

	o := place(g.cat, gs, card, stage)
	idx := gs.Selected
	gs.Selected = -1
	gs.LastOutcome = o

	if r, rejected := o.(*Rejected); rejected {
		g.log(log.NewRejectedEvent(gs.Turn, g.phase(), card.Card.Abbreviation, g.cat.Stages[stage].Abbreviation, r.Reason))
		g.emit()
		return o
	}

	gs.removeFromHand(idx)
	g.resolve(o)
	g.emit()
	return o
}

// resolve applies the consequences of an accepted placement.
func (g *Game) resolve(o Outcome) {
	gs := g.state
	g.setPhase(PhaseResolution)
	gs.LastStep = nil

	card := o.Card().Card.Abbreviation
	stage := g.cat.Stages[o.Stage()].Abbreviation

	switch v := o.(type) {
	case *Advance:
		v.Step = g.advance(v.Stage(), false)
	case *AdvanceFromCofactor:
		v.Step = g.advance(v.Stage(), false)
	case *Wrong:
		gs.Discard = append(gs.Discard, v.Card())
		shielded := gs.ShieldTurns > 0
		if !shielded {
			gs.Combo = 0
		}
		g.log(log.NewWrongEvent(gs.Turn, g.phase(), card, stage, shielded))
	case *StageProduct, *CofactorStaged:
		g.log(log.NewStagedEvent(gs.Turn, g.phase(), card, stage, true))
	case *Preload, *CofactorPreloaded:
		gs.Stalled++
		g.log(log.NewStagedEvent(gs.Turn, g.phase(), card, stage, false))
	}

	g.settleStalls()
	g.checkTerminal()
	g.setPhase(PhaseDraw)
}

// Discard throws away the selected card. It counts as a stall.
func (g *Game) Discard() *CardInstance {
	gs := g.state
	if gs.Over || gs.Phase != PhaseAction || gs.SelectedCard() == nil {
		return nil
	}

	card := gs.removeFromHand(gs.Selected)
	gs.Selected = -1
	gs.LastOutcome = nil
	gs.LastStep = nil
	gs.Discard = append(gs.Discard, card)
	gs.Stalled++
	g.log(log.NewDiscardEvent(gs.Turn, g.phase(), card.Card.Abbreviation))

	g.settleStalls()
	g.checkTerminal()
	g.setPhase(PhaseDraw)
	g.emit()
	return card
}

// AcceptRefresh discards the whole hand and draws a new one.
func (g *Game) AcceptRefresh() bool {
	gs := g.state
	if gs.Over || !gs.PendingRefresh {
		return false
	}
	gs.PendingRefresh = false

	discarded := len(gs.Hand)
	gs.Discard = append(gs.Discard, gs.Hand...)
	gs.Hand = nil
	for i := 0; i < min(g.rules.RefreshDraw, gs.HandLimit); i++ {
		if g.drawCard() == nil {
			break
		}
	}
	g.log(log.NewHandRefreshEvent(gs.Turn, g.phase(), true, discarded))

	gs.Drafting = false
	gs.DraftChoices = nil
	g.setPhase(PhaseAction)
	g.emit()
	return true
}

// DeclineRefresh keeps the hand and continues to the draft.
func (g *Game) DeclineRefresh() bool {
	gs := g.state
	if gs.Over || !gs.PendingRefresh {
		return false
	}
	gs.PendingRefresh = false
	g.log(log.NewHandRefreshEvent(gs.Turn, g.phase(), false, 0))
	g.openDraft()
	g.emit()
	return true
}

// DismissPeek closes the deck peek and continues to the draft.
func (g *Game) DismissPeek() bool {
	gs := g.state
	if gs.Over || !gs.PeekPending {
		return false
	}
	gs.PeekPending = false
	gs.Peek = nil
	g.openDraft()
	g.emit()
	return true
}

// EnterEndless lifts the turn limit and schedules events ahead. A run that
// ended at the turn limit resumes; a run that ran out of cards stays over.
func (g *Game) EnterEndless() bool {
	gs := g.state
	if gs.Endless {
		return false
	}
	gs.Endless = true
	n := extendSchedule(gs.Schedule, gs.Turn, g.rules, g.rng)
	if gs.Over && !gs.OutOfCards() {
		gs.Over = false
		g.recorded = false
	}
	g.log(log.NewEndlessEvent(gs.Turn, g.phase(), n))
	g.emit()
	return true
}

// --- helpers ---

func (g *Game) log(event log.GameEvent) {
	g.logger.Log(event)
}

func (g *Game) phase() string {
	return g.state.Phase.String()
}

func (g *Game) setPhase(p Phase) {
	if g.state.Phase == p {
		return
	}
	g.state.Phase = p
	g.log(log.NewPhaseChangeEvent(g.state.Turn, p.String()))
}

// emit records a finished run's score and notifies the observer.
func (g *Game) emit() {
	if g.state.Over && !g.recorded {
		g.recordBest()
	}
	if g.observer != nil {
		g.observer(g.Snapshot())
	}
}

func (g *Game) recordBest() {
	g.recorded = true
	if g.scores == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	wrote, err := g.scores.WriteIfHigher(ctx, g.state.Score)
	if err != nil {
		g.log(log.NewScoreStoreEvent(g.state.Turn, g.phase(), "write", err))
		return
	}
	if wrote {
		g.newBest = true
	}
}

func (g *Game) readBest() int {
	if g.scores == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	best, err := g.scores.Read(ctx)
	if err != nil {
		g.log(log.NewScoreStoreEvent(g.state.Turn, g.phase(), "read", err))
		return 0
	}
	return best
}
