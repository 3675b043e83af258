package game

import (
	"math"

	"github.com/peterkuimelis/biopath/internal/log"
)

// advance completes stage: scores its yield, bumps the combo, consumes the
// cards staged on it and moves the ring to the successor. Crossing back to
// stage 0 completes a rotation. The result is also stored as LastStep.
func (g *Game) advance(stage int, chained bool) *StepResult {
	gs := g.state
	s := g.cat.Stages[stage]
	step := &StepResult{Stage: stage}

	points, yield := 0, ""
	if s.Yield != nil {
		boost := 1.0
		if gs.EnzymeBoost {
			boost = 2.0
			gs.EnzymeBoost = false
		}
		points = round(float64(s.Yield.Value) * gs.Multiplier * boost)
		gs.Score += points
		gs.Energy[s.Yield.Kind]++
		step.Yield = &YieldGain{Kind: s.Yield.Kind, Points: points}
		yield = string(s.Yield.Kind)
	}

	gs.Combo++
	gs.Stalled = 0
	gs.Multiplier = g.rules.MultiplierFor(gs.Combo)
	step.Combo = gs.Combo
	step.Multiplier = gs.Multiplier

	gs.Completed[stage] = true
	gs.Staged[stage] = nil
	gs.Stage = s.Next

	g.log(log.NewAdvanceEvent(gs.Turn, g.phase(), g.cat.Card(s.Product).Abbreviation, s.Abbreviation,
		points, yield, gs.Combo, gs.Multiplier, chained))

	if gs.Stage == 0 {
		g.completeRotation(step)
	}
	g.checkChain()
	step.ChainReady = gs.PendingChain
	gs.LastStep = step
	return step
}

// checkChain flags a pending chain step when the new current stage already
// holds its product and cofactors. Otherwise products that do not belong on
// the stage are sent to the discard pile.
func (g *Game) checkChain() {
	gs := g.state
	stage := gs.Stage
	if len(gs.Staged[stage]) == 0 {
		return
	}
	if readyToAdvance(g.cat, gs, stage) {
		gs.PendingChain = true
		return
	}

	product := g.cat.Stages[stage].Product
	var kept []*CardInstance
	for _, c := range gs.Staged[stage] {
		if c.IsProduct() && c.ID() != product {
			gs.Discard = append(gs.Discard, c)
			g.log(log.NewDiscardEvent(gs.Turn, g.phase(), c.Card.Abbreviation))
			continue
		}
		kept = append(kept, c)
	}
	gs.Staged[stage] = kept
}

// ChainStep performs one pending chain advance and returns its result, or
// nil when no chain is pending. ChainReady on the result reports whether
// another step is waiting.
func (g *Game) ChainStep() *StepResult {
	gs := g.state
	if !gs.PendingChain {
		return nil
	}
	gs.PendingChain = false
	step := g.advance(gs.Stage, true)
	g.checkTerminal()
	g.emit()
	return step
}

// completeRotation applies the tier for the new rotation count and rebuilds
// the deck around the ring start. The old deck is replaced outright; the
// discard pile is folded into the new one.
func (g *Game) completeRotation(step *StepResult) {
	gs := g.state
	gs.Rotations++
	gs.Completed = [RingSize]bool{}

	tier := g.rules.TierFor(gs.Rotations)
	prevLimit := gs.HandLimit
	gs.HandLimit = tier.HandLimit

	gs.Deck = append(g.buildDeck(tier), gs.Discard...)
	gs.Discard = nil
	shuffleCards(g.rng, gs.Deck)

	for len(gs.Hand) > gs.HandLimit {
		last := len(gs.Hand) - 1
		c := gs.Hand[last]
		gs.Hand = gs.Hand[:last]
		gs.Discard = append(gs.Discard, c)
		g.log(log.NewHandSizeDiscardEvent(gs.Turn, g.phase(), c.Card.Abbreviation))
	}
	if gs.Selected >= len(gs.Hand) {
		gs.Selected = -1
	}

	step.Rotation = gs.Rotations
	if gs.HandLimit != prevLimit {
		step.HandLimit = gs.HandLimit
	}
	g.log(log.NewRotationEvent(gs.Turn, g.phase(), gs.Rotations, gs.HandLimit))
}

// settleStalls applies multiplier decay once StallLimit non-advancing
// placements or discards have piled up. A combo shield absorbs the decay
// but still resets the counter.
func (g *Game) settleStalls() {
	gs := g.state
	if gs.Stalled < g.rules.StallLimit {
		return
	}
	gs.Stalled = 0
	from := gs.Multiplier
	if gs.ShieldTurns > 0 {
		g.log(log.NewStallDecayEvent(gs.Turn, g.phase(), from, from, true))
		return
	}
	gs.Multiplier = math.Max(g.rules.floorMultiplier(), gs.Multiplier-g.rules.StallDecay)
	g.log(log.NewStallDecayEvent(gs.Turn, g.phase(), from, gs.Multiplier, false))
}

// checkTerminal ends the run when no cards remain, or at the turn limit
// outside endless mode.
func (g *Game) checkTerminal() {
	gs := g.state
	if gs.Over {
		return
	}
	reason := ""
	switch {
	case gs.OutOfCards():
		reason = "out of cards"
	case !gs.Endless && gs.Turn >= g.rules.MaxTurns:
		reason = "turn limit"
	default:
		return
	}
	gs.Over = true
	g.log(log.NewGameOverEvent(gs.Turn, g.phase(), gs.Score, reason))
}
