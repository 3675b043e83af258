package net

import (
	"github.com/peterkuimelis/biopath/internal/game"
	"github.com/peterkuimelis/biopath/internal/log"
)

// BuildStateView flattens a snapshot for the wire.
func BuildStateView(snap game.Snapshot, cat *game.Catalog) *StateView {
	state := snap.State

	sv := &StateView{
		Turn:       state.Turn,
		MaxTurns:   cat.Rules.MaxTurns,
		Phase:      state.Phase.String(),
		Stage:      state.Stage,
		Hand:       CardViews(state.Hand),
		Selected:   state.Selected,
		HandLimit:  state.HandLimit,
		DeckCount:  len(state.Deck),
		Discards:   len(state.Discard),
		Score:      state.Score,
		Combo:      state.Combo,
		Multiplier: state.Multiplier,
		Stalled:    state.Stalled,
		Rotations:  state.Rotations,
		Energy:     make(map[string]int, len(game.YieldKinds)),

		EnzymeBoost:    state.EnzymeBoost,
		ShieldTurns:    state.ShieldTurns,
		PendingRefresh: state.PendingRefresh,
		PendingChain:   state.PendingChain,

		Endless:   state.Endless,
		Over:      state.Over,
		BestScore: snap.BestScore,
		NewBest:   snap.NewBest,
	}
	if sv.Hand == nil {
		sv.Hand = []CardView{}
	}
	for _, y := range game.YieldKinds {
		sv.Energy[string(y)] = state.Energy[y]
	}
	if state.ActiveEvent != game.EventNone {
		sv.Event = state.ActiveEvent.Name()
		sv.EventDescription = state.ActiveEvent.Description()
	}
	if state.PeekPending {
		sv.PeekPending = true
		sv.Peek = CardViews(state.Peek)
	}
	if state.Drafting {
		sv.Draft = CardViews(state.DraftChoices)
	}

	for i, s := range cat.Stages {
		view := StageView{
			Index:        i,
			ID:           s.ID,
			Name:         s.Label,
			Abbreviation: s.Abbreviation,
			ReleasesCO2:  s.ReleasesCO2,
			Staged:       CardViews(state.Staged[i]),
			Current:      i == state.Stage,
			Completed:    state.Completed[i],
		}
		if p := cat.Card(s.Product); p != nil {
			view.Product = p.Abbreviation
		}
		for _, id := range s.Cofactors {
			view.Cofactors = append(view.Cofactors, cat.Card(id).Abbreviation)
		}
		if s.Yield != nil {
			view.Yield = string(s.Yield.Kind)
			view.YieldValue = s.Yield.Value
		}
		sv.Stages = append(sv.Stages, view)
	}
	return sv
}

// CardViews converts instances, numbering them by position.
func CardViews(cards []*game.CardInstance) []CardView {
	if len(cards) == 0 {
		return nil
	}
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = cardView(i, c)
	}
	return views
}

func cardView(i int, c *game.CardInstance) CardView {
	return CardView{
		Index:        i,
		UID:          c.UID,
		ID:           c.ID(),
		Name:         c.Card.Label,
		Abbreviation: c.Card.Abbreviation,
		Kind:         c.Card.Kind.String(),
	}
}

// BuildOutcomeView describes a play result.
func BuildOutcomeView(o game.Outcome, cat *game.Catalog) *OutcomeView {
	if o == nil {
		return nil
	}
	ov := &OutcomeView{
		Kind:  o.Kind().String(),
		Card:  o.Card().Card.Abbreviation,
		Stage: cat.Stages[o.Stage()].Abbreviation,
	}
	if r, ok := o.(*game.Rejected); ok {
		ov.Reason = r.Reason
	}
	return ov
}

// BuildStepView describes a stage transition.
func BuildStepView(step *game.StepResult, cat *game.Catalog) *StepView {
	if step == nil {
		return nil
	}
	sv := &StepView{
		Stage:      cat.Stages[step.Stage].Abbreviation,
		Combo:      step.Combo,
		Multiplier: step.Multiplier,
		Rotation:   step.Rotation,
		HandLimit:  step.HandLimit,
		ChainReady: step.ChainReady,
	}
	if step.Yield != nil {
		sv.Yield = string(step.Yield.Kind)
		sv.Points = step.Yield.Points
	}
	return sv
}

// BuildEventView converts a logged event.
func BuildEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Type:    e.Type.String(),
		Card:    e.Card,
		Stage:   e.Stage,
		Details: e.Details,
	}
}
