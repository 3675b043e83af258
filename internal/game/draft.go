package game

import "github.com/peterkuimelis/biopath/internal/log"

// startDraft offers DraftSize choices for the turn. No draft happens when
// the hand is full or no cards remain in deck and discard.
func (g *Game) startDraft() {
	gs := g.state
	gs.Drafting = false
	gs.DraftChoices = nil

	if len(gs.Hand) >= gs.HandLimit {
		return
	}
	if len(gs.Deck) == 0 && len(gs.Discard) > 0 {
		g.recycleDiscard()
	}
	if len(gs.Deck) == 0 {
		return
	}

	var choices []*CardInstance
	wave := ""
	if kind, ok := gs.ActiveEvent.waveKind(); ok {
		// Wave choices are minted from the catalog rather than drawn.
		pool := g.cat.CardsOfKind(kind)
		for i := 0; i < g.rules.DraftSize; i++ {
			choices = append(choices, gs.NewInstance(pool[g.rng.IntN(len(pool))]))
		}
		wave = gs.ActiveEvent.Name()
	} else {
		n := min(g.rules.DraftSize, len(gs.Deck))
		for i := 0; i < n; i++ {
			top := len(gs.Deck) - 1
			choices = append(choices, gs.Deck[top])
			gs.Deck = gs.Deck[:top]
		}
	}

	gs.DraftChoices = choices
	gs.Drafting = true

	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = c.Card.Abbreviation
	}
	g.log(log.NewDraftOfferEvent(gs.Turn, g.phase(), names, wave))
}

// PickDraft moves draft choice i into the hand and opens the Action phase.
// Unpicked deck cards go to the bottom of the deck in offer order; unpicked
// wave cards leave play. Returns nil when no draft is open or i is out of range.
func (g *Game) PickDraft(i int) *CardInstance {
	gs := g.state
	if !gs.Drafting || i < 0 || i >= len(gs.DraftChoices) {
		return nil
	}

	picked := gs.DraftChoices[i]
	gs.Hand = append(gs.Hand, picked)

	returned := 0
	if _, wave := gs.ActiveEvent.waveKind(); !wave {
		for j, c := range gs.DraftChoices {
			if j == i {
				continue
			}
			gs.Deck = append([]*CardInstance{c}, gs.Deck...)
			returned++
		}
	}

	gs.DraftChoices = nil
	gs.Drafting = false
	gs.Phase = PhaseAction
	g.log(log.NewDraftPickEvent(gs.Turn, g.phase(), picked.Card.Abbreviation, returned))
	g.emit()
	return picked
}
