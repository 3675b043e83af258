package game

import (
	"math"

	"github.com/peterkuimelis/biopath/internal/log"
)

// drawCard moves one card from the deck to the hand, refilling the deck from
// the discard pile first if it is empty. Returns nil when no cards remain.
func (g *Game) drawCard() *CardInstance {
	gs := g.state
	if len(gs.Deck) == 0 {
		if len(gs.Discard) == 0 {
			return nil
		}
		g.recycleDiscard()
	}

	idx := pickDraw(g.cat, gs.Deck, gs.Inventory(), g.rules.DrawDepth)
	card := gs.Deck[idx]
	gs.Deck = append(gs.Deck[:idx], gs.Deck[idx+1:]...)
	gs.Hand = append(gs.Hand, card)

	g.log(log.NewDrawEvent(gs.Turn, g.phase(), card.Card.Abbreviation, len(gs.Deck)-idx))
	return card
}

// pickDraw looks at up to depth cards from the top of the deck and returns
// the index of the one least held relative to its cycle demand. Ties go to
// the card nearest the top.
func pickDraw(cat *Catalog, deck []*CardInstance, held Inventory, depth int) int {
	top := len(deck) - 1
	best, bestScore := top, math.Inf(1)
	for i := top; i >= 0 && i > top-depth; i-- {
		id := deck[i].ID()
		score := float64(held[id]) / float64(cat.Demand(id))
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
