package game

import "github.com/peterkuimelis/biopath/internal/log"

// Junk cards come from a product this many to junkOffset+junkSpread-1 steps ahead.
const (
	junkOffset = 4
	junkSpread = 4
)

// deckComposition lists the cards of a fresh deck before shuffling.
//
// Products get a positional share (the next NearStages stages weigh more),
// cofactors split the remaining budget by cycle demand, and both are scaled
// down by how saturated the current inventory already is. Junk is drawn
// from distant products and random cofactors without any saturation discount.
func deckComposition(cat *Catalog, stage int, held Inventory, junk float64, rng Random) []*Card {
	r := cat.Rules
	size := float64(r.DeckSize)
	var deck []*Card

	add := func(card *Card, base int) {
		n := max(1, round(float64(base)*cat.Saturation(card.ID, held[card.ID])))
		for i := 0; i < n; i++ {
			deck = append(deck, card)
		}
	}

	for offset := 0; offset < RingSize; offset++ {
		s := cat.Stages[cat.Ahead(stage, offset)]
		weight := r.FarWeight
		if offset < r.NearStages {
			weight = r.NearWeight
		}
		add(cat.Card(s.Product), round(size*weight))
	}

	cofactors := cat.CardsOfKind(KindCofactor)
	totalDemand := 0
	for _, c := range cofactors {
		totalDemand += cat.Demand(c.ID)
	}
	junkCount := round(size * junk)
	budget := r.DeckSize - junkCount -
		RingSize*round(size*r.FarWeight) -
		r.NearStages*round(size*(r.NearWeight-r.FarWeight))
	for _, c := range cofactors {
		share := float64(cat.Demand(c.ID)) / float64(totalDemand)
		add(c, max(1, round(float64(budget)*share)))
	}

	for i := 0; i < junkCount; i++ {
		distant := cat.Ahead(stage, junkOffset+rng.IntN(junkSpread))
		if rng.Float64() < 0.5 {
			deck = append(deck, cat.Card(cat.Stages[distant].Product))
		} else {
			deck = append(deck, cofactors[rng.IntN(len(cofactors))])
		}
	}
	return deck
}

// buildDeck mints and shuffles a deck for the current stage and inventory.
func (g *Game) buildDeck(tier Tier) []*CardInstance {
	gs := g.state
	cards := deckComposition(g.cat, gs.Stage, gs.Inventory(), tier.Junk, g.rng)
	deck := make([]*CardInstance, len(cards))
	for i, c := range cards {
		deck[i] = gs.NewInstance(c)
	}
	shuffleCards(g.rng, deck)
	g.log(log.NewDeckBuiltEvent(gs.Turn, g.phase(), len(deck), gs.Rotations, tier.Junk))
	return deck
}

// recycleDiscard turns the discard pile into a freshly shuffled deck.
func (g *Game) recycleDiscard() {
	gs := g.state
	gs.Deck = append(gs.Deck, gs.Discard...)
	gs.Discard = nil
	shuffleCards(g.rng, gs.Deck)
	g.log(log.NewShuffleEvent(gs.Turn, g.phase(), len(gs.Deck), "discard recycled"))
}
