package game

import "fmt"

// OutcomeKind enumerates the results of playing a card on a stage.
type OutcomeKind int

const (
	OutcomeAdvance OutcomeKind = iota
	OutcomeAdvanceFromCofactor
	OutcomeStageProduct
	OutcomeCofactorStaged
	OutcomeCofactorPreloaded
	OutcomePreload
	OutcomeWrong
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAdvance:
		return "advance"
	case OutcomeAdvanceFromCofactor:
		return "advance_from_cofactor"
	case OutcomeStageProduct:
		return "stage_product"
	case OutcomeCofactorStaged:
		return "cofactor_staged"
	case OutcomeCofactorPreloaded:
		return "cofactor_preloaded"
	case OutcomePreload:
		return "preload"
	case OutcomeWrong:
		return "wrong"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome is the result of a placement. The set of implementations is closed:
// *Advance, *AdvanceFromCofactor, *StageProduct, *CofactorStaged,
// *CofactorPreloaded, *Preload, *Wrong and *Rejected.
type Outcome interface {
	Kind() OutcomeKind
	Card() *CardInstance
	Stage() int
	clone() Outcome
}

type placed struct {
	card  *CardInstance
	stage int
}

func (p placed) Card() *CardInstance { return p.card }
func (p placed) Stage() int          { return p.stage }

func (p placed) cloned() placed {
	cc := *p.card
	return placed{card: &cc, stage: p.stage}
}

// Advance: the correct product was played on the current stage with every
// cofactor already in place.
type Advance struct {
	placed
	Step *StepResult
}

// AdvanceFromCofactor: a cofactor completed the current stage while its
// product was already staged.
type AdvanceFromCofactor struct {
	placed
	Step *StepResult
}

// StageProduct: the correct product is held on the current stage until its
// cofactors arrive.
type StageProduct struct{ placed }

// CofactorStaged: a needed cofactor was added to the current stage.
type CofactorStaged struct{ placed }

// CofactorPreloaded: a needed cofactor was added to a future stage.
type CofactorPreloaded struct{ placed }

// Preload: the correct product was placed on a future stage.
type Preload struct{ placed }

// Wrong: a non-matching product was played on the current stage.
type Wrong struct{ placed }

// Rejected: the placement was invalid; the card stays in hand.
type Rejected struct {
	placed
	Reason string
}

func (*Advance) Kind() OutcomeKind             { return OutcomeAdvance }
func (*AdvanceFromCofactor) Kind() OutcomeKind { return OutcomeAdvanceFromCofactor }
func (*StageProduct) Kind() OutcomeKind        { return OutcomeStageProduct }
func (*CofactorStaged) Kind() OutcomeKind      { return OutcomeCofactorStaged }
func (*CofactorPreloaded) Kind() OutcomeKind   { return OutcomeCofactorPreloaded }
func (*Preload) Kind() OutcomeKind             { return OutcomePreload }
func (*Wrong) Kind() OutcomeKind               { return OutcomeWrong }
func (*Rejected) Kind() OutcomeKind            { return OutcomeRejected }

func (o *Advance) clone() Outcome {
	cp := &Advance{placed: o.cloned()}
	if o.Step != nil {
		cp.Step = o.Step.clone()
	}
	return cp
}

func (o *AdvanceFromCofactor) clone() Outcome {
	cp := &AdvanceFromCofactor{placed: o.cloned()}
	if o.Step != nil {
		cp.Step = o.Step.clone()
	}
	return cp
}

func (o *StageProduct) clone() Outcome      { return &StageProduct{o.cloned()} }
func (o *CofactorStaged) clone() Outcome    { return &CofactorStaged{o.cloned()} }
func (o *CofactorPreloaded) clone() Outcome { return &CofactorPreloaded{o.cloned()} }
func (o *Preload) clone() Outcome           { return &Preload{o.cloned()} }
func (o *Wrong) clone() Outcome             { return &Wrong{o.cloned()} }
func (o *Rejected) clone() Outcome          { return &Rejected{placed: o.cloned(), Reason: o.Reason} }

// StepOf returns the transition attached to an advancing outcome, or nil.
func StepOf(o Outcome) *StepResult {
	switch v := o.(type) {
	case *Advance:
		return v.Step
	case *AdvanceFromCofactor:
		return v.Step
	}
	return nil
}

// place validates a card played on stage and stages it when accepted.
// The card is not removed from the hand here.
func place(cat *Catalog, gs *GameState, card *CardInstance, stage int) Outcome {
	p := placed{card: card, stage: stage}
	if card.IsCofactor() {
		return placeCofactor(cat, gs, p)
	}
	if stage == gs.Stage {
		return placeProductOnCurrent(cat, gs, p)
	}
	return preloadProduct(cat, gs, p)
}

func placeProductOnCurrent(cat *Catalog, gs *GameState, p placed) Outcome {
	s := cat.Stages[p.stage]
	if p.card.ID() != s.Product {
		return &Wrong{p}
	}
	if gs.hasProduct(p.stage) {
		return &Rejected{placed: p, Reason: fmt.Sprintf("%s already has a product card", s.Abbreviation)}
	}
	if cofactorsSatisfied(cat, gs, p.stage) {
		return &Advance{placed: p}
	}
	gs.Staged[p.stage] = append(gs.Staged[p.stage], p.card)
	return &StageProduct{p}
}

func preloadProduct(cat *Catalog, gs *GameState, p placed) Outcome {
	s := cat.Stages[p.stage]
	if p.card.ID() != s.Product {
		return &Rejected{placed: p, Reason: fmt.Sprintf("%s needs %s", s.Abbreviation, cat.Card(s.Product).Abbreviation)}
	}
	if gs.hasProduct(p.stage) {
		return &Rejected{placed: p, Reason: fmt.Sprintf("%s already has a product card", s.Abbreviation)}
	}
	gs.Staged[p.stage] = append(gs.Staged[p.stage], p.card)
	return &Preload{p}
}

func placeCofactor(cat *Catalog, gs *GameState, p placed) Outcome {
	s := cat.Stages[p.stage]
	required := cat.RequiredCount(p.stage, p.card.ID())
	if required == 0 {
		return &Rejected{placed: p, Reason: fmt.Sprintf("%s needs %s", s.Abbreviation, cat.needs(p.stage))}
	}
	if gs.stagedCount(p.stage, p.card.ID()) >= required {
		return &Rejected{placed: p, Reason: fmt.Sprintf("%s already has %s", s.Abbreviation, p.card.Card.Abbreviation)}
	}

	gs.Staged[p.stage] = append(gs.Staged[p.stage], p.card)

	if p.stage != gs.Stage {
		return &CofactorPreloaded{p}
	}
	if readyToAdvance(cat, gs, p.stage) {
		return &AdvanceFromCofactor{placed: p}
	}
	return &CofactorStaged{p}
}

// cofactorsSatisfied consumes staged cofactors one-for-one against the
// stage's requirement list.
func cofactorsSatisfied(cat *Catalog, gs *GameState, stage int) bool {
	pool := make(map[string]int)
	for _, c := range gs.Staged[stage] {
		if c.IsCofactor() {
			pool[c.ID()]++
		}
	}
	for _, id := range cat.Stages[stage].Cofactors {
		if pool[id] == 0 {
			return false
		}
		pool[id]--
	}
	return true
}

// productStaged reports whether the stage's own product is staged on it.
func productStaged(cat *Catalog, gs *GameState, stage int) bool {
	return gs.stagedCount(stage, cat.Stages[stage].Product) > 0
}

func readyToAdvance(cat *Catalog, gs *GameState, stage int) bool {
	return productStaged(cat, gs, stage) && cofactorsSatisfied(cat, gs, stage)
}
