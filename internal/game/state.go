package game

// Inventory counts held card instances per card id.
type Inventory map[string]int

// StepResult describes one completed stage transition.
type StepResult struct {
	Stage      int
	Yield      *YieldGain // nil when the stage has no yield
	Combo      int
	Multiplier float64
	Rotation   int // new rotation count when this step closed the ring, else 0
	HandLimit  int // new hand limit when a rotation changed it, else 0
	ChainReady bool
}

// YieldGain is the score earned from a stage's yield.
type YieldGain struct {
	Kind   YieldKind
	Points int
}

// GameState holds the complete state of a run.
type GameState struct {
	Stage   int             // current ring position
	Hand    []*CardInstance // bounded by HandLimit
	Deck    []*CardInstance // top of deck is last element (pop from end)
	Discard []*CardInstance
	Staged  [RingSize][]*CardInstance // cards pre-loaded on each stage

	Score      int
	Combo      int
	Stalled    int
	Turn       int // total turns played
	Rotations  int
	Multiplier float64
	HandLimit  int
	Energy     map[YieldKind]int

	Schedule    map[int]EventID
	ActiveEvent EventID

	// Per-turn flags
	EnzymeBoost    bool
	ShieldTurns    int
	PendingRefresh bool
	Peek           []*CardInstance // top of deck first
	PeekPending    bool
	PendingChain   bool

	Completed    [RingSize]bool // stages advanced this rotation
	DraftChoices []*CardInstance
	Drafting     bool
	Selected     int // hand index, -1 when nothing is selected

	Endless bool
	Over    bool
	Phase   Phase

	LastOutcome Outcome
	LastStep    *StepResult

	nextUID int
}

// NewGameState creates an empty state positioned at stage 0.
func NewGameState(rules Rules) *GameState {
	return &GameState{
		Multiplier: rules.floorMultiplier(),
		HandLimit:  rules.HandLimit,
		Energy:     make(map[YieldKind]int, len(YieldKinds)),
		Schedule:   make(map[int]EventID),
		Selected:   -1,
		Phase:      PhaseNone,
	}
}

// NewInstance mints a uniquely identified copy of card.
func (gs *GameState) NewInstance(card *Card) *CardInstance {
	gs.nextUID++
	return &CardInstance{Card: card, UID: gs.nextUID}
}

// Inventory counts the cards in hand and staged on every stage.
func (gs *GameState) Inventory() Inventory {
	inv := make(Inventory)
	for _, c := range gs.Hand {
		inv[c.ID()]++
	}
	for _, staged := range gs.Staged {
		for _, c := range staged {
			inv[c.ID()]++
		}
	}
	return inv
}

// CardCount is the number of cards in hand, deck, discard and on stages.
func (gs *GameState) CardCount() int {
	n := len(gs.Hand) + len(gs.Deck) + len(gs.Discard)
	for _, staged := range gs.Staged {
		n += len(staged)
	}
	return n
}

// OutOfCards reports whether hand, deck and discard are all empty.
func (gs *GameState) OutOfCards() bool {
	return len(gs.Hand) == 0 && len(gs.Deck) == 0 && len(gs.Discard) == 0
}

// SelectedCard returns the selected hand card, or nil.
func (gs *GameState) SelectedCard() *CardInstance {
	if gs.Selected < 0 || gs.Selected >= len(gs.Hand) {
		return nil
	}
	return gs.Hand[gs.Selected]
}

// removeFromHand removes the card at index i.
func (gs *GameState) removeFromHand(i int) *CardInstance {
	card := gs.Hand[i]
	gs.Hand = append(gs.Hand[:i:i], gs.Hand[i+1:]...)
	return card
}

// hasProduct reports whether any product card is staged on stage.
func (gs *GameState) hasProduct(stage int) bool {
	for _, c := range gs.Staged[stage] {
		if c.IsProduct() {
			return true
		}
	}
	return false
}

// stagedCount counts staged copies of cardID on stage.
func (gs *GameState) stagedCount(stage int, cardID string) int {
	n := 0
	for _, c := range gs.Staged[stage] {
		if c.ID() == cardID {
			n++
		}
	}
	return n
}

// Clone returns a deep copy. Card definitions are shared; instances are not.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Hand = cloneCards(gs.Hand)
	cp.Deck = cloneCards(gs.Deck)
	cp.Discard = cloneCards(gs.Discard)
	cp.Peek = cloneCards(gs.Peek)
	cp.DraftChoices = cloneCards(gs.DraftChoices)
	for i := range gs.Staged {
		cp.Staged[i] = cloneCards(gs.Staged[i])
	}
	cp.Energy = make(map[YieldKind]int, len(gs.Energy))
	for k, v := range gs.Energy {
		cp.Energy[k] = v
	}
	cp.Schedule = make(map[int]EventID, len(gs.Schedule))
	for k, v := range gs.Schedule {
		cp.Schedule[k] = v
	}
	if gs.LastOutcome != nil {
		cp.LastOutcome = gs.LastOutcome.clone()
	}
	if gs.LastStep != nil {
		cp.LastStep = gs.LastStep.clone()
	}
	return &cp
}

func cloneCards(cards []*CardInstance) []*CardInstance {
	if cards == nil {
		return nil
	}
	out := make([]*CardInstance, len(cards))
	for i, c := range cards {
		cc := *c
		out[i] = &cc
	}
	return out
}

func (s *StepResult) clone() *StepResult {
	cp := *s
	if s.Yield != nil {
		y := *s.Yield
		cp.Yield = &y
	}
	return &cp
}
