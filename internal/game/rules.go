package game

import (
	"fmt"
	"math"
)

// Tier is a difficulty step reached once the rotation count hits Rotation.
type Tier struct {
	Rotation  int     `yaml:"rotation"`
	Junk      float64 `yaml:"junk"`
	HandLimit int     `yaml:"hand_limit"`
}

// Rung is one step of the combo multiplier ladder.
type Rung struct {
	MinCombo   int     `yaml:"min_combo"`
	Multiplier float64 `yaml:"multiplier"`
}

// Rules holds the numeric tuning of a run.
type Rules struct {
	DeckSize   int     `yaml:"deck_size"`
	HandLimit  int     `yaml:"hand_limit"`
	NearStages int     `yaml:"near_stages"`
	NearWeight float64 `yaml:"near_weight"` // per-card share for the next NearStages products
	FarWeight  float64 `yaml:"far_weight"`
	Junk       float64 `yaml:"junk"`
	Tiers      []Tier  `yaml:"tiers"`
	Ladder     []Rung  `yaml:"ladder"`

	SaturationSlope float64 `yaml:"saturation_slope"`
	SaturationFloor float64 `yaml:"saturation_floor"`

	DrawDepth   int     `yaml:"draw_depth"`
	DraftSize   int     `yaml:"draft_size"`
	PeekDepth   int     `yaml:"peek_depth"`
	RefreshDraw int     `yaml:"refresh_draw"`
	ShieldTurns int     `yaml:"shield_turns"`
	StallLimit  int     `yaml:"stall_limit"`
	StallDecay  float64 `yaml:"stall_decay"`

	MaxTurns         int `yaml:"max_turns"`
	EventCount       int `yaml:"event_count"`
	FirstEventTurn   int `yaml:"first_event_turn"`
	EndlessBatch     int `yaml:"endless_batch"`
	EndlessWindow    int `yaml:"endless_window"`
	EndlessLookahead int `yaml:"endless_lookahead"`
}

// DefaultRules returns the standard tuning.
func DefaultRules() Rules {
	return Rules{
		DeckSize:   60,
		HandLimit:  5,
		NearStages: 3,
		NearWeight: 0.08,
		FarWeight:  0.04,
		Junk:       0.08,
		Tiers: []Tier{
			{Rotation: 4, Junk: 0.20, HandLimit: 5},
			{Rotation: 6, Junk: 0.25, HandLimit: 4},
			{Rotation: 8, Junk: 0.25, HandLimit: 4},
			{Rotation: 10, Junk: 0.30, HandLimit: 3},
		},
		Ladder: []Rung{
			{MinCombo: 0, Multiplier: 1.0},
			{MinCombo: 3, Multiplier: 1.5},
			{MinCombo: 6, Multiplier: 2.0},
			{MinCombo: 9, Multiplier: 2.5},
			{MinCombo: 12, Multiplier: 3.0},
		},
		SaturationSlope:  0.65,
		SaturationFloor:  0.15,
		DrawDepth:        5,
		DraftSize:        4,
		PeekDepth:        8,
		RefreshDraw:      5,
		ShieldTurns:      3,
		StallLimit:       2,
		StallDecay:       0.5,
		MaxTurns:         80,
		EventCount:       12,
		FirstEventTurn:   4,
		EndlessBatch:     8,
		EndlessWindow:    40,
		EndlessLookahead: 5,
	}
}

func (r Rules) validate() error {
	switch {
	case r.DeckSize <= 0:
		return fmt.Errorf("%w: deck_size must be positive", ErrInvalidCatalog)
	case r.HandLimit <= 0:
		return fmt.Errorf("%w: hand_limit must be positive", ErrInvalidCatalog)
	case r.NearStages < 0 || r.NearStages > RingSize:
		return fmt.Errorf("%w: near_stages must be within 0..%d", ErrInvalidCatalog, RingSize)
	case len(r.Ladder) == 0 || r.Ladder[0].MinCombo != 0:
		return fmt.Errorf("%w: multiplier ladder must start at combo 0", ErrInvalidCatalog)
	case r.DraftSize <= 0 || r.DrawDepth <= 0:
		return fmt.Errorf("%w: draft_size and draw_depth must be positive", ErrInvalidCatalog)
	case r.StallLimit <= 0:
		return fmt.Errorf("%w: stall_limit must be positive", ErrInvalidCatalog)
	case r.MaxTurns-2 < r.FirstEventTurn:
		return fmt.Errorf("%w: max_turns leaves no room for events", ErrInvalidCatalog)
	}
	for i := 1; i < len(r.Ladder); i++ {
		if r.Ladder[i].MinCombo <= r.Ladder[i-1].MinCombo || r.Ladder[i].Multiplier < r.Ladder[i-1].Multiplier {
			return fmt.Errorf("%w: multiplier ladder must be strictly ascending", ErrInvalidCatalog)
		}
	}
	for i := 1; i < len(r.Tiers); i++ {
		if r.Tiers[i].Rotation <= r.Tiers[i-1].Rotation {
			return fmt.Errorf("%w: tiers must be ordered by rotation", ErrInvalidCatalog)
		}
	}
	return nil
}

// TierFor returns the difficulty in effect after the given number of
// completed rotations: the highest threshold reached, or the base tier.
func (r Rules) TierFor(rotations int) Tier {
	tier := Tier{Rotation: 0, Junk: r.Junk, HandLimit: r.HandLimit}
	for _, t := range r.Tiers {
		if rotations >= t.Rotation {
			tier = t
		}
	}
	return tier
}

// MultiplierFor maps a combo count onto the ladder.
func (r Rules) MultiplierFor(combo int) float64 {
	mult := 1.0
	for _, rung := range r.Ladder {
		if combo >= rung.MinCombo {
			mult = rung.Multiplier
		}
	}
	return mult
}

// floorMultiplier is the lowest ladder value; stall decay never goes below it.
func (r Rules) floorMultiplier() float64 {
	return r.Ladder[0].Multiplier
}

// round matches the game's half-up rounding of non-negative amounts.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
