package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- Enums ---

type Phase int

const (
	PhaseNone Phase = iota
	PhaseDraw
	PhaseAction
	PhaseResolution
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "Draw Phase"
	case PhaseAction:
		return "Action Phase"
	case PhaseResolution:
		return "Resolution Phase"
	default:
		return "None"
	}
}

type CardKind int

const (
	KindProduct CardKind = iota
	KindCofactor
)

func (k CardKind) String() string {
	switch k {
	case KindProduct:
		return "Product"
	case KindCofactor:
		return "Cofactor"
	default:
		return "Unknown"
	}
}

func (k CardKind) MarshalYAML() (any, error) {
	return strings.ToLower(k.String()), nil
}

// UnmarshalYAML accepts "product" or "cofactor" (any case).
func (k *CardKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "product":
		*k = KindProduct
	case "cofactor":
		*k = KindCofactor
	default:
		return fmt.Errorf("line %d: unknown card kind %q", value.Line, s)
	}
	return nil
}

// YieldKind names an energy carrier produced by a stage transition.
type YieldKind string

const (
	YieldNADH  YieldKind = "NADH"
	YieldFADH2 YieldKind = "FADH2"
	YieldGTP   YieldKind = "GTP"
)

// YieldKinds lists the carriers in display order.
var YieldKinds = []YieldKind{YieldNADH, YieldFADH2, YieldGTP}

func (y YieldKind) valid() bool {
	switch y {
	case YieldNADH, YieldFADH2, YieldGTP:
		return true
	}
	return false
}

// EventID identifies a scheduled turn event. The zero value means no event.
type EventID string

const (
	EventNone         EventID = ""
	EventEnzymeBoost  EventID = "enzyme_boost"
	EventCofactorWave EventID = "cofactor_wave"
	EventProductWave  EventID = "product_wave"
	EventComboShield  EventID = "combo_shield"
	EventHandRefresh  EventID = "hand_refresh"
	EventInsight      EventID = "insight"
)

// TurnEvents is the fixed set events are drawn from, in draw order.
var TurnEvents = []EventID{
	EventEnzymeBoost,
	EventCofactorWave,
	EventProductWave,
	EventComboShield,
	EventHandRefresh,
	EventInsight,
}

func (e EventID) Name() string {
	switch e {
	case EventEnzymeBoost:
		return "Enzyme Boost"
	case EventCofactorWave:
		return "Cofactor Wave"
	case EventProductWave:
		return "Product Wave"
	case EventComboShield:
		return "Combo Shield"
	case EventHandRefresh:
		return "Hand Refresh"
	case EventInsight:
		return "Metabolic Insight"
	default:
		return ""
	}
}

func (e EventID) Description() string {
	switch e {
	case EventEnzymeBoost:
		return "Next advance yields 2x points"
	case EventCofactorWave:
		return "Draft shows only cofactors"
	case EventProductWave:
		return "Draft shows only products"
	case EventComboShield:
		return "Combo protected for 3 turns"
	case EventHandRefresh:
		return "Discard hand and redraw 5"
	case EventInsight:
		return "Peek at top 8 cards in deck"
	default:
		return ""
	}
}

// waveKind reports the card kind a wave event restricts the draft to.
func (e EventID) waveKind() (CardKind, bool) {
	switch e {
	case EventCofactorWave:
		return KindCofactor, true
	case EventProductWave:
		return KindProduct, true
	}
	return 0, false
}

// --- Cards ---

// Card is an immutable card definition shared by every instance of it.
type Card struct {
	ID           string   `yaml:"id"`
	Label        string   `yaml:"label"`
	Abbreviation string   `yaml:"abbreviation"`
	Kind         CardKind `yaml:"kind"`
}

func (c *Card) String() string {
	return c.Abbreviation
}

// CardInstance is one physical copy of a card. Copies with the same Card are
// interchangeable for the rules but keep their own UID.
type CardInstance struct {
	Card *Card
	UID  int
}

func (ci *CardInstance) String() string {
	return fmt.Sprintf("%s#%d", ci.Card.Abbreviation, ci.UID)
}

// ID returns the definition id of the card.
func (ci *CardInstance) ID() string {
	return ci.Card.ID
}

func (ci *CardInstance) IsProduct() bool {
	return ci.Card.Kind == KindProduct
}

func (ci *CardInstance) IsCofactor() bool {
	return ci.Card.Kind == KindCofactor
}
