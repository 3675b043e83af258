package game

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RingSize is the number of stages on the cycle.
const RingSize = 8

const (
	productCount  = 8
	cofactorCount = 5
)

// ErrInvalidCatalog is wrapped by every catalog validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Yield is the energy a stage releases when it is advanced from.
type Yield struct {
	Kind  YieldKind `yaml:"kind"`
	Value int       `yaml:"value"`
}

// Stage is one intermediate on the ring.
type Stage struct {
	ID           string
	Label        string
	Abbreviation string
	Next         int      // successor stage index
	Product      string   // card id that advances this stage
	Cofactors    []string // required cofactor ids, repeats count
	Yield        *Yield
	ReleasesCO2  bool
}

// Catalog is the immutable reference data the engine plays against.
type Catalog struct {
	Stages []Stage
	Cards  []*Card // products first, then cofactors, in declaration order
	Rules  Rules

	byID   map[string]*Card
	demand map[string]int
}

// --- YAML file layout ---

// CatalogFile is the top-level YAML structure of a catalog file.
type CatalogFile struct {
	Stages []StageEntry `yaml:"stages"`
	Cards  []Card       `yaml:"cards"`
	Rules  Rules        `yaml:"rules"`
}

// StageEntry is a stage as written in YAML; Next is a stage id.
type StageEntry struct {
	ID           string   `yaml:"id"`
	Label        string   `yaml:"label"`
	Abbreviation string   `yaml:"abbreviation"`
	Next         string   `yaml:"next"`
	Product      string   `yaml:"product"`
	Cofactors    []string `yaml:"cofactors"`
	Yield        *Yield   `yaml:"yield"`
	ReleasesCO2  bool     `yaml:"releases_co2"`
}

// ParseCatalog parses and validates a YAML catalog. Rules not present in the
// document keep their default values; stages and cards are required.
func ParseCatalog(data []byte) (*Catalog, error) {
	cf := CatalogFile{Rules: DefaultRules()}
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return NewCatalog(cf)
}

// LoadCatalog reads a YAML catalog from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// NewCatalog resolves stage links and validates the result.
func NewCatalog(cf CatalogFile) (*Catalog, error) {
	if len(cf.Stages) != RingSize {
		return nil, fmt.Errorf("%w: want %d stages, have %d", ErrInvalidCatalog, RingSize, len(cf.Stages))
	}

	stageIdx := make(map[string]int, len(cf.Stages))
	for i, s := range cf.Stages {
		if _, dup := stageIdx[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate stage %q", ErrInvalidCatalog, s.ID)
		}
		stageIdx[s.ID] = i
	}

	cat := &Catalog{
		Rules:  cf.Rules,
		byID:   make(map[string]*Card, len(cf.Cards)),
		demand: make(map[string]int),
	}

	var products, cofactors []*Card
	for i := range cf.Cards {
		c := cf.Cards[i]
		if c.ID == "" {
			return nil, fmt.Errorf("%w: card %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := cat.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate card %q", ErrInvalidCatalog, c.ID)
		}
		cat.byID[c.ID] = &c
		if c.Kind == KindProduct {
			products = append(products, &c)
		} else {
			cofactors = append(cofactors, &c)
		}
	}
	if len(products) != productCount || len(cofactors) != cofactorCount {
		return nil, fmt.Errorf("%w: want %d products and %d cofactors, have %d and %d",
			ErrInvalidCatalog, productCount, cofactorCount, len(products), len(cofactors))
	}
	cat.Cards = append(products, cofactors...)

	for _, e := range cf.Stages {
		next, ok := stageIdx[e.Next]
		if !ok {
			return nil, fmt.Errorf("%w: stage %q links to unknown stage %q", ErrInvalidCatalog, e.ID, e.Next)
		}
		if e.Yield != nil && !e.Yield.Kind.valid() {
			return nil, fmt.Errorf("%w: stage %q has unknown yield %q", ErrInvalidCatalog, e.ID, e.Yield.Kind)
		}
		cat.Stages = append(cat.Stages, Stage{
			ID:           e.ID,
			Label:        e.Label,
			Abbreviation: e.Abbreviation,
			Next:         next,
			Product:      e.Product,
			Cofactors:    append([]string(nil), e.Cofactors...),
			Yield:        e.Yield,
			ReleasesCO2:  e.ReleasesCO2,
		})
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}

	for _, s := range cat.Stages {
		cat.demand[s.Product] = 1
		for _, id := range s.Cofactors {
			cat.demand[id]++
		}
	}
	return cat, nil
}

func (c *Catalog) validate() error {
	seen := make(map[int]bool, RingSize)
	idx := 0
	for i := 0; i < RingSize; i++ {
		if seen[idx] {
			return fmt.Errorf("%w: successor links do not form a single %d-cycle", ErrInvalidCatalog, RingSize)
		}
		seen[idx] = true
		idx = c.Stages[idx].Next
	}
	if idx != 0 {
		return fmt.Errorf("%w: successor links do not close the cycle", ErrInvalidCatalog)
	}

	for _, s := range c.Stages {
		card, ok := c.byID[s.Product]
		if !ok || card.Kind != KindProduct {
			return fmt.Errorf("%w: stage %q requires unknown product %q", ErrInvalidCatalog, s.ID, s.Product)
		}
		if next := c.Stages[s.Next]; next.ID != s.Product {
			return fmt.Errorf("%w: stage %q produces %q but its successor is %q", ErrInvalidCatalog, s.ID, s.Product, next.ID)
		}
		for _, id := range s.Cofactors {
			card, ok := c.byID[id]
			if !ok || card.Kind != KindCofactor {
				return fmt.Errorf("%w: stage %q requires unknown cofactor %q", ErrInvalidCatalog, s.ID, id)
			}
		}
	}
	return c.Rules.validate()
}

// Card returns the definition for id, or nil.
func (c *Catalog) Card(id string) *Card {
	return c.byID[id]
}

// CardsOfKind returns the definitions of one kind in catalog order.
func (c *Catalog) CardsOfKind(kind CardKind) []*Card {
	var result []*Card
	for _, card := range c.Cards {
		if card.Kind == kind {
			result = append(result, card)
		}
	}
	return result
}

// Demand is how many units of a card one full rotation consumes: 1 for a
// product, the number of listings across all stages for a cofactor.
func (c *Catalog) Demand(id string) int {
	if d := c.demand[id]; d > 0 {
		return d
	}
	return 1
}

// Saturation scales a card's deck share down as more of it is already held.
func (c *Catalog) Saturation(id string, held int) float64 {
	if held <= 0 {
		return 1.0
	}
	ratio := float64(held) / float64(c.Demand(id))
	return math.Max(c.Rules.SaturationFloor, 1.0-ratio*c.Rules.SaturationSlope)
}

// Ahead walks steps successors forward from stage.
func (c *Catalog) Ahead(stage, steps int) int {
	for i := 0; i < steps; i++ {
		stage = c.Stages[stage].Next
	}
	return stage
}

// RequiredCount reports how many units of cardID the stage's cofactor list holds.
func (c *Catalog) RequiredCount(stage int, cardID string) int {
	n := 0
	for _, id := range c.Stages[stage].Cofactors {
		if id == cardID {
			n++
		}
	}
	return n
}

// needs formats a stage's cofactor list for reject reasons.
func (c *Catalog) needs(stage int) string {
	s := c.Stages[stage]
	if len(s.Cofactors) == 0 {
		return "nothing"
	}
	names := make([]string, len(s.Cofactors))
	for i, id := range s.Cofactors {
		names[i] = c.byID[id].Abbreviation
	}
	return strings.Join(names, ", ")
}

// StageIndex returns the index of the stage with the given id or abbreviation.
func (c *Catalog) StageIndex(key string) (int, bool) {
	for i, s := range c.Stages {
		if strings.EqualFold(s.ID, key) || strings.EqualFold(s.Abbreviation, key) {
			return i, true
		}
	}
	return -1, false
}
