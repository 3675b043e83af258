package game

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()

	if len(cat.Stages) != RingSize {
		t.Fatalf("expected %d stages, got %d", RingSize, len(cat.Stages))
	}
	if got := cat.Ahead(stOAA, RingSize); got != stOAA {
		t.Errorf("walking %d steps should return to OAA, got stage %d", RingSize, got)
	}
	if got := cat.Ahead(stMAL, 1); got != stOAA {
		t.Errorf("MAL should be followed by OAA, got stage %d", got)
	}
	if got := cat.Demand("nad+"); got != 3 {
		t.Errorf("expected NAD+ demand 3, got %d", got)
	}
	if got := cat.Demand("citrate"); got != 1 {
		t.Errorf("expected product demand 1, got %d", got)
	}
	if got := cat.needs(stAKG); got != "NAD⁺, CoA" {
		t.Errorf("unexpected AKG needs %q", got)
	}
	if got := cat.needs(stCIT); got != "nothing" {
		t.Errorf("unexpected CIT needs %q", got)
	}
	if idx, ok := cat.StageIndex("akg"); !ok || idx != stAKG {
		t.Errorf("StageIndex(akg) = %d, %v", idx, ok)
	}
	if _, ok := cat.StageIndex("atp"); ok {
		t.Error("StageIndex should not resolve an unknown stage")
	}
	if len(cat.CardsOfKind(KindProduct)) != 8 || len(cat.CardsOfKind(KindCofactor)) != 5 {
		t.Error("expected 8 products and 5 cofactors")
	}
}

func TestParseCatalogKeepsDefaultRules(t *testing.T) {
	data, err := yaml.Marshal(map[string]any{"stages": defaultStages, "cards": defaultCards})
	if err != nil {
		t.Fatal(err)
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if cat.Rules.DeckSize != 60 || cat.Rules.HandLimit != 5 {
		t.Errorf("expected default rules, got deck %d hand %d", cat.Rules.DeckSize, cat.Rules.HandLimit)
	}
	if cat.Stages[stICIT].Yield == nil || cat.Stages[stICIT].Yield.Value != 10 {
		t.Error("ICIT yield lost in round trip")
	}
	if cat.Card("fad").Kind != KindCofactor {
		t.Error("FAD should parse as a cofactor")
	}

	data = append(data, []byte("rules:\n  deck_size: 40\n")...)
	cat, err = ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog with rules: %v", err)
	}
	if cat.Rules.DeckSize != 40 {
		t.Errorf("expected overridden deck size 40, got %d", cat.Rules.DeckSize)
	}
	if cat.Rules.HandLimit != 5 || len(cat.Rules.Ladder) != 5 {
		t.Error("rules not named in the file should keep their defaults")
	}
}

func TestNewCatalogRejectsBadData(t *testing.T) {
	stages := func() []StageEntry { return append([]StageEntry(nil), defaultStages...) }
	cards := func() []Card { return append([]Card(nil), defaultCards...) }

	tests := []struct {
		name string
		cf   func() CatalogFile
	}{
		{"too few stages", func() CatalogFile {
			return CatalogFile{Stages: stages()[:7], Cards: cards(), Rules: DefaultRules()}
		}},
		{"open cycle", func() CatalogFile {
			s := stages()
			s[stMAL].Next = "citrate"
			return CatalogFile{Stages: s, Cards: cards(), Rules: DefaultRules()}
		}},
		{"unknown cofactor", func() CatalogFile {
			s := stages()
			s[stOAA].Cofactors = []string{"atp"}
			return CatalogFile{Stages: s, Cards: cards(), Rules: DefaultRules()}
		}},
		{"duplicate card", func() CatalogFile {
			c := append(cards(), defaultCards[0])
			return CatalogFile{Stages: stages(), Cards: c, Rules: DefaultRules()}
		}},
		{"bad yield", func() CatalogFile {
			s := stages()
			s[stICIT].Yield = &Yield{Kind: "ATP", Value: 1}
			return CatalogFile{Stages: s, Cards: cards(), Rules: DefaultRules()}
		}},
		{"empty ladder", func() CatalogFile {
			r := DefaultRules()
			r.Ladder = nil
			return CatalogFile{Stages: stages(), Cards: cards(), Rules: r}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.cf())
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestParseCatalogRejectsUnknownKind(t *testing.T) {
	_, err := ParseCatalog([]byte("cards:\n  - id: atp\n    kind: nucleotide\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown card kind")
	}
}

func TestTierFor(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		rotations int
		junk      float64
		handLimit int
	}{
		{0, 0.08, 5},
		{3, 0.08, 5},
		{4, 0.20, 5},
		{7, 0.25, 4},
		{9, 0.25, 4},
		{12, 0.30, 3},
	}
	for _, tt := range tests {
		tier := r.TierFor(tt.rotations)
		if tier.Junk != tt.junk || tier.HandLimit != tt.handLimit {
			t.Errorf("TierFor(%d) = %+v, want junk %.2f hand %d", tt.rotations, tier, tt.junk, tt.handLimit)
		}
	}
}

func TestMultiplierFor(t *testing.T) {
	r := DefaultRules()
	tests := map[int]float64{0: 1.0, 2: 1.0, 3: 1.5, 5: 1.5, 6: 2.0, 11: 2.5, 12: 3.0, 40: 3.0}
	for combo, want := range tests {
		if got := r.MultiplierFor(combo); got != want {
			t.Errorf("MultiplierFor(%d) = %.1f, want %.1f", combo, got, want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := map[float64]int{7.5: 8, 4.9: 5, 1.75: 2, 0.75: 1, 0.4: 0, 2.5: 3}
	for in, want := range tests {
		if got := round(in); got != want {
			t.Errorf("round(%v) = %d, want %d", in, got, want)
		}
	}
}
