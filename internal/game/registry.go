package game

import "fmt"

// defaultStages is the citric acid cycle, starting at oxaloacetate.
var defaultStages = []StageEntry{
	{ID: "oxaloacetate", Label: "Oxaloacetate", Abbreviation: "OAA", Next: "citrate",
		Product: "citrate", Cofactors: []string{"acetyl-coa"}},
	{ID: "citrate", Label: "Citrate", Abbreviation: "CIT", Next: "isocitrate",
		Product: "isocitrate"},
	{ID: "isocitrate", Label: "Isocitrate", Abbreviation: "ICIT", Next: "alpha-ketoglutarate",
		Product: "alpha-ketoglutarate", Cofactors: []string{"nad+"},
		Yield: &Yield{Kind: YieldNADH, Value: 10}, ReleasesCO2: true},
	{ID: "alpha-ketoglutarate", Label: "α-Ketoglutarate", Abbreviation: "AKG", Next: "succinyl-coa",
		Product: "succinyl-coa", Cofactors: []string{"nad+", "coa"},
		Yield: &Yield{Kind: YieldNADH, Value: 10}, ReleasesCO2: true},
	{ID: "succinyl-coa", Label: "Succinyl-CoA", Abbreviation: "SCoA", Next: "succinate",
		Product: "succinate", Cofactors: []string{"gdp"},
		Yield: &Yield{Kind: YieldGTP, Value: 5}},
	{ID: "succinate", Label: "Succinate", Abbreviation: "SUC", Next: "fumarate",
		Product: "fumarate", Cofactors: []string{"fad"},
		Yield: &Yield{Kind: YieldFADH2, Value: 7}},
	{ID: "fumarate", Label: "Fumarate", Abbreviation: "FUM", Next: "malate",
		Product: "malate"},
	{ID: "malate", Label: "Malate", Abbreviation: "MAL", Next: "oxaloacetate",
		Product: "oxaloacetate", Cofactors: []string{"nad+"},
		Yield: &Yield{Kind: YieldNADH, Value: 10}},
}

var defaultCards = []Card{
	{ID: "citrate", Label: "Citrate", Abbreviation: "CIT", Kind: KindProduct},
	{ID: "isocitrate", Label: "Isocitrate", Abbreviation: "ICIT", Kind: KindProduct},
	{ID: "alpha-ketoglutarate", Label: "α-Ketoglutarate", Abbreviation: "AKG", Kind: KindProduct},
	{ID: "succinyl-coa", Label: "Succinyl-CoA", Abbreviation: "SCoA", Kind: KindProduct},
	{ID: "succinate", Label: "Succinate", Abbreviation: "SUC", Kind: KindProduct},
	{ID: "fumarate", Label: "Fumarate", Abbreviation: "FUM", Kind: KindProduct},
	{ID: "malate", Label: "Malate", Abbreviation: "MAL", Kind: KindProduct},
	{ID: "oxaloacetate", Label: "Oxaloacetate", Abbreviation: "OAA", Kind: KindProduct},

	{ID: "nad+", Label: "NAD⁺", Abbreviation: "NAD⁺", Kind: KindCofactor},
	{ID: "fad", Label: "FAD", Abbreviation: "FAD", Kind: KindCofactor},
	{ID: "coa", Label: "CoA", Abbreviation: "CoA", Kind: KindCofactor},
	{ID: "gdp", Label: "GDP", Abbreviation: "GDP", Kind: KindCofactor},
	{ID: "acetyl-coa", Label: "Acetyl-CoA", Abbreviation: "AcCoA", Kind: KindCofactor},
}

// DefaultCatalog returns the built-in cycle with default rules.
// Panics if the built-in data is inconsistent.
func DefaultCatalog() *Catalog {
	cat, err := NewCatalog(CatalogFile{
		Stages: defaultStages,
		Cards:  defaultCards,
		Rules:  DefaultRules(),
	})
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return cat
}
