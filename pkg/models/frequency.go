package models

import "math"

// UnknownRank is assigned to words absent from the reference corpus
const UnknownRank = -1

// FrequencyTier classifies a word by its rank in the reference corpus
type FrequencyTier struct {
	Range       []int  `json:"range"`
	Color       string `json:"color"`
	Hex         string `json:"hex"`
	Name        string `json:"name"`
	NameEn      string `json:"nameEn"`
	Description string `json:"description"`
	Coverage    string `json:"coverage"`
	CEFRLevel   string `json:"cefrLevel"`
	Priority    string `json:"priority"`
}

// Contains reports whether rank falls inside the tier range (inclusive)
func (t FrequencyTier) Contains(rank int) bool {
	if len(t.Range) != 2 {
		return false
	}
	return rank >= t.Range[0] && rank <= t.Range[1]
}

var (
	TierEssential = FrequencyTier{
		Range:       []int{1, 1000},
		Color:       "🟢",
		Hex:         "#22c55e",
		Name:        "Критично важливі",
		NameEn:      "Essential",
		Description: "Must-know слова",
		Coverage:    "~75-80% повсякденної мови",
		CEFRLevel:   "A1-A2",
		Priority:    "ДУЖЕ ВИСОКИЙ",
	}
	TierImportant = FrequencyTier{
		Range:       []int{1001, 3000},
		Color:       "🟡",
		Hex:         "#eab308",
		Name:        "Дуже корисні",
		NameEn:      "Important",
		Description: "Необхідні для впевненого спілкування",
		Coverage:    "+15% (всього ~90-95%)",
		CEFRLevel:   "B1-B2",
		Priority:    "ВИСОКИЙ",
	}
	TierUseful = FrequencyTier{
		Range:       []int{3001, 10000},
		Color:       "🔵",
		Hex:         "#3b82f6",
		Name:        "Корисні",
		NameEn:      "Useful",
		Description: "Для вільного володіння",
		Coverage:    "+3-5% (всього ~95-98%)",
		CEFRLevel:   "B2-C1",
		Priority:    "СЕРЕДНІЙ",
	}
	TierAdvanced = FrequencyTier{
		Range:       []int{10001, math.MaxInt32},
		Color:       "⚪",
		Hex:         "#9ca3af",
		Name:        "Специфічні",
		NameEn:      "Advanced/Rare",
		Description: "Рідкісні або спеціалізовані",
		Coverage:    "~1-2%",
		CEFRLevel:   "C1-C2",
		Priority:    "НИЗЬКИЙ",
	}
)

// FrequencyTiers lists the fixed tiers from most to least frequent
func FrequencyTiers() []FrequencyTier {
	return []FrequencyTier{TierEssential, TierImportant, TierUseful, TierAdvanced}
}

// TierForRank returns the tier for a corpus rank. Ranks outside the first
// three ranges, including UnknownRank, fall through to TierAdvanced.
func TierForRank(rank int) FrequencyTier {
	switch {
	case TierEssential.Contains(rank):
		return TierEssential
	case TierImportant.Contains(rank):
		return TierImportant
	case TierUseful.Contains(rank):
		return TierUseful
	default:
		return TierAdvanced
	}
}

// TierByName finds a fixed tier by its display or English name
func TierByName(name string) (FrequencyTier, bool) {
	for _, t := range FrequencyTiers() {
		if t.Name == name || t.NameEn == name {
			return t, true
		}
	}
	return FrequencyTier{}, false
}

// UndefinedTier is substituted for imported records without tier data.
// Empty name or cefr fall back to the defaults.
func UndefinedTier(name, cefr string) FrequencyTier {
	if name == "" {
		name = "Невизначено"
	}
	if cefr == "" {
		cefr = "N/A"
	}
	return FrequencyTier{
		Range:       []int{0, 0},
		Color:       "gray",
		Hex:         "#808080",
		Name:        name,
		NameEn:      "Undefined",
		Description: "Рівень частотності невизначено",
		Coverage:    "0%",
		CEFRLevel:   cefr,
		Priority:    "low",
	}
}
