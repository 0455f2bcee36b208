package manapool

import (
	"sort"
)

const unknownRank = 99

var conditionRanks = map[string]int{
	"NM":  1,
	"LP":  2,
	"MP":  3,
	"HP":  4,
	"DMG": 5,
}

// ConditionRank orders condition ids for display, unknown ids sort last.
func ConditionRank(condition string) int {
	rank, found := conditionRanks[condition]
	if !found {
		return unknownRank
	}
	return rank
}

var finishRanks = map[string]int{
	"NF": 1,
	"FO": 2,
	"EF": 3,
}

// FinishRank puts non-foil before foil and etched, unknown ids sort last.
func FinishRank(finish string) int {
	rank, found := finishRanks[finish]
	if !found {
		return unknownRank
	}
	return rank
}

func IsFoilFinish(finish string) bool {
	switch finish {
	case "FO", "EF":
		return true
	}
	return false
}

// SortVariants orders variants by finish, then by condition rank.
// Variants sharing both keys keep their relative order.
func SortVariants(variants []Variant) {
	sort.SliceStable(variants, func(i, j int) bool {
		fi, fj := variants[i].FinishID, variants[j].FinishID
		if FinishRank(fi) != FinishRank(fj) {
			return FinishRank(fi) < FinishRank(fj)
		}
		if fi != fj {
			return fi < fj
		}
		return ConditionRank(variants[i].ConditionID) < ConditionRank(variants[j].ConditionID)
	})
}

// Target is the language, condition and finish of a listed single.
type Target struct {
	LanguageID  string
	ConditionID string
	FinishID    string
}

// Match returns the low price of the first variant equal to t on all
// three fields. A matching variant without a low price means no price.
func (t Target) Match(variants []Variant) (int, bool) {
	for _, variant := range variants {
		if variant.LanguageID == t.LanguageID &&
			variant.ConditionID == t.ConditionID &&
			variant.FinishID == t.FinishID {
			if variant.LowPrice <= 0 {
				return 0, false
			}
			return variant.LowPrice, true
		}
	}
	return 0, false
}

// SelectLowest returns the marketplace low of the exact variant an
// inventory item lists. Items without a single or without market stats
// have no price.
func SelectLowest(item InventoryItem) (int, bool) {
	if item.Product.Single == nil || item.MarketStats == nil {
		return 0, false
	}
	return item.Product.Single.Target().Match(item.MarketStats.Variants)
}
