// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"math"
	"sort"

	"github.com/danielhkuo/teamdex/models"
)

// Attack styles
const (
	StylePhysical = "Physical"
	StyleSpecial  = "Special"
	StyleBalanced = "Balanced"
)

var formBonus = map[models.FormType]float64{
	models.FormMega:     0.8,
	models.FormPrimal:   0.9,
	models.FormRegional: 0.2,
	models.FormSpecial:  0.3,
}

// PowerLevel scales total stats by legendary status and form:
// total/10 * (1 + 0.5 if legendary + form bonus), rounded to 2 decimals.
func PowerLevel(p models.Pokemon) float64 {
	multiplier := 1.0
	if p.Legendary {
		multiplier += 0.5
	}
	multiplier += formBonus[p.FormType]

	return round2(float64(p.TotalStats) / 10.0 * multiplier)
}

// RankByPower orders pokemon by power level descending with competition
// ranking: equal levels share a rank and the next rank skips accordingly.
// Ties are listed by unique id.
func RankByPower(pokemon []models.Pokemon) []models.PowerRank {
	ranked := make([]models.PowerRank, len(pokemon))
	for i, p := range pokemon {
		ranked[i] = models.PowerRank{Pokemon: p, PowerLevel: PowerLevel(p)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PowerLevel != ranked[j].PowerLevel {
			return ranked[i].PowerLevel > ranked[j].PowerLevel
		}
		return ranked[i].Pokemon.UniqueID < ranked[j].Pokemon.UniqueID
	})

	for i := range ranked {
		if i > 0 && ranked[i].PowerLevel == ranked[i-1].PowerLevel {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}
	return ranked
}

// PercentageIncrease returns (after-before)/before*100 rounded to 2 decimals.
// A zero baseline yields 0.
func PercentageIncrease(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return round2(float64(after-before) / float64(before) * 100)
}

// AttackStyle labels a pokemon by which attacking stat is higher.
func AttackStyle(p models.Pokemon) string {
	switch {
	case p.Attack > p.SpAttack:
		return StylePhysical
	case p.SpAttack > p.Attack:
		return StyleSpecial
	}
	return StyleBalanced
}

// FormFamilies groups pokemon by base name and keeps families with more than
// one entry, largest first, then by strongest form.
func FormFamilies(pokemon []models.Pokemon) []models.FormFamily {
	index := make(map[string]int)
	var families []models.FormFamily
	formSeen := make(map[string]map[models.FormType]bool)

	for _, p := range pokemon {
		i, ok := index[p.BaseName]
		if !ok {
			i = len(families)
			index[p.BaseName] = i
			families = append(families, models.FormFamily{
				BaseName: p.BaseName,
				MaxStats: p.TotalStats,
				MinStats: p.TotalStats,
			})
			formSeen[p.BaseName] = make(map[models.FormType]bool)
		}

		f := &families[i]
		f.TotalForms++
		f.MaxStats = max(f.MaxStats, p.TotalStats)
		f.MinStats = min(f.MinStats, p.TotalStats)
		if !formSeen[p.BaseName][p.FormType] {
			formSeen[p.BaseName][p.FormType] = true
			f.FormTypes = append(f.FormTypes, p.FormType)
		}
	}

	out := make([]models.FormFamily, 0, len(families))
	for _, f := range families {
		if f.TotalForms > 1 {
			sort.Slice(f.FormTypes, func(i, j int) bool { return f.FormTypes[i] < f.FormTypes[j] })
			out = append(out, f)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalForms != out[j].TotalForms {
			return out[i].TotalForms > out[j].TotalForms
		}
		if out[i].MaxStats != out[j].MaxStats {
			return out[i].MaxStats > out[j].MaxStats
		}
		return out[i].BaseName < out[j].BaseName
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
