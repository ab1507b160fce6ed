// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/typechart"
)

// Weight converts an effectiveness multiplier into its vulnerability weight:
// +1 for 2x, -1 for 0.5x, -2 for 0x and 0 for anything else.
func Weight(m decimal.Decimal) int {
	switch {
	case m.Equal(typechart.SuperEffect):
		return 1
	case m.Equal(typechart.NotVery):
		return -1
	case m.Equal(typechart.Immune):
		return -2
	}
	return 0
}

// Vulnerability computes the team's score for every attacking type in the
// chart. Each interaction row whose defending type equals a member's type1
// or type2 adds its weight, so a member matching on both slots counts twice.
// Attacking types with no matching rows are still reported with score 0.
func Vulnerability(team models.Team, chart *typechart.Chart) []models.VulnerabilityScore {
	attackers := chart.AttackingTypes()
	scores := make(map[string]int, len(attackers))
	affected := make(map[string]map[int]bool, len(attackers))

	// Index rows by defending type so each member only visits its own rows
	byDefender := make(map[string][]models.TypeInteraction)
	for _, ti := range chart.Interactions() {
		byDefender[ti.DefendingType] = append(byDefender[ti.DefendingType], ti)
	}

	for i, member := range team.Members {
		for _, t := range member.Types() {
			for _, ti := range byDefender[t] {
				scores[ti.AttackingType] += Weight(ti.Effectiveness)
				if affected[ti.AttackingType] == nil {
					affected[ti.AttackingType] = make(map[int]bool)
				}
				affected[ti.AttackingType][i] = true
			}
		}
	}

	out := make([]models.VulnerabilityScore, 0, len(attackers))
	for _, attacking := range attackers {
		score := scores[attacking]
		out = append(out, models.VulnerabilityScore{
			AttackingType: attacking,
			TeamScore:     score,
			Affected:      len(affected[attacking]),
			Verdict:       models.VerdictFor(score),
		})
	}
	SortScores(out)
	return out
}

// SortScores orders rows by score descending, then attacking type ascending.
func SortScores(rows []models.VulnerabilityScore) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TeamScore != rows[j].TeamScore {
			return rows[i].TeamScore > rows[j].TeamScore
		}
		return rows[i].AttackingType < rows[j].AttackingType
	})
}
