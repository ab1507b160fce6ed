// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package typechart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/teamdex/models"
)

var ErrInvalidMultiplier = errors.New("multiplier must be one of 0, 0.5, 1, 2")

// Effectiveness multipliers
var (
	Immune      = decimal.Zero
	NotVery     = decimal.NewFromFloat(0.5)
	Neutral     = decimal.NewFromInt(1)
	SuperEffect = decimal.NewFromInt(2)
)

type pair struct {
	attacking string
	defending string
}

// Chart is a type-interaction matrix. Each ordered (attacking, defending)
// pair holds at most one multiplier; the first one added wins.
type Chart struct {
	interactions []models.TypeInteraction
	index        map[pair]decimal.Decimal
}

// New returns an empty chart.
func New() *Chart {
	return &Chart{index: make(map[pair]decimal.Decimal)}
}

// FromInteractions builds a chart from stored rows.
func FromInteractions(rows []models.TypeInteraction) (*Chart, error) {
	c := New()
	for _, row := range rows {
		if _, err := c.Add(row.AttackingType, row.DefendingType, row.Effectiveness); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add records a multiplier. It reports false without error when the pair is
// already defined.
func (c *Chart) Add(attacking, defending string, multiplier decimal.Decimal) (bool, error) {
	if !validMultiplier(multiplier) {
		return false, fmt.Errorf("%s -> %s = %s: %w", attacking, defending, multiplier, ErrInvalidMultiplier)
	}
	if attacking == "" || defending == "" {
		return false, fmt.Errorf("empty type in pair (%q, %q)", attacking, defending)
	}

	key := pair{attacking, defending}
	if _, exists := c.index[key]; exists {
		return false, nil
	}
	c.index[key] = multiplier
	c.interactions = append(c.interactions, models.TypeInteraction{
		AttackingType: attacking,
		DefendingType: defending,
		Effectiveness: multiplier,
	})
	return true, nil
}

// Interactions returns a copy of the rows in insertion order.
func (c *Chart) Interactions() []models.TypeInteraction {
	out := make([]models.TypeInteraction, len(c.interactions))
	copy(out, c.interactions)
	return out
}

// AttackingTypes returns every distinct attacking type, sorted.
func (c *Chart) AttackingTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ti := range c.interactions {
		if !seen[ti.AttackingType] {
			seen[ti.AttackingType] = true
			out = append(out, ti.AttackingType)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored pairs.
func (c *Chart) Len() int {
	return len(c.interactions)
}

func validMultiplier(m decimal.Decimal) bool {
	return m.Equal(Immune) || m.Equal(NotVery) || m.Equal(Neutral) || m.Equal(SuperEffect)
}
