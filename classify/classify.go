// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielhkuo/teamdex/models"
)

// MatchOrder decides which base name wins when several are prefixes of a name.
type MatchOrder string

const (
	// MatchLongest prefers the longest candidate, so "Charizard" beats "Char".
	MatchLongest MatchOrder = "longest"
	// MatchFirst keeps the dataset order of base names.
	MatchFirst MatchOrder = "first"
)

// ParseMatchOrder converts a config string into a MatchOrder.
// Empty input selects MatchLongest.
func ParseMatchOrder(s string) (MatchOrder, error) {
	switch MatchOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchLongest:
		return MatchLongest, nil
	case MatchFirst:
		return MatchFirst, nil
	}
	return "", fmt.Errorf("unknown match order %q (want first or longest)", s)
}

// baseExclusionMarkers keep a name out of the base-name candidate set.
// Matching is case-sensitive to mirror the dataset's capitalization.
var baseExclusionMarkers = []string{"Mega", "Primal", "Alolan", "Galarian", "Forme", "Size"}

// leadingMarkers are stripped from the front of a name when no base name
// is a direct prefix of it ("Mega Charizard X" -> "Charizard X").
var leadingMarkers = []string{"Mega ", "Primal ", "Alolan ", "Galarian ", "Hisuian "}

var regionalMarkers = []string{"alolan", "galarian", "hisui"}

// BaseNames returns the deduplicated names that carry no variant marker,
// in first-seen order.
func BaseNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if seen[name] || hasAny(name, baseExclusionMarkers) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Classifier maps display names to (base name, form type).
// It is read-only after construction and safe for concurrent use.
type Classifier struct {
	candidates []string
}

// New builds a classifier over the given base names.
func New(baseNames []string, order MatchOrder) *Classifier {
	candidates := make([]string, len(baseNames))
	copy(candidates, baseNames)

	if order != MatchFirst {
		sort.SliceStable(candidates, func(i, j int) bool {
			if len(candidates[i]) != len(candidates[j]) {
				return len(candidates[i]) > len(candidates[j])
			}
			return candidates[i] < candidates[j]
		})
	}

	return &Classifier{candidates: candidates}
}

// Classify returns the base name and classification for a display name.
func (c *Classifier) Classify(name string) (string, models.FormType) {
	baseName := c.BaseName(name)
	return baseName, FormOf(name, baseName)
}

// BaseName finds the base name the display name belongs to.
// Falls back to the name itself when no candidate matches.
func (c *Classifier) BaseName(name string) string {
	if bn, ok := c.prefixMatch(name); ok {
		return bn
	}

	stripped := name
	for _, marker := range leadingMarkers {
		stripped = strings.TrimPrefix(stripped, marker)
	}
	if stripped != name {
		if bn, ok := c.prefixMatch(stripped); ok {
			return bn
		}
	}

	return name
}

func (c *Classifier) prefixMatch(name string) (string, bool) {
	for _, bn := range c.candidates {
		if strings.HasPrefix(name, bn) {
			return bn, true
		}
	}
	return "", false
}

// FormOf applies the marker priority: mega, primal, regional, then special
// when the name differs from its base name.
func FormOf(name, baseName string) models.FormType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "mega"):
		return models.FormMega
	case strings.Contains(lower, "primal"):
		return models.FormPrimal
	case hasAny(lower, regionalMarkers):
		return models.FormRegional
	case name != baseName:
		return models.FormSpecial
	}
	return models.FormBase
}

func hasAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
