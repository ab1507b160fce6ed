// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"testing"

	"github.com/danielhkuo/teamdex/catalog"
	"github.com/danielhkuo/teamdex/cliparse"
	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/store"
	"github.com/danielhkuo/teamdex/testutil"
)

// setupSeeded returns a store holding the fixture dataset and a catalog over it
func setupSeeded(t *testing.T) (*store.Store, *catalog.Catalog, cliparse.Config) {
	t.Helper()

	st := testutil.SetupTestStore(t)
	testutil.SeedTestData(t, st)
	return st, catalog.New(st, nil), testutil.GetTestConfig()
}

func findScore(scores []models.VulnerabilityScore, attacking string) (models.VulnerabilityScore, bool) {
	for _, s := range scores {
		if s.AttackingType == attacking {
			return s, true
		}
	}
	return models.VulnerabilityScore{}, false
}
