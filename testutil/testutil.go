// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/teamdex/auth"
	"github.com/danielhkuo/teamdex/cliparse"
	"github.com/danielhkuo/teamdex/db"
	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/store"
	"github.com/danielhkuo/teamdex/typechart"
)

// SetupTestStore creates a fresh sqlite database in a temp dir with the full schema
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	url := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	st, err := store.Open(db.SQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:test.db",
		DatabaseType: db.SQLite,
		AdminKeySalt: "test-admin-salt",
		TeamSlugSalt: "test-slug-salt",
		LogLevel:     "error",
	}
}

func strPtr(s string) *string { return &s }

func mon(dex int, name, base string, form models.FormType, type1 string, type2 *string,
	total, attack, spAttack, gen int, legendary bool, region string) models.Pokemon {
	return models.Pokemon{
		PokedexNumber: dex,
		Name:          name,
		BaseName:      base,
		FormType:      form,
		Type1:         type1,
		Type2:         type2,
		TotalStats:    total,
		HP:            80,
		Attack:        attack,
		Defense:       80,
		SpAttack:      spAttack,
		SpDefense:     80,
		Speed:         80,
		Generation:    gen,
		Legendary:     legendary,
		IsAlternate:   form != models.FormBase,
		OriginRegion:  region,
	}
}

// TestPokemon returns a small classified dataset. In a fresh database the
// rows receive unique ids 1..11 in this order.
func TestPokemon() []models.Pokemon {
	return []models.Pokemon{
		mon(1, "Bulbasaur", "Bulbasaur", models.FormBase, "Grass", strPtr("Poison"), 318, 49, 65, 1, false, "Kanto"),
		mon(6, "Charizard", "Charizard", models.FormBase, "Fire", strPtr("Flying"), 534, 84, 109, 1, false, "Kanto"),
		mon(6, "Mega Charizard X", "Charizard", models.FormMega, "Fire", strPtr("Dragon"), 634, 130, 130, 1, false, "Kanto"),
		mon(6, "Mega Charizard Y", "Charizard", models.FormMega, "Fire", strPtr("Flying"), 634, 104, 159, 1, false, "Kanto"),
		mon(9, "Blastoise", "Blastoise", models.FormBase, "Water", nil, 530, 83, 85, 1, false, "Kanto"),
		mon(9, "Mega Blastoise", "Blastoise", models.FormMega, "Water", nil, 630, 103, 135, 1, false, "Kanto"),
		mon(37, "Vulpix", "Vulpix", models.FormBase, "Fire", nil, 299, 41, 50, 1, false, "Kanto"),
		mon(37, "Alolan Vulpix", "Vulpix", models.FormRegional, "Ice", nil, 299, 41, 50, 7, false, "Alola"),
		mon(150, "Mewtwo", "Mewtwo", models.FormBase, "Psychic", nil, 680, 110, 154, 1, true, "Kanto"),
		mon(382, "Kyogre", "Kyogre", models.FormBase, "Water", nil, 670, 100, 150, 3, true, "Hoenn"),
		mon(382, "Primal Kyogre", "Kyogre", models.FormPrimal, "Water", nil, 770, 150, 180, 3, true, "Hoenn"),
	}
}

// Fixture unique ids
const (
	BulbasaurID = iota + 1
	CharizardID
	MegaCharizardXID
	MegaCharizardYID
	BlastoiseID
	MegaBlastoiseID
	VulpixID
	AlolanVulpixID
	MewtwoID
	KyogreID
	PrimalKyogreID
)

// SeedTestData imports the fixture dataset with the embedded type chart and
// returns the new dataset version
func SeedTestData(t *testing.T, st *store.Store) int64 {
	t.Helper()

	chart, err := typechart.Default()
	if err != nil {
		t.Fatalf("Failed to load type chart: %v", err)
	}

	version, err := st.ReplaceDataset(context.Background(), TestPokemon(), chart.Interactions(), "fixture")
	if err != nil {
		t.Fatalf("Failed to seed dataset: %v", err)
	}
	return version
}

// CreateTestTeam creates a saved team and returns its ID, admin key and share slug
func CreateTestTeam(t *testing.T, st *store.Store, cfg cliparse.Config, allowMegas, allowLegendaries bool) (teamID, adminKey, shareSlug string) {
	t.Helper()

	teamID = auth.NewTeamID()
	adminKey = auth.GenerateAdminKey(teamID, cfg.AdminKeySalt)
	shareSlug = auth.GenerateShareSlug(teamID, cfg.TeamSlugSalt)

	_, err := st.CreateTeam(context.Background(), models.SavedTeam{
		ID:               teamID,
		Name:             "Test Team",
		Description:      "A test team",
		AllowMegas:       allowMegas,
		AllowLegendaries: allowLegendaries,
		ShareSlug:        shareSlug,
	})
	if err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}

	return teamID, adminKey, shareSlug
}

// AddTestMember places a pokemon in a saved team
func AddTestMember(t *testing.T, st *store.Store, teamID string, pokemonID, position int) {
	t.Helper()

	if _, err := st.AddTeamMember(context.Background(), teamID, pokemonID, position, nil); err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
