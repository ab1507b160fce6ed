// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/testutil"
)

func TestAnalyze(t *testing.T) {
	st, cat, _ := setupSeeded(t)
	version, err := st.DatasetVersion(t.Context())
	if err != nil {
		t.Fatalf("Failed to read dataset version: %v", err)
	}
	handler := NewAnalyzeHandler(st, cat)

	testCases := []struct {
		name string
		body models.AnalyzeRequest
	}{
		{"by id", models.AnalyzeRequest{PokemonIDs: []int{testutil.CharizardID}}},
		{"by name", models.AnalyzeRequest{Names: []string{"Charizard"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/analyze", tc.body, nil)
			w := httptest.NewRecorder()
			handler.Analyze(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.AnalyzeResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.DatasetVersion != version {
				t.Errorf("Expected dataset version %d, got %d", version, resp.DatasetVersion)
			}
			if len(resp.Team) != 1 || resp.Team[0].Name != "Charizard" {
				t.Errorf("Unexpected team: %+v", resp.Team)
			}
			if len(resp.Scores) == 0 || resp.Scores[0].AttackingType != "Rock" {
				t.Fatalf("Expected Rock first, got %+v", resp.Scores)
			}

			rock, _ := findScore(resp.Scores, "Rock")
			if rock.TeamScore != 2 || rock.Affected != 1 {
				t.Errorf("Expected Rock 2/1, got %d/%d", rock.TeamScore, rock.Affected)
			}
			if rock.Verdict != models.VerdictFor(2) {
				t.Errorf("Expected verdict %q, got %q", models.VerdictFor(2), rock.Verdict)
			}
		})
	}
}

func TestAnalyze_EmptyTeam(t *testing.T) {
	st, cat, _ := setupSeeded(t)
	handler := NewAnalyzeHandler(st, cat)

	req := testutil.MakeRequest("POST", "/analyze", models.AnalyzeRequest{}, nil)
	w := httptest.NewRecorder()
	handler.Analyze(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AnalyzeResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Scores) == 0 {
		t.Fatal("Expected a row per attacking type")
	}
	for _, s := range resp.Scores {
		if s.TeamScore != 0 || s.Affected != 0 {
			t.Errorf("Expected zero row for %s, got %d/%d", s.AttackingType, s.TeamScore, s.Affected)
		}
	}
}

func TestAnalyze_Rejections(t *testing.T) {
	st, cat, _ := setupSeeded(t)
	handler := NewAnalyzeHandler(st, cat)

	testCases := []struct {
		name string
		body models.AnalyzeRequest
	}{
		{"ids and names", models.AnalyzeRequest{PokemonIDs: []int{1}, Names: []string{"Charizard"}}},
		{"unknown id", models.AnalyzeRequest{PokemonIDs: []int{999}}},
		{"unknown name", models.AnalyzeRequest{Names: []string{"Missingno"}}},
		{"duplicate", models.AnalyzeRequest{PokemonIDs: []int{1, 1}}},
		{"seven members", models.AnalyzeRequest{PokemonIDs: []int{1, 2, 3, 4, 5, 6, 7}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/analyze", tc.body, nil)
			w := httptest.NewRecorder()
			handler.Analyze(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	st, cat, _ := setupSeeded(t)
	handler := NewAnalyzeHandler(st, cat)

	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	handler.Analyze(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

// The database aggregation and the catalog must return identical rows.
func TestAnalyze_SQLSourceMatchesCatalog(t *testing.T) {
	st, cat, _ := setupSeeded(t)
	handler := NewAnalyzeHandler(st, cat)

	teams := [][]int{
		nil,
		{testutil.CharizardID},
		{testutil.BulbasaurID, testutil.CharizardID, testutil.BlastoiseID},
		{testutil.MegaCharizardXID, testutil.AlolanVulpixID, testutil.MewtwoID, testutil.PrimalKyogreID},
	}

	analyze := func(t *testing.T, path string, ids []int) models.AnalyzeResponse {
		t.Helper()
		req := testutil.MakeRequest("POST", path, models.AnalyzeRequest{PokemonIDs: ids}, nil)
		w := httptest.NewRecorder()
		handler.Analyze(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.AnalyzeResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	for _, ids := range teams {
		fromCatalog := analyze(t, "/analyze", ids)
		fromSQL := analyze(t, "/analyze?source=sql", ids)

		if fromSQL.DatasetVersion != fromCatalog.DatasetVersion {
			t.Errorf("team %v: version %d vs %d", ids, fromSQL.DatasetVersion, fromCatalog.DatasetVersion)
		}
		if len(fromSQL.Team) != len(ids) {
			t.Errorf("team %v: expected %d members, got %d", ids, len(ids), len(fromSQL.Team))
		}
		if len(fromSQL.Scores) != len(fromCatalog.Scores) {
			t.Fatalf("team %v: %d rows vs %d", ids, len(fromSQL.Scores), len(fromCatalog.Scores))
		}
		for i := range fromCatalog.Scores {
			if fromSQL.Scores[i] != fromCatalog.Scores[i] {
				t.Errorf("team %v row %d: sql %+v, catalog %+v", ids, i, fromSQL.Scores[i], fromCatalog.Scores[i])
			}
		}
	}
}

func TestAnalyze_UnknownSource(t *testing.T) {
	st, cat, _ := setupSeeded(t)
	handler := NewAnalyzeHandler(st, cat)

	req := testutil.MakeRequest("POST", "/analyze?source=cache", models.AnalyzeRequest{PokemonIDs: []int{1}}, nil)
	w := httptest.NewRecorder()
	handler.Analyze(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
