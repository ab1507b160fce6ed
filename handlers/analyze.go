// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/teamdex/catalog"
	"github.com/danielhkuo/teamdex/middleware"
	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/store"
)

// Score sources for POST /analyze
const (
	SourceCatalog = "catalog"
	SourceSQL     = "sql"
)

type AnalyzeHandler struct {
	st  *store.Store
	cat *catalog.Catalog
}

func NewAnalyzeHandler(st *store.Store, cat *catalog.Catalog) *AnalyzeHandler {
	return &AnalyzeHandler{st: st, cat: cat}
}

// Analyze handles POST /analyze. ?source=sql aggregates the scores in the
// database instead of the in-memory catalog.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = SourceCatalog
	}
	if source != SourceCatalog && source != SourceSQL {
		middleware.ErrorResponse(w, http.StatusBadRequest, "source must be catalog or sql")
		return
	}

	var req models.AnalyzeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.PokemonIDs) > 0 && len(req.Names) > 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "provide pokemon_ids or names, not both")
		return
	}

	var team models.Team
	var err error
	if len(req.Names) > 0 {
		team, err = h.cat.TeamByNames(r.Context(), req.Names)
	} else {
		team, err = h.cat.TeamByIDs(r.Context(), req.PokemonIDs)
	}
	if err != nil {
		writeTeamError(w, err)
		return
	}

	var scores []models.VulnerabilityScore
	var version int64
	if source == SourceSQL {
		scores, version, err = h.sqlScores(r, team)
	} else {
		scores, version, err = h.cat.Analyze(r.Context(), team)
	}
	if err != nil {
		slog.Error("failed to analyze team", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to analyze team")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AnalyzeResponse{
		Team:           team.Members,
		Scores:         scores,
		DatasetVersion: version,
	})
}

func (h *AnalyzeHandler) sqlScores(r *http.Request, team models.Team) ([]models.VulnerabilityScore, int64, error) {
	version, err := h.st.DatasetVersion(r.Context())
	if err != nil {
		return nil, 0, err
	}
	scores, err := h.st.TeamVulnerability(r.Context(), team.IDs())
	if err != nil {
		return nil, 0, err
	}
	return scores, version, nil
}

// writeTeamError maps selection errors to client responses.
func writeTeamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownPokemon),
		errors.Is(err, models.ErrTeamTooLarge),
		errors.Is(err, models.ErrDuplicateMember):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to resolve team", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
