// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/teamdex/catalog"
	"github.com/danielhkuo/teamdex/middleware"
	"github.com/danielhkuo/teamdex/scoring"
	"github.com/danielhkuo/teamdex/store"
)

const defaultPowerRankingLimit = 10

type StatsHandler struct {
	st  *store.Store
	cat *catalog.Catalog
}

func NewStatsHandler(st *store.Store, cat *catalog.Catalog) *StatsHandler {
	return &StatsHandler{st: st, cat: cat}
}

// Overview handles GET /stats/overview
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.st.Overview(r.Context())
	if err != nil {
		slog.Error("failed to query overview", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, overview)
}

// MegaEvolutions handles GET /stats/mega-evolutions?limit=
func (h *StatsHandler) MegaEvolutions(w http.ResponseWriter, r *http.Request) {
	limit, err := middleware.QueryInt(r, "limit", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	megas, err := h.st.MegaEvolutions(r.Context(), limit)
	if err != nil {
		slog.Error("failed to query mega evolutions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, megas)
}

// MostForms handles GET /stats/most-forms?limit=
func (h *StatsHandler) MostForms(w http.ResponseWriter, r *http.Request) {
	limit, err := middleware.QueryInt(r, "limit", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	families, err := h.st.MostForms(r.Context(), limit)
	if err != nil {
		slog.Error("failed to query form families", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, families)
}

// Generations handles GET /stats/generations
func (h *StatsHandler) Generations(w http.ResponseWriter, r *http.Request) {
	counts, err := h.st.GenerationDistribution(r.Context())
	if err != nil {
		slog.Error("failed to query generation distribution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, counts)
}

// PowerRanking handles GET /stats/power-ranking?limit=
func (h *StatsHandler) PowerRanking(w http.ResponseWriter, r *http.Request) {
	limit, err := middleware.QueryInt(r, "limit", defaultPowerRankingLimit)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	pokemon, err := h.cat.Pokemon(r.Context())
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ranked := scoring.RankByPower(pokemon)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	middleware.JSONResponse(w, http.StatusOK, ranked)
}

// Attackers handles GET /stats/attackers?type=
func (h *StatsHandler) Attackers(w http.ResponseWriter, r *http.Request) {
	pokemonType := r.URL.Query().Get("type")
	if pokemonType == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type is required")
		return
	}

	attackers, err := h.st.Attackers(r.Context(), pokemonType)
	if err != nil {
		slog.Error("failed to query attackers", "type", pokemonType, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, attackers)
}
