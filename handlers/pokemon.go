// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/teamdex/catalog"
	"github.com/danielhkuo/teamdex/middleware"
	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/store"
)

type PokemonHandler struct {
	st  *store.Store
	cat *catalog.Catalog
}

func NewPokemonHandler(st *store.Store, cat *catalog.Catalog) *PokemonHandler {
	return &PokemonHandler{st: st, cat: cat}
}

// ListPokemon handles GET /pokemon?type=&min_stats=
func (h *PokemonHandler) ListPokemon(w http.ResponseWriter, r *http.Request) {
	minStats, err := middleware.QueryInt(r, "min_stats", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Type filter goes to the database
	if pokemonType := r.URL.Query().Get("type"); pokemonType != "" {
		pokemon, err := h.st.FindByType(r.Context(), pokemonType, minStats)
		if err != nil {
			slog.Error("failed to find pokemon by type", "type", pokemonType, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, pokemon)
		return
	}

	all, err := h.cat.Pokemon(r.Context())
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	pokemon := make([]models.Pokemon, 0, len(all))
	for _, p := range all {
		if p.TotalStats >= minStats {
			pokemon = append(pokemon, p)
		}
	}
	middleware.JSONResponse(w, http.StatusOK, pokemon)
}

// GetPokemon handles GET /pokemon/{id}
func (h *PokemonHandler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	p, err := h.st.GetPokemon(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Pokemon not found")
		return
	}
	if err != nil {
		slog.Error("failed to get pokemon", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}
