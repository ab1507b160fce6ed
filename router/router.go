// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/teamdex/catalog"
	"github.com/danielhkuo/teamdex/cliparse"
	"github.com/danielhkuo/teamdex/handlers"
	"github.com/danielhkuo/teamdex/metrics"
	"github.com/danielhkuo/teamdex/middleware"
	"github.com/danielhkuo/teamdex/store"
)

func NewRouter(st *store.Store, cat *catalog.Catalog, m *metrics.Metrics, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pokemonHandler := handlers.NewPokemonHandler(st, cat)
	analyzeHandler := handlers.NewAnalyzeHandler(st, cat)
	teamHandler := handlers.NewTeamHandler(st, cat, cfg)
	statsHandler := handlers.NewStatsHandler(st, cat)

	// handle registers a logged and instrumented route labelled by its pattern
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(m.WithMetrics(pattern, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", m.Handler())

	// Dataset
	handle("GET /pokemon", pokemonHandler.ListPokemon)
	handle("GET /pokemon/{id}", pokemonHandler.GetPokemon)

	// Ad hoc analysis
	handle("POST /analyze", analyzeHandler.Analyze)

	// Saved teams (member changes and activity require X-Admin-Key)
	handle("POST /teams", teamHandler.CreateTeam)
	handle("POST /teams/{id}/members", teamHandler.AddMember)
	handle("GET /teams/{id}/activity", teamHandler.GetActivity)
	handle("GET /teams/{slug}", teamHandler.GetTeam)
	handle("GET /teams/{slug}/vulnerability", teamHandler.GetVulnerability)

	// Dashboard statistics
	handle("GET /stats/overview", statsHandler.Overview)
	handle("GET /stats/mega-evolutions", statsHandler.MegaEvolutions)
	handle("GET /stats/most-forms", statsHandler.MostForms)
	handle("GET /stats/generations", statsHandler.Generations)
	handle("GET /stats/power-ranking", statsHandler.PowerRanking)
	handle("GET /stats/attackers", statsHandler.Attackers)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("teamdex API v1"))
	})

	return mux
}
