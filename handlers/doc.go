// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Teamdex API.

# Handler Types

Each handler is a struct holding the store, the catalog and, where keys are
involved, the config:

  - PokemonHandler: Dataset browsing
  - AnalyzeHandler: Ad hoc team vulnerability tables
  - TeamHandler: Saved teams, members and activity
  - StatsHandler: Dashboard statistics

Handlers are created via constructor functions:

	teamHandler := handlers.NewTeamHandler(st, cat, cfg)

# Team Analysis

A team is up to six distinct pokemon chosen by unique id or exact name:

	POST /analyze {"pokemon_ids": [6, 9]}

The response carries one row per attacking type, most threatening first, and
the dataset version the table was computed against. Repeated requests for the
same ordered team are served from the catalog memo until the next import.
With ?source=sql the table is aggregated by the database instead; both
sources return identical rows.

# Saved Teams

	POST /teams                     → CreateTeam (returns admin_key, share_slug)
	POST /teams/{id}/members        → AddMember
	GET  /teams/{slug}              → GetTeam
	GET  /teams/{slug}/vulnerability → GetVulnerability
	GET  /teams/{id}/activity       → GetActivity

Member changes and the activity log require the X-Admin-Key header. Team
rules are enforced on insert: position 1 through 6, one pokemon per slot, no
repeated pokemon, and optional bans on megas (including primal forms) and
legendaries.
*/
package handlers
