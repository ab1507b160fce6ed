// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Teamdex API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, cat, m, cfg)

Every API route is wrapped with request logging and Prometheus
instrumentation labelled by its pattern.

# Endpoints

Operational:

	GET /health  - Database reachability
	GET /metrics - Prometheus exposition

Dataset and analysis (public):

	GET  /pokemon       - List, optionally by type and min_stats
	GET  /pokemon/{id}  - Single entry by unique id
	POST /analyze       - Vulnerability table for up to six pokemon (?source=sql)

Saved teams:

	POST /teams                      - Create team
	POST /teams/{id}/members         - Add member (X-Admin-Key)
	GET  /teams/{id}/activity        - Activity log (X-Admin-Key)
	GET  /teams/{slug}               - Team and members
	GET  /teams/{slug}/vulnerability - Vulnerability table for the team

Statistics:

	GET /stats/overview
	GET /stats/mega-evolutions?limit=
	GET /stats/most-forms?limit=
	GET /stats/generations
	GET /stats/power-ranking?limit=
	GET /stats/attackers?type=
*/
package router
