// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Pokemon: one dataset row, a species or one of its forms
  - TypeInteraction: attacking/defending multiplier
  - Team: validated in-session selection of up to six pokemon
  - VulnerabilityScore: one row of a team's vulnerability table
  - SavedTeam, TeamMember, ActivityEntry: persisted teams

# Request Types

  - AnalyzeRequest: pokemon_ids or names
  - CreateTeamRequest: name, description, allow_megas, allow_legendaries
  - AddMemberRequest: pokemon_id, position, nickname

# Response Types

  - AnalyzeResponse: team, scores, dataset_version
  - CreateTeamResponse: team_id, admin_key, share_slug
  - TeamDetailResponse: team, pokemon_count, age, members
  - ErrorResponse: error, message

# Constants

Form types:

	FormBase, FormMega, FormPrimal, FormRegional, FormSpecial

Team size:

	MaxTeamSize = 6
*/
package models
