// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/teamdex/models"
)

// CreateTeam inserts a saved team. The caller assigns ID and ShareSlug.
func (s *Store) CreateTeam(ctx context.Context, team models.SavedTeam) (models.SavedTeam, error) {
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO teams (id, name, description, allow_megas, allow_legendaries, share_slug, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), team.ID, team.Name, team.Description, team.AllowMegas, team.AllowLegendaries, team.ShareSlug, team.CreatedAt)
	if err != nil {
		return models.SavedTeam{}, fmt.Errorf("insert team: %w", err)
	}
	return team, nil
}

const teamColumns = `id, name, description, allow_megas, allow_legendaries, share_slug, created_at`

// GetTeamByID returns the team with the given id.
func (s *Store) GetTeamByID(ctx context.Context, id string) (models.SavedTeam, error) {
	return s.getTeam(ctx, "id", id)
}

// GetTeamBySlug returns the team with the given share slug.
func (s *Store) GetTeamBySlug(ctx context.Context, slug string) (models.SavedTeam, error) {
	return s.getTeam(ctx, "share_slug", slug)
}

func (s *Store) getTeam(ctx context.Context, column, value string) (models.SavedTeam, error) {
	var team models.SavedTeam
	err := s.db.GetContext(ctx, &team, s.db.Rebind(`SELECT `+teamColumns+` FROM teams WHERE `+column+` = ?`), value)
	if err == sql.ErrNoRows {
		return models.SavedTeam{}, fmt.Errorf("team %s: %w", value, ErrNotFound)
	}
	if err != nil {
		return models.SavedTeam{}, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// memberRow flattens a member joined with its pokemon for scanning.
type memberRow struct {
	TeamID   string         `db:"team_id"`
	Position int            `db:"position"`
	Nickname sql.NullString `db:"nickname"`
	models.Pokemon
}

// TeamMembers returns the members of a team ordered by position.
func (s *Store) TeamMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	var rows []memberRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT tm.team_id, tm.position, tm.nickname,
			p.unique_id, p.pokedex_number, p.name, p.base_name, p.form_type, p.type1, p.type2,
			p.total_stats, p.hp, p.attack, p.defense, p.sp_attack, p.sp_defense, p.speed,
			p.generation, p.legendary, p.is_alternate, p.origin_region
		FROM team_members tm
		JOIN pokemon p ON p.unique_id = tm.pokemon_unique_id
		WHERE tm.team_id = ?
		ORDER BY tm.position
	`), teamID)
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}

	members := make([]models.TeamMember, 0, len(rows))
	for _, r := range rows {
		m := models.TeamMember{TeamID: r.TeamID, Position: r.Position, Pokemon: r.Pokemon}
		if r.Nickname.Valid {
			nick := r.Nickname.String
			m.Nickname = &nick
		}
		members = append(members, m)
	}
	return members, nil
}

// AddTeamMember places a pokemon at a position in a saved team and records
// the insert in the activity log, all in one transaction.
func (s *Store) AddTeamMember(ctx context.Context, teamID string, pokemonID, position int, nickname *string) (models.TeamMember, error) {
	if position < 1 || position > models.MaxTeamSize {
		return models.TeamMember{}, models.ErrInvalidPosition
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("begin add member: %w", err)
	}
	defer tx.Rollback()

	var team models.SavedTeam
	err = tx.GetContext(ctx, &team, tx.Rebind(`SELECT `+teamColumns+` FROM teams WHERE id = ?`), teamID)
	if err == sql.ErrNoRows {
		return models.TeamMember{}, fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("get team: %w", err)
	}

	var taken []struct {
		Position  int `db:"position"`
		PokemonID int `db:"pokemon_unique_id"`
	}
	err = tx.SelectContext(ctx, &taken, tx.Rebind(`
		SELECT position, pokemon_unique_id FROM team_members WHERE team_id = ?
	`), teamID)
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("query team members: %w", err)
	}
	if len(taken) >= models.MaxTeamSize {
		return models.TeamMember{}, models.ErrTeamTooLarge
	}
	for _, t := range taken {
		if t.Position == position {
			return models.TeamMember{}, models.ErrPositionTaken
		}
		if t.PokemonID == pokemonID {
			return models.TeamMember{}, models.ErrDuplicateMember
		}
	}

	var p models.Pokemon
	err = tx.GetContext(ctx, &p, tx.Rebind(`SELECT `+pokemonColumns+` FROM pokemon WHERE unique_id = ?`), pokemonID)
	if err == sql.ErrNoRows {
		return models.TeamMember{}, fmt.Errorf("pokemon %d: %w", pokemonID, ErrNotFound)
	}
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("get pokemon: %w", err)
	}

	if !team.AllowMegas && (p.FormType == models.FormMega || p.FormType == models.FormPrimal) {
		return models.TeamMember{}, models.ErrMegaNotAllowed
	}
	if !team.AllowLegendaries && p.Legendary {
		return models.TeamMember{}, models.ErrLegendaryBlocked
	}

	now := time.Now().UTC()
	memberID := uuid.NewString()
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO team_members (id, team_id, pokemon_unique_id, position, nickname, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), memberID, teamID, pokemonID, position, nickname, now)
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("insert team member: %w", err)
	}

	values, err := json.Marshal(map[string]any{
		"team_id":           teamID,
		"team_name":         team.Name,
		"pokemon_unique_id": pokemonID,
		"pokemon_name":      p.Name,
		"position":          position,
		"nickname":          nickname,
	})
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("encode activity values: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO activity_log (id, table_name, action_type, record_id, team_id, new_values, logged_at)
		VALUES (?, 'team_members', 'INSERT', ?, ?, ?, ?)
	`), uuid.NewString(), memberID, teamID, string(values), now)
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("insert activity log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.TeamMember{}, fmt.Errorf("commit add member: %w", err)
	}

	return models.TeamMember{TeamID: teamID, Position: position, Nickname: nickname, Pokemon: p}, nil
}

// ActivityLog returns the activity recorded for a team, oldest first.
func (s *Store) ActivityLog(ctx context.Context, teamID string) ([]models.ActivityEntry, error) {
	entries := []models.ActivityEntry{}
	err := s.db.SelectContext(ctx, &entries, s.db.Rebind(`
		SELECT id, table_name, action_type, record_id, team_id, new_values, logged_at
		FROM activity_log
		WHERE team_id = ?
		ORDER BY logged_at, id
	`), teamID)
	if err != nil {
		return nil, fmt.Errorf("query activity log: %w", err)
	}
	return entries, nil
}
