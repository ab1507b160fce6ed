// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/scoring"
)

// Overview returns headline counts for the dashboard.
func (s *Store) Overview(ctx context.Context) (models.Overview, error) {
	var o models.Overview
	err := s.db.GetContext(ctx, &o, `
		SELECT
			COUNT(*) AS total_entries,
			COUNT(DISTINCT pokedex_number) AS distinct_pokedex_numbers,
			COALESCE(SUM(CASE WHEN is_alternate THEN 1 ELSE 0 END), 0) AS alternate_forms,
			COALESCE(SUM(CASE WHEN legendary THEN 1 ELSE 0 END), 0) AS legendaries
		FROM pokemon
	`)
	if err != nil {
		return models.Overview{}, fmt.Errorf("query overview: %w", err)
	}
	return o, nil
}

// MegaEvolutions lists base/mega pairs by power increase. A limit <= 0
// returns every pair.
func (s *Store) MegaEvolutions(ctx context.Context, limit int) ([]models.MegaEvolution, error) {
	query := `
		SELECT base_name, base_form, base_stats, mega_form, mega_stats, power_increase
		FROM vw_mega_evolutions
		ORDER BY power_increase DESC, mega_form`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	megas := []models.MegaEvolution{}
	if err := s.db.SelectContext(ctx, &megas, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query mega evolutions: %w", err)
	}
	for i := range megas {
		megas[i].PercentageIncrease = scoring.PercentageIncrease(megas[i].BaseStats, megas[i].MegaStats)
	}
	return megas, nil
}

// MostForms returns the families with the most variants.
func (s *Store) MostForms(ctx context.Context, limit int) ([]models.FormFamily, error) {
	pokemon, err := s.ListPokemon(ctx)
	if err != nil {
		return nil, err
	}

	families := scoring.FormFamilies(pokemon)
	if limit > 0 && len(families) > limit {
		families = families[:limit]
	}
	return families, nil
}

// GenerationDistribution counts pokemon per generation and form type.
func (s *Store) GenerationDistribution(ctx context.Context) ([]models.GenerationCount, error) {
	counts := []models.GenerationCount{}
	err := s.db.SelectContext(ctx, &counts, `
		SELECT generation, form_type, COUNT(*) AS count
		FROM pokemon
		GROUP BY generation, form_type
		ORDER BY generation, form_type
	`)
	if err != nil {
		return nil, fmt.Errorf("query generation distribution: %w", err)
	}
	return counts, nil
}

// Attackers lists pokemon of the given type with attack or special attack of
// at least 80, strongest attacking stat first.
func (s *Store) Attackers(ctx context.Context, pokemonType string) ([]models.Attacker, error) {
	var pokemon []models.Pokemon
	err := s.db.SelectContext(ctx, &pokemon, s.db.Rebind(`
		SELECT `+pokemonColumns+`
		FROM pokemon
		WHERE (type1 = ? OR type2 = ?)
		  AND (attack >= 80 OR sp_attack >= 80)
		ORDER BY CASE WHEN attack > sp_attack THEN attack ELSE sp_attack END DESC, name
	`), pokemonType, pokemonType)
	if err != nil {
		return nil, fmt.Errorf("query attackers: %w", err)
	}

	attackers := make([]models.Attacker, len(pokemon))
	for i, p := range pokemon {
		attackers[i] = models.Attacker{Pokemon: p, AttackStyle: scoring.AttackStyle(p)}
	}
	return attackers, nil
}
