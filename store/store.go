// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/teamdex/db"
	"github.com/danielhkuo/teamdex/models"
)

var ErrNotFound = errors.New("not found")

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name
	sqlx.BindDriver(db.SQLite, sqlx.QUESTION)
}

// Store runs all queries against the pokemon dataset and saved teams.
// Queries are written with ? placeholders and rebound for the driver.
type Store struct {
	db     *sqlx.DB
	dbType string
}

// Open connects to the database, verifies the connection and returns a Store.
func Open(dbType, url string) (*Store, error) {
	if dbType != db.Postgres && dbType != db.SQLite {
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sqlx.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return New(conn, dbType), nil
}

// New wraps an existing connection.
func New(conn *sqlx.DB, dbType string) *Store {
	return &Store{db: conn, dbType: dbType}
}

// CreateSchema creates tables and views for the configured database type.
func (s *Store) CreateSchema() error {
	return db.CreateSchema(s.db.DB, s.dbType)
}

// DB exposes the underlying connection.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const pokemonColumns = `unique_id, pokedex_number, name, base_name, form_type, type1, type2,
	total_stats, hp, attack, defense, sp_attack, sp_defense, speed,
	generation, legendary, is_alternate, origin_region`

// ReplaceDataset swaps the whole dataset in one transaction and bumps the
// dataset version. Saved teams reference pokemon ids, so they are cleared too.
func (s *Store) ReplaceDataset(ctx context.Context, pokemon []models.Pokemon, interactions []models.TypeInteraction, source string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"activity_log", "team_members", "teams", "pokemon", "type_effectiveness"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insertPokemon, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO pokemon (pokedex_number, name, base_name, form_type, type1, type2,
			total_stats, hp, attack, defense, sp_attack, sp_defense, speed,
			generation, legendary, is_alternate, origin_region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare pokemon insert: %w", err)
	}
	defer insertPokemon.Close()

	for _, p := range pokemon {
		_, err := insertPokemon.ExecContext(ctx,
			p.PokedexNumber, p.Name, p.BaseName, string(p.FormType), p.Type1, p.Type2,
			p.TotalStats, p.HP, p.Attack, p.Defense, p.SpAttack, p.SpDefense, p.Speed,
			p.Generation, p.Legendary, p.IsAlternate, p.OriginRegion,
		)
		if err != nil {
			return 0, fmt.Errorf("insert pokemon %q: %w", p.Name, err)
		}
	}

	insertInteraction, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO type_effectiveness (attacking_type, defending_type, effectiveness)
		VALUES (?, ?, ?)
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare interaction insert: %w", err)
	}
	defer insertInteraction.Close()

	for _, ti := range interactions {
		if _, err := insertInteraction.ExecContext(ctx, ti.AttackingType, ti.DefendingType, ti.Effectiveness); err != nil {
			return 0, fmt.Errorf("insert interaction %s->%s: %w", ti.AttackingType, ti.DefendingType, err)
		}
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO dataset_version (id, version, source, imported_at)
		VALUES (1, 1, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET version = dataset_version.version + 1,
		    source = excluded.source,
		    imported_at = excluded.imported_at
	`), source, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("bump dataset version: %w", err)
	}

	var version int64
	if err := tx.GetContext(ctx, &version, "SELECT version FROM dataset_version WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("read dataset version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return version, nil
}

// DatasetVersion returns the current dataset version, 0 before the first import.
func (s *Store) DatasetVersion(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.GetContext(ctx, &version, "SELECT version FROM dataset_version WHERE id = 1")
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query dataset version: %w", err)
	}
	return version, nil
}

// ListPokemon returns every row ordered by pokedex number, then insertion.
func (s *Store) ListPokemon(ctx context.Context) ([]models.Pokemon, error) {
	pokemon := []models.Pokemon{}
	err := s.db.SelectContext(ctx, &pokemon, `
		SELECT `+pokemonColumns+`
		FROM pokemon
		ORDER BY pokedex_number, unique_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list pokemon: %w", err)
	}
	return pokemon, nil
}

// GetPokemon returns a single row by unique id.
func (s *Store) GetPokemon(ctx context.Context, id int) (models.Pokemon, error) {
	var p models.Pokemon
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`
		SELECT `+pokemonColumns+`
		FROM pokemon
		WHERE unique_id = ?
	`), id)
	if err == sql.ErrNoRows {
		return models.Pokemon{}, fmt.Errorf("pokemon %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Pokemon{}, fmt.Errorf("get pokemon %d: %w", id, err)
	}
	return p, nil
}

// FindByType returns pokemon with the given type in either slot and at least
// minStats total stats, strongest first.
func (s *Store) FindByType(ctx context.Context, pokemonType string, minStats int) ([]models.Pokemon, error) {
	pokemon := []models.Pokemon{}
	err := s.db.SelectContext(ctx, &pokemon, s.db.Rebind(`
		SELECT `+pokemonColumns+`
		FROM pokemon
		WHERE (type1 = ? OR type2 = ?)
		  AND total_stats >= ?
		ORDER BY total_stats DESC, name
	`), pokemonType, pokemonType, minStats)
	if err != nil {
		return nil, fmt.Errorf("find pokemon by type: %w", err)
	}
	return pokemon, nil
}

// Interactions returns every stored type interaction.
func (s *Store) Interactions(ctx context.Context) ([]models.TypeInteraction, error) {
	rows := []models.TypeInteraction{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT attacking_type, defending_type, effectiveness
		FROM type_effectiveness
		ORDER BY attacking_type, defending_type
	`)
	if err != nil {
		return nil, fmt.Errorf("list type interactions: %w", err)
	}
	return rows, nil
}

// TeamVulnerability computes the vulnerability table in SQL. Every attacking
// type appears once; types with no matching team member score 0.
func (s *Store) TeamVulnerability(ctx context.Context, ids []int) ([]models.VulnerabilityScore, error) {
	memberFilter := "1 = 0"
	var args []interface{}
	if len(ids) > 0 {
		memberFilter = "p.unique_id IN (?)"
		args = append(args, ids)
	}

	query, args, err := sqlx.In(`
		SELECT
			a.attacking_type,
			COALESCE(SUM(
				CASE
					WHEN p.unique_id IS NULL THEN 0
					WHEN CAST(te.effectiveness AS REAL) = 2.0 THEN 1
					WHEN CAST(te.effectiveness AS REAL) = 0.5 THEN -1
					WHEN CAST(te.effectiveness AS REAL) = 0.0 THEN -2
					ELSE 0
				END
			), 0) AS team_score,
			COUNT(DISTINCT p.unique_id) AS pokemon_affected
		FROM (SELECT DISTINCT attacking_type FROM type_effectiveness) a
		JOIN type_effectiveness te ON te.attacking_type = a.attacking_type
		LEFT JOIN pokemon p
			ON `+memberFilter+`
			AND (p.type1 = te.defending_type OR p.type2 = te.defending_type)
		GROUP BY a.attacking_type
		ORDER BY team_score DESC, a.attacking_type
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("build vulnerability query: %w", err)
	}

	scores := []models.VulnerabilityScore{}
	if err := s.db.SelectContext(ctx, &scores, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query vulnerability: %w", err)
	}
	for i := range scores {
		scores[i].Verdict = models.VerdictFor(scores[i].TeamScore)
	}
	return scores, nil
}
