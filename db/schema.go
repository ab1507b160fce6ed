// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Supported database types
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// CreateSchema creates all tables and views needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS and recreates views.
func CreateSchema(db *sql.DB, dbType string) error {
	var tables string
	switch dbType {
	case Postgres:
		tables = postgresTables
	case SQLite:
		tables = sqliteTables
	default:
		return fmt.Errorf("failed to create schema: unsupported database type %q", dbType)
	}

	if _, err := db.Exec(tables); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := db.Exec(views); err != nil {
		return fmt.Errorf("failed to create views: %w", err)
	}

	return nil
}

const postgresTables = `
-- Pokemon (one row per form)
CREATE TABLE IF NOT EXISTS pokemon (
    unique_id SERIAL PRIMARY KEY,
    pokedex_number INTEGER NOT NULL,
    name TEXT NOT NULL,
    base_name TEXT NOT NULL,
    form_type TEXT NOT NULL DEFAULT 'base' CHECK (form_type IN ('base', 'mega', 'primal', 'regional', 'special')),
    type1 TEXT NOT NULL,
    type2 TEXT,
    total_stats INTEGER NOT NULL,
    hp INTEGER NOT NULL,
    attack INTEGER NOT NULL,
    defense INTEGER NOT NULL,
    sp_attack INTEGER NOT NULL,
    sp_defense INTEGER NOT NULL,
    speed INTEGER NOT NULL,
    generation INTEGER NOT NULL,
    legendary BOOLEAN NOT NULL DEFAULT FALSE,
    is_alternate BOOLEAN NOT NULL DEFAULT FALSE,
    origin_region TEXT NOT NULL DEFAULT 'Unknown'
);

CREATE INDEX IF NOT EXISTS idx_pokemon_pokedex ON pokemon(pokedex_number);
CREATE INDEX IF NOT EXISTS idx_pokemon_base_name ON pokemon(base_name);
CREATE INDEX IF NOT EXISTS idx_pokemon_form_type ON pokemon(form_type);
CREATE INDEX IF NOT EXISTS idx_pokemon_type1 ON pokemon(type1);
CREATE INDEX IF NOT EXISTS idx_pokemon_generation ON pokemon(generation);

-- Type effectiveness
CREATE TABLE IF NOT EXISTS type_effectiveness (
    attacking_type TEXT NOT NULL,
    defending_type TEXT NOT NULL,
    effectiveness NUMERIC(3,2) NOT NULL,
    PRIMARY KEY (attacking_type, defending_type)
);

CREATE INDEX IF NOT EXISTS idx_type_eff_defending ON type_effectiveness(defending_type);

-- Saved teams
CREATE TABLE IF NOT EXISTS teams (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL CHECK (CHAR_LENGTH(name) >= 3),
    description TEXT NOT NULL DEFAULT '',
    allow_megas BOOLEAN NOT NULL DEFAULT TRUE,
    allow_legendaries BOOLEAN NOT NULL DEFAULT TRUE,
    share_slug TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Team members
CREATE TABLE IF NOT EXISTS team_members (
    id TEXT PRIMARY KEY,
    team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
    pokemon_unique_id INTEGER NOT NULL REFERENCES pokemon(unique_id),
    position INTEGER NOT NULL CHECK (position BETWEEN 1 AND 6),
    nickname TEXT,
    added_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (team_id, position)
);

CREATE INDEX IF NOT EXISTS idx_team_members_team ON team_members(team_id);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    table_name TEXT NOT NULL,
    action_type TEXT NOT NULL CHECK (action_type IN ('INSERT', 'UPDATE', 'DELETE')),
    record_id TEXT NOT NULL,
    team_id TEXT,
    new_values TEXT,
    logged_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_activity_team ON activity_log(team_id);

-- Dataset version (single row)
CREATE TABLE IF NOT EXISTS dataset_version (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    version BIGINT NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    imported_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

const sqliteTables = `
-- Pokemon (one row per form)
CREATE TABLE IF NOT EXISTS pokemon (
    unique_id INTEGER PRIMARY KEY AUTOINCREMENT,
    pokedex_number INTEGER NOT NULL,
    name TEXT NOT NULL,
    base_name TEXT NOT NULL,
    form_type TEXT NOT NULL DEFAULT 'base' CHECK (form_type IN ('base', 'mega', 'primal', 'regional', 'special')),
    type1 TEXT NOT NULL,
    type2 TEXT,
    total_stats INTEGER NOT NULL,
    hp INTEGER NOT NULL,
    attack INTEGER NOT NULL,
    defense INTEGER NOT NULL,
    sp_attack INTEGER NOT NULL,
    sp_defense INTEGER NOT NULL,
    speed INTEGER NOT NULL,
    generation INTEGER NOT NULL,
    legendary BOOLEAN NOT NULL DEFAULT FALSE,
    is_alternate BOOLEAN NOT NULL DEFAULT FALSE,
    origin_region TEXT NOT NULL DEFAULT 'Unknown'
);

CREATE INDEX IF NOT EXISTS idx_pokemon_pokedex ON pokemon(pokedex_number);
CREATE INDEX IF NOT EXISTS idx_pokemon_base_name ON pokemon(base_name);
CREATE INDEX IF NOT EXISTS idx_pokemon_form_type ON pokemon(form_type);
CREATE INDEX IF NOT EXISTS idx_pokemon_type1 ON pokemon(type1);
CREATE INDEX IF NOT EXISTS idx_pokemon_generation ON pokemon(generation);

-- Type effectiveness
CREATE TABLE IF NOT EXISTS type_effectiveness (
    attacking_type TEXT NOT NULL,
    defending_type TEXT NOT NULL,
    effectiveness NUMERIC NOT NULL,
    PRIMARY KEY (attacking_type, defending_type)
);

CREATE INDEX IF NOT EXISTS idx_type_eff_defending ON type_effectiveness(defending_type);

-- Saved teams
CREATE TABLE IF NOT EXISTS teams (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL CHECK (LENGTH(name) >= 3),
    description TEXT NOT NULL DEFAULT '',
    allow_megas BOOLEAN NOT NULL DEFAULT TRUE,
    allow_legendaries BOOLEAN NOT NULL DEFAULT TRUE,
    share_slug TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Team members
CREATE TABLE IF NOT EXISTS team_members (
    id TEXT PRIMARY KEY,
    team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
    pokemon_unique_id INTEGER NOT NULL REFERENCES pokemon(unique_id),
    position INTEGER NOT NULL CHECK (position BETWEEN 1 AND 6),
    nickname TEXT,
    added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (team_id, position)
);

CREATE INDEX IF NOT EXISTS idx_team_members_team ON team_members(team_id);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    table_name TEXT NOT NULL,
    action_type TEXT NOT NULL CHECK (action_type IN ('INSERT', 'UPDATE', 'DELETE')),
    record_id TEXT NOT NULL,
    team_id TEXT,
    new_values TEXT,
    logged_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_team ON activity_log(team_id);

-- Dataset version (single row)
CREATE TABLE IF NOT EXISTS dataset_version (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    version INTEGER NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Views use only SQL that both dialects accept.
const views = `
DROP VIEW IF EXISTS vw_mega_evolutions;
CREATE VIEW vw_mega_evolutions AS
SELECT
    base.base_name AS base_name,
    base.name AS base_form,
    base.total_stats AS base_stats,
    mega.name AS mega_form,
    mega.total_stats AS mega_stats,
    (mega.total_stats - base.total_stats) AS power_increase
FROM pokemon base
JOIN pokemon mega ON base.pokedex_number = mega.pokedex_number
WHERE base.form_type = 'base' AND mega.form_type = 'mega';

`
