// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Subcommands

Each teamdex subcommand has its own parser returning a Config:

	cfg, err := cliparse.ParseFlags(args)        // serve
	cfg, err := cliparse.ParseImportFlags(args)  // import
	cfg, err := cliparse.ParseVerifyFlags(args)  // verify

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required for serve and import)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKeySalt: Secret for team admin key HMAC (serve)
  - TeamSlugSalt: Secret for share slug generation (serve)
  - CSVPath: Pokemon CSV (import, verify)
  - TypesPath: Type chart file; the embedded chart is used when empty
  - MatchOrder: Base name tie-break, longest (default) or first
  - LogLevel: debug, info, warn or error

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → -admin-salt
	TEAM_SLUG_SALT → -slug-salt
	POKEMON_CSV    → -csv
	TYPE_CHART     → -types
	MATCH_ORDER    → -match
	LOG_LEVEL

CLI flags take precedence over environment variables. LoadEnv reads a .env
file first; variables already present in the environment are not replaced.
*/
package cliparse
