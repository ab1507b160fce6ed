// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Teamdex service.

Teamdex imports a creature stats CSV, classifies each row as a base species
or one of its forms, and scores teams of up to six against every attacking
type using a type interaction matrix.

# Commands

Import a dataset (replaces the previous one and any saved teams):

	teamdex import -csv Pokemon.csv [-types chart.csv] [-match longest|first]

Report pokedex numbers shared by several rows without touching a database:

	teamdex verify -csv Pokemon.csv

Start the API server (the default command):

	teamdex serve -p 3318

# Configuration

A .env file in the working directory is loaded first; variables already in
the environment win, and flags win over both.

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite file
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC (serve)
  - TEAM_SLUG_SALT (-slug-salt): Secret for share slug generation (serve)
  - POKEMON_CSV (-csv): Source CSV (import, verify)

Optional settings:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): Server port (default: 3318)
  - TYPE_CHART (-types): Type chart file; embedded chart when unset
  - MATCH_ORDER (-match): Base name tie-break, longest (default) or first
  - LOG_LEVEL: debug, info, warn or error

# Architecture

  - importer: CSV parsing, form classification, dataset replacement
  - classify: Base name and form type resolution
  - typechart: Type interaction matrix and its loaders
  - scoring: Vulnerability scoring and dashboard statistics
  - catalog: Versioned in-memory snapshot with memoized analyses
  - store: SQL access for PostgreSQL and SQLite
  - handlers, router, middleware: HTTP API
  - metrics: Prometheus collectors
  - auth: Team ids, admin keys and share slugs
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
