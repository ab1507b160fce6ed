// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for PostgreSQL and SQLite.

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes
and recreates views.

# Tables

  - pokemon: One row per form, with classification columns
  - type_effectiveness: Attacking x defending multipliers
  - teams: Saved teams and their rules
  - team_members: Up to six members per team, one per position
  - activity_log: Audit trail of member inserts
  - dataset_version: Single row bumped on every import

# Relationships

	teams 1──* team_members *──1 pokemon
	teams 1──* activity_log

# Views

vw_mega_evolutions pairs each base form with its mega forms by pokedex
number and reports the stat increase.
*/
package db
