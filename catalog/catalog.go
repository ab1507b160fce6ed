// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/scoring"
	"github.com/danielhkuo/teamdex/typechart"
)

// ErrUnknownPokemon is returned when a requested id or name is not in the
// current dataset.
var ErrUnknownPokemon = errors.New("unknown pokemon")

// memoLimit bounds the memo; it is cleared when full.
const memoLimit = 4096

// Source is the read side of the store that the catalog loads from.
type Source interface {
	DatasetVersion(ctx context.Context) (int64, error)
	ListPokemon(ctx context.Context) ([]models.Pokemon, error)
	Interactions(ctx context.Context) ([]models.TypeInteraction, error)
}

// Recorder receives memo and reload events, typically metrics.
type Recorder interface {
	MemoHit()
	MemoMiss()
	Reloaded()
}

type nopRecorder struct{}

func (nopRecorder) MemoHit()  {}
func (nopRecorder) MemoMiss() {}
func (nopRecorder) Reloaded() {}

type memoKey struct {
	version int64
	team    string
}

// Catalog is an in-memory snapshot of one dataset version plus a memo of
// vulnerability tables keyed on (dataset version, ordered team ids).
type Catalog struct {
	src Source
	rec Recorder

	mu      sync.RWMutex
	loaded  bool
	version int64
	pokemon []models.Pokemon
	byID    map[int]models.Pokemon
	byName  map[string]models.Pokemon
	chart   *typechart.Chart
	memo    map[memoKey][]models.VulnerabilityScore
}

// New creates a catalog. rec may be nil.
func New(src Source, rec Recorder) *Catalog {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Catalog{src: src, rec: rec}
}

// Refresh reloads the snapshot when the stored dataset version differs from
// the loaded one and returns the current version.
func (c *Catalog) Refresh(ctx context.Context) (int64, error) {
	version, err := c.src.DatasetVersion(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.RLock()
	current := c.loaded && c.version == version
	c.mu.RUnlock()
	if current {
		return version, nil
	}

	pokemon, err := c.src.ListPokemon(ctx)
	if err != nil {
		return 0, err
	}
	interactions, err := c.src.Interactions(ctx)
	if err != nil {
		return 0, err
	}
	chart, err := typechart.FromInteractions(interactions)
	if err != nil {
		return 0, fmt.Errorf("build type chart: %w", err)
	}

	byID := make(map[int]models.Pokemon, len(pokemon))
	byName := make(map[string]models.Pokemon, len(pokemon))
	for _, p := range pokemon {
		byID[p.UniqueID] = p
		if existing, ok := byName[p.Name]; !ok || p.UniqueID < existing.UniqueID {
			byName[p.Name] = p
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded && version <= c.version {
		// another request installed this or a newer version first
		return c.version, nil
	}
	c.loaded = true
	c.version = version
	c.pokemon = pokemon
	c.byID = byID
	c.byName = byName
	c.chart = chart
	c.memo = make(map[memoKey][]models.VulnerabilityScore)
	c.rec.Reloaded()

	slog.Info("catalog loaded", "version", version, "pokemon", len(pokemon), "interactions", chart.Len())
	return version, nil
}

// Pokemon returns the current snapshot. Callers must not modify it.
func (c *Catalog) Pokemon(ctx context.Context) ([]models.Pokemon, error) {
	if _, err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pokemon, nil
}

// TeamByIDs resolves unique ids into a validated team in the given order.
func (c *Catalog) TeamByIDs(ctx context.Context, ids []int) (models.Team, error) {
	if _, err := c.Refresh(ctx); err != nil {
		return models.Team{}, err
	}

	c.mu.RLock()
	members := make([]models.Pokemon, 0, len(ids))
	for _, id := range ids {
		p, ok := c.byID[id]
		if !ok {
			c.mu.RUnlock()
			return models.Team{}, fmt.Errorf("id %d: %w", id, ErrUnknownPokemon)
		}
		members = append(members, p)
	}
	c.mu.RUnlock()

	return models.NewTeam(members)
}

// TeamByNames resolves exact display names into a validated team.
func (c *Catalog) TeamByNames(ctx context.Context, names []string) (models.Team, error) {
	if _, err := c.Refresh(ctx); err != nil {
		return models.Team{}, err
	}

	c.mu.RLock()
	members := make([]models.Pokemon, 0, len(names))
	for _, name := range names {
		p, ok := c.byName[name]
		if !ok {
			c.mu.RUnlock()
			return models.Team{}, fmt.Errorf("%q: %w", name, ErrUnknownPokemon)
		}
		members = append(members, p)
	}
	c.mu.RUnlock()

	return models.NewTeam(members)
}

// Analyze returns the vulnerability table for the team and the dataset
// version it was computed against. Results are memoized per version.
func (c *Catalog) Analyze(ctx context.Context, team models.Team) ([]models.VulnerabilityScore, int64, error) {
	if _, err := c.Refresh(ctx); err != nil {
		return nil, 0, err
	}
	tk := teamKey(team)

	c.mu.RLock()
	version := c.version
	chart := c.chart
	cached, hit := c.memo[memoKey{version: version, team: tk}]
	c.mu.RUnlock()

	if hit {
		c.rec.MemoHit()
		return copyScores(cached), version, nil
	}
	c.rec.MemoMiss()

	scores := scoring.Vulnerability(team, chart)

	c.mu.Lock()
	if c.version == version {
		if len(c.memo) >= memoLimit {
			c.memo = make(map[memoKey][]models.VulnerabilityScore)
		}
		c.memo[memoKey{version: version, team: tk}] = scores
	}
	c.mu.Unlock()

	return copyScores(scores), version, nil
}

// teamKey encodes the ordered member ids.
func teamKey(team models.Team) string {
	ids := team.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func copyScores(scores []models.VulnerabilityScore) []models.VulnerabilityScore {
	out := make([]models.VulnerabilityScore, len(scores))
	copy(out, scores)
	return out
}
