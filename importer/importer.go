// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/teamdex/classify"
	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/typechart"
)

// Source CSV columns
const (
	colNumber     = "#"
	colName       = "Name"
	colType1      = "Type 1"
	colType2      = "Type 2"
	colTotal      = "Total"
	colHP         = "HP"
	colAttack     = "Attack"
	colDefense    = "Defense"
	colSpAttack   = "Sp. Atk"
	colSpDefense  = "Sp. Def"
	colSpeed      = "Speed"
	colGeneration = "Generation"
	colLegendary  = "Legendary"
)

var requiredColumns = []string{
	colNumber, colName, colType1, colType2, colTotal, colHP, colAttack,
	colDefense, colSpAttack, colSpDefense, colSpeed, colGeneration, colLegendary,
}

var regions = map[int]string{
	1: "Kanto", 2: "Johto", 3: "Hoenn", 4: "Sinnoh",
	5: "Unova", 6: "Kalos", 7: "Alola", 8: "Galar",
}

// Region maps a generation to its origin region.
func Region(generation int) string {
	if r, ok := regions[generation]; ok {
		return r
	}
	return "Unknown"
}

// Dataset persists an imported dataset and returns the new version.
type Dataset interface {
	ReplaceDataset(ctx context.Context, pokemon []models.Pokemon, interactions []models.TypeInteraction, source string) (int64, error)
}

// Options configure an Importer.
type Options struct {
	MatchOrder classify.MatchOrder
	// Source is recorded alongside the dataset version.
	Source string
}

// Report summarizes one import run.
type Report struct {
	Imported     int
	Skipped      int
	ByForm       map[models.FormType]int
	Interactions int
	Version      int64
}

// Summary renders the report for the terminal.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "imported %s pokemon, skipped %s, %s type interactions (dataset version %d)\n",
		humanize.Comma(int64(r.Imported)), humanize.Comma(int64(r.Skipped)),
		humanize.Comma(int64(r.Interactions)), r.Version)
	for _, ft := range models.FormTypes {
		if n := r.ByForm[ft]; n > 0 {
			fmt.Fprintf(&b, "  %-9s %s\n", ft, humanize.Comma(int64(n)))
		}
	}
	return b.String()
}

type Importer struct {
	dataset Dataset
	opts    Options
}

func New(dataset Dataset, opts Options) *Importer {
	if opts.MatchOrder == "" {
		opts.MatchOrder = classify.MatchLongest
	}
	return &Importer{dataset: dataset, opts: opts}
}

// Import parses and classifies the CSV, then replaces the stored dataset
// with the result and the given type chart.
func (im *Importer) Import(ctx context.Context, r io.Reader, chart *typechart.Chart) (Report, error) {
	pokemon, skipped, err := ReadRecords(r)
	if err != nil {
		return Report{}, err
	}
	if len(pokemon) == 0 {
		return Report{}, errors.New("no valid records in source")
	}

	pokemon = Classify(pokemon, im.opts.MatchOrder)
	interactions := chart.Interactions()

	version, err := im.dataset.ReplaceDataset(ctx, pokemon, interactions, im.opts.Source)
	if err != nil {
		return Report{}, fmt.Errorf("store dataset: %w", err)
	}

	report := Report{
		Imported:     len(pokemon),
		Skipped:      skipped,
		ByForm:       CountForms(pokemon),
		Interactions: len(interactions),
		Version:      version,
	}
	slog.Info("dataset imported",
		"imported", report.Imported,
		"skipped", report.Skipped,
		"interactions", report.Interactions,
		"version", version,
	)
	return report, nil
}

// ReadRecords parses the source CSV. Malformed rows are skipped, logged and
// counted; only a missing or unreadable header is an error. Each line is
// parsed on its own, so a stray quote cannot swallow the rows after it.
func ReadRecords(r io.Reader) ([]models.Pokemon, int, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	var header []string
	for header == nil && scanner.Scan() {
		lineNo++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		record, err := parseLine(scanner.Text())
		if err != nil {
			return nil, 0, fmt.Errorf("read header: %w", err)
		}
		header = record
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	if header == nil {
		return nil, 0, fmt.Errorf("read header: %w", io.EOF)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("header missing %q column", name)
		}
	}

	var pokemon []models.Pokemon
	skipped := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := parseLine(line)
		if err != nil {
			slog.Warn("skipping record", "line", lineNo, "reason", err)
			skipped++
			continue
		}

		p, err := parseRecord(record, len(header), cols)
		if err != nil {
			slog.Warn("skipping record", "line", lineNo, "reason", err)
			skipped++
			continue
		}
		pokemon = append(pokemon, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read records: %w", err)
	}

	return pokemon, skipped, nil
}

// parseLine splits one physical line. The source format has no multi-line
// fields, so an unterminated quote is a malformed line.
func parseLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSuffix(line, "\r")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	record, err := reader.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, parseErr.Err
		}
		return nil, err
	}
	return record, nil
}

func parseRecord(record []string, width int, cols map[string]int) (models.Pokemon, error) {
	if len(record) != width {
		return models.Pokemon{}, fmt.Errorf("expected %d fields, got %d", width, len(record))
	}

	get := func(col string) string { return strings.TrimSpace(record[cols[col]]) }

	p := models.Pokemon{
		Name:  get(colName),
		Type1: get(colType1),
	}
	if p.Name == "" {
		return models.Pokemon{}, errors.New("missing name")
	}
	if p.Type1 == "" {
		return models.Pokemon{}, fmt.Errorf("%s: missing type 1", p.Name)
	}
	if t2 := get(colType2); t2 != "" {
		p.Type2 = &t2
	}

	ints := []struct {
		col string
		dst *int
	}{
		{colNumber, &p.PokedexNumber},
		{colTotal, &p.TotalStats},
		{colHP, &p.HP},
		{colAttack, &p.Attack},
		{colDefense, &p.Defense},
		{colSpAttack, &p.SpAttack},
		{colSpDefense, &p.SpDefense},
		{colSpeed, &p.Speed},
		{colGeneration, &p.Generation},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(get(f.col))
		if err != nil {
			return models.Pokemon{}, fmt.Errorf("%s: invalid %s %q", p.Name, f.col, get(f.col))
		}
		*f.dst = v
	}

	legendary, err := strconv.ParseBool(get(colLegendary))
	if err != nil {
		return models.Pokemon{}, fmt.Errorf("%s: invalid %s %q", p.Name, colLegendary, get(colLegendary))
	}
	p.Legendary = legendary

	return p, nil
}

// Classify derives base name, form type, alternate flag and region for each
// record. The input slice is not modified.
func Classify(pokemon []models.Pokemon, order classify.MatchOrder) []models.Pokemon {
	names := make([]string, len(pokemon))
	for i, p := range pokemon {
		names[i] = p.Name
	}
	c := classify.New(classify.BaseNames(names), order)

	out := make([]models.Pokemon, len(pokemon))
	for i, p := range pokemon {
		p.BaseName, p.FormType = c.Classify(p.Name)
		p.IsAlternate = p.FormType != models.FormBase
		p.OriginRegion = Region(p.Generation)
		out[i] = p
	}
	return out
}

// CountForms tallies records per form type.
func CountForms(pokemon []models.Pokemon) map[models.FormType]int {
	counts := make(map[models.FormType]int, len(models.FormTypes))
	for _, p := range pokemon {
		counts[p.FormType]++
	}
	return counts
}

// Duplicate is a pokedex number shared by several rows.
type Duplicate struct {
	PokedexNumber int
	Names         []string
}

// FindDuplicates lists pokedex numbers that appear on more than one row,
// in ascending number order. Variant families share a number, so this is a
// report rather than a validation failure.
func FindDuplicates(pokemon []models.Pokemon) []Duplicate {
	byNumber := make(map[int][]string)
	for _, p := range pokemon {
		byNumber[p.PokedexNumber] = append(byNumber[p.PokedexNumber], p.Name)
	}

	var dups []Duplicate
	for n, names := range byNumber {
		if len(names) > 1 {
			dups = append(dups, Duplicate{PokedexNumber: n, Names: names})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].PokedexNumber < dups[j].PokedexNumber })
	return dups
}
