// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package typechart

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_chart.yaml
var defaultChart []byte

// Default returns the built-in 18-type chart.
func Default() (*Chart, error) {
	return parseYAML(defaultChart)
}

// LoadFile reads a chart from disk. Files ending in .yaml or .yml are read
// as YAML, anything else as a type table CSV.
func LoadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open type chart: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return LoadCSV(f)
	}
}

type chartEntry struct {
	Weak    []string `yaml:"weak"`
	Resists []string `yaml:"resists"`
	Immune  []string `yaml:"immune"`
}

// LoadYAML reads a chart keyed by defending type.
func LoadYAML(r io.Reader) (*Chart, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read type chart: %w", err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*Chart, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse type chart: %w", err)
	}
	if len(doc.Content) == 0 {
		return New(), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("parse type chart: top level must be a mapping of defending types")
	}

	// Walk the mapping node directly so the file order is kept
	c := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		defending := strings.TrimSpace(root.Content[i].Value)

		var entry chartEntry
		if err := root.Content[i+1].Decode(&entry); err != nil {
			return nil, fmt.Errorf("parse type chart entry %q: %w", defending, err)
		}
		if err := c.addAll(entry.Weak, defending, SuperEffect); err != nil {
			return nil, err
		}
		if err := c.addAll(entry.Resists, defending, NotVery); err != nil {
			return nil, err
		}
		if err := c.addAll(entry.Immune, defending, Immune); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Type table CSV columns
const (
	colDefending = "Tipo"
	colWeak      = "Debil"
	colResists   = "Resistente"
	colImmune    = "Inmune"
)

// LoadCSV reads a type table with one row per defending type and
// comma-separated attacking types in the Debil, Resistente and Inmune columns.
func LoadCSV(r io.Reader) (*Chart, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read type table header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := cols[colDefending]; !ok {
		return nil, fmt.Errorf("type table missing %q column", colDefending)
	}

	c := New()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read type table: %w", err)
		}

		defending := strings.TrimSpace(field(record, cols, colDefending))
		if defending == "" {
			continue
		}
		if err := c.addAll(splitTypes(field(record, cols, colWeak)), defending, SuperEffect); err != nil {
			return nil, err
		}
		if err := c.addAll(splitTypes(field(record, cols, colResists)), defending, NotVery); err != nil {
			return nil, err
		}
		if err := c.addAll(splitTypes(field(record, cols, colImmune)), defending, Immune); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Chart) addAll(attackers []string, defending string, m decimal.Decimal) error {
	for _, attacking := range attackers {
		attacking = strings.TrimSpace(attacking)
		if attacking == "" {
			continue
		}
		if _, err := c.Add(attacking, defending, m); err != nil {
			return err
		}
	}
	return nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func splitTypes(s string) []string {
	return strings.Split(strings.ReplaceAll(s, " ", ""), ",")
}
