// Package locale provides the UI string tables for each supported language.
package locale

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tOgg1/uplink/internal/models"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

type table struct {
	Language models.Language   `yaml:"language"`
	Name     string            `yaml:"name"`
	Strings  map[string]string `yaml:"strings"`
}

// Catalog holds the string tables for every embedded language.
type Catalog struct {
	tables   map[models.Language]table
	fallback models.Language
}

// Load parses the embedded catalogs. Lookups fall back to
// models.DefaultLanguage.
func Load() (*Catalog, error) {
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		return nil, fmt.Errorf("read catalogs: %w", err)
	}

	c := &Catalog{tables: make(map[models.Language]table, len(entries)), fallback: models.DefaultLanguage}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := catalogFS.ReadFile(path.Join("catalogs", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", entry.Name(), err)
		}
		var t table
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", entry.Name(), err)
		}
		if t.Language == "" {
			t.Language = models.Language(strings.TrimSuffix(entry.Name(), ".yaml"))
		}
		c.tables[t.Language] = t
	}

	if _, ok := c.tables[c.fallback]; !ok {
		return nil, fmt.Errorf("missing catalog for default language %s", c.fallback)
	}
	return c, nil
}

// MustLoad is Load for package initialisation; it panics on error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Languages returns the supported languages, sorted.
func (c *Catalog) Languages() []models.Language {
	out := make([]models.Language, 0, len(c.tables))
	for lang := range c.tables {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether lang has a catalog.
func (c *Catalog) Has(lang models.Language) bool {
	_, ok := c.tables[lang]
	return ok
}

// Name returns the display name of lang, or lang itself.
func (c *Catalog) Name(lang models.Language) string {
	if t, ok := c.tables[lang]; ok && t.Name != "" {
		return t.Name
	}
	return string(lang)
}

// Lookup returns the string for key in lang, falling back to the default
// language and finally to the key itself.
func (c *Catalog) Lookup(lang models.Language, key string) string {
	if s, ok := c.tables[lang].Strings[key]; ok {
		return s
	}
	if s, ok := c.tables[c.fallback].Strings[key]; ok {
		return s
	}
	return key
}

// Format looks up key and substitutes {name} placeholders from vars.
func (c *Catalog) Format(lang models.Language, key string, vars map[string]string) string {
	s := c.Lookup(lang, key)
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
