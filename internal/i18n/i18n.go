// Package i18n serves the flat key to string translation tables.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	Turkish = "tr"
	German  = "de"
)

// Catalog holds one table per language
type Catalog struct {
	tables   map[string]map[string]string
	fallback string
	codes    []string
	matcher  language.Matcher
}

// Load reads the embedded tables. fallback must be one of them.
func Load(fallback string) (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		code := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		raw, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", code, err)
		}
		table := make(map[string]string)
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", code, err)
		}
		tables[code] = table
	}

	return newCatalog(tables, fallback)
}

func newCatalog(tables map[string]map[string]string, fallback string) (*Catalog, error) {
	if _, ok := tables[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no table", fallback)
	}

	// fallback goes first so the matcher prefers it when nothing matches
	codes := []string{fallback}
	others := make([]string, 0, len(tables))
	for code := range tables {
		if code != fallback {
			others = append(others, code)
		}
	}
	sort.Strings(others)
	codes = append(codes, others...)

	tags := make([]language.Tag, len(codes))
	for i, code := range codes {
		tags[i] = language.Make(code)
	}

	return &Catalog{
		tables:   tables,
		fallback: fallback,
		codes:    codes,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// Default is the fallback language code
func (c *Catalog) Default() string {
	return c.fallback
}

// Languages lists available codes, default first
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Supports reports whether lang has a table
func (c *Catalog) Supports(lang string) bool {
	_, ok := c.tables[lang]
	return ok
}

// Translate returns the string for key in lang. Unknown languages use the
// fallback table; unknown keys return the key itself.
func (c *Catalog) Translate(lang, key string) string {
	table, ok := c.tables[lang]
	if !ok {
		table = c.tables[c.fallback]
	}
	if s, ok := table[key]; ok {
		return s
	}
	return key
}

// Table returns a copy of the table for lang, or false if unknown
func (c *Catalog) Table(lang string) (map[string]string, bool) {
	table, ok := c.tables[lang]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out, true
}

// Match picks the best supported language for an Accept-Language header
func (c *Catalog) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.codes[idx]
}

type contextKey struct{}

// WithLanguage stores the request language
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// LanguageFromContext returns the request language, or "" if unset
func LanguageFromContext(ctx context.Context) string {
	lang, _ := ctx.Value(contextKey{}).(string)
	return lang
}
