// Package locale holds the display string tables for the supported UI
// locales and the locale tags shared by the UI and the generated email.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Tag identifies one of the supported locales.
type Tag string

const (
	Korean  Tag = "ko"
	English Tag = "en"

	// Default is the primary locale for new sessions.
	Default = Korean
)

// Supported lists the locales in preference order.
var Supported = []Tag{Korean, English}

var ErrUnknownLocale = errors.New("unknown locale")

// Parse normalises s ("EN", "ko-KR") to a supported Tag.
func Parse(s string) (Tag, error) {
	base := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	for _, t := range Supported {
		if string(t) == base {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
}

// Language is the English name of the language, used when instructing the
// generator which language to write in.
func (t Tag) Language() string {
	switch t {
	case English:
		return "English"
	default:
		return "Korean"
	}
}

var matcher = language.NewMatcher([]language.Tag{language.Korean, language.English})

// Match picks the best supported locale for an Accept-Language header value,
// falling back to Default.
func Match(acceptLanguage string) Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

//go:embed locales/*.yaml
var tableFS embed.FS

// Store maps each locale to its nested string table. It is read-only after
// Load and safe for concurrent use.
type Store struct {
	tables map[Tag]map[string]any
}

// Load parses the embedded tables for every supported locale.
func Load() (*Store, error) {
	s := &Store{tables: make(map[Tag]map[string]any, len(Supported))}
	for _, t := range Supported {
		data, err := tableFS.ReadFile("locales/" + string(t) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s table: %w", t, err)
		}
		var table map[string]any
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse %s table: %w", t, err)
		}
		s.tables[t] = table
	}
	return s, nil
}

// MustLoad is Load for package initialisation and tests.
func MustLoad() *Store {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Table returns the whole table for t, or nil for an unknown tag.
func (s *Store) Table(t Tag) map[string]any {
	return s.tables[t]
}

// Lookup resolves a dotted key such as "roles.continue".
func (s *Store) Lookup(t Tag, key string) (string, bool) {
	v, ok := s.resolve(t, key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Text is Lookup that falls back to the key itself.
func (s *Store) Text(t Tag, key string) string {
	if v, ok := s.Lookup(t, key); ok {
		return v
	}
	return key
}

// List resolves a dotted key holding a list of strings, e.g.
// "roles.roleOptions.recipientRoles".
func (s *Store) List(t Tag, key string) []string {
	v, ok := s.resolve(t, key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func (s *Store) resolve(t Tag, key string) (any, bool) {
	var cur any = s.tables[t]
	if cur == nil {
		return nil, false
	}
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
