package registry

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Query selects registered modules for discovery. All set fields must
// match; zero-valued fields match everything. RequiredTags is a superset
// filter: a record matches only if it declares every required tag.
// OptionalTags never exclude a candidate; they only rank results, with
// more optional matches sorting first and ties broken lexically by name.
type Query struct {
	NameContains string
	NamePattern  string // path.Match syntax
	ModuleType   string
	RequiredTags []string
	OptionalTags []string
}

// Find returns the names of all modules matching the query, ordered by
// descending optional-tag match count and then lexically, so results are
// deterministic for a given store.
func (r *Registry) Find(q Query) ([]string, error) {
	if q.NamePattern != "" {
		if _, err := path.Match(q.NamePattern, ""); err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", q.NamePattern, err)
		}
	}

	type ranked struct {
		name     string
		optional int
	}

	r.mu.RLock()
	var matches []ranked
	for name, rec := range r.records {
		if q.NameContains != "" && !strings.Contains(name, q.NameContains) {
			continue
		}
		if q.NamePattern != "" {
			if ok, _ := path.Match(q.NamePattern, name); !ok {
				continue
			}
		}
		if q.ModuleType != "" && rec.ModuleType != q.ModuleType {
			continue
		}
		if !hasAllTags(rec.Metadata, q.RequiredTags) {
			continue
		}
		matches = append(matches, ranked{
			name:     name,
			optional: countTags(rec.Metadata, q.OptionalTags),
		})
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].optional != matches[j].optional {
			return matches[i].optional > matches[j].optional
		}
		return matches[i].name < matches[j].name
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names, nil
}

// FindByType returns the names of all modules registered under moduleType.
func (r *Registry) FindByType(moduleType string) []string {
	names, _ := r.Find(Query{ModuleType: moduleType})
	return names
}

// FindByTags returns the names of all modules declaring every given tag.
func (r *Registry) FindByTags(tags ...string) []string {
	names, _ := r.Find(Query{RequiredTags: tags})
	return names
}

func hasAllTags(meta Metadata, tags []string) bool {
	for _, tag := range tags {
		if !meta.HasTag(tag) {
			return false
		}
	}
	return true
}

func countTags(meta Metadata, tags []string) int {
	n := 0
	for _, tag := range tags {
		if meta.HasTag(tag) {
			n++
		}
	}
	return n
}
