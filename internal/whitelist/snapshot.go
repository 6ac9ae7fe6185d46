package whitelist

import (
	"sort"
	"time"
)

// Snapshot is an immutable view of both whitelist sets. A new Snapshot is
// created for every change, so holders can read it without locking.
type Snapshot struct {
	languages          map[string]struct{}
	domains            map[string]struct{}
	languagesUpdatedAt time.Time
	domainsUpdatedAt   time.Time
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		languages: map[string]struct{}{},
		domains:   map[string]struct{}{},
	}
}

func newSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func (s *Snapshot) HasLanguage(code string) bool {
	if s == nil {
		return false
	}
	_, ok := s.languages[code]
	return ok
}

func (s *Snapshot) HasDomain(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.domains[name]
	return ok
}

func (s *Snapshot) LanguageCount() int {
	if s == nil {
		return 0
	}
	return len(s.languages)
}

func (s *Snapshot) DomainCount() int {
	if s == nil {
		return 0
	}
	return len(s.domains)
}

// Languages returns the supported language codes, sorted.
func (s *Snapshot) Languages() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.languages)
}

// Domains returns the supported domain names, sorted.
func (s *Snapshot) Domains() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.domains)
}

// LanguagesUpdatedAt is zero until the first successful languages fetch.
func (s *Snapshot) LanguagesUpdatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.languagesUpdatedAt
}

func (s *Snapshot) DomainsUpdatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.domainsUpdatedAt
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// NewSnapshot builds a snapshot from explicit lists. Duplicates collapse.
func NewSnapshot(languages, domains []string) *Snapshot {
	return &Snapshot{
		languages: newSet(languages),
		domains:   newSet(domains),
	}
}
