package recommend

import (
	"sort"
	"strings"

	"gourmet/internal/models"
)

// Preferences is a set of dietary or tag strings the customer cares about
type Preferences map[string]struct{}

// NewPreferences builds a preference set. Blank entries are dropped and
// surrounding whitespace is trimmed.
func NewPreferences(tags ...string) Preferences {
	p := make(Preferences, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			p[tag] = struct{}{}
		}
	}
	return p
}

// Has reports whether tag is in the set
func (p Preferences) Has(tag string) bool {
	_, ok := p[tag]
	return ok
}

// Matches reports whether item satisfies the preferences: an empty set
// matches everything, otherwise the item needs at least one preferred tag.
func (p Preferences) Matches(item models.MenuItem) bool {
	if len(p) == 0 {
		return true
	}
	for _, tag := range item.Tags {
		if p.Has(tag) {
			return true
		}
	}
	return false
}

// List returns the preferences sorted, for stable output
func (p Preferences) List() []string {
	out := make([]string, 0, len(p))
	for tag := range p {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
