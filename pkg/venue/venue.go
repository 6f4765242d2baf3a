// Package venue canonicalizes venue identifiers. Every comparison between
// venues goes through ID.Key, which is computed once at construction.
package venue

import (
	"errors"
	"sort"
	"strings"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/sanitizer"
)

var ErrEmptyVenue = errors.New("venue identifier cannot be empty")

// Identifiers for off-site or non-physical bookings. They never take part in
// conflict checking.
var bypassKeys = map[string]struct{}{
	"na":     {},
	"others": {},
	"house":  {},
	"self":   {},
}

type ID struct {
	name string
	key  string
}

// New trims and collapses whitespace for display and derives the lower-cased
// comparison key.
func New(raw string) (ID, error) {
	name := sanitizer.CollapseSpace(raw)
	if name == "" {
		return ID{}, ErrEmptyVenue
	}
	return ID{name: name, key: strings.ToLower(name)}, nil
}

func (id ID) Name() string { return id.name }

func (id ID) Key() string { return id.key }

func (id ID) IsZero() bool { return id.key == "" }

func (id ID) IsBypass() bool {
	_, ok := bypassKeys[id.key]
	return ok
}

func (id ID) String() string { return id.name }

// IsBypass reports whether raw names a bypass venue.
func IsBypass(raw string) bool {
	id, err := New(raw)
	if err != nil {
		return false
	}
	return id.IsBypass()
}

// Key returns the canonical key of raw, or "" when raw is blank.
func Key(raw string) string {
	id, err := New(raw)
	if err != nil {
		return ""
	}
	return id.key
}

// Set is an insertion-ordered set of venues keyed by canonical key. The first
// spelling added for a key is the one kept for display.
type Set struct {
	order []ID
	index map[string]int
}

func NewSet(ids ...ID) *Set {
	s := &Set{index: make(map[string]int, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// ParseSet builds a set from raw names. Blank entries are an error; duplicates
// collapse.
func ParseSet(raw []string) (*Set, error) {
	s := NewSet()
	for _, r := range raw {
		id, err := New(r)
		if err != nil {
			return nil, err
		}
		s.Add(id)
	}
	return s, nil
}

func (s *Set) Add(id ID) {
	if id.IsZero() {
		return
	}
	if _, ok := s.index[id.key]; ok {
		return
	}
	s.index[id.key] = len(s.order)
	s.order = append(s.order, id)
}

func (s *Set) Contains(id ID) bool {
	_, ok := s.index[id.key]
	return ok
}

func (s *Set) Len() int { return len(s.order) }

func (s *Set) IDs() []ID {
	out := make([]ID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	for i, id := range s.order {
		out[i] = id.name
	}
	return out
}

func (s *Set) Keys() []string {
	out := make([]string, len(s.order))
	for i, id := range s.order {
		out[i] = id.key
	}
	return out
}

// AnyBypass reports whether at least one member is a bypass venue.
func (s *Set) AnyBypass() bool {
	for _, id := range s.order {
		if id.IsBypass() {
			return true
		}
	}
	return false
}

// Intersect returns the members of s that also belong to other, in s's order.
func (s *Set) Intersect(other *Set) *Set {
	out := NewSet()
	for _, id := range s.order {
		if other.Contains(id) {
			out.Add(id)
		}
	}
	return out
}

// Union adds every member of other to s.
func (s *Set) Union(other *Set) {
	for _, id := range other.order {
		s.Add(id)
	}
}

// SortedNames returns display names ordered by canonical key.
func (s *Set) SortedNames() []string {
	ids := s.IDs()
	sort.SliceStable(ids, func(i, j int) bool { return ids[i].key < ids[j].key })
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.name
	}
	return out
}
