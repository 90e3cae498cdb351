// Package namelist provides the ordered file name list passed between the
// command line and the archive engine.
package namelist

import (
	"iter"
	"slices"
)

// List is an ordered collection of file names. Insertion order is preserved
// and duplicates are kept as given.
//
// The zero value is an empty list ready for use.
type List struct {
	names []string
}

// New returns a list holding names in order.
func New(names ...string) *List {
	return &List{names: slices.Clone(names)}
}

// Add appends name to the end of the list.
func (l *List) Add(name string) {
	l.names = append(l.names, name)
}

// Len returns the number of names, counting duplicates.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// Names returns a copy of the names in insertion order.
func (l *List) Names() []string {
	if l == nil {
		return nil
	}
	return slices.Clone(l.names)
}

// All iterates over the names in insertion order.
func (l *List) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if l == nil {
			return
		}
		for _, name := range l.names {
			if !yield(name) {
				return
			}
		}
	}
}

// Contains reports whether name is in the list.
func (l *List) Contains(name string) bool {
	if l == nil {
		return false
	}
	return slices.Contains(l.names, name)
}

// IsSubsetOf reports whether every name in l is also in other.
// An empty list is a subset of any list.
func (l *List) IsSubsetOf(other *List) bool {
	return len(l.Missing(other)) == 0
}

// Missing returns the names of l absent from other, in order and without
// repeats.
func (l *List) Missing(other *List) []string {
	if l == nil {
		return nil
	}
	present := make(map[string]struct{}, other.Len())
	for name := range other.All() {
		present[name] = struct{}{}
	}
	var missing []string
	for _, name := range l.names {
		if _, ok := present[name]; ok {
			continue
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	return missing
}
