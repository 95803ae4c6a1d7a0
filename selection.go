package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Predicate decides whether a shape with the given attributes is selected.
type Predicate func(Attributes) bool

// Equals selects shapes whose key attribute equals value.
// A missing or null attribute never matches.
func Equals(key string, value Value) Predicate {
	return func(a Attributes) bool {
		got, ok := a[key]
		return ok && got.Equal(value)
	}
}

// In selects shapes whose key attribute equals any of values.
func In(key string, values ...Value) Predicate {
	return func(a Attributes) bool {
		got, ok := a[key]
		if !ok {
			return false
		}
		for _, v := range values {
			if got.Equal(v) {
				return true
			}
		}
		return false
	}
}

// Has selects shapes that carry the key attribute with a non-null value.
func Has(key string) Predicate {
	return func(a Attributes) bool {
		got, ok := a[key]
		return ok && !got.IsNull()
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(a Attributes) bool {
		for _, p := range preds {
			if !p(a) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(a Attributes) bool {
		for _, p := range preds {
			if p(a) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(a Attributes) bool {
		return !p(a)
	}
}

// Selection is a snapshot of selected paths and the style to draw them with.
// It does not follow later loads or clears of the shape store.
type Selection struct {
	Paths []Path
	Style Style
}

// Len returns the number of selected paths.
func (s Selection) Len() int {
	return len(s.Paths)
}

// Selector describes one step of a batch selection. Where takes precedence;
// otherwise Key and Value form an equality selection.
type Selector struct {
	Key   string
	Value Value
	Where Predicate
	Style Style
}

func (s Selector) predicate() Predicate {
	if s.Where != nil {
		return s.Where
	}
	return Equals(s.Key, s.Value)
}

// Select appends a selection of every shape whose key attribute equals value
// and returns the number of shapes selected.
func (v *MapView) Select(key string, value Value, style Style) int {
	return v.SelectWhere(Equals(key, value), style)
}

// SelectWhere appends a selection of every shape matching pred and returns
// the number of shapes selected. A nil pred selects every shape.
func (v *MapView) SelectWhere(pred Predicate, style Style) int {
	if pred == nil {
		pred = func(Attributes) bool { return true }
	}
	return v.appendSelection(v.store.Filter(pred), style)
}

// SelectAll applies selectors in order, appending one selection each, and
// returns the size of each selection.
func (v *MapView) SelectAll(selectors []Selector) []int {
	counts := make([]int, 0, len(selectors))
	for _, s := range selectors {
		counts = append(counts, v.SelectWhere(s.predicate(), s.Style))
	}
	return counts
}

// SelectWithin appends a selection of every shape whose projected bound
// intersects the geographic bound b.
func (v *MapView) SelectWithin(b orb.Bound, style Style) int {
	return v.appendSelection(v.store.Intersecting(project.Bound(b, v.proj.Forward)), style)
}

func (v *MapView) appendSelection(shapes []Shape, style Style) int {
	paths := make([]Path, len(shapes))
	for i, sh := range shapes {
		paths[i] = sh.Path
	}

	v.selections = append(v.selections, Selection{Paths: paths, Style: style.Clone()})
	return len(paths)
}
