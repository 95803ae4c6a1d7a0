package mapview

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Path is a projected, drawable sequence of planar points.
type Path struct {
	Points orb.LineString // Planar coordinates
	Closed bool           // True for polygon rings
}

// Bound returns the planar bound of the path.
func (p Path) Bound() orb.Bound {
	return p.Points.Bound()
}

// Shape is one loaded record: a drawable path, the geographic ring or line it
// was projected from, and the attributes of the feature it came from.
type Shape struct {
	Path       Path
	Geometry   orb.Geometry // orb.Ring for polygon outlines, orb.LineString for lines
	Attributes Attributes
	Source     string // File or import the shape was loaded from
}

// Store is an append-only table of shapes with a spatial index over their
// projected bounds.
type Store struct {
	shapes []Shape
	rtree  *rtreego.Rtree
}

// storeEntry is the R-tree item for one shape.
type storeEntry struct {
	index int
	rect  rtreego.Rect
}

func (e storeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{rtree: newRtree()}
}

func newRtree() *rtreego.Rtree {
	// 2D, min=25 children, max=50 children
	return rtreego.NewTree(2, 25, 50)
}

// Len returns the number of shapes.
func (s *Store) Len() int {
	return len(s.shapes)
}

// Append adds shapes in order.
func (s *Store) Append(shapes ...Shape) {
	for _, sh := range shapes {
		s.shapes = append(s.shapes, sh)
		s.rtree.Insert(storeEntry{index: len(s.shapes) - 1, rect: boundToRect(sh.Path.Bound())})
	}
}

// Shapes returns a copy of the stored shapes.
func (s *Store) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Reset removes every shape.
func (s *Store) Reset() {
	s.shapes = nil
	s.rtree = newRtree()
}

// Filter returns the shapes for which pred returns true, in store order.
func (s *Store) Filter(pred Predicate) []Shape {
	var out []Shape
	for _, sh := range s.shapes {
		if pred(sh.Attributes) {
			out = append(out, sh)
		}
	}
	return out
}

// Intersecting returns the shapes whose planar bound intersects b, in store
// order.
func (s *Store) Intersecting(b orb.Bound) []Shape {
	hits := s.rtree.SearchIntersect(boundToRect(b))
	if len(hits) == 0 {
		return nil
	}

	// The tree returns hits in node order; restore load order.
	marks := make([]bool, len(s.shapes))
	for _, h := range hits {
		marks[h.(storeEntry).index] = true
	}

	out := make([]Shape, 0, len(hits))
	for i, sh := range s.shapes {
		if marks[i] {
			out = append(out, sh)
		}
	}
	return out
}

// GeoBound returns the union of the geographic bounds of all shapes.
func (s *Store) GeoBound() orb.Bound {
	if len(s.shapes) == 0 {
		return orb.Bound{}
	}

	b := s.shapes[0].Geometry.Bound()
	for _, sh := range s.shapes[1:] {
		b = b.Union(sh.Geometry.Bound())
	}
	return b
}

// Features returns the geographic geometry and attributes of every shape.
// Polygon outlines are returned as single-ring polygons.
func (s *Store) Features() []Feature {
	features := make([]Feature, 0, len(s.shapes))
	for _, sh := range s.shapes {
		g := sh.Geometry
		if r, ok := g.(orb.Ring); ok {
			g = orb.Polygon{r}
		}
		features = append(features, Feature{Geometry: g, Attributes: sh.Attributes.Clone()})
	}
	return features
}

func boundToRect(b orb.Bound) rtreego.Rect {
	rect, _ := rtreego.NewRectFromPoints(
		rtreego.Point{b.Min[0], b.Min[1]},
		rtreego.Point{b.Max[0], b.Max[1]},
	)
	return rect
}
