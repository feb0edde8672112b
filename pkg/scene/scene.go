// Package scene owns the packing state: the spheres that have been placed
// and the links locked in between them. It is plain data with no knowledge
// of rendering; the frontend view is a derived projection rebuilt from this
// store on every change.
package scene

import (
	"math/rand"

	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/sizes"
)

// SetClearance is the surface gap left between consecutive spheres when a
// full size set is laid out, so that no pair starts out touching.
const SetClearance = 0.25

// dropSpread is the horizontal extent of randomized sphere placement.
const dropSpread = 12.0

// NodeID identifies a sphere. IDs are assigned monotonically per store and
// never reused; Clear resets the counter only because it empties everything.
type NodeID int

// Node is one placed sphere. Exponent, radius and color are fixed at
// creation; only Position mutates.
type Node struct {
	ID       NodeID  `json:"id"`
	Exponent int     `json:"exponent"`
	Radius   float64 `json:"radius"`
	Color    string  `json:"color"`
	Position Vec3    `json:"position"`
}

// Link is an unordered locked contact between two spheres, stored with
// A < B so a pair exists in exactly one form.
type Link struct {
	A NodeID `json:"a"`
	B NodeID `json:"b"`
}

// normalizeLink orders a pair so that A < B.
func normalizeLink(a, b NodeID) Link {
	if b < a {
		a, b = b, a
	}
	return Link{A: a, B: b}
}

// Store holds all placed spheres and their links. It is not safe for
// concurrent use; the app drives it from a single event loop.
type Store struct {
	nodes  []*Node
	byID   map[NodeID]*Node
	links  []Link
	nextID NodeID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[NodeID]*Node)}
}

// AddNode places one sphere of the given ladder exponent. With a nil
// position the sphere drops at a random spot resting on the ground plane
// (y equals its own radius).
func (s *Store) AddNode(exp int, at *Vec3) *Node {
	r := sizes.RadiusOf(exp)
	var pos Vec3
	if at != nil {
		pos = *at
	} else {
		pos = Vec3{
			X: (rand.Float64() - 0.5) * dropSpread,
			Y: r,
			Z: (rand.Float64() - 0.5) * dropSpread,
		}
	}
	n := &Node{
		ID:       s.nextID,
		Exponent: exp,
		Radius:   r,
		Color:    sizes.ColorOf(exp),
		Position: pos,
	}
	s.nextID++
	s.nodes = append(s.nodes, n)
	s.byID[n.ID] = n
	return n
}

// AddSizeSet places one sphere per ladder exponent in ladder order along
// the X axis, each resting on the ground, with SetClearance between
// consecutive surfaces. Layout is deterministic given the ladder.
func (s *Store) AddSizeSet() []*Node {
	exps := sizes.Exponents()
	out := make([]*Node, 0, len(exps))
	x := 0.0
	var prevRadius float64
	for i, exp := range exps {
		r := sizes.RadiusOf(exp)
		if i > 0 {
			x += prevRadius + SetClearance + r
		}
		n := s.AddNode(exp, &Vec3{X: x, Y: r, Z: 0})
		out = append(out, n)
		prevRadius = r
	}
	return out
}

// Clear removes every sphere and link.
func (s *Store) Clear() {
	s.nodes = nil
	s.byID = make(map[NodeID]*Node)
	s.links = nil
	s.nextID = 0
}

// Get returns the sphere with the given id, or nil.
func (s *Store) Get(id NodeID) *Node {
	return s.byID[id]
}

// Nodes returns the spheres in creation order. The slice is a copy; the
// pointed-to nodes are live.
func (s *Store) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// NodeCount returns the number of placed spheres.
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// Links returns a copy of the link set.
func (s *Store) Links() []Link {
	out := make([]Link, len(s.links))
	copy(out, s.links)
	return out
}

// LinkCount returns the number of locked contacts.
func (s *Store) LinkCount() int {
	return len(s.links)
}

// Linked reports whether an unordered link between a and b exists.
func (s *Store) Linked(a, b NodeID) bool {
	l := normalizeLink(a, b)
	for _, have := range s.links {
		if have == l {
			return true
		}
	}
	return false
}

// AddLink records a locked contact between a and b. Self-links and
// duplicate pairs (in either order) are ignored.
func (s *Store) AddLink(a, b NodeID) {
	if a == b || s.Linked(a, b) {
		return
	}
	s.links = append(s.links, normalizeLink(a, b))
}

// Neighbors returns every sphere linked to id. Order follows link
// insertion; callers must treat the result as a set.
func (s *Store) Neighbors(id NodeID) []*Node {
	var out []*Node
	for _, l := range s.links {
		var other NodeID
		switch id {
		case l.A:
			other = l.B
		case l.B:
			other = l.A
		default:
			continue
		}
		if n := s.byID[other]; n != nil {
			out = append(out, n)
		}
	}
	return out
}
