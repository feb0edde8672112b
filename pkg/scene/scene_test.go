package scene

import (
	"math"
	"testing"

	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/sizes"
)

func TestAddNodeAtPosition(t *testing.T) {
	s := NewStore()
	pos := Vec3{X: 1, Y: 2, Z: 3}
	n := s.AddNode(3, &pos)

	if n.ID != 0 {
		t.Errorf("first node id = %d, want 0", n.ID)
	}
	if n.Exponent != 3 {
		t.Errorf("exponent = %d, want 3", n.Exponent)
	}
	if want := sizes.RadiusOf(3); n.Radius != want {
		t.Errorf("radius = %f, want %f", n.Radius, want)
	}
	if n.Color != sizes.ColorOf(3) {
		t.Errorf("color = %q, want %q", n.Color, sizes.ColorOf(3))
	}
	if n.Position != pos {
		t.Errorf("position = %+v, want %+v", n.Position, pos)
	}
	if s.Get(n.ID) != n {
		t.Error("Get did not return the added node")
	}
}

func TestAddNodeRandomDropRestsOnGround(t *testing.T) {
	s := NewStore()
	n := s.AddNode(2, nil)
	if n.Position.Y != n.Radius {
		t.Errorf("dropped node y = %f, want its radius %f", n.Position.Y, n.Radius)
	}
}

func TestIDsMonotonic(t *testing.T) {
	s := NewStore()
	a := s.AddNode(0, nil)
	b := s.AddNode(1, nil)
	c := s.AddNode(2, nil)
	if a.ID != 0 || b.ID != 1 || c.ID != 2 {
		t.Errorf("ids = %d,%d,%d, want 0,1,2", a.ID, b.ID, c.ID)
	}
}

func TestAddSizeSetLayout(t *testing.T) {
	s := NewStore()
	set := s.AddSizeSet()

	exps := sizes.Exponents()
	if len(set) != len(exps) {
		t.Fatalf("size set has %d nodes, want %d", len(set), len(exps))
	}
	if s.LinkCount() != 0 {
		t.Errorf("size set created %d links, want 0", s.LinkCount())
	}
	for i, n := range set {
		if n.Exponent != exps[i] {
			t.Errorf("node %d exponent = %d, want %d", i, n.Exponent, exps[i])
		}
		if n.Position.Y != n.Radius {
			t.Errorf("node %d y = %f, want its radius %f", i, n.Position.Y, n.Radius)
		}
	}
	// Consecutive surfaces sit exactly SetClearance apart, so nothing
	// starts out touching.
	for i := 1; i < len(set); i++ {
		a, b := set[i-1], set[i]
		d := a.Position.Distance(b.Position)
		gap := d - (a.Radius + b.Radius)
		if math.Abs(gap-SetClearance) > 1e-9 {
			t.Errorf("gap between nodes %d and %d = %f, want %f", i-1, i, gap, SetClearance)
		}
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddSizeSet()
	nodes := s.Nodes()
	s.AddLink(nodes[0].ID, nodes[1].ID)

	s.Clear()

	if s.NodeCount() != 0 {
		t.Errorf("node count after Clear = %d, want 0", s.NodeCount())
	}
	if s.LinkCount() != 0 {
		t.Errorf("link count after Clear = %d, want 0", s.LinkCount())
	}
	if s.Get(nodes[0].ID) != nil {
		t.Error("Get returned a node after Clear")
	}
}

func TestAddLinkIdempotent(t *testing.T) {
	s := NewStore()
	a := s.AddNode(0, nil)
	b := s.AddNode(1, nil)

	s.AddLink(a.ID, b.ID)
	s.AddLink(a.ID, b.ID)
	s.AddLink(b.ID, a.ID) // reversed order is the same pair

	if s.LinkCount() != 1 {
		t.Fatalf("link count = %d, want 1", s.LinkCount())
	}
	if !s.Linked(a.ID, b.ID) || !s.Linked(b.ID, a.ID) {
		t.Error("Linked should be true in both orders")
	}
}

func TestAddLinkRejectsSelf(t *testing.T) {
	s := NewStore()
	a := s.AddNode(0, nil)
	s.AddLink(a.ID, a.ID)
	if s.LinkCount() != 0 {
		t.Errorf("self-link was recorded, link count = %d", s.LinkCount())
	}
}

func TestNeighborsIsLinkSet(t *testing.T) {
	s := NewStore()
	hub := s.AddNode(1, nil)
	n1 := s.AddNode(0, nil)
	n2 := s.AddNode(2, nil)
	lone := s.AddNode(3, nil)

	s.AddLink(hub.ID, n1.ID)
	s.AddLink(n2.ID, hub.ID)

	got := map[NodeID]bool{}
	for _, n := range s.Neighbors(hub.ID) {
		got[n.ID] = true
	}
	if len(got) != 2 || !got[n1.ID] || !got[n2.ID] {
		t.Errorf("hub neighbors = %v, want {%d, %d}", got, n1.ID, n2.ID)
	}
	if len(s.Neighbors(lone.ID)) != 0 {
		t.Error("unlinked node has neighbors")
	}
}
