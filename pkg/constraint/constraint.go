// Package constraint implements the two geometric rules of the packing
// model: hinge propagation while a sphere is dragged, and magnetic snapping
// onto a size-adjacent neighbor when it is released. Both rules operate on
// a scene.Store and are infallible: unknown ids and degenerate geometry
// resolve to "nothing changes".
package constraint

import (
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/scene"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/sizes"
)

// DefaultSnapTolerance is the default snap window as a fraction of the
// larger radius in a candidate pair.
const DefaultSnapTolerance = 0.06

// fallbackAxis is the direction used when two sphere centers coincide and
// no direction can be derived from geometry.
var fallbackAxis = scene.Vec3{X: 1}

// Config carries the externally owned settings the resolver reads. It is
// passed explicitly so the rules stay independently testable.
type Config struct {
	Magnet        bool    `json:"magnet"`
	SnapTolerance float64 `json:"snapTolerance"`
}

// DefaultConfig returns the settings the app starts with: magnet on, 6%
// snap window.
func DefaultConfig() Config {
	return Config{Magnet: true, SnapTolerance: DefaultSnapTolerance}
}

// directionBetween returns the unit vector from 'from' toward 'to', or the
// fallback axis when the two points coincide.
func directionBetween(from, to scene.Vec3) scene.Vec3 {
	d := to.Sub(from)
	if d.IsZero() {
		return fallbackAxis
	}
	return d.Normalize()
}

// DragMove applies the hinge rule for one drag-move event: the sphere is
// moved to target, then pulled back toward tangency with each linked
// neighbor. With several neighbors the per-neighbor ideal positions are
// averaged unweighted, a single relaxation step that is re-applied on every
// event rather than solved exactly. With no neighbors the sphere moves
// freely to target.
func DragMove(s *scene.Store, id scene.NodeID, target scene.Vec3) {
	n := s.Get(id)
	if n == nil {
		return
	}
	n.Position = target

	neighbors := s.Neighbors(id)
	if len(neighbors) == 0 {
		return
	}

	var sum scene.Vec3
	for _, m := range neighbors {
		dir := directionBetween(m.Position, n.Position)
		ideal := m.Position.Add(dir.Scale(n.Radius + m.Radius))
		sum = sum.Add(ideal)
	}
	n.Position = sum.Scale(1 / float64(len(neighbors)))
}

// Release applies the magnetic-snap rule for one drag-release event. It
// scans every other sphere whose ladder exponent sits exactly one rung from
// the released sphere's, and picks the candidate whose surface distance is
// closest to tangency. If that error is within cfg.SnapTolerance of the
// larger radius, the sphere is moved onto the candidate's surface exactly
// and the contact is locked as a link.
//
// The locked link is returned for UI feedback; ok is false when nothing
// snapped (magnet off, unknown id, or no candidate in tolerance), which is
// a normal outcome, not an error.
func Release(s *scene.Store, id scene.NodeID, cfg Config) (link scene.Link, ok bool) {
	if !cfg.Magnet {
		return scene.Link{}, false
	}
	n := s.Get(id)
	if n == nil {
		return scene.Link{}, false
	}

	var best *scene.Node
	var bestErr float64
	for _, m := range s.Nodes() {
		if m.ID == n.ID {
			continue
		}
		if sizes.AdjacencyDistance(n.Exponent, m.Exponent) != 1 {
			continue
		}
		target := n.Radius + m.Radius
		err := n.Position.Distance(m.Position) - target
		if err < 0 {
			err = -err
		}
		tol := cfg.SnapTolerance * maxRadius(n, m)
		if err > tol {
			continue
		}
		if best == nil || err < bestErr {
			best = m
			bestErr = err
		}
	}
	if best == nil {
		return scene.Link{}, false
	}

	dir := directionBetween(best.Position, n.Position)
	n.Position = best.Position.Add(dir.Scale(n.Radius + best.Radius))
	s.AddLink(n.ID, best.ID)
	if best.ID < n.ID {
		return scene.Link{A: best.ID, B: n.ID}, true
	}
	return scene.Link{A: n.ID, B: best.ID}, true
}

func maxRadius(a, b *scene.Node) float64 {
	if a.Radius > b.Radius {
		return a.Radius
	}
	return b.Radius
}
