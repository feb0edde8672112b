package main

import (
	"math"
	"os"
	"testing"

	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/sizes"
)

// TestE2EPackingScript exercises the full pipeline: script source → engine
// → scene store → bindings. This is the same path the Wails EvaluateScript
// binding takes, but without the Wails runtime.
func TestE2EPackingScript(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/packing.scene")
	if err != nil {
		t.Fatalf("failed to read packing.scene: %v", err)
	}

	result := app.EvaluateScript(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// Full ladder plus the two scripted spheres.
	wantNodes := sizes.Count() + 2
	if len(result.Scene.Nodes) != wantNodes {
		t.Fatalf("scene has %d nodes, want %d", len(result.Scene.Nodes), wantNodes)
	}
	// The script settles one sphere onto its neighbor.
	if len(result.Scene.Links) != 1 {
		t.Fatalf("scene has %d links, want 1", len(result.Scene.Links))
	}

	// The settled pair sits at exact tangency.
	link := result.Scene.Links[0]
	var a, b *NodeView
	for i := range result.Scene.Nodes {
		n := &result.Scene.Nodes[i]
		switch n.ID {
		case link.A:
			a = n
		case link.B:
			b = n
		}
	}
	if a == nil || b == nil {
		t.Fatalf("link %+v references missing nodes", link)
	}
	d := a.Position.Distance(b.Position)
	if math.Abs(d-(a.Radius+b.Radius)) > 1e-6 {
		t.Errorf("linked pair distance = %f, want %f", d, a.Radius+b.Radius)
	}
}

func TestBindingsDragAndSnap(t *testing.T) {
	app := NewApp()

	m, err := app.AddSphereAt(2, 0, 0, 0)
	if err != nil {
		t.Fatalf("AddSphereAt: %v", err)
	}
	n, err := app.AddSphereAt(3, 50, 0, 0)
	if err != nil {
		t.Fatalf("AddSphereAt: %v", err)
	}

	// Free drag: no links yet, the sphere follows the pointer exactly.
	tangency := m.Radius + n.Radius
	moved := app.DragMove(n.ID, tangency, 0, 0)
	if moved == nil {
		t.Fatal("DragMove returned nil for a known id")
	}
	if moved.Position.X != tangency || moved.Position.Y != 0 || moved.Position.Z != 0 {
		t.Errorf("free drag position = %+v, want (%f, 0, 0)", moved.Position, tangency)
	}

	res := app.DragEnd(n.ID)
	if !res.Snapped {
		t.Fatal("release at tangency did not snap")
	}
	if res.Link == nil || (res.Link.A != m.ID && res.Link.B != m.ID) {
		t.Errorf("snap link = %+v, want pair with %d", res.Link, m.ID)
	}

	view := app.Scene()
	if len(view.Links) != 1 {
		t.Errorf("scene link count = %d, want 1", len(view.Links))
	}

	// Linked now: a further drag keeps the pair tangent. The anchor sphere
	// never moved, so its snapshot position is still current.
	moved = app.DragMove(n.ID, 0, 40, 0)
	d := moved.Position.Distance(m.Position)
	if math.Abs(d-tangency) > 1e-9 {
		t.Errorf("hinged drag distance = %f, want %f", d, tangency)
	}
}

func TestBindingsMagnetToggle(t *testing.T) {
	app := NewApp()
	app.SetMagnet(false)

	m, _ := app.AddSphereAt(1, 0, 0, 0)
	n, _ := app.AddSphereAt(2, m.Radius+sizes.RadiusOf(2), 0, 0)

	res := app.DragEnd(n.ID)
	if res.Snapped {
		t.Error("snapped with magnet disabled")
	}
	if len(app.Scene().Links) != 0 {
		t.Error("link created with magnet disabled")
	}

	app.SetMagnet(true)
	res = app.DragEnd(n.ID)
	if !res.Snapped {
		t.Error("did not snap after re-enabling magnet")
	}
}

func TestBindingsRejectOffLadderExponent(t *testing.T) {
	app := NewApp()
	if _, err := app.AddSphere(99); err == nil {
		t.Error("AddSphere(99) should fail")
	}
	if _, err := app.AddSphereAt(-7, 0, 0, 0); err == nil {
		t.Error("AddSphereAt(-7) should fail")
	}
	if _, err := app.SphereMesh(99); err == nil {
		t.Error("SphereMesh(99) should fail")
	}
}

func TestBindingsSnapToleranceClamped(t *testing.T) {
	app := NewApp()
	app.SetSnapTolerance(-1)
	if got := app.Scene().SnapTolerance; got != 0 {
		t.Errorf("negative tolerance stored as %f, want 0", got)
	}
	app.SetSnapTolerance(0.1)
	if got := app.Scene().SnapTolerance; got != 0.1 {
		t.Errorf("tolerance = %f, want 0.1", got)
	}
}

func TestBindingsClearAll(t *testing.T) {
	app := NewApp()
	app.AddSizeSet()
	app.ClearAll()
	view := app.Scene()
	if len(view.Nodes) != 0 || len(view.Links) != 0 {
		t.Errorf("scene after ClearAll: %d nodes, %d links", len(view.Nodes), len(view.Links))
	}
}

func TestSphereMeshCached(t *testing.T) {
	app := NewApp()
	m1, err := app.SphereMesh(0)
	if err != nil {
		t.Fatalf("SphereMesh: %v", err)
	}
	if len(m1.Vertices) == 0 {
		t.Fatal("sphere mesh is empty")
	}
	if m1.Color != sizes.ColorOf(0) {
		t.Errorf("mesh color = %q, want %q", m1.Color, sizes.ColorOf(0))
	}
	m2, err := app.SphereMesh(0)
	if err != nil {
		t.Fatalf("SphereMesh: %v", err)
	}
	if m1 != m2 {
		t.Error("second SphereMesh call did not hit the cache")
	}
}

func TestScriptErrorKeepsCurrentScene(t *testing.T) {
	app := NewApp()
	app.AddSizeSet()

	result := app.EvaluateScript(`(sphere :exp 42)`)
	if len(result.Errors) == 0 {
		t.Fatal("expected script errors")
	}
	if len(result.Scene.Nodes) != sizes.Count() {
		t.Errorf("failed script replaced the scene: %d nodes", len(result.Scene.Nodes))
	}
}
