package main

import (
	"context"
	"fmt"
	"log"

	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/constraint"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/engine"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/kernel"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/kernel/sdfx"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/scene"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/sizes"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/tessellate"
)

// App is the Wails backend. It owns the packing state and exposes methods
// to the frontend via bindings; the frontend is a pure projection of the
// store and is redrawn from Scene() after every mutation.
type App struct {
	ctx    context.Context
	store  *scene.Store
	kernel kernel.Kernel
	engine *engine.Engine
	cfg    constraint.Config

	// meshCache holds one origin-centered sphere mesh per ladder exponent;
	// the frontend positions instances itself, so drags never re-tessellate.
	meshCache map[int]*MeshData
}

// NodeView is the JSON-serializable snapshot of one sphere.
type NodeView struct {
	ID       int        `json:"id"`
	Exponent int        `json:"exponent"`
	Radius   float64    `json:"radius"`
	Color    string     `json:"color"`
	Position scene.Vec3 `json:"position"`
}

// LinkView is the JSON-serializable snapshot of one locked contact.
type LinkView struct {
	A int `json:"a"`
	B int `json:"b"`
}

// SceneView is the full state snapshot sent to the frontend for redraws.
type SceneView struct {
	Nodes         []NodeView `json:"nodes"`
	Links         []LinkView `json:"links"`
	Magnet        bool       `json:"magnet"`
	SnapTolerance float64    `json:"snapTolerance"`
	Exponents     []int      `json:"exponents"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Exponent int       `json:"exponent"`
	Color    string    `json:"color"`
}

// DragEndResult reports what a release did.
type DragEndResult struct {
	Node    *NodeView `json:"node"`
	Link    *LinkView `json:"link"`
	Snapped bool      `json:"snapped"`
}

// EvalErrorData is a JSON-serializable script error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is returned by EvaluateScript.
type ScriptResult struct {
	Errors []EvalErrorData `json:"errors"`
	Scene  SceneView       `json:"scene"`
}

// NewApp creates a new App with an empty scene and the sdfx kernel.
func NewApp() *App {
	return &App{
		store:     scene.NewStore(),
		kernel:    sdfx.New(),
		engine:    engine.NewEngine(),
		cfg:       constraint.DefaultConfig(),
		meshCache: make(map[int]*MeshData),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func nodeView(n *scene.Node) NodeView {
	return NodeView{
		ID:       int(n.ID),
		Exponent: n.Exponent,
		Radius:   n.Radius,
		Color:    n.Color,
		Position: n.Position,
	}
}

// Scene returns the current state snapshot.
func (a *App) Scene() SceneView {
	nodes := a.store.Nodes()
	links := a.store.Links()
	view := SceneView{
		Nodes:         make([]NodeView, 0, len(nodes)),
		Links:         make([]LinkView, 0, len(links)),
		Magnet:        a.cfg.Magnet,
		SnapTolerance: a.cfg.SnapTolerance,
		Exponents:     sizes.Exponents(),
	}
	for _, n := range nodes {
		view.Nodes = append(view.Nodes, nodeView(n))
	}
	for _, l := range links {
		view.Links = append(view.Links, LinkView{A: int(l.A), B: int(l.B)})
	}
	return view
}

// AddSphere places one sphere of the given ladder exponent at a random
// ground position.
func (a *App) AddSphere(exponent int) (*NodeView, error) {
	if !sizes.Valid(exponent) {
		return nil, fmt.Errorf("exponent %d is not on the size ladder", exponent)
	}
	n := a.store.AddNode(exponent, nil)
	v := nodeView(n)
	return &v, nil
}

// AddSphereAt places one sphere at an explicit world position.
func (a *App) AddSphereAt(exponent int, x, y, z float64) (*NodeView, error) {
	if !sizes.Valid(exponent) {
		return nil, fmt.Errorf("exponent %d is not on the size ladder", exponent)
	}
	n := a.store.AddNode(exponent, &scene.Vec3{X: x, Y: y, Z: z})
	v := nodeView(n)
	return &v, nil
}

// AddSizeSet places the full ladder as a row of spheres.
func (a *App) AddSizeSet() []NodeView {
	set := a.store.AddSizeSet()
	out := make([]NodeView, 0, len(set))
	for _, n := range set {
		out = append(out, nodeView(n))
	}
	return out
}

// ClearAll empties the scene.
func (a *App) ClearAll() {
	a.store.Clear()
}

// DragMove applies the hinge rule for one pointer-move event and returns
// the sphere's constrained position. Unknown ids return nil.
func (a *App) DragMove(id int, x, y, z float64) *NodeView {
	constraint.DragMove(a.store, scene.NodeID(id), scene.Vec3{X: x, Y: y, Z: z})
	n := a.store.Get(scene.NodeID(id))
	if n == nil {
		return nil
	}
	v := nodeView(n)
	return &v
}

// DragEnd applies the magnetic snap for one pointer-release event.
func (a *App) DragEnd(id int) DragEndResult {
	link, snapped := constraint.Release(a.store, scene.NodeID(id), a.cfg)
	res := DragEndResult{Snapped: snapped}
	if snapped {
		res.Link = &LinkView{A: int(link.A), B: int(link.B)}
	}
	if n := a.store.Get(scene.NodeID(id)); n != nil {
		v := nodeView(n)
		res.Node = &v
	}
	return res
}

// SetMagnet toggles magnetic snapping.
func (a *App) SetMagnet(enabled bool) {
	a.cfg.Magnet = enabled
}

// SetSnapTolerance sets the snap window as a fraction of the larger radius
// in a candidate pair. Negative values clamp to zero.
func (a *App) SetSnapTolerance(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	a.cfg.SnapTolerance = fraction
}

// SphereMesh returns the origin-centered mesh for one ladder exponent,
// generating and caching it on first use.
func (a *App) SphereMesh(exponent int) (*MeshData, error) {
	if !sizes.Valid(exponent) {
		return nil, fmt.Errorf("exponent %d is not on the size ladder", exponent)
	}
	if m, ok := a.meshCache[exponent]; ok {
		return m, nil
	}
	mesh, err := tessellate.SphereMesh(a.kernel, sizes.RadiusOf(exponent))
	if err != nil {
		log.Printf("SphereMesh exponent %d: %v", exponent, err)
		return nil, err
	}
	m := &MeshData{
		Vertices: mesh.Vertices,
		Normals:  mesh.Normals,
		Indices:  mesh.Indices,
		Exponent: exponent,
		Color:    sizes.ColorOf(exponent),
	}
	a.meshCache[exponent] = m
	return m, nil
}

// EvaluateScript runs a scene script and, on success, replaces the current
// scene with the script's result. On any error the current scene is kept.
func (a *App) EvaluateScript(source string) ScriptResult {
	result := ScriptResult{Errors: []EvalErrorData{}}

	store, evalErrs, err := a.engine.Evaluate(source, a.cfg)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("EvaluateScript fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		result.Scene = a.Scene()
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		result.Scene = a.Scene()
		return result
	}

	a.store = store
	result.Scene = a.Scene()
	return result
}
