// Package kernel defines the abstract geometry kernel interface used to
// turn spheres into renderable meshes. The abstraction keeps the rest of
// the system independent of the SDF backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Sphere creates a sphere of the given radius centered at the origin.
	Sphere(radius float64) Solid

	// Union returns the union of two solids.
	Union(a, b Solid) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh converts a solid to a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
