// Package tessellate turns the scene's spheres into triangle meshes using a
// geometry kernel. One mesh is produced per sphere.
package tessellate

import (
	"fmt"

	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/kernel"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/scene"
)

// SphereMesh produces an origin-centered sphere mesh of the given radius.
// The app layer caches one of these per ladder exponent and positions the
// instances on the frontend, so drag moves never re-tessellate.
func SphereMesh(k kernel.Kernel, radius float64) (*kernel.Mesh, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("tessellate: radius must be positive, got %f", radius)
	}
	m, err := k.ToMesh(k.Sphere(radius))
	if err != nil {
		return nil, fmt.Errorf("tessellate: sphere radius %f: %w", radius, err)
	}
	return m, nil
}

// Tessellate walks the scene and produces one world-positioned mesh per
// sphere, named by node id. The tessellator is read-only and never mutates
// the store. Used for full-scene export; interactive rendering goes through
// SphereMesh instead.
func Tessellate(s *scene.Store, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, n := range s.Nodes() {
		solid := k.Translate(k.Sphere(n.Radius), n.Position.X, n.Position.Y, n.Position.Z)
		m, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: node %d: %w", n.ID, err)
		}
		m.Name = fmt.Sprintf("sphere-%d", n.ID)
		meshes = append(meshes, m)
	}
	return meshes, nil
}
