package cabi

import (
	"fmt"

	"github.com/Faultbox/objloader/pkg/wavefront"
)

// ModelFromParsed converts a parsed model into a record. The record owns new
// copies of every array and of the name. On error nothing is allocated.
func ModelFromParsed(m wavefront.Model) (Model, error) {
	if err := checkMesh(&m.Mesh); err != nil {
		return Model{}, &Error{Kind: KindUnsupported, Err: fmt.Errorf("model %q: %w", m.Name, err)}
	}

	name, err := CString(m.Name)
	if err != nil {
		return Model{}, &Error{Kind: KindInteriorNul, Err: fmt.Errorf("model name %q: %w", m.Name, err)}
	}

	rec := Model{
		Positions: NewArray(m.Mesh.Positions),
		Normals:   NewArray(m.Mesh.Normals),
		Texcoords: NewArray(m.Mesh.Texcoords),
		Indices:   NewArray(m.Mesh.Indices),
		Name:      name,
	}
	// Material 0 is a valid id, so presence is carried separately.
	if m.Mesh.MaterialID != nil {
		rec.MaterialID = uintptr(*m.Mesh.MaterialID)
		rec.HasMaterial = 1
	}
	return rec, nil
}

// MaterialFromParsed converts a parsed material. Only the diffuse texture
// crosses the boundary; an absent texture becomes an empty string.
func MaterialFromParsed(m wavefront.Material) (Material, error) {
	tex, err := CString(m.DiffuseTexture)
	if err != nil {
		return Material{}, &Error{Kind: KindInteriorNul, Err: fmt.Errorf("material %q diffuse texture: %w", m.Name, err)}
	}
	return Material{DiffuseTexture: tex}, nil
}

// checkMesh verifies the mesh is single-indexed triangles without vertex
// colors and that every array agrees with the vertex count.
func checkMesh(mesh *wavefront.Mesh) error {
	switch {
	case len(mesh.VertexColor) > 0:
		return ErrVertexColor
	case len(mesh.FaceArities) > 0:
		return ErrFaceArities
	case len(mesh.TexcoordIndices) > 0:
		return ErrTexcoordIndices
	case len(mesh.NormalIndices) > 0:
		return ErrNormalIndices
	}

	if len(mesh.Positions)%3 != 0 {
		return ErrPositionLayout
	}
	vertices := len(mesh.Positions) / 3
	if len(mesh.Normals) > 0 && len(mesh.Normals) != vertices*3 {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrNormalCount, len(mesh.Normals)/3, vertices)
	}
	if len(mesh.Texcoords) > 0 && len(mesh.Texcoords) != vertices*2 {
		return fmt.Errorf("%w: %d texcoords for %d vertices", ErrTexcoordCount, len(mesh.Texcoords)/2, vertices)
	}
	if len(mesh.Indices)%3 != 0 {
		return ErrIndexLayout
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= vertices {
			return fmt.Errorf("%w: %d >= %d", ErrIndexRange, idx, vertices)
		}
	}
	return nil
}
