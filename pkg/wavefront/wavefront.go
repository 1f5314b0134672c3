// Package wavefront provides a parser for Wavefront OBJ meshes and their MTL
// material libraries.
package wavefront

import (
	"errors"
	"fmt"
)

// OBJ/MTL format errors.
var (
	ErrOpenFile             = errors.New("failed to open file")
	ErrRead                 = errors.New("failed to read file")
	ErrPositionParse        = errors.New("failed to parse vertex position")
	ErrNormalParse          = errors.New("failed to parse vertex normal")
	ErrTexcoordParse        = errors.New("failed to parse texture coordinate")
	ErrFaceParse            = errors.New("failed to parse face")
	ErrMaterialParse        = errors.New("failed to parse material")
	ErrInvalidObjectName    = errors.New("invalid object name")
	ErrFaceVertexOutOfRange = errors.New("face vertex index out of bounds")
	ErrFaceTexcoordRange    = errors.New("face texture coordinate index out of bounds")
	ErrFaceNormalRange      = errors.New("face normal index out of bounds")
	ErrInvalidLoadOptions   = errors.New("invalid load options")
)

// DefaultObjectName is used for geometry that appears before any o/g statement.
const DefaultObjectName = "unnamed_object"

// LoadOptions controls how faces are turned into mesh data.
type LoadOptions struct {
	// SingleIndex merges position/texcoord/normal tuples into one index stream.
	SingleIndex bool
	// Triangulate fans every polygon into triangles.
	Triangulate bool
	// IgnorePoints drops p statements.
	IgnorePoints bool
	// IgnoreLines drops l statements.
	IgnoreLines bool
}

// GPULoadOptions is the configuration used for render-ready meshes: one
// index stream of triangles, no points or polylines.
var GPULoadOptions = LoadOptions{
	SingleIndex:  true,
	Triangulate:  true,
	IgnorePoints: true,
	IgnoreLines:  true,
}

// Validate checks that the option combination can be honored.
func (o LoadOptions) Validate() error {
	// Fanning a point or a line into triangles is meaningless.
	if o.Triangulate && (!o.IgnorePoints || !o.IgnoreLines) {
		return fmt.Errorf("%w: triangulation requires ignoring points and lines", ErrInvalidLoadOptions)
	}
	return nil
}

// Mesh holds the geometry of one model.
//
// Positions, Normals and Texcoords are flat float arrays (3, 3 and 2 floats per
// element). With SingleIndex, Indices addresses all three arrays in lockstep and
// NormalIndices/TexcoordIndices stay empty.
type Mesh struct {
	Positions   []float32
	VertexColor []float32 // RGB per position, empty unless the file has colors
	Normals     []float32
	Texcoords   []float32

	Indices         []uint32
	FaceArities     []uint32 // empty when every face is a triangle
	TexcoordIndices []uint32
	NormalIndices   []uint32

	// MaterialID indexes Scene.Materials; nil if no known material is bound.
	MaterialID *int
}

// VertexCount returns the number of positions in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Model is a named mesh.
type Model struct {
	Name string
	Mesh Mesh
}

// Material is one newmtl block of an MTL library.
type Material struct {
	Name string

	Ambient        [3]float32 // Ka
	Diffuse        [3]float32 // Kd
	Specular       [3]float32 // Ks
	Shininess      float32    // Ns
	Dissolve       float32    // d, or 1-Tr
	OpticalDensity float32    // Ni
	Illumination   int        // illum

	AmbientTexture   string // map_Ka
	DiffuseTexture   string // map_Kd
	SpecularTexture  string // map_Ks
	ShininessTexture string // map_Ns
	DissolveTexture  string // map_d
	NormalTexture    string // map_Bump, bump, norm

	// UnknownParams keeps statements this parser does not interpret.
	UnknownParams map[string]string
}

// Scene is the result of loading an OBJ file.
//
// Models are returned even when the material libraries failed to load; the
// failure is reported separately in MaterialErr so callers can decide whether
// geometry without materials is acceptable.
type Scene struct {
	Models      []Model
	Materials   []Material
	MaterialErr error
}
