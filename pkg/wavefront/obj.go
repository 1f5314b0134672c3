package wavefront

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/objloader/pkg/encoding"
)

// MaterialResolver opens a material library named by an mtllib statement.
type MaterialResolver func(name string) (io.ReadCloser, error)

// DirResolver resolves material libraries relative to dir.
func DirResolver(dir string) MaterialResolver {
	return func(name string) (io.ReadCloser, error) {
		name = encoding.NormalizeAssetPath(name)
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, filepath.FromSlash(name))
		}
		return os.Open(name)
	}
}

// Load parses the OBJ file at path. Material libraries are resolved relative
// to the directory containing the file.
func Load(path string, opts LoadOptions) (*Scene, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFile, err)
	}
	defer f.Close()

	return parse(f, filepath.Base(path), opts, DirResolver(filepath.Dir(path)))
}

// parse reads OBJ data from r. name labels errors; a nil resolver skips
// mtllib statements.
func parse(r io.Reader, name string, opts LoadOptions, resolve MaterialResolver) (*Scene, error) {
	p := &objParser{
		opts:          opts,
		resolve:       resolve,
		file:          name,
		name:          DefaultObjectName,
		materialIndex: make(map[string]int),
	}
	if err := scanStatements(r, p.statement); err != nil {
		return nil, err
	}
	p.flush()

	return &Scene{
		Models:      p.models,
		Materials:   p.materials,
		MaterialErr: p.materialErr,
	}, nil
}

// faceVertex holds 0-based indices into the global attribute lists; -1 means
// the attribute was not given.
type faceVertex struct {
	v, vt, vn int
}

type face []faceVertex

type objParser struct {
	opts    LoadOptions
	resolve MaterialResolver
	file    string

	positions []float32
	colors    []float32
	hasColor  bool
	texcoords []float32
	normals   []float32

	// Current model state.
	name       string
	faces      []face
	materialID *int

	materials     []Material
	materialIndex map[string]int
	materialErr   error

	models []Model
}

func (p *objParser) errorf(st statement, base error, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", p.file, st.line, base, fmt.Sprintf(format, args...))
}

func (p *objParser) statement(st statement) error {
	switch st.keyword {
	case "v":
		return p.parsePosition(st)
	case "vt":
		return p.parseTexcoord(st)
	case "vn":
		return p.parseNormal(st)
	case "f":
		return p.parseFace(st)
	case "l":
		if p.opts.IgnoreLines {
			return nil
		}
		return p.parseLine(st)
	case "p":
		if p.opts.IgnorePoints {
			return nil
		}
		return p.parsePoints(st)
	case "o":
		if st.rest == "" {
			return p.errorf(st, ErrInvalidObjectName, "empty object name")
		}
		p.flush()
		p.name = st.rest
	case "g":
		p.flush()
		if st.rest == "" {
			p.name = DefaultObjectName
		} else {
			p.name = st.rest
		}
	case "usemtl":
		p.useMaterial(st.rest)
	case "mtllib":
		p.addMaterialLib(st.rest)
	}
	// s, vp, curve and surface statements carry nothing a mesh can hold.
	return nil
}

func (p *objParser) parsePosition(st statement) error {
	vals, err := parseFloats(st.args)
	if err != nil {
		return p.errorf(st, ErrPositionParse, "%v", err)
	}
	var color []float32
	switch len(vals) {
	case 3, 4:
		// A fourth component is the rational weight, unused for meshes.
	case 6:
		color = vals[3:6]
	default:
		return p.errorf(st, ErrPositionParse, "expected 3, 4 or 6 values, got %d", len(vals))
	}

	p.positions = append(p.positions, vals[0], vals[1], vals[2])
	if color != nil {
		p.hasColor = true
		p.colors = append(p.colors, color...)
	} else {
		p.colors = append(p.colors, 1, 1, 1)
	}
	return nil
}

func (p *objParser) parseTexcoord(st statement) error {
	vals, err := parseFloats(st.args)
	if err != nil {
		return p.errorf(st, ErrTexcoordParse, "%v", err)
	}
	switch len(vals) {
	case 1:
		p.texcoords = append(p.texcoords, vals[0], 0)
	case 2, 3:
		p.texcoords = append(p.texcoords, vals[0], vals[1])
	default:
		return p.errorf(st, ErrTexcoordParse, "expected 1 to 3 values, got %d", len(vals))
	}
	return nil
}

func (p *objParser) parseNormal(st statement) error {
	vals, err := parseFloats(st.args)
	if err != nil {
		return p.errorf(st, ErrNormalParse, "%v", err)
	}
	if len(vals) != 3 {
		return p.errorf(st, ErrNormalParse, "expected 3 values, got %d", len(vals))
	}
	p.normals = append(p.normals, vals...)
	return nil
}

func (p *objParser) parseFace(st statement) error {
	if len(st.args) < 3 {
		return p.errorf(st, ErrFaceParse, "face needs at least 3 vertices, got %d", len(st.args))
	}
	f, err := p.parseFaceVertices(st)
	if err != nil {
		return err
	}
	p.faces = append(p.faces, f)
	return nil
}

// parseLine splits a polyline into two-vertex segments.
func (p *objParser) parseLine(st statement) error {
	if len(st.args) < 2 {
		return p.errorf(st, ErrFaceParse, "line needs at least 2 vertices, got %d", len(st.args))
	}
	verts, err := p.parseFaceVertices(st)
	if err != nil {
		return err
	}
	for i := 0; i+1 < len(verts); i++ {
		p.faces = append(p.faces, face{verts[i], verts[i+1]})
	}
	return nil
}

func (p *objParser) parsePoints(st statement) error {
	if len(st.args) == 0 {
		return p.errorf(st, ErrFaceParse, "point statement without vertices")
	}
	verts, err := p.parseFaceVertices(st)
	if err != nil {
		return err
	}
	for _, v := range verts {
		p.faces = append(p.faces, face{v})
	}
	return nil
}

func (p *objParser) parseFaceVertices(st statement) (face, error) {
	f := make(face, 0, len(st.args))
	for _, tok := range st.args {
		parts := strings.Split(tok, "/")
		if len(parts) > 3 || parts[0] == "" {
			return nil, p.errorf(st, ErrFaceParse, "malformed vertex %q", tok)
		}

		fv := faceVertex{v: -1, vt: -1, vn: -1}
		var err error
		if fv.v, err = resolveIndex(parts[0], len(p.positions)/3); err != nil {
			return nil, p.errorf(st, ErrFaceVertexOutOfRange, "%q: %v", tok, err)
		}
		if len(parts) > 1 && parts[1] != "" {
			if fv.vt, err = resolveIndex(parts[1], len(p.texcoords)/2); err != nil {
				return nil, p.errorf(st, ErrFaceTexcoordRange, "%q: %v", tok, err)
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if fv.vn, err = resolveIndex(parts[2], len(p.normals)/3); err != nil {
				return nil, p.errorf(st, ErrFaceNormalRange, "%q: %v", tok, err)
			}
		}
		f = append(f, fv)
	}
	return f, nil
}

// resolveIndex converts a 1-based or negative relative OBJ index into a
// 0-based index into a list of n elements.
func resolveIndex(tok string, n int) (int, error) {
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d with %d elements", i, n)
}

func (p *objParser) useMaterial(name string) {
	var id *int
	if idx, ok := p.materialIndex[name]; ok {
		id = &idx
	}
	if len(p.faces) > 0 && !sameMaterial(id, p.materialID) {
		p.flush()
	}
	p.materialID = id
}

func sameMaterial(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// addMaterialLib loads one library. The whole rest of the mtllib line is the
// file name, so names may contain spaces. The first failure is kept for the
// caller and later libraries are still read.
func (p *objParser) addMaterialLib(name string) {
	if p.resolve == nil {
		return
	}
	mats, err := p.loadMaterialLib(name)
	if err != nil {
		if p.materialErr == nil {
			p.materialErr = err
		}
		return
	}
	for _, m := range mats {
		p.materialIndex[m.Name] = len(p.materials)
		p.materials = append(p.materials, m)
	}
}

func (p *objParser) loadMaterialLib(name string) ([]Material, error) {
	rc, err := p.resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFile, name, err)
	}
	defer rc.Close()
	return parseMTL(rc, name)
}

// flush turns the faces collected so far into a model.
func (p *objParser) flush() {
	if len(p.faces) == 0 {
		return
	}
	var mesh Mesh
	if p.opts.SingleIndex {
		mesh = p.buildSingleIndexed()
	} else {
		mesh = p.buildMultiIndexed()
	}
	if p.materialID != nil {
		id := *p.materialID
		mesh.MaterialID = &id
	}
	p.models = append(p.models, Model{Name: p.name, Mesh: mesh})
	p.faces = nil
}

// attributeUse reports whether any face vertex references texcoords or normals.
func (p *objParser) attributeUse() (texcoords, normals bool) {
	for _, f := range p.faces {
		for _, fv := range f {
			texcoords = texcoords || fv.vt >= 0
			normals = normals || fv.vn >= 0
		}
	}
	return texcoords, normals
}

func (p *objParser) buildSingleIndexed() Mesh {
	useTex, useNorm := p.attributeUse()
	var mesh Mesh
	seen := make(map[faceVertex]uint32)

	vertex := func(fv faceVertex) uint32 {
		if idx, ok := seen[fv]; ok {
			return idx
		}
		idx := uint32(len(mesh.Positions) / 3)
		mesh.Positions = append(mesh.Positions, p.positions[fv.v*3:fv.v*3+3]...)
		if p.hasColor {
			mesh.VertexColor = append(mesh.VertexColor, p.colors[fv.v*3:fv.v*3+3]...)
		}
		if useTex {
			if fv.vt >= 0 {
				mesh.Texcoords = append(mesh.Texcoords, p.texcoords[fv.vt*2:fv.vt*2+2]...)
			} else {
				mesh.Texcoords = append(mesh.Texcoords, 0, 0)
			}
		}
		if useNorm {
			if fv.vn >= 0 {
				mesh.Normals = append(mesh.Normals, p.normals[fv.vn*3:fv.vn*3+3]...)
			} else {
				mesh.Normals = append(mesh.Normals, 0, 0, 0)
			}
		}
		seen[fv] = idx
		return idx
	}

	p.emitFaces(&mesh, func(fv faceVertex) {
		mesh.Indices = append(mesh.Indices, vertex(fv))
	})
	return mesh
}

func (p *objParser) buildMultiIndexed() Mesh {
	useTex, useNorm := p.attributeUse()
	var mesh Mesh
	posIdx := make(map[int]uint32)
	texIdx := make(map[int]uint32)
	normIdx := make(map[int]uint32)

	p.emitFaces(&mesh, func(fv faceVertex) {
		idx, ok := posIdx[fv.v]
		if !ok {
			idx = uint32(len(mesh.Positions) / 3)
			mesh.Positions = append(mesh.Positions, p.positions[fv.v*3:fv.v*3+3]...)
			if p.hasColor {
				mesh.VertexColor = append(mesh.VertexColor, p.colors[fv.v*3:fv.v*3+3]...)
			}
			posIdx[fv.v] = idx
		}
		mesh.Indices = append(mesh.Indices, idx)

		if useTex {
			ti, ok := texIdx[fv.vt]
			if !ok {
				ti = uint32(len(mesh.Texcoords) / 2)
				if fv.vt >= 0 {
					mesh.Texcoords = append(mesh.Texcoords, p.texcoords[fv.vt*2:fv.vt*2+2]...)
				} else {
					mesh.Texcoords = append(mesh.Texcoords, 0, 0)
				}
				texIdx[fv.vt] = ti
			}
			mesh.TexcoordIndices = append(mesh.TexcoordIndices, ti)
		}
		if useNorm {
			ni, ok := normIdx[fv.vn]
			if !ok {
				ni = uint32(len(mesh.Normals) / 3)
				if fv.vn >= 0 {
					mesh.Normals = append(mesh.Normals, p.normals[fv.vn*3:fv.vn*3+3]...)
				} else {
					mesh.Normals = append(mesh.Normals, 0, 0, 0)
				}
				normIdx[fv.vn] = ni
			}
			mesh.NormalIndices = append(mesh.NormalIndices, ni)
		}
	})
	return mesh
}

// emitFaces walks the collected faces in index order, fanning polygons into
// triangles when requested, and records face arities otherwise.
func (p *objParser) emitFaces(mesh *Mesh, emit func(fv faceVertex)) {
	allTriangles := true
	for _, f := range p.faces {
		if p.opts.Triangulate && len(f) > 3 {
			for i := 1; i+1 < len(f); i++ {
				emit(f[0])
				emit(f[i])
				emit(f[i+1])
			}
			continue
		}
		for _, fv := range f {
			emit(fv)
		}
		if !p.opts.Triangulate {
			mesh.FaceArities = append(mesh.FaceArities, uint32(len(f)))
			allTriangles = allTriangles && len(f) == 3
		}
	}
	if allTriangles {
		mesh.FaceArities = nil
	}
}
