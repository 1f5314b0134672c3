package main

import (
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objloader/internal/cabi"
	"github.com/Faultbox/objloader/internal/config"
	"github.com/Faultbox/objloader/internal/logger"
	"github.com/Faultbox/objloader/pkg/math"
	"github.com/Faultbox/objloader/pkg/wavefront"
)

type modelSummary struct {
	Name      string     `yaml:"name"`
	Vertices  int        `yaml:"vertices"`
	Triangles int        `yaml:"triangles"`
	Normals   bool       `yaml:"normals"`
	Texcoords bool       `yaml:"texcoords"`
	Material  *int       `yaml:"material,omitempty"`
	Min       [3]float32 `yaml:"min,flow"`
	Max       [3]float32 `yaml:"max,flow"`

	Degenerate int `yaml:"degenerate_triangles"`
}

type sceneSummary struct {
	File      string         `yaml:"file"`
	Models    []modelSummary `yaml:"models"`
	Materials []string       `yaml:"diffuse_textures"`
	Vertices  int            `yaml:"vertices"`
	Triangles int            `yaml:"triangles"`
}

// loadRecords runs the same path validation and conversion as load_obj.
func loadRecords(path string) (cabi.ModelsAndMaterials, error) {
	decoded, err := cabi.DecodePath([]byte(path))
	if err != nil {
		return cabi.ModelsAndMaterials{}, err
	}
	return cabi.Load(decoded)
}

// summarize reads the records back through their raw pointers and releases
// them.
func summarize(path string) (*sceneSummary, error) {
	r, err := loadRecords(path)
	if err != nil {
		return nil, err
	}
	defer cabi.FreeModelsAndMaterials(r)

	s := &sceneSummary{File: path}
	for _, m := range r.Models.Slice() {
		ms := modelSummary{
			Name:      cabi.GoString(m.Name),
			Vertices:  int(m.Positions.Len / 3),
			Triangles: int(m.Indices.Len / 3),
			Normals:   m.Normals.Len > 0,
			Texcoords: m.Texcoords.Len > 0,
		}
		if m.HasMaterial != 0 {
			id := int(m.MaterialID)
			ms.Material = &id
		}
		box := math.BoundsOf(m.Positions.Slice())
		ms.Min, ms.Max = box.Min.Array(), box.Max.Array()
		ms.Degenerate = math.DegenerateTriangles(m.Positions.Slice(), m.Indices.Slice())

		s.Vertices += ms.Vertices
		s.Triangles += ms.Triangles
		s.Models = append(s.Models, ms)
	}
	for _, m := range r.Materials.Slice() {
		s.Materials = append(s.Materials, cabi.GoString(m.DiffuseTexture))
	}

	logger.Debug("summarized",
		zap.String("path", path),
		zap.Int("models", len(s.Models)),
		zap.Uintptr("bytes", r.Models.Bytes()+r.Materials.Bytes()),
	)
	return s, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func cmdInfo(w io.Writer, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: objinfo info <file.obj>", errUsage)
	}

	s, err := summarize(args[0])
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.FormatYAML {
		return writeYAML(w, struct {
			File      string `yaml:"file"`
			Models    int    `yaml:"models"`
			Materials int    `yaml:"materials"`
			Vertices  int    `yaml:"vertices"`
			Triangles int    `yaml:"triangles"`
		}{s.File, len(s.Models), len(s.Materials), s.Vertices, s.Triangles})
	}

	fmt.Fprintf(w, "File:      %s\n", s.File)
	fmt.Fprintf(w, "Models:    %d\n", len(s.Models))
	fmt.Fprintf(w, "Materials: %d\n", len(s.Materials))
	fmt.Fprintf(w, "Vertices:  %d\n", s.Vertices)
	fmt.Fprintf(w, "Triangles: %d\n", s.Triangles)
	return nil
}

func cmdModels(w io.Writer, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("n", 0, "Limit output to N models (0 = all)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: objinfo models [-n N] <file.obj>", errUsage)
	}

	s, err := summarize(fs.Arg(0))
	if err != nil {
		return err
	}
	models := s.Models
	if *limit > 0 && len(models) > *limit {
		models = models[:*limit]
	}

	if cfg.Output.Format == config.FormatYAML {
		return writeYAML(w, models)
	}

	for i, m := range models {
		material := "-"
		if m.Material != nil {
			material = fmt.Sprintf("%d", *m.Material)
		}
		fmt.Fprintf(w, "%3d  %-24s verts=%-6d tris=%-6d normals=%-5t uvs=%-5t material=%s",
			i, m.Name, m.Vertices, m.Triangles, m.Normals, m.Texcoords, material)
		if m.Degenerate > 0 {
			fmt.Fprintf(w, " degenerate=%d", m.Degenerate)
		}
		fmt.Fprintln(w)
	}
	return nil
}

type materialSummary struct {
	Name           string     `yaml:"name"`
	Diffuse        [3]float32 `yaml:"diffuse,flow"`
	Dissolve       float32    `yaml:"dissolve"`
	Illumination   int        `yaml:"illum"`
	DiffuseTexture string     `yaml:"diffuse_texture,omitempty"`
	NormalTexture  string     `yaml:"normal_texture,omitempty"`
}

// cmdMaterials reports the full parsed materials. Only the diffuse texture
// crosses the C boundary, so this reads the parser's output directly.
func cmdMaterials(w io.Writer, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: objinfo materials <file.obj>", errUsage)
	}

	path, err := cabi.DecodePath([]byte(args[0]))
	if err != nil {
		return err
	}
	scene, err := wavefront.Load(path, wavefront.GPULoadOptions)
	if err != nil {
		return &cabi.Error{Kind: cabi.KindParse, Err: err}
	}
	if scene.MaterialErr != nil {
		return &cabi.Error{Kind: cabi.KindMaterial, Err: scene.MaterialErr}
	}

	materials := make([]materialSummary, 0, len(scene.Materials))
	for _, m := range scene.Materials {
		materials = append(materials, materialSummary{
			Name:           m.Name,
			Diffuse:        m.Diffuse,
			Dissolve:       m.Dissolve,
			Illumination:   m.Illumination,
			DiffuseTexture: m.DiffuseTexture,
			NormalTexture:  m.NormalTexture,
		})
	}

	if cfg.Output.Format == config.FormatYAML {
		return writeYAML(w, materials)
	}

	for i, m := range materials {
		texture := m.DiffuseTexture
		if texture == "" {
			texture = "-"
		}
		fmt.Fprintf(w, "%3d  %-24s Kd=(%.3g %.3g %.3g) d=%.3g map_Kd=%s\n",
			i, m.Name, m.Diffuse[0], m.Diffuse[1], m.Diffuse[2], m.Dissolve, texture)
	}
	return nil
}

type modelDump struct {
	Name        string    `yaml:"name"`
	Positions   []float32 `yaml:"positions,flow"`
	Normals     []float32 `yaml:"normals,flow,omitempty"`
	Texcoords   []float32 `yaml:"texcoords,flow,omitempty"`
	Indices     []uint32  `yaml:"indices,flow"`
	HasMaterial bool      `yaml:"has_material"`
	MaterialID  uint64    `yaml:"material_id"`
}

type materialDump struct {
	DiffuseTexture string `yaml:"diffuse_texture"`
}

// cmdDump writes every record field as YAML. Output format does not apply.
func cmdDump(w io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: objinfo dump <file.obj>", errUsage)
	}

	r, err := loadRecords(args[0])
	if err != nil {
		return err
	}
	defer cabi.FreeModelsAndMaterials(r)

	var out struct {
		Models    []modelDump    `yaml:"models"`
		Materials []materialDump `yaml:"materials"`
	}
	for _, m := range r.Models.Slice() {
		out.Models = append(out.Models, modelDump{
			Name:        cabi.GoString(m.Name),
			Positions:   m.Positions.Slice(),
			Normals:     m.Normals.Slice(),
			Texcoords:   m.Texcoords.Slice(),
			Indices:     m.Indices.Slice(),
			HasMaterial: m.HasMaterial != 0,
			MaterialID:  uint64(m.MaterialID),
		})
	}
	for _, m := range r.Materials.Slice() {
		out.Materials = append(out.Materials, materialDump{DiffuseTexture: cabi.GoString(m.DiffuseTexture)})
	}
	return writeYAML(w, out)
}
