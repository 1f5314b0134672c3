package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objloader/internal/cabi"
	"github.com/Faultbox/objloader/internal/config"
)

const sceneOBJ = `mtllib scene.mtl
v 0 0 0
v 2 0 0
v 2 1 0
v 0 1 -1
vn 0 0 1
o Marker
f 1 2 3
o Floor
usemtl stone
f 1//1 2//1 3//1 4//1
`

const sceneMTL = `newmtl stone
Kd 0.5 0.25 1
d 0.75
map_Kd textures/stone.png
bump textures/stone_n.png
`

func writeScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(sceneMTL), 0644); err != nil {
		t.Fatalf("failed to write mtl: %v", err)
	}
	path := filepath.Join(dir, "scene.obj")
	if err := os.WriteFile(path, []byte(sceneOBJ), 0644); err != nil {
		t.Fatalf("failed to write obj: %v", err)
	}
	return path
}

func runCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Format = format
	var out bytes.Buffer
	err := run(&out, cfg, args[0], args[1:])
	return out.String(), err
}

func TestInfo(t *testing.T) {
	path := writeScene(t)

	out, err := runCommand(t, config.FormatText, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Models:    2", "Materials: 1", "Vertices:  7", "Triangles: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoYAML(t *testing.T) {
	path := writeScene(t)

	out, err := runCommand(t, config.FormatYAML, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	var got struct {
		Models    int `yaml:"models"`
		Triangles int `yaml:"triangles"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if got.Models != 2 || got.Triangles != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestModels(t *testing.T) {
	path := writeScene(t)

	out, err := runCommand(t, config.FormatYAML, "models", path)
	if err != nil {
		t.Fatalf("models failed: %v", err)
	}
	var models []modelSummary
	if err := yaml.Unmarshal([]byte(out), &models); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}

	floor := models[1]
	if floor.Name != "Floor" || floor.Vertices != 4 || floor.Triangles != 2 || !floor.Normals {
		t.Errorf("floor = %+v", floor)
	}
	if floor.Material == nil || *floor.Material != 0 {
		t.Errorf("floor material = %v, want 0", floor.Material)
	}
	if floor.Min != [3]float32{0, 0, -1} || floor.Max != [3]float32{2, 1, 0} {
		t.Errorf("floor bounds = %v..%v", floor.Min, floor.Max)
	}

	marker := models[0]
	if marker.Name != "Marker" || marker.Material != nil || marker.Normals {
		t.Errorf("marker = %+v", marker)
	}

	out, err = runCommand(t, config.FormatText, "models", "-n", "1", path)
	if err != nil {
		t.Fatalf("models -n failed: %v", err)
	}
	if lines := strings.Count(out, "\n"); lines != 1 {
		t.Errorf("expected 1 line with -n 1, got %d:\n%s", lines, out)
	}
}

func TestMaterials(t *testing.T) {
	path := writeScene(t)

	out, err := runCommand(t, config.FormatYAML, "materials", path)
	if err != nil {
		t.Fatalf("materials failed: %v", err)
	}
	var materials []materialSummary
	if err := yaml.Unmarshal([]byte(out), &materials); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(materials))
	}
	m := materials[0]
	if m.Name != "stone" || m.Dissolve != 0.75 || m.Diffuse != [3]float32{0.5, 0.25, 1} {
		t.Errorf("material = %+v", m)
	}
	if m.DiffuseTexture != "textures/stone.png" || m.NormalTexture != "textures/stone_n.png" {
		t.Errorf("textures = %q, %q", m.DiffuseTexture, m.NormalTexture)
	}
}

func TestDump(t *testing.T) {
	path := writeScene(t)

	out, err := runCommand(t, config.FormatText, "dump", path)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	var got struct {
		Models    []modelDump    `yaml:"models"`
		Materials []materialDump `yaml:"materials"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(got.Models) != 2 || len(got.Materials) != 1 {
		t.Fatalf("got %d models, %d materials", len(got.Models), len(got.Materials))
	}
	marker := got.Models[0]
	if len(marker.Positions) != 9 || len(marker.Indices) != 3 || marker.HasMaterial {
		t.Errorf("marker = %+v", marker)
	}
	if got.Materials[0].DiffuseTexture != "textures/stone.png" {
		t.Errorf("diffuse texture = %q", got.Materials[0].DiffuseTexture)
	}
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.obj")
	noMTL := filepath.Join(dir, "no_mtl.obj")
	if err := os.WriteFile(noMTL, []byte("mtllib gone.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		args      []string
		wantUsage bool
		wantKind  cabi.Kind
	}{
		{"unknown command", []string{"explode"}, true, 0},
		{"info without file", []string{"info"}, true, 0},
		{"models bad flag", []string{"models", "-z", missing}, true, 0},
		{"missing file", []string{"info", missing}, false, cabi.KindParse},
		{"missing material library", []string{"dump", noMTL}, false, cabi.KindMaterial},
		{"materials missing library", []string{"materials", noMTL}, false, cabi.KindMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, config.FormatText, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, errUsage) != tt.wantUsage {
				t.Errorf("usage error = %v, want %v (%v)", errors.Is(err, errUsage), tt.wantUsage, err)
			}
			if cabi.KindOf(err) != tt.wantKind {
				t.Errorf("kind = %v, want %v", cabi.KindOf(err), tt.wantKind)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objloader.yaml")

	out, err := runCommand(t, config.FormatYAML, "init-config", path)
	if err != nil {
		t.Fatalf("init-config failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not YAML: %v", err)
	}
	if cfg.Output.Format != config.FormatYAML || cfg.Logging.Level != "info" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestModelsReportsDegenerateTriangles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.obj")
	obj := "o Sliver\nv 0 0 0\nv 1 0 0\nv 2 0 0\nv 0 1 0\nf 1 2 3\nf 1 2 4\n"
	if err := os.WriteFile(path, []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, config.FormatText, "models", path)
	if err != nil {
		t.Fatalf("models failed: %v", err)
	}
	if !strings.Contains(out, "degenerate=1") {
		t.Errorf("expected one degenerate triangle:\n%s", out)
	}
}
