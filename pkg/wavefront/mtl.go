package wavefront

import (
	"fmt"
	"io"
	"strconv"
)

// parseMTL parses a material library. Materials are returned in file order.
func parseMTL(r io.Reader, name string) ([]Material, error) {
	var (
		materials []Material
		cur       *Material
	)
	fail := func(st statement, format string, args ...any) error {
		return fmt.Errorf("%s:%d: %w: %s", name, st.line, ErrMaterialParse, fmt.Sprintf(format, args...))
	}

	err := scanStatements(r, func(st statement) error {
		if st.keyword == "newmtl" {
			if st.rest == "" {
				return fail(st, "newmtl without a name")
			}
			materials = append(materials, newMaterial(st.rest))
			cur = &materials[len(materials)-1]
			return nil
		}
		if cur == nil {
			return fail(st, "%q before newmtl", st.keyword)
		}

		switch st.keyword {
		case "Ka", "Kd", "Ks":
			rgb, err := parseColor(st.args)
			if err != nil {
				return fail(st, "%s: %v", st.keyword, err)
			}
			switch st.keyword {
			case "Ka":
				cur.Ambient = rgb
			case "Kd":
				cur.Diffuse = rgb
			case "Ks":
				cur.Specular = rgb
			}
		case "Ns", "Ni", "d", "Tr":
			if len(st.args) != 1 {
				return fail(st, "%s expects one value", st.keyword)
			}
			v, err := strconv.ParseFloat(st.args[0], 32)
			if err != nil {
				return fail(st, "%s: %v", st.keyword, err)
			}
			switch st.keyword {
			case "Ns":
				cur.Shininess = float32(v)
			case "Ni":
				cur.OpticalDensity = float32(v)
			case "d":
				cur.Dissolve = float32(v)
			case "Tr":
				cur.Dissolve = 1 - float32(v)
			}
		case "illum":
			if len(st.args) != 1 {
				return fail(st, "illum expects one value")
			}
			v, err := strconv.Atoi(st.args[0])
			if err != nil {
				return fail(st, "illum: %v", err)
			}
			cur.Illumination = v
		case "map_Ka":
			cur.AmbientTexture = st.rest
		case "map_Kd":
			cur.DiffuseTexture = st.rest
		case "map_Ks":
			cur.SpecularTexture = st.rest
		case "map_Ns":
			cur.ShininessTexture = st.rest
		case "map_d":
			cur.DissolveTexture = st.rest
		case "map_Bump", "map_bump", "bump", "norm":
			cur.NormalTexture = st.rest
		default:
			cur.UnknownParams[st.keyword] = st.rest
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return materials, nil
}

func newMaterial(name string) Material {
	return Material{
		Name:          name,
		Dissolve:      1,
		UnknownParams: make(map[string]string),
	}
}

// parseColor accepts "r g b" or a single value applied to all channels.
func parseColor(args []string) ([3]float32, error) {
	var rgb [3]float32
	vals, err := parseFloats(args)
	if err != nil {
		return rgb, err
	}
	switch len(vals) {
	case 1:
		rgb = [3]float32{vals[0], vals[0], vals[0]}
	case 3:
		copy(rgb[:], vals)
	default:
		return rgb, fmt.Errorf("expected 1 or 3 values, got %d", len(vals))
	}
	return rgb, nil
}
