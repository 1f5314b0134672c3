package cabi

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objloader/internal/logger"
	"github.com/Faultbox/objloader/pkg/encoding"
	"github.com/Faultbox/objloader/pkg/wavefront"
)

// DecodePath validates the raw bytes of a caller-supplied path. It touches no
// files.
func DecodePath(raw []byte) (string, error) {
	path, err := encoding.StrictUTF8(raw)
	if err != nil {
		return "", &Error{Kind: KindInvalidPath, Err: err}
	}
	return path, nil
}

// Load parses the OBJ file at path, triangulated and single-indexed, and
// converts every model and material into records. On success the caller owns
// the result and must release it with FreeModelsAndMaterials. On error
// nothing is returned and nothing stays allocated.
func Load(path string) (ModelsAndMaterials, error) {
	start := time.Now()

	scene, err := wavefront.Load(path, wavefront.GPULoadOptions)
	if err != nil {
		return ModelsAndMaterials{}, &Error{Kind: KindParse, Err: err}
	}
	if scene.MaterialErr != nil {
		return ModelsAndMaterials{}, &Error{Kind: KindMaterial, Err: scene.MaterialErr}
	}

	models := make([]Model, 0, len(scene.Models))
	for _, m := range scene.Models {
		rec, err := ModelFromParsed(m)
		if err != nil {
			releaseAll(models, nil)
			return ModelsAndMaterials{}, err
		}
		models = append(models, rec)
	}

	materials := make([]Material, 0, len(scene.Materials))
	for _, m := range scene.Materials {
		rec, err := MaterialFromParsed(m)
		if err != nil {
			releaseAll(models, materials)
			return ModelsAndMaterials{}, err
		}
		materials = append(materials, rec)
	}

	logger.Debug("loaded obj",
		zap.String("path", path),
		zap.Int("models", len(models)),
		zap.Int("materials", len(materials)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return ModelsAndMaterials{
		Models:    NewArray(models),
		Materials: NewArray(materials),
	}, nil
}

// releaseAll frees records that were converted before a later one failed.
func releaseAll(models []Model, materials []Material) {
	for i := range models {
		models[i].release()
	}
	for i := range materials {
		materials[i].release()
	}
}
