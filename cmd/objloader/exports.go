package main

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#define OBJ_LOADER_INTERNAL
#include "obj_loader.h"
*/
import "C"

import (
	"strings"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/objloader/internal/cabi"
	"github.com/Faultbox/objloader/internal/config"
	"github.com/Faultbox/objloader/internal/logger"
)

// The Go records are reinterpreted as the header's structs, so their sizes
// must agree. Each pair fails to compile if either side is larger.
const (
	_ = unsafe.Sizeof(C.struct_F32s{}) - unsafe.Sizeof(cabi.Array[float32]{})
	_ = unsafe.Sizeof(cabi.Array[float32]{}) - unsafe.Sizeof(C.struct_F32s{})
	_ = unsafe.Sizeof(C.struct_U32s{}) - unsafe.Sizeof(cabi.Array[uint32]{})
	_ = unsafe.Sizeof(cabi.Array[uint32]{}) - unsafe.Sizeof(C.struct_U32s{})
	_ = unsafe.Sizeof(C.struct_Model{}) - unsafe.Sizeof(cabi.Model{})
	_ = unsafe.Sizeof(cabi.Model{}) - unsafe.Sizeof(C.struct_Model{})
	_ = unsafe.Sizeof(C.struct_Material{}) - unsafe.Sizeof(cabi.Material{})
	_ = unsafe.Sizeof(cabi.Material{}) - unsafe.Sizeof(C.struct_Material{})
	_ = unsafe.Sizeof(C.struct_ModelsAndMaterials{}) - unsafe.Sizeof(cabi.ModelsAndMaterials{})
	_ = unsafe.Sizeof(cabi.ModelsAndMaterials{}) - unsafe.Sizeof(C.struct_ModelsAndMaterials{})
)

var initOnce sync.Once

// initLogging configures the logger once per process from the settings load
// returns. A bad configuration falls back to the defaults; it must not stop a
// load.
func initLogging(load func() (*config.Config, error)) {
	initOnce.Do(func() {
		cfg, cfgErr := load()
		if cfgErr != nil {
			cfg = config.Default()
		}
		if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
			return
		}
		if cfgErr != nil {
			logger.Warn("using default configuration", zap.Error(cfgErr))
		}
	})
}

// mustLoad loads the file named by raw or terminates the process with a
// diagnostic on stderr and exit status 1. A path that fails to decode is
// reported without reading any config file.
func mustLoad(raw []byte) cabi.ModelsAndMaterials {
	path, err := cabi.DecodePath(raw)
	if err != nil {
		initLogging(config.FromEnv)
		fatal(err, zap.ByteString("path", raw))
	}
	initLogging(config.Load)

	r, err := cabi.Load(path)
	if err != nil {
		fatal(err, zap.String("path", path))
	}
	return r
}

func fatal(err error, fields ...zap.Field) {
	kind := cabi.KindOf(err)
	fields = append(fields, zap.Int32("code", int32(kind)), zap.Error(err))
	logger.Fatal(kind.String(), fields...)
}

// loadChecked is the recoverable variant of mustLoad. On failure it returns
// the error kind and a message that is safe to hand out as a C string.
func loadChecked(raw []byte) (cabi.ModelsAndMaterials, cabi.Kind, string) {
	path, err := cabi.DecodePath(raw)
	if err != nil {
		initLogging(config.FromEnv)
	} else {
		initLogging(config.Load)
		var r cabi.ModelsAndMaterials
		if r, err = cabi.Load(path); err == nil {
			return r, 0, ""
		}
	}
	logger.Debug("load failed", zap.ByteString("path", raw), zap.Error(err))
	return cabi.ModelsAndMaterials{}, cabi.KindOf(err), strings.ReplaceAll(err.Error(), "\x00", `\x00`)
}

func toC(r cabi.ModelsAndMaterials) C.struct_ModelsAndMaterials {
	return *(*C.struct_ModelsAndMaterials)(unsafe.Pointer(&r))
}

//export load_obj
func load_obj(path *C.char) C.struct_ModelsAndMaterials {
	return toC(mustLoad([]byte(C.GoString(path))))
}

//export load_obj_checked
func load_obj_checked(path *C.char, out *C.struct_ModelsAndMaterials, errMsg **C.char) C.int32_t {
	r, kind, msg := loadChecked([]byte(C.GoString(path)))
	if kind != 0 {
		if errMsg != nil {
			s, _ := cabi.CString(msg)
			*errMsg = (*C.char)(unsafe.Pointer(s))
		}
		return C.int32_t(kind)
	}
	if out == nil {
		cabi.FreeModelsAndMaterials(r)
		return 0
	}
	*out = toC(r)
	return 0
}

//export free_models_and_materials
func free_models_and_materials(r C.struct_ModelsAndMaterials) {
	cabi.FreeModelsAndMaterials(*(*cabi.ModelsAndMaterials)(unsafe.Pointer(&r)))
}

//export free_models
func free_models(models C.struct_Models) {
	cabi.FreeModels(*(*cabi.Array[cabi.Model])(unsafe.Pointer(&models)))
}

//export free_materials
func free_materials(materials C.struct_Materials) {
	cabi.FreeMaterials(*(*cabi.Array[cabi.Material])(unsafe.Pointer(&materials)))
}

//export free_f32s
func free_f32s(a C.struct_F32s) {
	cabi.FreeArray(*(*cabi.Array[float32])(unsafe.Pointer(&a)))
}

//export free_u32s
func free_u32s(a C.struct_U32s) {
	cabi.FreeArray(*(*cabi.Array[uint32])(unsafe.Pointer(&a)))
}

//export free_string
func free_string(s *C.char) {
	cabi.FreeString((*byte)(unsafe.Pointer(s)))
}
