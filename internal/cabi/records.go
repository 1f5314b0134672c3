package cabi

// Model mirrors struct Model in obj_loader.h. Fields may only be appended.
type Model struct {
	Positions   Array[float32] // xyz per vertex
	Normals     Array[float32] // xyz per vertex, or empty
	Texcoords   Array[float32] // uv per vertex, or empty
	Indices     Array[uint32]  // triangles, shared by all attributes
	MaterialID  uintptr        // meaningful only when HasMaterial is 1
	HasMaterial uint8
	Name        *byte
}

// Material mirrors struct Material in obj_loader.h. Fields may only be
// appended.
type Material struct {
	DiffuseTexture *byte
}

// ModelsAndMaterials mirrors struct ModelsAndMaterials in obj_loader.h.
type ModelsAndMaterials struct {
	Models    Array[Model]
	Materials Array[Material]
}

// release frees everything m owns and zeroes it.
func (m *Model) release() {
	FreeArray(m.Positions)
	FreeArray(m.Normals)
	FreeArray(m.Texcoords)
	FreeArray(m.Indices)
	FreeString(m.Name)
	*m = Model{}
}

func (m *Material) release() {
	FreeString(m.DiffuseTexture)
	*m = Material{}
}

// FreeModels releases every model's arrays and name, then the array itself.
func FreeModels(a Array[Model]) {
	models := a.Slice()
	for i := range models {
		models[i].release()
	}
	FreeArray(a)
}

// FreeMaterials releases every material's strings, then the array itself.
func FreeMaterials(a Array[Material]) {
	materials := a.Slice()
	for i := range materials {
		materials[i].release()
	}
	FreeArray(a)
}

// FreeModelsAndMaterials releases a load result and everything it owns.
func FreeModelsAndMaterials(r ModelsAndMaterials) {
	FreeModels(r.Models)
	FreeMaterials(r.Materials)
}
