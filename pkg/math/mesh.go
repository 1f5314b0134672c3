package math

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// BoundsOf returns the bounding box of a flat xyz position array. An empty
// array yields the zero box.
func BoundsOf(positions []float32) AABB {
	n := len(positions) / 3
	if n == 0 {
		return AABB{}
	}
	b := AABB{Min: Vec3At(positions, 0), Max: Vec3At(positions, 0)}
	for i := 1; i < n; i++ {
		p := Vec3At(positions, i)
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// TriangleArea returns the area of the triangle abc.
func TriangleArea(a, b, c Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}

// DegenerateTriangles counts triangles in an index list whose area is zero,
// such as faces that repeat a vertex. Trailing indices that do not form a
// full triangle are ignored.
func DegenerateTriangles(positions []float32, indices []uint32) int {
	count := 0
	for i := 0; i+2 < len(indices); i += 3 {
		a := Vec3At(positions, int(indices[i]))
		b := Vec3At(positions, int(indices[i+1]))
		c := Vec3At(positions, int(indices[i+2]))
		if TriangleArea(a, b, c) == 0 {
			count++
		}
	}
	return count
}
