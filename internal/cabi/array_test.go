package cabi

import (
	"errors"
	"reflect"
	"testing"
	"unsafe"

	"github.com/Faultbox/objloader/pkg/encoding"
)

func TestArray_RoundTrip(t *testing.T) {
	tr := trackAllocations(t)

	src := []float32{0, 1, 2, 3.5, -4, 5}
	a := NewArray(src)

	if a.Ptr == nil || a.Len != uintptr(len(src)) {
		t.Fatalf("array = {%p, %d}", a.Ptr, a.Len)
	}
	if tr.allocs != 1 {
		t.Errorf("expected one allocation, got %d", tr.allocs)
	}
	if got := tr.live[uintptr(unsafe.Pointer(a.Ptr))]; got != 4*uintptr(len(src)) {
		t.Errorf("allocated %d bytes, want %d", got, 4*len(src))
	}
	if !reflect.DeepEqual(a.Slice(), src) {
		t.Errorf("slice = %v, want %v", a.Slice(), src)
	}

	// The array holds its own copy.
	src[0] = 99
	if a.Slice()[0] != 0 {
		t.Error("array aliases the source slice")
	}

	FreeArray(a)
	if tr.frees != 1 {
		t.Errorf("expected one free, got %d", tr.frees)
	}
}

func TestArray_Empty(t *testing.T) {
	tr := trackAllocations(t)

	for _, src := range [][]uint32{nil, {}} {
		a := NewArray(src)
		if a.Ptr != nil || a.Len != 0 {
			t.Errorf("empty array = {%p, %d}, want {nil, 0}", a.Ptr, a.Len)
		}
		if a.Slice() != nil {
			t.Error("empty array should have a nil view")
		}
		FreeArray(a)
	}

	if tr.allocs != 0 || tr.frees != 0 {
		t.Errorf("empty arrays touched the allocator: %d allocs, %d frees", tr.allocs, tr.frees)
	}
}

func TestArray_Bytes(t *testing.T) {
	trackAllocations(t)

	a := NewArray([]uint32{1, 2, 3})
	defer FreeArray(a)
	if a.Bytes() != 12 {
		t.Errorf("Bytes() = %d, want 12", a.Bytes())
	}

	m := NewArray(make([]Model, 2))
	defer FreeArray(m)
	if m.Bytes() != 2*unsafe.Sizeof(Model{}) {
		t.Errorf("Bytes() = %d, want %d", m.Bytes(), 2*unsafe.Sizeof(Model{}))
	}
}

func TestCString(t *testing.T) {
	tr := trackAllocations(t)

	tests := []string{"Cube", "", "名前 with spaces"}
	for _, s := range tests {
		p, err := CString(s)
		if err != nil {
			t.Fatalf("CString(%q): %v", s, err)
		}
		if p == nil {
			t.Fatalf("CString(%q) returned nil", s)
		}
		if got := GoString(p); got != s {
			t.Errorf("round trip = %q, want %q", got, s)
		}
		if size := tr.live[uintptr(unsafe.Pointer(p))]; size != uintptr(len(s)+1) {
			t.Errorf("allocated %d bytes for %q", size, s)
		}
		FreeString(p)
	}
}

func TestCString_InteriorNul(t *testing.T) {
	tr := trackAllocations(t)

	_, err := CString("bad\x00name")
	if !errors.Is(err, encoding.ErrInteriorNul) {
		t.Errorf("expected ErrInteriorNul, got %v", err)
	}
	if tr.allocs != 0 {
		t.Errorf("rejected string allocated %d times", tr.allocs)
	}
}

func TestNilStrings(t *testing.T) {
	if GoString(nil) != "" {
		t.Error("GoString(nil) should be empty")
	}
	FreeString(nil)
}

// The records must match obj_loader.h on 64-bit targets.
func TestRecordLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout constants are for 64-bit targets")
	}

	var (
		m Model
		r ModelsAndMaterials
	)
	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Array.Len", unsafe.Offsetof(m.Positions.Len), 8},
		{"Model.Normals", unsafe.Offsetof(m.Normals), 16},
		{"Model.Texcoords", unsafe.Offsetof(m.Texcoords), 32},
		{"Model.Indices", unsafe.Offsetof(m.Indices), 48},
		{"Model.MaterialID", unsafe.Offsetof(m.MaterialID), 64},
		{"Model.HasMaterial", unsafe.Offsetof(m.HasMaterial), 72},
		{"Model.Name", unsafe.Offsetof(m.Name), 80},
		{"sizeof(Model)", unsafe.Sizeof(m), 88},
		{"sizeof(Material)", unsafe.Sizeof(Material{}), 8},
		{"ModelsAndMaterials.Materials", unsafe.Offsetof(r.Materials), 16},
		{"sizeof(ModelsAndMaterials)", unsafe.Sizeof(r), 32},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("%s = %d, want %d", o.name, o.got, o.want)
		}
	}
}
