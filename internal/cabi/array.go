// Package cabi converts parsed meshes into C-compatible records whose memory
// is owned by whoever holds them, and releases them again.
//
// Every Array and string is allocated through the package Allocator (the C
// heap by default) and is released exactly once, either by the matching Free
// function here or by the exported free_* symbols of the shared library.
package cabi

import "unsafe"

// Array is a transferable {pointer, length} run of T with the same layout as
//
//	struct { T *ptr; size_t len; }
//
// Ptr is non-nil whenever Len > 0. An empty Array is {nil, 0} and owns nothing.
type Array[T any] struct {
	Ptr *T
	Len uintptr
}

// NewArray copies xs, in order, into a fresh allocation.
func NewArray[T any](xs []T) Array[T] {
	if len(xs) == 0 {
		return Array[T]{}
	}
	p := (*T)(allocator.Alloc(elemSize[T]() * uintptr(len(xs))))
	copy(unsafe.Slice(p, len(xs)), xs)
	return Array[T]{Ptr: p, Len: uintptr(len(xs))}
}

// Slice returns a view of the array's elements. The view is only valid until
// the array is freed.
func (a Array[T]) Slice() []T {
	if a.Len == 0 || a.Ptr == nil {
		return nil
	}
	return unsafe.Slice(a.Ptr, int(a.Len))
}

// Bytes returns the size of the backing allocation.
func (a Array[T]) Bytes() uintptr {
	return elemSize[T]() * a.Len
}

// FreeArray releases the backing allocation. Elements are not visited; use
// FreeModels or FreeMaterials for arrays whose elements own memory.
func FreeArray[T any](a Array[T]) {
	if a.Len == 0 || a.Ptr == nil {
		return
	}
	allocator.Free(unsafe.Pointer(a.Ptr), a.Bytes())
}

func elemSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}
