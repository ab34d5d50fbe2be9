// Package simd defines host-side value layouts for shader uniform data.
//
// The types mirror the 4-wide register layout GPU-oriented SIMD math
// libraries use on the host: Float3 and each column of Float3x3 carry one
// padding float. Backends that store vectors padded (Metal) consume these
// layouts directly; backends that expect tightly packed data (OpenGL,
// Vulkan buffers written packed) use the Packed converters to strip the
// padding before the write.
package simd

import "unsafe"

// Int1 is a single 32-bit signed integer uniform value.
type Int1 = int32

// Float1 is a single 32-bit float uniform value.
type Float1 = float32

// Float2 is a 2-component float vector.
type Float2 [2]float32

// Float3 is a 3-component float vector padded to 4 components. The fourth
// element is padding and never read.
type Float3 [4]float32

// Float4 is a 4-component float vector.
type Float4 [4]float32

// Float2x2 is a 2x2 float matrix, column-major, tightly packed.
type Float2x2 [4]float32

// Float3x3 is a 3x3 float matrix, column-major, with each column padded to
// 4 components. Elements 3, 7 and 11 are padding and never read.
type Float3x3 [12]float32

// Float4x4 is a 4x4 float matrix, column-major.
type Float4x4 [16]float32

// Vec3 builds a Float3 from its three components.
func Vec3(x, y, z float32) Float3 {
	return Float3{x, y, z, 0}
}

// Packed returns the three significant components, dropping the padding.
func (v Float3) Packed() [3]float32 {
	return [3]float32{v[0], v[1], v[2]}
}

// Packed returns the nine significant elements in column order, dropping
// the padding float after each column.
func (m Float3x3) Packed() [9]float32 {
	var out [9]float32
	for col := 0; col < 3; col++ {
		copy(out[col*3:col*3+3], m[col*4:col*4+3])
	}
	return out
}

// PackFloat3s strips the padding component from each vector, yielding a
// contiguous packed float slice.
func PackFloat3s(vs []Float3) []float32 {
	out := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// PackFloat3x3s strips the per-column padding from each matrix, yielding a
// contiguous packed float slice.
func PackFloat3x3s(ms []Float3x3) []float32 {
	out := make([]float32, 0, 9*len(ms))
	for i := range ms {
		p := ms[i].Packed()
		out = append(out, p[:]...)
	}
	return out
}

// Bytes returns the raw memory of v as a byte slice. The slice aliases v
// and is only valid while v is reachable.
func Bytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// SliceBytes returns the raw memory of vs as a byte slice. The slice
// aliases the backing array of vs.
func SliceBytes[T any](vs []T) []byte {
	if len(vs) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&vs[0])), uintptr(len(vs))*unsafe.Sizeof(zero))
}
