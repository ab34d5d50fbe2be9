package simd

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestVec3(t *testing.T) {
	v := Vec3(1, 2, 3)
	if v[0] != 1 || v[1] != 2 || v[2] != 3 {
		t.Errorf("Vec3(1, 2, 3) = %v", v)
	}
	if v[3] != 0 {
		t.Errorf("padding component = %v, want 0", v[3])
	}
}

func TestFloat3_Packed(t *testing.T) {
	v := Float3{1, 2, 3, 99} // padding value must be dropped
	if got := v.Packed(); got != [3]float32{1, 2, 3} {
		t.Errorf("Packed() = %v", got)
	}
}

func TestFloat3x3_Packed(t *testing.T) {
	m := Float3x3{
		1, 2, 3, 99,
		4, 5, 6, 99,
		7, 8, 9, 99,
	}
	want := [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if got := m.Packed(); got != want {
		t.Errorf("Packed() = %v, want %v", got, want)
	}
}

func TestPackFloat3s(t *testing.T) {
	got := PackFloat3s([]Float3{Vec3(1, 2, 3), Vec3(4, 5, 6)})
	want := []float32{1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPackFloat3s_Empty(t *testing.T) {
	if got := PackFloat3s(nil); len(got) != 0 {
		t.Errorf("PackFloat3s(nil) = %v, want empty", got)
	}
}

func TestPackFloat3x3s(t *testing.T) {
	m := Float3x3{
		1, 2, 3, 0,
		4, 5, 6, 0,
		7, 8, 9, 0,
	}
	got := PackFloat3x3s([]Float3x3{m, m})
	if len(got) != 18 {
		t.Fatalf("len = %d, want 18", len(got))
	}
	for i := 0; i < 9; i++ {
		if got[i] != float32(i+1) || got[9+i] != float32(i+1) {
			t.Fatalf("packed elements = %v", got)
		}
	}
}

func TestBytes_Lengths(t *testing.T) {
	var (
		f   Float1
		v2  Float2
		v3  Float3
		v4  Float4
		m2  Float2x2
		m3  Float3x3
		m4  Float4x4
		i32 Int1
	)
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"Float1", len(Bytes(&f)), 4},
		{"Int1", len(Bytes(&i32)), 4},
		{"Float2", len(Bytes(&v2)), 8},
		{"Float3 padded", len(Bytes(&v3)), 16},
		{"Float4", len(Bytes(&v4)), 16},
		{"Float2x2", len(Bytes(&m2)), 16},
		{"Float3x3 padded", len(Bytes(&m3)), 48},
		{"Float4x4", len(Bytes(&m4)), 64},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestBytes_LittleEndianContent(t *testing.T) {
	v := Float1(1.5)
	b := Bytes(&v)
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b)); got != 1.5 {
		t.Errorf("round-trip = %v, want 1.5", got)
	}
}

func TestBytes_AliasesValue(t *testing.T) {
	v := Vec3(1, 2, 3)
	b := Bytes(&v)
	v[1] = 7
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])); got != 7 {
		t.Errorf("byte view after write = %v, want 7", got)
	}
}

func TestSliceBytes(t *testing.T) {
	vs := []Float4{{1, 2, 3, 4}, {5, 6, 7, 8}}
	b := SliceBytes(vs)
	if len(b) != 32 {
		t.Fatalf("len = %d, want 32", len(b))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[16:20])); got != 5 {
		t.Errorf("second element first component = %v, want 5", got)
	}
}

func TestSliceBytes_Empty(t *testing.T) {
	if got := SliceBytes([]Float4(nil)); got != nil {
		t.Errorf("SliceBytes(nil) = %v, want nil", got)
	}
}
