package shaderbind

import (
	"bytes"
	"errors"
	"testing"
)

func TestStagingArena_WriteAt(t *testing.T) {
	tests := []struct {
		name    string
		cap     uint
		offset  uint
		src     []byte
		wantErr bool
	}{
		{"start", 16, 0, []byte{1, 2, 3, 4}, false},
		{"middle", 16, 8, []byte{5, 6}, false},
		{"exact end", 16, 12, []byte{1, 2, 3, 4}, false},
		{"whole arena", 8, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}, false},
		{"one past end", 16, 13, []byte{1, 2, 3, 4}, true},
		{"offset beyond cap", 16, 32, []byte{1}, true},
		{"empty write at cap", 16, 16, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newStagingArena(tt.cap)
			err := a.writeAt(tt.offset, tt.src)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("writeAt() error = %v, want ErrOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("writeAt() error = %v", err)
			}
			got := a.bytes()[tt.offset : tt.offset+uint(len(tt.src))]
			if !bytes.Equal(got, tt.src) {
				t.Errorf("arena contents = %v, want %v", got, tt.src)
			}
		})
	}
}

func TestStagingArena_RejectedWriteLeavesContents(t *testing.T) {
	a := newStagingArena(8)
	if err := a.writeAt(0, []byte{9, 9, 9, 9, 9, 9, 9, 9}); err != nil {
		t.Fatalf("writeAt() error = %v", err)
	}
	if err := a.writeAt(4, []byte{1, 2, 3, 4, 5}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("writeAt() error = %v, want ErrOutOfRange", err)
	}
	want := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	if !bytes.Equal(a.bytes(), want) {
		t.Errorf("arena modified by rejected write: %v", a.bytes())
	}
}

func TestStagingArena_Slice(t *testing.T) {
	a := newStagingArena(16)
	if err := a.writeAt(4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("writeAt() error = %v", err)
	}

	got, err := a.slice(4, 4)
	if err != nil {
		t.Fatalf("slice() error = %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("slice(4, 4) = %v, want [1 2 3 4]", got)
	}

	if _, err := a.slice(12, 8); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("slice(12, 8) error = %v, want ErrOutOfRange", err)
	}
}

func TestStagingArena_Capacity(t *testing.T) {
	a := newStagingArena(256)
	if got := a.capacity(); got != 256 {
		t.Errorf("capacity() = %d, want 256", got)
	}
}
