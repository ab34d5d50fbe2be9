package shaderbind

import "fmt"

// stagingArena is the host-side byte block mirroring one GPU buffer's
// contents before upload. Each buffer slot exclusively owns its arena for
// the slot's whole lifetime; all access goes through the bounds-checked
// primitives below, so there is no ad hoc pointer math anywhere else.
type stagingArena struct {
	buf []byte
}

func newStagingArena(capacity uint) *stagingArena {
	return &stagingArena{buf: make([]byte, capacity)}
}

// capacity returns the fixed byte capacity of the arena.
func (a *stagingArena) capacity() uint {
	return uint(len(a.buf))
}

// writeAt copies src into the arena at offset. The destination range must
// lie entirely within the arena.
func (a *stagingArena) writeAt(offset uint, src []byte) error {
	end := offset + uint(len(src))
	if end < offset || end > uint(len(a.buf)) {
		return fmt.Errorf("%w: write [%d:%d) exceeds arena capacity %d",
			ErrOutOfRange, offset, end, len(a.buf))
	}
	copy(a.buf[offset:end], src)
	return nil
}

// slice returns a checked read view of [offset, offset+length).
func (a *stagingArena) slice(offset, length uint) ([]byte, error) {
	end := offset + length
	if end < offset || end > uint(len(a.buf)) {
		return nil, fmt.Errorf("%w: range [%d:%d) exceeds arena capacity %d",
			ErrOutOfRange, offset, end, len(a.buf))
	}
	return a.buf[offset:end], nil
}

// bytes returns the whole arena contents.
func (a *stagingArena) bytes() []byte {
	return a.buf
}
