package shaderbind

// maxSuballocatedBufferSize caps suballocated uniform buffer allocations
// at 64K. The allocation is further clamped to the device's uniform buffer
// limit; on hardware whose limit is exactly 64K the whole range is used.
const maxSuballocatedBufferSize uint = 65536

// bindPolicy concentrates every per-backend decision the engine makes:
// which slots need discrete GPU buffers, what byte width a typed write
// must have, and which stages a buffer bind targets. It is built once per
// engine from the device's capabilities and reused at every call site.
type bindPolicy struct {
	backend        BackendType
	hasBindBytes   bool
	bindBytesLimit uint
}

func newBindPolicy(dev Device) bindPolicy {
	p := bindPolicy{backend: dev.Backend()}
	if limit, ok := dev.SupportsBindBytes(); ok {
		p.hasBindBytes = true
		p.bindBytesLimit = limit
	}
	return p
}

// needsDiscreteBuffer reports whether a slot of the given shape requires a
// GPU buffer object.
//
//	GL:     only true uniform blocks (loose uniforms bind individually)
//	Metal:  only payloads above the inline-bytes limit, or when inline
//	        bytes is unsupported
//	Vulkan: always
func (p bindPolicy) needsDiscreteBuffer(isBlock bool, length uint) bool {
	switch p.backend {
	case BackendGL:
		return isBlock
	case BackendVulkan:
		return true
	default:
		return !p.hasBindBytes || length > p.bindBytesLimit
	}
}

// expectedElementSize returns the byte width the backend expects for one
// element of the given type. Metal and Vulkan pad vector registers to 4
// components, widening Float3 to 16 bytes and Float3x3 to 48.
func (p bindPolicy) expectedElementSize(t UniformType) uint {
	size := t.Size()
	if p.backend == BackendMetal || p.backend == BackendVulkan {
		switch t {
		case UniformTypeFloat3:
			size = 16
		case UniformTypeFloat3x3:
			size = 48
		}
	}
	return size
}

// validatesElementSize reports whether writes are checked against the
// expected element width. Vulkan accepts raw writes unchecked.
func (p bindPolicy) validatesElementSize() bool {
	return p.backend != BackendVulkan
}

// suballocates reports whether buffers are ring-suballocated so one
// physical buffer serves multiple logical generations.
func (p bindPolicy) suballocates() bool {
	return p.backend == BackendVulkan
}

// storesPadded reports whether host values for Float3/Float3x3 are written
// to staging memory in their padded 4-wide form. Metal stores them padded;
// GL and Vulkan expect a tightly packed layout, so typed setters repack.
func (p bindPolicy) storesPadded() bool {
	return p.backend == BackendMetal
}

// bufferBindTarget returns the stages a buffer bind targets. Vulkan binds
// buffers visible to all graphics stages; GL and Metal target the block's
// own stage.
func (p bindPolicy) bufferBindTarget(stage ShaderStage) BindTarget {
	if p.backend == BackendVulkan {
		return BindTargetAllGraphics
	}
	return bindTargetForStage(stage)
}
