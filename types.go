package shaderbind

import "fmt"

// BackendType identifies the graphics API the engine is driving.
// The binding strategy for every slot is decided by backend: see the
// policy table in New.
type BackendType uint8

const (
	// BackendGL is OpenGL / OpenGL ES. Uniform blocks get discrete
	// buffers; loose uniforms are bound individually from staging memory.
	BackendGL BackendType = iota + 1

	// BackendMetal is Metal. Small payloads are pushed inline as bytes;
	// payloads above the device's inline limit get discrete buffers.
	BackendMetal

	// BackendVulkan is Vulkan. Every block gets a discrete buffer, ring
	// suballocated so one physical buffer serves multiple generations.
	BackendVulkan
)

// String returns the string representation of BackendType.
func (b BackendType) String() string {
	switch b {
	case BackendGL:
		return "GL"
	case BackendMetal:
		return "Metal"
	case BackendVulkan:
		return "Vulkan"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(b))
	}
}

// ShaderStage identifies the pipeline stage a resource belongs to.
type ShaderStage uint8

const (
	// StageVertex is the vertex shader stage.
	StageVertex ShaderStage = iota
	// StageFragment is the fragment shader stage.
	StageFragment
	// StageCompute is the compute shader stage.
	StageCompute
)

// String returns the string representation of ShaderStage.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "Vertex"
	case StageFragment:
		return "Fragment"
	case StageCompute:
		return "Compute"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// BindTarget is a bitmask identifying which pipeline stages a bound
// resource is visible to.
type BindTarget uint8

const (
	// BindTargetVertex makes a resource visible to the vertex stage.
	BindTargetVertex BindTarget = 1 << 0
	// BindTargetFragment makes a resource visible to the fragment stage.
	BindTargetFragment BindTarget = 1 << 1
	// BindTargetAllGraphics makes a resource visible to all graphics
	// stages. Vulkan buffer binds always use this target.
	BindTargetAllGraphics = BindTargetVertex | BindTargetFragment
)

// bindTargetForStage maps a shader stage to its single-stage bind target.
// Compute has no render bind target; callers only pass render stages here.
func bindTargetForStage(stage ShaderStage) BindTarget {
	switch stage {
	case StageVertex:
		return BindTargetVertex
	case StageFragment:
		return BindTargetFragment
	default:
		Logger().Error("shaderbind: invalid shader stage for rendering", "stage", stage)
		return 0
	}
}

// UniformType is the declared type of a uniform slot.
type UniformType uint8

const (
	// UniformTypeInvalid is the zero value; no slot carries it.
	UniformTypeInvalid UniformType = iota
	// UniformTypeBool is a single boolean.
	UniformTypeBool
	// UniformTypeInt is a 32-bit signed integer.
	UniformTypeInt
	// UniformTypeFloat is a 32-bit float.
	UniformTypeFloat
	// UniformTypeFloat2 is a 2-component float vector.
	UniformTypeFloat2
	// UniformTypeFloat3 is a 3-component float vector. Metal and Vulkan
	// pad it to 4 components (16 bytes) in buffer memory.
	UniformTypeFloat3
	// UniformTypeFloat4 is a 4-component float vector.
	UniformTypeFloat4
	// UniformTypeFloat2x2 is a 2x2 float matrix.
	UniformTypeFloat2x2
	// UniformTypeFloat3x3 is a 3x3 float matrix. Metal and Vulkan pad
	// each column to 4 components (48 bytes total) in buffer memory.
	UniformTypeFloat3x3
	// UniformTypeFloat4x4 is a 4x4 float matrix.
	UniformTypeFloat4x4
)

// String returns the string representation of UniformType.
func (t UniformType) String() string {
	switch t {
	case UniformTypeBool:
		return "Bool"
	case UniformTypeInt:
		return "Int"
	case UniformTypeFloat:
		return "Float"
	case UniformTypeFloat2:
		return "Float2"
	case UniformTypeFloat3:
		return "Float3"
	case UniformTypeFloat4:
		return "Float4"
	case UniformTypeFloat2x2:
		return "Float2x2"
	case UniformTypeFloat3x3:
		return "Float3x3"
	case UniformTypeFloat4x4:
		return "Float4x4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Size returns the natural (tightly packed) byte size of the type.
// Backends that pad vector registers expect wider sizes for Float3 and
// Float3x3; see bindPolicy.expectedElementSize.
func (t UniformType) Size() uint {
	switch t {
	case UniformTypeBool:
		return 1
	case UniformTypeInt, UniformTypeFloat:
		return 4
	case UniformTypeFloat2:
		return 8
	case UniformTypeFloat3:
		return 12
	case UniformTypeFloat4, UniformTypeFloat2x2:
		return 16
	case UniformTypeFloat3x3:
		return 36
	case UniformTypeFloat4x4:
		return 64
	default:
		return 0
	}
}
