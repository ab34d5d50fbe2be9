package shaderbind

import "github.com/gogpu/gputypes"

// Device exposes the capability queries and resource creation the engine
// needs from the device layer. Implementations live with the backend; the
// engine only ever calls these methods.
type Device interface {
	// Backend reports which graphics API the device drives.
	Backend() BackendType

	// SupportsBindBytes reports whether the device can bind small uniform
	// payloads inline without a discrete buffer, and the byte limit for
	// such binds. ok is false when the feature is unavailable or the
	// limit cannot be determined.
	SupportsBindBytes() (limit uint, ok bool)

	// UniformBufferLimit returns the device's maximum uniform buffer size
	// in bytes, or 0 when the device reports no limit.
	UniformBufferLimit() uint

	// CreateBuffer creates a GPU buffer of the given byte length.
	// The engine requests gputypes.BufferUsageUniform |
	// gputypes.BufferUsageCopyDst for every allocation it makes.
	CreateBuffer(length uint, usage gputypes.BufferUsage) (Buffer, error)
}

// Buffer is a GPU buffer created by the device layer. Buffers are shared
// between the engine and the backend: in-flight GPU work may reference a
// buffer after the engine's logical slot is reused or destroyed, so
// release is deferred to the backend's lifetime management.
type Buffer interface {
	// Upload copies data into the buffer at the given byte offset.
	Upload(data []byte, offset uint) error
}

// Texture is an opaque handle to a GPU texture owned by the device layer.
type Texture interface{}

// Sampler is an opaque handle to a GPU sampler state.
type Sampler interface{}

// PipelineState exposes the per-pipeline lookups the bind step needs.
type PipelineState interface {
	// UniformLocation returns the location of a loose uniform for
	// single-uniform binds, or a negative value when the uniform does
	// not exist in the pipeline (GL only).
	UniformLocation(name string, stage ShaderStage) int

	// BlockBindingPoint returns the binding point of a uniform block
	// (GL only).
	BlockBindingPoint(name string) int
}

// RenderCommandEncoder records resource binds into the active draw
// encoding context. All calls are synchronous; the engine issues them
// once per draw during Bind.
type RenderCommandEncoder interface {
	// BindBuffer binds a GPU buffer at the given slot index and byte
	// offset for the targeted stages.
	BindBuffer(index int, target BindTarget, buf Buffer, offset uint)

	// BindBytes binds a small payload inline, without a discrete buffer.
	BindBytes(index int, target BindTarget, data []byte)

	// BindUniform binds a single loose uniform from staging memory at the
	// pipeline's per-uniform location (GL only).
	BindUniform(location int, utype UniformType, numElements int, data []byte)

	// BindTexture binds a texture at its declared index.
	BindTexture(index int, target BindTarget, tex Texture)

	// BindSampler binds a sampler state at the given index. Textures and
	// samplers are assumed paired one-to-one at the same index.
	BindSampler(index int, target BindTarget, smp Sampler)
}
