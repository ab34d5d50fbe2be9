package shaderbind

// Reflection is an immutable snapshot of a shader's parameter layout:
// every uniform buffer block, loose uniform, and texture slot the shader
// exposes. It is normally produced by a reflection front end (see the
// wgslreflect subpackage) and consumed once by New; the engine never
// mutates or resizes it afterwards.
type Reflection struct {
	// Buffers lists uniform buffer blocks and loose uniforms in
	// declaration order. Bind iterates slots in this order.
	Buffers []BufferArg

	// Textures lists texture slots in declaration order. Texture names
	// must be unique across all shader stages.
	Textures []TextureArg
}

// BufferArg describes one uniform buffer block or one loose uniform.
// Buffer names are unique per (name, stage) pair, not globally: the same
// block name may appear once per stage.
type BufferArg struct {
	// Name is the block name, or the uniform name for a loose uniform.
	Name string

	// Stage is the shader stage the block is declared in.
	Stage ShaderStage

	// Length is the declared byte size of the block's payload.
	Length uint

	// IsBlock is true for a named aggregate bound as one unit, false for
	// a single top-level uniform bound individually (GL only).
	IsBlock bool

	// BindIndex is the declared binding index of the block.
	BindIndex int

	// Members lists the block's members. A loose uniform has exactly one
	// member describing itself.
	Members []BufferMember
}

// BufferMember describes one member of a buffer block.
type BufferMember struct {
	// Name is the member name, used for uniform lookup. A name may
	// legitimately resolve to several stage-specific slots at once.
	Name string

	// Type is the member's declared uniform type.
	Type UniformType

	// Offset is the member's byte offset within the block.
	Offset uint

	// ArrayLength is the declared element count; 1 for non-arrays.
	ArrayLength uint
}

// TextureArg describes one texture slot. Each texture is assumed to pair
// one-to-one with a sampler at the same bind index.
type TextureArg struct {
	// Name is the texture name, unique across all stages.
	Name string

	// Stage is the shader stage the texture is visible to.
	Stage ShaderStage

	// BindIndex is the declared texture binding index.
	BindIndex int
}
