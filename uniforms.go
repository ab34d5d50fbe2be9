package shaderbind

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderbind/simd"
)

// vertexBufferPrefix marks Metal reflection entries that describe vertex
// input buffers rather than shader parameters. They are not bindable
// through this engine and are skipped at construction.
const vertexBufferPrefix = "vertexBuffer."

// bufferKey identifies a buffer slot. Buffer names are unique per
// (name, stage) pair, not globally.
type bufferKey struct {
	name  string
	stage ShaderStage
}

// bufferSlot is one uniform buffer block (or loose uniform) and its
// backing resources. The slot exclusively owns its staging arena; the GPU
// buffer is shared with the device layer and may outlive the slot while
// GPU work is in flight.
type bufferSlot struct {
	desc  BufferArg
	arena *stagingArena

	// buffer is nil when the backend binds this slot without a discrete
	// GPU buffer (GL loose uniforms, Metal inline bytes).
	buffer Buffer

	// Ring suballocation state (Vulkan only). generations holds every
	// registered generation index in registration order; currentGeneration
	// is -1 until the first SetSuballocationIndex call.
	isSuballocated    bool
	sliceSize         uint
	generations       []int
	currentGeneration int

	// uniforms indexes into ShaderUniforms.uniforms for this slot's
	// members.
	uniforms []int
}

// generationOffset returns the byte offset of the active generation's
// slice, or 0 when no generation is selected.
func (b *bufferSlot) generationOffset() uint {
	if b.isSuballocated && b.currentGeneration >= 0 {
		return uint(b.currentGeneration) * b.sliceSize
	}
	return 0
}

// uniformSlot is one member of a buffer slot. It references its owning
// slot by index rather than pointer, so slots carry no ownership cycles.
type uniformSlot struct {
	member      BufferMember
	bufferIndex int
}

// textureSlot pairs a texture and sampler at one declared bind index.
// The texture is held either owned (retained by the slot) or borrowed
// (read through the caller's pointer at bind time).
type textureSlot struct {
	desc     TextureArg
	texture  Texture
	borrowed *Texture
	sampler  Sampler
}

func (t *textureSlot) resolve() Texture {
	if t.borrowed != nil {
		return *t.borrowed
	}
	return t.texture
}

// ShaderUniforms is the binding engine for one shader's parameters. It is
// built once from an immutable reflection snapshot and never resized.
//
// ShaderUniforms is not safe for concurrent use: all writes, generation
// switches, and binds must come from a single recording context.
type ShaderUniforms struct {
	policy bindPolicy

	buffers  []*bufferSlot
	uniforms []uniformSlot
	textures []*textureSlot

	// uniformsByName is multi-valued: one uniform name may resolve to
	// several stage-specific slots simultaneously, and every write fans
	// out to all of them.
	uniformsByName map[string][]int
	buffersByName  map[bufferKey]int
	texturesByName map[string]int

	// logged suppresses repeat diagnostics for per-call failures.
	logged map[string]struct{}
}

// New builds the descriptor table for a shader from the device's
// capabilities and a reflection snapshot.
//
// For each reflected buffer block, New clamps the allocation length to
// min(64K if suballocated else the declared length, device uniform buffer
// limit), decides per backend whether a discrete GPU buffer is required,
// and allocates a staging arena of the clamped length. Every member is
// registered as a uniform slot. Blocks whose GPU buffer cannot be created
// are skipped with an error log; the rest of the table is unaffected.
//
// New returns ErrInvalidReflection when the snapshot and device cannot
// agree on a valid layout: a zero-length block, a block exceeding the 64K
// format cap or the device limit, or a duplicate texture name.
func New(device Device, refl *Reflection) (*ShaderUniforms, error) {
	s := &ShaderUniforms{
		policy:         newBindPolicy(device),
		uniformsByName: make(map[string][]int),
		buffersByName:  make(map[bufferKey]int),
		texturesByName: make(map[string]int),
		logged:         make(map[string]struct{}),
	}

	uniformLimit := device.UniformBufferLimit()

	for _, desc := range refl.Buffers {
		// Metal reports vertex input buffers alongside parameter buffers.
		if s.policy.backend == BackendMetal && strings.HasPrefix(desc.Name, vertexBufferPrefix) {
			continue
		}

		if desc.Length == 0 {
			return nil, fmt.Errorf("%w: buffer %q has size 0", ErrInvalidReflection, desc.Name)
		}
		if desc.Length > maxSuballocatedBufferSize || (uniformLimit != 0 && desc.Length > uniformLimit) {
			return nil, fmt.Errorf("%w: buffer %q size %d exceeds limits",
				ErrInvalidReflection, desc.Name, desc.Length)
		}

		isSuballocated := s.policy.suballocates()
		alloc := desc.Length
		if isSuballocated {
			alloc = maxSuballocatedBufferSize
		}
		if uniformLimit != 0 && alloc > uniformLimit {
			alloc = uniformLimit
		}

		slot := &bufferSlot{desc: desc, currentGeneration: -1}
		if s.policy.needsDiscreteBuffer(desc.IsBlock, desc.Length) {
			buf, err := device.CreateBuffer(alloc, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
			if err != nil {
				Logger().Error("shaderbind: buffer allocation failed, skipping block",
					"name", desc.Name, "err", err)
				continue
			}
			slot.buffer = buf
		}
		slot.arena = newStagingArena(alloc)
		if isSuballocated {
			slot.isSuballocated = true
			slot.sliceSize = desc.Length
		}

		bufferIndex := len(s.buffers)
		for _, m := range desc.Members {
			if m.ArrayLength == 0 {
				m.ArrayLength = 1
			}
			ui := len(s.uniforms)
			s.uniforms = append(s.uniforms, uniformSlot{member: m, bufferIndex: bufferIndex})
			s.uniformsByName[m.Name] = append(s.uniformsByName[m.Name], ui)
			slot.uniforms = append(slot.uniforms, ui)
		}
		s.buffers = append(s.buffers, slot)
		s.buffersByName[bufferKey{desc.Name, desc.Stage}] = bufferIndex
	}

	for _, desc := range refl.Textures {
		if _, exists := s.texturesByName[desc.Name]; exists {
			return nil, fmt.Errorf("%w: texture names must be unique across all shader stages: %q",
				ErrInvalidReflection, desc.Name)
		}
		s.texturesByName[desc.Name] = len(s.textures)
		s.textures = append(s.textures, &textureSlot{desc: desc})
	}

	return s, nil
}

// BufferDescriptor returns the reflected descriptor of the named buffer
// for diagnostics. ok is false when no such buffer exists for the stage.
func (s *ShaderUniforms) BufferDescriptor(name string, stage ShaderStage) (BufferArg, bool) {
	bi, ok := s.buffersByName[bufferKey{name, stage}]
	if !ok {
		s.errorOnce("bufdesc:"+name, "shaderbind: invalid buffer name for shader stage",
			"name", name, "stage", stage)
		return BufferArg{}, false
	}
	return s.buffers[bi].desc, true
}

// SetUniformBytes writes count elements of elementSize bytes from data
// into every slot the uniform name resolves to, starting at arrayIndex.
//
// Unless the backend is Vulkan, elementSize must equal the backend's
// expected width for the slot's declared type. Writes that fail
// validation are logged and skipped per slot; other slots resolved by the
// same name are unaffected.
func (s *ShaderUniforms) SetUniformBytes(name string, data []byte, elementSize, count, arrayIndex uint) {
	indices, ok := s.uniformsByName[name]
	if !ok {
		s.errorOnce("uniform:"+name, "shaderbind: invalid uniform name", "name", name)
		return
	}

	need := elementSize * count
	if uint(len(data)) < need {
		s.errorOnce("short:"+name, "shaderbind: uniform data shorter than declared write",
			"name", name, "have", len(data), "need", need)
		return
	}

	for _, ui := range indices {
		u := &s.uniforms[ui]

		if s.policy.validatesElementSize() {
			if expected := s.policy.expectedElementSize(u.member.Type); elementSize != expected {
				s.errorOnce(fmt.Sprintf("size:%s:%d", name, elementSize),
					"shaderbind: rejected uniform write", "err", ErrSizeMismatch,
					"name", name, "expected", expected, "got", elementSize)
				continue
			}
		}
		if arrayIndex+count > u.member.ArrayLength {
			s.errorOnce(fmt.Sprintf("range:%s:%d:%d", name, arrayIndex, count),
				"shaderbind: invalid range for uniform",
				"name", name, "arrayIndex", arrayIndex, "count", count,
				"arrayLength", u.member.ArrayLength)
			continue
		}

		b := s.buffers[u.bufferIndex]
		if b == nil || b.arena == nil {
			Logger().Error("shaderbind: rejected uniform write", "err", ErrMissingBuffer, "name", name)
			continue
		}

		offset := u.member.Offset + elementSize*arrayIndex + b.generationOffset()
		if err := b.arena.writeAt(offset, data[:need]); err != nil {
			Logger().Error("shaderbind: failed to update uniform buffer",
				"name", name, "err", err)
			continue
		}
	}
}

// SetBool sets a single bool uniform.
func (s *ShaderUniforms) SetBool(name string, value bool, arrayIndex uint) {
	s.SetUniformBytes(name, boolBytes([]bool{value}), 1, 1, arrayIndex)
}

// SetBoolArray sets consecutive elements of a bool array uniform.
func (s *ShaderUniforms) SetBoolArray(name string, values []bool, arrayIndex uint) {
	s.SetUniformBytes(name, boolBytes(values), 1, uint(len(values)), arrayIndex)
}

// SetInt sets a single int uniform.
func (s *ShaderUniforms) SetInt(name string, value simd.Int1, arrayIndex uint) {
	s.SetUniformBytes(name, simd.Bytes(&value), 4, 1, arrayIndex)
}

// SetIntArray sets consecutive elements of an int array uniform.
func (s *ShaderUniforms) SetIntArray(name string, values []simd.Int1, arrayIndex uint) {
	s.SetUniformBytes(name, simd.SliceBytes(values), 4, uint(len(values)), arrayIndex)
}

// SetFloat sets a single float uniform.
func (s *ShaderUniforms) SetFloat(name string, value simd.Float1, arrayIndex uint) {
	s.SetUniformBytes(name, simd.Bytes(&value), 4, 1, arrayIndex)
}

// SetFloatArray sets consecutive elements of a float array uniform.
func (s *ShaderUniforms) SetFloatArray(name string, values []simd.Float1, arrayIndex uint) {
	s.SetUniformBytes(name, simd.SliceBytes(values), 4, uint(len(values)), arrayIndex)
}

// SetFloat2 sets a single 2-component vector uniform.
func (s *ShaderUniforms) SetFloat2(name string, value simd.Float2, arrayIndex uint) {
	s.SetUniformBytes(name, simd.Bytes(&value), 8, 1, arrayIndex)
}

// SetFloat2Array sets consecutive elements of a 2-component vector array.
func (s *ShaderUniforms) SetFloat2Array(name string, values []simd.Float2, arrayIndex uint) {
	s.SetUniformBytes(name, simd.SliceBytes(values), 8, uint(len(values)), arrayIndex)
}

// SetFloat3 sets a single 3-component vector uniform.
//
// Metal stores Float3 padded to 4 components and receives the host layout
// unchanged. GL and Vulkan expect a tightly packed layout, so the padding
// component is stripped before the write.
func (s *ShaderUniforms) SetFloat3(name string, value simd.Float3, arrayIndex uint) {
	if s.policy.storesPadded() {
		s.SetUniformBytes(name, simd.Bytes(&value), 16, 1, arrayIndex)
		return
	}
	packed := value.Packed()
	s.SetUniformBytes(name, simd.SliceBytes(packed[:]), 12, 1, arrayIndex)
}

// SetFloat3Array sets consecutive elements of a 3-component vector array,
// repacking to the tight layout on backends that need it.
func (s *ShaderUniforms) SetFloat3Array(name string, values []simd.Float3, arrayIndex uint) {
	if s.policy.storesPadded() {
		s.SetUniformBytes(name, simd.SliceBytes(values), 16, uint(len(values)), arrayIndex)
		return
	}
	packed := simd.PackFloat3s(values)
	s.SetUniformBytes(name, simd.SliceBytes(packed), 12, uint(len(values)), arrayIndex)
}

// SetFloat4 sets a single 4-component vector uniform.
func (s *ShaderUniforms) SetFloat4(name string, value simd.Float4, arrayIndex uint) {
	s.SetUniformBytes(name, simd.Bytes(&value), 16, 1, arrayIndex)
}

// SetFloat4Array sets consecutive elements of a 4-component vector array.
func (s *ShaderUniforms) SetFloat4Array(name string, values []simd.Float4, arrayIndex uint) {
	s.SetUniformBytes(name, simd.SliceBytes(values), 16, uint(len(values)), arrayIndex)
}

// SetFloat2x2 sets a single 2x2 matrix uniform.
func (s *ShaderUniforms) SetFloat2x2(name string, value simd.Float2x2, arrayIndex uint) {
	s.SetUniformBytes(name, simd.Bytes(&value), 16, 1, arrayIndex)
}

// SetFloat2x2Array sets consecutive elements of a 2x2 matrix array.
func (s *ShaderUniforms) SetFloat2x2Array(name string, values []simd.Float2x2, arrayIndex uint) {
	s.SetUniformBytes(name, simd.SliceBytes(values), 16, uint(len(values)), arrayIndex)
}

// SetFloat3x3 sets a single 3x3 matrix uniform. The host layout pads each
// column to 4 components; GL and Vulkan receive the packed 9-float form.
func (s *ShaderUniforms) SetFloat3x3(name string, value simd.Float3x3, arrayIndex uint) {
	if s.policy.storesPadded() {
		s.SetUniformBytes(name, simd.Bytes(&value), 48, 1, arrayIndex)
		return
	}
	packed := value.Packed()
	s.SetUniformBytes(name, simd.SliceBytes(packed[:]), 36, 1, arrayIndex)
}

// SetFloat3x3Array sets consecutive elements of a 3x3 matrix array,
// repacking to the tight layout on backends that need it.
func (s *ShaderUniforms) SetFloat3x3Array(name string, values []simd.Float3x3, arrayIndex uint) {
	if s.policy.storesPadded() {
		s.SetUniformBytes(name, simd.SliceBytes(values), 48, uint(len(values)), arrayIndex)
		return
	}
	packed := simd.PackFloat3x3s(values)
	s.SetUniformBytes(name, simd.SliceBytes(packed), 36, uint(len(values)), arrayIndex)
}

// SetFloat4x4 sets a single 4x4 matrix uniform.
func (s *ShaderUniforms) SetFloat4x4(name string, value simd.Float4x4, arrayIndex uint) {
	s.SetUniformBytes(name, simd.Bytes(&value), 64, 1, arrayIndex)
}

// SetFloat4x4Array sets consecutive elements of a 4x4 matrix array.
func (s *ShaderUniforms) SetFloat4x4Array(name string, values []simd.Float4x4, arrayIndex uint) {
	s.SetUniformBytes(name, simd.SliceBytes(values), 64, uint(len(values)), arrayIndex)
}

// SetBytes uploads raw data directly to the named buffer's GPU buffer,
// bypassing the staging arena. The buffer must have a discrete GPU buffer.
func (s *ShaderUniforms) SetBytes(bufferName string, data []byte, stage ShaderStage) {
	bi, ok := s.buffersByName[bufferKey{bufferName, stage}]
	if !ok {
		s.errorOnce("buffer:"+bufferName, "shaderbind: invalid buffer name", "name", bufferName)
		return
	}
	b := s.buffers[bi]
	if b.buffer == nil {
		Logger().Error("shaderbind: buffer has no GPU buffer for direct upload",
			"err", ErrMissingBuffer, "name", bufferName)
		return
	}
	if err := b.buffer.Upload(data, 0); err != nil {
		Logger().Error("shaderbind: direct buffer upload failed", "name", bufferName, "err", err)
	}
}

// SetTexture sets the texture and sampler for a named slot. The slot
// retains the texture until it is replaced.
func (s *ShaderUniforms) SetTexture(name string, tex Texture, smp Sampler) {
	ti, ok := s.texturesByName[name]
	if !ok {
		s.errorOnce("texture:"+name, "shaderbind: invalid texture name", "name", name)
		return
	}
	slot := s.textures[ti]
	slot.texture = tex
	slot.borrowed = nil
	slot.sampler = smp
}

// SetTextureUnowned sets the texture for a named slot without retaining
// it: the slot reads through the caller's pointer at bind time, so the
// caller controls the texture's lifetime and may swap it between draws.
func (s *ShaderUniforms) SetTextureUnowned(name string, tex *Texture, smp Sampler) {
	ti, ok := s.texturesByName[name]
	if !ok {
		s.errorOnce("texture:"+name, "shaderbind: invalid texture name", "name", name)
		return
	}
	slot := s.textures[ti]
	slot.texture = nil
	slot.borrowed = tex
	slot.sampler = smp
}

// SetSuballocationIndex selects the active generation for every
// suballocated buffer the uniform name resolves to. Registering a new
// index grows the ring by one slice; re-selecting a registered index is
// an O(1) switch with no growth.
//
// Returns ErrUnsupported on backends without suballocation, ErrOutOfRange
// for a negative index or when a new slice would exceed the buffer's
// allocation length (the ring is left unchanged), ErrNotFound when the
// name resolves to no slot, and ErrNotSuballocated when it resolves to
// slots but none are suballocated.
func (s *ShaderUniforms) SetSuballocationIndex(name string, index int) error {
	if !s.policy.suballocates() {
		return fmt.Errorf("%w: suballocation is only available for Vulkan", ErrUnsupported)
	}
	if index < 0 {
		return fmt.Errorf("%w: index cannot be negative", ErrOutOfRange)
	}

	indices, ok := s.uniformsByName[name]
	if !ok {
		return fmt.Errorf("%w: uniform %q", ErrNotFound, name)
	}

	// At least one of the resolved slots must be updated.
	updated := false
	for _, ui := range indices {
		b := s.buffers[s.uniforms[ui].bufferIndex]
		if b == nil || !b.isSuballocated {
			continue
		}

		if slices.Contains(b.generations, index) {
			b.currentGeneration = index
		} else {
			if uint(len(b.generations)+1)*b.sliceSize > b.arena.capacity() {
				return fmt.Errorf("%w: cannot add suballocation, exceeding buffer size of %d",
					ErrOutOfRange, b.arena.capacity())
			}
			b.generations = append(b.generations, index)
			b.currentGeneration = index
		}
		updated = true
	}

	if !updated {
		return fmt.Errorf("%w: %q", ErrNotSuballocated, name)
	}
	return nil
}

// Bind uploads and binds every buffer slot in construction order, then
// every texture slot. Texture slots missing a texture or sampler are
// skipped with a warning; the draw proceeds in a degraded state rather
// than failing.
func (s *ShaderUniforms) Bind(device Device, pipeline PipelineState, encoder RenderCommandEncoder) {
	for _, b := range s.buffers {
		s.bindBuffer(device, pipeline, encoder, b)
	}

	for _, t := range s.textures {
		tex := t.resolve()
		if tex == nil || t.sampler == nil {
			s.warnOnce("notex:"+t.desc.Name, "shaderbind: no texture set for sampler",
				"name", t.desc.Name)
			continue
		}
		target := bindTargetForStage(t.desc.Stage)
		encoder.BindTexture(t.desc.BindIndex, target, tex)
		encoder.BindSampler(t.desc.BindIndex, target, t.sampler)
	}
}

// BindNamed binds only the buffer slot(s) owning the named uniform,
// applying the same per-backend logic as Bind.
func (s *ShaderUniforms) BindNamed(device Device, pipeline PipelineState, encoder RenderCommandEncoder, name string) {
	indices, ok := s.uniformsByName[name]
	if !ok {
		s.errorOnce("uniform:"+name, "shaderbind: invalid uniform name", "name", name)
		return
	}
	for _, ui := range indices {
		s.bindBuffer(device, pipeline, encoder, s.buffers[s.uniforms[ui].bufferIndex])
	}
}

func (s *ShaderUniforms) bindBuffer(device Device, pipeline PipelineState, encoder RenderCommandEncoder, b *bufferSlot) {
	if b == nil || b.arena == nil {
		return
	}

	if device.Backend() == BackendGL {
		if b.desc.IsBlock {
			if b.buffer == nil {
				Logger().Error("shaderbind: uniform block has no GPU buffer",
					"err", ErrMissingBuffer, "name", b.desc.Name)
				return
			}
			if err := b.buffer.Upload(b.arena.bytes(), 0); err != nil {
				Logger().Error("shaderbind: uniform block upload failed",
					"name", b.desc.Name, "err", err)
				return
			}
			encoder.BindBuffer(pipeline.BlockBindingPoint(b.desc.Name),
				bindTargetForStage(b.desc.Stage), b.buffer, 0)
			return
		}
		s.bindLooseUniform(pipeline, encoder, b)
		return
	}

	if b.buffer != nil {
		offset := uint(0)
		uploadSize := b.arena.capacity()
		if b.isSuballocated && b.currentGeneration >= 0 {
			offset = b.generationOffset()
			uploadSize = b.sliceSize
		}
		data, err := b.arena.slice(offset, uploadSize)
		if err != nil {
			Logger().Error("shaderbind: active slice exceeds arena", "name", b.desc.Name, "err", err)
			return
		}
		if err := b.buffer.Upload(data, offset); err != nil {
			Logger().Error("shaderbind: buffer upload failed", "name", b.desc.Name, "err", err)
			return
		}
		encoder.BindBuffer(b.desc.BindIndex, s.policy.bufferBindTarget(b.desc.Stage), b.buffer, offset)
		return
	}

	// Inline bytes: no upload step, the staged payload is bound directly.
	data, err := b.arena.slice(0, b.desc.Length)
	if err != nil {
		Logger().Error("shaderbind: inline payload exceeds arena", "name", b.desc.Name, "err", err)
		return
	}
	encoder.BindBytes(b.desc.BindIndex, bindTargetForStage(b.desc.Stage), data)
}

// bindLooseUniform binds a single GL uniform directly from staging memory
// using the pipeline's per-uniform location. A loose slot has exactly one
// member, which is the uniform itself.
func (s *ShaderUniforms) bindLooseUniform(pipeline PipelineState, encoder RenderCommandEncoder, b *bufferSlot) {
	if len(b.uniforms) != 1 {
		Logger().Error("shaderbind: loose uniform slot must have exactly one member",
			"name", b.desc.Name, "members", len(b.uniforms))
		return
	}
	if b.buffer != nil {
		Logger().Error("shaderbind: loose uniform slot unexpectedly has a GPU buffer",
			"name", b.desc.Name)
		return
	}

	u := s.uniforms[b.uniforms[0]]
	location := pipeline.UniformLocation(b.desc.Name, b.desc.Stage)
	if location < 0 {
		s.errorOnce("loc:"+b.desc.Name, "shaderbind: uniform not found in shader",
			"name", b.desc.Name)
		return
	}
	encoder.BindUniform(location, u.member.Type, int(u.member.ArrayLength), b.arena.bytes())
}

func (s *ShaderUniforms) errorOnce(key, msg string, args ...any) {
	if _, seen := s.logged[key]; seen {
		return
	}
	s.logged[key] = struct{}{}
	Logger().Error(msg, args...)
}

func (s *ShaderUniforms) warnOnce(key, msg string, args ...any) {
	if _, seen := s.logged[key]; seen {
		return
	}
	s.logged[key] = struct{}{}
	Logger().Warn(msg, args...)
}

func boolBytes(values []bool) []byte {
	out := make([]byte, len(values))
	for i, v := range values {
		if v {
			out[i] = 1
		}
	}
	return out
}
