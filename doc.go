// Package shaderbind binds shader parameters to GPU resources across
// graphics backends.
//
// Given a shader's reflected parameter layout, shaderbind builds an
// in-memory table of every uniform buffer, loose uniform, and
// texture/sampler slot the shader exposes, accepts typed writes into those
// slots, and at draw time uploads and binds the right backend resource.
// The upload strategy differs per backend: OpenGL binds uniform blocks as
// discrete buffers and loose uniforms individually, Metal pushes small
// payloads inline as bytes, and Vulkan always uses discrete buffers with
// optional ring suballocation so one physical buffer can serve multiple
// in-flight generations of the same block.
//
// The engine owns only host-side staging memory. Device objects, shader
// reflection parsing, GPU buffer/texture/sampler implementations, and
// command encoders are collaborators consumed through the interfaces in
// this package. The wgslreflect subpackage can produce a Reflection
// snapshot directly from WGSL source via gogpu/naga.
//
// Typical usage:
//
//	refl, _ := wgslreflect.Reflect(source, shaderbind.StageFragment)
//	su, err := shaderbind.New(device, refl)
//	if err != nil { ... }
//	su.SetFloat4x4("mvp", proj, 0)
//	su.SetTexture("albedo", tex, sampler)
//	su.Bind(device, pipelineState, encoder)
//
// ShaderUniforms is not safe for concurrent use. Writes, generation
// switches, and binds must be issued from a single recording context:
// write, optionally switch generation, then bind, once per draw.
package shaderbind
