// Package wgslreflect builds shaderbind reflection snapshots from WGSL
// source using the gogpu/naga compiler front end.
//
// The WGSL is parsed and lowered to naga IR; every module-scope
// var<uniform> becomes a uniform buffer block and every sampled texture
// global becomes a texture slot. Samplers are not reported separately:
// shaderbind pairs each texture with a sampler at the same bind index.
package wgslreflect

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shaderbind"
)

// ErrUnsupportedType is returned when a uniform member's type has no
// shaderbind equivalent (for example runtime-sized arrays or f16).
var ErrUnsupportedType = errors.New("wgslreflect: unsupported uniform type")

// Reflect parses WGSL source and returns the shader's parameter layout.
//
// WGSL module-scope declarations are not stage-qualified, so the caller
// names the stage the resulting slots belong to. For shaders whose stages
// declare disjoint resources, reflect each stage's source separately and
// concatenate the snapshots.
//
// Binding indices come from @binding attributes; @group is ignored, since
// shaderbind addresses slots by flat bind index.
func Reflect(source string, stage shaderbind.ShaderStage) (*shaderbind.Reflection, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("wgslreflect: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("wgslreflect: %w", err)
	}
	return fromIR(module, stage)
}

func fromIR(module *ir.Module, stage shaderbind.ShaderStage) (*shaderbind.Reflection, error) {
	refl := &shaderbind.Reflection{}

	for _, g := range module.GlobalVariables {
		switch g.Space {
		case ir.SpaceUniform:
			buf, err := uniformBlock(module, g, stage)
			if err != nil {
				return nil, err
			}
			refl.Buffers = append(refl.Buffers, buf)

		case ir.SpaceHandle:
			inner := typeInner(module, g.Type)
			if _, isImage := inner.(ir.ImageType); !isImage {
				continue // samplers pair implicitly with their texture
			}
			bindIndex := 0
			if g.Binding != nil {
				bindIndex = int(g.Binding.Binding)
			}
			refl.Textures = append(refl.Textures, shaderbind.TextureArg{
				Name:      g.Name,
				Stage:     stage,
				BindIndex: bindIndex,
			})
		}
	}

	return refl, nil
}

func uniformBlock(module *ir.Module, g ir.GlobalVariable, stage shaderbind.ShaderStage) (shaderbind.BufferArg, error) {
	bindIndex := 0
	if g.Binding != nil {
		bindIndex = int(g.Binding.Binding)
	}
	buf := shaderbind.BufferArg{
		Name:      g.Name,
		Stage:     stage,
		IsBlock:   true,
		BindIndex: bindIndex,
	}

	st, ok := typeInner(module, g.Type).(ir.StructType)
	if !ok {
		// var<uniform> of a bare type acts as a block with one member
		// named after the variable itself.
		utype, arrayLen, size, err := memberType(module, g.Type)
		if err != nil {
			return shaderbind.BufferArg{}, fmt.Errorf("%w (uniform %q)", err, g.Name)
		}
		buf.Length = size
		buf.Members = []shaderbind.BufferMember{{
			Name:        g.Name,
			Type:        utype,
			Offset:      0,
			ArrayLength: arrayLen,
		}}
		return buf, nil
	}

	buf.Length = uint(st.Span)
	for _, m := range st.Members {
		utype, arrayLen, _, err := memberType(module, m.Type)
		if err != nil {
			return shaderbind.BufferArg{}, fmt.Errorf("%w (member %q of %q)", err, m.Name, g.Name)
		}
		buf.Members = append(buf.Members, shaderbind.BufferMember{
			Name:        m.Name,
			Type:        utype,
			Offset:      uint(m.Offset),
			ArrayLength: arrayLen,
		})
	}
	return buf, nil
}

func typeInner(module *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(module.Types) {
		return nil
	}
	return module.Types[h].Inner
}

// memberType maps an IR type to its shaderbind uniform type, array length
// and padded byte size within a uniform block.
func memberType(module *ir.Module, h ir.TypeHandle) (shaderbind.UniformType, uint, uint, error) {
	switch t := typeInner(module, h).(type) {
	case ir.ScalarType:
		switch t.Kind {
		case ir.ScalarBool:
			return shaderbind.UniformTypeBool, 1, 4, nil
		case ir.ScalarSint, ir.ScalarUint:
			return shaderbind.UniformTypeInt, 1, 4, nil
		case ir.ScalarFloat:
			if t.Width != 4 {
				return 0, 0, 0, fmt.Errorf("%w: f%d scalars", ErrUnsupportedType, t.Width*8)
			}
			return shaderbind.UniformTypeFloat, 1, 4, nil
		}

	case ir.VectorType:
		if t.Scalar.Kind != ir.ScalarFloat || t.Scalar.Width != 4 {
			return 0, 0, 0, fmt.Errorf("%w: non-f32 vectors", ErrUnsupportedType)
		}
		switch t.Size {
		case ir.Vec2:
			return shaderbind.UniformTypeFloat2, 1, 8, nil
		case ir.Vec3:
			return shaderbind.UniformTypeFloat3, 1, 12, nil
		case ir.Vec4:
			return shaderbind.UniformTypeFloat4, 1, 16, nil
		}

	case ir.MatrixType:
		if t.Columns != t.Rows {
			return 0, 0, 0, fmt.Errorf("%w: non-square matrices", ErrUnsupportedType)
		}
		switch t.Columns {
		case ir.Vec2:
			return shaderbind.UniformTypeFloat2x2, 1, 16, nil
		case ir.Vec3:
			return shaderbind.UniformTypeFloat3x3, 1, 48, nil
		case ir.Vec4:
			return shaderbind.UniformTypeFloat4x4, 1, 64, nil
		}

	case ir.ArrayType:
		if t.Size.Constant == nil {
			return 0, 0, 0, fmt.Errorf("%w: runtime-sized arrays", ErrUnsupportedType)
		}
		elem, _, _, err := memberType(module, t.Base)
		if err != nil {
			return 0, 0, 0, err
		}
		count := uint(*t.Size.Constant)
		return elem, count, uint(t.Stride) * count, nil
	}

	return 0, 0, 0, fmt.Errorf("%w: %T", ErrUnsupportedType, typeInner(module, h))
}
