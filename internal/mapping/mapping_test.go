package mapping

import (
	"testing"

	"github.com/mxtools/mxgen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDeclarations_Alias(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		underlying schema.CType
		goName     string
		goType     string
	}{
		{
			name:       "FixedWidthScalar",
			underlying: schema.CType{Name: "int32_t"},
			goName:     "Handle",
			goType:     "int32",
		},
		{
			name:       "UnsignedScalar",
			underlying: schema.CType{Name: "uint64_t"},
			goName:     "Handle",
			goType:     "uint64",
		},
		{
			name:       "VoidPointer",
			underlying: schema.CType{Name: "void", IsPointer: true},
			goName:     "Handle",
			goType:     "unsafe.Pointer",
		},
		{
			name:       "ByteArray",
			underlying: schema.CType{Name: "uint8_t", IsArray: true, ArrayLen: 64},
			goName:     "Handle",
			goType:     "[64]uint8",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decl := &schema.Declaration{
				Kind:       schema.KindTypeAlias,
				Name:       "mx_handle_t",
				Underlying: tt.underlying,
			}

			handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{decl})

			mapped, err := handler.MapDeclarations([]*schema.Declaration{decl})
			require.NoError(t, err)
			require.Len(t, mapped, 1)

			assert.Equal(t, tt.goName, mapped[0].GoName)
			assert.Equal(t, tt.goType, mapped[0].GoType)
		})
	}
}

func TestMapDeclarations_AliasChain(t *testing.T) {
	t.Parallel()

	status := &schema.Declaration{
		Kind:       schema.KindTypeAlias,
		Name:       "mx_status_t",
		Underlying: schema.CType{Name: "int32_t"},
	}
	futex := &schema.Declaration{
		Kind:       schema.KindTypeAlias,
		Name:       "mx_futex_t",
		Underlying: schema.CType{Name: "mx_status_t"},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{status, futex})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{futex})
	require.NoError(t, err)
	require.Len(t, mapped, 1)

	assert.Equal(t, "Futex", mapped[0].GoName)
	assert.Equal(t, "Status", mapped[0].GoType)
}

func TestMapDeclarations_UnmappedTypeFatal(t *testing.T) {
	t.Parallel()

	decl := &schema.Declaration{
		Kind:       schema.KindTypeAlias,
		Name:       "mx_weird_t",
		Underlying: schema.CType{Name: "__uint128_t"},
		Location:   schema.Location{File: "types.h", Line: 42},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{decl})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{decl})
	require.ErrorIs(t, err, ErrUnmappedType)
	assert.Nil(t, mapped)

	// The report must carry enough context to find the offending line.
	assert.Contains(t, err.Error(), "mx_weird_t")
	assert.Contains(t, err.Error(), "types.h:42")
	assert.Contains(t, err.Error(), "__uint128_t")
}

func TestMapDeclarations_Constants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "PlainInteger", value: "17", want: "17"},
		{name: "HexInteger", value: "0x00000010", want: "0x00000010"},
		{name: "SuffixedInteger", value: "4096u", want: "4096"},
		{name: "SuffixedHex", value: "0xFFFFFFFFul", want: "0xFFFFFFFF"},
		{name: "Negated", value: "(-1)", want: "(-1)"},
		{name: "ShiftExpression", value: "(1u << 4)", want: "(1 << 4)"},
		{name: "LimitMacro", value: "UINT64_MAX", want: "1<<64 - 1"},
		{name: "LeadingCast", value: "(uint32_t)32", want: "uint32(32)"},
		{name: "IdentifierReference", value: "MX_RIGHT_READ", want: "MX_RIGHT_READ"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decl := &schema.Declaration{
				Kind:  schema.KindConstant,
				Name:  "MX_TEST_VALUE",
				Value: tt.value,
			}

			handler := NewHandler(schema.EmitOptions{}, nil)

			mapped, err := handler.MapDeclarations([]*schema.Declaration{decl})
			require.NoError(t, err)
			require.Len(t, mapped, 1)

			// Constants keep their native spelling.
			assert.Equal(t, "MX_TEST_VALUE", mapped[0].GoName)
			assert.Equal(t, tt.want, mapped[0].Value)
		})
	}
}

func TestMapDeclarations_AliasCastConstant(t *testing.T) {
	t.Parallel()

	rights := &schema.Declaration{
		Kind:       schema.KindTypeAlias,
		Name:       "mx_rights_t",
		Underlying: schema.CType{Name: "uint32_t"},
	}
	decl := &schema.Declaration{
		Kind:  schema.KindConstant,
		Name:  "MX_RIGHT_DUPLICATE",
		Value: "((mx_rights_t)1u)",
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{rights, decl})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{decl})
	require.NoError(t, err)
	require.Len(t, mapped, 1)

	assert.Equal(t, "Rights(1)", mapped[0].Value)
}

func TestMapDeclarations_BadConstantExprFatal(t *testing.T) {
	t.Parallel()

	decl := &schema.Declaration{
		Kind:     schema.KindConstant,
		Name:     "MX_BROKEN",
		Value:    `"not a number"`,
		Location: schema.Location{File: "defs.h", Line: 7},
	}

	handler := NewHandler(schema.EmitOptions{}, nil)

	_, err := handler.MapDeclarations([]*schema.Declaration{decl})
	require.ErrorIs(t, err, ErrBadConstantExpr)
	assert.Contains(t, err.Error(), "MX_BROKEN")
	assert.Contains(t, err.Error(), "defs.h:7")
}

func TestMapDeclarations_Enum(t *testing.T) {
	t.Parallel()

	decl := &schema.Declaration{
		Kind: schema.KindEnum,
		Name: "mx_cache_policy_t",
		Members: []schema.EnumMember{
			{Name: "MX_CACHE_POLICY_CACHED", Value: "0"},
			{Name: "MX_CACHE_POLICY_UNCACHED", Value: "1"},
			{Name: "MX_CACHE_POLICY_UNCACHED_DEVICE"},
		},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{decl})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{decl})
	require.NoError(t, err)
	require.Len(t, mapped, 1)

	assert.Equal(t, "CachePolicy", mapped[0].GoName)
	assert.Equal(t, "int32", mapped[0].GoType)
	require.Len(t, mapped[0].Members, 3)
	assert.Equal(t, "MX_CACHE_POLICY_CACHED", mapped[0].Members[0].GoName)
	assert.Equal(t, "1", mapped[0].Members[1].Value)
	assert.Empty(t, mapped[0].Members[2].Value)
}

func TestMapDeclarations_Function(t *testing.T) {
	t.Parallel()

	status := &schema.Declaration{
		Kind:       schema.KindTypeAlias,
		Name:       "mx_status_t",
		Underlying: schema.CType{Name: "int32_t"},
	}
	handle := &schema.Declaration{
		Kind:       schema.KindTypeAlias,
		Name:       "mx_handle_t",
		Underlying: schema.CType{Name: "int32_t"},
	}
	fn := &schema.Declaration{
		Kind:       schema.KindFunction,
		Name:       "mx_channel_write",
		Underlying: schema.CType{Name: "mx_status_t"},
		Params: []schema.Param{
			{Name: "handle", Type: schema.CType{Name: "mx_handle_t"}},
			{Name: "options", Type: schema.CType{Name: "uint32_t"}},
			{Name: "bytes", Type: schema.CType{Name: "void", IsPointer: true, IsConst: true}},
			{Name: "num_bytes", Type: schema.CType{Name: "uint32_t"}},
		},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{status, handle, fn})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{fn})
	require.NoError(t, err)
	require.Len(t, mapped, 1)

	assert.Equal(t, "ChannelWrite", mapped[0].GoName)
	assert.Equal(t, "Status", mapped[0].GoType)
	require.Len(t, mapped[0].Params, 4)
	assert.Equal(t, "handle", mapped[0].Params[0].GoName)
	assert.Equal(t, "Handle", mapped[0].Params[0].GoType)
	assert.Equal(t, "unsafe.Pointer", mapped[0].Params[2].GoType)
	assert.Equal(t, "numBytes", mapped[0].Params[3].GoName)
}

func TestMapDeclarations_VoidFunction(t *testing.T) {
	t.Parallel()

	fn := &schema.Declaration{
		Kind:       schema.KindFunction,
		Name:       "mx_thread_exit",
		Underlying: schema.CType{Name: "void"},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{fn})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{fn})
	require.NoError(t, err)
	require.Len(t, mapped, 1)

	assert.Equal(t, "ThreadExit", mapped[0].GoName)
	assert.Empty(t, mapped[0].GoType)
	assert.Empty(t, mapped[0].Params)
}

func TestMapDeclarations_VariadicFunctionFatal(t *testing.T) {
	t.Parallel()

	fn := &schema.Declaration{
		Kind:       schema.KindFunction,
		Name:       "mx_debug_printf",
		Underlying: schema.CType{Name: "void"},
		Variadic:   true,
		Location:   schema.Location{File: "debug.h", Line: 3},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{fn})

	_, err := handler.MapDeclarations([]*schema.Declaration{fn})
	require.ErrorIs(t, err, ErrVariadicFunction)
	assert.Contains(t, err.Error(), "mx_debug_printf")
}

func TestMapDeclarations_UnnamedParams(t *testing.T) {
	t.Parallel()

	fn := &schema.Declaration{
		Kind:       schema.KindFunction,
		Name:       "mx_futex_wake",
		Underlying: schema.CType{Name: "void"},
		Params: []schema.Param{
			{Type: schema.CType{Name: "uint32_t"}},
			{Type: schema.CType{Name: "uint32_t"}},
			{Name: "options", Type: schema.CType{Name: "uint32_t"}},
		},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{fn})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{fn})
	require.NoError(t, err)
	require.Len(t, mapped[0].Params, 3)

	// Unnamed parameters must not collapse onto one name, which would
	// redeclare it in the emitted function type.
	assert.Equal(t, "arg0", mapped[0].Params[0].GoName)
	assert.Equal(t, "arg1", mapped[0].Params[1].GoName)
	assert.Equal(t, "options", mapped[0].Params[2].GoName)
}

func TestMapDeclarations_ReservedParamNames(t *testing.T) {
	t.Parallel()

	fn := &schema.Declaration{
		Kind:       schema.KindFunction,
		Name:       "mx_object_get_info",
		Underlying: schema.CType{Name: "void"},
		Params: []schema.Param{
			{Name: "type", Type: schema.CType{Name: "uint32_t"}},
			{Name: "len", Type: schema.CType{Name: "size_t"}},
		},
	}

	handler := NewHandler(schema.EmitOptions{}, []*schema.Declaration{fn})

	mapped, err := handler.MapDeclarations([]*schema.Declaration{fn})
	require.NoError(t, err)

	assert.Equal(t, "type_", mapped[0].Params[0].GoName)
	assert.Equal(t, "len_", mapped[0].Params[1].GoName)
}

func TestWordSizedTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options schema.EmitOptions
		want    string
	}{
		{
			name:    "HostedDefaults",
			options: schema.EmitOptions{},
			want:    "uint",
		},
		{
			name:    "Freestanding64",
			options: schema.EmitOptions{Freestanding: true, WordSize: 8},
			want:    "uint64",
		},
		{
			name:    "Freestanding32",
			options: schema.EmitOptions{Freestanding: true, WordSize: 4},
			want:    "uint32",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decl := &schema.Declaration{
				Kind:       schema.KindTypeAlias,
				Name:       "mx_size_t",
				Underlying: schema.CType{Name: "size_t"},
			}

			handler := NewHandler(tt.options, []*schema.Declaration{decl})

			mapped, err := handler.MapDeclarations([]*schema.Declaration{decl})
			require.NoError(t, err)

			assert.Equal(t, tt.want, mapped[0].GoType)
		})
	}
}
