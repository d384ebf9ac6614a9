package configuration

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/mxtools/mxgen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConfigProvider serves a fixed settings map, or an error when the
// per-project file is meant to be unreadable.
type fakeConfigProvider struct {
	settings map[string]string
	err      error
}

func (f *fakeConfigProvider) Read(filenames ...string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.settings, nil
}

// fakeEnv serves a fixed process environment.
type fakeEnv struct {
	env map[string]string
}

func (f *fakeEnv) Getenv(key string) string {
	return f.env[key]
}

// fakeOS reports the named paths as existing.
type fakeOS struct {
	exists map[string]bool
}

func (f *fakeOS) Stat(name string) (os.FileInfo, error) {
	if f.exists[name] {
		return nil, nil //nolint:nilnil
	}

	return nil, fs.ErrNotExist
}

func TestEstablishConfig_Defaults(t *testing.T) {
	t.Parallel()

	handler := NewHandler(
		&fakeConfigProvider{err: errors.New("no such file")},
		&fakeEnv{},
		&fakeOS{},
	)

	config, err := handler.EstablishConfig("/work")
	require.NoError(t, err)

	assert.Equal(t, "/work", config.ProjectRoot)
	assert.Equal(t, "/work/system/public", config.Sysroot)
	assert.Equal(t, "/work/bindings/definitions.go", config.OutputPath)
	assert.Equal(t, DefaultRules(), config.Rules)
	assert.Equal(t, DefaultPackage, config.Options.PackageName)
	assert.Equal(t, DefaultLibName, config.Options.LibName)
	assert.Equal(t, DefaultWordSize, config.Options.WordSize)
	assert.Equal(t, []string{"/work/system/public"}, config.IncludeDirs)
}

func TestEstablishConfig_UpwardRootSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		exists   map[string]bool
		wantRoot string
	}{
		{
			name:     "ConfigFileMarker",
			exists:   map[string]bool{"/src/magenta/mxgen.cfg": true},
			wantRoot: "/src/magenta",
		},
		{
			name:     "RepositoryMarker",
			exists:   map[string]bool{"/src/magenta/.git": true},
			wantRoot: "/src/magenta",
		},
		{
			name:     "NoMarkerFallsBackToWorkDir",
			exists:   nil,
			wantRoot: "/src/magenta/system/public",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewHandler(
				&fakeConfigProvider{},
				&fakeEnv{},
				&fakeOS{exists: tt.exists},
			)

			config, err := handler.EstablishConfig("/src/magenta/system/public")
			require.NoError(t, err)

			assert.Equal(t, tt.wantRoot, config.ProjectRoot)
		})
	}
}

func TestEstablishConfig_EnvOverrides(t *testing.T) {
	t.Parallel()

	handler := NewHandler(
		&fakeConfigProvider{err: errors.New("no such file")},
		&fakeEnv{env: map[string]string{
			EnvProjectRoot: "/src/magenta",
			EnvSysroot:     "/src/magenta/sysroot",
		}},
		&fakeOS{},
	)

	config, err := handler.EstablishConfig("/work")
	require.NoError(t, err)

	assert.Equal(t, "/src/magenta", config.ProjectRoot)
	assert.Equal(t, "/src/magenta/sysroot", config.Sysroot)
	assert.Equal(t, "/src/magenta/bindings/definitions.go", config.OutputPath)
}

func TestEstablishConfig_RelativeEnvPathsAnchored(t *testing.T) {
	t.Parallel()

	handler := NewHandler(
		&fakeConfigProvider{err: errors.New("no such file")},
		&fakeEnv{env: map[string]string{
			EnvProjectRoot: "magenta",
			EnvSysroot:     "public",
		}},
		&fakeOS{},
	)

	config, err := handler.EstablishConfig("/work")
	require.NoError(t, err)

	assert.Equal(t, "/work/magenta", config.ProjectRoot)
	assert.Equal(t, "/work/magenta/public", config.Sysroot)
}

func TestEstablishConfig_ConfigFileSettings(t *testing.T) {
	t.Parallel()

	handler := NewHandler(
		&fakeConfigProvider{settings: map[string]string{
			SettingHeaders:        "magenta/types.h, magenta/syscalls.h",
			SettingIncludeDirs:    "third_party/include",
			SettingOutput:         "gen/definitions.go",
			SettingPackage:        "sys",
			SettingLibName:        "libmagenta",
			SettingDeriveDefaults: "true",
			SettingFreestanding:   "true",
			SettingOffsetAsserts:  "1",
			SettingWordSize:       "4",
		}},
		&fakeEnv{},
		&fakeOS{exists: map[string]bool{"/work/mxgen.cfg": true}},
	)

	config, err := handler.EstablishConfig("/work")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/work/system/public/magenta/types.h",
		"/work/system/public/magenta/syscalls.h",
	}, config.Headers)
	assert.Equal(t, []string{
		"/work/system/public",
		"/work/third_party/include",
	}, config.IncludeDirs)
	assert.Equal(t, "/work/gen/definitions.go", config.OutputPath)
	assert.Equal(t, "sys", config.Options.PackageName)
	assert.Equal(t, "libmagenta", config.Options.LibName)
	assert.True(t, config.Options.DeriveDefaults)
	assert.True(t, config.Options.Freestanding)
	assert.True(t, config.Options.OffsetAsserts)
	assert.Equal(t, 4, config.Options.WordSize)
}

func TestEstablishConfig_PrefixRules(t *testing.T) {
	t.Parallel()

	handler := NewHandler(
		&fakeConfigProvider{settings: map[string]string{
			SettingTypePrefixes:  "mx_",
			SettingConstPrefixes: "MX_, ERR_",
			SettingFuncPrefixes:  "mx_",
		}},
		&fakeEnv{},
		&fakeOS{exists: map[string]bool{"/work/mxgen.cfg": true}},
	)

	config, err := handler.EstablishConfig("/work")
	require.NoError(t, err)

	assert.Equal(t, []schema.FilterRule{
		{Prefix: "mx_", Kind: schema.KindTypeAlias},
		{Prefix: "mx_", Kind: schema.KindStruct},
		{Prefix: "mx_", Kind: schema.KindEnum},
		{Prefix: "MX_", Kind: schema.KindConstant},
		{Prefix: "ERR_", Kind: schema.KindConstant},
		{Prefix: "mx_", Kind: schema.KindFunction},
	}, config.Rules)
}

func TestEstablishConfig_MalformedConfigFileFatal(t *testing.T) {
	t.Parallel()

	// A present but unparseable per-project file must abort the run;
	// proceeding on defaults would silently discard the configuration.
	readErr := errors.New("unexpected character \" \" in variable name")

	handler := NewHandler(
		&fakeConfigProvider{err: readErr},
		&fakeEnv{},
		&fakeOS{exists: map[string]bool{"/work/mxgen.cfg": true}},
	)

	config, err := handler.EstablishConfig("/work")
	require.ErrorIs(t, err, readErr)
	assert.Contains(t, err.Error(), "/work/mxgen.cfg")
	assert.Nil(t, config)
}

func TestEstablishConfig_BadWordSize(t *testing.T) {
	t.Parallel()

	handler := NewHandler(
		&fakeConfigProvider{settings: map[string]string{
			SettingWordSize: "16",
		}},
		&fakeEnv{},
		&fakeOS{exists: map[string]bool{"/work/mxgen.cfg": true}},
	)

	config, err := handler.EstablishConfig("/work")
	require.ErrorIs(t, err, ErrBadWordSize)
	assert.Nil(t, config)
}

func TestEstablishConfig_AbsoluteConfigPathsKept(t *testing.T) {
	t.Parallel()

	handler := NewHandler(
		&fakeConfigProvider{settings: map[string]string{
			SettingHeaders: "/elsewhere/types.h",
			SettingOutput:  "/elsewhere/definitions.go",
		}},
		&fakeEnv{},
		&fakeOS{exists: map[string]bool{"/work/mxgen.cfg": true}},
	)

	config, err := handler.EstablishConfig("/work")
	require.NoError(t, err)

	assert.Equal(t, []string{"/elsewhere/types.h"}, config.Headers)
	assert.Equal(t, "/elsewhere/definitions.go", config.OutputPath)
}

func TestMapKeyHelpers(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeConfigProvider{}, &fakeEnv{}, &fakeOS{})

	envMap := map[string]string{
		"str":     "value",
		"boolean": "true",
		"badBool": "maybe",
		"number":  "42",
		"badNum":  "many",
		"list":    "a, b, , c",
	}

	assert.Equal(t, "value", handler.MapKeyToString(envMap, "str"))
	assert.Empty(t, handler.MapKeyToString(envMap, "missing"))

	assert.True(t, handler.MapKeyToBool(envMap, "boolean"))
	assert.False(t, handler.MapKeyToBool(envMap, "badBool"))
	assert.False(t, handler.MapKeyToBool(envMap, "missing"))

	assert.Equal(t, 42, handler.MapKeyToInt(envMap, "number"))
	assert.Equal(t, -1, handler.MapKeyToInt(envMap, "badNum"))
	assert.Equal(t, -1, handler.MapKeyToInt(envMap, "missing"))

	assert.Equal(t, []string{"a", "b", "c"}, handler.MapKeyToList(envMap, "list"))
	assert.Nil(t, handler.MapKeyToList(envMap, "missing"))
}
