package configuration

import (
	"fmt"
	"path/filepath"

	"github.com/mxtools/mxgen/internal/schema"
)

const (
	// EnvProjectRoot names the environment variable pointing at the project
	// root; falls back to the current working directory when unset.
	EnvProjectRoot = "MXGEN_ROOT"

	// EnvSysroot names the environment variable pointing at the system
	// headers directory; falls back to <root>/system/public when unset.
	EnvSysroot = "MXGEN_SYSROOT"

	// ConfigFileName is the optional per-project configuration file,
	// resolved relative to the project root.
	ConfigFileName = "mxgen.cfg"

	DefaultSysrootRel = "system/public"
	DefaultOutputRel  = "bindings/definitions.go"
	DefaultPackage    = "magenta"
	DefaultLibName    = "magenta"
	DefaultWordSize   = 8

	SettingHeaders        = "genHeaders"
	SettingIncludeDirs    = "genIncludeDirs"
	SettingOutput         = "genOutput"
	SettingPackage        = "genPackage"
	SettingLibName        = "genLibrary"
	SettingTypePrefixes   = "matchTypes"
	SettingConstPrefixes  = "matchConstants"
	SettingFuncPrefixes   = "matchFunctions"
	SettingDeriveDefaults = "emitDeriveDefaults"
	SettingFreestanding   = "emitFreestanding"
	SettingOffsetAsserts  = "emitOffsetAsserts"
	SettingWordSize       = "emitWordSize"
)

// Config is the explicit run configuration handed to the extraction pipeline.
// All paths are absolute after [Handler.EstablishConfig].
type Config struct {
	ProjectRoot string
	Sysroot     string

	Headers     []string
	IncludeDirs []string
	OutputPath  string

	Rules   []schema.FilterRule
	Options schema.EmitOptions
}

// DefaultRules returns the stock filter rule set for Magenta-style system
// headers: mx_-prefixed types and functions, MX_/ERR_/NO_ERROR constants.
func DefaultRules() []schema.FilterRule {
	return []schema.FilterRule{
		{Prefix: "mx_", Kind: schema.KindTypeAlias},
		{Prefix: "mx_", Kind: schema.KindStruct},
		{Prefix: "mx_", Kind: schema.KindEnum},
		{Prefix: "mx_", Kind: schema.KindFunction},
		{Prefix: "MX_", Kind: schema.KindConstant},
		{Prefix: "ERR_", Kind: schema.KindConstant},
		{Prefix: "NO_ERROR", Kind: schema.KindConstant},
	}
}

// EstablishConfig resolves the full run configuration from the environment
// and, where present, the per-project configuration file. The passed working
// directory is the fallback project root.
func (c *Handler) EstablishConfig(workDir string) (*Config, error) {
	root := c.EnvProvider.Getenv(EnvProjectRoot)
	if root == "" {
		root = c.searchRoot(workDir)
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(workDir, root)
	}

	sysroot := c.EnvProvider.Getenv(EnvSysroot)
	if sysroot == "" {
		sysroot = filepath.Join(root, DefaultSysrootRel)
	}
	if !filepath.IsAbs(sysroot) {
		sysroot = filepath.Join(root, sysroot)
	}

	config := &Config{
		ProjectRoot: root,
		Sysroot:     sysroot,
		OutputPath:  filepath.Join(root, DefaultOutputRel),
		Rules:       DefaultRules(),
		Options: schema.EmitOptions{
			PackageName: DefaultPackage,
			LibName:     DefaultLibName,
			WordSize:    DefaultWordSize,
		},
	}

	// The per-project file is optional, but once it exists it must be
	// readable: silently falling back to defaults would discard the
	// user's entire configuration.
	configFile := filepath.Join(root, ConfigFileName)
	if _, err := c.OSOps.Stat(configFile); err != nil {
		return config.normalized(), nil //nolint:nilerr
	}

	configMap, err := c.ReadGeneric(configFile)
	if err != nil {
		return nil, fmt.Errorf("(config) %s: %w", configFile, err)
	}

	if err := c.applyConfigMap(config, configMap); err != nil {
		return nil, fmt.Errorf("(config) %s: %w", configFile, err)
	}

	return config.normalized(), nil
}

// searchRoot walks upward from the working directory looking for a project
// marker (the per-project configuration file or a repository root), falling
// back to the working directory itself when no marker exists.
func (c *Handler) searchRoot(workDir string) string {
	dir := workDir
	for {
		if _, err := c.OSOps.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir
		}
		if _, err := c.OSOps.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return workDir
		}
		dir = parent
	}
}

func (c *Handler) applyConfigMap(config *Config, configMap map[string]string) error {
	if headers := c.MapKeyToList(configMap, SettingHeaders); headers != nil {
		config.Headers = headers
	}

	if includeDirs := c.MapKeyToList(configMap, SettingIncludeDirs); includeDirs != nil {
		config.IncludeDirs = includeDirs
	}

	if output := c.MapKeyToString(configMap, SettingOutput); output != "" {
		config.OutputPath = output
	}

	if pkg := c.MapKeyToString(configMap, SettingPackage); pkg != "" {
		config.Options.PackageName = pkg
	}

	if lib := c.MapKeyToString(configMap, SettingLibName); lib != "" {
		config.Options.LibName = lib
	}

	config.Options.DeriveDefaults = c.MapKeyToBool(configMap, SettingDeriveDefaults)
	config.Options.Freestanding = c.MapKeyToBool(configMap, SettingFreestanding)
	config.Options.OffsetAsserts = c.MapKeyToBool(configMap, SettingOffsetAsserts)

	if wordSize := c.MapKeyToInt(configMap, SettingWordSize); wordSize > 0 {
		if wordSize != 4 && wordSize != 8 {
			return fmt.Errorf("%w: %d", ErrBadWordSize, wordSize)
		}
		config.Options.WordSize = wordSize
	}

	rules := rulesFromPrefixes(
		c.MapKeyToList(configMap, SettingTypePrefixes),
		c.MapKeyToList(configMap, SettingConstPrefixes),
		c.MapKeyToList(configMap, SettingFuncPrefixes),
	)
	if rules != nil {
		config.Rules = rules
	}

	return nil
}

// rulesFromPrefixes expands configured prefix lists into the full rule set.
// Type prefixes cover aliases, structs and enums alike, mirroring how the
// native headers spell all three through typedefs.
func rulesFromPrefixes(typePrefixes, constPrefixes, funcPrefixes []string) []schema.FilterRule {
	var rules []schema.FilterRule

	for _, prefix := range typePrefixes {
		rules = append(rules,
			schema.FilterRule{Prefix: prefix, Kind: schema.KindTypeAlias},
			schema.FilterRule{Prefix: prefix, Kind: schema.KindStruct},
			schema.FilterRule{Prefix: prefix, Kind: schema.KindEnum},
		)
	}

	for _, prefix := range constPrefixes {
		rules = append(rules, schema.FilterRule{Prefix: prefix, Kind: schema.KindConstant})
	}

	for _, prefix := range funcPrefixes {
		rules = append(rules, schema.FilterRule{Prefix: prefix, Kind: schema.KindFunction})
	}

	return rules
}

// normalized anchors relative headers to the sysroot, all other relative
// paths to the project root, and ensures the sysroot is always part of the
// include search path.
func (config *Config) normalized() *Config {
	for i, header := range config.Headers {
		if !filepath.IsAbs(header) {
			config.Headers[i] = filepath.Join(config.Sysroot, header)
		}
	}

	for i, dir := range config.IncludeDirs {
		if !filepath.IsAbs(dir) {
			config.IncludeDirs[i] = filepath.Join(config.ProjectRoot, dir)
		}
	}
	config.IncludeDirs = append([]string{config.Sysroot}, config.IncludeDirs...)

	if !filepath.IsAbs(config.OutputPath) {
		config.OutputPath = filepath.Join(config.ProjectRoot, config.OutputPath)
	}

	return config
}
