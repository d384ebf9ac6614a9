// Package configuration resolves the run configuration of the extractor from
// the process environment and optional Unix-type configuration files. All
// resolved settings end up in an explicit [Config] structure that is passed
// into the extraction pipeline, so tests can construct synthetic runs without
// touching ambient global state.
package configuration

import (
	"os"
	"strconv"
	"strings"
)

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

type envProvider interface {
	Getenv(key string) string
}

type osProvider interface {
	Stat(name string) (os.FileInfo, error)
}

// Handler is the principal implementation for configuration reading.
type Handler struct {
	ConfigProvider genericConfigProvider
	EnvProvider    envProvider
	OSOps          osProvider
}

// NewHandler returns a pointer to a new configuration [Handler].
func NewHandler(configProvider genericConfigProvider, envProvider envProvider, osOps osProvider) *Handler {
	return &Handler{
		ConfigProvider: configProvider,
		EnvProvider:    envProvider,
		OSOps:          osOps,
	}
}

// ReadGeneric reads generic Unix-type configuration files into a map.
func (c *Handler) ReadGeneric(filenames ...string) (map[string]string, error) {
	return c.ConfigProvider.Read(filenames...)
}

// MapKeyToString returns the value for a key, or empty when unset.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return value
	}

	return ""
}

// MapKeyToBool returns the boolean value for a key, or false when unset or
// not parseable.
func (c *Handler) MapKeyToBool(envMap map[string]string, key string) bool {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return false
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}

	return boolValue
}

// MapKeyToInt returns the integer value for a key, or -1 when unset or not
// parseable.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) int {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToList returns the comma-separated values for a key, with whitespace
// trimmed and empty elements dropped.
func (c *Handler) MapKeyToList(envMap map[string]string, key string) []string {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return nil
	}

	var list []string
	for _, element := range strings.Split(value, ",") {
		element = strings.TrimSpace(element)
		if element == "" {
			continue
		}
		list = append(list, element)
	}

	return list
}
