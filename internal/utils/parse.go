package utils

import (
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into config. Keys of the file that config
// has no field for are logged and otherwise ignored.
func LoadTOMLFile(configPath string, config any) error {
	meta, err := toml.DecodeFile(configPath, config)
	if err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return err
	}
	for _, key := range meta.Undecoded() {
		log.Warnf("Ignoring unknown config key %q in %s", key.String(), configPath)
	}
	return nil
}

// ParseTOMLWithRecovery parses a TOML file into a generic map so that
// sections with valid keys can still be used when the typed decode fails.
func ParseTOMLWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return raw, nil
}

// Section is one table of a generically parsed TOML file, limited to the
// keys its owner accepts.
type Section struct {
	name   string
	values map[string]any
}

// ExtractSection returns the table sectionName of data. Keys outside of
// accepted are logged and dropped.
func ExtractSection(data map[string]any, sectionName string, accepted ...string) (Section, bool) {
	values, ok := data[sectionName].(map[string]any)
	if !ok {
		return Section{}, false
	}
	kept := make(map[string]any, len(values))
	for key, val := range values {
		if len(accepted) > 0 && !slices.Contains(accepted, key) {
			log.Warnf("Ignoring unknown config key %s.%s", sectionName, key)
			continue
		}
		kept[key] = val
	}
	return Section{name: sectionName, values: kept}, true
}

// Has reports whether key is set in the section, whatever its type.
func (s Section) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// extract looks key up with the wanted type. A key holding the wrong type
// is reported so the caller's default stays in place visibly.
func extract[T any](s Section, key string) (T, bool) {
	var zero T
	raw, ok := s.values[key]
	if !ok {
		return zero, false
	}
	val, ok := raw.(T)
	if !ok {
		log.Warnf("Config key %s.%s has type %T, want %T. Keeping default", s.name, key, raw, zero)
		return zero, false
	}
	return val, true
}

// ExtractInt64 extracts an integer value. TOML integers decode as int64.
func ExtractInt64(s Section, key string) (int, bool) {
	val, ok := extract[int64](s, key)
	return int(val), ok
}

// ExtractBool extracts a bool value
func ExtractBool(s Section, key string) (bool, bool) {
	return extract[bool](s, key)
}

// ExtractString extracts a string value
func ExtractString(s Section, key string) (string, bool) {
	return extract[string](s, key)
}
