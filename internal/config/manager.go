// File: internal/config/manager.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// ConfigManager reads settings from defaults, the config file and S3SH_* environment
// variables. Writes only ever touch the config file.
type ConfigManager struct {
	v    *viper.Viper
	path string
	home string
}

// Creates a manager for the default config location (~/.config/s3sh/config.yaml)
func NewConfigManager() (*ConfigManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting user home directory: %w", err)
	}
	return NewConfigManagerAt(filepath.Join(home, ".config", ConfigDirName, ConfigFileName), home)
}

// Creates a manager for an explicit config file. home is used to derive the default state directory.
func NewConfigManagerAt(path, home string) (*ConfigManager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	m := &ConfigManager{path: path, home: home}
	settings, err := m.fileSettings()
	if err != nil {
		return nil, err
	}
	m.v, err = m.build(settings)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ConfigManager) Path() string {
	return m.path
}

func (m *ConfigManager) build(settings map[string]any) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range defaults(m.home) {
		v.SetDefault(k, val)
	}
	if err := v.MergeConfigMap(settings); err != nil {
		return nil, fmt.Errorf("error merging config file: %w", err)
	}
	return v, nil
}

// Decodes and validates the current settings
func (m *ConfigManager) LoadConfig() (*Config, error) {
	return decode(m.v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		trimStringHook(),
	)))
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.HomeDir, err = ExpandHome(cfg.HomeDir)
	if err != nil {
		return nil, err
	}
	cfg.Provider.Name = strings.ToLower(cfg.Provider.Name)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func trimStringHook() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data any) (any, error) {
		if from == reflect.String && to == reflect.String {
			return strings.TrimSpace(data.(string)), nil
		}
		return data, nil
	}
}

// Sets key in the config file. The value must leave the whole configuration valid.
func (m *ConfigManager) SetValue(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key: %s. Known keys are: %v", key, KnownKeys())
	}

	settings, err := m.fileSettings()
	if err != nil {
		return err
	}
	setNested(settings, strings.Split(key, "."), value)

	return m.apply(settings)
}

func (m *ConfigManager) GetValue(key string) (any, bool) {
	if !m.v.IsSet(key) {
		return nil, false
	}
	return m.v.Get(key), true
}

// Removes key from the config file so its default applies again.
// Reports false when the file did not set the key.
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	settings, err := m.fileSettings()
	if err != nil {
		return false, err
	}
	if !deleteNested(settings, strings.Split(key, ".")) {
		return false, nil
	}
	if err := m.apply(settings); err != nil {
		return false, err
	}
	return true, nil
}

func (m *ConfigManager) GetAllSettings() map[string]any {
	return m.v.AllSettings()
}

// Validates settings merged with defaults, then writes them to the config file
func (m *ConfigManager) apply(settings map[string]any) error {
	candidate, err := m.build(settings)
	if err != nil {
		return err
	}
	if _, err := decode(candidate); err != nil {
		return err
	}

	file := viper.New()
	file.SetConfigType("yaml")
	if err := file.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("error rebuilding config: %w", err)
	}
	if err := file.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	m.v = candidate
	return nil
}

// Settings read from the config file only, without defaults or environment overrides
func (m *ConfigManager) fileSettings() (map[string]any, error) {
	file := viper.New()
	file.SetConfigFile(m.path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return file.AllSettings(), nil
}

func setNested(settings map[string]any, parts []string, value any) {
	if len(parts) == 1 {
		settings[parts[0]] = value
		return
	}
	child, ok := settings[parts[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		settings[parts[0]] = child
	}
	setNested(child, parts[1:], value)
}

func deleteNested(settings map[string]any, parts []string) bool {
	if len(parts) == 1 {
		if _, ok := settings[parts[0]]; !ok {
			return false
		}
		delete(settings, parts[0])
		return true
	}
	child, ok := settings[parts[0]].(map[string]any)
	if !ok || !deleteNested(child, parts[1:]) {
		return false
	}
	if len(child) == 0 {
		delete(settings, parts[0])
	}
	return true
}

// IsKnownKey reports whether key is one of the settings s3sh reads
func IsKnownKey(key string) bool {
	_, ok := defaults("")[key]
	return ok
}

// KnownKeys lists every settable key in sorted order
func KnownKeys() []string {
	return slices.Sorted(maps.Keys(defaults("")))
}
