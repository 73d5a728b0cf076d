// Package config provides centralized configuration for anewcommit runtime values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
)

const (
	// AppName names the config directory under xdg.ConfigHome.
	AppName = "anewcommit"
	// EnvPrefix prefixes environment overrides, e.g. ANEWCOMMIT_UNDO_LIMIT.
	EnvPrefix = "ANEWCOMMIT"
	// DefaultProjectFile is the project file name used when none is given.
	DefaultProjectFile = "anewcommit.json"
)

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	Undo    UndoConfig    `mapstructure:"undo" json:"undo"`
	Storage StorageConfig `mapstructure:"storage" json:"storage"`
	Project ProjectConfig `mapstructure:"project" json:"project"`
}

// UndoConfig holds undo history configuration.
type UndoConfig struct {
	// PreserveRedo keeps undone steps when a new edit is recorded.
	// Default: false
	PreserveRedo bool `mapstructure:"preserve_redo" json:"preserve_redo"`

	// Limit caps the number of recorded steps. Zero means unlimited.
	// Default: 0
	Limit int `mapstructure:"limit" json:"limit"`
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// StateDir is the session database directory.
	// Default: "" (xdg.DataHome/anewcommit/db)
	StateDir string `mapstructure:"state_dir" json:"state_dir"`
}

// ProjectConfig holds project-file defaults.
type ProjectConfig struct {
	// FileName is the project file created under a root directory.
	// Default: anewcommit.json
	FileName string `mapstructure:"file_name" json:"file_name"`

	// DefaultMergeMode is used by 'add version' and 'init' without --mode.
	// Default: delete_then_add
	DefaultMergeMode string `mapstructure:"default_merge_mode" json:"default_merge_mode"`

	// AutoSave writes the project file after every edit.
	// Default: true
	AutoSave bool `mapstructure:"auto_save" json:"auto_save"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Undo: UndoConfig{
			PreserveRedo: false,
			Limit:        0,
		},
		Project: ProjectConfig{
			FileName:         DefaultProjectFile,
			DefaultMergeMode: string(model.MergeDeleteThenAdd),
			AutoSave:         true,
		},
	}
}

// DefaultConfigPath returns xdg.ConfigHome/anewcommit/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Global holds the configuration of the current invocation.
// It starts with defaults and is replaced by the CLI after Load.
var Global = DefaultRuntimeConfig()

// Load reads the config file at path (DefaultConfigPath when empty) and
// ANEWCOMMIT_* environment variables over the defaults. A missing default
// config file is not an error; a missing explicit one is.
func Load(path string) (*RuntimeConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultRuntimeConfig())

	v.SetConfigType("yaml")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil, anerrors.NewSystemErrorWithOp("load config", "cannot read "+path, err)
		}
	}

	cfg := &RuntimeConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, anerrors.NewSystemErrorWithOp("load config", "cannot decode "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *RuntimeConfig) {
	v.SetDefault("undo.preserve_redo", d.Undo.PreserveRedo)
	v.SetDefault("undo.limit", d.Undo.Limit)
	v.SetDefault("storage.state_dir", d.Storage.StateDir)
	v.SetDefault("project.file_name", d.Project.FileName)
	v.SetDefault("project.default_merge_mode", d.Project.DefaultMergeMode)
	v.SetDefault("project.auto_save", d.Project.AutoSave)
}

// Validate checks every value against its accepted range.
func (c *RuntimeConfig) Validate() error {
	if c.Undo.Limit < 0 {
		return anerrors.NewUserErrorWithField("undo.limit", fmt.Sprint(c.Undo.Limit),
			"undo limit must not be negative", "Use 0 for an unlimited history.")
	}
	name := c.Project.FileName
	if name == "" || filepath.Base(name) != name {
		return anerrors.NewUserErrorWithField("project.file_name", name,
			"project file name must be a plain file name", "Use a name like anewcommit.json.")
	}
	if !model.MergeMode(c.Project.DefaultMergeMode).IsValid() {
		return anerrors.NewValidationError(anerrors.ErrInvalidMergeMode, "merge mode",
			c.Project.DefaultMergeMode, []string{string(model.MergeDeleteThenAdd), string(model.MergeOverlay)})
	}
	return nil
}

// HistoryPolicy returns the undo policy selected by Undo.PreserveRedo.
func (c *RuntimeConfig) HistoryPolicy() model.HistoryPolicy {
	if c.Undo.PreserveRedo {
		return model.PreserveRedo
	}
	return model.DiscardRedo
}

// MergeMode returns the configured default merge mode.
func (c *RuntimeConfig) MergeMode() model.MergeMode {
	return model.MergeMode(c.Project.DefaultMergeMode)
}

// Keys lists every configuration key in file order.
func Keys() []string {
	return []string{
		"undo.preserve_redo",
		"undo.limit",
		"storage.state_dir",
		"project.file_name",
		"project.default_merge_mode",
		"project.auto_save",
	}
}

// Get returns the value of key.
func (c *RuntimeConfig) Get(key string) (any, error) {
	switch key {
	case "undo.preserve_redo":
		return c.Undo.PreserveRedo, nil
	case "undo.limit":
		return c.Undo.Limit, nil
	case "storage.state_dir":
		return c.Storage.StateDir, nil
	case "project.file_name":
		return c.Project.FileName, nil
	case "project.default_merge_mode":
		return c.Project.DefaultMergeMode, nil
	case "project.auto_save":
		return c.Project.AutoSave, nil
	}
	return nil, unknownKey(key)
}

func unknownKey(key string) error {
	return anerrors.NewUserErrorWithField("key", key, "unknown config key",
		"Known keys: "+strings.Join(Keys(), ", "))
}

// Set writes key=value into the config file at path (DefaultConfigPath
// when empty), keeping the other values in the file. The result must
// validate before anything is written.
func Set(path, key, value string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	defaults := DefaultRuntimeConfig()
	current, err := defaults.Get(key)
	if err != nil {
		return err
	}

	var typed any = value
	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return anerrors.NewUserErrorWithField(key, value, "expected true or false", "")
		}
		typed = b
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return anerrors.NewUserErrorWithField(key, value, "expected a whole number", "")
		}
		typed = n
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return anerrors.NewSystemErrorWithOp("set config", "cannot read "+path, err)
	}
	v.Set(key, typed)

	check := viper.New()
	setDefaults(check, defaults)
	if err := check.MergeConfigMap(v.AllSettings()); err != nil {
		return anerrors.NewSystemErrorWithOp("set config", "cannot merge settings", err)
	}
	cfg := &RuntimeConfig{}
	if err := check.Unmarshal(cfg); err != nil {
		return anerrors.NewSystemErrorWithOp("set config", "cannot decode settings", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return anerrors.NewSystemErrorWithOp("set config", "cannot create config directory", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return anerrors.NewSystemErrorWithOp("set config", "cannot write "+path, err)
	}
	return nil
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	*c = *DefaultRuntimeConfig()
}
