package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/haferml/hafer/pkg/coerce"
	"github.com/haferml/hafer/pkg/errors"
)

// EnvPrefix marks environment variables that override settings. Nested keys
// are separated by a double underscore: HAFER_LOGGING__VERBOSITY.
const EnvPrefix = "HAFER_"

// SettingsFiles are looked up in the project root, first match wins.
var SettingsFiles = []string{"hafer.toml", ".hafer.toml"}

// Settings configure the hafer tool itself, as opposed to a project
// document.
type Settings struct {
	BaseFolder string           `koanf:"base_folder"`
	ConfigFile string           `koanf:"config_file"`
	Logging    LoggingSettings  `koanf:"logging"`
	Coercion   CoercionSettings `koanf:"coercion"`
	Pipeline   PipelineSettings `koanf:"pipeline"`
	Scaffold   ScaffoldSettings `koanf:"scaffold"`

	// Root is the project root the settings were loaded for.
	Root string `koanf:"-"`
	// File is the settings file that was read, if any.
	File string `koanf:"-"`
}

type LoggingSettings struct {
	Verbosity  int `koanf:"verbosity"`
	MaxSizeMB  int `koanf:"max_size_mb"`
	MaxBackups int `koanf:"max_backups"`
}

type CoercionSettings struct {
	DayFirst        bool     `koanf:"day_first"`
	InputTimezone   string   `koanf:"input_timezone"`
	OutputTimezone  string   `koanf:"output_timezone"`
	DatetimeLayouts []string `koanf:"datetime_layouts"`
}

type PipelineSettings struct {
	Tag string `koanf:"tag"`
}

type ScaffoldSettings struct {
	GracePeriod time.Duration `koanf:"grace_period"`
	Format      string        `koanf:"format"`
}

// LoadSettings merges the embedded defaults, the project settings file and
// the environment, in that order.
func LoadSettings(projectRoot string) (*Settings, error) {
	if projectRoot == "" {
		projectRoot = "."
	}
	k := koanf.New(".")

	// 1. Embedded defaults
	base := koanf.New(".")
	if err := base.Load(bytesProvider(defaultSettings), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse embedded defaults")
	}
	merged := base.Raw()

	// 2. Project settings file
	var settingsFile string
	for _, name := range SettingsFiles {
		candidate := filepath.Join(projectRoot, name)
		if _, err := os.Stat(candidate); err == nil {
			settingsFile = candidate
			break
		}
	}
	if settingsFile != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(settingsFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load settings from %s", settingsFile)
		}
		mergeMaps(merged, fk.Raw())
	}

	// 3. Environment
	ek := koanf.New(".")
	err := ek.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}
	mergeMaps(merged, ek.Raw())

	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to merge settings")
	}

	// 4. Unmarshal
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal settings")
	}

	// 5. Post-process
	s.Root = projectRoot
	s.File = settingsFile
	if s.BaseFolder != "" && !filepath.IsAbs(s.BaseFolder) {
		s.BaseFolder = filepath.Join(projectRoot, s.BaseFolder)
	}
	if s.Pipeline.Tag == "" {
		s.Pipeline.Tag = "order"
	}
	return &s, nil
}

// ConfigPath is the project document path relative to the root.
func (s *Settings) ConfigPath() string {
	if s.ConfigFile == "" || filepath.IsAbs(s.ConfigFile) {
		return s.ConfigFile
	}
	return filepath.Join(s.Root, s.ConfigFile)
}

// CoerceOptions resolves the configured time zones.
func (c CoercionSettings) CoerceOptions() (coerce.Options, error) {
	opts := coerce.Options{DayFirst: c.DayFirst, Layouts: c.DatetimeLayouts}
	var err error
	if opts.InputLocation, err = loadLocation(c.InputTimezone); err != nil {
		return opts, err
	}
	if opts.OutputLocation, err = loadLocation(c.OutputTimezone); err != nil {
		return opts, err
	}
	return opts, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "unknown time zone %q", name)
	}
	return loc, nil
}

func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		// Otherwise, overwrite
		dest[key] = srcVal
	}
}
