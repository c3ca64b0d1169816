package config

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/kochabx/paseto/core/tag"
	"github.com/kochabx/paseto/core/validator"
	"github.com/kochabx/paseto/errors"
)

// decodeHook 在 viper 默认钩子之外支持 encoding.TextUnmarshaler，例如 paseto.Version
var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
	mapstructure.TextUnmarshallerHookFunc(),
)

const (
	// DefaultFilename is the configuration file looked up by default.
	DefaultFilename = "paseto.yaml"
	// EnvPrefix prefixes every environment override, e.g. PASETO_LOG_LEVEL.
	EnvPrefix = "PASETO"
)

var (
	ErrConfigNotFound   = errors.NotFound("config file not found")
	ErrConfigParse      = errors.Internal("config parse error")
	ErrConfigValidation = errors.BadRequest("config validation failed")
	ErrConfigDefaults   = errors.Internal("failed to apply defaults")
)

// FileLoader loads configuration from file
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	name     string
	paths    []string
	optional bool
	source   string
}

// NewFileLoader creates a loader that searches paths for name.
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator) *FileLoader {
	ext := filepath.Ext(name)

	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}
	v.SetConfigName(strings.TrimSuffix(name, ext))
	v.SetConfigType(strings.TrimPrefix(ext, "."))
	setupEnv(v)

	return &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
}

// NewPathLoader creates a loader for a single explicit file path.
func NewPathLoader(path string, v *viper.Viper, validate validator.Validator) *FileLoader {
	v.SetConfigFile(path)
	setupEnv(v)

	return &FileLoader{
		viper:    v,
		name:     path,
		validate: validate,
	}
}

func setupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load implements Loader interface
func (l *FileLoader) Load(target any) error {
	// Defaults go in first so keys missing from the file keep them
	if err := tag.ApplyDefaults(target); err != nil {
		return ErrConfigDefaults.WithCause(err)
	}

	l.source = ""
	if err := l.viper.ReadInConfig(); err != nil {
		switch {
		case !isNotFound(err):
			return ErrConfigParse.WithMetadata(map[string]string{"file": l.name}).WithCause(err)
		case !l.optional:
			return ErrConfigNotFound.WithMetadata(map[string]string{"file": l.name}).WithCause(err)
		}
	} else {
		l.source = l.viper.ConfigFileUsed()
	}

	if err := l.viper.Unmarshal(target, viper.DecodeHook(decodeHook)); err != nil {
		return ErrConfigParse.WithCause(err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return ErrConfigValidation.WithCause(err)
		}
	}

	return nil
}

// Source implements Loader interface
func (l *FileLoader) Source() string {
	return l.source
}

// Watch implements Loader interface
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if callback != nil && e.Has(fsnotify.Write|fsnotify.Create) {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
