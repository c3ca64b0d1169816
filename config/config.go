package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/paseto/core/validator"
	"github.com/kochabx/paseto/log"
)

// Config manages application configuration
type Config struct {
	mu       sync.RWMutex        // protects concurrent access to target
	viper    *viper.Viper        // viper instance for configuration management
	validate validator.Validator // validator for configuration validation
	target   any                 // target is the destination where the configuration will be unmarshalled
	loader   Loader              // loader is responsible for loading configuration
	watch    bool                // whether Load starts watching for configuration changes
	once     sync.Once
	onChange []func()
}

// New creates a new Config instance with the given options
// If no loader is provided, a default FileLoader will be created with:
//   - filename: "paseto.yaml"
//   - paths: ["."]
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader(DefaultFilename, []string{"."}, c.viper, c.validate)
	}

	return c
}

// Load reads the configuration using the configured loader and, when enabled,
// starts watching it.
func (c *Config) Load() error {
	if err := c.Reload(); err != nil {
		return err
	}

	if c.watch {
		var err error
		c.once.Do(func() { err = c.Watch() })
		return err
	}
	return nil
}

// Reload reloads the configuration from the loader
func (c *Config) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Read runs fn while holding the read lock on the target.
func (c *Config) Read(fn func()) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn()
}

// OnChange registers fn to run after every successful reload triggered by a
// file change. It must be called before Watch.
func (c *Config) OnChange(fn func()) {
	c.onChange = append(c.onChange, fn)
}

// Watch reloads the configuration whenever the loader reports a change.
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		log.Info().Str("source", c.loader.Source()).Msg("config change detected")

		if err := c.Reload(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		for _, fn := range c.onChange {
			fn()
		}
		log.Info().Msg("config reloaded successfully")
	})
}

// Source returns the file the configuration was read from, "" when only
// defaults were applied.
func (c *Config) Source() string {
	return c.loader.Source()
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
