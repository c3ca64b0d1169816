package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/paseto/core/validator"
)

// Option is a function that configures a Config
type Option func(*Config)

// WithViper sets a custom viper instance
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

// WithValidator sets a custom validator
func WithValidator(v validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader sets the configuration loader
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithFile loads the configuration from an explicit file path. When optional
// is true a missing file leaves the struct defaults in place.
func WithFile(path string, optional bool) Option {
	return func(c *Config) {
		l := NewPathLoader(path, c.viper, c.validate)
		l.optional = optional
		c.loader = l
	}
}

// WithWatch enables or disables automatic configuration watching
func WithWatch(enable bool) Option {
	return func(c *Config) {
		c.watch = enable
	}
}
