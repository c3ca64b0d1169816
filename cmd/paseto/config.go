package main

import (
	"github.com/kochabx/paseto/core/auth/token"
	"github.com/kochabx/paseto/core/auth/token/cache/redis"
	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/log"
	khttp "github.com/kochabx/paseto/transport/http"
)

// Config is the layout of paseto.yaml. Every key can be overridden by an
// environment variable, e.g. PASETO_LOG_LEVEL=debug.
type Config struct {
	Version    paseto.Version   `mapstructure:"version" default:"v2" validate:"paseto_version"`
	Keys       KeysConfig       `mapstructure:"keys"`
	Log        log.Config       `mapstructure:"log"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Token      token.Config     `mapstructure:"token"`
	Revocation RevocationConfig `mapstructure:"revocation"`
	Server     ServerConfig     `mapstructure:"server"`
}

// KeysConfig names the key files used when -key is not given.
type KeysConfig struct {
	Local  string `mapstructure:"local" default:"local.key"`
	Secret string `mapstructure:"secret" default:"secret.pem"`
	Public string `mapstructure:"public" default:"public.pem"`
	// KeyID is the kid written into the footer of issued tokens.
	KeyID string `mapstructure:"kid" default:"default"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" default:"8" validate:"gte=1"`
}

// RevocationConfig enables the Redis backed revocation list for serve.
type RevocationConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	Redis   redis.Config `mapstructure:"redis"`
}

type ServerConfig struct {
	Addr          string `mapstructure:"addr" default:":8080"`
	khttp.Options `mapstructure:",squash"`
}
