package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/paseto/core/validator"
	"github.com/kochabx/paseto/errors"
	"github.com/kochabx/paseto/log"
)

var (
	ErrInvalidConfig = errors.BadRequest("redis: invalid configuration")
	ErrUnavailable   = errors.ServiceUnavailable("redis: server unavailable")
)

// Option 客户端选项
type Option func(*clientOptions)

type clientOptions struct {
	logger          *log.Logger
	debug           bool
	slowQueryThresh time.Duration
	tracing         bool
	metrics         bool
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithDebug 记录每条命令，超过阈值的命令记为慢查询
func WithDebug(slowQueryThresh time.Duration) Option {
	return func(o *clientOptions) {
		o.debug = true
		o.slowQueryThresh = slowQueryThresh
	}
}

// WithTracing 启用 OpenTelemetry 追踪
func WithTracing() Option {
	return func(o *clientOptions) {
		o.tracing = true
	}
}

// WithMetrics 启用 OpenTelemetry 指标
func WithMetrics() Option {
	return func(o *clientOptions) {
		o.metrics = true
	}
}

// NewClient 根据配置创建 redis.UniversalClient 并检查连通性
func NewClient(ctx context.Context, cfg *Config, opts ...Option) (redis.UniversalClient, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}
	if err := validator.Validate.Struct(cfg); err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}

	o := &clientOptions{logger: log.G}
	for _, opt := range opts {
		opt(o)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        cfg.Addrs,
		MasterName:   cfg.MasterName,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Protocol:     cfg.Protocol,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := setupHooks(client, o); err != nil {
		_ = client.Close()
		return nil, err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ErrUnavailable.WithCause(err)
	}

	o.logger.Debug().Str("mode", cfg.mode()).Strs("addrs", cfg.Addrs).Msg("redis client created")
	return client, nil
}

func setupHooks(client redis.UniversalClient, o *clientOptions) error {
	if o.tracing {
		if err := redisotel.InstrumentTracing(client); err != nil {
			return err
		}
	}
	if o.metrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			return err
		}
	}
	if o.debug {
		client.AddHook(NewDebugHook(o.logger, o.slowQueryThresh))
	}
	return nil
}
