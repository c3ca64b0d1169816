package log

import (
	"github.com/rs/zerolog"

	"github.com/kochabx/paseto/log/desensitize"
)

type options struct {
	level      *zerolog.Level
	caller     bool
	callerSkip int
	hook       *desensitize.Hook
}

// Option Logger 选项函数
type Option func(*options)

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(o *options) {
		o.level = &level
	}
}

// WithCaller 设置调用栈信息
func WithCaller() Option {
	return func(o *options) {
		o.caller = true
	}
}

// WithCallerSkip 设置调用栈跳过的帧数
func WithCallerSkip(skip int) Option {
	return func(o *options) {
		o.caller = true
		o.callerSkip = skip
	}
}

// WithDesensitize 设置脱敏钩子
func WithDesensitize(hook *desensitize.Hook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

// WithBuiltinDesensitize 使用内置的令牌与密钥脱敏规则
func WithBuiltinDesensitize() Option {
	return WithDesensitize(desensitize.NewHook(desensitize.BuiltinRules()...))
}
