package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/paseto/core/tag"
	"github.com/kochabx/paseto/core/validator"
	"github.com/kochabx/paseto/log/desensitize"
	"github.com/kochabx/paseto/log/writer"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	desensitizeHook *desensitize.Hook
	writer          io.Writer
	closer          io.Closer // 用于资源清理
}

// GetDesensitizeHook 获取脱敏钩子
func (l *Logger) GetDesensitizeHook() *desensitize.Hook {
	return l.desensitizeHook
}

// Close 关闭日志记录器，释放资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func init() {
	// 初始化全局日志配置
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// SetZerologGlobalLevel 设置全局日志级别
func SetZerologGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// newLogger 统一的 Logger 构建方法，脱敏 writer 在构建 zerolog.Logger 之前包装
func newLogger(w io.Writer, opts ...Option) *Logger {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	out := w
	if o.hook != nil {
		out = desensitize.NewWriter(w, o.hook)
	}

	ctx := zerolog.New(out).With().Timestamp()
	if o.caller {
		if o.callerSkip > 0 {
			ctx = ctx.CallerWithSkipFrameCount(o.callerSkip)
		} else {
			ctx = ctx.Caller()
		}
	}

	zl := ctx.Logger()
	if o.level != nil {
		zl = zl.Level(*o.level)
	}

	return &Logger{
		Logger:          zl,
		desensitizeHook: o.hook,
		writer:          out,
	}
}

// New 创建新的 Logger 实例，输出到控制台 (stderr)
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(nil), opts...)
}

// NewWriter 创建输出到指定 writer 的 JSON Logger
func NewWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// NewFile 创建文件输出的 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	fw, err := fileWriter(&c)
	if err != nil {
		return nil, err
	}

	logger := newLogger(fw, opts...)
	logger.closer = fw
	return logger, nil
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	fw, err := fileWriter(&c)
	if err != nil {
		return nil, err
	}

	// 创建多路输出
	multi := zerolog.MultiLevelWriter(fw, writer.Console(nil))
	logger := newLogger(multi, opts...)
	logger.closer = fw
	return logger, nil
}

// NewFromConfig 根据配置创建 Logger
func NewFromConfig(c Config) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := validator.Validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	opts := []Option{WithLevel(level)}
	if c.Caller {
		opts = append(opts, WithCaller())
	}
	if !c.DisableDesensitize {
		opts = append(opts, WithBuiltinDesensitize())
	}

	switch c.Output {
	case "file":
		return NewFile(c.File, opts...)
	case "multi":
		return NewMulti(c.File, opts...)
	default:
		return New(opts...), nil
	}
}

func fileWriter(c *FileConfig) (io.WriteCloser, error) {
	// 应用默认配置
	if err := tag.ApplyDefaults(c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := validator.Validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid log file config: %w", err)
	}

	w, err := writer.File(c.rotation())
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}
	return w, nil
}
