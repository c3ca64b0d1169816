package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/paseto/log"
)

// DebugHook 调试钩子（日志记录 + 慢查询检测）。只记录命令名，不记录参数。
type DebugHook struct {
	logger          *log.Logger
	slowQueryThresh time.Duration // 0 表示不检测慢查询
}

// NewDebugHook 创建调试 Hook
func NewDebugHook(logger *log.Logger, slowQueryThresh time.Duration) *DebugHook {
	return &DebugHook{
		logger:          logger,
		slowQueryThresh: slowQueryThresh,
	}
}

func (h *DebugHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Error().Str("addr", addr).Dur("duration", time.Since(start)).Err(err).Msg("redis dial failed")
		}
		return conn, err
	}
}

func (h *DebugHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(cmd.FullName(), time.Since(start), err)
		return err
	}
}

func (h *DebugHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.record("pipeline", time.Since(start), err)
		return err
	}
}

func (h *DebugHook) record(name string, duration time.Duration, err error) {
	switch {
	case h.slowQueryThresh > 0 && duration > h.slowQueryThresh:
		h.logger.Warn().Str("cmd", name).Dur("duration", duration).Dur("threshold", h.slowQueryThresh).Msg("slow query detected")
	case err != nil && err != redis.Nil:
		h.logger.Warn().Str("cmd", name).Dur("duration", duration).Err(err).Msg("redis command failed")
	default:
		h.logger.Debug().Str("cmd", name).Dur("duration", duration).Msg("redis command")
	}
}
