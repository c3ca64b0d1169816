package middleware

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/paseto/errors"
	"github.com/kochabx/paseto/log"
	khttp "github.com/kochabx/paseto/transport/http"
)

// RecoveryConfig Recovery 中间件配置
type RecoveryConfig struct {
	StackTrace bool // 是否记录堆栈信息
	Logger     *log.Logger
}

// Recovery 捕获 panic，返回 500 业务码
func Recovery(cfgs ...RecoveryConfig) gin.HandlerFunc {
	cfg := RecoveryConfig{StackTrace: true}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// 客户端断开，无法再写响应
			if err, ok := rec.(error); ok && isBrokenPipe(err) {
				cfg.Logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("broken pipe")
				_ = c.Error(err)
				c.Abort()
				return
			}

			event := cfg.Logger.Error().
				Str("panic", fmt.Sprint(rec)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path)
			if cfg.StackTrace {
				event = event.Bytes("stack", debug.Stack())
			}
			event.Msg("panic recovered")

			khttp.GinJSONE(c, http.StatusInternalServerError, nil)
			c.Abort()
		}()
		c.Next()
	}
}

func isBrokenPipe(err error) bool {
	opErr, ok := errors.AsType[*net.OpError](err)
	if !ok {
		return false
	}
	return errors.Is(opErr, syscall.EPIPE) || errors.Is(opErr, syscall.ECONNRESET)
}
