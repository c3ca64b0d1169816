package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kochabx/paseto/core/auth/token"
	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/errors"
	"github.com/kochabx/paseto/log"
	"github.com/kochabx/paseto/transport/http"
	"github.com/kochabx/paseto/transport/http/metrics"
)

// DefaultContextKey 默认 claims 上下文键
const DefaultContextKey = "claims"

var (
	ErrTokenMissing = errors.Unauthorized("middleware: token missing")
	ErrTokenInvalid = errors.Unauthorized("middleware: token invalid")
)

// Authenticator 校验令牌并返回 claims，*token.Authenticator[T] 实现该接口
type Authenticator[T any] interface {
	Authenticate(ctx context.Context, token string) (T, error)
}

// AuthenticatorFunc 函数适配器
type AuthenticatorFunc[T any] func(ctx context.Context, token string) (T, error)

func (f AuthenticatorFunc[T]) Authenticate(ctx context.Context, token string) (T, error) {
	return f(ctx, token)
}

// TokenExtractor 从请求中提取令牌
type TokenExtractor func(c *gin.Context) (string, error)

// AuthConfig 认证中间件配置
type AuthConfig[T any] struct {
	Authenticator Authenticator[T]
	// Extractor 默认 BearerExtractor
	Extractor TokenExtractor
	// SkipPaths 支持精确路径、"/prefix/**" 前缀与 glob 模式
	SkipPaths []string
	SkipFunc  func(*gin.Context) bool
	// ContextKey claims 在 gin.Context 与 request context 中的键，默认 "claims"
	ContextKey     string
	ErrorHandler   func(c *gin.Context, err error)
	SuccessHandler func(c *gin.Context, claims T)
	Logger         *log.Logger
	// Metrics 默认 metrics.Prom
	Metrics *metrics.Prometheus
}

// Auth 创建认证中间件
func Auth[T any](cfg AuthConfig[T]) gin.HandlerFunc {
	if cfg.Authenticator == nil {
		panic("middleware: Auth requires an Authenticator")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = BearerExtractor()
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Prom
	}

	matcher := NewPathMatcher(cfg.SkipPaths)
	counter := cfg.Metrics.TokenVerifications()

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, cfg.SkipFunc) {
			c.Next()
			return
		}

		raw, err := cfg.Extractor(c)
		if err != nil {
			observe(cfg.Logger, counter, c, err)
			cfg.ErrorHandler(c, err)
			return
		}

		ctx := c.Request.Context()
		claims, err := cfg.Authenticator.Authenticate(ctx, raw)
		if err != nil {
			observe(cfg.Logger, counter, c, err)
			cfg.ErrorHandler(c, err)
			return
		}
		counter.WithLabelValues(metrics.ResultOK).Inc()

		c.Set(cfg.ContextKey, claims)
		c.Request = c.Request.WithContext(context.WithValue(ctx, cfg.ContextKey, claims))

		if cfg.SuccessHandler != nil {
			cfg.SuccessHandler(c, claims)
		}
		c.Next()
	}
}

// GetClaims 读取 Auth 写入的 claims，key 缺省为 DefaultContextKey
func GetClaims[T any](ctx context.Context, key ...string) (T, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	claims, ok := ctx.Value(k).(T)
	return claims, ok
}

func defaultErrorHandler(c *gin.Context, err error) {
	code := errors.Code(err)
	if !errors.IsClientError(err) {
		// 非 4xx 错误不向客户端暴露细节
		http.GinJSONE(c, code, nil)
	} else {
		http.GinJSONE(c, code, err)
	}
	c.Abort()
}

// observe 按失败类别计数并记录日志：格式错误为 debug，验证失败为 warn，其余为 error
func observe(logger *log.Logger, counter *prometheus.CounterVec, c *gin.Context, err error) {
	result := classify(err)
	counter.WithLabelValues(result).Inc()

	event := logger.Debug()
	switch result {
	case metrics.ResultRejected, metrics.ResultRevoked:
		event = logger.Warn()
	case metrics.ResultError:
		event = logger.Error()
	}
	event.Err(err).
		Str("result", result).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("client_ip", c.ClientIP()).
		Msg("token verification failed")
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return metrics.ResultMissing
	case errors.Is(err, token.ErrExpiredToken):
		return metrics.ResultExpired
	case errors.Is(err, token.ErrTokenRevoked):
		return metrics.ResultRevoked
	case paseto.IsParseError(err):
		return metrics.ResultMalformed
	case errors.IsClientError(err):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

// BearerExtractor 读取 "Authorization: Bearer <token>"，前缀不区分大小写
func BearerExtractor() TokenExtractor {
	const prefix = "bearer "
	return func(c *gin.Context) (string, error) {
		h := c.GetHeader("Authorization")
		if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
			return "", ErrTokenMissing
		}
		t := strings.TrimSpace(h[len(prefix):])
		if t == "" {
			return "", ErrTokenMissing
		}
		return t, nil
	}
}

// HeaderExtractor 读取指定请求头
func HeaderExtractor(name string) TokenExtractor {
	return func(c *gin.Context) (string, error) {
		if t := strings.TrimSpace(c.GetHeader(name)); t != "" {
			return t, nil
		}
		return "", ErrTokenMissing
	}
}

// QueryExtractor 读取查询参数
func QueryExtractor(name string) TokenExtractor {
	return func(c *gin.Context) (string, error) {
		if t := c.Query(name); t != "" {
			return t, nil
		}
		return "", ErrTokenMissing
	}
}

// CookieExtractor 读取 cookie
func CookieExtractor(name string) TokenExtractor {
	return func(c *gin.Context) (string, error) {
		t, err := c.Cookie(name)
		if err != nil || t == "" {
			return "", ErrTokenMissing
		}
		return t, nil
	}
}

// ChainExtractor 依次尝试，返回第一个成功的结果
func ChainExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(c *gin.Context) (string, error) {
		for _, extract := range extractors {
			if t, err := extract(c); err == nil {
				return t, nil
			}
		}
		return "", ErrTokenMissing
	}
}
