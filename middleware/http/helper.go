package middleware

import (
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// PathMatcher 跳过路径匹配
//
//   - "/health" 精确匹配
//   - "/public/**" 匹配 "/public" 及其子路径
//   - "/api/*/keys" 按 path.Match 匹配
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
	globs    []string
}

// NewPathMatcher 预处理路径列表
func NewPathMatcher(paths []string) *PathMatcher {
	pm := &PathMatcher{exact: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		switch prefix, ok := strings.CutSuffix(p, "/**"); {
		case ok:
			pm.prefixes = append(pm.prefixes, prefix)
		case strings.ContainsAny(p, "*?["):
			pm.globs = append(pm.globs, p)
		default:
			pm.exact[p] = struct{}{}
		}
	}
	return pm
}

// Match 检查路径是否命中
func (pm *PathMatcher) Match(urlPath string) bool {
	if pm == nil {
		return false
	}
	if _, ok := pm.exact[urlPath]; ok {
		return true
	}
	for _, prefix := range pm.prefixes {
		rest, ok := strings.CutPrefix(urlPath, prefix)
		if ok && (rest == "" || rest[0] == '/') {
			return true
		}
	}
	for _, pattern := range pm.globs {
		if matched, _ := path.Match(pattern, urlPath); matched {
			return true
		}
	}
	return false
}

func shouldSkip(c *gin.Context, matcher *PathMatcher, skipFunc func(*gin.Context) bool) bool {
	if skipFunc != nil && skipFunc(c) {
		return true
	}
	return matcher.Match(c.Request.URL.Path)
}
