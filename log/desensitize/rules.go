package desensitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
)

// Rule 脱敏规则接口
type Rule interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	// Process 对字符串进行脱敏处理
	Process(s string) string
}

// toggle 规则名称与启用状态，零值为启用
type toggle struct {
	name     string
	disabled atomic.Bool
}

func (t *toggle) Name() string { return t.name }

func (t *toggle) Enabled() bool { return !t.disabled.Load() }

func (t *toggle) SetEnabled(enabled bool) { t.disabled.Store(!enabled) }

func compile(name, pattern string) (*regexp.Regexp, error) {
	if name == "" {
		return nil, errors.New("desensitize: rule name cannot be empty")
	}
	if pattern == "" {
		return nil, fmt.Errorf("desensitize: rule %s: empty pattern", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("desensitize: rule %s: %w", name, err)
	}
	return re, nil
}

func must[R Rule](r R, err error) R {
	if err != nil {
		panic(err)
	}
	return r
}

// ContentRule 对整行文本做正则替换，replacement 支持 ${1} 引用
type ContentRule struct {
	toggle
	pattern     *regexp.Regexp
	replacement string
}

// NewContentRule 创建基于内容匹配的脱敏规则
func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	re, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}
	return &ContentRule{toggle: toggle{name: name}, pattern: re, replacement: replacement}, nil
}

// MustNewContentRule 用于内置规则，pattern 无效时 panic
func MustNewContentRule(name, pattern, replacement string) *ContentRule {
	return must(NewContentRule(name, pattern, replacement))
}

func (r *ContentRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule 按字段名脱敏，覆盖 JSON 输出 ("field":"v") 与控制台输出 (field=v)。
// pattern 与 replacement 只作用于字段值。
type FieldRule struct {
	toggle
	value       *regexp.Regexp
	replacement string
	// 每个模式的第 1 个分组为字段值
	forms []*regexp.Regexp
}

// NewFieldRule 创建基于字段名匹配的脱敏规则
func NewFieldRule(name, field, pattern, replacement string) (*FieldRule, error) {
	if field == "" {
		return nil, errors.New("desensitize: field name cannot be empty")
	}
	value, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}

	f := regexp.QuoteMeta(field)
	return &FieldRule{
		toggle:      toggle{name: name},
		value:       value,
		replacement: replacement,
		forms: []*regexp.Regexp{
			regexp.MustCompile(`"` + f + `"\s*:\s*"((?:[^"\\]|\\.)*)"`),
			regexp.MustCompile(`(?:^|\s|\x1b\[[0-9;]*m)` + f + `=(?:\x1b\[[0-9;]*m)?([^\s"\x1b]+)`),
		},
	}, nil
}

// MustNewFieldRule 用于内置规则，pattern 无效时 panic
func MustNewFieldRule(name, field, pattern, replacement string) *FieldRule {
	return must(NewFieldRule(name, field, pattern, replacement))
}

func (r *FieldRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	for _, form := range r.forms {
		s = replaceGroup(form, s, func(v string) string {
			return r.value.ReplaceAllString(v, r.replacement)
		})
	}
	return s
}

// replaceGroup 只替换每个匹配的第 1 个分组，匹配的其余部分原样保留
func replaceGroup(re *regexp.Regexp, s string, fn func(string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[2]])
		b.WriteString(fn(s[m[2]:m[3]]))
		last = m[3]
	}
	b.WriteString(s[last:])
	return b.String()
}
