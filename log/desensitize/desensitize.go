package desensitize

import (
	"sync"
)

// Hook 脱敏钩子，按添加顺序依次应用规则
type Hook struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewHook 创建新的脱敏钩子
func NewHook(rules ...Rule) *Hook {
	h := &Hook{}
	h.AddBuiltin(rules...)
	return h
}

// AddRule 添加脱敏规则，同名规则会被替换
func (h *Hook) AddRule(rule Rule) {
	if rule == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, r := range h.rules {
		if r.Name() == rule.Name() {
			h.rules[i] = rule
			return
		}
	}
	h.rules = append(h.rules, rule)
}

// AddContentRule 添加基于内容匹配的脱敏规则
func (h *Hook) AddContentRule(name, pattern, replacement string) error {
	rule, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		return err
	}
	h.AddRule(rule)
	return nil
}

// AddFieldRule 添加基于字段名匹配的脱敏规则
func (h *Hook) AddFieldRule(name, fieldName, pattern, replacement string) error {
	rule, err := NewFieldRule(name, fieldName, pattern, replacement)
	if err != nil {
		return err
	}
	h.AddRule(rule)
	return nil
}

// AddBuiltin 添加内置规则
func (h *Hook) AddBuiltin(rules ...Rule) {
	for _, rule := range rules {
		h.AddRule(rule)
	}
}

// RemoveRule 移除脱敏规则
func (h *Hook) RemoveRule(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, r := range h.rules {
		if r.Name() == name {
			h.rules = append(h.rules[:i], h.rules[i+1:]...)
			return true
		}
	}
	return false
}

// EnableRule 启用规则
func (h *Hook) EnableRule(name string) bool {
	return h.setEnabled(name, true)
}

// DisableRule 禁用规则
func (h *Hook) DisableRule(name string) bool {
	return h.setEnabled(name, false)
}

func (h *Hook) setEnabled(name string, enabled bool) bool {
	if r, ok := h.GetRule(name); ok {
		r.SetEnabled(enabled)
		return true
	}
	return false
}

// GetRule 获取指定规则
func (h *Hook) GetRule(name string) (Rule, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range h.rules {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// GetRules 按应用顺序列出规则名称
func (h *Hook) GetRules() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.rules))
	for _, r := range h.rules {
		names = append(names, r.Name())
	}
	return names
}

// RuleCount 返回规则数量
func (h *Hook) RuleCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rules)
}

// Clear 清空所有规则
func (h *Hook) Clear() {
	h.mu.Lock()
	h.rules = nil
	h.mu.Unlock()
}

// Desensitize 对字符串进行脱敏处理
func (h *Hook) Desensitize(s string) string {
	if s == "" {
		return s
	}

	h.mu.RLock()
	rules := h.rules
	h.mu.RUnlock()

	for _, rule := range rules {
		if rule.Enabled() {
			s = rule.Process(s)
		}
	}
	return s
}
