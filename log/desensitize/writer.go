package desensitize

import (
	"io"
)

// Writer 包装 writer 以支持脱敏
type Writer struct {
	writer io.Writer
	hook   *Hook
}

// NewWriter 创建脱敏 writer
func NewWriter(writer io.Writer, hook *Hook) *Writer {
	if writer == nil {
		panic("writer cannot be nil")
	}
	if hook == nil {
		panic("hook cannot be nil")
	}

	return &Writer{
		writer: writer,
		hook:   hook,
	}
}

// Write 实现 io.Writer 接口。脱敏后长度可能变化，成功时返回 len(p)。
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	text := string(p)
	desensitized := w.hook.Desensitize(text)
	if desensitized == text {
		return w.writer.Write(p)
	}

	if _, err := io.WriteString(w.writer, desensitized); err != nil {
		return 0, err
	}
	return len(p), nil
}
