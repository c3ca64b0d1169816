package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// stampLayout 按时间轮转时文件名中的时间戳
const stampLayout = "%Y%m%d%H%M"

// Rotation describes a rotated log file at Dir/Name.Ext.
//
// MaxAge and Every apply to ModeTime. MaxSizeMB, MaxBackups, MaxAgeDays
// and Compress apply to ModeSize. Zero values keep the library defaults.
type Rotation struct {
	Mode Mode
	Dir  string
	Name string
	Ext  string

	MaxAge time.Duration
	Every  time.Duration

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// File opens the rotated file described by r. Dir is created with 0750.
func File(r Rotation) (io.WriteCloser, error) {
	if r.Name == "" {
		return nil, errors.New("writer: empty log file name")
	}
	if r.Dir != "" {
		if err := os.MkdirAll(r.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("writer: create log directory: %w", err)
		}
	}

	switch r.Mode {
	case ModeTime, "":
		return r.byTime()
	case ModeSize:
		return r.bySize(), nil
	default:
		return nil, fmt.Errorf("writer: unknown rotation mode %q", r.Mode)
	}
}

// Path returns the file path, with stamp between name and extension when set.
func (r Rotation) Path(stamp string) string {
	name := r.Name
	if stamp != "" {
		name += "." + stamp
	}
	if r.Ext != "" {
		name += "." + r.Ext
	}
	return filepath.Join(r.Dir, name)
}

func (r Rotation) byTime() (io.WriteCloser, error) {
	opts := []rotatelogs.Option{rotatelogs.WithLinkName(r.Path(""))}
	if r.MaxAge > 0 {
		opts = append(opts, rotatelogs.WithMaxAge(r.MaxAge))
	}
	// rotatelogs 以 Every 截断时间，0 会导致每次写入都切换文件
	if r.Every > 0 {
		opts = append(opts, rotatelogs.WithRotationTime(r.Every))
	}

	rl, err := rotatelogs.New(r.Path(stampLayout), opts...)
	if err != nil {
		return nil, fmt.Errorf("writer: time rotation: %w", err)
	}
	return rl, nil
}

func (r Rotation) bySize() io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   r.Path(""),
		MaxSize:    r.MaxSizeMB,
		MaxBackups: r.MaxBackups,
		MaxAge:     r.MaxAgeDays,
		Compress:   r.Compress,
	}
}
