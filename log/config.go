package log

import (
	"time"

	"github.com/kochabx/paseto/log/writer"
)

// Config 日志配置
type Config struct {
	Level  string `json:"level" mapstructure:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Output string `json:"output" mapstructure:"output" default:"console" validate:"oneof=console file multi"`
	Caller bool   `json:"caller" mapstructure:"caller"`
	// DisableDesensitize 关闭内置脱敏规则，默认开启
	DisableDesensitize bool       `json:"disable_desensitize" mapstructure:"disable_desensitize"`
	File               FileConfig `json:"file" mapstructure:"file"`
}

// FileConfig 日志文件配置
type FileConfig struct {
	Dir  string       `json:"dir" mapstructure:"dir" default:"log"`
	Name string       `json:"name" mapstructure:"name" default:"paseto"`
	Ext  string       `json:"ext" mapstructure:"ext" default:"log"`
	Mode writer.Mode  `json:"mode" mapstructure:"mode" default:"time" validate:"oneof=time size"`
	Time TimeRotation `json:"time" mapstructure:"time"`
	Size SizeRotation `json:"size" mapstructure:"size"`
}

// TimeRotation 按时间轮转，保留 MaxAge 内的文件
type TimeRotation struct {
	MaxAge time.Duration `json:"max_age" mapstructure:"max_age" default:"24h"`
	Every  time.Duration `json:"every" mapstructure:"every" default:"1h"`
}

// SizeRotation 按大小轮转
type SizeRotation struct {
	MaxSizeMB  int  `json:"max_size_mb" mapstructure:"max_size_mb" default:"100"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups" default:"5"`
	MaxAgeDays int  `json:"max_age_days" mapstructure:"max_age_days" default:"30"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

func (c *FileConfig) rotation() writer.Rotation {
	return writer.Rotation{
		Mode:       c.Mode,
		Dir:        c.Dir,
		Name:       c.Name,
		Ext:        c.Ext,
		MaxAge:     c.Time.MaxAge,
		Every:      c.Time.Every,
		MaxSizeMB:  c.Size.MaxSizeMB,
		MaxBackups: c.Size.MaxBackups,
		MaxAgeDays: c.Size.MaxAgeDays,
		Compress:   c.Size.Compress,
	}
}
