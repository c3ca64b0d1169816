package tag

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

type level int

func (l *level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return errors.New("unknown level")
	}
	return nil
}

type inner struct {
	Filename string `default:"local.key"`
	Mode     uint32 `default:"384"`
}

type target struct {
	Name     string        `default:"paseto"`
	TTL      time.Duration `default:"15m"`
	Workers  int           `default:"8"`
	Ratio    float32       `default:"0.5"`
	Enabled  bool          `default:"true"`
	Level    level         `default:"high"`
	Purposes []string      `default:"enc, sign"`
	Sizes    []int         `default:"32,48"`
	Raw      []byte        `default:"kid"`
	Limit    *int          `default:"3"`
	Inner    inner
	InnerPtr *inner
	Items    []inner
	untagged string
	NoTag    string
}

func TestApplyDefaults(t *testing.T) {
	cfg := &target{
		Name:  "custom",
		Items: []inner{{}, {Filename: "other.key"}},
	}
	if err := ApplyDefaults(cfg); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}

	if cfg.Name != "custom" {
		t.Errorf("non-zero field overwritten: %q", cfg.Name)
	}
	if cfg.TTL != 15*time.Minute || cfg.Workers != 8 || cfg.Ratio != 0.5 || !cfg.Enabled {
		t.Errorf("scalars not set: %+v", cfg)
	}
	if cfg.Level != 2 {
		t.Errorf("TextUnmarshaler not used: %d", cfg.Level)
	}
	if len(cfg.Purposes) != 2 || cfg.Purposes[1] != "sign" {
		t.Errorf("Purposes = %v", cfg.Purposes)
	}
	if len(cfg.Sizes) != 2 || cfg.Sizes[1] != 48 {
		t.Errorf("Sizes = %v", cfg.Sizes)
	}
	if string(cfg.Raw) != "kid" {
		t.Errorf("Raw = %q", cfg.Raw)
	}
	if cfg.Limit == nil || *cfg.Limit != 3 {
		t.Errorf("Limit = %v", cfg.Limit)
	}
	if cfg.Inner.Filename != "local.key" || cfg.Inner.Mode != 0o600 {
		t.Errorf("Inner = %+v", cfg.Inner)
	}
	if cfg.InnerPtr != nil {
		t.Error("nil struct pointer without tag should stay nil")
	}
	if cfg.Items[0].Filename != "local.key" || cfg.Items[1].Filename != "other.key" {
		t.Errorf("Items = %+v", cfg.Items)
	}
	if cfg.NoTag != "" || cfg.untagged != "" {
		t.Error("untagged fields must stay empty")
	}
}

func TestApplyDefaultsExistingPointer(t *testing.T) {
	cfg := &target{InnerPtr: &inner{}}
	if err := ApplyDefaults(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.InnerPtr.Filename != "local.key" {
		t.Errorf("InnerPtr = %+v", cfg.InnerPtr)
	}
}

func TestApplyDefaultsErrors(t *testing.T) {
	var nilTarget *target
	tests := []struct {
		name   string
		target any
		want   error
	}{
		{"not pointer", target{}, ErrTargetMustBePointer},
		{"nil", nilTarget, ErrTargetIsNil},
		{"not struct", new(int), ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ApplyDefaults(tt.target); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApplyDefaultsFieldError(t *testing.T) {
	var cfg struct {
		Inner struct {
			Workers int `default:"many"`
		}
	}

	err := ApplyDefaults(&cfg)
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fe.Path != "Inner.Workers" {
		t.Errorf("Path = %q", fe.Path)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestWithTagName(t *testing.T) {
	var cfg struct {
		Dir string `fallback:"/etc/paseto" default:"."`
	}
	if err := ApplyDefaults(&cfg, WithTagName("fallback")); err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != "/etc/paseto" {
		t.Errorf("Dir = %q", cfg.Dir)
	}
}

func TestMaxDepth(t *testing.T) {
	var cfg struct {
		A struct {
			B struct {
				C string `default:"c"`
			}
		}
	}
	if err := ApplyDefaults(&cfg, WithMaxDepth(2)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("got %v", err)
	}
}
