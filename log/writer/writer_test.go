package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestModeUnmarshalText(t *testing.T) {
	tests := map[string]Mode{"": ModeTime, "time": ModeTime, "size": ModeSize}
	for in, want := range tests {
		var m Mode
		if err := m.UnmarshalText([]byte(in)); err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if m != want {
			t.Errorf("%q: got %q, want %q", in, m, want)
		}
	}

	var m Mode
	if err := m.UnmarshalText([]byte("weekly")); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRotationPath(t *testing.T) {
	r := Rotation{Dir: "var", Name: "paseto", Ext: "log"}
	if got := r.Path(""); got != filepath.Join("var", "paseto.log") {
		t.Errorf("unexpected path %s", got)
	}
	if got := r.Path("202601011200"); got != filepath.Join("var", "paseto.202601011200.log") {
		t.Errorf("unexpected stamped path %s", got)
	}

	r.Ext = ""
	if got := r.Path(""); got != filepath.Join("var", "paseto") {
		t.Errorf("unexpected path without ext %s", got)
	}
}

func TestFileBySize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	w, err := File(Rotation{Mode: ModeSize, Dir: dir, Name: "paseto", Ext: "log", MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if _, err := w.Write([]byte("{\"message\":\"issued\"}\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm&^0o750 != 0 {
		t.Errorf("log directory too open: %v", perm)
	}

	data, err := os.ReadFile(filepath.Join(dir, "paseto.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "issued") {
		t.Errorf("unexpected content %q", data)
	}
}

func TestFileByTime(t *testing.T) {
	dir := t.TempDir()
	w, err := File(Rotation{Dir: dir, Name: "paseto", Ext: "log", MaxAge: 24 * time.Hour, Every: time.Hour})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if _, err := w.Write([]byte("{\"message\":\"verified\"}\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	stamped, err := filepath.Glob(filepath.Join(dir, "paseto.*.log"))
	if err != nil || len(stamped) != 1 {
		t.Fatalf("expected one stamped file, got %v (%v)", stamped, err)
	}

	link, err := os.Lstat(filepath.Join(dir, "paseto.log"))
	if err != nil {
		t.Fatalf("Lstat link: %v", err)
	}
	if link.Mode()&os.ModeSymlink == 0 {
		t.Error("paseto.log should link to the current file")
	}
}

func TestFileErrors(t *testing.T) {
	if _, err := File(Rotation{Dir: t.TempDir()}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := File(Rotation{Mode: "weekly", Dir: t.TempDir(), Name: "paseto"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	cw := Console(&buf)
	if !cw.NoColor {
		t.Error("colors should be off for a buffer")
	}
	if IsTerminal(&buf) {
		t.Error("buffer is not a terminal")
	}

	logger := zerolog.New(cw)
	logger.Info().Str("purpose", "local").Msg("token issued")
	logger.Log().Msg("no level")

	out := buf.String()
	for _, want := range []string{"INFO ", "token issued", "purpose=local", "- "} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
