package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type editor struct {
	TabWidth   int    `toml:"tabWidth" yaml:"tabWidth"`
	LineEnding string `toml:"lineEnding" yaml:"lineEnding"`
	Overwrite  bool   `toml:"overwrite" yaml:"overwrite"`
}

type settings struct {
	Editor editor `toml:"editor" yaml:"editor"`
	Name   string `toml:"name" yaml:"name"`
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"config.toml", TOML, false},
		{"/etc/x/CONFIG.TOML", TOML, false},
		{"config.yaml", YAML, false},
		{"config.yml", YAML, false},
		{"config.json", TOML, true},
		{"config", TOML, true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFor(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("FormatFor(%q) error = %v, want ErrUnknownFormat", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("FormatFor(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestDecode_KeepsMissingFields(t *testing.T) {
	s := settings{Editor: editor{TabWidth: 4, LineEnding: "lf"}, Name: "keep"}

	err := Decode(TOML, "test.toml", []byte("[editor]\ntabWidth = 8\n"), &s)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", s.Editor.TabWidth)
	}
	if s.Editor.LineEnding != "lf" || s.Name != "keep" {
		t.Errorf("untouched fields changed: %+v", s)
	}

	err = Decode(YAML, "test.yaml", []byte("editor:\n  overwrite: true\nname: other\n"), &s)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !s.Editor.Overwrite || s.Name != "other" || s.Editor.TabWidth != 8 {
		t.Errorf("after yaml decode: %+v", s)
	}
}

func TestDecode_ParseError(t *testing.T) {
	var s settings
	err := Decode(TOML, "bad.toml", []byte("[editor]\ntabWidth = = 3\n"), &s)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Decode() error = %v, want *ParseError", err)
	}
	if pe.Path != "bad.toml" {
		t.Errorf("Path = %q", pe.Path)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}

	err = Decode(YAML, "bad.yaml", []byte("editor: [unclosed\n"), &s)
	if !errors.As(err, &pe) || pe.Path != "bad.yaml" {
		t.Errorf("yaml Decode() error = %v, want *ParseError for bad.yaml", err)
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yml")
	if err := os.WriteFile(path, []byte("name: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var s settings
	if err := DecodeFile(DefaultFS(), path, &s); err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if s.Name != "from-file" {
		t.Errorf("Name = %q", s.Name)
	}

	err := DecodeFile(DefaultFS(), filepath.Join(dir, "missing.toml"), &s)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
