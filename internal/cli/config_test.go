package cli

import (
	"path/filepath"
	"testing"

	errs "github.com/matzehuels/erdot/pkg/errors"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "erdot.toml", `
[render]
formats = ["SVG", " dot "]
styled = true
output = "out/shop"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got := cfg.Render.Formats; len(got) != 2 || got[0] != "svg" || got[1] != "dot" {
		t.Errorf("formats = %v, want [svg dot]", got)
	}
	if cfg.Render.Styled == nil || !*cfg.Render.Styled {
		t.Error("styled should be set to true")
	}
	if cfg.Render.Output != "out/shop" {
		t.Errorf("output = %q", cfg.Render.Output)
	}
}

func TestLoadConfigMissingDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("missing default config should be ignored: %v", err)
	}
	if cfg.Render.Styled != nil || len(cfg.Render.Formats) != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		want errs.Code
	}{
		{"missing explicit", filepath.Join(dir, "nope.toml"), errs.ErrCodeFileNotFound},
		{"malformed", writeFile(t, dir, "bad.toml", "[render\n"), errs.ErrCodeInvalidConfig},
		{"unknown key", writeFile(t, dir, "unknown.toml", "[render]\ncolour = \"red\"\n"), errs.ErrCodeInvalidConfig},
		{"bad format", writeFile(t, dir, "format.toml", "[render]\nformats = [\"pdf\"]\n"), errs.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path)
			if got := errs.GetCode(err); got != tt.want {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.want, err)
			}
		})
	}
}
