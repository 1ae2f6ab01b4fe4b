package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	out, _, err := runCLI(t, "", "--cache-dir", dir, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}

func TestCacheClearEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	out, _, err := runCLI(t, "", "--cache-dir", dir, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRenderSVGFillsCache(t *testing.T) {
	tmp := t.TempDir()
	cacheDir := filepath.Join(tmp, "cache")
	path := writeFile(t, tmp, "shop.er", shopER)
	svgPath := filepath.Join(tmp, "shop.svg")

	if _, _, err := runCLI(t, "", "--cache-dir", cacheDir, "render", path, "-f", "svg", "-o", svgPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output should be SVG")
	}

	out, _, err := runCLI(t, "", "--cache-dir", cacheDir, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("render should have cached one image, got %q", out)
	}
}

func TestRenderNoCache(t *testing.T) {
	tmp := t.TempDir()
	cacheDir := filepath.Join(tmp, "cache")
	path := writeFile(t, tmp, "shop.er", shopER)

	if _, _, err := runCLI(t, "", "--cache-dir", cacheDir, "render", path, "-f", "svg", "-o", filepath.Join(tmp, "x.svg"), "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Error("--no-cache should not create the cache directory")
	}
}
