package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/erdot/pkg/errors"
)

func TestRenderDOTToStdout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "shop.er", shopER)

	out, _, err := runCLI(t, "", "--config", writeFile(t, t.TempDir(), "empty.toml", ""), "render", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("stdout should hold DOT, got:\n%s", out)
	}
	if !strings.Contains(out, `"Customer" -> "Order" [taillabel="1", headlabel="0..N"];`) {
		t.Errorf("missing relation edge in:\n%s", out)
	}
}

func TestRenderFromStdin(t *testing.T) {
	out, _, err := runCLI(t, shopER, "render", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `"Order" [label=<`) {
		t.Errorf("missing entity node in:\n%s", out)
	}
}

func TestRenderMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shop.er", shopER)
	base := filepath.Join(dir, "out", "diagram")

	out, stderr, err := runCLI(t, "", "render", path, "-f", "dot,json", "-o", base)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty when writing files, got %q", out)
	}
	for _, ext := range []string{".dot", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("expected %s: %v", base+ext, err)
		}
		if !strings.Contains(stderr, base+ext) {
			t.Errorf("status output should list %s", base+ext)
		}
	}
}

func TestRenderSingleFormatUsesOutputPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shop.er", shopER)
	target := filepath.Join(dir, "shop.gv")

	if _, _, err := runCLI(t, "", "render", path, "-o", target); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("unexpected file content:\n%s", data)
	}
}

func TestRenderJSONInput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shop.er", shopER)
	jsonPath := filepath.Join(dir, "shop.json")

	if _, _, err := runCLI(t, "", "render", path, "-f", "json", "-o", jsonPath); err != nil {
		t.Fatalf("export json: %v", err)
	}
	fromJSON, _, err := runCLI(t, "", "render", jsonPath)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	fromER, _, err := runCLI(t, "", "render", path)
	if err != nil {
		t.Fatalf("render er: %v", err)
	}
	if fromJSON != fromER {
		t.Errorf("DOT from JSON differs from DOT from source:\n%s\n---\n%s", fromJSON, fromER)
	}
}

func TestRenderRefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "shop.json", `{"entities":[],"relations":[]}`)

	_, _, err := runCLI(t, "", "render", jsonPath, "-f", "dot,json")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "shop.dot")); !os.IsNotExist(err) {
		t.Error("no output should be written when one path would overwrite the input")
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  renderOpts
		want  []string
		code  errs.Code
	}{
		{"single with output", "shop.er", renderOpts{output: "x.gv", formats: []string{"dot"}}, []string{"x.gv"}, ""},
		{"several from input", "shop.er", renderOpts{formats: []string{"dot", "svg"}}, []string{"shop.dot", "shop.svg"}, ""},
		{"several from output", "shop.er", renderOpts{output: "out/d.svg", formats: []string{"svg", "png"}}, []string{"out/d.svg", "out/d.png"}, ""},
		{"overwrites input", "d.json", renderOpts{formats: []string{"dot", "json"}}, nil, errs.ErrCodeInvalidInput},
		{"single overwrites input", "d.er", renderOpts{output: "./d.er", formats: []string{"dot"}}, nil, errs.ErrCodeInvalidInput},
		{"stdin without output", "-", renderOpts{formats: []string{"svg"}}, nil, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.input, tt.opts)
			if tt.code != "" {
				if code := errs.GetCode(err); code != tt.code {
					t.Fatalf("code = %s, want %s (err: %v)", code, tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("outputPaths: %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("outputPaths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderCanceled(t *testing.T) {
	tmp := t.TempDir()
	path := writeFile(t, tmp, "shop.er", shopER)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := runCLIContext(t, ctx, "", "--cache-dir", filepath.Join(tmp, "cache"),
		"render", path, "-f", "svg", "-o", filepath.Join(tmp, "shop.svg"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "shop.svg")); !os.IsNotExist(err) {
		t.Error("a canceled render should not write output")
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.er", "[Person]\n  name { colour: \"red\" }\n")
	syntax := writeFile(t, dir, "syntax.er", "[Person\n")

	tests := []struct {
		name string
		args []string
		want errs.Code
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.er")}, errs.ErrCodeFileNotFound},
		{"unknown format", []string{"render", bad, "-f", "pdf"}, errs.ErrCodeInvalidFormat},
		{"unknown option", []string{"render", bad}, errs.ErrCodeUnknownOption},
		{"syntax", []string{"render", syntax}, errs.ErrCodeSyntax},
		{"stdin without output", []string{"render", "-", "-f", "json"}, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, shopER, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errs.GetCode(err); got != tt.want {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestRenderUsesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shop.er", "[A] { color: \"red\" }\n*id\n")
	base := filepath.Join(dir, "cfg")
	cfg := writeFile(t, dir, "erdot.toml", "[render]\nformats = [\"dot\"]\nstyled = true\noutput = \""+filepath.ToSlash(base)+".dot\"\n")

	if _, _, err := runCLI(t, "", "--config", cfg, "render", path); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("config output path not used: %v", err)
	}
	if !strings.Contains(string(data), `COLOR="red"`) {
		t.Errorf("config styled=true not applied:\n%s", data)
	}
}

func TestRenderFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shop.er", "[A] { color: \"red\" }\n*id\n")
	cfg := writeFile(t, dir, "erdot.toml", "[render]\nstyled = true\n")

	out, _, err := runCLI(t, "", "--config", cfg, "render", path, "--styled=false")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "COLOR") {
		t.Errorf("--styled=false should win over config:\n%s", out)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "shop.er", "shop"},
		{"", "dir/shop.er", "dir/shop"},
		{"out.svg", "shop.er", "out"},
		{"out.dot", "shop.er", "out"},
		{"out.v2", "shop.er", "out.v2"},
		{"out", "shop.er", "out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}
