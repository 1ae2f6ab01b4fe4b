package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/erdot/pkg/errors"
	pkgio "github.com/matzehuels/erdot/pkg/io"
	"github.com/matzehuels/erdot/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats []string // dot, svg, png, jpg, json
	styled  bool     // project formatting options into DOT
	noCache bool     // always re-run Graphviz
}

// renderCommand creates the render command.
//
// With only the dot format and no --output, DOT is written to stdout so the
// command composes with the dot tool: erdot render shop.er | dot -Tpng.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file.er|file.json|->",
		Short: "Render an ER file to DOT or a Graphviz image",
		Long: `Render parses an ER file and writes the diagram as Graphviz DOT.

Image formats (svg, png, jpg) are laid out with an embedded Graphviz, so the
dot binary is not required. A .json input is read as a previously exported
diagram instead of ER source. Use - to read ER source from stdin.`,
		Example: `  erdot render shop.er | dot -Tpng > shop.png
  erdot render shop.er -f svg,png -o out/shop
  erdot render shop.er -f json --styled`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			opts.formats = pipeline.ParseFormats(formatsStr)
			applyRenderConfig(cmd, cfg.Render, &opts)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), svg, png, jpg, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.styled, "styled", false, "apply formatting options (colors, fonts, labels) to the DOT output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the image cache")

	return cmd
}

// applyRenderConfig fills opts from the config file for every flag the user
// did not set.
func applyRenderConfig(cmd *cobra.Command, cfg renderConfig, opts *renderOpts) {
	flags := cmd.Flags()
	if !flags.Changed("format") && len(cfg.Formats) > 0 {
		opts.formats = cfg.Formats
	}
	if !flags.Changed("output") && cfg.Output != "" {
		opts.output = cfg.Output
	}
	if !flags.Changed("styled") && cfg.Styled != nil {
		opts.styled = *cfg.Styled
	}
	if !flags.Changed("no-cache") && cfg.Cache != nil {
		opts.noCache = !*cfg.Cache
	}
	if len(opts.formats) == 0 {
		opts.formats = []string{pipeline.DefaultFormat}
	}
}

// runRender reads input, runs the pipeline and writes every artifact.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)
	prog := newProgress(logger)

	var paths []string
	var err error
	if !toStdout(opts) {
		if paths, err = outputPaths(input, opts); err != nil {
			return err
		}
	}

	data, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Source:  input,
		Formats: opts.formats,
		Styled:  opts.styled,
	}

	var spin *Spinner
	if popts.NeedsGraphviz() {
		popts.Cache = c.artifactCache(opts.noCache)
		defer popts.Cache.Close()
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Rendering with Graphviz...")
		spin.Start()
	}
	result, err := c.execute(ctx, input, data, popts)
	if spin != nil {
		switch {
		case spin.Cancelled():
			spin.Stop()
			return fmt.Errorf("render %s: %w", input, ctx.Err())
		case err != nil:
			spin.StopWithError("Rendering failed")
		default:
			spin.StopWithSuccess("Graphviz layout done")
		}
	}
	if err != nil {
		return err
	}
	logger.Infof("Loaded diagram: %d entities, %d relations", result.Stats.EntityCount, result.Stats.RelationCount)

	if toStdout(opts) {
		_, err := io.WriteString(cmd.OutOrStdout(), result.DOT)
		return err
	}

	if err := writeArtifacts(result, opts.formats, paths); err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	printSuccess(status, "Rendered %s", input)
	printStats(status, result.Stats.EntityCount, result.Stats.AttributeCount, result.Stats.RelationCount)
	for _, p := range paths {
		printFile(status, p)
	}
	prog.done(fmt.Sprintf("Rendered %s", input))
	return nil
}

// execute runs the pipeline, treating .json input as an exported diagram.
func (c *CLI) execute(ctx context.Context, input string, data []byte, opts pipeline.Options) (*pipeline.Result, error) {
	runner := c.newRunner()
	if isJSONInput(input) {
		d, err := pkgio.ReadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read diagram %s", input)
		}
		return runner.RenderDiagram(ctx, d, opts)
	}
	return runner.Execute(ctx, string(data), opts)
}

// readInput reads the named file, or r when name is "-".
func readInput(r io.Reader, name string) ([]byte, error) {
	if name == pipeline.DefaultSource {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "input file %s", name)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", name)
	}
	return data, nil
}

func isJSONInput(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func toStdout(opts renderOpts) bool {
	return opts.output == "" && len(opts.formats) == 1 && opts.formats[0] == pipeline.FormatDOT
}

// outputPaths returns the file written for each format, in format order.
// A single format goes to --output as given; several formats share a base
// path derived from --output or the input name. No path may be the input.
func outputPaths(input string, opts renderOpts) ([]string, error) {
	if opts.output == "" && input == pipeline.DefaultSource {
		return nil, errs.New(errs.ErrCodeInvalidInput, "--output is required when reading stdin")
	}

	var paths []string
	if len(opts.formats) == 1 && opts.output != "" {
		paths = append(paths, opts.output)
	} else {
		base := basePath(opts.output, input)
		for _, f := range opts.formats {
			paths = append(paths, base+"."+f)
		}
	}

	for _, path := range paths {
		if filepath.Clean(path) == filepath.Clean(input) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "refusing to overwrite input %s", input)
		}
	}
	return paths, nil
}

// writeArtifacts writes the artifact of formats[i] to paths[i].
func writeArtifacts(result *pipeline.Result, formats, paths []string) error {
	for i, f := range formats {
		path := paths[i]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries
// a format extension (.svg, .dot, ...), that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
