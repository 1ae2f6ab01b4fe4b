package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdot/pkg/er"
	errs "github.com/matzehuels/erdot/pkg/errors"
	"github.com/matzehuels/erdot/pkg/grammar"
	pkgio "github.com/matzehuels/erdot/pkg/io"
	"github.com/matzehuels/erdot/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	tree bool // print the raw parse tree
	json bool // print the assembled diagram as JSON
}

// parseCommand creates the parse command for inspecting ER files.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <file.er|->",
		Short: "Check an ER file and show what it contains",
		Long: `Parse checks an ER file for syntax and option errors.

By default a summary of the entities and relationships is printed. Use --tree
to see the grammar's parse tree, or --json to print the assembled diagram in
the format accepted by render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.tree && opts.json {
				return errs.New(errs.ErrCodeInvalidInput, "--tree and --json are mutually exclusive")
			}
			return c.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.tree, "tree", false, "print the parse tree")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the assembled diagram as JSON")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, input string, opts parseOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	data, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	if opts.tree {
		root, err := grammar.Parse(string(data))
		if err != nil {
			return errs.Wrap(errs.ErrCodeSyntax, err, "invalid ER source")
		}
		return pkgio.WriteTree(out, root)
	}

	d, err := pipeline.Parse(ctx, string(data), pipeline.Options{Source: input, Logger: logger})
	if err != nil {
		return err
	}
	if opts.json {
		return pkgio.WriteJSON(d, out)
	}

	printSummary(out, input, d)
	return nil
}

// printSummary lists entities with their attributes and every relationship.
func printSummary(w io.Writer, input string, d *er.Diagram) {
	printSuccess(w, "Parsed %s", input)
	entities, attributes, relations := diagramStats(d)
	printStats(w, entities, attributes, relations)
	if label, ok := d.Title["label"]; ok {
		printKeyValue(w, "title", label.String())
	}

	if len(d.Entities) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Entities"))
	}
	for _, e := range d.Entities {
		printInfo(w, "%s", StyleValue.Render(e.Name))
		for _, a := range e.Attributes {
			printDetail(w, "%s", attributeLine(a))
		}
	}

	if len(d.Relations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Relationships"))
	}
	for _, r := range d.Relations {
		printInfo(w, "%s %s %s %s %s",
			StyleValue.Render(r.Entity1), StyleDim.Render(r.Card1.String()),
			StyleDim.Render(iconArrow),
			StyleDim.Render(r.Card2.String()), StyleValue.Render(r.Entity2))
	}
}

// attributeLine renders an attribute with its key markers, e.g. "id (pk)".
func attributeLine(a er.Attribute) string {
	var marks []string
	if a.PrimaryKey {
		marks = append(marks, "pk")
	}
	if a.ForeignKey {
		marks = append(marks, "fk")
	}
	if len(marks) == 0 {
		return a.Field
	}
	return a.Field + " (" + strings.Join(marks, ", ") + ")"
}

// diagramStats counts the entities, attributes and relations of d.
func diagramStats(d *er.Diagram) (entities, attributes, relations int) {
	for _, e := range d.Entities {
		attributes += len(e.Attributes)
	}
	return len(d.Entities), attributes, len(d.Relations)
}
