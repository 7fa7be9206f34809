package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/pkg/errors"
	"github.com/matzehuels/quaff/pkg/render/keygraph"
)

// Graph output formats.
const (
	graphDOT = "dot"
	graphSVG = "svg"
	graphPDF = "pdf"
	graphPNG = "png"
)

var graphFormats = []string{graphDOT, graphSVG, graphPDF, graphPNG}

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string  // output file path; stdout when empty
	format   string  // dot, svg, pdf or png
	detailed bool    // show format and file in labels
	scale    float64 // PNG scale factor
}

// graphCommand creates the graph command, which draws the key hierarchy of
// a directory.
func (c *CLI) graphCommand() *cobra.Command {
	var flags loaderFlags
	opts := graphOpts{format: graphDOT, scale: 2.0}

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Render the key hierarchy of a directory",
		Long: `Render the key hierarchy of a directory as a Graphviz diagram. Directories
are drawn as folders and files as boxes. PDF and PNG output need rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.newLoader(cmd, &flags).Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p := newProgress(loggerFromContext(cmd.Context()))
			dot := keygraph.ToDOT(filepath.Base(filepath.Clean(args[0])), keygraph.FromPlan(plan), keygraph.Options{Detailed: opts.detailed})
			data, err := renderGraph(dot, &opts)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), opts.output, data); err != nil {
				return err
			}
			if opts.output != "" {
				p.done("Rendered", "format", opts.format, "file", opts.output)
				printFile(opts.output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show format and source file in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

func renderGraph(dot string, opts *graphOpts) ([]byte, error) {
	switch opts.format {
	case graphDOT:
		return []byte(dot), nil
	case graphSVG:
		return keygraph.RenderSVG(dot)
	case graphPDF:
		return keygraph.RenderPDF(dot)
	case graphPNG:
		return keygraph.RenderPNG(dot, opts.scale)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid graph format %q (valid: dot, svg, pdf, png)", opts.format)
	}
}
