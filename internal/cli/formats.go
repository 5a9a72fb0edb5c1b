package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/render/nodelink"
)

// formatsFlags holds the command-line flags for the formats command.
type formatsFlags struct {
	dot      bool   // print the graph as DOT
	svg      string // render the graph to this SVG file
	types    string // formats to highlight
	detailed bool   // add dependency counts to the graph labels
}

// formatsCommand creates the formats command.
func (c *CLI) formatsCommand() *cobra.Command {
	var flags formatsFlags

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List font formats and their dependencies",
		Example: `  iconfont formats
  iconfont formats --dot | dot -Tpng > formats.png
  iconfont formats --svg formats.svg --types woff2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := format.Default()
			var requested []format.ID
			if flags.types != "" {
				requested = format.ParseIDs(flags.types)
				if err := registry.Validate(requested); err != nil {
					return err
				}
			}
			opts := nodelink.Options{Requested: requested, Detailed: flags.detailed}

			switch {
			case flags.dot:
				fmt.Fprint(cmd.OutOrStdout(), nodelink.ToDOT(registry, opts))
				return nil
			case flags.svg != "":
				svg, err := nodelink.RenderSVG(cmd.Context(), nodelink.ToDOT(registry, opts))
				if err != nil {
					return err
				}
				if err := os.WriteFile(flags.svg, svg, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", flags.svg, err)
				}
				printSuccess("Rendered format graph")
				printFile(flags.svg)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatsTable(registry, requested, exec.LookPath))
			for _, id := range registry.IDs() {
				if tool := format.Tool(id); tool != "" {
					if _, err := exec.LookPath(tool); err != nil {
						printWarning("%s needs %s, which is not on PATH", id, tool)
					}
				}
			}
			printNextStep("Render the graph", "iconfont formats --svg formats.svg")
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.dot, "dot", false, "print the dependency graph in DOT format")
	cmd.Flags().StringVar(&flags.svg, "svg", "", "render the dependency graph to an SVG file")
	cmd.Flags().StringVarP(&flags.types, "types", "t", "", "highlight these formats and their dependencies")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show dependency counts in the graph")
	cmd.MarkFlagsMutuallyExclusive("dot", "svg")

	return cmd
}

// formatsTable renders the registry as a table. lookPath reports whether
// an external encoder is installed.
func formatsTable(r *format.Registry, requested []format.ID, lookPath func(string) (string, error)) string {
	closure := r.Closure(requested)
	inClosure := make(map[format.ID]bool, len(closure))
	for _, id := range closure {
		inClosure[id] = true
	}

	var rows [][]string
	for _, id := range r.IDs() {
		d, _ := r.Lookup(id)
		deps := "-"
		if len(d.Dependencies) > 0 {
			names := make([]string, len(d.Dependencies))
			for i, dep := range d.Dependencies {
				names[i] = string(dep)
			}
			deps = strings.Join(names, ", ")
		}

		encoder, status := "native", iconSuccess
		if tool := format.Tool(id); tool != "" {
			encoder = tool
			if _, err := lookPath(tool); err != nil {
				status = iconError
			}
		}
		rows = append(rows, []string{string(id), deps, encoder, status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	ids := r.IDs()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Format", "Depends on", "Encoder", "Ready").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row >= len(ids) {
				return base
			}
			if col == 3 {
				if rows[row][3] == iconSuccess {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorRed)
			}
			if len(requested) > 0 && !inClosure[ids[row]] {
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}
