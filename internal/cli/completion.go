package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for iconfont.

Load completions for the current session:

  $ source <(iconfont completion bash)
  $ source <(iconfont completion zsh)
  $ iconfont completion fish | source
  PS> iconfont completion powershell | Out-String | Invoke-Expression

Format lists (--types, --order) and template names complete as well.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerFlagCompletions adds value completions to every subcommand
// that has one of the format or template flags.
func registerFlagCompletions(root *cobra.Command) {
	completions := map[string]cobra.CompletionFunc{
		"types":         completeFormats,
		"order":         completeFormats,
		"css-template":  completeTemplates(render.TemplateCSS, render.TemplateSCSS),
		"html-template": completeTemplates(render.TemplateHTML),
	}
	for _, cmd := range root.Commands() {
		for name, fn := range completions {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, fn)
			}
		}
	}
}

// completeFormats completes the last entry of a comma-separated format list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	var out []string
	for _, id := range format.Default().IDs() {
		if strings.HasPrefix(string(id), last) {
			out = append(out, prefix+string(id))
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace
}

// completeTemplates offers the built-in template names and falls back to
// file completion for custom templates.
func completeTemplates(names ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveDefault
	}
}
