package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/versionwatch/pkg/pom"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate a shell completion script",
		Long: `Completion writes a completion script for bash, zsh, fish or PowerShell.
Coordinates for "rule" and "versions" are completed from ./pom.xml.`,
		Example: `  source <(versionwatch completion bash)
  versionwatch completion zsh > "${fpath[1]}/_versionwatch"
  versionwatch completion fish > ~/.config/fish/completions/versionwatch.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return root.GenBashCompletionV2(out, true)
			}
		},
	}
}

// completeCoordinates offers the groupId:artifactId pairs declared in the
// pom.xml of the working directory.
func completeCoordinates(pomPath string, plugins bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		project, err := pom.Read(pomPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var coords []string
		if plugins {
			for _, p := range project.AllPlugins() {
				coords = append(coords, p.Coordinate().String())
			}
		} else {
			for _, d := range project.AllDependencies() {
				coords = append(coords, d.Coordinate().String())
			}
		}
		slices.Sort(coords)
		coords = slices.Compact(coords)

		var out []cobra.Completion
		for _, coord := range coords {
			if strings.HasPrefix(coord, toComplete) && !strings.Contains(coord, "${") {
				out = append(out, coord)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
