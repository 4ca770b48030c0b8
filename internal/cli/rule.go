package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/rules"
	"github.com/matzehuels/versionwatch/pkg/versions"
)

// ruleCommand creates the rule command.
func (c *CLI) ruleCommand() *cobra.Command {
	var (
		opts    engineOptions
		jsonOut bool
		builtin bool
	)

	cmd := &cobra.Command{
		Use:   "rule <groupId:artifactId>",
		Short: "Show the rule that governs an artifact",
		Long: `Rule prints the best-fitting rule for an artifact, the comparison method
used for its versions, and the ignore list in effect (global entries first).`,
		Example: `  versionwatch rule org.slf4j:slf4j-api --rules rules.xml
  versionwatch rule --builtin`,
		ValidArgsFunction: completeCoordinates("pom.xml", false),
		Args: func(cmd *cobra.Command, args []string) error {
			if builtin {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if builtin {
				for _, name := range rules.Builtin() {
					printInfo(out, "classpath:/%s", name)
				}
				return nil
			}

			coord, err := parseCoordinate(args[0])
			if err != nil {
				return err
			}
			opts.NoCache = true
			eng, err := c.newEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			info := describeRule(eng.helper, coord)
			if jsonOut {
				return writeJSON(out, info)
			}
			renderRule(cmd, info)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.RulesURI, "rules", "", "rule set URI (file path, classpath:/name, http(s)://...)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "refetch a remote rule set")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "list the built-in rule sets")

	return cmd
}

func renderRule(cmd *cobra.Command, info ruleInfo) {
	out := cmd.OutOrStdout()
	rule := styleMuted.Render("(none)")
	if info.Rule != nil {
		rule = info.Rule.String()
	}
	printKeyValue(out, "Artifact", info.Coordinate.String())
	printKeyValue(out, "Rule", rule)
	printKeyValue(out, "Comparison", info.ComparisonMethod)
	if len(info.IgnoreVersions) == 0 {
		printKeyValue(out, "Ignored", styleMuted.Render("(none)"))
		return
	}
	printKeyValue(out, "Ignored", "")
	for _, iv := range info.IgnoreVersions {
		printDetail(out, "%s", iv.String())
	}
}

// parseCoordinate validates a "groupId:artifactId" argument. A trailing
// version, if present, is ignored.
func parseCoordinate(arg string) (versions.Coordinate, error) {
	parts := strings.Split(arg, ":")
	if len(parts) > 2 {
		arg = parts[0] + ":" + parts[1]
	}
	g, a, err := errors.ValidateCoordinate(arg)
	if err != nil {
		return versions.Coordinate{}, err
	}
	return versions.Coordinate{GroupID: g, ArtifactID: a}, nil
}
