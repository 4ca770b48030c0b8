package cli

import (
	"github.com/spf13/cobra"
)

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		opts           engineOptions
		plugin         bool
		allowSnapshots bool
		jsonOut        bool
	)

	cmd := &cobra.Command{
		Use:   "versions <groupId:artifactId>",
		Short: "List the versions of an artifact after applying the rule set",
		Example: `  versionwatch versions junit:junit
  versionwatch versions org.apache.maven.plugins:maven-compiler-plugin --plugin`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
			plugin, _ := cmd.Flags().GetBool("plugin")
			return completeCoordinates("pom.xml", plugin)(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := parseCoordinate(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			eng, err := c.newEngine(ctx, opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			view, err := eng.helper.LookupArtifactVersions(ctx, coord, plugin)
			if err != nil {
				return err
			}
			info := newVersionsInfo(view.WithSnapshots(allowSnapshots || c.cfg().AllowSnapshots))

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, info)
			}
			if len(info.Versions) == 0 {
				printWarning(out, "No versions found for %s", coord)
				return nil
			}
			for _, v := range info.Versions {
				if v == info.Latest {
					printInfo(out, "%s %s", styleAccent.Render(v), styleMuted.Render("(latest)"))
					continue
				}
				printInfo(out, "%s", v)
			}
			printDetail(out, "%d versions, compared with %s", len(info.Versions), info.ComparisonMethod)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.RulesURI, "rules", "", "rule set URI (file path, classpath:/name, http(s)://...)")
	cmd.Flags().BoolVar(&plugin, "plugin", false, "look the artifact up in the plugin repositories")
	cmd.Flags().BoolVar(&allowSnapshots, "allow-snapshots", false, "include snapshot versions")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached repository metadata")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable the metadata cache")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")

	return cmd
}
