package cli

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/versionwatch/pkg/pom"
	"github.com/matzehuels/versionwatch/pkg/versions"
)

// checkOptions holds the flags of the check command.
type checkOptions struct {
	engineOptions
	AllowSnapshots bool
	NoPlugins      bool
	JSON           bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [pom.xml]",
		Short: "Report dependencies and plugins with newer versions",
		Long: `Check reads a pom.xml (default: ./pom.xml) and looks up the available
versions of every declared and managed dependency and plugin, including the
dependencies declared inside plugins. Versions excluded by the rule set are
never reported.`,
		Example: `  versionwatch check
  versionwatch check service/pom.xml --rules classpath:/no-prereleases.xml
  versionwatch check --no-plugins --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pom.xml"
			if len(args) > 0 {
				path = args[0]
			}
			return c.runCheck(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.RulesURI, "rules", "", "rule set URI (file path, classpath:/name, http(s)://...)")
	cmd.Flags().BoolVar(&opts.AllowSnapshots, "allow-snapshots", false, "report snapshot versions as updates")
	cmd.Flags().BoolVar(&opts.NoPlugins, "no-plugins", false, "skip build plugins")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached repository metadata")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable the metadata cache")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, path string, opts checkOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	project, err := pom.Read(path)
	if err != nil {
		return err
	}

	eng, err := c.newEngine(ctx, opts.engineOptions)
	if err != nil {
		return err
	}
	defer eng.Close()

	allowSnapshots := opts.AllowSnapshots || c.cfg().AllowSnapshots
	deps := checkable(logger, project.AllDependencies())

	var spinner *Spinner
	if !opts.JSON {
		spinner = newSpinnerWithContext(ctx, "Checking "+project.Coordinate().String())
		defer spinner.Track()()
		spinner.Start()
	}
	stop := func() {
		if spinner != nil {
			spinner.Stop()
		}
	}

	prog := newProgress(logger)
	depUpdates, err := eng.helper.LookupDependenciesUpdates(ctx, deps, allowSnapshots, false)
	if err != nil {
		stop()
		return err
	}

	var pluginUpdates *versions.Ordered[versions.Plugin, *versions.PluginUpdates]
	if !opts.NoPlugins {
		plugins := project.AllPlugins()
		for i := range plugins {
			plugins[i].Dependencies = checkable(logger, plugins[i].Dependencies)
		}
		pluginUpdates, err = eng.helper.LookupPluginsUpdates(ctx, plugins, allowSnapshots)
		if err != nil {
			stop()
			return err
		}
	}
	stop()

	r := newReport(project.Coordinate().String(), depUpdates, pluginUpdates)
	prog.done("checked "+path, "dependencies", depUpdates.Len(), "plugins", pluginUpdates.Len(), "outdated", r.outdated())

	if opts.JSON {
		return writeJSON(out, r)
	}
	renderReport(out, r)
	return nil
}

// checkable drops dependencies that still hold an unresolved property
// reference.
func checkable(logger *log.Logger, deps []versions.Dependency) []versions.Dependency {
	out := make([]versions.Dependency, 0, len(deps))
	for _, d := range deps {
		if strings.Contains(d.GroupID+d.ArtifactID+d.Version, "${") {
			logger.Warn("skipping dependency with unresolved property", "dependency", d.String())
			continue
		}
		out = append(out, d)
	}
	return out
}
