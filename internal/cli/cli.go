// Package cli implements the versionwatch command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/versionwatch/pkg/buildinfo"
	"github.com/matzehuels/versionwatch/pkg/cache"
	"github.com/matzehuels/versionwatch/pkg/integrations/maven"
	"github.com/matzehuels/versionwatch/pkg/rules"
	"github.com/matzehuels/versionwatch/pkg/versions"
)

const appName = "versionwatch"

// Log levels accepted by [New].
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds the state shared by all subcommands: the logger and the config
// loaded before any of them runs.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Versionwatch reports available updates for Maven dependencies and plugins",
		Long:         `Versionwatch reads a pom.xml, looks up the versions published for every declared dependency and plugin, and reports the ones with newer releases. A rule set decides how versions are compared and which versions are ignored.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				installDebugHooks(c.Logger)
			}
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/versionwatch/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output, including every repository request")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.ruleCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// engineOptions are the per-command settings that override the config file.
type engineOptions struct {
	RulesURI string
	NoCache  bool
	Refresh  bool
}

// engine bundles a Helper with the resources it holds open.
type engine struct {
	helper *versions.Helper
	cache  cache.Cache
}

func (e *engine) Close() error {
	return e.cache.Close()
}

// cfg returns the loaded config, falling back to defaults when the root
// command's pre-run was bypassed.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		c.config = (&Config{}).WithDefaults()
	}
	return c.config
}

// newEngine opens the metadata cache, loads the rule set and wires both into
// a Helper.
func (c *CLI) newEngine(ctx context.Context, opts engineOptions) (*engine, error) {
	cfg := c.cfg()

	ch, err := openCache(ctx, cfg.Cache, opts.NoCache)
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		ch.Close()
		return nil, err
	}
	client := maven.NewClient(ch, ttl)
	client.WithKeyer(cacheKeyer(cfg.Cache))

	uri := opts.RulesURI
	if uri == "" {
		uri = cfg.RulesURI
	}
	rs, err := rules.Load(ctx, uri, rules.LoadOptions{
		Client:  client.Client,
		Refresh: opts.Refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		ch.Close()
		return nil, err
	}
	if rs.ComparisonMethod == "" {
		rs.ComparisonMethod = strings.TrimSpace(cfg.ComparisonMethod)
	}

	source := &versions.RepositorySource{
		Client:             client,
		Repositories:       cfg.Repositories,
		PluginRepositories: cfg.PluginRepositories,
		Refresh:            opts.Refresh,
	}
	if cfg.LocalRepository != "" {
		local := maven.Local(cfg.LocalRepository)
		source.Local = &local
	}

	helper, err := versions.NewHelper(rs, source, c.Logger)
	if err != nil {
		ch.Close()
		return nil, err
	}
	return &engine{helper: helper, cache: ch}, nil
}
