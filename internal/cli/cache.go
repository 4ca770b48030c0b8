package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/versionwatch/pkg/cache"
	"github.com/matzehuels/versionwatch/pkg/errors"
)

// cacheCommand manages the file backend. Redis and MongoDB entries expire
// through their TTL and are left alone.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the metadata cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached metadata document and rule set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(out, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear %s: %w", dir, err)
			}
			printSuccess(out, "Cleared %d cached entries", n)
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := c.fileCacheDir()
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return err
		},
	})

	return cmd
}

func (c *CLI) fileCacheDir() (string, error) {
	cfg := c.cfg().Cache
	if backend := strings.ToLower(cfg.Backend); backend != "" && backend != backendFile {
		return "", errors.New(errors.ErrCodeUnsupported, "the %s cache backend is not managed by versionwatch; only %q is", cfg.Backend, backendFile)
	}
	dir, err := fileCacheDir(cfg)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigLoad, err, "locate cache directory")
	}
	return dir, nil
}
