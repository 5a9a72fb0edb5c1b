package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iconfont/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var flags cacheFlags

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}
	cmd.PersistentFlags().StringVar(&flags.url, "cache-url", "", "cache location: directory, redis://host:port/db (env "+cacheURLEnv+")")

	cmd.AddCommand(c.cacheClearCommand(&flags))
	cmd.AddCommand(c.cachePathCommand(&flags))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(flags *cacheFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.openCache(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Nothing to clear")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared the cache")
			printDetail("Location: %s", describeCache(ch))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(flags *cacheFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.openCache(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer ch.Close()

			fmt.Fprintln(cmd.OutOrStdout(), describeCache(ch))
			return nil
		},
	}
}
