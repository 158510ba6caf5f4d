package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached solve results and rendered artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear()
		},
	}
}

// runCacheClear deletes every cache shard and reports how many entries
// and bytes were reclaimed. Entries that cannot be counted are still
// deleted, they just go unreported.
func (c *CLI) runCacheClear() error {
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}

	shards, err := os.ReadDir(dir)
	if os.IsNotExist(err) || (err == nil && len(shards) == 0) {
		printInfo("Cache is empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}

	spinner := newSpinner("Clearing cache...")
	spinner.Start()

	var entries int
	var freed int64
	for _, shard := range shards {
		sub := filepath.Join(dir, shard.Name())
		n, size := shardStats(sub, shard)
		entries += n
		freed += size
		if err := os.RemoveAll(sub); err != nil {
			spinner.StopWithError("Clear failed")
			return err
		}
	}

	spinner.Stop()
	printSuccess("Cleared %d cached entries (%s)", entries, formatSize(freed))
	printDetail("Directory: %s", dir)
	return nil
}

// shardStats counts the cache entries under one top-level cache element
// and sums their sizes. Elements that cannot be read count as zero.
func shardStats(path string, e os.DirEntry) (int, int64) {
	if !e.IsDir() {
		info, err := e.Info()
		if err != nil {
			return 1, 0
		}
		return 1, info.Size()
	}
	files, err := os.ReadDir(path)
	if err != nil {
		return 0, 0
	}
	var n int
	var size int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		n++
		if info, err := f.Info(); err == nil {
			size += info.Size()
		}
	}
	return n, size
}

// formatSize renders a byte count for humans, e.g. "3.4 MB".
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
