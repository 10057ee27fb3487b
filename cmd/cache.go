package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jacklau/authorship/internal/config"
	"github.com/jacklau/authorship/internal/features"
	"github.com/jacklau/authorship/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the document vector cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vector cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached vector",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openConfiguredCache locks and opens the cache named by config. It returns
// a nil *store.DB when caching is disabled. The returned release closes the
// database before dropping the lock.
func openConfiguredCache(ctx context.Context, exclusive bool) (db *store.DB, path string, release func(), err error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Cache.Path == "" {
		return nil, "", func() {}, nil
	}
	db, lock, err := openCache(ctx, cfg.Cache.Path, exclusive)
	if err != nil {
		return nil, "", nil, err
	}
	release = func() {
		db.Close()
		lock.Release()
	}
	return db, config.ExpandHome(cfg.Cache.Path), release, nil
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	db, path, release, err := openConfiguredCache(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer release()

	out := cmd.OutOrStdout()
	if db == nil {
		fmt.Fprintln(out, "Vector cache is disabled.")
		fmt.Fprintln(out, "Set cache.path in the config file or pass --cache <file> to enable it.")
		return nil
	}

	stats, err := db.Stats()
	if err != nil {
		return fmt.Errorf("querying stats: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Cache:\t%s\n", path)
	fmt.Fprintf(w, "Vectors:\t%d\n", stats.Entries)
	fmt.Fprintf(w, "Catalogs:\t%d\n", stats.Catalogs)
	fmt.Fprintf(w, "Vector data:\t%s\n", formatBytes(stats.Bytes))
	if size, err := fileSize(path); err == nil {
		fmt.Fprintf(w, "File size:\t%s\n", formatBytes(size))
	}
	fmt.Fprintf(w, "Current catalog:\t%s\n", features.Default().Fingerprint()[:12])
	return w.Flush()
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	db, _, release, err := openConfiguredCache(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer release()

	if db == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Vector cache is disabled; nothing to clear.")
		return nil
	}

	n, err := db.Clear()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached vectors.\n", n)
	return nil
}

// formatBytes formats bytes into a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
