package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jet/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the verification disk cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached verification result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := driver.OpenDiskCache("jet")
			if err != nil {
				return fmt.Errorf("failed to open disk cache: %w", err)
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clean %s: %w", cache.Dir(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
			return nil
		},
	})
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show where the cache lives and how much it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := driver.OpenDiskCache("jet")
			if err != nil {
				return fmt.Errorf("failed to open disk cache: %w", err)
			}
			st, err := cache.Stats()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", cache.Dir(), err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dir:     %s\n", cache.Dir())
			fmt.Fprintf(out, "entries: %d\n", st.Entries)
			fmt.Fprintf(out, "size:    %d bytes\n", st.Bytes)
			if st.Entries > 0 {
				fmt.Fprintf(out, "newest:  %s\n", st.Newest.Format(time.RFC3339))
			}
			return nil
		},
	})
	return cacheCmd
}
