package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aitoearn/mobile-agent-go/internal/history"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <snapshot.yaml>",
		Short: "Print a previously exported session history (debugging aid, no device re-execution)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}

			store := history.NewStore(1)
			if err := store.ImportYAML(data); err != nil {
				return fmt.Errorf("import snapshot: %w", err)
			}

			fmt.Print(store.Summary(0))

			stats := store.Stats()
			fmt.Printf("\ntotal steps: %d\n", stats.TotalEntries)
			for kind, n := range stats.ActionCounts {
				fmt.Printf("  %s: %d\n", kind, n)
			}
			if stats.LoopTotal > 0 {
				fmt.Printf("loop detector: %d fingerprints tracked, %d unique\n", stats.LoopTotal, stats.LoopUnique)
			}
			return nil
		},
	}
	return cmd
}
