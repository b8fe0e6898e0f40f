package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Options holds persistent, cross-command CLI flags.
type Options struct {
	Capacity    uint32
	Algorithm   string
	Concurrency int
}

// RootCommand wraps *cobra.Command with this CLI's persistent flags.
type RootCommand struct {
	*cobra.Command
	Options Options
}

func newRootCommand() *RootCommand {
	root := &RootCommand{
		Command: &cobra.Command{
			Use:   "replaybench",
			Short: "Replay a page-access trace against the replacer library",
		},
	}
	root.initFlags()
	root.AddCommand(root.newRunCommand())
	root.AddCommand(root.newStatsCommand())
	return root
}

func (c *RootCommand) initFlags() {
	c.PersistentFlags().Uint32Var(&c.Options.Capacity, "capacity", 0, "frame pool capacity (overrides REPLAYBENCH_CAPACITY)")
	c.PersistentFlags().StringVar(&c.Options.Algorithm, "algorithm", "", "clock or arc (overrides REPLAYBENCH_ALGORITHM)")
	c.PersistentFlags().IntVar(&c.Options.Concurrency, "concurrency", 0, "replay worker count (overrides REPLAYBENCH_CONCURRENCY)")
}

func (c *RootCommand) newRunCommand() *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "run <trace-file>",
		Short: "Replay a trace file against a configured replacer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := mustLoadEnv()
			log := newLogger(env.Environment)
			defer log.Sync()

			cfg := RunConfig{
				TracePath:   args[0],
				Capacity:    firstNonZeroU32(c.Options.Capacity, env.Capacity),
				Algorithm:   firstNonEmpty(c.Options.Algorithm, env.Algorithm),
				Concurrency: firstNonZeroInt(c.Options.Concurrency, env.Concurrency),
			}

			fs := afero.NewOsFs()
			result, err := runTrace(cmd.Context(), fs, cfg, log)
			if err != nil {
				return err
			}

			if exportPath != "" {
				snap := snapshotMetrics(result.RunID, result.Metrics)
				if err := exportStats(fs, exportPath, snap); err != nil {
					return fmt.Errorf("export stats: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exportPath, "export", "", "snappy-compressed stats snapshot path")
	return cmd
}

func (c *RootCommand) newStatsCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a previously exported stats snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--path is required")
			}
			fs := afero.NewOsFs()
			snap, err := loadStats(fs, path)
			if err != nil {
				return err
			}
			fmt.Printf("run %s: hit_rate=%.4f resident_hits=%d ghost_hits=%d misses=%d evictions=%d removals=%d promotions=%d\n",
				snap.RunID, snap.HitRate, snap.ResidentHit, snap.GhostHit, snap.Misses, snap.Evictions, snap.Removals, snap.Promotions)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "snapshot file written by `run --export`")
	return cmd
}

func (c *RootCommand) Execute(ctx context.Context) error {
	return c.ExecuteContext(ctx)
}

func (c *RootCommand) MustExecute(ctx context.Context) {
	if err := c.Execute(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "replaybench failed: %v\n", err)
		os.Exit(1)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZeroU32(vals ...uint32) uint32 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonZeroInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
