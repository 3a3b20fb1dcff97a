package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridmesh/gridmesh/pkg/cache"
	"github.com/gridmesh/gridmesh/pkg/config"
	"github.com/gridmesh/gridmesh/pkg/graph"
	"github.com/gridmesh/gridmesh/pkg/pipeline"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output  string  // output file path; derived from input when empty
	config  string  // config file path
	spacing float64 // world distance between adjacent grid cells
	buffer  int     // inter-group spacing buffer in grid cells
	padding float64 // boundary half-extent around each node
	noCache bool    // disable the result cache entirely
	refresh bool    // bypass cache reads, still write back
}

// newLayoutCmd creates the layout command, which computes grid positions and
// group boundary meshes from a graph description file.
//
// Results are cached by content hash under the configured cache directory, so
// repeated runs on an unchanged graph are instant. Use --refresh to force a
// rebuild or --no-cache to skip caching altogether.
func newLayoutCmd() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute grid positions and group boundaries from a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&opts.config, "config", config.DefaultPath(), "config file path")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", 0, "grid cell spacing in world units (default from config)")
	cmd.Flags().IntVar(&opts.buffer, "buffer", 0, "inter-group buffer in grid cells (default from config)")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "boundary padding in world units (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

// runLayout loads the graph, runs the build pipeline, and writes the layout.
func runLayout(ctx context.Context, input string, opts *layoutOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}

	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded graph: %d nodes, %d edges, %d groups", g.NodeCount(), g.EdgeCount(), g.GroupCount())

	var backend cache.Cache
	if !opts.noCache {
		fc, err := cache.NewFileCache(cfg.CacheDir())
		if err != nil {
			logger.Warn("cache unavailable, continuing without", "err", err)
		} else {
			backend = fc
		}
	}

	runner := pipeline.NewRunner(backend, nil)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, g, pipeline.Options{
		Spacing: pick(opts.spacing, cfg.Layout.Spacing),
		Buffer:  pickInt(opts.buffer, cfg.Layout.Buffer),
		Padding: pick(opts.padding, cfg.Layout.Padding),
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Placed %d nodes, meshed %d groups", len(res.Layout.Nodes), len(res.Layout.Groups)))

	for _, d := range res.Layout.Diagnostics {
		printWarning("%s", d.Message)
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(res.Layout, outputPath); err != nil {
		return err
	}

	printSuccess("Layout written")
	printFile(outputPath)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.GroupCount, res.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Inspect it", fmt.Sprintf("gridmesh export %s --layout %s", input, outputPath))
	return nil
}

// pick returns the flag value when set, otherwise the config value.
func pick(flag, cfg float64) float64 {
	if flag != 0 {
		return flag
	}
	return cfg
}

func pickInt(flag, cfg int) int {
	if flag != 0 {
		return flag
	}
	return cfg
}
