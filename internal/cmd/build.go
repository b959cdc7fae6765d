package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/akshat1136/sage/internal/docker"
	"github.com/akshat1136/sage/internal/matrix"
	"github.com/akshat1136/sage/internal/render"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <environment>...",
		Short: "Resolve, render, and docker-build the requested environments",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBuild,
	}

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	opts, err := mergedOptions(cmd)
	if err != nil {
		return err
	}

	manifest, err := resolveAll(args, opts)
	if err != nil {
		return err
	}

	configs := make([]matrix.ResolvedConfig, 0, len(manifest.Order))
	for _, environment := range manifest.Order {
		configs = append(configs, manifest.Entries[environment])
	}

	if err := render.Generate(render.Options{
		Configs:   configs,
		OutputDir: opts.OutputDir,
		Cleanup:   opts.Cleanup,
		ConfirmWrite: func(path string) error {
			return confirmWrite(cmd, opts.DangerousInline, path)
		},
	}); err != nil {
		return err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// Resolution is pure; only the external docker builds run concurrently.
	group, ctx := errgroup.WithContext(cmd.Context())
	group.SetLimit(jobs)

	for _, cfg := range configs {
		cfg := cfg
		group.Go(func() error {
			contextDir := filepath.Join(opts.OutputDir, cfg.Environment)
			return docker.Build(ctx, docker.BuildOptions{
				ContextDir: contextDir,
				Dockerfile: filepath.Join(contextDir, "Dockerfile"),
				Tag:        docker.ImageTag(cfg),
				BuildArgs:  docker.BuildArgs(cfg),
				ExtraArgs:  cfg.ExtraBuildArgs,
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built %d image(s)\n", len(configs))
	return nil
}
