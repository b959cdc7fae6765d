package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akshat1136/sage/internal/matrix"
	"github.com/akshat1136/sage/internal/render"
)

func newRenderCmd() *cobra.Command {
	fromManifest := false

	cmd := &cobra.Command{
		Use:   "render [<environment>...]",
		Short: "Render Dockerfiles for the requested environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			var manifest matrix.Manifest
			switch {
			case fromManifest:
				if len(args) > 0 {
					return fmt.Errorf("pass environment names or --from-manifest, not both")
				}
				manifest, err = matrix.ReadManifest(opts.ManifestFile)
				if err != nil {
					return err
				}
			case len(args) > 0:
				manifest, err = resolveAll(args, opts)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("no environments requested (pass names or --from-manifest)")
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

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d environment(s) to %s\n", len(configs), opts.OutputDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromManifest, "from-manifest", false, "Render the environments recorded in the manifest (mutually exclusive with environment args)")

	return cmd
}
