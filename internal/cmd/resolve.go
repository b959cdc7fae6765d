package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/akshat1136/sage/internal/matrix"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <environment>...",
		Short: "Resolve environment names and write the configuration manifest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			manifest, err := resolveAll(args, opts)
			if err != nil {
				return err
			}

			for _, environment := range manifest.Order {
				rendered, err := yaml.Marshal(manifest.Entries[environment])
				if err != nil {
					return fmt.Errorf("encode resolved config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "---\n%s", rendered)
			}

			if err := confirmWrite(cmd, opts.DangerousInline, opts.ManifestFile); err != nil {
				return err
			}
			if err := matrix.WriteManifest(opts.ManifestFile, manifest); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote manifest: %s\n", opts.ManifestFile)
			return nil
		},
	}

	return cmd
}

// resolveAll resolves each requested environment exactly once, preserving
// request order in the manifest.
func resolveAll(environments []string, opts runtimeOptions) (matrix.Manifest, error) {
	overrides, err := overridesFrom(opts)
	if err != nil {
		return matrix.Manifest{}, err
	}

	manifest := matrix.Manifest{Entries: make(map[string]matrix.ResolvedConfig)}
	for _, environment := range environments {
		cfg, err := matrix.Resolve(environment, overrides)
		if err != nil {
			return matrix.Manifest{}, err
		}
		if _, dup := manifest.Entries[cfg.Environment]; dup {
			continue
		}
		manifest.Order = append(manifest.Order, cfg.Environment)
		manifest.Entries[cfg.Environment] = cfg
	}

	return manifest, nil
}
