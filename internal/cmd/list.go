package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akshat1136/sage/internal/matrix"
)

func newListCmd() *cobra.Command {
	familiesOnly := false

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every environment name in the matrix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := matrix.Environments()
			if familiesOnly {
				names = matrix.Families()
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&familiesOnly, "families", false, "List family names only")

	return cmd
}
