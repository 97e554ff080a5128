package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRegionsCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions a reap run would cover",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := flags.setup(cmd.Context(), nil)
			if err != nil {
				return err
			}

			regions, err := a.Regions(ctx)
			if err != nil {
				return err
			}
			for _, r := range regions {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
