package cmd

import (
	"github.com/spf13/cobra"

	"tasnim.dev/aws-reaper/internal/config"
	"tasnim.dev/aws-reaper/internal/report"
)

func NewReapCmd() *cobra.Command {
	var flags commonFlags
	var dryRun bool
	var concurrency int
	var regions []string
	var details bool

	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Stop idle instances and delete orphaned snapshots and security groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := flags.setup(cmd.Context(), func(cfg *config.Config) {
				if cmd.Flags().Changed("dry-run") {
					cfg.DryRun = dryRun
				}
				if cmd.Flags().Changed("concurrency") {
					cfg.Concurrency = concurrency
				}
				if len(regions) > 0 {
					cfg.Regions = regions
				}
			})
			if err != nil {
				return err
			}

			summary, err := a.Reap(ctx)
			if err != nil {
				return err
			}
			report.Render(cmd.OutOrStdout(), summary)
			if details {
				report.RenderDetails(cmd.OutOrStdout(), summary)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report decisions without changing any resource")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of regions processed in parallel")
	cmd.Flags().StringSliceVar(&regions, "regions", nil, "only process these regions")
	cmd.Flags().BoolVar(&details, "details", false, "list every affected resource per region")

	return cmd
}
