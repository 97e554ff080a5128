package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"tasnim.dev/aws-reaper/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "aws-reaper",
		Short:        "Stop idle EC2 instances and clean up orphaned EBS snapshots and security groups",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.NewReapCmd())
	rootCmd.AddCommand(cmd.NewRegionsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
