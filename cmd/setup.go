package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tasnim.dev/aws-reaper/internal/app"
	"tasnim.dev/aws-reaper/internal/config"
	"tasnim.dev/aws-reaper/internal/logging"
)

// commonFlags are shared by every command that talks to AWS.
type commonFlags struct {
	profile    string
	region     string
	configPath string
	logLevel   string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "AWS region used for region enumeration")
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default ~/.config/aws-reaper/config.yaml)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
}

func (f *commonFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, nil
}

// setup loads config, attaches a logger to ctx and builds the app.
func (f *commonFlags) setup(ctx context.Context, mutate func(*config.Config)) (context.Context, *app.App, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return ctx, nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger, err := logging.New(os.Stderr, cfg.Level())
	if err != nil {
		return ctx, nil, err
	}
	ctx = logger.WithContext(ctx)

	profile, region := cfg.Merge(f.profile, f.region)
	a, err := app.New(ctx, cfg, profile, region)
	if err != nil {
		return ctx, nil, fmt.Errorf("initializing AWS client: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("profile", profile).Str("region", region).Msg("loaded AWS config")
	return ctx, a, nil
}
