// Command lambda runs a reap as an AWS Lambda function. Configuration comes
// from REAPER_* environment variables; the event payload is only logged.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"tasnim.dev/aws-reaper/internal/app"
	"tasnim.dev/aws-reaper/internal/config"
	"tasnim.dev/aws-reaper/internal/logging"
	"tasnim.dev/aws-reaper/internal/report"
)

func handler(ctx context.Context, event json.RawMessage) (*report.Summary, error) {
	cfg := &config.Config{}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.Level())
	if err != nil {
		return nil, err
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With().Str("request_id", lc.AwsRequestID).Logger()
	}
	ctx = logger.WithContext(ctx)

	if len(event) > 0 {
		logger.Info().RawJSON("event", event).Msg("received event")
	}

	profile, region := cfg.Merge("", "")
	a, err := app.New(ctx, cfg, profile, region)
	if err != nil {
		return nil, fmt.Errorf("initializing AWS client: %w", err)
	}
	return a.Reap(ctx)
}

func main() {
	lambda.Start(handler)
}
