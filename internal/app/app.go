// Package app wires configuration, AWS clients and the reaper together for
// the CLI and the Lambda handler.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	awsclient "tasnim.dev/aws-reaper/internal/aws"
	awss3 "tasnim.dev/aws-reaper/internal/aws/s3"
	"tasnim.dev/aws-reaper/internal/config"
	"tasnim.dev/aws-reaper/internal/reaper"
	"tasnim.dev/aws-reaper/internal/report"
)

// ReportUploader stores a rendered summary.
type ReportUploader interface {
	PutJSON(ctx context.Context, bucket, key string, body []byte) (awss3.Object, error)
}

// App is a configured reaper bound to one AWS account.
type App struct {
	cfg     *config.Config
	awsCfg  aws.Config
	factory *awsclient.ClientFactory
}

// New validates cfg and loads the AWS config for profile and region.
func New(ctx context.Context, cfg *config.Config, profile, region string) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	awsCfg, err := awsclient.LoadConfig(ctx, awsclient.SessionOptions{
		Profile:     profile,
		Region:      region,
		MaxAttempts: cfg.MaxAttempts,
		CallTimeout: cfg.CallTimeout(),
	})
	if err != nil {
		return nil, err
	}

	return &App{cfg: cfg, awsCfg: awsCfg, factory: awsclient.NewClientFactory(awsCfg)}, nil
}

// Options translates cfg into orchestrator options.
func Options(cfg *config.Config) reaper.Options {
	sample, maxLow := cfg.Thresholds()
	tagKey, tagValues := cfg.TagFilter()

	return reaper.Options{
		Regions:            cfg.Regions,
		Concurrency:        cfg.Workers(),
		SkipSnapshots:      cfg.SkipSnapshots,
		SkipInstances:      cfg.SkipInstances,
		SkipSecurityGroups: cfg.SkipSecurityGroups,
		DryRun:             cfg.DryRun,
		SnapshotOwner:      cfg.Owner(),
		Instances: reaper.InstanceOptions{
			Policy:    reaper.Policy{SampleThreshold: sample, MaxLowPercentage: maxLow},
			TagKey:    tagKey,
			TagValues: tagValues,
			Lookback:  cfg.Lookback(),
			Period:    cfg.Period(),
			DryRun:    cfg.DryRun,
		},
	}
}

// Regional adapts the AWS client factory to the reaper's per-region view.
func Regional(f *awsclient.ClientFactory) reaper.ClientFactory {
	return reaper.ClientFactoryFunc(func(region string) reaper.Regional {
		c := f.ForRegion(region)
		return reaper.Regional{
			Instances:      c.EC2,
			Metrics:        c.Metrics,
			Snapshots:      c.EBS,
			SecurityGroups: c.VPC,
		}
	})
}

func (a *App) Orchestrator() *reaper.Orchestrator {
	return reaper.NewOrchestrator(a.factory.Home(), Regional(a.factory), Options(a.cfg))
}

// Regions lists the regions a run would cover.
func (a *App) Regions(ctx context.Context) ([]string, error) {
	return a.Orchestrator().Regions(ctx)
}

// Reap runs every region and, when a report bucket is configured, uploads
// the summary. An upload failure is logged but does not fail the run.
func (a *App) Reap(ctx context.Context) (*report.Summary, error) {
	logger := zerolog.Ctx(ctx)

	accountID := awsclient.GetAccountID(ctx, a.awsCfg)
	if accountID == "" {
		logger.Warn().Msg("could not resolve caller account")
	} else {
		logger.Info().Str("account_id", accountID).Str("home_region", a.awsCfg.Region).Msg("resolved caller account")
	}

	summary, err := a.Orchestrator().Run(ctx)
	if err != nil {
		return nil, err
	}
	summary.AccountID = accountID

	if a.cfg.ReportBucket != "" {
		if _, err := Publish(ctx, a.factory.S3(), a.cfg.ReportBucket, a.cfg.Prefix(), summary); err != nil {
			logger.Error().Err(err).Str("bucket", a.cfg.ReportBucket).Msg("uploading run summary failed")
		}
	}
	return summary, nil
}

// Publish uploads summary as JSON under prefix in bucket.
func Publish(ctx context.Context, up ReportUploader, bucket, prefix string, summary *report.Summary) (awss3.Object, error) {
	body, err := summary.JSON()
	if err != nil {
		return awss3.Object{}, fmt.Errorf("encoding summary: %w", err)
	}

	obj, err := up.PutJSON(ctx, bucket, summary.ObjectKey(prefix), body)
	if err != nil {
		return awss3.Object{}, err
	}
	zerolog.Ctx(ctx).Info().
		Str("bucket", obj.Bucket).
		Str("key", obj.Key).
		Str("bucket_region", obj.Region).
		Msg("uploaded run summary")
	return obj, nil
}
