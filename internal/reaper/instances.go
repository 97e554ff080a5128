package reaper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tasnim.dev/aws-reaper/internal/aws/awserr"
	awsec2 "tasnim.dev/aws-reaper/internal/aws/ec2"
	"tasnim.dev/aws-reaper/internal/report"
)

const stateRunning = "running"

type InstanceOptions struct {
	Policy    Policy
	TagKey    string
	TagValues []string
	Lookback  time.Duration
	Period    time.Duration
	DryRun    bool
}

// InstanceController stops running instances in managed environments whose
// recent CPU usage classifies as underutilized.
type InstanceController struct {
	instances InstanceAPI
	metrics   MetricsAPI
	opts      InstanceOptions
}

func NewInstanceController(instances InstanceAPI, metrics MetricsAPI, opts InstanceOptions) *InstanceController {
	return &InstanceController{instances: instances, metrics: metrics, opts: opts}
}

// Run evaluates every running instance in the region. Only the instance
// listing can fail the step; metric and stop failures are recorded per
// instance.
func (c *InstanceController) Run(ctx context.Context, rep *report.RegionReport) error {
	logger := zerolog.Ctx(ctx)

	instances, err := c.instances.ListInstances(ctx, stateRunning)
	if err != nil {
		return err
	}

	for _, inst := range instances {
		if len(inst.Tags) == 0 {
			logger.Info().Str("instance_id", inst.ID).Msg("instance has no tags, not in a managed environment")
			continue
		}
		if !inst.HasTag(c.opts.TagKey, c.opts.TagValues) {
			logger.Debug().Str("instance_id", inst.ID).Msg("instance not in a managed environment")
			continue
		}
		c.evaluate(ctx, inst, rep)
	}
	return nil
}

func (c *InstanceController) evaluate(ctx context.Context, inst awsec2.Instance, rep *report.RegionReport) {
	logger := zerolog.Ctx(ctx).With().
		Str("instance_id", inst.ID).
		Str(c.opts.TagKey, inst.Tags[c.opts.TagKey]).
		Logger()

	rep.EvaluatedInstances++

	samples, err := c.metrics.CPUUtilization(ctx, inst.ID, c.opts.Lookback, c.opts.Period)
	if err != nil {
		// Treated as no data: the instance is left running.
		logger.Warn().Err(err).Msg("fetching CPU utilization failed")
		rep.AddFailure(report.StepInstances, inst.ID, awserr.Classify(err).String(), err)
		samples = nil
	}

	verdict := Classify(samples, c.opts.Policy)
	if verdict.NoData {
		logger.Info().Msg("no CPU datapoints available")
		rep.NoDataInstances = append(rep.NoDataInstances, inst.ID)
		return
	}

	logger.Info().
		Int("samples", verdict.Samples).
		Int("low_samples", verdict.LowSamples).
		Float64("low_percentage", verdict.LowPercentage).
		Bool("underutilized", verdict.Underutilized).
		Msgf("CPU utilization percentage %.2f%%", verdict.LowPercentage)

	if !verdict.Underutilized {
		return
	}

	if err := c.Stop(ctx, inst.ID); err != nil {
		rep.AddFailure(report.StepInstances, inst.ID, awserr.Classify(err).String(), err)
		return
	}
	rep.StoppedInstances = append(rep.StoppedInstances, report.StoppedInstance{
		InstanceID:    inst.ID,
		Samples:       verdict.Samples,
		LowPercentage: verdict.LowPercentage,
	})
}

// Stop requests a stop without waiting for it to complete. Failures are
// logged and returned for bookkeeping; callers carry on with the next
// instance.
func (c *InstanceController) Stop(ctx context.Context, instanceID string) error {
	logger := zerolog.Ctx(ctx).With().Str("instance_id", instanceID).Logger()

	if c.opts.DryRun {
		logger.Info().Msg("dry run: would stop instance")
		return nil
	}

	if err := c.instances.StopInstance(ctx, instanceID); err != nil {
		logger.Error().Err(err).Str("kind", awserr.Classify(err).String()).Msg("stopping instance failed")
		return err
	}
	logger.Info().Msg("stopped instance")
	return nil
}
