package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tasnim.dev/aws-reaper/internal/aws/awserr"
	"tasnim.dev/aws-reaper/internal/report"
)

// Options controls a full run.
type Options struct {
	// Regions replaces region enumeration when non-empty.
	Regions     []string
	Concurrency int

	SkipSnapshots      bool
	SkipInstances      bool
	SkipSecurityGroups bool

	DryRun        bool
	SnapshotOwner string
	Instances     InstanceOptions
}

// Orchestrator runs every reaping step in every region.
type Orchestrator struct {
	lister  RegionLister
	factory ClientFactory
	opts    Options
	now     func() time.Time
}

func NewOrchestrator(lister RegionLister, factory ClientFactory, opts Options) *Orchestrator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	opts.Instances.DryRun = opts.DryRun
	return &Orchestrator{lister: lister, factory: factory, opts: opts, now: time.Now}
}

// Regions returns the regions a run covers.
func (o *Orchestrator) Regions(ctx context.Context) ([]string, error) {
	if len(o.opts.Regions) > 0 {
		return o.opts.Regions, nil
	}
	regions, err := o.lister.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing regions: %w", err)
	}
	return regions, nil
}

// Run processes each region and returns the run summary. Only a failure to
// enumerate regions or a cancelled context fails the run; step failures
// are recorded on the region report.
func (o *Orchestrator) Run(ctx context.Context) (*report.Summary, error) {
	logger := zerolog.Ctx(ctx)

	summary := &report.Summary{DryRun: o.opts.DryRun, StartedAt: o.now()}

	regions, err := o.Regions(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("regions", len(regions)).Bool("dry_run", o.opts.DryRun).Msg("starting run")

	reports := make([]report.RegionReport, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)
	for i, region := range regions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = o.RunRegion(gctx, region)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Regions = reports
	summary.FinishedAt = o.now()

	t := summary.Totals()
	logger.Info().
		Int("deleted_snapshots", t.DeletedSnapshots).
		Int("stopped_instances", t.StoppedInstances).
		Int("deleted_security_groups", t.DeletedSecurityGroups).
		Int("failures", t.Failures).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("run finished")

	return summary, nil
}

// RunRegion runs snapshots, instances and security groups, in that order,
// against a single region.
func (o *Orchestrator) RunRegion(ctx context.Context, region string) report.RegionReport {
	logger := zerolog.Ctx(ctx).With().Str("region", region).Logger()
	ctx = logger.WithContext(ctx)

	rep := report.RegionReport{Region: region}
	clients := o.factory.ForRegion(region)

	logger.Info().Msg("processing region")

	if !o.opts.SkipSnapshots {
		r := NewSnapshotReaper(clients.Snapshots, o.opts.SnapshotOwner, o.opts.DryRun)
		o.step(ctx, &rep, report.StepSnapshots, r.Run)
	}
	if !o.opts.SkipInstances {
		c := NewInstanceController(clients.Instances, clients.Metrics, o.opts.Instances)
		o.step(ctx, &rep, report.StepInstances, c.Run)
	}
	if !o.opts.SkipSecurityGroups {
		r := NewSecurityGroupReaper(clients.SecurityGroups, clients.Instances, o.opts.DryRun)
		o.step(ctx, &rep, report.StepSecurityGroups, r.Run)
	}
	return rep
}

func (o *Orchestrator) step(ctx context.Context, rep *report.RegionReport, name string, run func(context.Context, *report.RegionReport) error) {
	if err := run(ctx, rep); err != nil {
		kind := awserr.Classify(err)
		zerolog.Ctx(ctx).Error().Err(err).Str("step", name).Str("kind", kind.String()).Msg("step failed")
		rep.AddFailure(name, "", kind.String(), err)
	}
}
