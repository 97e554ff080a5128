package reaper

import (
	"context"

	"github.com/rs/zerolog"

	"tasnim.dev/aws-reaper/internal/aws/awserr"
	awsebs "tasnim.dev/aws-reaper/internal/aws/ebs"
	"tasnim.dev/aws-reaper/internal/report"
)

// SnapshotDecision says whether a snapshot goes, and why. Volume is set when
// the snapshot's volume was found.
type SnapshotDecision struct {
	Delete bool
	Reason string
	Volume awsebs.Volume
}

// SnapshotReaper deletes snapshots that no longer back an attached volume.
type SnapshotReaper struct {
	api    SnapshotAPI
	owner  string
	dryRun bool
}

func NewSnapshotReaper(api SnapshotAPI, owner string, dryRun bool) *SnapshotReaper {
	return &SnapshotReaper{api: api, owner: owner, dryRun: dryRun}
}

// Decide evaluates one snapshot:
//  1. no volume reference: delete;
//  2. volume exists without attachments: delete;
//  3. volume does not exist: delete;
//
// otherwise retain. Any other lookup outcome, including a response that
// omits the volume, is returned as an error and the snapshot is kept.
func (r *SnapshotReaper) Decide(ctx context.Context, snap awsebs.Snapshot) (SnapshotDecision, error) {
	if snap.VolumeID == "" {
		return SnapshotDecision{Delete: true, Reason: report.ReasonNoVolume}, nil
	}

	lookup, err := r.api.LookupVolume(ctx, snap.VolumeID)
	if err != nil {
		return SnapshotDecision{}, err
	}
	if !lookup.Found {
		return SnapshotDecision{Delete: true, Reason: report.ReasonVolumeNotFound}, nil
	}
	if !lookup.Attached() {
		return SnapshotDecision{Delete: true, Reason: report.ReasonVolumeUnattached, Volume: lookup.Volume}, nil
	}
	return SnapshotDecision{Volume: lookup.Volume}, nil
}

// Run evaluates and reaps every snapshot owned by the configured owner.
// Failures on one snapshot are recorded and do not stop the rest.
func (r *SnapshotReaper) Run(ctx context.Context, rep *report.RegionReport) error {
	logger := zerolog.Ctx(ctx)

	snapshots, err := r.api.ListSnapshots(ctx, r.owner)
	if err != nil {
		return err
	}
	logger.Debug().Int("count", len(snapshots)).Msg("listed snapshots")

	for _, snap := range snapshots {
		snapLog := logger.With().Str("snapshot_id", snap.ID).Str("volume_id", snap.VolumeID).Logger()

		decision, err := r.Decide(ctx, snap)
		if err != nil {
			snapLog.Error().Err(err).Msg("volume lookup failed, skipping snapshot")
			rep.AddFailure(report.StepSnapshots, snap.ID, awserr.Classify(err).String(), err)
			continue
		}
		if !decision.Delete {
			snapLog.Debug().
				Str("volume_state", decision.Volume.State).
				Strs("attached_to", attachedInstances(decision.Volume)).
				Msg("snapshot retained, volume attached")
			rep.RetainedSnapshots++
			continue
		}

		if r.dryRun {
			snapLog.Info().Str("reason", decision.Reason).Msg("dry run: would delete snapshot")
		} else {
			if err := r.api.DeleteSnapshot(ctx, snap.ID); err != nil {
				snapLog.Error().Err(err).Msg("deleting snapshot failed")
				rep.AddFailure(report.StepSnapshots, snap.ID, awserr.Classify(err).String(), err)
				continue
			}
			snapLog.Info().Str("reason", decision.Reason).Msg("deleted snapshot")
		}

		rep.DeletedSnapshots = append(rep.DeletedSnapshots, report.DeletedSnapshot{
			SnapshotID: snap.ID,
			VolumeID:   snap.VolumeID,
			SizeGB:     snap.SizeGB,
			StartedAt:  snap.StartTime,
			Reason:     decision.Reason,
		})
	}
	return nil
}

func attachedInstances(v awsebs.Volume) []string {
	ids := make([]string, 0, len(v.Attachments))
	for _, a := range v.Attachments {
		ids = append(ids, a.InstanceID)
	}
	return ids
}
