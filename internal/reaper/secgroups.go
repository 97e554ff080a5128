package reaper

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"tasnim.dev/aws-reaper/internal/aws/awserr"
	awsec2 "tasnim.dev/aws-reaper/internal/aws/ec2"
	awsvpc "tasnim.dev/aws-reaper/internal/aws/vpc"
	"tasnim.dev/aws-reaper/internal/report"
)

// SecurityGroupReaper deletes security groups no instance references.
type SecurityGroupReaper struct {
	groups    SecurityGroupAPI
	instances InstanceAPI
	dryRun    bool
}

func NewSecurityGroupReaper(groups SecurityGroupAPI, instances InstanceAPI, dryRun bool) *SecurityGroupReaper {
	return &SecurityGroupReaper{groups: groups, instances: instances, dryRun: dryRun}
}

// Orphaned returns the IDs of groups that are neither default groups nor
// referenced by any of instances, sorted.
func Orphaned(groups []awsvpc.SecurityGroup, instances []awsec2.Instance) []string {
	all := make(map[string]struct{}, len(groups))
	defaults := make(map[string]struct{})
	for _, sg := range groups {
		all[sg.GroupID] = struct{}{}
		if sg.IsDefault() {
			defaults[sg.GroupID] = struct{}{}
		}
	}

	used := make(map[string]struct{})
	for _, inst := range instances {
		for _, id := range inst.SecurityGroupIDs {
			used[id] = struct{}{}
		}
	}

	var orphaned []string
	for id := range all {
		if _, ok := used[id]; ok {
			continue
		}
		if _, ok := defaults[id]; ok {
			continue
		}
		orphaned = append(orphaned, id)
	}
	sort.Strings(orphaned)
	return orphaned
}

// Run deletes the region's orphaned groups. Every deletion is attempted even
// when earlier ones fail.
func (r *SecurityGroupReaper) Run(ctx context.Context, rep *report.RegionReport) error {
	logger := zerolog.Ctx(ctx)

	groups, err := r.groups.ListSecurityGroups(ctx)
	if err != nil {
		return err
	}
	// Instances in every state count as references.
	instances, err := r.instances.ListInstances(ctx)
	if err != nil {
		return err
	}

	orphaned := Orphaned(groups, instances)
	logger.Debug().Int("groups", len(groups)).Int("orphaned", len(orphaned)).Msg("computed orphaned security groups")

	for _, id := range orphaned {
		glog := logger.With().Str("group_id", id).Logger()

		if r.dryRun {
			glog.Info().Msg("dry run: would delete orphaned security group")
		} else {
			if err := r.groups.DeleteSecurityGroup(ctx, id); err != nil {
				glog.Error().Err(err).Msg("deleting security group failed")
				rep.AddFailure(report.StepSecurityGroups, id, awserr.Classify(err).String(), err)
				continue
			}
			glog.Info().Msg("deleted orphaned security group")
		}
		rep.DeletedSecurityGroups = append(rep.DeletedSecurityGroups, id)
	}
	return nil
}
