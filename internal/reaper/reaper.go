// Package reaper decides which idle or orphaned resources in a region to
// stop or delete, and does so.
//
// Every decision is derived from data fetched during the current run:
//
//   - a snapshot is deleted when it has no source volume, when its volume
//     has no attachments, or when its volume no longer exists;
//   - a security group is deleted when it is not a VPC default group and no
//     instance references it;
//   - a running instance tagged with a managed environment is stopped when
//     its CPU samples over the lookback window classify as underutilized.
package reaper

import (
	"context"
	"time"

	awsebs "tasnim.dev/aws-reaper/internal/aws/ebs"
	awsec2 "tasnim.dev/aws-reaper/internal/aws/ec2"
	awsmetrics "tasnim.dev/aws-reaper/internal/aws/metrics"
	awsvpc "tasnim.dev/aws-reaper/internal/aws/vpc"
)

type RegionLister interface {
	ListRegions(ctx context.Context) ([]string, error)
}

type InstanceAPI interface {
	ListInstances(ctx context.Context, states ...string) ([]awsec2.Instance, error)
	StopInstance(ctx context.Context, instanceID string) error
}

type MetricsAPI interface {
	CPUUtilization(ctx context.Context, instanceID string, window, period time.Duration) ([]awsmetrics.Sample, error)
}

type SnapshotAPI interface {
	ListSnapshots(ctx context.Context, owners ...string) ([]awsebs.Snapshot, error)
	LookupVolume(ctx context.Context, volumeID string) (awsebs.VolumeLookup, error)
	DeleteSnapshot(ctx context.Context, snapshotID string) error
}

type SecurityGroupAPI interface {
	ListSecurityGroups(ctx context.Context) ([]awsvpc.SecurityGroup, error)
	DeleteSecurityGroup(ctx context.Context, groupID string) error
}

// Regional is the set of provider clients scoped to one region.
type Regional struct {
	Instances      InstanceAPI
	Metrics        MetricsAPI
	Snapshots      SnapshotAPI
	SecurityGroups SecurityGroupAPI
}

// ClientFactory hands out region-scoped clients.
type ClientFactory interface {
	ForRegion(region string) Regional
}

// ClientFactoryFunc adapts a function to ClientFactory.
type ClientFactoryFunc func(region string) Regional

func (f ClientFactoryFunc) ForRegion(region string) Regional {
	return f(region)
}
