package reaper

import (
	"context"
	"sync"
	"time"

	awsebs "tasnim.dev/aws-reaper/internal/aws/ebs"
	awsec2 "tasnim.dev/aws-reaper/internal/aws/ec2"
	awsmetrics "tasnim.dev/aws-reaper/internal/aws/metrics"
	awsvpc "tasnim.dev/aws-reaper/internal/aws/vpc"
)

type mockInstances struct {
	mu        sync.Mutex
	instances []awsec2.Instance
	listErr   error
	stopErr   map[string]error
	stopped   []string
	states    [][]string
}

func (m *mockInstances) ListInstances(ctx context.Context, states ...string) ([]awsec2.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, states)
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(states) == 0 {
		return m.instances, nil
	}
	var out []awsec2.Instance
	for _, inst := range m.instances {
		for _, s := range states {
			if inst.State == s {
				out = append(out, inst)
			}
		}
	}
	return out, nil
}

func (m *mockInstances) StopInstance(ctx context.Context, instanceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.stopErr[instanceID]; err != nil {
		return err
	}
	m.stopped = append(m.stopped, instanceID)
	return nil
}

type mockMetrics struct {
	cpuUtilizationFunc func(ctx context.Context, instanceID string, window, period time.Duration) ([]awsmetrics.Sample, error)
}

func (m *mockMetrics) CPUUtilization(ctx context.Context, instanceID string, window, period time.Duration) ([]awsmetrics.Sample, error) {
	return m.cpuUtilizationFunc(ctx, instanceID, window, period)
}

type mockSnapshots struct {
	mu        sync.Mutex
	snapshots []awsebs.Snapshot
	listErr   error
	volumes   map[string]awsebs.Volume
	lookupErr map[string]error
	deleteErr map[string]error
	deleted   []string
	lookups   []string
}

func (m *mockSnapshots) ListSnapshots(ctx context.Context, owners ...string) ([]awsebs.Snapshot, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.snapshots, nil
}

func (m *mockSnapshots) LookupVolume(ctx context.Context, volumeID string) (awsebs.VolumeLookup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, volumeID)
	if err := m.lookupErr[volumeID]; err != nil {
		return awsebs.VolumeLookup{}, err
	}
	vol, ok := m.volumes[volumeID]
	if !ok {
		return awsebs.VolumeLookup{}, nil
	}
	return awsebs.VolumeLookup{Found: true, Volume: vol}, nil
}

func (m *mockSnapshots) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[snapshotID]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, snapshotID)
	return nil
}

type mockSecurityGroups struct {
	mu        sync.Mutex
	groups    []awsvpc.SecurityGroup
	listErr   error
	deleteErr map[string]error
	attempted []string
}

func (m *mockSecurityGroups) ListSecurityGroups(ctx context.Context) ([]awsvpc.SecurityGroup, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.groups, nil
}

func (m *mockSecurityGroups) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempted = append(m.attempted, groupID)
	return m.deleteErr[groupID]
}

func samplesOf(values ...float64) []awsmetrics.Sample {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]awsmetrics.Sample, len(values))
	for i, v := range values {
		out[i] = awsmetrics.Sample{Timestamp: base.Add(time.Duration(i) * time.Hour), Average: v}
	}
	return out
}
