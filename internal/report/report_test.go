package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *Summary {
	started := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	east := RegionReport{
		Region: "us-east-1",
		DeletedSnapshots: []DeletedSnapshot{
			{SnapshotID: "snap-1", SizeGB: 8, Reason: ReasonNoVolume},
			{SnapshotID: "snap-2", VolumeID: "vol-2", SizeGB: 100, StartedAt: time.Date(2024, 11, 3, 9, 15, 0, 0, time.UTC), Reason: ReasonVolumeNotFound},
		},
		RetainedSnapshots:     1,
		EvaluatedInstances:    3,
		StoppedInstances:      []StoppedInstance{{InstanceID: "i-1", Samples: 24, LowPercentage: 0}},
		DeletedSecurityGroups: []string{"sg-c"},
	}
	east.AddFailure(StepSecurityGroups, "sg-d", "other", errors.New("DependencyViolation"))

	return &Summary{
		AccountID:  "123456789012",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Regions: []RegionReport{
			east,
			{Region: "ap-south-2"},
		},
	}
}

func TestTotals(t *testing.T) {
	totals := sampleSummary().Totals()
	assert.Equal(t, Totals{
		Regions:               2,
		DeletedSnapshots:      2,
		DeletedSnapshotGB:     108,
		RetainedSnapshots:     1,
		EvaluatedInstances:    3,
		StoppedInstances:      1,
		DeletedSecurityGroups: 1,
		Failures:              1,
	}, totals)
}

func TestAddFailure(t *testing.T) {
	var r RegionReport
	r.AddFailure(StepSnapshots, "snap-9", "throttled", errors.New("slow down"))
	require.Len(t, r.Failures, 1)
	assert.Equal(t, Failure{Step: "snapshots", ResourceID: "snap-9", Kind: "throttled", Error: "slow down"}, r.Failures[0])
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "runs/20250601T083000Z.json", sampleSummary().ObjectKey("runs/"))
}

func TestJSON(t *testing.T) {
	data, err := sampleSummary().JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "123456789012", decoded["account_id"])
	regions := decoded["regions"].([]any)
	require.Len(t, regions, 2)
	east := regions[0].(map[string]any)
	assert.Equal(t, "us-east-1", east["region"])
	assert.Len(t, east["deleted_snapshots"], 2)
}

func TestRender(t *testing.T) {
	s := sampleSummary()
	s.DryRun = true

	var buf bytes.Buffer
	Render(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "123456789012")
	assert.Contains(t, out, "dry run")
	assert.Contains(t, out, "us-east-1")
	assert.NotContains(t, out, "ap-south-2")
	// go-pretty upper-cases footers by default.
	assert.Contains(t, strings.ToUpper(out), "2 REGIONS")
	assert.Contains(t, out, "sg-d")
	assert.Contains(t, out, "DependencyViolation")
	assert.Contains(t, out, "would be released: 108 GiB")
}

func TestRenderDetails(t *testing.T) {
	s := sampleSummary()
	s.Regions[0].NoDataInstances = []string{"i-quiet"}

	var buf bytes.Buffer
	RenderDetails(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "us-east-1 · 3 deleted · 1 stopped · 1 failed")
	assert.NotContains(t, out, "ap-south-2")
	assert.Contains(t, out, "snap-2")
	assert.Contains(t, out, "100 GiB")
	assert.Contains(t, out, "taken 2024-11-03 09:15")
	assert.Contains(t, out, "taken -")
	assert.Contains(t, out, ReasonVolumeNotFound)
	assert.Contains(t, out, "i-1")
	assert.Contains(t, out, "0.00%")
	assert.Contains(t, out, "i-quiet")
	assert.Contains(t, out, "sg-c")
	assert.Contains(t, out, "DependencyViolation")
	assert.NotContains(t, out, "would-delete")
}

func TestRenderDetails_DryRun(t *testing.T) {
	s := sampleSummary()
	s.DryRun = true

	var buf bytes.Buffer
	RenderDetails(&buf, s)

	assert.Contains(t, buf.String(), "would-delete")
	assert.Contains(t, buf.String(), "would-stop")
}
