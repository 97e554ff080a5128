package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot deletion reasons.
const (
	ReasonNoVolume         = "no-volume"
	ReasonVolumeUnattached = "volume-unattached"
	ReasonVolumeNotFound   = "volume-not-found"
)

// Steps named in failures.
const (
	StepSnapshots      = "snapshots"
	StepInstances      = "instances"
	StepSecurityGroups = "security-groups"
)

type DeletedSnapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	VolumeID   string    `json:"volume_id,omitempty"`
	SizeGB     int32     `json:"size_gb"`
	StartedAt  time.Time `json:"started_at"`
	Reason     string    `json:"reason"`
}

type StoppedInstance struct {
	InstanceID    string  `json:"instance_id"`
	Samples       int     `json:"samples"`
	LowPercentage float64 `json:"low_percentage"`
}

// Failure records one provider call that failed without aborting the run.
type Failure struct {
	Step       string `json:"step"`
	ResourceID string `json:"resource_id,omitempty"`
	Kind       string `json:"kind"`
	Error      string `json:"error"`
}

// RegionReport is everything decided and done in a single region.
type RegionReport struct {
	Region string `json:"region"`

	DeletedSnapshots  []DeletedSnapshot `json:"deleted_snapshots,omitempty"`
	RetainedSnapshots int               `json:"retained_snapshots"`

	EvaluatedInstances int               `json:"evaluated_instances"`
	NoDataInstances    []string          `json:"no_data_instances,omitempty"`
	StoppedInstances   []StoppedInstance `json:"stopped_instances,omitempty"`

	DeletedSecurityGroups []string `json:"deleted_security_groups,omitempty"`

	Failures []Failure `json:"failures,omitempty"`
}

// AddFailure appends a failure for step.
func (r *RegionReport) AddFailure(step, resourceID, kind string, err error) {
	r.Failures = append(r.Failures, Failure{
		Step:       step,
		ResourceID: resourceID,
		Kind:       kind,
		Error:      err.Error(),
	})
}

// Summary is the outcome of one run across all regions.
type Summary struct {
	AccountID  string         `json:"account_id,omitempty"`
	DryRun     bool           `json:"dry_run"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Regions    []RegionReport `json:"regions"`
}

type Totals struct {
	Regions               int
	DeletedSnapshots      int
	DeletedSnapshotGB     int64
	RetainedSnapshots     int
	EvaluatedInstances    int
	StoppedInstances      int
	DeletedSecurityGroups int
	Failures              int
}

func (s *Summary) Totals() Totals {
	t := Totals{Regions: len(s.Regions)}
	for _, r := range s.Regions {
		t.DeletedSnapshots += len(r.DeletedSnapshots)
		for _, snap := range r.DeletedSnapshots {
			t.DeletedSnapshotGB += int64(snap.SizeGB)
		}
		t.RetainedSnapshots += r.RetainedSnapshots
		t.EvaluatedInstances += r.EvaluatedInstances
		t.StoppedInstances += len(r.StoppedInstances)
		t.DeletedSecurityGroups += len(r.DeletedSecurityGroups)
		t.Failures += len(r.Failures)
	}
	return t
}

// ObjectKey returns the key a summary is stored under for the given prefix.
func (s *Summary) ObjectKey(prefix string) string {
	return fmt.Sprintf("%s%s.json", prefix, s.StartedAt.UTC().Format("20060102T150405Z"))
}

func (s *Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
