package ebs

import "time"

// Snapshot is an EBS snapshot. VolumeID is empty when the snapshot carries no
// source volume reference.
type Snapshot struct {
	ID        string
	VolumeID  string
	StartTime time.Time
	SizeGB    int32
}

type Attachment struct {
	InstanceID string
}

type Volume struct {
	ID          string
	State       string
	Attachments []Attachment
}

// VolumeLookup is the outcome of resolving a snapshot's volume reference.
// Found is false when the provider reports the volume does not exist.
type VolumeLookup struct {
	Found  bool
	Volume Volume
}

// Attached reports whether the looked-up volume exists and has at least
// one attachment.
func (l VolumeLookup) Attached() bool {
	return l.Found && len(l.Volume.Attachments) > 0
}
