package ebs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"tasnim.dev/aws-reaper/internal/aws/awserr"
)

const (
	codeVolumeNotFound   = "InvalidVolume.NotFound"
	codeSnapshotNotFound = "InvalidSnapshot.NotFound"
)

// EBSAPI is the subset of the EC2 API covering snapshots and volumes.
type EBSAPI interface {
	DescribeSnapshots(ctx context.Context, params *awsec2.DescribeSnapshotsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeSnapshotsOutput, error)
	DescribeVolumes(ctx context.Context, params *awsec2.DescribeVolumesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeVolumesOutput, error)
	DeleteSnapshot(ctx context.Context, params *awsec2.DeleteSnapshotInput, optFns ...func(*awsec2.Options)) (*awsec2.DeleteSnapshotOutput, error)
}

// ErrVolumeMissing means DescribeVolumes succeeded but did not return the
// requested volume. The volume's existence is unknown.
var ErrVolumeMissing = errors.New("volume missing from DescribeVolumes response")

type Client struct {
	api EBSAPI
}

func NewClient(api EBSAPI) *Client {
	return &Client{api: api}
}

// ListSnapshots returns the snapshots owned by the given owners ("self" for
// the calling account).
func (c *Client) ListSnapshots(ctx context.Context, owners ...string) ([]Snapshot, error) {
	var snapshots []Snapshot
	var nextToken *string

	for {
		out, err := c.api.DescribeSnapshots(ctx, &awsec2.DescribeSnapshotsInput{
			OwnerIds:  owners,
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("DescribeSnapshots: %w", err)
		}

		for _, s := range out.Snapshots {
			snap := Snapshot{
				ID:       aws.ToString(s.SnapshotId),
				VolumeID: aws.ToString(s.VolumeId),
				SizeGB:   aws.ToInt32(s.VolumeSize),
			}
			if s.StartTime != nil {
				snap.StartTime = *s.StartTime
			}
			snapshots = append(snapshots, snap)
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return snapshots, nil
}

// LookupVolume resolves a volume by ID. Only the provider's "volume not
// found" error yields a lookup with Found=false and a nil error. A response
// that omits the volume returns ErrVolumeMissing.
func (c *Client) LookupVolume(ctx context.Context, volumeID string) (VolumeLookup, error) {
	out, err := c.api.DescribeVolumes(ctx, &awsec2.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	})
	if err != nil {
		if awserr.IsCode(err, codeVolumeNotFound) {
			return VolumeLookup{}, nil
		}
		return VolumeLookup{}, fmt.Errorf("DescribeVolumes: %w", err)
	}

	for _, v := range out.Volumes {
		if aws.ToString(v.VolumeId) != volumeID {
			continue
		}
		vol := Volume{
			ID:    volumeID,
			State: string(v.State),
		}
		for _, a := range v.Attachments {
			vol.Attachments = append(vol.Attachments, Attachment{
				InstanceID: aws.ToString(a.InstanceId),
			})
		}
		return VolumeLookup{Found: true, Volume: vol}, nil
	}

	return VolumeLookup{}, fmt.Errorf("DescribeVolumes(%s): %w", volumeID, ErrVolumeMissing)
}

// DeleteSnapshot deletes a snapshot. Deleting a snapshot that no longer
// exists is not an error.
func (c *Client) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	_, err := c.api.DeleteSnapshot(ctx, &awsec2.DeleteSnapshotInput{
		SnapshotId: aws.String(snapshotID),
	})
	if err != nil {
		if awserr.IsCode(err, codeSnapshotNotFound) {
			return nil
		}
		return fmt.Errorf("DeleteSnapshot: %w", err)
	}
	return nil
}
