package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type EC2API interface {
	DescribeRegions(ctx context.Context, params *awsec2.DescribeRegionsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeRegionsOutput, error)
	DescribeInstances(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error)
	StopInstances(ctx context.Context, params *awsec2.StopInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.StopInstancesOutput, error)
}

type Client struct {
	api EC2API
}

func NewClient(api EC2API) *Client {
	return &Client{api: api}
}

// ListRegions returns every region known to the provider, including regions
// the account has not opted into.
func (c *Client) ListRegions(ctx context.Context) ([]string, error) {
	out, err := c.api.DescribeRegions(ctx, &awsec2.DescribeRegionsInput{
		AllRegions: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("DescribeRegions: %w", err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if name := aws.ToString(r.RegionName); name != "" {
			regions = append(regions, name)
		}
	}
	return regions, nil
}

// ListInstances returns instances in the client's region. When states is
// non-empty only instances in one of those states are returned.
func (c *Client) ListInstances(ctx context.Context, states ...string) ([]Instance, error) {
	var instances []Instance
	var nextToken *string

	var filters []types.Filter
	if len(states) > 0 {
		filters = []types.Filter{
			{Name: aws.String("instance-state-name"), Values: states},
		}
	}

	for {
		out, err := c.api.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{
			Filters:   filters,
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances: %w", err)
		}

		for _, reservation := range out.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toInstance(inst))
			}
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return instances, nil
}

// StopInstance requests a stop and returns without waiting for the
// instance to reach the stopped state.
func (c *Client) StopInstance(ctx context.Context, instanceID string) error {
	_, err := c.api.StopInstances(ctx, &awsec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("StopInstances: %w", err)
	}
	return nil
}

func toInstance(inst types.Instance) Instance {
	var tags map[string]string
	if len(inst.Tags) > 0 {
		tags = make(map[string]string, len(inst.Tags))
		for _, tag := range inst.Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
	}

	var groupIDs []string
	for _, sg := range inst.SecurityGroups {
		if id := aws.ToString(sg.GroupId); id != "" {
			groupIDs = append(groupIDs, id)
		}
	}

	state := ""
	if inst.State != nil {
		state = string(inst.State.Name)
	}

	return Instance{
		ID:               aws.ToString(inst.InstanceId),
		State:            state,
		Tags:             tags,
		SecurityGroupIDs: groupIDs,
	}
}
