package ec2

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type mockEC2API struct {
	describeRegionsFunc   func(ctx context.Context, params *awsec2.DescribeRegionsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeRegionsOutput, error)
	describeInstancesFunc func(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error)
	stopInstancesFunc     func(ctx context.Context, params *awsec2.StopInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.StopInstancesOutput, error)
}

func (m *mockEC2API) DescribeRegions(ctx context.Context, params *awsec2.DescribeRegionsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeRegionsOutput, error) {
	return m.describeRegionsFunc(ctx, params, optFns...)
}

func (m *mockEC2API) DescribeInstances(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
	return m.describeInstancesFunc(ctx, params, optFns...)
}

func (m *mockEC2API) StopInstances(ctx context.Context, params *awsec2.StopInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.StopInstancesOutput, error) {
	return m.stopInstancesFunc(ctx, params, optFns...)
}

func TestListRegions(t *testing.T) {
	mock := &mockEC2API{
		describeRegionsFunc: func(ctx context.Context, params *awsec2.DescribeRegionsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeRegionsOutput, error) {
			if !awssdk.ToBool(params.AllRegions) {
				t.Error("expected AllRegions=true")
			}
			return &awsec2.DescribeRegionsOutput{
				Regions: []types.Region{
					{RegionName: awssdk.String("us-east-1")},
					{RegionName: awssdk.String("eu-west-1")},
					{RegionName: nil},
				},
			}, nil
		},
	}

	regions, err := NewClient(mock).ListRegions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions) != 2 || regions[0] != "us-east-1" || regions[1] != "eu-west-1" {
		t.Errorf("regions = %v, want [us-east-1 eu-west-1]", regions)
	}
}

func TestListRegions_Error(t *testing.T) {
	mock := &mockEC2API{
		describeRegionsFunc: func(ctx context.Context, params *awsec2.DescribeRegionsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeRegionsOutput, error) {
			return nil, errors.New("no credentials")
		},
	}

	_, err := NewClient(mock).ListRegions(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestListInstances(t *testing.T) {
	mock := &mockEC2API{
		describeInstancesFunc: func(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
			if len(params.Filters) != 1 || awssdk.ToString(params.Filters[0].Name) != "instance-state-name" {
				t.Errorf("unexpected filters: %+v", params.Filters)
			}
			return &awsec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{{
					Instances: []types.Instance{
						{
							InstanceId: awssdk.String("i-abc123"),
							State:      &types.InstanceState{Name: types.InstanceStateNameRunning},
							Tags: []types.Tag{
								{Key: awssdk.String("Name"), Value: awssdk.String("web-server")},
								{Key: awssdk.String("Environment"), Value: awssdk.String("dev")},
							},
							SecurityGroups: []types.GroupIdentifier{
								{GroupId: awssdk.String("sg-111"), GroupName: awssdk.String("web-sg")},
								{GroupId: awssdk.String("sg-222"), GroupName: awssdk.String("ssh-sg")},
							},
						},
						{
							InstanceId: awssdk.String("i-def456"),
							State:      &types.InstanceState{Name: types.InstanceStateNameRunning},
						},
					},
				}},
			}, nil
		},
	}

	instances, err := NewClient(mock).ListInstances(context.Background(), "running")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}

	inst := instances[0]
	if inst.ID != "i-abc123" {
		t.Errorf("ID = %s, want i-abc123", inst.ID)
	}
	if inst.State != "running" {
		t.Errorf("State = %s, want running", inst.State)
	}
	if inst.Tags["Environment"] != "dev" {
		t.Errorf("Tags[Environment] = %s, want dev", inst.Tags["Environment"])
	}
	if len(inst.SecurityGroupIDs) != 2 || inst.SecurityGroupIDs[1] != "sg-222" {
		t.Errorf("SecurityGroupIDs = %v, want [sg-111 sg-222]", inst.SecurityGroupIDs)
	}
	if instances[1].Tags != nil {
		t.Errorf("expected nil tags for untagged instance, got %v", instances[1].Tags)
	}
}

func TestListInstances_NoStateFilter(t *testing.T) {
	mock := &mockEC2API{
		describeInstancesFunc: func(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
			if len(params.Filters) != 0 {
				t.Errorf("expected no filters, got %+v", params.Filters)
			}
			return &awsec2.DescribeInstancesOutput{}, nil
		},
	}

	instances, err := NewClient(mock).ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("expected 0 instances, got %d", len(instances))
	}
}

func TestListInstances_Pagination(t *testing.T) {
	callCount := 0
	mock := &mockEC2API{
		describeInstancesFunc: func(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
			callCount++
			if callCount == 1 {
				return &awsec2.DescribeInstancesOutput{
					Reservations: []types.Reservation{{Instances: []types.Instance{{
						InstanceId: awssdk.String("i-page1"),
						State:      &types.InstanceState{Name: types.InstanceStateNameRunning},
					}}}},
					NextToken: awssdk.String("token2"),
				}, nil
			}
			if awssdk.ToString(params.NextToken) != "token2" {
				t.Errorf("NextToken = %s, want token2", awssdk.ToString(params.NextToken))
			}
			return &awsec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{{Instances: []types.Instance{{
					InstanceId: awssdk.String("i-page2"),
					State:      &types.InstanceState{Name: types.InstanceStateNameStopped},
				}}}},
			}, nil
		},
	}

	instances, err := NewClient(mock).ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if callCount != 2 {
		t.Errorf("expected 2 API calls, got %d", callCount)
	}
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}
	if instances[1].State != "stopped" {
		t.Errorf("State = %s, want stopped", instances[1].State)
	}
}

func TestStopInstance(t *testing.T) {
	var got []string
	mock := &mockEC2API{
		stopInstancesFunc: func(ctx context.Context, params *awsec2.StopInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.StopInstancesOutput, error) {
			got = params.InstanceIds
			return &awsec2.StopInstancesOutput{}, nil
		},
	}

	if err := NewClient(mock).StopInstance(context.Background(), "i-abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "i-abc123" {
		t.Errorf("InstanceIds = %v, want [i-abc123]", got)
	}
}

func TestStopInstance_Error(t *testing.T) {
	mock := &mockEC2API{
		stopInstancesFunc: func(ctx context.Context, params *awsec2.StopInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.StopInstancesOutput, error) {
			return nil, errors.New("IncorrectInstanceState")
		},
	}

	err := NewClient(mock).StopInstance(context.Background(), "i-abc123")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestInstanceHasTag(t *testing.T) {
	inst := Instance{Tags: map[string]string{"Environment": "staging"}}
	if !inst.HasTag("Environment", []string{"staging", "dev"}) {
		t.Error("expected staging to match")
	}
	if inst.HasTag("Environment", []string{"prod"}) {
		t.Error("expected prod not to match")
	}
	if (Instance{}).HasTag("Environment", []string{"dev"}) {
		t.Error("expected untagged instance not to match")
	}
}
