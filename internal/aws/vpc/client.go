package vpc

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type VPCAPI interface {
	DescribeSecurityGroups(ctx context.Context, params *awsec2.DescribeSecurityGroupsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeSecurityGroupsOutput, error)
	DeleteSecurityGroup(ctx context.Context, params *awsec2.DeleteSecurityGroupInput, optFns ...func(*awsec2.Options)) (*awsec2.DeleteSecurityGroupOutput, error)
}

type Client struct {
	api VPCAPI
}

func NewClient(api VPCAPI) *Client {
	return &Client{api: api}
}

// ListSecurityGroups returns every security group in the client's region.
// A group reported without a name is treated as the default group.
func (c *Client) ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error) {
	var sgs []SecurityGroup
	var nextToken *string

	for {
		out, err := c.api.DescribeSecurityGroups(ctx, &awsec2.DescribeSecurityGroupsInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("DescribeSecurityGroups: %w", err)
		}

		for _, sg := range out.SecurityGroups {
			sgs = append(sgs, toSecurityGroup(sg))
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return sgs, nil
}

func (c *Client) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	_, err := c.api.DeleteSecurityGroup(ctx, &awsec2.DeleteSecurityGroupInput{
		GroupId: aws.String(groupID),
	})
	if err != nil {
		return fmt.Errorf("DeleteSecurityGroup: %w", err)
	}
	return nil
}

func toSecurityGroup(sg types.SecurityGroup) SecurityGroup {
	name := DefaultGroupName
	if sg.GroupName != nil {
		name = aws.ToString(sg.GroupName)
	}
	return SecurityGroup{
		GroupID: aws.ToString(sg.GroupId),
		Name:    name,
		VPCID:   aws.ToString(sg.VpcId),
	}
}
