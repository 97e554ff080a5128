package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	awss3sdk "github.com/aws/aws-sdk-go-v2/service/s3"

	awsebs "tasnim.dev/aws-reaper/internal/aws/ebs"
	awsec2 "tasnim.dev/aws-reaper/internal/aws/ec2"
	awsmetrics "tasnim.dev/aws-reaper/internal/aws/metrics"
	awss3 "tasnim.dev/aws-reaper/internal/aws/s3"
	awsvpc "tasnim.dev/aws-reaper/internal/aws/vpc"
)

// RegionalClient bundles the service clients scoped to a single region.
type RegionalClient struct {
	Region  string
	EC2     *awsec2.Client
	EBS     *awsebs.Client
	VPC     *awsvpc.Client
	Metrics *awsmetrics.Client
}

// ClientFactory builds region-scoped clients from one base config so that
// credentials and HTTP transport are shared across regions.
type ClientFactory struct {
	cfg aws.Config
}

func NewClientFactory(cfg aws.Config) *ClientFactory {
	return &ClientFactory{cfg: cfg}
}

// Home returns an EC2 client in the base config's region, used for region
// enumeration.
func (f *ClientFactory) Home() *awsec2.Client {
	return awsec2.NewClient(ec2.NewFromConfig(f.cfg))
}

// S3 returns a report upload client.
func (f *ClientFactory) S3() *awss3.Client {
	return awss3.NewClient(awss3sdk.NewFromConfig(f.cfg))
}

// ForRegion returns clients bound to region.
func (f *ClientFactory) ForRegion(region string) *RegionalClient {
	cfg := f.cfg.Copy()
	cfg.Region = region

	ec2Client := ec2.NewFromConfig(cfg)

	return &RegionalClient{
		Region:  region,
		EC2:     awsec2.NewClient(ec2Client),
		EBS:     awsebs.NewClient(ec2Client),
		VPC:     awsvpc.NewClient(ec2Client),
		Metrics: awsmetrics.NewClient(cloudwatch.NewFromConfig(cfg)),
	}
}
