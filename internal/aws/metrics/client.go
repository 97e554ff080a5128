package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	ec2Namespace      = "AWS/EC2"
	cpuMetricName     = "CPUUtilization"
	instanceDimension = "InstanceId"
)

// CloudWatchAPI defines the subset of the CloudWatch API we use.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// Client wraps the CloudWatch API.
type Client struct {
	api CloudWatchAPI
	now func() time.Time
}

// NewClient creates a new metrics client.
func NewClient(api CloudWatchAPI) *Client {
	return &Client{api: api, now: time.Now}
}

// CPUUtilization returns Average CPU samples at the given period for an instance
// over the window ending now, ordered by timestamp.
func (c *Client) CPUUtilization(ctx context.Context, instanceID string, window, period time.Duration) ([]Sample, error) {
	end := c.now()
	start := end.Add(-window)

	out, err := c.api.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(ec2Namespace),
		MetricName: aws.String(cpuMetricName),
		Dimensions: []types.Dimension{
			{Name: aws.String(instanceDimension), Value: aws.String(instanceID)},
		},
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(int32(period / time.Second)),
		Statistics: []types.Statistic{types.StatisticAverage},
	})
	if err != nil {
		return nil, fmt.Errorf("GetMetricStatistics: %w", err)
	}

	samples := make([]Sample, 0, len(out.Datapoints))
	for _, dp := range out.Datapoints {
		if dp.Average == nil {
			continue
		}
		samples = append(samples, Sample{
			Timestamp: aws.ToTime(dp.Timestamp),
			Average:   aws.ToFloat64(dp.Average),
		})
	}

	// CloudWatch does not order datapoints.
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	return samples, nil
}
