package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3API interface {
	GetBucketLocation(ctx context.Context, params *awss3.GetBucketLocationInput, optFns ...func(*awss3.Options)) (*awss3.GetBucketLocationOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

type Client struct {
	api S3API
}

func NewClient(api S3API) *Client {
	return &Client{api: api}
}

// BucketRegion returns the region a bucket lives in.
func (c *Client) BucketRegion(ctx context.Context, bucket string) (string, error) {
	out, err := c.api.GetBucketLocation(ctx, &awss3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return "", fmt.Errorf("GetBucketLocation(%s): %w", bucket, err)
	}

	region := string(out.LocationConstraint)
	if region == "" {
		region = "us-east-1"
	}
	return region, nil
}

// PutJSON uploads body as a JSON object, addressing the bucket in its own
// region.
func (c *Client) PutJSON(ctx context.Context, bucket, key string, body []byte) (Object, error) {
	region, err := c.BucketRegion(ctx, bucket)
	if err != nil {
		return Object{}, err
	}

	out, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}, func(o *awss3.Options) {
		o.Region = region
	})
	if err != nil {
		return Object{}, fmt.Errorf("PutObject(%s/%s): %w", bucket, key, err)
	}

	return Object{
		Bucket: bucket,
		Key:    key,
		Region: region,
		ETag:   aws.ToString(out.ETag),
	}, nil
}
