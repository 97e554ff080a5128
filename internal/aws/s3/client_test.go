package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3API struct {
	getBucketLocationFunc func(ctx context.Context, params *awss3.GetBucketLocationInput, optFns ...func(*awss3.Options)) (*awss3.GetBucketLocationOutput, error)
	putObjectFunc         func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

func (m *mockS3API) GetBucketLocation(ctx context.Context, params *awss3.GetBucketLocationInput, optFns ...func(*awss3.Options)) (*awss3.GetBucketLocationOutput, error) {
	return m.getBucketLocationFunc(ctx, params, optFns...)
}

func (m *mockS3API) PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	return m.putObjectFunc(ctx, params, optFns...)
}

func TestBucketRegion(t *testing.T) {
	tests := []struct {
		name       string
		constraint s3types.BucketLocationConstraint
		want       string
	}{
		{name: "us-east-1 is empty", constraint: "", want: "us-east-1"},
		{name: "explicit region", constraint: s3types.BucketLocationConstraintEuWest1, want: "eu-west-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockS3API{
				getBucketLocationFunc: func(ctx context.Context, params *awss3.GetBucketLocationInput, optFns ...func(*awss3.Options)) (*awss3.GetBucketLocationOutput, error) {
					return &awss3.GetBucketLocationOutput{LocationConstraint: tt.constraint}, nil
				},
			}
			region, err := NewClient(mock).BucketRegion(context.Background(), "reports")
			require.NoError(t, err)
			assert.Equal(t, tt.want, region)
		})
	}
}

func TestPutJSON(t *testing.T) {
	var gotBody string
	var gotRegion string
	mock := &mockS3API{
		getBucketLocationFunc: func(ctx context.Context, params *awss3.GetBucketLocationInput, optFns ...func(*awss3.Options)) (*awss3.GetBucketLocationOutput, error) {
			return &awss3.GetBucketLocationOutput{LocationConstraint: s3types.BucketLocationConstraintEuWest1}, nil
		},
		putObjectFunc: func(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
			assert.Equal(t, "reports", *params.Bucket)
			assert.Equal(t, "runs/1.json", *params.Key)
			assert.Equal(t, "application/json", *params.ContentType)
			data, err := io.ReadAll(params.Body)
			require.NoError(t, err)
			gotBody = string(data)

			var opts awss3.Options
			for _, fn := range optFns {
				fn(&opts)
			}
			gotRegion = opts.Region
			return &awss3.PutObjectOutput{ETag: awssdk.String(`"abc"`)}, nil
		},
	}

	obj, err := NewClient(mock).PutJSON(context.Background(), "reports", "runs/1.json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, gotBody)
	assert.Equal(t, "eu-west-1", gotRegion)
	assert.Equal(t, Object{Bucket: "reports", Key: "runs/1.json", Region: "eu-west-1", ETag: `"abc"`}, obj)
}

func TestPutJSON_LocationError(t *testing.T) {
	mock := &mockS3API{
		getBucketLocationFunc: func(ctx context.Context, params *awss3.GetBucketLocationInput, optFns ...func(*awss3.Options)) (*awss3.GetBucketLocationOutput, error) {
			return nil, errors.New("AccessDenied")
		},
	}

	_, err := NewClient(mock).PutJSON(context.Background(), "reports", "k", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GetBucketLocation(reports)")
}
