package objectstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAWS(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	origList := listObjects
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
		listObjects = origList
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "eu-central-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" || !opts.UsePathStyle {
			t.Fatalf("endpoint options not applied: %+v", opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func newTestStore(t *testing.T) *S3Store {
	t.Helper()
	stubAWS(t)
	s, err := NewS3Store(context.Background(), Config{
		Endpoint: "http://127.0.0.1:9000", Region: "eu-central-1",
		AccessKey: "minio", SecretKey: "minio123", Bucket: "flats",
	})
	require.NoError(t, err)
	return s
}

func TestNewS3Store_LoadError(t *testing.T) {
	stubAWS(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}

	_, err := NewS3Store(context.Background(), Config{Region: "eu-central-1"})
	assert.ErrorContains(t, err, "no creds")
}

func TestPresign(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, 15*time.Minute, s.ttl)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "flats", aws.ToString(in.Bucket))
		return &v4.PresignedHTTPRequest{URL: "https://put/" + aws.ToString(in.Key)}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("denied")
	}

	url, err := s.PresignPut(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "https://put/k1", url)

	_, err = s.PresignGet(context.Background(), "k1")
	assert.ErrorContains(t, err, "denied")
}

func TestList_FollowsContinuation(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	listObjects = func(c *s3.Client, ctx context.Context, in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
		calls++
		assert.Equal(t, "flats/f1/photos/", aws.ToString(in.Prefix))
		if calls == 1 {
			assert.Nil(t, in.ContinuationToken)
			return &s3.ListObjectsV2Output{
				Contents:              []types.Object{{Key: aws.String("a")}},
				IsTruncated:           aws.Bool(true),
				NextContinuationToken: aws.String("next"),
			}, nil
		}
		assert.Equal(t, "next", aws.ToString(in.ContinuationToken))
		return &s3.ListObjectsV2Output{Contents: []types.Object{{Key: aws.String("b")}}}, nil
	}

	keys, err := s.List(context.Background(), PhotoPrefix("f1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, 2, calls)
}

func TestNewPhotoKey(t *testing.T) {
	k1 := NewPhotoKey("f1")
	k2 := NewPhotoKey("f1")
	assert.True(t, strings.HasPrefix(k1, "flats/f1/photos/"))
	assert.NotEqual(t, k1, k2)
}
