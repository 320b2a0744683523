package host

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"depthview/config"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads every frame as its own object.
type S3Sink struct {
	client  s3API
	bucket  string
	prefix  string
	version string
}

// NewS3Sink builds the client from static credentials when both keys are
// set and from the default chain otherwise.
func NewS3Sink(ctx context.Context, cfg config.S3Config, version string) (*S3Sink, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return newS3Sink(client, cfg, version), nil
}

func newS3Sink(client s3API, cfg config.S3Config, version string) *S3Sink {
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, version: version}
}

func (s *S3Sink) Name() string { return "s3" }

// Key partitions frames by UTC date.
func (s *S3Sink) Key(frame Frame) string {
	name := fmt.Sprintf("%06d-%s.png", frame.Sequence, frame.ID)
	return path.Join(s.prefix, "date="+frame.Time.UTC().Format("2006-01-02"), name)
}

func (s *S3Sink) Write(ctx context.Context, frame Frame) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(frame)),
		Body:        bytes.NewReader(frame.PNG),
		ContentType: aws.String("image/png"),
		Metadata: map[string]string{
			"frame-id":          frame.ID,
			"depth-drawn":       strconv.FormatBool(frame.Result.Depth.Drawn),
			"label":             frame.Result.Label.Text,
			"depthview-version": s.version,
		},
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload frame %d: %w", frame.Sequence, err)
	}
	return nil
}

func (s *S3Sink) Close() error { return nil }
