package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/NogikuchiKBYS/CUDAPathTracer/log"
	"github.com/NogikuchiKBYS/CUDAPathTracer/renderer"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Maximum time allowed for a single upload.
const UploadTimeout = 30 * time.Second

// Connection settings for an S3-compatible object store.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Read the S3 settings from the S3_ENDPOINT, S3_REGION, S3_BUCKET,
// S3_ACCESS_KEY and S3_SECRET_KEY environment variables.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    os.Getenv("S3_REGION"),
		Bucket:    os.Getenv("S3_BUCKET"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
}

// Check that the settings required for uploading are present.
func (c S3Config) Validate() error {
	if c.Bucket == "" || c.Region == "" {
		return fmt.Errorf("%w: bucket and region are required", ErrMissingS3Config)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("%w: access and secret keys must be set together", ErrMissingS3Config)
	}
	return nil
}

// Uploads rendered images to an S3 bucket.
type S3Uploader struct {
	logger log.Logger
	client s3iface.S3API
	bucket string
}

// Create an uploader for the given settings. Static credentials are used if
// provided; otherwise the default aws credential chain applies.
func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("output: could not create S3 session: %w", err)
	}

	return NewS3UploaderWithClient(s3.New(sess), cfg.Bucket), nil
}

// Create an uploader on top of an existing S3 client.
func NewS3UploaderWithClient(client s3iface.S3API, bucket string) *S3Uploader {
	return &S3Uploader{
		logger: log.New("s3 uploader"),
		client: client,
		bucket: bucket,
	}
}

// Upload data under key. The upload is aborted after UploadTimeout.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("output: failed to upload %s: %w", key, err)
	}

	u.logger.Infof("uploaded %s to bucket %s (%d bytes)", key, u.bucket, size)
	return nil
}

// Encode the frame in the format selected by the key extension and upload it.
func (u *S3Uploader) UploadFrame(ctx context.Context, key string, frame *renderer.Frame) error {
	contentType, err := ContentType(key)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = Encode(&buf, key, frame); err != nil {
		return err
	}
	return u.Upload(ctx, key, buf.Bytes(), contentType)
}
