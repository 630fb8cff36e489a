package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignTTL = 15 * time.Minute

var ErrBucketNotConfigured = errors.New("AWS_BUCKET_NAME not set")

type ItfS3 interface {
	UploadJPEG(ctx context.Context, key string, data []byte) (string, error)
	PresignUrl(key string) (string, error)
}

type s3Client struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	bucketName string
}

func New() (ItfS3, error) {
	bucket := os.Getenv("AWS_BUCKET_NAME")
	if bucket == "" {
		return nil, ErrBucketNotConfigured
	}

	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client:     s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		bucketName: bucket,
	}, nil
}

func (s *s3Client) UploadJPEG(ctx context.Context, key string, data []byte) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return out.Location, nil
}

func (s *s3Client) PresignUrl(key string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})

	urlStr, err := req.Presign(presignTTL)
	if err != nil {
		return "", err
	}

	return urlStr, nil
}

func newSession() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	})

	if err != nil {
		return nil, err
	}

	return sess, nil
}
