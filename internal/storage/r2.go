package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

type R2Store struct {
	c         *s3.Client
	bucket    *string
	publicURL string
}

func NewR2() (*R2Store, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("cloudflare.access_key_id"),
			viper.GetString("cloudflare.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("cloudflare.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("cloudflare.account_id")))
		o.Region = "auto"
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", viper.GetString("cloudflare.bucket"))
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &R2Store{
		c:         client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(viper.GetString("cloudflare.public_url"), "/"),
	}, nil
}

func (r *R2Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := r.c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        r.bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to R2, %w", err)
	}

	return nil
}

func (r *R2Store) Delete(ctx context.Context, key string) error {
	_, err := r.c.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: r.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from R2, %w", err)
	}

	return nil
}

func (r *R2Store) URL(key string) string {
	return r.publicURL + "/" + key
}
