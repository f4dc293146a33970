package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

var (
	MediaClient     *s3.Client
	MediaBucketName string
	MediaEndpoint   string
	MediaPublicBase string
)

// InitMedia initializes the S3-compatible client that stores profile and
// header images, using static credentials and a custom endpoint.
func InitMedia(accessKey, secretKey, accountID, bucketName, region, publicBaseURL string) error {
	MediaBucketName = bucketName
	MediaEndpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	MediaPublicBase = strings.TrimSuffix(publicBaseURL, "/")

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	MediaClient = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(MediaEndpoint)
		o.UsePathStyle = true
	})

	log.Info().Msg("Successfully initialized media storage client")

	return nil
}

// PresignedPutURL creates a presigned URL for uploading an image.
func PresignedPutURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(MediaClient)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(MediaBucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignedGetURL creates a presigned URL for downloading an image.
func PresignedGetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(MediaClient)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(MediaBucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// MediaObjectExists checks whether the given object key exists in the bucket.
func MediaObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := MediaClient.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(MediaBucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if errors.As(err, &nsk) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MediaPublicURL is the stable URL a stored object is served from.
func MediaPublicURL(key string) string {
	return fmt.Sprintf("%s/%s", MediaPublicBase, key)
}
