// Package imagestore turns stored card image references into URLs a client
// can fetch, presigning object keys against S3-compatible storage.
package imagestore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Options configures the S3 backend. An empty Bucket disables presigning.
type Options struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

type Store struct {
	opts Options

	mu sync.Mutex
	pc *s3.PresignClient
}

func New(opts Options) *Store {
	return &Store{opts: opts}
}

func (s *Store) Enabled() bool {
	return s.opts.Bucket != ""
}

// Resolve returns a fetchable URL for ref. Absolute http(s) URLs and all
// refs on a disabled store are returned unchanged.
func (s *Store) Resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" || isAbsoluteURL(ref) || !s.Enabled() {
		return ref, nil
	}

	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.opts.Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &ref,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", ref, err)
	}

	return req.URL, nil
}

// UploadURL reserves a fresh object key under cards/ and returns it together
// with a presigned PUT URL. The key is what gets stored on the card.
func (s *Store) UploadURL(ctx context.Context) (string, string, error) {
	if !s.Enabled() {
		return "", "", fmt.Errorf("%w: image storage", common.ErrorNotConfigured)
	}

	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.opts.Bucket
	key := newObjectKey(time.Now())

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", "", fmt.Errorf("presign put: %w", err)
	}

	return key, req.URL, nil
}

// presignClient builds the S3 presign client on first use and reuses it
// afterwards. A failed build is not cached.
func (s *Store) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pc != nil {
		return s.pc, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.User,
			s.opts.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.BaseEndpoint)
			// MinIO and friends serve buckets as paths
			o.UsePathStyle = true
		}
	})

	s.pc = newS3PresignClient(client)
	return s.pc, nil
}

func newObjectKey(d time.Time) string {
	return fmt.Sprintf("cards/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
