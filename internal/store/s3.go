package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/source"
)

const (
	defaultRegion = "us-east-1"
	defaultPrefix = "snapshots"

	metaNote      = "note"
	metaCreatedAt = "created-at"
)

// objectAPI is the subset of the S3 client the backend calls.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3 keeps snapshots as JSON objects in an S3-compatible bucket. Snapshot
// ids are "<project>/<uuid>" and objects live at "<prefix>/<id>.json".
type S3 struct {
	client objectAPI
	bucket string
	prefix string
	opts   options
}

// NewS3 builds an S3 backend from the snapshot settings in cfg.
func NewS3(ctx context.Context, cfg config.Config, opts ...Option) (*S3, error) {
	sc := cfg.Snapshot.S3
	if sc.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	accessKey, secretKey := config.GetS3Credentials(cfg)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("s3 access key and secret key are required")
	}

	region := sc.Region
	if region == "" {
		region = defaultRegion
	}
	endpoint := sc.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = sc.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := newS3(client, sc.Bucket, sc.Prefix, opts...)
	s.opts.logger.Debug("s3 snapshot store ready",
		zap.String("bucket", sc.Bucket),
		zap.String("region", region),
		zap.String("endpoint", endpoint),
	)
	return s, nil
}

func newS3(client objectAPI, bucket, prefix string, opts ...Option) *S3 {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &S3{client: client, bucket: bucket, prefix: prefix, opts: buildOptions(opts)}
}

// Close implements Snapshots.
func (s *S3) Close() error { return nil }

func (s *S3) key(id string) string {
	return path.Join(s.prefix, id) + ".json"
}

// Save implements Snapshots.
func (s *S3) Save(ctx context.Context, projectID string, doc model.Document, note string) (Metadata, error) {
	if projectID == "" || strings.Contains(projectID, "/") {
		return Metadata{}, fmt.Errorf("invalid project id %q", projectID)
	}
	var buf bytes.Buffer
	if err := source.Encode(&buf, doc); err != nil {
		return Metadata{}, fmt.Errorf("encoding snapshot: %w", err)
	}

	m := Metadata{
		ID:        projectID + "/" + uuid.NewString(),
		ProjectID: projectID,
		CreatedAt: s.opts.now().UTC(),
		Note:      note,
		Size:      int64(buf.Len()),
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(m.ID)),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(m.Size),
		ContentType:   aws.String("application/json"),
		Metadata: map[string]string{
			metaNote:      note,
			metaCreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("uploading snapshot: %w", err)
	}

	s.opts.logger.Info("snapshot uploaded",
		zap.String("bucket", s.bucket),
		zap.String("id", m.ID),
		zap.Int64("bytes", m.Size),
	)
	return m, nil
}

// List implements Snapshots.
func (s *S3) List(ctx context.Context, projectID string) ([]Metadata, error) {
	prefix := path.Join(s.prefix, projectID) + "/"
	var out []Metadata
	var token *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("listing snapshots: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			m, err := s.head(ctx, key)
			if err != nil {
				return nil, err
			}
			m.ProjectID = projectID
			m.Size = aws.ToInt64(obj.Size)
			if m.CreatedAt.IsZero() && obj.LastModified != nil {
				m.CreatedAt = obj.LastModified.UTC()
			}
			out = append(out, m)
		}
		if !aws.ToBool(page.IsTruncated) || page.NextContinuationToken == nil {
			break
		}
		token = page.NextContinuationToken
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *S3) head(ctx context.Context, key string) (Metadata, error) {
	resp, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("reading snapshot metadata: %w", err)
	}
	m := Metadata{
		ID:   strings.TrimSuffix(strings.TrimPrefix(key, s.prefix+"/"), ".json"),
		Note: resp.Metadata[metaNote],
	}
	if v, ok := resp.Metadata[metaCreatedAt]; ok {
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, v)
	}
	return m, nil
}

// Fetch implements Snapshots.
func (s *S3) Fetch(ctx context.Context, id string) (*model.Document, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("downloading snapshot: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	doc, err := source.Decode(bytes.NewReader(data), s.opts.now())
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return &doc, nil
}
