package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

const (
	allUsersURI           = "http://acs.amazonaws.com/groups/global/AllUsers"
	authenticatedUsersURI = "http://acs.amazonaws.com/groups/global/AuthenticatedUsers"
)

// Options configures the client a Store builds on Connect. Region and
// Endpoint from the connect credentials take precedence.
type Options struct {
	Region         string
	Endpoint       string
	ForcePathStyle bool
}

// Store implements remote.Store on Amazon S3 and S3 compatible services
type Store struct {
	opts Options

	mu     sync.RWMutex
	client *s3.Client
	region string
}

var _ remote.Store = (*Store)(nil)

// New creates a disconnected S3 store
func New(opts Options) *Store {
	return &Store{opts: opts}
}

// NewWithClient creates a store already connected through client
func NewWithClient(client *s3.Client, region string) *Store {
	return &Store{client: client, region: region}
}

// Connect implements remote.Store by building an SDK client. Static keys are
// used when given; otherwise the SDK's default credential chain applies.
func (s *Store) Connect(ctx context.Context, creds remote.Credentials) error {
	region := s.opts.Region
	if creds.Region != "" {
		region = creds.Region
	}
	endpoint := s.opts.Endpoint
	if creds.Endpoint != "" {
		endpoint = creds.Endpoint
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	if creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if s.opts.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	s.mu.Lock()
	s.client = client
	s.region = region
	s.mu.Unlock()
	return nil
}

// Disconnect implements remote.Store
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = nil
	return nil
}

// Connected implements remote.Store
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

func (s *Store) get() (*s3.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, remote.ErrNotConnected
	}
	return s.client, nil
}

// Find implements remote.Store. The canned ACL is derived from the object's
// grants when the service exposes them.
func (s *Store) Find(ctx context.Context, bucket, key string) (remote.ObjectInfo, error) {
	client, err := s.get()
	if err != nil {
		return remote.ObjectInfo{}, err
	}

	resp, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return remote.ObjectInfo{}, mapS3Error(err)
	}

	info := remote.ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        aws.ToInt64(resp.ContentLength),
		ContentType: aws.ToString(resp.ContentType),
		ETag:        strings.Trim(aws.ToString(resp.ETag), `"`),
		Modified:    aws.ToTime(resp.LastModified),
	}

	acl, err := client.GetObjectAcl(ctx, &s3.GetObjectAclInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		info.ACL = cannedACL(acl.Grants)
	}
	return info, nil
}

// cannedACL reduces a grant list to the canned ACL it corresponds to
func cannedACL(grants []types.Grant) string {
	var allRead, allWrite, authRead bool
	for _, g := range grants {
		if g.Grantee == nil || g.Grantee.Type != types.TypeGroup {
			continue
		}
		switch aws.ToString(g.Grantee.URI) {
		case allUsersURI:
			switch g.Permission {
			case types.PermissionRead:
				allRead = true
			case types.PermissionWrite:
				allWrite = true
			case types.PermissionFullControl:
				allRead, allWrite = true, true
			}
		case authenticatedUsersURI:
			if g.Permission == types.PermissionRead || g.Permission == types.PermissionFullControl {
				authRead = true
			}
		}
	}

	switch {
	case allRead && allWrite:
		return "public-read-write"
	case allRead:
		return "public-read"
	case authRead:
		return "authenticated-read"
	default:
		return "private"
	}
}

// Get implements remote.Store
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error(err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Put implements remote.Store
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:            aws.String(bucket),
		Key:               aws.String(key),
		Body:              bytes.NewReader(data),
		ContentLength:     aws.Int64(int64(len(data))),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return mapS3Error(err)
	}
	return nil
}

// Delete implements remote.Store
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return mapS3Error(err)
}

// Copy implements remote.Store with the native CopyObject API
func (s *Store) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	// CopySource is "bucket/key"
	_, err = client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(fmt.Sprintf("%s/%s", bucket, srcKey)),
		Key:        aws.String(dstKey),
	})
	return mapS3Error(err)
}

// List implements remote.Store
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]remote.ObjectInfo, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	var out []remote.ObjectInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapS3Error(err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			// Skip folder placeholders
			if strings.HasSuffix(key, "/") {
				continue
			}
			out = append(out, remote.ObjectInfo{
				Bucket:   bucket,
				Key:      key,
				Size:     aws.ToInt64(obj.Size),
				ETag:     strings.Trim(aws.ToString(obj.ETag), `"`),
				Modified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}

// ListBuckets implements remote.Store
func (s *Store) ListBuckets(ctx context.Context) ([]string, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	resp, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, mapS3Error(err)
	}
	names := make([]string, 0, len(resp.Buckets))
	for _, b := range resp.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	sort.Strings(names)
	return names, nil
}

// CreateBucket implements remote.Store. Outside us-east-1 the bucket is
// created in the store's region.
func (s *Store) CreateBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	s.mu.RLock()
	region := s.region
	s.mu.RUnlock()
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	_, err = client.CreateBucket(ctx, input)
	return mapS3Error(err)
}

// DeleteBucket implements remote.Store
func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	_, err = client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)})
	return mapS3Error(err)
}

// mapS3Error maps S3 errors to the classes remote.Store reports
func mapS3Error(err error) error {
	if err == nil {
		return nil
	}

	var nsk *types.NoSuchKey
	var notFound *types.NotFound
	var noBucket *types.NoSuchBucket
	if errors.As(err, &nsk) || errors.As(err, &notFound) || errors.As(err, &noBucket) {
		return fmt.Errorf("%w: %w", ufs.ErrNotExist, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return fmt.Errorf("%w: %w", ufs.ErrPermission, err)
		case "ExpiredToken", "RequestExpired", "TokenRefreshRequired":
			return fmt.Errorf("%w: %w", remote.ErrNotConnected, err)
		case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
			return fmt.Errorf("%w: %w", ufs.ErrExist, err)
		}
	}
	return err
}
