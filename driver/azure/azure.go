package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

// copySASExpiry bounds the source URL handed to a server-side copy
const copySASExpiry = 15 * time.Minute

// Options configures the client a Store builds on Connect. Containers play
// the role of buckets.
type Options struct {
	AccountName string
	AccountKey  string
	// Endpoint overrides https://<account>.blob.core.windows.net/
	Endpoint string
}

// Store implements remote.Store on Azure Blob Storage
type Store struct {
	opts Options

	mu        sync.RWMutex
	client    *azblob.Client
	sharedKey bool
}

var _ remote.Store = (*Store)(nil)

// New creates a disconnected Azure store
func New(opts Options) *Store {
	return &Store{opts: opts}
}

// NewWithClient creates a store already connected through client
func NewWithClient(client *azblob.Client) *Store {
	return &Store{client: client}
}

// Connect implements remote.Store. The credentials' access key ID and
// secret are the account name and key when given. Without a key the
// endpoint must carry its own authorization, such as a SAS token.
func (s *Store) Connect(ctx context.Context, creds remote.Credentials) error {
	account := s.opts.AccountName
	if creds.AccessKeyID != "" {
		account = creds.AccessKeyID
	}
	key := s.opts.AccountKey
	if creds.SecretAccessKey != "" {
		key = creds.SecretAccessKey
	}
	serviceURL := s.opts.Endpoint
	if creds.Endpoint != "" {
		serviceURL = creds.Endpoint
	}
	if serviceURL == "" {
		if account == "" {
			return errors.New("azure account name or endpoint is required")
		}
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", account)
	}

	var (
		client *azblob.Client
		err    error
	)
	if account != "" && key != "" {
		var cred *azblob.SharedKeyCredential
		cred, err = azblob.NewSharedKeyCredential(account, key)
		if err != nil {
			return fmt.Errorf("failed to create azure credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	} else {
		client, err = azblob.NewClientWithNoCredential(serviceURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create azure client: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.sharedKey = key != ""
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

func (s *Store) get() (*azblob.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, remote.ErrNotConnected
	}
	return s.client, nil
}

func (s *Store) blobClient(client *azblob.Client, container, key string) *blob.Client {
	return client.ServiceClient().NewContainerClient(container).NewBlobClient(key)
}

// Find implements remote.Store
func (s *Store) Find(ctx context.Context, bucket, key string) (remote.ObjectInfo, error) {
	client, err := s.get()
	if err != nil {
		return remote.ObjectInfo{}, err
	}

	props, err := s.blobClient(client, bucket, key).GetProperties(ctx, nil)
	if err != nil {
		return remote.ObjectInfo{}, mapAzureError(err)
	}

	info := remote.ObjectInfo{Bucket: bucket, Key: key}
	if props.ContentLength != nil {
		info.Size = *props.ContentLength
	}
	if props.ContentType != nil {
		info.ContentType = *props.ContentType
	}
	if props.ETag != nil {
		info.ETag = strings.Trim(string(*props.ETag), `"`)
	}
	if props.LastModified != nil {
		info.Modified = *props.LastModified
	}
	return info, nil
}

// Get implements remote.Store
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	resp, err := client.DownloadStream(ctx, bucket, key, nil)
	if err != nil {
		return nil, mapAzureError(err)
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

	opts := &azblob.UploadBufferOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}
	_, err = client.UploadBuffer(ctx, bucket, key, data, opts)
	return mapAzureError(err)
}

// Delete implements remote.Store
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	_, err = client.DeleteBlob(ctx, bucket, key, nil)
	return mapAzureError(err)
}

// Copy implements remote.Store. With a shared key the copy runs server side
// from a short-lived SAS URL; otherwise the blob is downloaded and uploaded
// again.
func (s *Store) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	client, err := s.get()
	if err != nil {
		return err
	}

	s.mu.RLock()
	sharedKey := s.sharedKey
	s.mu.RUnlock()

	if sharedKey {
		src := s.blobClient(client, bucket, srcKey)
		srcURL, err := src.GetSASURL(sas.BlobPermissions{Read: true}, time.Now().Add(copySASExpiry), nil)
		if err == nil {
			_, err = s.blobClient(client, bucket, dstKey).CopyFromURL(ctx, srcURL, nil)
			return mapAzureError(err)
		}
	}

	info, err := s.Find(ctx, bucket, srcKey)
	if err != nil {
		return err
	}
	data, err := s.Get(ctx, bucket, srcKey)
	if err != nil {
		return err
	}
	return s.Put(ctx, bucket, dstKey, data, info.ContentType)
}

// List implements remote.Store
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]remote.ObjectInfo, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	var out []remote.ObjectInfo
	pager := client.NewListBlobsFlatPager(bucket, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, mapAzureError(err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil || strings.HasSuffix(*item.Name, "/") {
				continue
			}
			info := remote.ObjectInfo{Bucket: bucket, Key: *item.Name}
			if p := item.Properties; p != nil {
				if p.ContentLength != nil {
					info.Size = *p.ContentLength
				}
				if p.ContentType != nil {
					info.ContentType = *p.ContentType
				}
				if p.ETag != nil {
					info.ETag = strings.Trim(string(*p.ETag), `"`)
				}
				if p.LastModified != nil {
					info.Modified = *p.LastModified
				}
			}
			out = append(out, info)
		}
	}
	return out, nil
}

// ListBuckets implements remote.Store by listing containers
func (s *Store) ListBuckets(ctx context.Context) ([]string, error) {
	client, err := s.get()
	if err != nil {
		return nil, err
	}

	var names []string
	pager := client.NewListContainersPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, mapAzureError(err)
		}
		for _, c := range page.ContainerItems {
			if c.Name != nil {
				names = append(names, *c.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateBucket implements remote.Store by creating a container
func (s *Store) CreateBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	_, err = client.CreateContainer(ctx, name, nil)
	return mapAzureError(err)
}

// DeleteBucket implements remote.Store by deleting a container
func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	client, err := s.get()
	if err != nil {
		return err
	}
	_, err = client.DeleteContainer(ctx, name, nil)
	return mapAzureError(err)
}

// mapAzureError maps Azure errors to the classes remote.Store reports
func mapAzureError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound):
		return fmt.Errorf("%w: %w", ufs.ErrNotExist, err)
	case bloberror.HasCode(err, bloberror.ContainerAlreadyExists, bloberror.BlobAlreadyExists):
		return fmt.Errorf("%w: %w", ufs.ErrExist, err)
	case bloberror.HasCode(err, bloberror.AuthorizationFailure, bloberror.AuthorizationPermissionMismatch, bloberror.InsufficientAccountPermissions):
		return fmt.Errorf("%w: %w", ufs.ErrPermission, err)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ufs.ErrNotExist, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ufs.ErrPermission, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", remote.ErrNotConnected, err)
		}
	}
	return err
}
