package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/sirupsen/logrus"
)

const datasetContentType = "application/json"

// AzureOptions selects the blob account. ConnectionString wins over
// AccountName, which authenticates with the default Azure credential chain.
type AzureOptions struct {
	AccountName      string
	ConnectionString string
	Container        string
}

// AzureStorage keeps fixture datasets in an Azure Blob Storage container
type AzureStorage struct {
	client    *azblob.Client
	container string
}

// Ensure AzureStorage implements StorageInterface
var _ StorageInterface = (*AzureStorage)(nil)

// NewAzureStorage connects to the account and creates the container if needed
func NewAzureStorage(ctx context.Context, opts AzureOptions) (*AzureStorage, error) {
	if opts.Container == "" {
		return nil, fmt.Errorf("storage container name is required")
	}

	client, err := newBlobClient(opts)
	if err != nil {
		return nil, err
	}

	s := &AzureStorage{client: client, container: opts.Container}
	if err := s.ensureContainer(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newBlobClient(opts AzureOptions) (*azblob.Client, error) {
	if opts.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(opts.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid storage connection string: %w", err)
		}
		return client, nil
	}

	if opts.AccountName == "" {
		return nil, fmt.Errorf("storage account name or connection string is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	client, err := azblob.NewClient(fmt.Sprintf("https://%s.blob.core.windows.net/", opts.AccountName), credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}
	return client, nil
}

func (s *AzureStorage) ensureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	switch {
	case err == nil:
		logrus.Infof("Created fixture container %s", s.container)
	case bloberror.HasCode(err, bloberror.ContainerAlreadyExists):
	default:
		return fmt.Errorf("failed to ensure container %s: %w", s.container, err)
	}
	return nil
}

// Store uploads a dataset, replacing any blob with the same name
func (s *AzureStorage) Store(ctx context.Context, name string, data []byte) error {
	contentType := datasetContentType
	_, err := s.client.UploadBuffer(ctx, s.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}

	logrus.Infof("Uploaded dataset %s (%d bytes) to %s", name, len(data), s.container)
	return nil
}

func (s *AzureStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, s.wrap("download", name, err)
	}

	body := resp.NewRetryReader(ctx, nil)
	defer body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// List returns blob names under prefix in lexicographic order
func (s *AzureStorage) List(ctx context.Context, prefix string) ([]string, error) {
	names := []string{}
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{Prefix: &prefix})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (s *AzureStorage) Delete(ctx context.Context, name string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		return s.wrap("delete", name, err)
	}

	logrus.Infof("Deleted dataset %s from %s", name, s.container)
	return nil
}

func (s *AzureStorage) wrap(op, name string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("%s %s: %w", op, name, ErrNotFound)
	}
	return fmt.Errorf("failed to %s %s: %w", op, name, err)
}
