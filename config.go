package ufs

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Default backend to use (local, s3, minio, gcs, azure, memory)
	Backend string `env:"UFS_BACKEND,default:local"`

	// Local backend configuration. Relative paths resolve against LocalRoot,
	// or the working directory when it is empty.
	LocalRoot string `env:"UFS_LOCAL_ROOT"`

	// CredentialsFile is a YAML or JSON document holding remote credentials.
	// When set it takes precedence over the per-provider keys below.
	CredentialsFile string `env:"UFS_CREDENTIALS_FILE"`

	// S3 backend configuration
	S3Region          string `env:"UFS_S3_REGION,default:us-east-1"`
	S3Bucket          string `env:"UFS_S3_BUCKET"`
	S3Endpoint        string `env:"UFS_S3_ENDPOINT"`
	S3AccessKeyID     string `env:"UFS_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"UFS_S3_SECRET_ACCESS_KEY"`
	S3SessionToken    string `env:"UFS_S3_SESSION_TOKEN"`
	S3ForcePathStyle  bool   `env:"UFS_S3_FORCE_PATH_STYLE,default:false"`

	// MinIO backend configuration
	MinIOEndpoint        string `env:"UFS_MINIO_ENDPOINT"`
	MinIOAccessKeyID     string `env:"UFS_MINIO_ACCESS_KEY_ID"`
	MinIOSecretAccessKey string `env:"UFS_MINIO_SECRET_ACCESS_KEY"`
	MinIOUseSSL          bool   `env:"UFS_MINIO_USE_SSL,default:true"`
	MinIOBucket          string `env:"UFS_MINIO_BUCKET"`
	MinIORegion          string `env:"UFS_MINIO_REGION"`

	// GCS (Google Cloud Storage) backend configuration
	GCSBucket          string `env:"UFS_GCS_BUCKET"`
	GCSProjectID       string `env:"UFS_GCS_PROJECT_ID"`
	GCSCredentialsFile string `env:"UFS_GCS_CREDENTIALS_FILE"` // Path to service account JSON

	// Azure Blob Storage backend configuration. Containers act as buckets.
	AzureAccountName   string `env:"UFS_AZURE_ACCOUNT_NAME"`
	AzureAccountKey    string `env:"UFS_AZURE_ACCOUNT_KEY"`
	AzureContainerName string `env:"UFS_AZURE_CONTAINER_NAME"`
	AzureEndpoint      string `env:"UFS_AZURE_ENDPOINT"` // Optional custom endpoint

	// Memory backend configuration
	MemoryBucket string `env:"UFS_MEMORY_BUCKET"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
