package s3

import (
	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

func init() {
	ufs.RegisterBackend("s3", createS3Backend)
}

func createS3Backend(cfg *ufs.Config) (ufs.Backend, error) {
	store := New(Options{
		Region:         cfg.S3Region,
		Endpoint:       cfg.S3Endpoint,
		ForcePathStyle: cfg.S3ForcePathStyle,
	})

	creds := remote.Credentials{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		SessionToken:    cfg.S3SessionToken,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
	}
	return remote.FromConfig("s3", store, cfg, cfg.S3Bucket, creds)
}
