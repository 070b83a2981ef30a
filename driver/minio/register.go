package minio

import (
	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

func init() {
	ufs.RegisterBackend("minio", func(cfg *ufs.Config) (ufs.Backend, error) {
		store := New(Options{
			Endpoint: cfg.MinIOEndpoint,
			UseSSL:   cfg.MinIOUseSSL,
			Region:   cfg.MinIORegion,
		})
		creds := remote.Credentials{
			AccessKeyID:     cfg.MinIOAccessKeyID,
			SecretAccessKey: cfg.MinIOSecretAccessKey,
		}
		return remote.FromConfig("minio", store, cfg, cfg.MinIOBucket, creds)
	})
}
