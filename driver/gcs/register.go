package gcs

import (
	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

func init() {
	// Without a credentials file the client uses GOOGLE_APPLICATION_CREDENTIALS
	// or the application default credentials
	ufs.RegisterBackend("gcs", func(cfg *ufs.Config) (ufs.Backend, error) {
		store := New(Options{
			ProjectID:       cfg.GCSProjectID,
			CredentialsFile: cfg.GCSCredentialsFile,
		})
		return remote.FromConfig("gcs", store, cfg, cfg.GCSBucket, remote.Credentials{})
	})
}
