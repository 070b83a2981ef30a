package azure

import (
	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

func init() {
	ufs.RegisterBackend("azure", func(cfg *ufs.Config) (ufs.Backend, error) {
		store := New(Options{
			AccountName: cfg.AzureAccountName,
			AccountKey:  cfg.AzureAccountKey,
			Endpoint:    cfg.AzureEndpoint,
		})
		return remote.FromConfig("azure", store, cfg, cfg.AzureContainerName, remote.Credentials{})
	})
}
