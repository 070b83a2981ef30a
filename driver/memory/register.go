package memory

import (
	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

func init() {
	ufs.RegisterBackend("memory", func(cfg *ufs.Config) (ufs.Backend, error) {
		var buckets []string
		if cfg.MemoryBucket != "" {
			buckets = append(buckets, cfg.MemoryBucket)
		}
		store := New(Config{Buckets: buckets})
		return remote.FromConfig("memory", store, cfg, cfg.MemoryBucket, remote.Credentials{})
	})
}
