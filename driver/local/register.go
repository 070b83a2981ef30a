package local

import "github.com/gobeaver/ufs"

func init() {
	ufs.RegisterBackend("local", func(cfg *ufs.Config) (ufs.Backend, error) {
		return New(cfg.LocalRoot)
	})
}
