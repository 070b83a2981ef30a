// Package ufs gives local files, local directories, remote objects and remote
// buckets one uniform, filesystem-like contract.
//
// Every entry implements [Entry]. Entries holding bytes (files and objects)
// also implement [Content]; entries holding other entries (directories and
// buckets) implement [Container].
//
// # Backends
//
// A [Backend] is a storage medium. Backends register a factory under a name
// and are selected through [Config]:
//
//   - Local filesystem (github.com/gobeaver/ufs/driver/local)
//   - Amazon S3 (github.com/gobeaver/ufs/driver/s3)
//   - MinIO (github.com/gobeaver/ufs/driver/minio)
//   - Google Cloud Storage (github.com/gobeaver/ufs/driver/gcs)
//   - Azure Blob Storage (github.com/gobeaver/ufs/driver/azure)
//   - In-memory (github.com/gobeaver/ufs/driver/memory)
//
// Object store drivers share github.com/gobeaver/ufs/driver/remote, which
// owns the connection, the current bucket and the single reconnect-and-retry
// applied when a store reports it lost its connection.
//
// # Facade
//
// The [Facade] is the backend-unaware entry point. Each call resolves the
// backend (an explicit one, or the registry's default adapter at call time),
// then the entry kind owning the operation through the backend's [Router]:
//
//	f, err := ufs.New(&ufs.Config{Backend: "local", LocalRoot: "/srv/data"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = f.WriteLine(ctx, "app.log", "started")
//	line, ok, err := f.ReadLine(ctx, "app.log", 0)
//
// An operation claimed by two kinds of the same backend is revoked: it is no
// longer routable and must be reached through [Facade.Open] with an explicit
// kind.
//
// # Errors
//
// Errors are [*PathError] values wrapping a class (ErrRead, ErrWrite,
// ErrConnection, ErrPermission) that matches [ErrIO] with errors.Is, and a
// cause such as [ErrNotExist] or [ErrExist]:
//
//	if _, err := f.Read(ctx, "missing.txt"); ufs.IsNotExist(err) {
//	    // handle
//	}
//
// # Configuration
//
// [Config] is loaded from the environment with beaver-kit/config. Variables
// carry the BEAVER_UFS_ prefix by default; [WithPrefix] picks another one.
package ufs
