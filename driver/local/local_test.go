package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gobeaver/ufs"
)

type call struct {
	stdin string
	name  string
	args  []string
}

// recordingRunner records commands instead of running them
type recordingRunner struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (r *recordingRunner) Run(ctx context.Context, stdin string, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{stdin: stdin, name: name, args: append([]string(nil), args...)})
	return nil, r.err
}

func newBackend(t *testing.T, opts ...BackendOption) (*Backend, string) {
	t.Helper()
	root := t.TempDir()
	b, err := New(root, opts...)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	return b, root
}

func TestNew(t *testing.T) {
	t.Run("creates the root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "root")
		if _, err := New(root); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			t.Errorf("expected root directory to exist: %v", err)
		}
	})

	t.Run("resolves relative paths against the root", func(t *testing.T) {
		b, root := newBackend(t)
		want := ufs.NewPath(root, "a", "b.txt")
		if got := b.Path("a/b.txt"); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
		if got := b.Path("/etc/hosts"); got != "/etc/hosts" {
			t.Errorf("expected absolute paths to be kept, got %s", got)
		}
	})
}

func TestRouter(t *testing.T) {
	b, _ := newBackend(t)
	r := b.Router()

	for _, op := range []string{ufs.OpCreate, ufs.OpAppend} {
		if !r.Revoked(op) {
			t.Errorf("expected %q to be revoked", op)
		}
	}
	if kind, err := r.Resolve(ufs.OpMkdir); err != nil || kind != ufs.KindDirectory {
		t.Errorf("expected mkdir on directories, got %v (%v)", kind, err)
	}
	if kind, err := r.Resolve(ufs.OpWriteLine); err != nil || kind != ufs.KindFile {
		t.Errorf("expected writeln on files, got %v (%v)", kind, err)
	}
	if b.Router() != r {
		t.Error("expected one router shared by all backends")
	}
}

func TestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("create requires the parent unless recursive", func(t *testing.T) {
		b, _ := newBackend(t)
		f := b.File(b.Path("missing/a.txt"))

		err := f.Create(ctx)
		if !ufs.IsWrite(err) || !ufs.IsNotExist(err) {
			t.Fatalf("expected write and not-exist error, got %v", err)
		}
		if err := f.Create(ctx, ufs.WithRecursive()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.Exists(ctx) {
			t.Error("expected file to exist")
		}
		// creating again is fine
		if err := f.Create(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("write replaces and append extends", func(t *testing.T) {
		b, _ := newBackend(t)
		f := b.File(b.Path("a.txt"))

		if err := f.Append(ctx, []byte("x")); !ufs.IsWrite(err) || !ufs.IsNotExist(err) {
			t.Fatalf("expected write and not-exist error, got %v", err)
		}
		if err := f.Write(ctx, []byte("first")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.Write(ctx, []byte("ab")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.Append(ctx, []byte("c")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := f.Read(ctx)
		if err != nil || string(data) != "abc" {
			t.Errorf("expected abc, got %q (%v)", data, err)
		}

		info, _ := os.Stat(f.Path().OS())
		if info.Mode().Perm() != 0644 {
			t.Errorf("expected mode 0644, got %o", info.Mode().Perm())
		}
	})

	t.Run("append or create", func(t *testing.T) {
		b, _ := newBackend(t)
		f := b.File(b.Path("log"))
		for _, s := range []string{"a", "b"} {
			if err := f.AppendOrCreate(ctx, []byte(s)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if n, ok, _ := f.Size(ctx); !ok || n != 2 {
			t.Errorf("expected size 2, got %d (%v)", n, ok)
		}
	})

	t.Run("read missing file", func(t *testing.T) {
		b, _ := newBackend(t)
		_, err := b.File(b.Path("nope")).Read(ctx)
		if !ufs.IsRead(err) || !ufs.IsNotExist(err) {
			t.Errorf("expected read and not-exist error, got %v", err)
		}
		if _, ok, err := b.File(b.Path("nope")).Size(ctx); ok || err != nil {
			t.Errorf("expected missing size without error, got %v %v", ok, err)
		}
	})

	t.Run("byte ranges", func(t *testing.T) {
		b, _ := newBackend(t)
		f := b.File(b.Path("bytes"))
		_ = f.Write(ctx, []byte("0123456789"))

		tests := []struct {
			r    ufs.ByteRange
			want string
		}{
			{ufs.From(0), "0123456789"},
			{ufs.Span(2, 3), "234"},
			{ufs.Inclusive(4, 6), "456"},
			{ufs.From(-3), "789"},
			{ufs.Span(8, 100), "89"},
			{ufs.From(10), ""},
		}
		for _, tt := range tests {
			got, err := f.ReadBytes(ctx, tt.r)
			if err != nil || string(got) != tt.want {
				t.Errorf("ReadBytes(%+v) = %q, %v; want %q", tt.r, got, err, tt.want)
			}
		}

		_, err := f.ReadBytes(ctx, ufs.From(11))
		if !errors.Is(err, ufs.ErrOutOfRange) || !ufs.IsRead(err) {
			t.Errorf("expected out of range read error, got %v", err)
		}
	})

	t.Run("lines", func(t *testing.T) {
		b, _ := newBackend(t)
		f := b.File(b.Path("lines"))
		_ = f.Write(ctx, []byte("a\nb"))

		if err := f.WriteLine(ctx, "c\n"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, _ := f.Read(ctx)
		if string(data) != "a\nb\nc\n" {
			t.Errorf("unexpected content %q", data)
		}

		line, ok, err := f.ReadLine(ctx, 2)
		if err != nil || !ok || line != "c" {
			t.Errorf("expected line c, got %q %v %v", line, ok, err)
		}
		lines, err := f.ReadLines(ctx, 1, 50)
		if err != nil || len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
			t.Errorf("expected [b c], got %v (%v)", lines, err)
		}
	})

	t.Run("move", func(t *testing.T) {
		b, _ := newBackend(t)
		dest := b.Dir(b.Path("dest"))
		_ = dest.Create(ctx)

		f := b.File(b.Path("m.txt"))
		_ = f.Write(ctx, []byte("m"))
		old := f.Path()
		if err := f.Move(ctx, "dest"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Path() != dest.Path().Join("m.txt") {
			t.Errorf("unexpected path %s", f.Path())
		}
		if _, err := os.Stat(old.OS()); !os.IsNotExist(err) {
			t.Error("expected old location to be gone")
		}

		g := b.File(b.Path("m.txt"))
		_ = g.Write(ctx, []byte("again"))
		err := g.Move(ctx, "dest")
		if !ufs.IsExist(err) || !ufs.IsWrite(err) {
			t.Fatalf("expected write and exist error, got %v", err)
		}
		if g.Path() != old {
			t.Error("expected path to be unchanged after a failed move")
		}
	})

	t.Run("metadata", func(t *testing.T) {
		b, _ := newBackend(t)
		f := b.File(b.Path("meta.txt"))
		if md := f.Metadata(ctx); md != (ufs.Metadata{}) {
			t.Errorf("expected zero metadata for a missing file, got %+v", md)
		}

		_ = f.Write(ctx, []byte("1234"))
		md := f.Metadata(ctx)
		if md.Name != "meta.txt" || md.Size != 4 || md.Subordinates != 1 || md.Permissions != 644 {
			t.Errorf("unexpected metadata %+v", md)
		}
		if md.Modified.IsZero() || md.Created.IsZero() {
			t.Error("expected timestamps")
		}
	})

	t.Run("checksum", func(t *testing.T) {
		b, _ := newBackend(t)
		f := b.File(b.Path("sum"))
		_ = f.Write(ctx, []byte("hello"))
		sum, err := f.Checksum(ctx, ufs.ChecksumSHA256)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want, _ := ufs.ChecksumBytes([]byte("hello"), ufs.ChecksumSHA256)
		if sum != want {
			t.Errorf("expected %s, got %s", want, sum)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		b, _ := newBackend(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := b.File(b.Path("x")).Read(cctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestDir(t *testing.T) {
	ctx := context.Background()

	t.Run("mkdir is idempotent and optionally recursive", func(t *testing.T) {
		b, _ := newBackend(t)
		d := b.Dir(b.Path("a/b/c"))

		err := d.Create(ctx)
		if !ufs.IsWrite(err) || !ufs.IsNotExist(err) {
			t.Fatalf("expected write and not-exist error, got %v", err)
		}
		if err := d.Create(ctx, ufs.WithRecursive()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := d.Create(ctx); err != nil {
			t.Errorf("expected existing directory to be fine, got %v", err)
		}
	})

	t.Run("mkdir over a file", func(t *testing.T) {
		b, _ := newBackend(t)
		_ = b.File(b.Path("f")).Write(ctx, nil)
		if err := b.Dir(b.Path("f")).Create(ctx); !ufs.IsExist(err) {
			t.Errorf("expected exist error, got %v", err)
		}
	})

	t.Run("list size and destroy", func(t *testing.T) {
		b, _ := newBackend(t)
		d := b.Dir(b.Path("d"))
		_ = d.Create(ctx)
		_ = b.File(d.Path().Join("b.txt")).Write(ctx, []byte("bb"))
		_ = b.File(d.Path().Join("a.log")).Write(ctx, []byte("a"))
		_ = b.Dir(d.Path().Join("sub")).Create(ctx)
		_ = b.File(d.Path().Join("sub", "c.txt")).Write(ctx, []byte("ccc"))

		entries, err := d.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 3 || entries[0].Name() != "a.log" || entries[2].Kind() != ufs.KindDirectory {
			t.Errorf("unexpected entries %v", entries)
		}

		txt, _ := d.List(ctx, ufs.WithSelector(ufs.And(ufs.Glob("*.txt"), ufs.KindOf(ufs.KindFile))))
		if len(txt) != 1 || txt[0].Name() != "b.txt" {
			t.Errorf("unexpected filtered entries %v", txt)
		}

		if n, ok, err := d.Size(ctx); !ok || err != nil || n != 6 {
			t.Errorf("expected size 6, got %d %v %v", n, ok, err)
		}
		if md := d.Metadata(ctx); md.Subordinates != 5 || md.Size != 6 {
			t.Errorf("unexpected metadata %+v", md)
		}

		removed, err := d.Destroy(ctx)
		if err != nil || !removed {
			t.Fatalf("expected removal, got %v %v", removed, err)
		}
		if removed, _ := d.Destroy(ctx); removed {
			t.Error("expected nothing to remove the second time")
		}
	})

	t.Run("add moves the child", func(t *testing.T) {
		b, _ := newBackend(t)
		d := b.Dir(b.Path("box"))
		f := b.File(b.Path("item"))
		_ = f.Write(ctx, []byte("x"))

		if err := d.Add(ctx, f); !ufs.IsNotExist(err) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
		_ = d.Create(ctx)
		if err := d.Add(ctx, f); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Path() != d.Path().Join("item") {
			t.Errorf("unexpected path %s", f.Path())
		}
	})
}

func TestAttributes(t *testing.T) {
	ctx := context.Background()

	t.Run("chmod skips matching permissions", func(t *testing.T) {
		runner := &recordingRunner{}
		b, _ := newBackend(t, WithRunner(runner))
		f := b.File(b.Path("a"))
		_ = f.Write(ctx, nil)

		if !f.Chmod(ctx, 644) {
			t.Fatal("expected chmod to succeed")
		}
		if len(runner.calls) != 0 {
			t.Errorf("expected no command, got %v", runner.calls)
		}
		if f.Chmod(ctx, 689) {
			t.Error("expected invalid permissions to fail")
		}
	})

	t.Run("chmod runs the command", func(t *testing.T) {
		runner := &recordingRunner{}
		b, _ := newBackend(t, WithRunner(runner))
		f := b.File(b.Path("a"))
		_ = f.Write(ctx, nil)

		if !f.Chmod(ctx, 600, ufs.WithArgs("-v")) {
			t.Fatal("expected chmod to succeed")
		}
		want := call{name: "chmod", args: []string{"-v", "600", f.Path().OS()}}
		if len(runner.calls) != 1 || !sameCall(runner.calls[0], want) {
			t.Errorf("expected %v, got %v", want, runner.calls)
		}
		if f.Attributes().Permissions != 600 {
			t.Errorf("expected managed permissions 600, got %v", f.Attributes().Permissions)
		}
	})

	t.Run("sudo feeds the password on stdin", func(t *testing.T) {
		runner := &recordingRunner{}
		b, _ := newBackend(t, WithRunner(runner))
		d := b.Dir(b.Path("d"))
		_ = d.Create(ctx)

		if !d.Chown(ctx, "nobody-at-all", ufs.WithSudo("secret"), ufs.WithRecursive()) {
			t.Fatal("expected chown to succeed")
		}
		want := call{stdin: "secret\n", name: "sudo", args: []string{"-S", "chown", "-R", "nobody-at-all", d.Path().OS()}}
		if len(runner.calls) != 1 || !sameCall(runner.calls[0], want) {
			t.Errorf("expected %v, got %v", want, runner.calls)
		}
	})

	t.Run("failures are reported as false", func(t *testing.T) {
		runner := &recordingRunner{err: errors.New("operation not permitted")}
		b, _ := newBackend(t, WithRunner(runner))
		f := b.File(b.Path("a"))
		_ = f.Write(ctx, nil)

		if f.Chgrp(ctx, "no-such-group-here") {
			t.Error("expected chgrp to fail")
		}
		if f.Attributes().Group != "" {
			t.Error("expected managed group to stay unset")
		}
	})

	t.Run("create applies managed attributes", func(t *testing.T) {
		runner := &recordingRunner{}
		b, _ := newBackend(t, WithRunner(runner))
		f := b.File(b.Path("a"))

		if err := f.Create(ctx, ufs.WithAttributes(ufs.Attributes{Permissions: 640})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runner.calls) != 1 || runner.calls[0].name != "chmod" || runner.calls[0].args[0] != "640" {
			t.Errorf("unexpected calls %v", runner.calls)
		}
	})
}

func sameCall(a, b call) bool {
	if a.stdin != b.stdin || a.name != b.name || len(a.args) != len(b.args) {
		return false
	}
	for i := range a.args {
		if a.args[i] != b.args[i] {
			return false
		}
	}
	return true
}

func TestFacade(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)
	f := ufs.NewFacadeFor(b)

	if _, err := f.Mkdir(ctx, "docs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Write(ctx, "docs/readme.md", []byte("# hi\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.WriteLine(ctx, "docs/readme.md", "more"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "docs", "readme.md"))
	if err != nil || string(data) != "# hi\nmore\n" {
		t.Errorf("unexpected content %q (%v)", data, err)
	}

	// size and destroy infer the kind from disk
	if n, ok, err := f.Size(ctx, "docs"); !ok || err != nil || n != 10 {
		t.Errorf("expected directory size 10, got %d %v %v", n, ok, err)
	}
	if md, _ := f.Metadata(ctx, "docs/readme.md"); md.Subordinates != 1 {
		t.Errorf("expected a file, got %+v", md)
	}

	if _, err := f.Create(ctx, "x"); !ufs.IsUnsupported(err) {
		t.Errorf("expected create to be unsupported, got %v", err)
	}
	if err := f.Append(ctx, "docs/readme.md", []byte("x")); !ufs.IsUnsupported(err) {
		t.Errorf("expected << to be unsupported, got %v", err)
	}

	removed, err := f.Destroy(ctx, "docs")
	if err != nil || !removed {
		t.Errorf("expected removal, got %v %v", removed, err)
	}
	if ok, _ := f.Exists(ctx, "docs"); ok {
		t.Error("expected docs to be gone")
	}
}

func TestRegisteredBackend(t *testing.T) {
	root := t.TempDir()
	b, err := ufs.CreateBackend(&ufs.Config{Backend: "local", LocalRoot: root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name() != "local" {
		t.Errorf("expected local, got %s", b.Name())
	}
	if _, err := b.Open(ufs.KindBucket, "/x"); !ufs.IsUnsupported(err) {
		t.Errorf("expected unsupported kind, got %v", err)
	}
}
