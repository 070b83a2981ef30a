package ufs_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/memory"
	"github.com/gobeaver/ufs/driver/remote"
)

func Example() {
	ctx := context.Background()

	// An in-memory object store with one bucket selected
	b, err := ufs.CreateBackend(&ufs.Config{Backend: "memory", MemoryBucket: "docs"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	f := ufs.NewFacadeFor(b)

	_ = f.WriteLine(ctx, "notes.txt", "first")
	_ = f.WriteLine(ctx, "notes.txt", "second")

	line, _, _ := f.ReadLine(ctx, "notes.txt", 1)
	fmt.Println(line)

	head, _ := f.ReadBytes(ctx, "notes.txt", ufs.Span(0, 5))
	fmt.Println(string(head))
	// Output:
	// second
	// first
}

func ExampleRegistry() {
	ctx := context.Background()
	reg := ufs.NewRegistry()
	f := ufs.NewFacade(reg)

	// Without a default adapter every call fails
	_, err := f.Read(ctx, "a.txt")
	fmt.Println(errors.Is(err, ufs.ErrNoDefaultAdapter))

	store := memory.New(memory.Config{Buckets: []string{"main"}})
	reg.SetDefault(remote.New("memory", remote.NewSession(store, remote.WithCurrentBucket("main"))))

	// The facade picks the new default up on the next call
	_ = f.Write(ctx, "a.txt", []byte("hello"))
	data, _ := f.Read(ctx, "a.txt")
	fmt.Println(string(data))
	// Output:
	// true
	// hello
}

func ExampleRouter() {
	r := ufs.NewRouter()
	_ = r.Register(ufs.OpCreate, ufs.KindFile)
	err := r.Register(ufs.OpCreate, ufs.KindDirectory)

	fmt.Println(errors.Is(err, ufs.ErrAmbiguousOperation))
	fmt.Println(r.Revoked(ufs.OpCreate))
	// Output:
	// true
	// true
}

func ExampleGlob() {
	ctx := context.Background()
	store := memory.New(memory.Config{Buckets: []string{"media"}})
	f := ufs.NewFacadeFor(remote.New("memory", remote.NewSession(store, remote.WithCurrentBucket("media"))))

	for _, name := range []string{"doc.txt", "image.jpg", "photo.jpg", "data.json"} {
		_ = f.Write(ctx, name, []byte(name))
	}

	entries, _ := f.List(ctx, "/media", ufs.WithSelector(ufs.Glob("*.jpg")))
	for _, e := range entries {
		fmt.Println(e.Name())
	}
	// Output:
	// image.jpg
	// photo.jpg
}

func ExampleAnd() {
	ctx := context.Background()
	store := memory.New(memory.Config{Buckets: []string{"logs"}})
	f := ufs.NewFacadeFor(remote.New("memory", remote.NewSession(store, remote.WithCurrentBucket("logs"))))

	for _, name := range []string{"app.log", "app.log.1", "db.log", "readme.md"} {
		_ = f.Write(ctx, name, []byte(name))
	}

	sel := ufs.And(
		ufs.Glob("*.log"),
		ufs.Not(ufs.Glob("db.*")),
	)
	entries, _ := f.List(ctx, "/logs", ufs.WithSelector(sel))
	for _, e := range entries {
		fmt.Println(e.Name())
	}
	// Output:
	// app.log
}

func ExampleSliceRange() {
	content := []byte("0123456789")

	a, _ := ufs.SliceRange(content, ufs.Span(2, 3))
	b, _ := ufs.SliceRange(content, ufs.From(-2))
	_, err := ufs.SliceRange(content, ufs.From(11))

	fmt.Println(string(a))
	fmt.Println(string(b))
	fmt.Println(errors.Is(err, ufs.ErrOutOfRange))
	// Output:
	// 234
	// 89
	// true
}

func ExampleParseSymbolicPermissions() {
	m, _ := ufs.ParseSymbolicPermissions("-rwxr-x---")
	fmt.Println(m)
	// Output:
	// 750
}

func ExampleIsNotExist() {
	ctx := context.Background()
	store := memory.New(memory.Config{Buckets: []string{"b"}})
	f := ufs.NewFacadeFor(remote.New("memory", remote.NewSession(store, remote.WithCurrentBucket("b"))))

	_, err := f.Read(ctx, "missing.txt")
	if ufs.IsNotExist(err) {
		fmt.Println("not found")
	}
	fmt.Println(ufs.IsRead(err))
	// Output:
	// not found
	// true
}
