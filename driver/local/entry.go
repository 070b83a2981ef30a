package local

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gobeaver/ufs"
)

// entry holds what File and Dir have in common: the path, the managed
// attributes and the privileged attribute setters.
type entry struct {
	b     *Backend
	path  ufs.Path
	attrs ufs.Attributes
}

// Path implements ufs.Entry
func (e *entry) Path() ufs.Path { return e.path }

// SetPath points the entry at another location without touching the disk
func (e *entry) SetPath(p ufs.Path) { e.path = p }

// Name implements ufs.Entry
func (e *entry) Name() string { return e.path.Base() }

// Attributes returns the managed attributes applied by Create
func (e *entry) Attributes() ufs.Attributes { return e.attrs }

// SetAttributes replaces the managed attributes applied by Create
func (e *entry) SetAttributes(attrs ufs.Attributes) { e.attrs = attrs }

// Exists implements ufs.Entry
func (e *entry) Exists(ctx context.Context) bool {
	if e.path.IsZero() {
		return false
	}
	_, err := os.Lstat(e.path.OS())
	return err == nil
}

func (e *entry) stat() (os.FileInfo, error) {
	return os.Stat(e.path.OS())
}

// applyAttributes sets every managed attribute. Failures are logged by the
// setters and do not fail the caller.
func (e *entry) applyAttributes(ctx context.Context, o *ufs.Options) {
	attrs := e.attrs
	if o.Attributes != nil {
		attrs = *o.Attributes
		e.attrs = attrs
	}

	sub := []ufs.Option{ufs.WithArgs(o.Args...)}
	if o.Sudo != "" {
		sub = append(sub, ufs.WithSudo(o.Sudo))
	}
	if attrs.Permissions != 0 {
		e.Chmod(ctx, attrs.Permissions, sub...)
	}
	if attrs.Owner != "" {
		e.Chown(ctx, attrs.Owner, sub...)
	}
	if attrs.Group != "" {
		e.Chgrp(ctx, attrs.Group, sub...)
	}
}

// ============================================================================
// Attributes
// ============================================================================

// Permissions returns the on-disk permissions
func (e *entry) Permissions(ctx context.Context) (ufs.Mode, bool) {
	info, err := e.stat()
	if err != nil {
		return 0, false
	}
	return ufs.ModeOf(info.Mode()), true
}

// Owner returns the on-disk owner name
func (e *entry) Owner(ctx context.Context) (string, bool) {
	info, err := e.stat()
	if err != nil {
		return "", false
	}
	owner, _ := ownership(info)
	return owner, owner != ""
}

// Group returns the on-disk group name
func (e *entry) Group(ctx context.Context) (string, bool) {
	info, err := e.stat()
	if err != nil {
		return "", false
	}
	_, group := ownership(info)
	return group, group != ""
}

// Chmod sets the permissions with chmod. It returns true without running
// anything when the permissions already match, and false on any failure.
func (e *entry) Chmod(ctx context.Context, mode ufs.Mode, opts ...ufs.Option) bool {
	if !mode.Valid() {
		log.Debug().Str("path", e.path.String()).Int("mode", int(mode)).Msg("chmod: invalid permissions")
		return false
	}
	if current, ok := e.Permissions(ctx); ok && current == mode {
		e.attrs.Permissions = mode
		return true
	}
	if !e.setAttribute(ctx, "chmod", mode.String(), opts) {
		return false
	}
	e.attrs.Permissions = mode
	return true
}

// Chown sets the owner with chown. It returns true without running anything
// when the owner already matches, and false on any failure.
func (e *entry) Chown(ctx context.Context, owner string, opts ...ufs.Option) bool {
	if current, ok := e.Owner(ctx); ok && current == owner {
		e.attrs.Owner = owner
		return true
	}
	if !e.setAttribute(ctx, "chown", owner, opts) {
		return false
	}
	e.attrs.Owner = owner
	return true
}

// Chgrp sets the group with chgrp. It returns true without running anything
// when the group already matches, and false on any failure.
func (e *entry) Chgrp(ctx context.Context, group string, opts ...ufs.Option) bool {
	if current, ok := e.Group(ctx); ok && current == group {
		e.attrs.Group = group
		return true
	}
	if !e.setAttribute(ctx, "chgrp", group, opts) {
		return false
	}
	e.attrs.Group = group
	return true
}

func (e *entry) setAttribute(ctx context.Context, command, value string, opts []ufs.Option) bool {
	if e.path.IsZero() || value == "" {
		return false
	}
	o := ufs.ApplyOptions(opts...)
	if err := e.b.privileged(ctx, o, command, value, e.path.OS()); err != nil {
		log.Debug().Err(err).Str("path", e.path.String()).Str("command", command).Msg("attribute change failed")
		return false
	}
	return true
}

// ============================================================================
// Structure
// ============================================================================

// remove deletes the entry with rm when a sudo credential is given and with
// os otherwise. Errors are logged and reported as false.
func (e *entry) remove(ctx context.Context, o *ufs.Options, recursive bool) bool {
	if e.path.IsZero() || !e.Exists(ctx) {
		return false
	}

	var err error
	switch {
	case o.Sudo != "":
		ro := *o
		ro.Recursive = recursive
		ro.Args = append([]string{"-f"}, ro.Args...)
		err = e.b.privileged(ctx, &ro, "rm", e.path.OS())
	case recursive:
		err = os.RemoveAll(e.path.OS())
	default:
		err = os.Remove(e.path.OS())
	}
	if err != nil {
		log.Debug().Err(err).Str("path", e.path.String()).Msg("remove failed")
		return false
	}
	return true
}

// move relocates the entry into the directory dest, keeping its name. The
// entry's path changes only when the move succeeds.
func (e *entry) move(ctx context.Context, dest string, opts []ufs.Option) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if e.path.IsZero() {
		return ufs.NewPathError(ufs.OpMove, "", ufs.ErrWrite, ufs.ErrInvalidPath)
	}

	destDir := e.b.Path(dest)
	target := destDir.Join(e.Name())
	if target == e.path {
		return nil
	}
	if _, err := os.Lstat(target.OS()); err == nil {
		return ufs.NewPathError(ufs.OpMove, target.String(), ufs.ErrWrite, ufs.ErrExist)
	}

	o := ufs.ApplyOptions(opts...)
	var err error
	if o.Sudo != "" {
		mo := *o
		mo.Recursive = false
		err = e.b.privileged(ctx, &mo, "mv", e.path.OS(), target.OS())
	} else {
		err = os.Rename(e.path.OS(), target.OS())
	}
	if err != nil {
		return pathErr(ufs.OpMove, e.path, ufs.ErrIO, err)
	}

	e.path = target
	return nil
}

// metadata fills the fields shared by files and directories
func (e *entry) metadata() (ufs.Metadata, os.FileInfo, bool) {
	info, err := e.stat()
	if err != nil {
		return ufs.Metadata{}, nil, false
	}

	md := ufs.Metadata{
		Name:     e.Name(),
		Modified: info.ModTime(),
	}

	mode := info.Mode().String()
	if len(mode) >= 9 {
		if perm, err := ufs.ParseSymbolicPermissions(mode[len(mode)-9:]); err == nil {
			md.Permissions = perm
		}
	}

	md.Owner, md.Group = ownership(info)

	md.Created = birthTime(e.path.OS(), info)
	if md.Created.IsZero() {
		if ct, err := e.b.native.ChangeTime(e.path.OS()); err == nil {
			md.Created = ct
		} else {
			md.Created = info.ModTime()
		}
	}
	return md, info, true
}

// ============================================================================
// Native primitives
// ============================================================================

// AccessTime returns the last access time
func (e *entry) AccessTime() (time.Time, error) { return e.b.native.AccessTime(e.path.OS()) }

// ModTime returns the last modification time
func (e *entry) ModTime() (time.Time, error) { return e.b.native.ModTime(e.path.OS()) }

// ChangeTime returns the last status change time
func (e *entry) ChangeTime() (time.Time, error) { return e.b.native.ChangeTime(e.path.OS()) }

// Readlink returns the destination of a symbolic link
func (e *entry) Readlink() (string, error) { return e.b.native.Readlink(e.path.OS()) }

// Executable reports whether the current user may execute the entry
func (e *entry) Executable() bool { return e.b.native.Executable(e.path.OS()) }

// Readable reports whether the current user may read the entry
func (e *entry) Readable() bool { return e.b.native.Readable(e.path.OS()) }

// Writable reports whether the current user may write the entry
func (e *entry) Writable() bool { return e.b.native.Writable(e.path.OS()) }

// Symlink creates the entry as a symbolic link to target
func (e *entry) Symlink(target string) error {
	return e.b.native.Symlink(target, e.path.OS())
}

// Link creates the entry as a hard link to target
func (e *entry) Link(target string) error {
	return e.b.native.Link(target, e.path.OS())
}

// Chtimes changes the access and modification times
func (e *entry) Chtimes(atime, mtime time.Time) error {
	return e.b.native.Chtimes(atime, e.path.OS(), mtime)
}
