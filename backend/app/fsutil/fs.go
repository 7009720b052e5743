package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo is the metadata the classifier needs about a candidate file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Ext returns the lower-cased extension including the leading dot.
func (f FileInfo) Ext() string { return strings.ToLower(filepath.Ext(f.Name)) }

// Stem is the filename without its extension.
func (f FileInfo) Stem() string { return strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) }

// FS is the filesystem surface used by the organizer and monitor.
type FS interface {
	Stat(path string) (FileInfo, error)
	IsDir(path string) bool
	// List returns regular files under root. When skip reports true for a
	// directory, nothing beneath it is returned.
	List(ctx context.Context, root string, recursive bool, skip func(dir string) bool) ([]FileInfo, error)
	MkdirAll(path string) error
	Move(src, dst string) error
	Copy(src, dst string) error
	Exists(path string) bool
}

type OS struct{}

func (OS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	if info.IsDir() {
		return FileInfo{}, fmt.Errorf("%s: is a directory", path)
	}
	return FileInfo{Path: path, Name: info.Name(), Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OS) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (OS) MkdirAll(path string) error { return os.MkdirAll(path, 0o755) }

func (o OS) List(ctx context.Context, root string, recursive bool, skip func(dir string) bool) ([]FileInfo, error) {
	root = filepath.Clean(root)
	var out []FileInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			// unreadable entries are skipped; the next scan retries them
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || strings.HasPrefix(d.Name(), ".") || (skip != nil && skip(path)) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		out = append(out, FileInfo{Path: path, Name: d.Name(), Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	return out, err
}

// Move renames src to dst, falling back to copy+remove across devices.
func (o OS) Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !isCrossDevice(linkErr.Err) {
		return err
	}
	if err := o.Copy(src, dst); err != nil {
		return fmt.Errorf("copy across devices: %w", err)
	}
	return os.Remove(src)
}

// Copy streams src to dst preserving the permission bits and mtime. dst must
// not exist; a partial dst is removed on failure.
func (OS) Copy(src, dst string) (err error) {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	written, err := io.Copy(out, in)
	if err != nil {
		return err
	}
	if written != info.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// UniquePath returns dir/name, or dir/stem_N.ext for the smallest N >= 1
// that does not exist yet.
func UniquePath(fsys FS, dir, name string) string {
	candidate := filepath.Join(dir, name)
	if !fsys.Exists(candidate) {
		return candidate
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !fsys.Exists(candidate) {
			return candidate
		}
	}
}

// Within reports whether path equals dir or lies beneath it.
func Within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
