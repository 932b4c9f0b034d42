// Package fileutil moves files and directory trees on an afero filesystem.
//
// Moves try a rename first. When source and destination live on different
// devices the rename fails with EXDEV and the move falls back to a verified
// copy followed by removal of the source.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(fsys afero.Fs, dir string) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// IsCrossDevice reports whether err is a rename failure across filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// MoveFile moves src to dst, creating dst's parent directory. dst must not exist.
func MoveFile(fsys afero.Fs, src, dst string) error {
	if err := EnsureDir(fsys, filepath.Dir(dst)); err != nil {
		return err
	}
	err := fsys.Rename(src, dst)
	if err == nil || !IsCrossDevice(err) {
		return err
	}
	if err := CopyFileVerified(fsys, src, dst); err != nil {
		return err
	}
	if err := fsys.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// MoveDir moves the tree rooted at src to dst, creating dst's parent. dst must
// not exist.
func MoveDir(fsys afero.Fs, src, dst string) error {
	if err := EnsureDir(fsys, filepath.Dir(dst)); err != nil {
		return err
	}
	err := fsys.Rename(src, dst)
	if err == nil || !IsCrossDevice(err) {
		return err
	}
	if err := CopyTree(fsys, src, dst); err != nil {
		_ = fsys.RemoveAll(dst)
		return err
	}
	if err := fsys.RemoveAll(src); err != nil {
		return fmt.Errorf("remove source tree after copy: %w", err)
	}
	return nil
}

// CopyTree copies every directory and regular file under src into dst,
// preserving modes and modification times.
func CopyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case info.IsDir():
			return fsys.MkdirAll(target, info.Mode().Perm())
		case info.Mode().IsRegular():
			return CopyFileVerified(fsys, path, target)
		default:
			return nil
		}
	})
}

// CopyFileVerified streams src to dst with xxhash + size integrity verification,
// carrying over the source mode and modification time. Removes dst on mismatch.
func CopyFileVerified(fsys afero.Fs, src, dst string) error {
	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := xxhash.New()
	tee := io.TeeReader(in, srcHasher)

	written, err := io.Copy(out, tee)
	if err != nil {
		_ = fsys.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = fsys.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = fsys.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	dstSum, err := HashFile(fsys, dst)
	if err != nil {
		_ = fsys.Remove(dst)
		return fmt.Errorf("hash copy: %w", err)
	}
	if dstSum != srcHasher.Sum64() {
		_ = fsys.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	_ = fsys.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
	return nil
}

// HashFile returns the xxhash64 digest of a file's contents.
func HashFile(fsys afero.Fs, path string) (uint64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
