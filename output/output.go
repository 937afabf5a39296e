// Package output names and prepares the files a run writes.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxSuffix bounds the collision search in UniquePath.
const MaxSuffix = 100000

// SegmentPath returns dir/segment_<index>.<ext>.
func SegmentPath(dir string, index uint, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(dir, fmt.Sprintf("segment_%d.%s", index, ext))
}

// UniquePath returns path if nothing exists there, otherwise the first free
// name of the form base_1.ext, base_2.ext, ... The suffix goes before the
// extension.
func UniquePath(path string) (string, error) {
	free, err := isFree(path)
	if err != nil || free {
		return path, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; n <= MaxSuffix; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		free, err := isFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free name for %s after %d attempts", path, MaxSuffix)
}

// UniqueSegmentPath combines SegmentPath and UniquePath.
func UniqueSegmentPath(dir string, index uint, ext string) (string, error) {
	return UniquePath(SegmentPath(dir, index, ext))
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, fmt.Errorf("failed to check %s: %w", path, err)
}
