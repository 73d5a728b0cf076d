// Package scan inspects snapshot directories on disk. It only reads.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// vcsDirs are metadata directories skipped while walking a snapshot.
var vcsDirs = []string{".git", ".hg", ".svn", ".bzr"}

// Subdirectories returns the immediate subdirectories of dir as full paths,
// sorted by name. Hidden directories and symlinks are skipped.
func Subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	slices.Sort(out)
	return out, nil
}

// Stats summarizes the regular files under a snapshot.
type Stats struct {
	Path          string
	Files         int
	SizeBytes     int64
	FirstModified time.Time
	LastModified  time.Time
	NewestFile    string // path of the file modified at LastModified
}

// Stat walks dir and collects file count, total size and the range of
// modification times. Symlinks and version-control metadata are skipped.
// An empty directory reports its own mtime for both bounds.
func Stat(dir string) (*Stats, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	st := &Stats{Path: dir}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && slices.Contains(vcsDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}

		st.Files++
		st.SizeBytes += fi.Size()
		mtime := fi.ModTime()
		if st.FirstModified.IsZero() || mtime.Before(st.FirstModified) {
			st.FirstModified = mtime
		}
		if st.NewestFile == "" || mtime.After(st.LastModified) {
			st.LastModified = mtime
			st.NewestFile = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if st.Files == 0 {
		st.FirstModified = info.ModTime()
		st.LastModified = info.ModTime()
	}
	return st, nil
}

// NewestFile returns the most recently modified file under dir and its
// modification time. It returns "" for a directory without files.
func NewestFile(dir string) (string, time.Time, error) {
	st, err := Stat(dir)
	if err != nil {
		return "", time.Time{}, err
	}
	return st.NewestFile, st.LastModified, nil
}
