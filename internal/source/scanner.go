package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks dir and discovers plan files by extension. Hidden
// directories are skipped; unreadable entries are ignored. If dir is itself
// a plan file it is returned alone.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		format, err := DetectFormat(dir)
		if err != nil {
			return nil, err
		}
		return []DiscoveredFile{{Path: dir, Format: format, Rel: filepath.Base(dir)}}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		format, ferr := DetectFormat(path)
		if ferr != nil {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		files = append(files, DiscoveredFile{Path: path, Format: format, Rel: rel})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, err
}

// CountFormats returns how many discovered files use each format.
func CountFormats(files []DiscoveredFile) map[Format]int {
	counts := make(map[Format]int)
	for _, f := range files {
		counts[f.Format]++
	}
	return counts
}
