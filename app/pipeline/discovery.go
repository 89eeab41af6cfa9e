package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var sourceFilePattern = regexp.MustCompile(`^\d{8}_.+_raw_data\.(xlsx|csv)$`)

// Discover lists source files in dir in lexicographic order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !sourceFilePattern.MatchString(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// resolveFiles maps an explicit file list onto paths. Bare names are looked
// up in the input directory.
func resolveFiles(dir string, names []string) []string {
	files := make([]string, 0, len(names))
	for _, name := range names {
		if filepath.Base(name) == name {
			if _, err := os.Stat(name); err != nil {
				name = filepath.Join(dir, name)
			}
		}
		files = append(files, name)
	}
	return files
}
