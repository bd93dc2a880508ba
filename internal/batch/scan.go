package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions lists input formats the optimizer can decode.
var supportedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
	".avif": true,
}

// Source is a discovered input image.
type Source struct {
	// Name is the file name within the input directory.
	Name string
	// Path is the full path on disk.
	Path string
	// Size is the file size in bytes.
	Size int64
}

// Scan enumerates supported image files directly inside dir, sorted by name.
// Subdirectories and unsupported files are ignored.
func Scan(dir string) ([]Source, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read input directory: %w", err)
	}

	var sources []Source
	var totalSize int64

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !supportedExtensions[ext] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		sources = append(sources, Source{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
		totalSize += info.Size()
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, totalSize, nil
}
