package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"mesh-retriever/internal/domain"
)

// ListDocuments enumerates the files under dir whose names carry the given
// extension (e.g. ".txt"), sorted by name for a stable ingestion order.
// Only the listing is done here; reading happens per document so one bad
// file cannot fail the enumeration.
func ListDocuments(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadDocument loads one file as plain text.
func ReadDocument(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return domain.Document{}, fmt.Errorf("read %s: not valid UTF-8 text", path)
	}
	return domain.Document{
		Name: filepath.Base(path),
		Path: path,
		Text: string(data),
	}, nil
}
