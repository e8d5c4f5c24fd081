// Package filesystem loads analysis documents from local files and directories.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader resolves input paths:
//   - a .txt file becomes one document named after the file
//   - a .json list becomes one document per item, named <stem>_<n>
//   - a .json object becomes one document holding the encoded object
//   - a directory yields its *.txt files sorted by name
//   - DemoPath yields the built-in sample corpus
type Loader struct{}

// New creates a filesystem loader.
func New() *Loader {
	return &Loader{}
}

// Load returns the documents at path.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	if path == DemoPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return DemoDocuments(), nil
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: path not found: %s", domain.ErrInvalidInput, path)
		}
		return nil, err
	}

	if info.IsDir() {
		return l.loadDir(ctx, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		doc, err := loadText(path)
		if err != nil {
			return nil, err
		}
		return []domain.Document{doc}, nil
	case ".json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type: %s", domain.ErrInvalidInput, path)
	}
}

// IsSupportedFile reports whether path would be loaded from a directory or as a file.
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return (ext == ".txt" || ext == ".json") && !isHidden(filepath.Base(path))
}

func (l *Loader) loadDir(ctx context.Context, dir string) ([]domain.Document, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	docs := make([]domain.Document, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isHidden(filepath.Base(path)) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		doc, err := loadText(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadText(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		Filename: filepath.Base(path),
		Content:  string(data),
	}, nil
}

func loadJSON(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, path, err)
	}

	base := filepath.Base(path)
	items, ok := value.([]any)
	if !ok {
		content, err := itemText(value)
		if err != nil {
			return nil, err
		}
		return []domain.Document{{Filename: base, Content: content}}, nil
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	docs := make([]domain.Document, 0, len(items))
	for i, item := range items {
		content, err := itemText(item)
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{
			Filename: fmt.Sprintf("%s_%d", stem, i+1),
			Content:  content,
		})
	}
	return docs, nil
}

// itemText returns strings as-is and JSON-encodes anything else.
func itemText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json item: %w", err)
	}
	return string(data), nil
}

// isHidden returns true for dot-files.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
