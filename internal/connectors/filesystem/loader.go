package filesystem

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.FileLoader = (*Loader)(nil)

// mimeTypes covers the extensions the backend accepts.
// Anything else falls back to the platform MIME table.
var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".rtf":  "application/rtf",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Loader reads files from the local filesystem.
type Loader struct{}

// NewLoader creates a new filesystem loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the files at paths in order, skipping repeated paths.
// Images over the per-file limit are not read; their size alone fails validation.
func (l *Loader) Load(ctx context.Context, paths []string) (*domain.FileSelection, error) {
	sel := &domain.FileSelection{}
	seen := make(map[string]bool, len(paths))

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p) == "" {
			continue
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		if seen[abs] {
			logger.Debug("Skipping duplicate selection %s", abs)
			continue
		}
		seen[abs] = true

		file, err := readFile(abs)
		if err != nil {
			return nil, err
		}
		sel.Files = append(sel.Files, file)
	}

	return sel, nil
}

func readFile(path string) (domain.UploadFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.UploadFile{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	file := domain.UploadFile{
		Name:     filepath.Base(path),
		Path:     path,
		MIMEType: detectMIMEType(path),
		Size:     info.Size(),
	}

	if file.IsImage() && file.Size > domain.MaxImageBytesPerFile {
		return file, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	file.Content = content
	file.Size = int64(len(content))

	return file, nil
}

// detectMIMEType returns the MIME type for a file name without parameters.
func detectMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "text/plain"
	}
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return "application/octet-stream"
}
