package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_Load_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.md", "# Genetics")
	a := writeFile(t, dir, "a.txt", "Punnett squares")

	sel, err := NewLoader().Load(context.Background(), []string{b, a})
	require.NoError(t, err)

	assert.Equal(t, []string{"b.md", "a.txt"}, sel.Names())
	assert.Equal(t, "text/markdown", sel.Files[0].MIMEType)
	assert.Equal(t, "text/plain", sel.Files[1].MIMEType)
	assert.Equal(t, []byte("Punnett squares"), sel.Files[1].Content)
	assert.Equal(t, int64(len("Punnett squares")), sel.Files[1].Size)
	assert.Equal(t, a, sel.Files[1].Path)
}

func TestLoader_Load_DropsDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x")

	rel, err := filepath.Rel(mustGetwd(t), a)
	require.NoError(t, err)

	sel, err := NewLoader().Load(context.Background(), []string{a, rel, a, "  "})
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Len())
}

func TestLoader_Load_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader().Load(context.Background(), []string{dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Load_EmptyFileKeptForValidation(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.txt", "")

	sel, err := NewLoader().Load(context.Background(), []string{empty})
	require.NoError(t, err)
	require.Equal(t, 1, sel.Len())
	assert.Zero(t, sel.Files[0].Size)

	_, skipped, err := domain.ValidateSelection(sel)
	assert.ErrorIs(t, err, domain.ErrNoFilesSelected)
	assert.Equal(t, []string{"empty.txt"}, skipped)
}

func TestLoader_Load_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader().Load(ctx, []string{a})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename     string
		expectedMIME string
	}{
		{"noext", "text/plain"},
		{"notes.txt", "text/plain"},
		{"notes.md", "text/markdown"},
		{"table.csv", "text/csv"},
		{"essay.rtf", "application/rtf"},
		{"test.pdf", "application/pdf"},
		{"scan.png", "image/png"},
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"file.zzzzunknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expectedMIME, detectMIMEType(tt.filename))
		})
	}

	t.Run("strips parameters", func(t *testing.T) {
		assert.NotContains(t, detectMIMEType("page.html"), ";")
	})
}

func mustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}
