package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Upload limits published by the analyze endpoint. The client checks them
// before uploading so the user sees the failure without a round trip.
const (
	MaxFiles             = 20
	MaxImageBytesPerFile = 8 * 1024 * 1024
	MaxTotalImageBytes   = 24 * 1024 * 1024
)

// allowedExtensions lists the file extensions the analyze endpoint accepts.
var allowedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".rtf":  true,
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// AllowedExtensions returns the accepted extensions in display order.
func AllowedExtensions() []string {
	return []string{".txt", ".md", ".csv", ".rtf", ".pdf", ".png", ".jpg", ".jpeg"}
}

// UploadFile is a single file selected for analysis.
type UploadFile struct {
	// Name is the file name sent as the multipart filename.
	Name string

	// Path is where the file was read from.
	Path string

	// MIMEType is detected from the extension.
	MIMEType string

	// Size is the content length in bytes.
	Size int64

	// Content holds the raw file bytes.
	Content []byte
}

// Ext returns the lower-cased file extension including the dot.
func (f UploadFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// IsImage returns true for the image types the backend forwards as images.
func (f UploadFile) IsImage() bool {
	switch f.Ext() {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// FileSelection is the ordered set of files chosen by the user.
type FileSelection struct {
	Files []UploadFile
}

// Len returns the number of selected files.
func (s *FileSelection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Files)
}

// IsEmpty returns true if nothing is selected.
func (s *FileSelection) IsEmpty() bool {
	return s.Len() == 0
}

// Names returns the selected file names in selection order.
// These are rendered as chips in the UI.
func (s *FileSelection) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Files))
	for i := range s.Files {
		names[i] = s.Files[i].Name
	}
	return names
}

// Summary returns the one-line selection summary.
func (s *FileSelection) Summary() string {
	if s.IsEmpty() {
		return "No files selected."
	}
	return fmt.Sprintf("%d file(s) selected", s.Len())
}

// ValidateSelection checks a selection against the upload limits.
// Empty files are dropped from the returned selection and reported as skipped.
func ValidateSelection(sel *FileSelection) (*FileSelection, []string, error) {
	if sel.IsEmpty() {
		return nil, nil, ErrNoFilesSelected
	}
	if sel.Len() > MaxFiles {
		return nil, nil, fmt.Errorf("%w: max allowed is %d", ErrTooManyFiles, MaxFiles)
	}

	kept := make([]UploadFile, 0, sel.Len())
	var skipped []string
	var totalImageBytes int64

	for i := range sel.Files {
		f := sel.Files[i]
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}

		if ext := f.Ext(); ext != "" && !allowedExtensions[ext] {
			return nil, nil, fmt.Errorf("%w for '%s'. Allowed: %s",
				ErrUnsupportedFile, name, strings.Join(AllowedExtensions(), ", "))
		}

		if f.Size == 0 {
			skipped = append(skipped, name)
			continue
		}

		if f.IsImage() {
			if f.Size > MaxImageBytesPerFile {
				return nil, nil, fmt.Errorf("%w: '%s' exceeds %dMB image limit",
					ErrFileTooLarge, name, MaxImageBytesPerFile/(1024*1024))
			}
			totalImageBytes += f.Size
			if totalImageBytes > MaxTotalImageBytes {
				return nil, nil, fmt.Errorf("%w: total image upload size exceeds %dMB",
					ErrFileTooLarge, MaxTotalImageBytes/(1024*1024))
			}
		}

		kept = append(kept, f)
	}

	if len(kept) == 0 {
		return nil, skipped, ErrNoFilesSelected
	}

	return &FileSelection{Files: kept}, skipped, nil
}
