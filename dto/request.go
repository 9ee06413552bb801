package dto

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ExtractRequest is the multipart upload for invoice extraction.
type ExtractRequest struct {
	Files    []*multipart.FileHeader `form:"files[]" binding:"required"`
	Platform string                  `form:"platform"`
	Password string                  `form:"password"`
}

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".txt":  true,
}

// Validate performs basic validation on the request
func (r *ExtractRequest) Validate(maxFileSize int64) error {
	if len(r.Files) == 0 {
		return ErrNoFiles
	}
	for _, f := range r.Files {
		if !allowedExtensions[strings.ToLower(filepath.Ext(f.Filename))] {
			return ErrUnsupportedFileType
		}
		if maxFileSize > 0 && f.Size > maxFileSize {
			return ErrFileTooLarge
		}
	}
	if r.Platform != "" && ParsePlatform(r.Platform) == PlatformUnknown {
		return ErrUnsupportedPlatform
	}
	return nil
}

// ExtractTextRequest extracts a row from text that was already pulled out
// of a PDF elsewhere.
type ExtractTextRequest struct {
	Text     string `json:"text" binding:"required"`
	Platform string `json:"platform"`
	Filename string `json:"filename"`
}

// ExportRequest carries formatted rows back for CSV/XLSX download.
type ExportRequest struct {
	Rows []any `json:"rows" binding:"required"`
}
