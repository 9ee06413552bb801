package dto

import "errors"

var (
	ErrNoFiles             = errors.New("no files provided")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum size")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrUnknownPlatform     = errors.New("could not detect platform")
	ErrInvalidText         = errors.New("text is not valid UTF-8")
	ErrEmptyText           = errors.New("no text could be extracted")
	ErrMalformedRow        = errors.New("row is not a key-value mapping")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// DocumentResult is the outcome for one uploaded document.
type DocumentResult struct {
	SourceFile string            `json:"source_file"`
	Platform   Platform          `json:"platform"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Quality    DocumentQuality   `json:"quality"`
	Row        map[string]string `json:"row,omitempty"`
}

// ExtractResponse is the final response structure
type ExtractResponse struct {
	Results     []DocumentResult `json:"results"`
	NeedsReview int              `json:"needs_review"`
	Failed      int              `json:"failed"`
	ProcessedAt string           `json:"processed_at"`
}
