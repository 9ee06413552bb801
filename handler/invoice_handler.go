package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/export"
	"github.com/Aashish23092/marketplace-invoice-importer/extractor"
	"github.com/Aashish23092/marketplace-invoice-importer/logger"
)

// InvoiceProcessor is the part of service.InvoiceService the handler uses.
type InvoiceProcessor interface {
	Process(ctx context.Context, doc dto.SourceDocument) dto.DocumentResult
	ProcessBatch(ctx context.Context, docs []dto.SourceDocument) ([]dto.DocumentResult, error)
}

type InvoiceHandler struct {
	invoiceService InvoiceProcessor
	maxFileSize    int64
}

func NewInvoiceHandler(invoiceService InvoiceProcessor, maxFileSize int64) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		maxFileSize:    maxFileSize,
	}
}

// Extract handles POST /invoices/extract with multipart files[].
func (h *InvoiceHandler) Extract(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	}

	request := &dto.ExtractRequest{
		Files:    form.File["files[]"],
		Platform: c.PostForm("platform"),
		Password: c.PostForm("password"),
	}
	if err := request.Validate(h.maxFileSize); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, dto.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.sendError(c, status, "Invalid upload", err)
		return
	}

	platform := dto.ParsePlatform(request.Platform)
	docs := make([]dto.SourceDocument, 0, len(request.Files))
	for _, fh := range request.Files {
		data, err := readUpload(fh)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "Failed to read upload", err)
			return
		}
		docs = append(docs, dto.SourceDocument{
			Filename: fh.Filename,
			Data:     data,
			Password: request.Password,
			Platform: platform,
		})
	}

	log.Info().Int("files", len(docs)).Str("platform", string(platform)).Msg("processing invoices")

	results, err := h.invoiceService.ProcessBatch(c.Request.Context(), docs)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to process invoices", err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(results))
}

// ExtractText handles POST /invoices/extract-text for text that was
// extracted elsewhere.
func (h *InvoiceHandler) ExtractText(c *gin.Context) {
	var request dto.ExtractTextRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	platform := dto.ParsePlatform(request.Platform)
	if request.Platform != "" && platform == dto.PlatformUnknown {
		h.sendError(c, http.StatusBadRequest, "Invalid platform", fmt.Errorf("%w: %q", dto.ErrUnsupportedPlatform, request.Platform))
		return
	}

	result := h.invoiceService.Process(c.Request.Context(), dto.SourceDocument{
		Filename: request.Filename,
		Text:     request.Text,
		Platform: platform,
	})
	if result.Status == dto.StatusFailed {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export handles POST /invoices/export?format=csv|xlsx. Rows may have been
// edited by the caller, so each one is parsed and sanitized again.
func (h *InvoiceHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid export format", err)
		return
	}

	var request dto.ExportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows := make([]dto.PeakRow, 0, len(request.Rows))
	for i, raw := range request.Rows {
		row, err := extractor.RowFromMap(raw)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "Invalid row", fmt.Errorf("row %d: %w", i+1, err))
			return
		}
		rows = append(rows, extractor.SanitizeRow(row))
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to export rows", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Health handles GET /health
func (h *InvoiceHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Marketplace Invoice Importer",
	})
}

func buildResponse(results []dto.DocumentResult) dto.ExtractResponse {
	response := dto.ExtractResponse{
		Results:     results,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, r := range results {
		switch r.Status {
		case dto.StatusNeedsReview:
			response.NeedsReview++
		case dto.StatusFailed:
			response.Failed++
		}
	}
	return response
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return data, nil
}

// sendError sends a structured error response
func (h *InvoiceHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log := logger.FromContext(c.Request.Context())
		log.Warn().Err(err).Int("status", statusCode).Msg(message)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   errorCode(err),
		Message: errorMsg,
		Code:    statusCode,
	})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, dto.ErrNoFiles):
		return "NO_FILES"
	case errors.Is(err, dto.ErrUnsupportedFileType):
		return "UNSUPPORTED_FILE_TYPE"
	case errors.Is(err, dto.ErrFileTooLarge):
		return "FILE_TOO_LARGE"
	case errors.Is(err, dto.ErrUnsupportedPlatform):
		return "UNSUPPORTED_PLATFORM"
	case errors.Is(err, dto.ErrUnsupportedFormat):
		return "UNSUPPORTED_FORMAT"
	case errors.Is(err, dto.ErrMalformedRow):
		return "MALFORMED_ROW"
	}
	return "EXTRACTION_FAILED"
}

// RequestLogger logs each request and makes a request-scoped logger
// available through logger.FromContext.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := logger.WithFields(base, map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

		c.Next()

		reqLog.Info().
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}
