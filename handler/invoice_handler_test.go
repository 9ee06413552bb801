package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/service"
)

const lazadaText = `Lazada Company Limited
Tax ID: 0105555040244
Tax Invoice
Invoice No: THMPTI0123456789012345
Invoice Date: 2025-01-15
1 Payment Fee 1,200.00
Total 1,200.00
7% (VAT) 84.00
Total (Including Tax) 1,284.00`

const tiktokText = `TikTok Shop (Thailand) Ltd.
Tax Invoice
Invoice number: TTSTH20250101000123
Invoice date: Jan 15, 2025
Subtotal (excluding VAT) ฿1,000.00
Total VAT 7% ฿70.00
Total amount (including VAT) ฿1,070.00`

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewInvoiceService(service.NewPDFProcessor(), nil, nil, service.InvoiceOptions{
		MinPDFTextChars:  50,
		BatchConcurrency: 2,
	}, zerolog.Nop())
	h := NewInvoiceHandler(svc, 1<<20)

	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	router.GET("/health", h.Health)
	api := router.Group("/api/v1/invoices")
	api.POST("/extract", h.Extract)
	api.POST("/extract-text", h.ExtractText)
	api.POST("/export", h.Export)
	return router
}

type upload struct {
	name    string
	content string
}

func multipartBody(t *testing.T, files []upload, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		part, err := w.CreateFormFile("files[]", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestExtract(t *testing.T) {
	router := setupRouter(t)
	body, contentType := multipartBody(t, []upload{
		{"lazada.txt", lazadaText},
		{"notes.txt", "nothing to see here"},
		{"tiktok.txt", tiktokText},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 0, resp.NeedsReview)
	assert.NotEmpty(t, resp.ProcessedAt)

	assert.Equal(t, dto.PlatformLazada, resp.Results[0].Platform)
	assert.Equal(t, dto.StatusOK, resp.Results[0].Status)
	assert.Equal(t, "1", resp.Results[0].Row["A_seq"])
	assert.Equal(t, "1284.00", resp.Results[0].Row["R_paid_amount"])

	assert.Equal(t, dto.StatusFailed, resp.Results[1].Status)
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.Empty(t, resp.Results[1].Row)

	assert.Equal(t, dto.PlatformTikTok, resp.Results[2].Platform)
	assert.Equal(t, "2", resp.Results[2].Row["A_seq"])
	assert.Equal(t, "TTSTH20250101000123", resp.Results[2].Row["G_invoice_no"])
}

func TestExtractRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name     string
		files    []upload
		fields   map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "no files",
			fields:   map[string]string{"platform": "lazada"},
			wantCode: http.StatusBadRequest,
			wantErr:  "NO_FILES",
		},
		{
			name:     "unsupported extension",
			files:    []upload{{"invoice.docx", "x"}},
			wantCode: http.StatusBadRequest,
			wantErr:  "UNSUPPORTED_FILE_TYPE",
		},
		{
			name:     "too large",
			files:    []upload{{"big.txt", strings.Repeat("a", 1<<20+1)}},
			wantCode: http.StatusRequestEntityTooLarge,
			wantErr:  "FILE_TOO_LARGE",
		},
		{
			name:     "unknown platform",
			files:    []upload{{"lazada.txt", lazadaText}},
			fields:   map[string]string{"platform": "amazon"},
			wantCode: http.StatusBadRequest,
			wantErr:  "UNSUPPORTED_PLATFORM",
		},
	}

	router := setupRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.files, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestExtractWithForcedPlatform(t *testing.T) {
	router := setupRouter(t)
	body, contentType := multipartBody(t, []upload{{"statement.txt", tiktokText}},
		map[string]string{"platform": "TikTok Shop"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, dto.PlatformTikTok, resp.Results[0].Platform)
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestExtractText(t *testing.T) {
	router := setupRouter(t)

	t.Run("detects platform", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/extract-text", dto.ExtractTextRequest{Text: lazadaText})
		require.Equal(t, http.StatusOK, rec.Code)

		var result dto.DocumentResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, dto.PlatformLazada, result.Platform)
		assert.Equal(t, "THMPTI0123456789012345", result.Row["G_invoice_no"])
		assert.Len(t, result.Row, 21)
	})

	t.Run("undetectable text", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/extract-text", dto.ExtractTextRequest{Text: "hello"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var result dto.DocumentResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, dto.StatusFailed, result.Status)
	})

	t.Run("unknown platform", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/extract-text", dto.ExtractTextRequest{Text: lazadaText, Platform: "ebay"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNSUPPORTED_PLATFORM")
	})

	t.Run("missing text", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/extract-text", map[string]string{"platform": "lazada"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExport(t *testing.T) {
	router := setupRouter(t)
	rows := []any{
		map[string]any{"A_seq": 1, "G_invoice_no": "INV-1", "E_tax_id_13": "0105555040244", "F_branch_5": "1", "L_description": "=SUM(A1)"},
	}

	t.Run("csv", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/export?format=csv", dto.ExportRequest{Rows: rows})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Contains(t, rec.Header().Get("Content-Disposition"), "peak_import.csv")
		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
		assert.Contains(t, body, "0105555040244,00001,INV-1")
		assert.Contains(t, body, "'=SUM(A1)")
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/export?format=xlsx", dto.ExportRequest{Rows: rows})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "peak_import.xlsx")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})

	t.Run("unsupported format", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/export?format=pdf", dto.ExportRequest{Rows: rows})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNSUPPORTED_FORMAT")
	})

	t.Run("malformed row", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/invoices/export", dto.ExportRequest{Rows: []any{"not a row"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "MALFORMED_ROW")
	})
}
