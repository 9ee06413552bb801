package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/extractor"
	"github.com/Aashish23092/marketplace-invoice-importer/logger"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

// OCRClient reads text out of images.
type OCRClient interface {
	ExtractTextAndQuality(imageData []byte) (string, float64, error)
	ExtractImageText(img image.Image) (string, float64, error)
}

// QRReader decodes QR codes printed on invoices.
type QRReader interface {
	Decode(img image.Image) (string, error)
	DecodeBytes(data []byte) (string, error)
}

type InvoiceOptions struct {
	// MinPDFTextChars is the number of non-space characters a PDF text
	// layer needs before OCR is skipped.
	MinPDFTextChars  int
	BatchConcurrency int
	// MaxFeeItems overrides the per-vendor fee breakdown cap when positive.
	MaxFeeItems int
}

// InvoiceService turns uploaded documents into PEAK rows.
type InvoiceService struct {
	pdfProcessor PDFProcessor
	ocr          OCRClient
	qr           QRReader
	opts         InvoiceOptions
	log          zerolog.Logger
}

// NewInvoiceService creates an InvoiceService. qr may be nil to skip QR
// decoding.
func NewInvoiceService(pdfProcessor PDFProcessor, ocr OCRClient, qr QRReader, opts InvoiceOptions, log zerolog.Logger) *InvoiceService {
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = 1
	}
	return &InvoiceService{
		pdfProcessor: pdfProcessor,
		ocr:          ocr,
		qr:           qr,
		opts:         opts,
		log:          log.With().Str("component", "invoice_service").Logger(),
	}
}

// Process extracts one document. Failures are reported in the result, never
// as a panic or a partial row.
func (s *InvoiceService) Process(ctx context.Context, doc dto.SourceDocument) dto.DocumentResult {
	log := logger.WithFields(s.log, map[string]any{"file": doc.Filename})
	result := dto.DocumentResult{SourceFile: doc.Filename}

	text, quality, err := s.AcquireText(ctx, doc)
	result.Quality = quality
	if err != nil {
		return s.fail(log, result, err)
	}

	platform := doc.Platform
	if platform == dto.PlatformUnknown {
		platform = extractor.DetectPlatform(text, doc.Filename)
	}
	result.Platform = platform
	if platform == dto.PlatformUnknown {
		return s.fail(log, result, dto.ErrUnknownPlatform)
	}

	var opts []extractor.Option
	if s.opts.MaxFeeItems > 0 {
		opts = append(opts, extractor.WithMaxFeeItems(s.opts.MaxFeeItems))
	}
	row, err := extractor.Extract(platform, text, opts...)
	if err != nil {
		return s.fail(log, result, err)
	}
	row.SourceFile = doc.Filename
	row.Status = ReviewStatus(row)

	result.Status = row.Status
	result.Row = extractor.FormatRow(row)

	log.Info().
		Str("platform", string(platform)).
		Str("status", row.Status).
		Str("source", string(quality.Source)).
		Str("invoice_no", row.GInvoiceNo).
		Msg("invoice extracted")
	return result
}

func (s *InvoiceService) fail(log zerolog.Logger, result dto.DocumentResult, err error) dto.DocumentResult {
	log.Warn().Err(err).Msg("invoice extraction failed")
	result.Status = dto.StatusFailed
	result.Error = err.Error()
	return result
}

// ReviewStatus flags rows missing an invoice number or a paid amount.
func ReviewStatus(row dto.PeakRow) string {
	if row.GInvoiceNo == "" || row.RPaidAmount == "" {
		return dto.StatusNeedsReview
	}
	return dto.StatusOK
}

// ProcessBatch extracts documents concurrently. Results keep the input
// order and successful rows are numbered 1..n in that order. A failed
// document does not fail the batch; only cancellation does.
func (s *InvoiceService) ProcessBatch(ctx context.Context, docs []dto.SourceDocument) ([]dto.DocumentResult, error) {
	results := make([]dto.DocumentResult, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)

	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.Process(ctx, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	seq := 0
	for i := range results {
		if results[i].Row == nil {
			continue
		}
		seq++
		results[i].Row["A_seq"] = strconv.Itoa(seq)
	}

	s.log.Info().Int("documents", len(docs)).Int("rows", seq).Msg("batch processed")
	return results, nil
}

// AcquireText returns the normalized text of a document: the given text,
// a .txt file's contents, a PDF's text layer, or OCR of a scan.
func (s *InvoiceService) AcquireText(ctx context.Context, doc dto.SourceDocument) (string, dto.DocumentQuality, error) {
	var (
		text    string
		quality dto.DocumentQuality
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(doc.Filename)); {
	case doc.Text != "":
		text, quality.Source = doc.Text, dto.SourcePlainText
	case ext == ".txt":
		text, quality.Source = string(doc.Data), dto.SourcePlainText
	case ext == ".pdf":
		text, quality, err = s.pdfText(ctx, doc)
	case ext == ".png" || ext == ".jpg" || ext == ".jpeg":
		text, quality, err = s.imageText(doc.Data)
	default:
		err = fmt.Errorf("%w: %q", dto.ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return "", quality, err
	}

	if !utf8.ValidString(text) {
		return "", quality, dto.ErrInvalidText
	}
	text = utils.NormalizeText(text)
	quality.TextLength = utf8.RuneCountInString(text)
	if text == "" {
		return "", quality, dto.ErrEmptyText
	}
	return text, quality, nil
}

func (s *InvoiceService) pdfText(ctx context.Context, doc dto.SourceDocument) (string, dto.DocumentQuality, error) {
	quality := dto.DocumentQuality{Source: dto.SourcePDFText}

	text, err := s.pdfProcessor.ExtractText(doc.Data, doc.Password)
	if err != nil {
		// Scans sometimes carry a text layer ledongthuc cannot parse; the
		// images may still be readable.
		s.log.Debug().Err(err).Str("file", doc.Filename).Msg("pdf text layer unreadable")
	}
	if err == nil && visibleChars(text) >= s.opts.MinPDFTextChars {
		return text, quality, nil
	}

	if err := ctx.Err(); err != nil {
		return "", quality, err
	}
	images, imgErr := s.pdfProcessor.ExtractImages(doc.Data, doc.Password)
	if imgErr != nil || len(images) == 0 {
		if err == nil && strings.TrimSpace(text) != "" {
			return text, quality, nil
		}
		return "", quality, errors.Join(dto.ErrEmptyText, err, imgErr)
	}

	quality.Source = dto.SourceOCR
	var (
		parts      []string
		confidence float64
	)
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return "", quality, err
		}
		pageText, conf, err := s.ocr.ExtractImageText(img)
		if err != nil {
			s.log.Warn().Err(err).Str("file", doc.Filename).Msg("ocr failed on embedded image")
			continue
		}
		parts = append(parts, pageText)
		confidence += conf
		if payload := s.decodeQR(func() (string, error) { return s.qr.Decode(img) }); payload != "" {
			parts = append(parts, payload)
			quality.QRDecoded = true
		}
	}
	if len(parts) == 0 {
		return "", quality, dto.ErrEmptyText
	}
	quality.OcrConfidence = confidence / float64(len(images))
	return strings.Join(parts, "\n"), quality, nil
}

func (s *InvoiceService) imageText(data []byte) (string, dto.DocumentQuality, error) {
	quality := dto.DocumentQuality{Source: dto.SourceOCR}

	text, conf, err := s.ocr.ExtractTextAndQuality(data)
	if err != nil {
		return "", quality, fmt.Errorf("ocr: %w", err)
	}
	quality.OcrConfidence = conf

	if payload := s.decodeQR(func() (string, error) { return s.qr.DecodeBytes(data) }); payload != "" {
		text += "\n" + payload
		quality.QRDecoded = true
	}
	return text, quality, nil
}

// decodeQR returns "" when QR decoding is disabled or finds nothing; most
// invoices carry no QR code.
func (s *InvoiceService) decodeQR(decode func() (string, error)) string {
	if s.qr == nil {
		return ""
	}
	payload, err := decode()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(payload)
}

func visibleChars(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
