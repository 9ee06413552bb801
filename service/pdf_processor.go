package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

type PDFProcessor interface {
	ExtractText(pdfData []byte, password string) (string, error)
	ExtractImages(pdfData []byte, password string) ([]image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// A gap wider than this share of the font size between two glyph runs is
// rendered as a space. Marketplace PDFs often position every word
// separately without emitting space characters.
const wordGapRatio = 0.15

func (p *pdfProcessor) ExtractText(pdfData []byte, password string) (string, error) {
	reader := bytes.NewReader(pdfData)

	var (
		r   *pdf.Reader
		err error
	)
	if password != "" {
		r, err = pdf.NewReaderEncrypted(reader, int64(len(pdfData)), func() string { return password })
	} else {
		r, err = pdf.NewReader(reader, int64(len(pdfData)))
	}
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}
		for _, row := range rows {
			textBuilder.WriteString(joinRow(row.Content))
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// joinRow concatenates the glyph runs of one text row left to right,
// inserting a space wherever the runs are visibly apart.
func joinRow(words []pdf.Text) string {
	sorted := append([]pdf.Text(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var sb strings.Builder
	for i, w := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			gap := w.X - (prev.X + prev.W)
			size := max(w.FontSize, prev.FontSize, 1)
			if gap > size*wordGapRatio && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(w.S, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(w.S)
	}
	return sb.String()
}

func (p *pdfProcessor) ExtractImages(pdfData []byte, password string) ([]image.Image, error) {
	// Create a temporary directory for extraction
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "invoice-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
	}

	// nil selects every page
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}

		// Formats without a registered decoder (TIFF, JBIG2) are skipped.
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}
