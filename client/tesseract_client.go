package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
)

type TesseractClient struct {
	dataPath  string
	languages []string
	log       zerolog.Logger
}

func NewTesseractClient(dataPath string, languages []string, log zerolog.Logger) *TesseractClient {
	if len(languages) == 0 {
		languages = []string{"tha", "eng"}
	}
	return &TesseractClient{
		dataPath:  dataPath,
		languages: languages,
		log:       log.With().Str("component", "tesseract").Logger(),
	}
}

// ExtractTextAndQuality runs OCR over an encoded image (PNG, JPEG, ...) and
// returns the text with the mean word confidence (0-100).
func (tc *TesseractClient) ExtractTextAndQuality(imageData []byte) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
			return "", 0, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(tc.languages...); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(imageData); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	// Get bounding boxes to calculate confidence
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		tc.log.Debug().Err(err).Msg("word boxes unavailable, confidence unknown")
		return text, 0, nil
	}

	return text, meanConfidence(boxes), nil
}

// ExtractImageText OCRs a decoded image, such as one pulled out of a PDF.
func (tc *TesseractClient) ExtractImageText(img image.Image) (string, float64, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return tc.ExtractTextAndQuality(buf.Bytes())
}

func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	if len(boxes) == 0 {
		return 0
	}
	var total float64
	for _, box := range boxes {
		total += box.Confidence
	}
	return total / float64(len(boxes))
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	tc.log.Info().Msg("tesseract client closed")
}
