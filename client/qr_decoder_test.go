package client

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRDecoderRoundTrip(t *testing.T) {
	payload := "RCSTH2025011512345|1070.00"

	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))

	got, err := NewQRDecoder().DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestQRDecoderNoCode(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = color.White.Y
	}

	_, err := NewQRDecoder().Decode(img)
	assert.Error(t, err)
}

func TestQRDecoderRejectsGarbage(t *testing.T) {
	_, err := NewQRDecoder().DecodeBytes([]byte("not an image"))
	assert.Error(t, err)
}

func TestMeanConfidence(t *testing.T) {
	assert.Zero(t, meanConfidence(nil))
}
