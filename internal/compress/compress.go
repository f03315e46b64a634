// Package compress shrinks evidence payloads before they hit a storage
// provider. Compression is best-effort: any internal failure returns the
// original bytes unchanged. Only the hard size ceiling produces an error.
package compress

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	xdraw "golang.org/x/image/draw"
)

const (
	// applyThreshold: payloads at or below this size are passed through.
	applyThreshold = 2 * 1024 * 1024
	// MaxUploadSize is the hard ceiling; larger payloads are rejected
	// before any network call.
	MaxUploadSize = 50 * 1024 * 1024

	maxImageWidth = 1280
	jpegQuality   = 80
)

// SizeExceededError reports a payload over the hard ceiling, carrying
// the measured size for the user-facing message.
type SizeExceededError struct {
	Size int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("el archivo pesa %.1f MB y excede el límite de %d MB",
		float64(e.Size)/(1024*1024), MaxUploadSize/(1024*1024))
}

// Compress returns a payload no larger than the input, or the input
// unchanged when compression does not apply or does not help. The only
// error returned is *SizeExceededError for payloads over MaxUploadSize.
func Compress(data []byte, mimeType string) ([]byte, error) {
	if int64(len(data)) > MaxUploadSize {
		return nil, &SizeExceededError{Size: int64(len(data))}
	}
	if len(data) <= applyThreshold {
		return data, nil
	}

	var out []byte
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		out = compressImage(data)
	case mimeType == "application/pdf":
		out = compressPDF(data)
	default:
		return data, nil
	}

	// Keep the result only if it actually shrank.
	if out != nil && len(out) < len(data) {
		return out, nil
	}
	return data, nil
}

// compressImage decodes, downscales to maxImageWidth (never upscales)
// and re-encodes as JPEG. Returns nil on any decode/encode failure.
func compressImage(data []byte) []byte {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, maxImageWidth, h*maxImageWidth/w))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Over, nil)
		src = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil
	}
	return buf.Bytes()
}

// compressPDF re-serializes the document through pdfcpu's optimizer,
// which compacts object streams and drops redundant objects. Returns
// nil when the document cannot be processed.
func compressPDF(data []byte) []byte {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, nil); err != nil {
		return nil
	}
	return buf.Bytes()
}
