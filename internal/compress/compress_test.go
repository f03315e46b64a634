package compress

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math/rand"
	"testing"
)

// TestSmallPayloadPassthrough: payloads under the threshold come back
// byte-identical.
func TestSmallPayloadPassthrough(t *testing.T) {
	data := []byte("not big enough to bother")
	out, err := Compress(data, "image/png")
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("small payload was modified")
	}
}

// TestSizeCeiling: payloads over the hard limit are rejected with a
// SizeExceededError carrying the measured size.
func TestSizeCeiling(t *testing.T) {
	data := make([]byte, MaxUploadSize+1)
	_, err := Compress(data, "application/pdf")
	if err == nil {
		t.Fatal("expected size error")
	}
	var sizeErr *SizeExceededError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("error type = %T, want *SizeExceededError", err)
	}
	if sizeErr.Size != MaxUploadSize+1 {
		t.Errorf("reported size = %d, want %d", sizeErr.Size, MaxUploadSize+1)
	}
}

// TestGarbageNeverFails: an oversized but undecodable payload falls back
// to the original bytes instead of erroring.
func TestGarbageNeverFails(t *testing.T) {
	data := make([]byte, applyThreshold+1)
	rand.New(rand.NewSource(1)).Read(data)

	for _, mime := range []string{"image/jpeg", "application/pdf", "video/mp4"} {
		out, err := Compress(data, mime)
		if err != nil {
			t.Fatalf("Compress(%s): %v", mime, err)
		}
		if !bytes.Equal(out, data) {
			t.Errorf("Compress(%s) altered undecodable payload", mime)
		}
	}
}

// TestLargeImageShrinks: a wide, poorly-compressed PNG over the
// threshold comes back smaller and stays decodable.
func TestLargeImageShrinks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2600, 1400))
	rnd := rand.New(rand.NewSource(7))
	for i := range img.Pix {
		img.Pix[i] = uint8(rnd.Intn(256)) // noise defeats PNG compression
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if buf.Len() <= applyThreshold {
		t.Skipf("fixture too small (%d bytes), cannot exercise threshold", buf.Len())
	}

	out, err := Compress(buf.Bytes(), "image/png")
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(out) >= buf.Len() {
		t.Errorf("compressed size %d, want < %d", len(out), buf.Len())
	}

	decoded, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("result not decodable: %v", err)
	}
	if w := decoded.Bounds().Dx(); w > 1280 {
		t.Errorf("width after downscale = %d, want <= 1280", w)
	}
}
