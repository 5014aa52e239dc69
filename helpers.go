package photodupe

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const thumbnailQuality = 85

// EncodeDataURL creates a data: URI from bytes and MIME type.
func EncodeDataURL(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// Thumbnail renders img as a size x size JPEG preview (aspect ratio is not
// kept) and returns it as a data URL.
func Thumbnail(img image.Image, size int) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", errEmptyImage
	}
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	small := imaging.Resize(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, small, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return "", fmt.Errorf("photodupe: encode thumbnail: %w", err)
	}
	return EncodeDataURL(buf.Bytes(), "image/jpeg"), nil
}
