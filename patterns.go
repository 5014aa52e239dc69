package photodupe

import (
	"path/filepath"
	"strings"
)

// ImageExtensions maps lower-cased file extensions to their MIME type. HEIC
// is listed so such files enter a batch; they fail to decode and end up
// NotAnalyzed.
var ImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
}

// IsImageFile reports whether path has an image extension.
func IsImageFile(path string) bool {
	_, ok := ImageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// MIMEType returns the MIME type for path's extension, or "".
func MIMEType(path string) string {
	return ImageExtensions[strings.ToLower(filepath.Ext(path))]
}

// splitPath returns the base filename and the containing folder of a
// slash-separated relative path. Files at the top level live in "Root".
func splitPath(p string) (filename, folder string) {
	p = filepath.ToSlash(p)
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return p, "Root"
	}
	folder = p[:idx]
	if folder == "" {
		folder = "Root"
	}
	return p[idx+1:], folder
}
