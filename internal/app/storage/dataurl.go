package storage

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxImageBytes caps the decoded size of an offloaded image (8 MB).
const MaxImageBytes = 8 << 20

// allowedImageTypes lists the MIME types accepted for offload.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// ParseDataURL validates and decodes an image data URL of the form
// "data:<mime>;base64,<payload>". It returns the MIME type and the raw bytes.
func ParseDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload")
	}

	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}

	if !allowedImageTypes[mime] {
		return "", nil, fmt.Errorf("unsupported image type %q", mime)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return "", nil, fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	if len(raw) == 0 {
		return "", nil, fmt.Errorf("data URL payload is empty")
	}

	return mime, raw, nil
}

// IsDataURL reports whether s looks like an inline data URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}
