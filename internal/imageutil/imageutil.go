package imageutil

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// ErrBadEncoding is returned when a payload is not valid base64.
var ErrBadEncoding = errors.New("invalid base64 image data")

// DecodeImage decodes a base64 image payload. data:URI prefixes are stripped
// and URL-safe base64 is accepted as a fallback.
func DecodeImage(s string) ([]byte, error) {
	s = stripDataURL(strings.TrimSpace(s))
	if s == "" {
		return nil, ErrBadEncoding
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return nil, ErrBadEncoding
}

// stripDataURL drops a "data:<mime>;base64," prefix when present.
func stripDataURL(s string) string {
	if i := strings.Index(s, ","); i != -1 && strings.HasPrefix(strings.ToLower(s[:i]), "data:") {
		return s[i+1:]
	}
	return s
}

// SniffMIME detects the image type from magic bytes.
func SniffMIME(b []byte) string {
	// JPEG: FF D8
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	// PNG
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	// GIF87a / GIF89a
	if len(b) >= 6 && b[0] == 'G' && b[1] == 'I' && b[2] == 'F' && b[3] == '8' {
		return "image/gif"
	}
	return http.DetectContentType(b)
}
