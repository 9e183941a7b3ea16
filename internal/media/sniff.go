// Package media classifies uploaded bytes by their leading signature.
package media

import (
	"bytes"
	"path"
	"strings"
)

// Format describes a supported image encoding.
type Format struct {
	MIME      string
	Extension string
}

var (
	JPEG = Format{MIME: "image/jpeg", Extension: "jpg"}
	PNG  = Format{MIME: "image/png", Extension: "png"}
	GIF  = Format{MIME: "image/gif", Extension: "gif"}
	WEBP = Format{MIME: "image/webp", Extension: "webp"}
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gifMagic  = []byte("GIF8")
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

// Detect inspects the leading bytes of data. The second result is false when
// no supported signature matches; claimed names and content types are never consulted.
func Detect(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG, true
	case bytes.HasPrefix(data, pngMagic):
		return PNG, true
	case bytes.HasPrefix(data, gifMagic):
		return GIF, true
	case len(data) >= 12 && bytes.Equal(data[0:4], riffMagic) && bytes.Equal(data[8:12], webpMagic):
		return WEBP, true
	}
	return Format{}, false
}

// AllowedExtension reports whether a filename carries one of the accepted image extensions.
// Used only as a cheap pre-check before downloading; storage decisions rely on Detect.
func AllowedExtension(name string) bool {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "jpg", "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
