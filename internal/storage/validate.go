package storage

import (
	"ctchen222/pokedex/internal/apperr"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const imageField = "image"

var allowedExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "tiff": {}, "gif": {}, "bmp": {}, "raw": {},
}

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {}, "image/jpg": {}, "image/png": {}, "image/tiff": {},
	"image/gif": {}, "image/bmp": {}, "image/x-raw": {},
}

// Formats content sniffing must resolve to.
var sniffedImageTypes = []string{"image/jpeg", "image/png", "image/tiff", "image/gif", "image/bmp"}

// ValidateImage checks an upload's extension, declared content type and
// sniffed content, in that order. The first failing check is reported.
func ValidateImage(filename, declaredType string, content []byte) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return apperr.Validation(imageField, "unsupported file extension %q", ext)
	}

	mediaType, _, err := mime.ParseMediaType(declaredType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(declaredType))
	}
	if _, ok := allowedContentTypes[mediaType]; !ok {
		return apperr.Validation(imageField, "unsupported content type %q", declaredType)
	}

	if len(content) == 0 {
		return apperr.Validation(imageField, "content is not a recognized image")
	}
	detected := mimetype.Detect(content)
	for _, t := range sniffedImageTypes {
		if detected.Is(t) {
			return nil
		}
	}
	return apperr.Validation(imageField, "content is not a recognized image (detected %s)", detected.String())
}

// ObjectKey is the storage key for a pokemon's image: images/{id}/{name}.
func ObjectKey(pokemonID int64, filename string) string {
	return path.Join("images", fmt.Sprint(pokemonID), SanitizeFilename(filename))
}

// SanitizeFilename keeps the base name and replaces anything outside
// [a-z0-9._-] with a dash.
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ToLower(base)

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}

	name := strings.Trim(b.String(), ".-")
	if name == "" {
		return "image"
	}
	return name
}
