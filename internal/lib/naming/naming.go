// Package naming generates record identifiers and filesystem-safe file names
// for uploaded photos.
package naming

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier for albums, tags and gallery items.
// Generation does not consult the live collections; callers check for
// collisions against the loaded document.
func NewID() string {
	return uuid.New().String()
}

// Slugify lower-cases s and replaces every run of characters outside
// [a-z0-9-_] with a single hyphen, trimming hyphens at both ends. An input
// with no usable characters yields "".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	pending := false

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		case r == '-':
			pending = true
		default:
			pending = true
		}
	}

	return b.String()
}

// StoredFilename builds the on-disk name for an upload: slug of base (or of
// the original name without its extension, when base is empty), a
// millisecond timestamp, and the lower-cased original extension. Uploads
// with no extension default to ".jpg". A base that slugifies to "" is
// accepted; the name then starts with the timestamp.
func StoredFilename(base, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}

	if base == "" {
		base = strings.TrimSuffix(originalName, filepath.Ext(originalName))
	}

	slug := Slugify(base)
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

	if slug == "" {
		return ts + ext
	}

	return slug + "-" + ts + ext
}

// ThumbnailName derives the "-thumb" sibling of a stored filename.
func ThumbnailName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "-thumb" + ext
}
