package domain

import "strings"

// MaxUploadSize is the upload size limit in bytes. Larger payloads are
// rejected before any processing.
const MaxUploadSize = 3 << 20 // 3 MiB

// SanitizeFilename replaces every character outside [a-zA-Z0-9._-] with
// an underscore. The result is safe to use in storage keys and paths.
func SanitizeFilename(name string) string {
	if name == "" {
		return "uploaded_file"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
