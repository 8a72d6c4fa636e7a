package domain

import (
	"strings"
	"unicode"
)

// Slugify converts a display name into a URL-safe slug: lowercase, with
// runs of non-alphanumeric characters collapsed to single hyphens.
// Uniqueness is the store's responsibility; it appends a numeric suffix
// when the generated slug collides.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
