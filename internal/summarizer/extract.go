package summarizer

import (
	"strings"
	"unicode/utf8"
)

// bulletMarkers are the runes a generated line must start with to be
// treated as a bullet point.
const bulletMarkers = "•-*"

// ExtractBullets turns raw generated text into an ordered list of
// bullet strings. Lines that do not start with a bullet marker are
// filtered out, not an error: free-form text degrades to an empty
// result. Every leading marker rune is stripped, not just the first
// one, so a dash that opens the content itself is lost too.
func ExtractBullets(text string) []string {
	bullets := []string{}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !startsWithBulletMarker(trimmed) {
			continue
		}

		cleaned := strings.TrimSpace(strings.TrimLeft(trimmed, bulletMarkers))
		if cleaned == "" {
			continue
		}

		bullets = append(bullets, cleaned)
	}

	return bullets
}

func startsWithBulletMarker(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)

	return strings.ContainsRune(bulletMarkers, r)
}
