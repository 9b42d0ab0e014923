package genre

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts a label to a URL-safe key.
// "Ação e Aventura" -> "acao-e-aventura".
// "Sci-Fi & Fantasy" -> "sci-fi-fantasy".
// "Comédias Românticas" -> "comedias-romanticas".
func Slugify(s string) string {
	// Decompose so accents become separate marks we can drop.
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		if r > unicode.MaxASCII {
			continue
		}
		r = unicode.ToLower(r)
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
