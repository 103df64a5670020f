package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var slugReplacer = strings.NewReplacer(
	"þ", "th", "Þ", "th",
	"ð", "d", "Ð", "d",
	"æ", "ae", "Æ", "ae",
	"ö", "o", "Ö", "o",
	"ß", "ss",
)

// Slugify turns a display title into a URL-safe slug ("Saga Íslands" -> "saga-islands").
func Slugify(s string) string {
	s = slugReplacer.Replace(s)
	s = norm.NFKD.String(s)

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
