package shingle

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiPunctuation is the fixed punctuation set removed from every document.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// curlyQuotes drops single curly quotes, both as runes and as the UTF-8 bytes
// of U+2018/U+2019 read as ISO-8859-1 ("â\x80\x98", "â\x80\x99").
var curlyQuotes = strings.NewReplacer(
	"\u2018", "",
	"\u2019", "",
	"\u00e2\u0080\u0098", "",
	"\u00e2\u0080\u0099", "",
)

// Options controls how raw text becomes tokens and shingles.
type Options struct {
	// Length is the shingle window width in tokens.
	Length int
	// LineBreaksAsSpace turns '\n' into a word separator. By default '\n' is
	// deleted, joining the words on either side of it; '\r' always separates.
	LineBreaksAsSpace bool
	// Lowercase folds tokens to lower case. Matching is case-sensitive otherwise.
	Lowercase bool
	// FoldDiacritics decomposes text (NFKD) and drops combining marks, so "café" == "cafe".
	FoldDiacritics bool
	// UnicodePunctuation removes every rune in the Unicode punctuation class
	// in addition to the ASCII set (curly quotes, dashes, guillemets...).
	UnicodePunctuation bool
}

// Normalize applies line-break stripping, punctuation removal and the optional
// case and diacritic folding to text.
func Normalize(text string, opts Options) string {
	text = curlyQuotes.Replace(text)
	if opts.FoldDiacritics {
		t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(t, text); err == nil {
			text = folded
		}
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			if opts.LineBreaksAsSpace {
				sb.WriteByte(' ')
			}
		case isPunct(r, opts.UnicodePunctuation):
			// dropped, not replaced: "don't" -> "dont"
		case opts.Lowercase:
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isPunct(r rune, unicodeClass bool) bool {
	if r <= unicode.MaxASCII {
		return strings.ContainsRune(asciiPunctuation, r)
	}
	return unicodeClass && unicode.IsPunct(r)
}

// Tokenize normalizes text and splits it on whitespace.
func Tokenize(text string, opts Options) []string {
	return strings.Fields(Normalize(text, opts))
}

// Shingles returns the k-token windows of tokens joined by a single space.
// Returns nil if there are fewer than k tokens.
func Shingles(tokens []string, k int) []string {
	if k <= 0 || len(tokens) < k {
		return nil
	}
	n := len(tokens) - k + 1
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, strings.Join(tokens[i:i+k], " "))
	}
	return out
}
