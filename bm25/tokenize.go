package bm25

import (
	"strings"
	"unicode"

	"github.com/fwojciec/webqa"
)

// Tokenize splits text into index terms. Runs of letters and digits in
// space-delimited scripts become whole words. Runs of CJK characters become
// overlapping character bigrams, or a single unigram for a one-character run.
// Text is normalized the same way as cache keys, so full-width and
// half-width forms produce the same terms.
func Tokenize(text string) []string {
	text = webqa.NormalizeQuery(text)

	var terms []string
	var word strings.Builder
	var cjk []rune

	flushWord := func() {
		if word.Len() > 0 {
			terms = append(terms, word.String())
			word.Reset()
		}
	}
	flushCJK := func() {
		switch len(cjk) {
		case 0:
		case 1:
			terms = append(terms, string(cjk))
		default:
			for i := 0; i+1 < len(cjk); i++ {
				terms = append(terms, string(cjk[i:i+2]))
			}
		}
		cjk = cjk[:0]
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flushWord()
			cjk = append(cjk, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			flushCJK()
			word.WriteRune(r)
		default:
			flushWord()
			flushCJK()
		}
	}
	flushWord()
	flushCJK()

	return terms
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r) ||
		r == 'ー' || r == '々'
}
