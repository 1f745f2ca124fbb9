package filters

import (
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transform.Chain keeps state between calls, so chains are pooled rather
// than shared
var foldChains = sync.Pool{
	New: func() interface{} {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// Fold lowercases s and strips diacritics so "Lançamento" compares equal to "lancamento".
func Fold(s string) string {
	if isPlainLower(s) {
		return s
	}
	t := foldChains.Get().(transform.Transformer)
	defer foldChains.Put(t)

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// isPlainLower reports whether s is ASCII without upper-case letters, which
// Fold would return unchanged
func isPlainLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if b := s[i]; b >= utf8.RuneSelf || (b >= 'A' && b <= 'Z') {
			return false
		}
	}
	return true
}

// containsFolded reports whether needle (already folded) occurs in haystack
func containsFolded(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), needle)
}

// parseIntPrefix reads a leading optionally signed integer the way a browser's
// parseInt does: "3+" is 3, "abc" is not a number. Magnitudes saturate at
// math.MaxInt32.
func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n <= (math.MaxInt32-9)/10 {
			n = n*10 + int(s[i]-'0')
		} else {
			n = math.MaxInt32
		}
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
