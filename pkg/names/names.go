// Package names turns free-form player names into comparison keys and decides
// whether two spellings can refer to the same player.
//
// Sources disagree on diacritics ("Dončić" and "Doncic"), abbreviate first
// names ("T. Kalinoski") and sometimes put the family name first
// ("KALINOSKI, TYLER"). All of them reduce to the same Name:
//
//	n := names.Parse("KALINOSKI, TYLER")
//	n.Full()    // "tyler kalinoski"
//	n.Surname() // "kalinoski"
package names

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind classifies how two names relate.
type Kind int

const (
	// NoMatch means the names cannot refer to the same player.
	NoMatch Kind = iota
	// Abbreviated means surnames agree and one leading token is the other's initial.
	Abbreviated
	// Exact means the normalized names are identical.
	Exact
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Abbreviated:
		return "abbreviated"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// suffixes are generational markers that never serve as a surname key.
var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

// Letters without a Unicode decomposition, folded by hand.
var undecomposable = strings.NewReplacer(
	"ı", "i", "ł", "l", "Ł", "L", "ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D", "ß", "ss", "æ", "ae", "Æ", "AE",
)

// Fold strips diacritics and lowercases s without touching punctuation or spacing.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, undecomposable.Replace(s))
	if err != nil {
		folded = s
	}
	return cases.Lower(language.Und).String(folded)
}

// Name is a parsed, normalized player name.
type Name struct {
	tokens []string
	suffix string
}

// Parse normalizes a raw name. "Last, First" order is turned into "First Last"
// unless the part after the comma is a generational suffix.
func Parse(raw string) Name {
	s := Fold(raw)

	if before, after, ok := strings.Cut(s, ","); ok {
		rest := strings.TrimSpace(after)
		if isSuffix(rest) {
			s = before + " " + rest
		} else if rest != "" {
			s = rest + " " + before
		}
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', '\'', '’', '`', '"':
			return -1
		case ',', '_':
			return ' '
		}
		return r
	}, s)

	var n Name
	n.tokens = strings.Fields(s)
	for len(n.tokens) > 1 && isSuffix(n.tokens[len(n.tokens)-1]) {
		n.suffix = n.tokens[len(n.tokens)-1]
		n.tokens = n.tokens[:len(n.tokens)-1]
	}
	return n
}

func isSuffix(tok string) bool {
	return suffixes[strings.Trim(tok, ". ")]
}

// Normalize is shorthand for Parse(raw).Full().
func Normalize(raw string) string {
	return Parse(raw).Full()
}

// SurnameKey is shorthand for Parse(raw).Surname().
func SurnameKey(raw string) string {
	return Parse(raw).Surname()
}

// Empty reports whether nothing usable was left after normalization.
func (n Name) Empty() bool {
	return len(n.tokens) == 0
}

// Full returns the normalized name without generational suffix.
func (n Name) Full() string {
	return strings.Join(n.tokens, " ")
}

// Surname returns the last token, the key candidates are indexed by.
func (n Name) Surname() string {
	if n.Empty() {
		return ""
	}
	return n.tokens[len(n.tokens)-1]
}

// Leading returns the first token.
func (n Name) Leading() string {
	if n.Empty() {
		return ""
	}
	return n.tokens[0]
}

// Suffix returns the generational suffix, if one was present.
func (n Name) Suffix() string {
	return n.suffix
}

// Compare applies the matching rule: surnames must agree, then either the full
// names are equal or one leading token is a single-letter initial of the other.
func (n Name) Compare(other Name) Kind {
	if n.Empty() || other.Empty() || n.Surname() != other.Surname() {
		return NoMatch
	}
	if n.Full() == other.Full() {
		return Exact
	}
	if len(n.tokens) < 2 || len(other.tokens) < 2 {
		return NoMatch
	}
	if initialOf(n.Leading(), other.Leading()) || initialOf(other.Leading(), n.Leading()) {
		return Abbreviated
	}
	return NoMatch
}

// initialOf reports whether a is a single letter abbreviating b.
func initialOf(a, b string) bool {
	ar := []rune(a)
	br := []rune(b)
	return len(ar) == 1 && len(br) > 0 && ar[0] == br[0]
}

// Compare parses both names and compares them.
func Compare(a, b string) Kind {
	return Parse(a).Compare(Parse(b))
}

// Similarity scores two names between 0 and 1 using Jaro-Winkler over their
// normalized forms. It is informational; Compare alone decides a match.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return matchr.JaroWinkler(na, nb, false)
}
