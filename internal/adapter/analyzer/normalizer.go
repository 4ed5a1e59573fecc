package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"jumanpp/internal/domain"
)

// DictionaryMode names the input conventions of an analyzer dictionary.
type DictionaryMode string

const (
	// ModeIPADIC widens half-width characters, the convention of the
	// IPA and Juman dictionaries.
	ModeIPADIC DictionaryMode = "ipadic"
	// ModeNeologd applies NFKC plus the rewrite rules of mecab-ipadic-NEologd.
	ModeNeologd DictionaryMode = "neologd"
	// ModeNone leaves text untouched.
	ModeNone DictionaryMode = "none"
)

// newlineReplacement stands in for line breaks, which the line protocol
// cannot carry inside one sentence.
const newlineReplacement = "。"

// Normalizer rewrites raw text into the canonical form of a dictionary mode.
type Normalizer struct {
	mode DictionaryMode
}

// NewNormalizer returns a Normalizer for mode. An empty mode means ipadic.
func NewNormalizer(mode string) (*Normalizer, error) {
	m := DictionaryMode(strings.ToLower(mode))
	switch m {
	case "":
		m = ModeIPADIC
	case ModeIPADIC, ModeNeologd, ModeNone:
	default:
		return nil, fmt.Errorf("%w: unknown dictionary mode %q", domain.ErrNotConfigured, mode)
	}
	return &Normalizer{mode: m}, nil
}

// Mode returns the dictionary mode.
func (n *Normalizer) Mode() DictionaryMode {
	return n.mode
}

// Normalize applies the dictionary mode to text.
func (n *Normalizer) Normalize(text string) string {
	switch n.mode {
	case ModeNone:
		return text
	case ModeNeologd:
		return normalizeNeologd(strings.ReplaceAll(text, "\n", newlineReplacement))
	default:
		return normalizeIPADIC(strings.ReplaceAll(text, "\n", newlineReplacement))
	}
}

func normalizeIPADIC(text string) string {
	out, _, err := transform.String(transform.Chain(width.Widen, norm.NFC), text)
	if err != nil {
		return text
	}
	return composeSoundMarks(out)
}

// composeSoundMarks folds a spacing (semi-)voiced sound mark into the
// preceding kana when a precomposed character exists: "カ゛" becomes "ガ".
func composeSoundMarks(text string) string {
	if !strings.ContainsAny(text, "\u309b\u309c") {
		return text
	}
	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		var combining rune
		switch r {
		case '\u309b':
			combining = '\u3099'
		case '\u309c':
			combining = '\u309a'
		}
		if combining != 0 && len(out) > 0 {
			composed := []rune(norm.NFC.String(string([]rune{out[len(out)-1], combining})))
			if len(composed) == 1 {
				out[len(out)-1] = composed[0]
				continue
			}
		}
		out = append(out, r)
	}
	return string(out)
}

var neologdReplacer = strings.NewReplacer(
	// hyphens
	"˗", "-", "֊", "-", "‐", "-", "‑", "-", "‒", "-", "–", "-", "⁃", "-", "⁻", "-", "₋", "-", "−", "-",
	// long vowel marks
	"﹣", "ー", "－", "ー", "ｰ", "ー", "—", "ー", "―", "ー", "─", "ー", "━", "ー",
	// tildes
	"~", "", "∼", "", "∾", "", "〜", "", "〰", "", "～", "",
)

func normalizeNeologd(text string) string {
	text = strings.TrimSpace(text)
	text = norm.NFKC.String(text)
	text = neologdReplacer.Replace(text)

	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	for i, r := range runes {
		if r == 'ー' && len(out) > 0 && out[len(out)-1] == 'ー' {
			continue
		}
		if unicode.IsSpace(r) {
			if len(out) == 0 || out[len(out)-1] == ' ' {
				continue
			}
			next := nextNonSpace(runes, i)
			if next == 0 || isJapanese(out[len(out)-1]) || isJapanese(next) {
				continue
			}
			out = append(out, ' ')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func nextNonSpace(runes []rune, i int) rune {
	for j := i + 1; j < len(runes); j++ {
		if !unicode.IsSpace(runes[j]) {
			return runes[j]
		}
	}
	return 0
}

func isJapanese(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) ||
		r == 'ー' || (r >= '\u3000' && r <= '\u303f') || (r >= '\uff01' && r <= '\uff0f')
}
