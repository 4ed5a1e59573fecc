package domain

import (
	"strconv"
	"strings"
)

// Morpheme is one analyzer output unit in Juman format.
type Morpheme struct {
	Surface    string `json:"surface"`
	Reading    string `json:"reading"`
	BaseForm   string `json:"base_form"`
	POS        string `json:"pos"`
	POSID      int    `json:"pos_id"`
	SubPOS     string `json:"sub_pos"`
	SubPOSID   int    `json:"sub_pos_id"`
	ConjType   string `json:"conj_type"`
	ConjTypeID int    `json:"conj_type_id"`
	ConjForm   string `json:"conj_form"`
	ConjFormID int    `json:"conj_form_id"`
	// Semantics is the unquoted semantic information field, empty for NIL.
	Semantics string `json:"semantics,omitempty"`
	RepName   string `json:"rep_name,omitempty"`
	// Alternatives holds homograph candidates emitted on "@" lines.
	Alternatives []Morpheme `json:"alternatives,omitempty"`
}

// JumanString renders the morpheme back to a single Juman output line.
func (m Morpheme) JumanString() string {
	sem := "NIL"
	if m.Semantics != "" {
		sem = `"` + m.Semantics + `"`
	}
	return strings.Join([]string{
		m.Surface, m.Reading, m.BaseForm,
		m.POS, strconv.Itoa(m.POSID),
		m.SubPOS, strconv.Itoa(m.SubPOSID),
		m.ConjType, strconv.Itoa(m.ConjTypeID),
		m.ConjForm, strconv.Itoa(m.ConjFormID),
		sem,
	}, " ")
}

// MorphemeList is the parsed analyzer response for one sentence.
type MorphemeList struct {
	Comment   string     `json:"comment,omitempty"`
	Morphemes []Morpheme `json:"morphemes"`
}

// Len returns the number of morphemes.
func (l *MorphemeList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Morphemes)
}

// JumanString renders the list in Juman format, terminated by EOS.
func (l *MorphemeList) JumanString() string {
	var sb strings.Builder
	if l.Comment != "" {
		sb.WriteString("# ")
		sb.WriteString(l.Comment)
		sb.WriteByte('\n')
	}
	for _, m := range l.Morphemes {
		sb.WriteString(m.JumanString())
		sb.WriteByte('\n')
		for _, alt := range m.Alternatives {
			sb.WriteString("@ ")
			sb.WriteString(alt.JumanString())
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("EOS\n")
	return sb.String()
}

// MiscInfo carries the analyzer fields that are not part of the POS tuple.
type MiscInfo struct {
	ConjType  string `json:"conj_type,omitempty"`
	ConjForm  string `json:"conj_form,omitempty"`
	Semantics string `json:"semantics,omitempty"`
	RepName   string `json:"rep_name,omitempty"`
}

// TokenizedResult is one token record of a tokenized sentence.
type TokenizedResult struct {
	WordSurface string   `json:"word_surface"`
	WordStem    string   `json:"word_stem"`
	TuplePOS    []string `json:"tuple_pos"`
	IsSurface   bool     `json:"is_surface"`
	IsFeature   bool     `json:"is_feature"`
	Misc        MiscInfo `json:"misc_info"`
}

// Word returns the surface form when the record was extracted with surface
// output, the base form otherwise.
func (r TokenizedResult) Word() string {
	if r.IsSurface {
		return r.WordSurface
	}
	return r.WordStem
}

// listEntry flattens the record into [word, pos...].
func (r TokenizedResult) listEntry() []string {
	if !r.IsFeature {
		return []string{r.Word()}
	}
	entry := make([]string, 0, 1+len(r.TuplePOS))
	entry = append(entry, r.Word())
	return append(entry, r.TuplePOS...)
}

// TokenizedSentence is the original sentence with its token records in
// analyzer emission order.
type TokenizedSentence struct {
	Sentence string            `json:"sentence"`
	Tokens   []TokenizedResult `json:"tokens"`
}

// NewTokenizedSentence copies tokens so later changes by the caller do not
// leak into the sentence.
func NewTokenizedSentence(sentence string, tokens []TokenizedResult) *TokenizedSentence {
	cp := make([]TokenizedResult, len(tokens))
	copy(cp, tokens)
	return &TokenizedSentence{Sentence: sentence, Tokens: cp}
}

// ConvertList returns the list-of-lists form of the sentence.
func (s *TokenizedSentence) ConvertList() [][]string {
	out := make([][]string, 0, len(s.Tokens))
	for _, tok := range s.Tokens {
		out = append(out, tok.listEntry())
	}
	return out
}

// POSCondition is a part-of-speech path prefix such as ["名詞"] or
// ["名詞", "固有名詞"].
type POSCondition []string

// FilteredResult is a tokenized sentence restricted by POS conditions and
// stopwords.
type FilteredResult struct {
	TokenizedSentence
	POSCondition []POSCondition `json:"pos_condition"`
	Stopwords    []string       `json:"stopwords"`
}
