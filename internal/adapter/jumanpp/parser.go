package jumanpp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"jumanpp/internal/domain"
)

const (
	eosLine         = "EOS"
	alternativeMark = "@ "
	commentMark     = "#"
	atSignWord      = "@ @ @"
	numFields       = 11
)

var repNamePattern = regexp.MustCompile(`代表表記:(\S+)`)

// ParseMList parses one analyzer response in Juman format. Parsing stops at
// the first EOS line.
func ParseMList(text string) (*domain.MorphemeList, error) {
	list := &domain.MorphemeList{Morphemes: []domain.Morpheme{}}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == eosLine {
			break
		}
		if strings.HasPrefix(line, commentMark) {
			list.Comment = strings.TrimSpace(strings.TrimPrefix(line, commentMark))
			continue
		}
		// The "@" word itself is written as a line starting with "@ @ @".
		if strings.HasPrefix(line, alternativeMark) && !strings.HasPrefix(line, atSignWord) {
			if len(list.Morphemes) == 0 {
				return nil, fmt.Errorf("%w: line %d: alternative without a preceding morpheme", domain.ErrParse, i+1)
			}
			alt, err := parseMorpheme(strings.TrimPrefix(line, alternativeMark))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			last := &list.Morphemes[len(list.Morphemes)-1]
			last.Alternatives = append(last.Alternatives, alt)
			continue
		}

		m, err := parseMorpheme(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		list.Morphemes = append(list.Morphemes, m)
	}

	return list, nil
}

// parseMorpheme parses a single morpheme line:
//
//	surface reading base pos posID subPOS subPOSID conjType id conjForm id "semantics"
func parseMorpheme(line string) (domain.Morpheme, error) {
	fields := splitFields(line)
	if len(fields) < numFields {
		return domain.Morpheme{}, fmt.Errorf("%w: expected at least %d fields, got %d: %q", domain.ErrParse, numFields, len(fields), line)
	}

	var ids [4]int
	for i, idx := range []int{4, 6, 8, 10} {
		n, err := strconv.Atoi(fields[idx])
		if err != nil {
			return domain.Morpheme{}, fmt.Errorf("%w: field %d is not a number: %q", domain.ErrParse, idx+1, line)
		}
		ids[i] = n
	}

	m := domain.Morpheme{
		Surface:    fields[0],
		Reading:    fields[1],
		BaseForm:   fields[2],
		POS:        fields[3],
		POSID:      ids[0],
		SubPOS:     fields[5],
		SubPOSID:   ids[1],
		ConjType:   fields[7],
		ConjTypeID: ids[2],
		ConjForm:   fields[9],
		ConjFormID: ids[3],
	}
	if len(fields) > numFields {
		sem := strings.Join(fields[numFields:], " ")
		if sem != "NIL" {
			m.Semantics = sem
		}
	}
	if match := repNamePattern.FindStringSubmatch(m.Semantics); match != nil {
		m.RepName = match[1]
	}

	return m, nil
}

// splitFields splits on single spaces outside double quotes. A backslash
// escapes the following character, which is how the analyzer writes a space
// morpheme ("\ "). Escapes are kept verbatim and quotes are stripped.
func splitFields(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
		escaped  bool
		quoted   bool
	)
	flush := func() {
		fields = append(fields, current.String())
		current.Reset()
		quoted = false
	}

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			current.WriteRune(r)
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
			quoted = true
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 || quoted {
		flush()
	}
	return fields
}
