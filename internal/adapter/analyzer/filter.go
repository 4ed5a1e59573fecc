package analyzer

import "jumanpp/internal/domain"

// FilterWords keeps the tokens whose POS tuple starts with one of validPOS
// and whose surface and base form are both outside stopwords. An empty
// validPOS or stopwords list disables that check.
func FilterWords(sentence *domain.TokenizedSentence, validPOS []domain.POSCondition, stopwords []string) *domain.FilteredResult {
	stops := make(map[string]struct{}, len(stopwords))
	for _, s := range stopwords {
		stops[s] = struct{}{}
	}

	kept := make([]domain.TokenizedResult, 0, len(sentence.Tokens))
	for _, tok := range sentence.Tokens {
		if len(validPOS) > 0 && !matchesPOS(tok.TuplePOS, validPOS) {
			continue
		}
		if isStopword(tok, stops) {
			continue
		}
		kept = append(kept, tok)
	}

	return &domain.FilteredResult{
		TokenizedSentence: *domain.NewTokenizedSentence(sentence.Sentence, kept),
		POSCondition:      validPOS,
		Stopwords:         stopwords,
	}
}

// matchesPOS reports whether any condition is a prefix of pos.
func matchesPOS(pos []string, conditions []domain.POSCondition) bool {
	for _, cond := range conditions {
		if len(cond) > len(pos) {
			continue
		}
		matched := true
		for i, c := range cond {
			if pos[i] != c {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func isStopword(tok domain.TokenizedResult, stops map[string]struct{}) bool {
	if len(stops) == 0 {
		return false
	}
	if _, ok := stops[tok.WordSurface]; ok {
		return true
	}
	_, ok := stops[tok.WordStem]
	return ok
}
