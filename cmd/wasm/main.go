//go:build js && wasm

package main

import (
	"strings"
	"syscall/js"

	"github.com/goccy/go-json"

	"jumanpp/internal/adapter/analyzer"
	"jumanpp/internal/adapter/jumanpp"
	"jumanpp/internal/domain"
)

func main() {
	c := make(chan struct{})

	js.Global().Set("jumanppNormalize", js.FuncOf(normalizeText))
	js.Global().Set("jumanppTokens", js.FuncOf(tokensFromAnalysis))
	js.Global().Set("jumanppFilter", js.FuncOf(filterAnalysis))

	<-c
}

func normalizeText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: jumanppNormalize(text, [mode])")
	}

	mode := ""
	if len(args) > 1 {
		mode = args[1].String()
	}
	n, err := analyzer.NewNormalizer(mode)
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"text": n.Normalize(args[0].String()),
		"mode": string(n.Mode()),
	})
}

// tokensFromAnalysis converts Juman output produced by a server-side
// analyzer into the list form.
func tokensFromAnalysis(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: jumanppTokens(analysis, [surface], [feature])")
	}

	sentence, err := parseAnalysis(args[0].String(), boolArg(args, 1), boolArg(args, 2))
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"sentence": sentence.Sentence,
		"tokens":   sentence.ConvertList(),
	})
}

func filterAnalysis(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return makeError("usage: jumanppFilter(analysis, posJSON, stopwordsJSON, [surface], [feature])")
	}

	var pos []domain.POSCondition
	if err := json.Unmarshal([]byte(args[1].String()), &pos); err != nil {
		return makeError("invalid POS conditions: " + err.Error())
	}
	var stopwords []string
	if err := json.Unmarshal([]byte(args[2].String()), &stopwords); err != nil {
		return makeError("invalid stopwords: " + err.Error())
	}

	sentence, err := parseAnalysis(args[0].String(), boolArg(args, 3), boolArg(args, 4))
	if err != nil {
		return makeError(err.Error())
	}
	filtered := analyzer.FilterWords(sentence, pos, stopwords)

	return makeResult(map[string]interface{}{
		"sentence": filtered.Sentence,
		"tokens":   filtered.ConvertList(),
		"kept":     len(filtered.Tokens),
		"dropped":  len(sentence.Tokens) - len(filtered.Tokens),
	})
}

func parseAnalysis(analysis string, surface, feature bool) (*domain.TokenizedSentence, error) {
	mlist, err := jumanpp.ParseMList(analysis)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	tokens := make([]domain.TokenizedResult, 0, mlist.Len())
	for _, m := range mlist.Morphemes {
		text.WriteString(m.Surface)
		tokens = append(tokens, analyzer.ExtractMorphologicalInformation(m, surface, feature))
	}
	return domain.NewTokenizedSentence(text.String(), tokens), nil
}

func boolArg(args []js.Value, i int) bool {
	return len(args) > i && args[i].Truthy()
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
