package analyzer

import "jumanpp/internal/domain"

// ExtractMorphologicalInformation maps one analyzer morpheme to a token
// record. The POS tuple is (POS, SubPOS); conjugation and semantic fields go
// to the misc info.
func ExtractMorphologicalInformation(m domain.Morpheme, isSurface, isFeature bool) domain.TokenizedResult {
	return domain.TokenizedResult{
		WordSurface: m.Surface,
		WordStem:    m.BaseForm,
		TuplePOS:    []string{m.POS, m.SubPOS},
		IsSurface:   isSurface,
		IsFeature:   isFeature,
		Misc: domain.MiscInfo{
			ConjType:  m.ConjType,
			ConjForm:  m.ConjForm,
			Semantics: m.Semantics,
			RepName:   m.RepName,
		},
	}
}
