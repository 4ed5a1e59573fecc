package jumanpp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jumanpp/internal/domain"
)

const sampleOutput = `# S-ID:1
すもも すもも すもも 名詞 6 普通名詞 1 * 0 * 0 "代表表記:すもも/すもも カテゴリ:植物"
も も も 助詞 9 副助詞 2 * 0 * 0 NIL
もも もも もも 名詞 6 普通名詞 1 * 0 * 0 "代表表記:桃/もも 漢字読み:訓 カテゴリ:植物"
@ もも もも もも 名詞 6 普通名詞 1 * 0 * 0 "代表表記:股/もも カテゴリ:動物-部位"
食べた たべた 食べる 動詞 2 * 0 母音動詞 1 タ形 10 "代表表記:食べる/たべる"
EOS
`

func TestParseMList(t *testing.T) {
	list, err := ParseMList(sampleOutput)
	require.NoError(t, err)

	assert.Equal(t, "S-ID:1", list.Comment)
	require.Len(t, list.Morphemes, 4)

	first := list.Morphemes[0]
	assert.Equal(t, "すもも", first.Surface)
	assert.Equal(t, "名詞", first.POS)
	assert.Equal(t, 6, first.POSID)
	assert.Equal(t, "普通名詞", first.SubPOS)
	assert.Equal(t, "代表表記:すもも/すもも カテゴリ:植物", first.Semantics)
	assert.Equal(t, "すもも/すもも", first.RepName)

	assert.Empty(t, list.Morphemes[1].Semantics)
	assert.Empty(t, list.Morphemes[1].RepName)

	require.Len(t, list.Morphemes[2].Alternatives, 1)
	assert.Equal(t, "股/もも", list.Morphemes[2].Alternatives[0].RepName)

	verb := list.Morphemes[3]
	assert.Equal(t, "食べた", verb.Surface)
	assert.Equal(t, "たべた", verb.Reading)
	assert.Equal(t, "食べる", verb.BaseForm)
	assert.Equal(t, "母音動詞", verb.ConjType)
	assert.Equal(t, 1, verb.ConjTypeID)
	assert.Equal(t, "タ形", verb.ConjForm)
	assert.Equal(t, 10, verb.ConjFormID)
}

func TestParseMList_StopsAtEOS(t *testing.T) {
	list, err := ParseMList("も も も 助詞 9 副助詞 2 * 0 * 0 NIL\nEOS\nすもも すもも すもも 名詞 6 普通名詞 1 * 0 * 0 NIL\nEOS\n")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())
}

func TestParseMList_SpaceMorpheme(t *testing.T) {
	list, err := ParseMList(`\  \  \  特殊 1 空白 6 * 0 * 0 NIL` + "\nEOS")
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
	m := list.Morphemes[0]
	assert.Equal(t, `\ `, m.Surface)
	assert.Equal(t, "特殊", m.POS)
	assert.Equal(t, "空白", m.SubPOS)
}

func TestParseMList_EscapedQuote(t *testing.T) {
	list, err := ParseMList(`\" \" \" 特殊 1 括弧始 3 * 0 * 0 NIL`)
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, `\"`, list.Morphemes[0].Surface)
	assert.Equal(t, "括弧始", list.Morphemes[0].SubPOS)
}

func TestParseMList_Empty(t *testing.T) {
	list, err := ParseMList("EOS")
	require.NoError(t, err)
	assert.NotNil(t, list.Morphemes)
	assert.Equal(t, 0, list.Len())
}

func TestParseMList_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", "すもも すもも すもも 名詞\nEOS"},
		{"non-numeric id", "すもも すもも すもも 名詞 x 普通名詞 1 * 0 * 0 NIL\nEOS"},
		{"orphan alternative", "@ すもも すもも すもも 名詞 6 普通名詞 1 * 0 * 0 NIL\nEOS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMList(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrParse))
		})
	}
}

func TestParseMList_AtSignWord(t *testing.T) {
	const atLine = "@ @ @ 特殊 1 記号 5 * 0 * 0 NIL"

	list, err := ParseMList(atLine + "\nEOS\n")
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, "@", list.Morphemes[0].Surface)
	assert.Equal(t, "記号", list.Morphemes[0].SubPOS)

	list, err = ParseMList("犬 いぬ 犬 名詞 6 普通名詞 1 * 0 * 0 NIL\n" + atLine + "\nEOS\n")
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())
	assert.Empty(t, list.Morphemes[0].Alternatives)
	assert.Equal(t, "@", list.Morphemes[1].Surface)
}

func TestParseMList_JumanRoundTrip(t *testing.T) {
	list, err := ParseMList(sampleOutput)
	require.NoError(t, err)

	again, err := ParseMList(list.JumanString())
	require.NoError(t, err)
	assert.Equal(t, list, again)
}
