package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "ascii lower", input: "Golang Developer", want: "golang developer"},
		{name: "portuguese accents", input: "Posição de Programação", want: "posicao de programacao"},
		{name: "cedilla upper", input: "REQUISIÇÕES", want: "requisicoes"},
		{name: "already decomposed", input: "Café", want: "cafe"},
		{name: "keeps symbols", input: "C++ & C#", want: "c++ & c#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Responsabilidades e Atribuições",
		"İstanbul ÅNGSTRÖM naïve façade",
		"Café   Ünïcödé",
		strings.Repeat("Ação ", 20),
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestFoldedIndexMapsBackToOriginal(t *testing.T) {
	t.Parallel()

	text := "Sobre nós\nRESPONSABILIDADES:\n- Criar APIs"
	f := Fold(text)

	start, end := f.Index("responsabilidades")
	if assert.GreaterOrEqual(t, start, 0) {
		assert.Equal(t, "RESPONSABILIDADES", text[start:end])
	}

	start, end = f.Index("nos")
	if assert.GreaterOrEqual(t, start, 0) {
		assert.Equal(t, "nós", text[start:end])
	}

	start, end = f.Index("missing heading")
	assert.Equal(t, -1, start)
	assert.Equal(t, -1, end)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "açã", Truncate("ação", 3))
}
