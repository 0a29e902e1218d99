package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeModelo(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CJA-03B", "CJA-03"},
		{"CJA-04", "CJA-04"},
		{"cja-06a", "CJA-06"},
		{" CJA-05 ", "CJA-05"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeModelo(tt.in), "entrada %q", tt.in)
	}
}

func TestNormalizeModeloIdempotente(t *testing.T) {
	for _, modelo := range []string{"CJA-03B", "CJA-04", "CJA-06A"} {
		once := NormalizeModelo(modelo)
		assert.Equal(t, once, NormalizeModelo(once))
	}
}

func TestNormalizeTampo(t *testing.T) {
	assert.Equal(t, "MASTICMOL", NormalizeTampo("B"))
	assert.Equal(t, "PLASTICO", NormalizeTampo("PLÁSTICO"))
	assert.Equal(t, "PLASTICO", NormalizeTampo("plastico"))
	assert.Equal(t, "MDF", NormalizeTampo("MDF"))
	assert.Equal(t, NA, NormalizeTampo(""))
	// Idempotente sobre o vocabulário canônico
	assert.Equal(t, "PLASTICO", NormalizeTampo("PLASTICO"))
	assert.Equal(t, "MASTICMOL", NormalizeTampo("MASTICMOL"))
}

func TestParseDocumentoDuasPaginas(t *testing.T) {
	g := DefaultGrammar()

	pages := []string{
		"PEDIDO DE COMPRA\nOS: 4521\nCIDADE: SAO PAULO\n",
		"12\nCONJUNTO ALUNO TAMANHO CJA-04B (TAMPO MDF)\n",
	}

	pedido := g.Parse(pages, "PEDIDO_4521.pdf")

	assert.Equal(t, "4521", pedido.OSNumber)
	require.Len(t, pedido.Itens, 1)
	assert.Equal(t, ItemPedido{
		TipoCJA:    "ZURICH",
		ModeloCJA:  "CJA-04",
		TampoTipo:  "MDF",
		Quantidade: 12,
	}, pedido.Itens[0])
	assert.Equal(t, "PEDIDO_4521.pdf", pedido.SourceDocument)
}

func TestParseCabecalhoCongeladoNaPrimeiraOcorrencia(t *testing.T) {
	g := DefaultGrammar()

	pages := []string{
		"OS: 100\n",
		"OS: 999\n5\nCJA-03 (TAMPO PLÁSTICO)\n",
	}

	pedido := g.Parse(pages, "doc.pdf")

	assert.Equal(t, "100", pedido.OSNumber)
	require.Len(t, pedido.Itens, 1)
	assert.Equal(t, "PLASTICO", pedido.Itens[0].TampoTipo)
}

func TestParseCabecalhoAusenteUsaSentinela(t *testing.T) {
	g := DefaultGrammar()

	pedido := g.Parse([]string{"3\nCJA-06 (TAMPO B)\n"}, "doc.pdf")

	assert.Equal(t, NA, pedido.OSNumber)
	assert.Equal(t, NA, pedido.CidadeDestino)
	require.Len(t, pedido.Itens, 1)
	assert.Equal(t, "MASTICMOL", pedido.Itens[0].TampoTipo)
	assert.Equal(t, "MASTICMOL", pedido.Itens[0].TipoCJA)
}

func TestParseTampoAusente(t *testing.T) {
	g := DefaultGrammar()

	pedido := g.Parse([]string{"7\nCONJUNTO ALUNO CJA-05\n"}, "doc.pdf")

	require.Len(t, pedido.Itens, 1)
	assert.Equal(t, NA, pedido.Itens[0].TampoTipo)
	assert.Equal(t, "ZURICH", pedido.Itens[0].TipoCJA)
}

func TestParseQuantidadeSemDescricaoNaoEmiteItem(t *testing.T) {
	g := DefaultGrammar()

	// Número solto seguido de linha que não é item: quantidade descartada.
	pedido := g.Parse([]string{"42\nOBSERVACOES GERAIS\n8\nCJA-04 (TAMPO MDF)\n"}, "doc.pdf")

	require.Len(t, pedido.Itens, 1)
	assert.Equal(t, 8, pedido.Itens[0].Quantidade)
}

func TestParseQuantidadeSobreviveLinhaEmBranco(t *testing.T) {
	g := DefaultGrammar()

	pedido := g.Parse([]string{"4\n\nCJA-03 (TAMPO MDF)\n"}, "doc.pdf")

	require.Len(t, pedido.Itens, 1)
	assert.Equal(t, 4, pedido.Itens[0].Quantidade)
}

func TestParseDescricaoSemQuantidadeNaoEmiteItem(t *testing.T) {
	g := DefaultGrammar()

	pedido := g.Parse([]string{"CJA-04 (TAMPO MDF)\n"}, "doc.pdf")

	assert.Empty(t, pedido.Itens)
}

func TestParseQuantidadeZeroNaoEmiteItem(t *testing.T) {
	g := DefaultGrammar()

	pedido := g.Parse([]string{"0\nCJA-04 (TAMPO MDF)\n"}, "doc.pdf")

	assert.Empty(t, pedido.Itens)
}

func TestParseVariosItens(t *testing.T) {
	g := DefaultGrammar()

	page := "OS: 77\nCIDADE: CAMPINAS\n" +
		"10\nCONJUNTO ALUNO CJA-06 (TAMPO PLASTICO)\n" +
		"20\nCONJUNTO INDIVIDUAL PARA ALUNO CJA-03A (TAMPO MDF)\n"

	pedido := g.Parse([]string{page}, "doc.pdf")

	assert.Equal(t, "77", pedido.OSNumber)
	assert.Equal(t, "CAMPINAS", pedido.CidadeDestino)
	require.Len(t, pedido.Itens, 2)
	assert.Equal(t, ItemPedido{TipoCJA: "ZURICH", ModeloCJA: "CJA-06", TampoTipo: "PLASTICO", Quantidade: 10}, pedido.Itens[0])
	assert.Equal(t, ItemPedido{TipoCJA: "ZURICH", ModeloCJA: "CJA-03", TampoTipo: "MDF", Quantidade: 20}, pedido.Itens[1])
}

func TestParseDeterministico(t *testing.T) {
	g := DefaultGrammar()
	pages := []string{"OS: 4521\n12\nCONJUNTO ALUNO CJA-04B (TAMPO MDF)\n"}

	primeiro := g.Parse(pages, "doc.pdf")
	segundo := g.Parse(pages, "doc.pdf")

	assert.Equal(t, primeiro, segundo)
}

func TestLookupGramatica(t *testing.T) {
	g, err := Lookup("cja")
	require.NoError(t, err)
	assert.Equal(t, "cja", g.Name)

	_, err = Lookup("formato-inexistente")
	assert.Error(t, err)
}
