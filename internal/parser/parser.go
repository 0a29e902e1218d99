package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinela para campos de cabeçalho não encontrados e tampo ausente.
const NA = "N/A"

// ItemPedido: um item de pedido já normalizado.
type ItemPedido struct {
	TipoCJA    string `json:"tipo_cja"`
	ModeloCJA  string `json:"modelo_cja"`
	TampoTipo  string `json:"tampo_tipo"`
	Quantidade int    `json:"quantidade"`
}

// Pedido: resultado da extração de um documento. Vários documentos podem
// contribuir itens para a mesma OS; o agrupamento é responsabilidade do driver
// de automação, não do parser.
type Pedido struct {
	OSNumber       string
	CidadeDestino  string
	Itens          []ItemPedido
	SourceDocument string
}

var modeloVarianteRe = regexp.MustCompile(`^([A-Z]{3}-\d+)[A-Z]?$`)

// NormalizeModelo remove a letra de variante no final do modelo
// (ex: CJA-03B -> CJA-03). O estoque é controlado só pela família canônica,
// então a dobra é intencional. Idempotente.
func NormalizeModelo(modelo string) string {
	modelo = strings.ToUpper(strings.TrimSpace(modelo))
	if m := modeloVarianteRe.FindStringSubmatch(modelo); m != nil {
		return m[1]
	}
	return modelo
}

// NormalizeTampo canoniza o tipo de tampo para o vocabulário fixo
// MDF / PLASTICO / MASTICMOL, com NA quando ausente.
// "B" é o código de fábrica para Masticmol; "PLÁSTICO" perde o acento.
func NormalizeTampo(tampo string) string {
	tampo = strings.ToUpper(strings.TrimSpace(tampo))
	switch {
	case tampo == "":
		return NA
	case tampo == "B":
		return "MASTICMOL"
	case strings.Contains(tampo, "PL"):
		return "PLASTICO"
	default:
		return tampo
	}
}

// tipoForTampo: conjuntos com tampo Masticmol são da linha MASTICMOL;
// todos os outros são ZURICH.
func tipoForTampo(tampo string) string {
	if tampo == "MASTICMOL" {
		return "MASTICMOL"
	}
	return "ZURICH"
}

// Parse percorre as páginas de texto de um documento e extrai os itens de
// pedido. Função pura: o mesmo texto produz sempre o mesmo resultado.
//
// Cabeçalho: OS e cidade são resolvidos na primeira página em que aparecem e
// depois congelados. Itens: uma linha contendo apenas um inteiro vira a
// quantidade candidata da próxima linha não vazia; se essa linha casar com um
// padrão de item, o item é emitido; caso contrário a quantidade é descartada.
// Um número solto nunca gera efeito de estoque sozinho, e itens com
// quantidade <= 0 nunca são emitidos.
func (g Grammar) Parse(pages []string, source string) Pedido {
	pedido := Pedido{
		OSNumber:       NA,
		CidadeDestino:  NA,
		SourceDocument: source,
	}

	for _, page := range pages {
		if pedido.OSNumber == NA {
			if m := g.OSPattern.FindStringSubmatch(page); m != nil {
				pedido.OSNumber = strings.TrimSpace(m[1])
			}
		}
		if pedido.CidadeDestino == NA {
			if m := g.CidadePattern.FindStringSubmatch(page); m != nil {
				pedido.CidadeDestino = strings.TrimSpace(m[1])
			}
		}

		currentQty := 0
		hasQty := false

		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)

			// Linha em branco não consome a quantidade candidata: a descrição
			// pode vir na próxima linha não vazia.
			if line == "" {
				continue
			}

			if m := g.QtyPattern.FindStringSubmatch(line); m != nil {
				qty, err := strconv.Atoi(m[1])
				if err == nil {
					currentQty = qty
					hasQty = true
				}
				continue
			}

			if !hasQty {
				continue
			}

			if item, ok := g.matchItem(line, currentQty); ok {
				pedido.Itens = append(pedido.Itens, item)
			}
			// Consumida ou não, a quantidade não sobrevive a esta linha.
			hasQty = false
		}
	}

	return pedido
}

func (g Grammar) matchItem(line string, qty int) (ItemPedido, bool) {
	for _, p := range g.Items {
		m := p.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		modelo := NormalizeModelo(m[1])
		tampo := NA
		if len(m) > 2 {
			tampo = NormalizeTampo(m[2])
		}

		if modelo == "" || qty <= 0 {
			return ItemPedido{}, false
		}

		return ItemPedido{
			TipoCJA:    tipoForTampo(tampo),
			ModeloCJA:  modelo,
			TampoTipo:  tampo,
			Quantidade: qty,
		}, true
	}
	return ItemPedido{}, false
}
