package parser

import (
	"fmt"
	"regexp"
	"sync"
)

// ItemPattern: padrão nomeado de linha de descrição de produto. A semântica de
// captura é fixa: grupo 1 = modelo (com letra de variante opcional),
// grupo 2 = tipo de tampo (opcional).
type ItemPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// Grammar: gramática declarativa de um formato de documento de pedido.
// Remetentes com layouts diferentes registram gramáticas adicionais sem tocar
// na máquina de estados de Parse.
type Grammar struct {
	Name string

	// Cabeçalho: primeiro match vence e o valor fica congelado.
	OSPattern     *regexp.Regexp
	CidadePattern *regexp.Regexp

	// Linha contendo apenas um inteiro: candidata a quantidade do próximo item.
	QtyPattern *regexp.Regexp

	// Padrões de item, testados em ordem.
	Items []ItemPattern
}

// DefaultGrammar: formato dos pedidos CJA (conjuntos escolares).
func DefaultGrammar() Grammar {
	return Grammar{
		Name:          "cja",
		OSPattern:     regexp.MustCompile(`(?i)OS\s*:?\s*(\d+)`),
		CidadePattern: regexp.MustCompile(`(?i)CIDADE\s*:?\s*([A-Z\s/]+)`),
		QtyPattern:    regexp.MustCompile(`^\s*(\d+)\s*$`),
		Items: []ItemPattern{
			{
				Name: "conjunto-cja",
				// "CONJUNTO ALUNO ..." é opcional; o modelo CJA-XX pode vir com
				// letra de variante e o tampo entre parênteses é opcional.
				Pattern: regexp.MustCompile(`(?i)(?:CONJUNTO\s+(?:ALUNO|INDIVIDUAL\s+PARA\s+ALUNO)\s+)?(CJA-(?:03|04|05|06)[A-Z]?)\s*(?:.*?\(TAMPO\s+(B|MDF|PL[AÁ]STICO)\))?`),
			},
		},
	}
}

var (
	grammarsMu sync.RWMutex
	grammars   = map[string]Grammar{}
)

func init() {
	g := DefaultGrammar()
	grammars[g.Name] = g
}

// Register adiciona (ou substitui) uma gramática de formato de documento.
func Register(g Grammar) {
	grammarsMu.Lock()
	defer grammarsMu.Unlock()
	grammars[g.Name] = g
}

// Lookup retorna a gramática registrada com o nome dado.
func Lookup(name string) (Grammar, error) {
	grammarsMu.RLock()
	defer grammarsMu.RUnlock()
	g, ok := grammars[name]
	if !ok {
		return Grammar{}, fmt.Errorf("gramática %q não registrada", name)
	}
	return g, nil
}
