package automacao

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"estoque-backend/internal/config"
	"estoque-backend/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAgruparPorOSJuntaDocumentosDaMesmaOS(t *testing.T) {
	pedidos := []parser.Pedido{
		{
			OSNumber:      "4521",
			CidadeDestino: "SAO PAULO",
			Itens: []parser.ItemPedido{
				{TipoCJA: "ZURICH", ModeloCJA: "CJA-04", TampoTipo: "MDF", Quantidade: 12},
			},
			SourceDocument: "PEDIDO_4521_p1.pdf",
		},
		{
			OSNumber:      "4521",
			CidadeDestino: "SAO PAULO",
			Itens: []parser.ItemPedido{
				{TipoCJA: "ZURICH", ModeloCJA: "CJA-06", TampoTipo: "PLASTICO", Quantidade: 30},
			},
			SourceDocument: "PEDIDO_4521_p2.pdf",
		},
		{
			OSNumber:      "77",
			CidadeDestino: "CAMPINAS",
			Itens: []parser.ItemPedido{
				{TipoCJA: "MASTICMOL", ModeloCJA: "CJA-03", TampoTipo: "MASTICMOL", Quantidade: 5},
			},
			SourceDocument: "PEDIDO_77.pdf",
		},
	}

	payloads := AgruparPorOS(pedidos)

	require.Len(t, payloads, 2)
	assert.Equal(t, "4521", payloads[0].OSNumber)
	assert.Len(t, payloads[0].Itens, 2)
	assert.Equal(t, "Sistema de Automação", payloads[0].RegistradoPor)
	assert.Equal(t, "77", payloads[1].OSNumber)
	assert.Len(t, payloads[1].Itens, 1)
}

func TestAgruparPorOSIgnoraDocumentosSemItens(t *testing.T) {
	pedidos := []parser.Pedido{
		{OSNumber: "100", CidadeDestino: "N/A", SourceDocument: "vazio.pdf"},
	}

	assert.Empty(t, AgruparPorOS(pedidos))
}

func TestCicloProcessaLoteParcialQuandoBuscaFalha(t *testing.T) {
	var criados atomic.Int32
	var ultimo PedidoPendentePayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "token-1"})
		case "/api/pedidos-pendentes":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&ultimo))
			criados.Add(1)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "abc"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := &config.Config{
		APIBaseURL:         srv.URL,
		AutomationEmail:    "automacao@example.com",
		AutomationPassword: "auto123",
		PDFFolder:          filepath.Join(dir, "pdfs"),
		ProcessedFile:      filepath.Join(dir, "processed.json"),
	}

	d, err := NewDriver(cfg, zap.NewNop())
	require.NoError(t, err)

	// A conexão cai no meio do stream: um anexo já foi baixado (e o id dele
	// já entrou no conjunto de processados) quando o erro chega. Descartar o
	// lote parcial perderia o pedido para sempre, porque o próximo ciclo
	// pularia a mensagem pelo conjunto.
	d.buscarAnexos = func(*config.Config, *ProcessedSet, *zap.Logger) ([]Anexo, error) {
		return []Anexo{
			{MessageID: "<m1@mail>", Filename: "PEDIDO_4521.pdf", Data: []byte("%PDF")},
		}, errors.New("conexão interrompida")
	}
	d.extrairPaginas = func([]byte) ([]string, error) {
		return []string{"OS: 4521\nCIDADE: SAO PAULO\n12\nCONJUNTO ALUNO TAMANHO CJA-04B (TAMPO MDF)\n"}, nil
	}

	d.cycle()

	assert.EqualValues(t, 1, criados.Load())
	assert.Equal(t, "4521", ultimo.OSNumber)
	require.Len(t, ultimo.Itens, 1)
	assert.Equal(t, "CJA-04", ultimo.Itens[0].ModeloCJA)
	assert.Equal(t, 12, ultimo.Itens[0].Quantidade)
}
