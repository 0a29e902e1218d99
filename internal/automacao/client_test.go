package automacao

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"estoque-backend/internal/config"
	"estoque-backend/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func payloadDeTeste() PedidoPendentePayload {
	return PedidoPendentePayload{
		OSNumber:      "4521",
		CidadeDestino: "SAO PAULO",
		Itens: []parser.ItemPedido{
			{TipoCJA: "ZURICH", ModeloCJA: "CJA-04", TampoTipo: "MDF", Quantidade: 12},
		},
		RegistradoPor: "Sistema de Automação",
	}
}

func novoClientDeTeste(url string) *Client {
	return NewClient(&config.Config{
		APIBaseURL:         url,
		AutomationEmail:    "automacao@example.com",
		AutomationPassword: "auto123",
	}, zap.NewNop())
}

func TestClientCriaPedidoComToken(t *testing.T) {
	var logins, criados atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			logins.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"token": "token-1"})
		case "/api/pedidos-pendentes":
			require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			criados.Add(1)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "abc"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := novoClientDeTeste(srv.URL)

	require.NoError(t, c.CriarPedidoPendente(payloadDeTeste()))
	require.NoError(t, c.CriarPedidoPendente(payloadDeTeste()))

	// O token é reutilizado entre chamadas: um único login.
	assert.EqualValues(t, 1, logins.Load())
	assert.EqualValues(t, 2, criados.Load())
}

func TestClientRenovaTokenEm401(t *testing.T) {
	var logins atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			n := logins.Add(1)
			token := "expirado"
			if n > 1 {
				token = "renovado"
			}
			json.NewEncoder(w).Encode(map[string]string{"token": token})
		case "/api/pedidos-pendentes":
			if r.Header.Get("Authorization") != "Bearer renovado" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "abc"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := novoClientDeTeste(srv.URL)

	require.NoError(t, c.CriarPedidoPendente(payloadDeTeste()))
	assert.EqualValues(t, 2, logins.Load())
}

func TestClientPropagaErroDeValidacao(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "token-1"})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := novoClientDeTeste(srv.URL)

	err := c.CriarPedidoPendente(payloadDeTeste())
	assert.Error(t, err)
}

func TestTokenHolder(t *testing.T) {
	var h TokenHolder
	assert.Empty(t, h.Get())
	h.Set("abc")
	assert.Equal(t, "abc", h.Get())
	h.Invalidate()
	assert.Empty(t, h.Get())
}
