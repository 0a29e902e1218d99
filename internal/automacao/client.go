package automacao

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"estoque-backend/internal/config"
	"estoque-backend/internal/parser"

	"go.uber.org/zap"
)

// TokenHolder: estado explícito do token de autenticação, com invalidação e
// renovação — nada de token global de processo.
type TokenHolder struct {
	mu    sync.Mutex
	token string
}

func (h *TokenHolder) Get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token
}

func (h *TokenHolder) Set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

func (h *TokenHolder) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = ""
}

// PedidoPendentePayload: um pedido agrupado por OS, pronto para a API.
type PedidoPendentePayload struct {
	OSNumber      string              `json:"os_number"`
	CidadeDestino string              `json:"cidade_destino"`
	Itens         []parser.ItemPedido `json:"itens"`
	RegistradoPor string              `json:"registrado_por"`
}

// Client fala com a fronteira da API (criação de pedidos pendentes) usando o
// usuário de automação.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
	token    TokenHolder
	log      *zap.Logger
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL:  cfg.APIBaseURL,
		email:    cfg.AutomationEmail,
		password: cfg.AutomationPassword,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

func (c *Client) login() (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.http.Post(c.baseURL+"/api/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("login falhou: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("login não retornou token")
	}
	return out.Token, nil
}

func (c *Client) ensureToken() (string, error) {
	if token := c.token.Get(); token != "" {
		return token, nil
	}
	c.log.Info("obtendo novo token de autenticação", zap.String("email", c.email))
	token, err := c.login()
	if err != nil {
		return "", err
	}
	c.token.Set(token)
	return token, nil
}

// CriarPedidoPendente envia um pedido para a fila. Em 401 o token é
// invalidado, renovado e a requisição é repetida uma única vez.
func (c *Client) CriarPedidoPendente(pedido PedidoPendentePayload) error {
	body, err := json.Marshal(pedido)
	if err != nil {
		return err
	}

	for tentativa := 0; tentativa < 2; tentativa++ {
		token, err := c.ensureToken()
		if err != nil {
			return err
		}

		req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/pedidos-pendentes", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized && tentativa == 0 {
			resp.Body.Close()
			c.log.Warn("token expirado ou inválido, forçando renovação",
				zap.String("os_number", pedido.OSNumber))
			c.token.Invalidate()
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("criação de pedido pendente falhou: status %d: %s", resp.StatusCode, respBody)
		}
		return nil
	}
	return fmt.Errorf("criação de pedido pendente falhou após renovar o token")
}
