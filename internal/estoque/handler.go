package estoque

import (
	"encoding/json"
	"errors"

	"estoque-backend/internal/auth"
	"estoque-backend/internal/database"
	"estoque-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ReajusteRequest struct {
	Itens         []ItemMovimentado `json:"itens"`
	TipoOperacao  string            `json:"tipo_operacao"` // adicionar | retirar
	Descricao     string            `json:"descricao"`
	RegistradoPor string            `json:"registrado_por"`
}

type SaidaManualRequest struct {
	OSNumber      string      `json:"os_number"`
	CidadeDestino string      `json:"cidade_destino"`
	DataEmissao   string      `json:"data_emissao"`
	PrazoEntrega  string      `json:"prazo_entrega"`
	Itens         []ItemSaida `json:"itens"`
	RegistradoPor string      `json:"registrado_por"`
}

type ConjuntosProntosRequest struct {
	TipoCJA        string `json:"tipo_cja"`
	ModeloCJA      string `json:"modelo_cja"`
	TampoTipo      string `json:"tampo_tipo"`
	Quantidade     int    `json:"quantidade"`
	DestinoEstoque string `json:"destino_estoque"` // local | distrito
	RegistradoPor  string `json:"registrado_por"`
}

type MovimentacaoResponse struct {
	models.Movimentacao
	Itens json.RawMessage `json:"itens"`
}

// Traduz os erros tipados do ledger para respostas HTTP.
func ledgerError(err error) error {
	var naoEncontrado *ErroItemNaoEncontrado
	if errors.As(err, &naoEncontrado) {
		return fiber.NewError(fiber.StatusNotFound, naoEncontrado.Error())
	}
	var insuficiente *ErroEstoqueInsuficiente
	if errors.As(err, &insuficiente) {
		return fiber.NewError(fiber.StatusBadRequest, insuficiente.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Erro ao processar a movimentação de estoque")
}

// registradoPor: usa o campo da requisição (automação) ou o usuário logado.
func registradoPor(c *fiber.Ctx, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return auth.CurrentUserName(c)
}

// GET /api/estoque
func ListEstoqueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var itens []models.EstoqueItem
		if err := database.DB.Order("modelo ASC").Find(&itens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar o estoque")
		}
		return c.JSON(itens)
	}
}

// GET /api/movimentacoes
// Mais recentes primeiro.
func ListMovimentacoesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var movs []models.Movimentacao
		if err := database.DB.Order("timestamp DESC").Find(&movs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as movimentações")
		}

		resp := make([]MovimentacaoResponse, 0, len(movs))
		for _, m := range movs {
			itens := json.RawMessage(m.ItensJSON)
			if len(itens) == 0 {
				itens = json.RawMessage("[]")
			}
			resp = append(resp, MovimentacaoResponse{Movimentacao: m, Itens: itens})
		}
		return c.JSON(resp)
	}
}

// POST /api/reajuste-estoque
func ReajusteEstoqueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReajusteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if len(body.Itens) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Nenhum item para processar")
		}
		if body.TipoOperacao != OperacaoAdicionar && body.TipoOperacao != OperacaoRetirar {
			return fiber.NewError(fiber.StatusBadRequest, "tipo_operacao deve ser 'adicionar' ou 'retirar'")
		}
		for _, item := range body.Itens {
			if item.Componente == "" || item.Quantidade <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Item inválido: componente ou quantidade faltando/inválida")
			}
		}

		if _, err := RegistrarReajuste(database.DB, body.Itens, body.TipoOperacao, body.Descricao, registradoPor(c, body.RegistradoPor)); err != nil {
			return ledgerError(err)
		}

		return c.JSON(fiber.Map{"message": "Movimentação de estoque registrada com sucesso!"})
	}
}

// POST /api/registrar-saida-manual
func RegistrarSaidaManualHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaidaManualRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.OSNumber == "" || body.CidadeDestino == "" || body.DataEmissao == "" || body.PrazoEntrega == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Dados do pedido incompletos")
		}
		if len(body.Itens) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Nenhum item para processar no pedido manual")
		}
		for _, item := range body.Itens {
			if _, err := ResolverModeloEstoque(item); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Item inválido no pedido manual: formato desconhecido")
			}
			if item.Quantidade <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Item inválido no pedido manual: quantidade faltando/inválida")
			}
		}

		if _, err := RegistrarSaidaManual(database.DB, body.OSNumber, body.CidadeDestino, body.DataEmissao, body.PrazoEntrega, body.Itens, registradoPor(c, body.RegistradoPor)); err != nil {
			return ledgerError(err)
		}

		return c.JSON(fiber.Map{"message": "Pedido manual processado e estoque atualizado com sucesso!"})
	}
}

// POST /api/conjuntos-prontos
func ConjuntosProntosHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ConjuntosProntosRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.TipoCJA == "" || body.ModeloCJA == "" || body.TampoTipo == "" || body.DestinoEstoque == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Dados incompletos para adicionar conjuntos prontos")
		}
		if body.Quantidade <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero")
		}
		if body.DestinoEstoque != DestinoLocal && body.DestinoEstoque != DestinoDistrito {
			return fiber.NewError(fiber.StatusBadRequest, "Destino de estoque inválido. Use 'local' ou 'distrito'")
		}

		if _, err := RegistrarProducao(database.DB, body.TipoCJA, body.ModeloCJA, body.TampoTipo, body.Quantidade, body.DestinoEstoque, registradoPor(c, body.RegistradoPor)); err != nil {
			return ledgerError(err)
		}

		return c.JSON(fiber.Map{"message": "Conjuntos prontos adicionados ao estoque com sucesso!"})
	}
}
