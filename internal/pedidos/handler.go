package pedidos

import (
	"errors"
	"time"

	"estoque-backend/internal/auth"
	"estoque-backend/internal/database"
	"estoque-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemPedidoRequest struct {
	TipoCJA    string `json:"tipo_cja"`
	ModeloCJA  string `json:"modelo_cja"`
	TampoTipo  string `json:"tampo_tipo"`
	Quantidade int    `json:"quantidade"`
}

type CreatePedidoRequest struct {
	OSNumber      string              `json:"os_number"`
	CidadeDestino string              `json:"cidade_destino"`
	Itens         []ItemPedidoRequest `json:"itens"`
	RegistradoPor string              `json:"registrado_por"`
}

type UpdateStatusRequest struct {
	Status    string `json:"status"`
	UpdatedBy string `json:"updated_by"`
}

// POST /api/pedidos-pendentes
// Criar um pedido pendente NÃO mexe no estoque. Duas chamadas com a mesma OS
// criam dois pedidos independentes: agrupar itens por OS é responsabilidade
// do driver de automação, antes de chamar a API.
func CreatePedidoPendenteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePedidoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.OSNumber == "" || body.CidadeDestino == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Dados do pedido incompletos")
		}
		if len(body.Itens) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Itens do pedido devem ser uma lista não vazia")
		}
		for _, item := range body.Itens {
			if item.TipoCJA == "" || item.ModeloCJA == "" || item.TampoTipo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Detalhes de item incompletos no pedido (tipo_cja, modelo_cja, tampo_tipo, quantidade são obrigatórios)")
			}
			if item.Quantidade <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Quantidade de item inválida (deve ser um número inteiro positivo)")
			}
		}

		registradoPor := body.RegistradoPor
		if registradoPor == "" {
			registradoPor = auth.CurrentUserName(c)
		}

		pedido := models.PedidoPendente{
			ID:            uuid.NewString(),
			OSNumber:      body.OSNumber,
			CidadeDestino: body.CidadeDestino,
			Status:        models.StatusPendente, // sempre começa como Pendente
			CreatedBy:     registradoPor,
			UpdatedBy:     registradoPor,
		}
		for _, item := range body.Itens {
			pedido.Itens = append(pedido.Itens, models.PedidoPendenteItem{
				TipoCJA:    item.TipoCJA,
				ModeloCJA:  item.ModeloCJA,
				TampoTipo:  item.TampoTipo,
				Quantidade: item.Quantidade,
			})
		}

		if err := database.DB.Create(&pedido).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o pedido pendente")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Pedido pendente criado com sucesso!",
			"id":      pedido.ID,
		})
	}
}

// GET /api/pedidos-pendentes
// Mais recentes primeiro (ordenação é preocupação de apresentação).
func ListPedidosPendentesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pedidos []models.PedidoPendente
		if err := database.DB.
			Preload("Itens").
			Order("created_at DESC").
			Find(&pedidos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os pedidos pendentes")
		}
		return c.JSON(pedidos)
	}
}

// PUT /api/pedidos-pendentes/:id
// Atualização de status é sinal administrativo: NUNCA deduz estoque. A baixa
// só acontece via registrar-saida-manual ou reajuste-estoque.
func UpdatePedidoStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Status é obrigatório")
		}

		updatedBy := body.UpdatedBy
		if updatedBy == "" {
			updatedBy = auth.CurrentUserName(c)
		}

		var pedido models.PedidoPendente
		if err := database.DB.First(&pedido, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Pedido não encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar o pedido")
		}

		if err := database.DB.Model(&pedido).Updates(map[string]any{
			"status":     body.Status,
			"updated_at": time.Now(),
			"updated_by": updatedBy,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o status do pedido")
		}

		return c.JSON(fiber.Map{"message": "Status do pedido " + id + " atualizado para " + body.Status})
	}
}

// DELETE /api/pedidos-pendentes/:id
// Remoção permanente e irreversível.
func DeletePedidoPendenteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var pedido models.PedidoPendente
		if err := database.DB.First(&pedido, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Pedido pendente não encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar o pedido")
		}

		if err := database.DB.Select("Itens").Delete(&pedido).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível deletar o pedido pendente")
		}

		return c.JSON(fiber.Map{"message": "Pedido pendente " + id + " deletado com sucesso!"})
	}
}
