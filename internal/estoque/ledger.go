package estoque

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"estoque-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OperacaoAdicionar = "adicionar"
	OperacaoRetirar   = "retirar"

	DestinoLocal    = "local"
	DestinoDistrito = "distrito"
)

// ItemMovimentado: item de um reajuste, exatamente como veio na requisição.
type ItemMovimentado struct {
	Componente string `json:"componente"`
	Quantidade int    `json:"quantidade"`
}

// ItemSaida: item de uma saída manual. Ou é um conjunto pronto
// (tipo_cja/modelo_cja/tampo_tipo) ou um componente avulso.
type ItemSaida struct {
	TipoCJA    string `json:"tipo_cja,omitempty"`
	ModeloCJA  string `json:"modelo_cja,omitempty"`
	TampoTipo  string `json:"tampo_tipo,omitempty"`
	Componente string `json:"componente,omitempty"`
	Quantidade int    `json:"quantidade"`
}

// aplicarDelta soma delta ao saldo do modelo com um UPDATE condicional, nunca
// com read-modify-write na aplicação: a verificação de suficiência e o
// decremento acontecem na mesma instrução, então retiradas concorrentes não
// passam do saldo.
func aplicarDelta(tx *gorm.DB, modelo string, delta int, criarSeAusente bool) error {
	if delta < 0 {
		res := tx.Model(&models.EstoqueItem{}).
			Where("modelo = ? AND quantidade >= ?", modelo, -delta).
			Update("quantidade", gorm.Expr("quantidade + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var item models.EstoqueItem
			if err := tx.Where("modelo = ?", modelo).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ErroItemNaoEncontrado{Modelo: modelo}
				}
				return err
			}
			return &ErroEstoqueInsuficiente{
				Modelo:     modelo,
				Disponivel: item.Quantidade,
				Solicitado: -delta,
			}
		}
		return nil
	}

	res := tx.Model(&models.EstoqueItem{}).
		Where("modelo = ?", modelo).
		Update("quantidade", gorm.Expr("quantidade + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Só operações aditivas com quantidade positiva criam item novo.
		if !criarSeAusente || delta <= 0 {
			return &ErroItemNaoEncontrado{Modelo: modelo}
		}
		return tx.Create(&models.EstoqueItem{Modelo: modelo, Quantidade: delta}).Error
	}
	return nil
}

// RegistrarReajuste aplica um lote de ajustes manuais (adicionar/retirar) e
// grava exatamente uma Movimentacao. Tudo ou nada: qualquer item com saldo
// insuficiente ou modelo desconhecido desfaz o lote inteiro.
func RegistrarReajuste(db *gorm.DB, itens []ItemMovimentado, tipoOperacao, descricao, registradoPor string) (*models.Movimentacao, error) {
	tipo := models.MovEntradaManual
	if tipoOperacao == OperacaoRetirar {
		tipo = models.MovSaidaManual
	}

	itensJSON, err := json.Marshal(itens)
	if err != nil {
		return nil, err
	}

	mov := &models.Movimentacao{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		Tipo:          tipo,
		Descricao:     descricao,
		ItensJSON:     string(itensJSON),
		RegistradoPor: registradoPor,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, item := range itens {
			delta := item.Quantidade
			if tipoOperacao == OperacaoRetirar {
				delta = -delta
			}
			if err := aplicarDelta(tx, item.Componente, delta, tipoOperacao == OperacaoAdicionar); err != nil {
				return err
			}
		}
		return tx.Create(mov).Error
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ResolverModeloEstoque traduz um item de saída para a chave canônica do
// estoque: conjunto pronto composto (saídas manuais saem sempre do estoque
// LOCAL) ou componente avulso.
func ResolverModeloEstoque(item ItemSaida) (string, error) {
	if item.ModeloCJA != "" && item.TampoTipo != "" {
		tipo := item.TipoCJA
		if tipo == "" {
			tipo = "ZURICH"
		}
		return fmt.Sprintf("CONJUNTO-PRONTO-LOCAL-%s-%s-%s",
			strings.ToUpper(tipo), strings.ToUpper(item.ModeloCJA), strings.ToUpper(item.TampoTipo)), nil
	}
	if item.Componente != "" {
		return item.Componente, nil
	}
	return "", errors.New("item inválido: formato desconhecido")
}

// RegistrarSaidaManual dá baixa nos itens de um pedido (OS) e grava uma única
// Movimentacao "Saída - Pedido" com os metadados do pedido e os itens
// ORIGINAIS da requisição, mesmo que a mutação use a chave resolvida.
func RegistrarSaidaManual(db *gorm.DB, osNumber, cidadeDestino, dataEmissao, prazoEntrega string, itens []ItemSaida, registradoPor string) (*models.Movimentacao, error) {
	itensJSON, err := json.Marshal(itens)
	if err != nil {
		return nil, err
	}

	mov := &models.Movimentacao{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		Tipo:          models.MovSaidaPedido,
		OSNumber:      osNumber,
		CidadeDestino: cidadeDestino,
		DataEmissao:   dataEmissao,
		PrazoEntrega:  prazoEntrega,
		ItensJSON:     string(itensJSON),
		RegistradoPor: registradoPor,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, item := range itens {
			modelo, err := ResolverModeloEstoque(item)
			if err != nil {
				return err
			}
			// Retirada contra modelo ausente é erro, nunca criação implícita.
			if err := aplicarDelta(tx, modelo, -item.Quantidade, false); err != nil {
				return err
			}
		}
		return tx.Create(mov).Error
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RegistrarProducao adiciona conjuntos prontos ao estoque (criando o modelo
// composto se ainda não existir) e grava a Movimentacao de produção.
func RegistrarProducao(db *gorm.DB, tipoCJA, modeloCJA, tampoTipo string, quantidade int, destinoEstoque, registradoPor string) (*models.Movimentacao, error) {
	modelo := fmt.Sprintf("CONJUNTO-PRONTO-%s-%s-%s-%s",
		strings.ToUpper(destinoEstoque), strings.ToUpper(tipoCJA),
		strings.ToUpper(modeloCJA), strings.ToUpper(tampoTipo))

	itensJSON, err := json.Marshal([]ItemMovimentado{{Componente: modelo, Quantidade: quantidade}})
	if err != nil {
		return nil, err
	}

	mov := &models.Movimentacao{
		ID:             uuid.NewString(),
		Timestamp:      time.Now(),
		Tipo:           models.MovProducaoPronto,
		TipoCJA:        strings.ToUpper(tipoCJA),
		ModeloCJA:      strings.ToUpper(modeloCJA),
		TampoTipo:      strings.ToUpper(tampoTipo),
		Quantidade:     quantidade,
		DestinoEstoque: strings.ToLower(destinoEstoque),
		ItensJSON:      string(itensJSON),
		RegistradoPor:  registradoPor,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := aplicarDelta(tx, modelo, quantidade, true); err != nil {
			return err
		}
		return tx.Create(mov).Error
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}
