package models

import "time"

type MovimentacaoTipo string

const (
	MovEntradaManual  MovimentacaoTipo = "Entrada - Manual"
	MovSaidaManual    MovimentacaoTipo = "Saída - Manual"
	MovSaidaPedido    MovimentacaoTipo = "Saída - Pedido"
	MovProducaoPronto MovimentacaoTipo = "Produção - Conjunto Pronto"
)

// Movimentacao: registro imutável de auditoria de toda operação que afeta o
// estoque. Nunca é atualizado nem removido; a listagem é sempre do mais
// recente para o mais antigo.
type Movimentacao struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	Timestamp time.Time        `gorm:"index;not null" json:"timestamp"`
	Tipo      MovimentacaoTipo `gorm:"size:40;index;not null" json:"tipo"`

	// Metadados de pedido (apenas para "Saída - Pedido")
	OSNumber      string `gorm:"size:50" json:"os_number,omitempty"`
	CidadeDestino string `gorm:"size:255" json:"cidade_destino,omitempty"`
	DataEmissao   string `gorm:"size:20" json:"data_emissao,omitempty"`
	PrazoEntrega  string `gorm:"size:20" json:"prazo_entrega,omitempty"`

	Descricao string `gorm:"size:255" json:"descricao,omitempty"`

	// Metadados de produção (apenas para "Produção - Conjunto Pronto")
	TipoCJA        string `gorm:"size:20" json:"tipo_cja,omitempty"`
	ModeloCJA      string `gorm:"size:20" json:"modelo_cja,omitempty"`
	TampoTipo      string `gorm:"size:20" json:"tampo_tipo,omitempty"`
	Quantidade     int    `json:"quantidade,omitempty"`
	DestinoEstoque string `gorm:"size:20" json:"destino_estoque,omitempty"`

	// Itens exatamente como solicitados na requisição (JSON), sem
	// normalização de sinal nem de chave, para fidelidade de auditoria.
	ItensJSON string `gorm:"type:jsonb" json:"-"`

	RegistradoPor string    `gorm:"size:100" json:"registrado_por"`
	CreatedAt     time.Time `json:"-"`
}
