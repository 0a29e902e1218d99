package models

import "time"

type PedidoStatus string

const (
	StatusPendente    PedidoStatus = "Pendente"
	StatusEmAndamento PedidoStatus = "Em Andamento"
	StatusFeito       PedidoStatus = "Feito"
	StatusCancelado   PedidoStatus = "Cancelado"
)

// PedidoPendente: pedido aceito na fila mas ainda não refletido como baixa de
// estoque. Mudança de status é sinal administrativo e NUNCA mexe no estoque;
// a baixa acontece só via saída manual ou reajuste.
type PedidoPendente struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id"`
	OSNumber      string       `gorm:"size:50;index;not null" json:"os_number"`
	CidadeDestino string       `gorm:"size:255;not null" json:"cidade_destino"`
	Status        PedidoStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	CreatedBy     string       `gorm:"size:100" json:"created_by"`
	UpdatedAt     time.Time    `json:"updated_at"`
	UpdatedBy     string       `gorm:"size:100" json:"updated_by"`

	Itens []PedidoPendenteItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE" json:"itens"`
}

type PedidoPendenteItem struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	PedidoID   string `gorm:"size:36;index;not null" json:"-"`
	TipoCJA    string `gorm:"size:20;not null" json:"tipo_cja"`
	ModeloCJA  string `gorm:"size:20;not null" json:"modelo_cja"`
	TampoTipo  string `gorm:"size:20;not null" json:"tampo_tipo"`
	Quantidade int    `gorm:"not null" json:"quantidade"`
}
