package models

import "time"

// EstoqueItem: saldo atual de um componente ou conjunto pronto.
// O modelo é a chave canônica composta (ex: "TAMPO-MDF-CJA-04",
// "CONJUNTO-PRONTO-LOCAL-ZURICH-CJA-06-MDF").
// Invariante: quantidade nunca é persistida negativa.
type EstoqueItem struct {
	Modelo     string    `gorm:"primaryKey;size:80" json:"modelo"`
	Quantidade int       `gorm:"not null" json:"quantidade"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
