package models

import "time"

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleProducao       UserRole = "producao"
	RoleAdministrativo UserRole = "administrativo"
	RoleEstoqueGeral   UserRole = "estoque_geral"
	RoleVisualizador   UserRole = "visualizador"
)

type Usuario struct {
	ID           uint     `gorm:"primaryKey"`
	Nome         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
