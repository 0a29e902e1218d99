package database

import (
	"log"

	"estoque-backend/internal/config"
	"estoque-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco de dados: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco de dados estabelecida. Migration concluída.")
}

// Migrate roda o AutoMigrate de todos os modelos. Separado do Init para que os
// testes possam usar um banco próprio.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Usuario{},
		&models.EstoqueItem{},
		&models.Movimentacao{},
		&models.PedidoPendente{},
		&models.PedidoPendenteItem{},
	)
}
