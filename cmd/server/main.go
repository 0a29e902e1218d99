package main

import (
	"log"
	"strings"

	"estoque-backend/internal/auth"
	"estoque-backend/internal/config"
	"estoque-backend/internal/dashboard"
	"estoque-backend/internal/database"
	"estoque-backend/internal/estoque"
	"estoque-backend/internal/models"
	"estoque-backend/internal/pedidos"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro interno do servidor",
			})
		},
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// CORS: origens separadas por vírgula na config
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Público
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protegido
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Leituras: qualquer usuário autenticado
	protected.Get("/pedidos-pendentes", pedidos.ListPedidosPendentesHandler())
	protected.Get("/estoque", estoque.ListEstoqueHandler())
	protected.Get("/estoque/export", estoque.ExportEstoqueHandler())
	protected.Get("/movimentacoes", estoque.ListMovimentacoesHandler())
	protected.Get("/producao/resumo", dashboard.ProductionSummaryHandler())

	// Mutações do livro de estoque
	podeMexerEstoque := auth.RequireRole(models.RoleAdmin, models.RoleProducao,
		models.RoleAdministrativo, models.RoleEstoqueGeral)
	protected.Post("/reajuste-estoque", podeMexerEstoque, estoque.ReajusteEstoqueHandler())
	protected.Post("/registrar-saida-manual", podeMexerEstoque, estoque.RegistrarSaidaManualHandler())
	protected.Post("/conjuntos-prontos", podeMexerEstoque, estoque.ConjuntosProntosHandler())

	// Fila de pedidos pendentes
	protected.Post("/pedidos-pendentes", podeMexerEstoque, pedidos.CreatePedidoPendenteHandler())
	protected.Put("/pedidos-pendentes/:id",
		auth.RequireRole(models.RoleAdmin, models.RoleProducao),
		pedidos.UpdatePedidoStatusHandler())
	protected.Delete("/pedidos-pendentes/:id",
		auth.RequireRole(models.RoleAdmin),
		pedidos.DeletePedidoPendenteHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
